package profiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/csvw-ontomap/csvw"
)

func series(values ...string) Series {
	return Series{Name: "col", Values: values}
}

func TestDescribeNumeric(t *testing.T) {
	stats := Describe(series("40", "52", "61", "70", "45", "58"))

	assert.Equal(t, KindNumeric, stats.Kind)
	assert.Equal(t, 6, stats.Count)
	assert.Equal(t, 40.0, stats.Min)
	assert.Equal(t, 70.0, stats.Max)
	assert.True(t, stats.Integer)
	assert.Equal(t, "40", stats.MinToken())
}

func TestDescribeMissingValues(t *testing.T) {
	stats := Describe(series("1.5", "", "NA", "2.5", "nan", "3", "4", "5", "6"))

	assert.Equal(t, KindNumeric, stats.Kind)
	assert.Equal(t, 6, stats.Count)
	assert.Equal(t, 3, stats.Missing)
	assert.False(t, stats.Integer)
	assert.Equal(t, "1.5", stats.MinToken())
}

func TestDescribeAllMissing(t *testing.T) {
	stats := Describe(series("", "NA", "null"))
	assert.Equal(t, KindUnsupported, stats.Kind)
	assert.Equal(t, csvw.String(), ColumnDatatype(stats))
}

func TestDescribeLowCardinalityNumericIsCategorical(t *testing.T) {
	stats := Describe(series("1", "0", "1", "0", "10", "2"))

	assert.Equal(t, KindCategorical, stats.Kind)
	assert.Equal(t, []string{"0", "1", "2", "10"}, stats.Sorted, "sorted numerically")
}

func TestDescribeBoolean(t *testing.T) {
	stats := Describe(series("true", "false", "", "true"))
	assert.Equal(t, KindBoolean, stats.Kind)
	assert.Equal(t, []string{"true", "false"}, stats.Observed)

	stats = Describe(series("N", "Y", "N"))
	assert.Equal(t, KindBoolean, stats.Kind)
	assert.Equal(t, []string{"N", "Y"}, stats.Observed)
}

func TestDescribeCategoricalAndText(t *testing.T) {
	stats := Describe(series("M", "F", "M", "M", "F", "F"))
	assert.Equal(t, KindCategorical, stats.Kind)
	assert.Equal(t, []string{"F", "M"}, stats.Sorted)

	stats = Describe(series("Alice", "Bob", "Carla"))
	assert.Equal(t, KindText, stats.Kind)
}

func TestColumnDatatype(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   csvw.Datatype
	}{
		{
			name:   "integer",
			values: []string{"40", "52", "61", "70", "45", "58"},
			want:   csvw.Numeric(csvw.BaseInteger, 40, 70),
		},
		{
			name:   "negative minimum is a number",
			values: []string{"-3", "1", "2", "3", "4", "5"},
			want:   csvw.Numeric(csvw.BaseNumber, -3, 5),
		},
		{
			name:   "decimal values are numbers",
			values: []string{"0.5", "1", "2", "3", "4", "5.25"},
			want:   csvw.Numeric(csvw.BaseNumber, 0.5, 5.25),
		},
		{
			name:   "float column with integral minimum is a number",
			values: []string{"1", "2.5", "3", "4", "5", "6"},
			want:   csvw.Numeric(csvw.BaseNumber, 1, 6),
		},
		{
			name:   "categorical",
			values: []string{"NAP", "ATA", "ASY", "ATA", "NAP", "ATA", "ASY"},
			want:   csvw.Enumerated(csvw.BaseString, "ASY|ATA|NAP"),
		},
		{
			name:   "boolean keeps appearance order",
			values: []string{"false", "true", "false"},
			want:   csvw.Enumerated(csvw.BaseBoolean, "false|true"),
		},
		{
			name:   "text",
			values: []string{"a", "b", "c", "d"},
			want:   csvw.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ColumnDatatype(Describe(series(tt.values...))))
		})
	}
}

func TestIsDigits(t *testing.T) {
	assert.True(t, isDigits("40"))
	assert.False(t, isDigits("-40"))
	assert.False(t, isDigits("40.0"))
	assert.False(t, isDigits(""))
}
