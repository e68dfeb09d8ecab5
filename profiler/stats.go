package profiler

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Kind is the semantic type detected for a column.
type Kind string

// Detected column types.
const (
	KindNumeric     Kind = "Numeric"
	KindCategorical Kind = "Categorical"
	KindBoolean     Kind = "Boolean"
	KindText        Kind = "Text"
	KindUnsupported Kind = "Unsupported"
)

// Detection thresholds.
const (
	// LowCategoricalThreshold is the largest number of distinct values for
	// which a numeric column is reported as categorical.
	LowCategoricalThreshold = 5
	// CardinalityThreshold is the largest number of distinct values a
	// categorical text column may have.
	CardinalityThreshold = 50
	// CategoricalRatio is the largest distinct/present ratio of a
	// categorical text column.
	CategoricalRatio = 0.5
)

// missingTokens are cell values treated as absent.
var missingTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

// booleanTokens are the case-insensitive spellings of a boolean column.
var booleanTokens = map[string]bool{
	"true": true, "false": true,
	"t": true, "f": true,
	"yes": true, "no": true,
	"y": true, "n": true,
}

// ColumnStats summarizes one column.
type ColumnStats struct {
	Name     string
	Kind     Kind
	Count    int
	Missing  int
	Distinct int

	// Min and Max are set for numeric columns.
	Min, Max float64
	// Integer is true when every numeric value is an integer literal.
	Integer bool

	// Sorted holds the distinct values in value order: numerically for
	// numeric data, lexically otherwise.
	Sorted []string
	// Observed holds the distinct raw values in order of first appearance.
	Observed []string
}

// MinToken is the smallest value rendered the way the column stores it.
// Integer columns give "40", float columns "40.0".
func (s ColumnStats) MinToken() string {
	if s.Integer {
		return strconv.FormatInt(int64(s.Min), 10)
	}
	return formatFloat(s.Min)
}

// Describe computes the statistics of a series.
func Describe(series Series) ColumnStats {
	stats := ColumnStats{Name: series.Name}

	var present []string
	for _, raw := range series.Values {
		v := strings.TrimSpace(raw)
		if missingTokens[v] {
			stats.Missing++
			continue
		}
		present = append(present, v)
	}
	stats.Count = len(present)
	if stats.Count == 0 {
		stats.Kind = KindUnsupported
		return stats
	}

	seen := make(map[string]bool)
	for _, v := range present {
		if !seen[v] {
			seen[v] = true
			stats.Observed = append(stats.Observed, v)
		}
	}

	switch {
	case allBoolean(stats.Observed):
		stats.Kind = KindBoolean
		stats.Distinct = len(stats.Observed)
		stats.Sorted = sortedStrings(stats.Observed)
	case describeNumeric(&stats, present):
		if stats.Distinct <= LowCategoricalThreshold {
			stats.Kind = KindCategorical
		} else {
			stats.Kind = KindNumeric
		}
	default:
		stats.Distinct = len(stats.Observed)
		stats.Sorted = sortedStrings(stats.Observed)
		ratio := float64(stats.Distinct) / float64(stats.Count)
		if stats.Distinct <= CardinalityThreshold && ratio <= CategoricalRatio {
			stats.Kind = KindCategorical
		} else {
			stats.Kind = KindText
		}
	}
	return stats
}

// describeNumeric fills the numeric fields and reports whether every value
// parsed as a finite number.
func describeNumeric(stats *ColumnStats, present []string) bool {
	values := make(map[float64]bool)
	integer := true
	first := true
	for _, v := range present {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
		if _, err := strconv.ParseInt(v, 10, 64); err != nil {
			integer = false
		}
		if first || f < stats.Min {
			stats.Min = f
		}
		if first || f > stats.Max {
			stats.Max = f
		}
		first = false
		values[f] = true
	}

	sorted := make([]float64, 0, len(values))
	for f := range values {
		sorted = append(sorted, f)
	}
	sort.Float64s(sorted)

	stats.Integer = integer
	stats.Distinct = len(sorted)
	stats.Sorted = make([]string, len(sorted))
	for i, f := range sorted {
		if integer {
			stats.Sorted[i] = strconv.FormatInt(int64(f), 10)
		} else {
			stats.Sorted[i] = formatFloat(f)
		}
	}
	return true
}

func allBoolean(values []string) bool {
	for _, v := range values {
		if !booleanTokens[strings.ToLower(v)] {
			return false
		}
	}
	return true
}

func sortedStrings(values []string) []string {
	out := append([]string(nil), values...)
	sort.Strings(out)
	return out
}

// formatFloat renders f with at least one decimal place.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
