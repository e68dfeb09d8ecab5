package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"onto.owl", FormatRDFXML, true},
		{"https://example.org/onto.ttl", FormatTurtle, true},
		{"https://example.org/onto.nt?version=2", FormatNTriples, true},
		{"data/ONTO.RDF", FormatRDFXML, true},
		{"https://example.org/ontology", "", false},
		{"onto.json", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatForPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatForMediaType(t *testing.T) {
	got, ok := FormatForMediaType("text/turtle; charset=utf-8")
	assert.True(t, ok)
	assert.Equal(t, FormatTurtle, got)

	_, ok = FormatForMediaType("text/html")
	assert.False(t, ok)
}

func TestGetFormat(t *testing.T) {
	info, err := GetFormat("Turtle")
	require.NoError(t, err)
	assert.Equal(t, "text/turtle", info.MIMEType)

	_, err = GetFormat("jsonld")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestListFormats(t *testing.T) {
	assert.Equal(t, []Format{FormatNTriples, FormatRDFXML, FormatTurtle}, ListFormats())
}

func TestAcceptHeaderPrefersDefault(t *testing.T) {
	assert.Equal(t, "application/rdf+xml, application/n-triples;q=0.9, text/turtle;q=0.9", acceptHeader())
}
