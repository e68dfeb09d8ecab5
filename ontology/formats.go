package ontology

import (
	"fmt"
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/knakk/rdf"
)

// Format identifies an RDF serialization.
type Format string

// Supported serializations.
const (
	FormatRDFXML   Format = "rdfxml"
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
)

// DefaultFormat is tried first when nothing better is known, matching the
// usual serialization of published OWL files.
const DefaultFormat = FormatRDFXML

// FormatInfo provides metadata about a serialization.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extensions are the file extensions (with dot) that imply this format.
	Extensions []string

	// Description describes the format.
	Description string

	decoder rdf.Format
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatRDFXML: {
		Name:        FormatRDFXML,
		MIMEType:    "application/rdf+xml",
		Extensions:  []string{".owl", ".rdf", ".xml"},
		Description: "RDF/XML - the default OWL exchange syntax",
		decoder:     rdf.RDFXML,
	},
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extensions:  []string{".ttl"},
		Description: "Turtle - Terse RDF Triple Language",
		decoder:     rdf.Turtle,
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extensions:  []string{".nt"},
		Description: "N-Triples - Line-based RDF format",
		decoder:     rdf.NTriples,
	},
}

// GetFormat returns metadata for a format name.
func GetFormat(name string) (FormatInfo, error) {
	info, ok := FormatRegistry[Format(strings.ToLower(name))]
	if !ok {
		return FormatInfo{}, fmt.Errorf("%w: %s", ErrUnknownFormat, name)
	}
	return info, nil
}

// ListFormats returns the registered format names, sorted.
func ListFormats() []Format {
	names := make([]Format, 0, len(FormatRegistry))
	for name := range FormatRegistry {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// FormatForPath guesses a format from a file path or URL extension.
func FormatForPath(p string) (Format, bool) {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	ext := strings.ToLower(path.Ext(p))
	if ext == "" {
		return "", false
	}
	for name, info := range FormatRegistry {
		for _, e := range info.Extensions {
			if e == ext {
				return name, true
			}
		}
	}
	return "", false
}

// FormatForMediaType maps a Content-Type header to a format.
func FormatForMediaType(contentType string) (Format, bool) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	for name, info := range FormatRegistry {
		if info.MIMEType == mediaType {
			return name, true
		}
	}
	return "", false
}

// acceptHeader lists every registered MIME type, preferred format first.
func acceptHeader() string {
	types := []string{FormatRegistry[DefaultFormat].MIMEType}
	for _, name := range ListFormats() {
		if name != DefaultFormat {
			types = append(types, FormatRegistry[name].MIMEType+";q=0.9")
		}
	}
	return strings.Join(types, ", ")
}
