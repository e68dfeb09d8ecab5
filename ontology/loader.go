package ontology

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/knakk/rdf"

	"github.com/c360studio/csvw-ontomap/vocabulary/owl"
)

// Loader fetches and parses ontologies.
type Loader struct {
	fetcher  *Fetcher
	fallback Format
	logger   *slog.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFetcher sets the document fetcher.
func WithFetcher(f *Fetcher) LoaderOption {
	return func(l *Loader) {
		l.fetcher = f
	}
}

// WithFallbackFormat sets the format tried when the first attempt fails.
func WithFallbackFormat(format Format) LoaderOption {
	return func(l *Loader) {
		l.fallback = format
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fallback: FormatTurtle,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.fetcher == nil {
		l.fetcher = NewFetcher(WithFetchLogger(l.logger))
	}
	return l
}

// Load fetches the ontology at location and parses it.
func (l *Loader) Load(ctx context.Context, location string) (*Ontology, error) {
	doc, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	return l.Parse(doc)
}

// Parse decodes a fetched document. The format implied by the media type or
// extension is tried first (RDF/XML when neither says anything) and the
// fallback format second; ErrParse is returned only if both fail.
func (l *Loader) Parse(doc *Document) (*Ontology, error) {
	first := DefaultFormat
	if f, ok := FormatForMediaType(doc.ContentType); ok {
		first = f
	} else if f, ok := FormatForPath(doc.Source); ok {
		first = f
	}

	attempts := []Format{first}
	second := l.fallback
	if second == first {
		second = DefaultFormat
		if second == first {
			second = FormatTurtle
		}
	}
	attempts = append(attempts, second)

	var errs []error
	for _, format := range attempts {
		onto, err := parse(doc.Source, bytes.NewReader(doc.Data), format)
		if err == nil {
			return onto, nil
		}
		l.logger.Debug("Ontology parse attempt failed",
			slog.String("url", doc.Source),
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
		errs = append(errs, fmt.Errorf("%s: %w", format, err))
	}

	return nil, fmt.Errorf("%w: %s: %w", ErrParse, doc.Source, errors.Join(errs...))
}

func parse(source string, r io.Reader, format Format) (*Ontology, error) {
	info, ok := FormatRegistry[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	triples, err := rdf.NewTripleDecoder(r, info.decoder).DecodeAll()
	if err != nil {
		return nil, err
	}
	if len(triples) == 0 {
		return nil, errors.New("document contains no statements")
	}

	onto := newOntology(source)
	onto.Format = format
	onto.Triples = len(triples)

	for _, t := range triples {
		if t.Subj.Type() != rdf.TermIRI || t.Pred.String() != owl.RDFType || t.Obj.Type() != rdf.TermIRI {
			continue
		}
		switch obj := t.Obj.String(); {
		case owl.IsClassType(obj):
			onto.declare(t.Subj.String(), KindClass)
		case owl.IsPropertyType(obj):
			onto.declare(t.Subj.String(), KindProperty)
		}
	}

	for _, t := range triples {
		if t.Subj.Type() != rdf.TermIRI || t.Obj.Type() != rdf.TermLiteral {
			continue
		}
		onto.annotate(t.Subj.String(), t.Pred.String(), strings.TrimSpace(t.Obj.String()))
	}

	return onto, nil
}
