package ontology

import "errors"

var (
	// ErrParse is returned when an ontology document cannot be parsed in
	// any of the attempted formats.
	ErrParse = errors.New("ontology parse failed")

	// ErrUnknownFormat is returned for a format name that is not registered.
	ErrUnknownFormat = errors.New("unknown ontology format")

	// ErrFetch is returned when an ontology document cannot be retrieved.
	ErrFetch = errors.New("ontology fetch failed")
)
