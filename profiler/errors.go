package profiler

import "errors"

var (
	// ErrUnsupportedFormat is returned for files the profiler cannot read.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrNoFiles is returned when no pattern matched any file.
	ErrNoFiles = errors.New("no files to profile")

	// ErrEmptyFile is returned for files without a header row.
	ErrEmptyFile = errors.New("file has no header row")
)
