package embedding

import "errors"

var (
	// ErrUnknownProvider is returned when no provider is registered under
	// the configured name.
	ErrUnknownProvider = errors.New("unknown embedding provider")

	// ErrDimensionMismatch is returned when the service produces vectors of
	// a different size than configured.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCacheMiss is returned by Cache.Get for unknown hashes.
	ErrCacheMiss = errors.New("embedding not cached")
)

// TransientError marks an embedding request that failed for a reason
// expected to clear up: a network error, HTTP 429 or a 5xx from the
// embedding service. The request is retried with backoff.
type TransientError struct {
	err error
}

func (e *TransientError) Error() string { return e.err.Error() }
func (e *TransientError) Unwrap() error { return e.err }

// NewTransientError marks err as worth retrying.
func NewTransientError(err error) error {
	return &TransientError{err: err}
}

// FatalError marks an embedding request that will fail the same way if
// sent again: a rejected key, an unknown model, a response with the wrong
// number of vectors or vectors of the wrong size.
type FatalError struct {
	err error
}

func (e *FatalError) Error() string { return e.err.Error() }
func (e *FatalError) Unwrap() error { return e.err }

// NewFatalError marks err as final; the HTTP embedder turns it into
// retry.NonRetryable.
func NewFatalError(err error) error {
	return &FatalError{err: err}
}

// IsTransient reports whether any error in err's chain is a TransientError.
func IsTransient(err error) bool {
	var t *TransientError
	return errors.As(err, &t)
}

// IsFatal reports whether any error in err's chain is a FatalError.
func IsFatal(err error) bool {
	var f *FatalError
	return errors.As(err, &f)
}
