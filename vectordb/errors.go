package vectordb

import "errors"

var (
	// ErrCollectionNotFound is returned when a collection has not been created.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDimension is returned when a vector does not match the collection.
	ErrDimension = errors.New("vector dimension does not match collection")
)
