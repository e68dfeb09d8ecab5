// Package embedding turns text into fixed-length vectors for semantic search.
package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

// Embedder converts text into embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the length of every returned vector.
	Dimensions() int

	// Model identifies the model producing the vectors.
	Model() string

	// Close releases resources.
	Close() error
}

// Cache stores embeddings keyed by ContentHash. Get returns ErrCacheMiss
// when nothing is stored under hash.
type Cache interface {
	Get(ctx context.Context, hash string) ([]float32, error)
	Put(ctx context.Context, hash string, vector []float32) error
}

// ContentHash keys a text embedded by a given model.
func ContentHash(model, text string) string {
	h := sha256.New()
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
