package vectordb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/c360studio/csvw-ontomap/embedding"
)

// EmbeddingCache stores embeddings next to the index so repeated runs do
// not re-embed the same labels and titles.
type EmbeddingCache struct {
	store *Store
}

// EmbeddingCache returns the cache backed by this store.
func (s *Store) EmbeddingCache() *EmbeddingCache {
	return &EmbeddingCache{store: s}
}

// Get returns the cached vector or embedding.ErrCacheMiss.
func (c *EmbeddingCache) Get(ctx context.Context, hash string) ([]float32, error) {
	var blob []byte
	err := c.store.db.QueryRowContext(ctx,
		`SELECT vector FROM embedding_cache WHERE hash = ?`, hash).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, embedding.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get cached embedding: %w", err)
	}
	return DecodeVector(blob)
}

// Put stores vector under hash.
func (c *EmbeddingCache) Put(ctx context.Context, hash string, vector []float32) error {
	_, err := c.store.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO embedding_cache(hash, vector) VALUES(?, ?)`, hash, EncodeVector(vector))
	if err != nil {
		return fmt.Errorf("put cached embedding: %w", err)
	}
	return nil
}

var _ embedding.Cache = (*EmbeddingCache)(nil)
