// Package ontomap indexes ontology concepts into the vector index and
// matches column titles against them.
package ontomap

import (
	"context"

	"github.com/c360studio/csvw-ontomap/ontology"
	"github.com/c360studio/csvw-ontomap/vectordb"
)

// VectorIndex is the subset of the vector store used here.
// *vectordb.Store implements it.
type VectorIndex interface {
	CollectionInfo(ctx context.Context, name string) (vectordb.Collection, error)
	RecreateCollection(ctx context.Context, name string, dimension int, distance vectordb.Distance) error
	Upsert(ctx context.Context, name string, points []vectordb.Point) error
	Count(ctx context.Context, name string) (int, error)
	CountMatching(ctx context.Context, name, substr string) (int, error)
	Search(ctx context.Context, name string, vector []float32, limit int) ([]vectordb.ScoredPoint, error)
}

// OntologyLoader loads an ontology from a URL or path.
// *ontology.Loader implements it.
type OntologyLoader interface {
	Load(ctx context.Context, location string) (*ontology.Ontology, error)
}

var (
	_ VectorIndex    = (*vectordb.Store)(nil)
	_ OntologyLoader = (*ontology.Loader)(nil)
)
