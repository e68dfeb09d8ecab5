package ontomap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/csvw-ontomap/embedding"
	"github.com/c360studio/csvw-ontomap/metrics"
	"github.com/c360studio/csvw-ontomap/ontology"
	"github.com/c360studio/csvw-ontomap/vectordb"
)

// Status is the outcome of indexing one ontology.
type Status string

// Ontology outcomes.
const (
	StatusIndexed Status = "indexed"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// OntologyResult reports what happened to one ontology.
type OntologyResult struct {
	URL    string
	Status Status
	// Concepts is the number of distinct class and property IRIs.
	Concepts int
	// Existing is the number of points already tagged with URL.
	Existing int
	// Points is the number of points written by this run.
	Points int
	Err    error
}

// IndexReport summarizes an Index call.
type IndexReport struct {
	// Recreated is true when the collection was (re)created.
	Recreated bool
	Results   []OntologyResult
	Duration  time.Duration
}

// Failed returns the results with StatusFailed.
func (r IndexReport) Failed() []OntologyResult {
	var out []OntologyResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Indexer loads ontologies, embeds their labelled concepts and stores them
// in a vector index collection.
type Indexer struct {
	index      VectorIndex
	embedder   embedding.Embedder
	loader     OntologyLoader
	collection string
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLoader sets the ontology loader.
func WithLoader(l OntologyLoader) IndexerOption {
	return func(i *Indexer) {
		i.loader = l
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) IndexerOption {
	return func(i *Indexer) {
		i.metrics = m
	}
}

// WithIndexerLogger sets the logger.
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(i *Indexer) {
		i.logger = logger
	}
}

// NewIndexer creates an Indexer writing to collection.
func NewIndexer(index VectorIndex, embedder embedding.Embedder, collection string, opts ...IndexerOption) *Indexer {
	i := &Indexer{
		index:      index,
		embedder:   embedder,
		collection: collection,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.loader == nil {
		i.loader = ontology.NewLoader(ontology.WithLogger(i.logger))
	}
	return i
}

// Index makes sure every ontology in urls is present in the collection.
//
// The collection is recreated when it does not exist, when force is set or
// when its dimension differs from the embedder's. An ontology is skipped
// when the collection already holds at least as many points tagged with its
// URL as it has distinct classes and properties. Points are written per
// label while the check counts entities, so an ontology with unlabelled
// entities is indexed again (adding duplicate points) on every run until
// its point count reaches its entity count. Failures are recorded per
// ontology and do not stop the run; the returned error is reserved for
// problems with the collection itself.
func (i *Indexer) Index(ctx context.Context, urls []string, force bool) (IndexReport, error) {
	start := time.Now()
	var report IndexReport

	recreated, err := i.ensureCollection(ctx, force)
	if err != nil {
		return report, err
	}
	report.Recreated = recreated

	for _, url := range urls {
		res := i.indexOntology(ctx, url)
		report.Results = append(report.Results, res)

		switch res.Status {
		case StatusFailed:
			i.logger.Error("Failed to index ontology",
				slog.String("url", url),
				slog.String("error", res.Err.Error()))
			i.metrics.OntologyProcessed(metrics.OutcomeFailed, 0)
		case StatusSkipped:
			i.metrics.OntologyProcessed(metrics.OutcomeSkipped, 0)
		case StatusIndexed:
			i.metrics.OntologyProcessed(metrics.OutcomeIndexed, res.Points)
		}

		if ctx.Err() != nil {
			return report, ctx.Err()
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

func (i *Indexer) ensureCollection(ctx context.Context, force bool) (bool, error) {
	dim := i.embedder.Dimensions()

	info, err := i.index.CollectionInfo(ctx, i.collection)
	switch {
	case errors.Is(err, vectordb.ErrCollectionNotFound):
		i.logger.Info("Collection not found, creating it", slog.String("collection", i.collection))
	case err != nil:
		return false, fmt.Errorf("inspect collection: %w", err)
	case force:
		i.logger.Info("Recreating collection on request",
			slog.String("collection", i.collection),
			slog.Int("points", info.Points))
	case info.Dimension != dim:
		i.logger.Warn("Collection dimension does not match embedder, recreating",
			slog.String("collection", i.collection),
			slog.Int("collection_dimension", info.Dimension),
			slog.Int("embedder_dimension", dim))
	default:
		return false, nil
	}

	if err := i.index.RecreateCollection(ctx, i.collection, dim, vectordb.Cosine); err != nil {
		return false, fmt.Errorf("recreate collection: %w", err)
	}
	return true, nil
}

func (i *Indexer) indexOntology(ctx context.Context, url string) OntologyResult {
	res := OntologyResult{URL: url}
	fail := func(err error) OntologyResult {
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	i.logger.Info("Loading ontology", slog.String("url", url))
	onto, err := i.loader.Load(ctx, url)
	if err != nil {
		return fail(err)
	}
	res.Concepts = onto.ConceptCount()

	res.Existing, err = i.index.CountMatching(ctx, i.collection, url)
	if err != nil {
		return fail(fmt.Errorf("count indexed concepts: %w", err))
	}

	i.logger.Info("Ontology loaded",
		slog.String("url", url),
		slog.String("format", string(onto.Format)),
		slog.Int("classes", len(onto.Classes())),
		slog.Int("properties", len(onto.Properties())),
		slog.Int("indexed", res.Existing))

	if res.Existing >= res.Concepts {
		i.logger.Info("Ontology already indexed, skipping", slog.String("url", url))
		res.Status = StatusSkipped
		return res
	}

	for _, kind := range []ontology.Kind{ontology.KindClass, ontology.KindProperty} {
		n, err := i.upsertConcepts(ctx, url, kind, onto.Concepts(kind))
		res.Points += n
		if err != nil {
			return fail(err)
		}
	}

	res.Status = StatusIndexed
	return res
}

// upsertConcepts embeds the labels of one batch of concepts in a single
// call and stores them with ids continuing from the collection size.
func (i *Indexer) upsertConcepts(ctx context.Context, url string, kind ontology.Kind, concepts []ontology.Concept) (int, error) {
	if len(concepts) == 0 {
		return 0, nil
	}

	i.logger.Info("Generating embeddings",
		slog.String("url", url),
		slog.String("category", string(kind)),
		slog.Int("labels", len(concepts)))

	texts := make([]string, len(concepts))
	for j, c := range concepts {
		texts[j] = c.Label
	}
	vectors, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed %s labels: %w", kind, err)
	}
	if len(vectors) != len(concepts) {
		return 0, fmt.Errorf("embed %s labels: got %d vectors for %d labels", kind, len(vectors), len(concepts))
	}

	next, err := i.index.Count(ctx, i.collection)
	if err != nil {
		return 0, fmt.Errorf("count points: %w", err)
	}

	points := make([]vectordb.Point, len(concepts))
	for j, c := range concepts {
		points[j] = vectordb.Point{
			ID:     int64(next + j),
			Vector: vectors[j],
			Payload: vectordb.Payload{
				ID:        c.URI,
				Label:     c.Label,
				Category:  string(c.Kind),
				Ontology:  url,
				Predicate: c.Predicate,
			},
		}
	}

	if err := i.index.Upsert(ctx, i.collection, points); err != nil {
		return 0, fmt.Errorf("upsert %s points: %w", kind, err)
	}

	i.logger.Info("Stored concept vectors",
		slog.String("url", url),
		slog.String("category", string(kind)),
		slog.Int("points", len(points)))
	return len(points), nil
}
