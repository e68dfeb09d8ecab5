package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/c360studio/csvw-ontomap/config"
	"github.com/c360studio/csvw-ontomap/embedding"
	"github.com/c360studio/csvw-ontomap/metrics"
	"github.com/c360studio/csvw-ontomap/ontomap"
	"github.com/c360studio/csvw-ontomap/vectordb"

	// Register embedding providers via init()
	_ "github.com/c360studio/csvw-ontomap/embedding/providers"
)

// App holds what a single command run needs. The index and embedder are
// opened lazily since profiling without ontologies needs neither.
type App struct {
	cfg         *config.Config
	logger      *slog.Logger
	metrics     *metrics.Metrics
	metricsFile string

	store    *vectordb.Store
	embedder embedding.Embedder
}

// NewApp configures logging and loads configuration.
func NewApp(flags *globalFlags, stderr io.Writer) (*App, error) {
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: parseLevel(flags.logLevel, flags.verbose),
	})).With(slog.String("run_id", uuid.NewString()))
	slog.SetDefault(logger)

	loader := config.NewLoader(logger)
	loader.ExplicitPath = flags.configPath
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &App{
		cfg:         cfg,
		logger:      logger,
		metrics:     metrics.New(appName),
		metricsFile: flags.metricsFile,
	}, nil
}

// OpenIndex opens the vector store and builds the embedder.
func (a *App) OpenIndex(ctx context.Context) error {
	store, err := vectordb.Open(ctx, a.cfg.VectorDB.Path, vectordb.WithLogger(a.logger))
	if err != nil {
		return fmt.Errorf("open vector index: %w", err)
	}
	a.store = store

	embedder, err := embedding.New(embedding.Config{
		Provider:   a.cfg.Embedding.Provider,
		BaseURL:    a.cfg.Embedding.Endpoint,
		Model:      a.cfg.Embedding.Model,
		APIKey:     a.cfg.Embedding.APIKey,
		Dimensions: a.cfg.Embedding.Dimensions,
		Timeout:    a.cfg.Embedding.Timeout,
		BatchSize:  a.cfg.Embedding.BatchSize,
		Cache:      store.EmbeddingCache(),
		Metrics:    a.metrics,
		Logger:     a.logger,
	})
	if err != nil {
		return fmt.Errorf("create embedder: %w", err)
	}
	a.embedder = embedder

	a.logger.Debug("Opened vector index",
		slog.String("path", store.Path()),
		slog.String("provider", a.cfg.Embedding.Provider),
		slog.String("model", embedder.Model()),
		slog.Int("dimensions", embedder.Dimensions()))
	return nil
}

// Index makes sure every ontology is in the collection. Ontologies that
// fail are logged and left out.
func (a *App) Index(ctx context.Context, urls []string, force bool) (ontomap.IndexReport, error) {
	indexer := ontomap.NewIndexer(a.store, a.embedder, a.cfg.VectorDB.Collection,
		ontomap.WithMetrics(a.metrics),
		ontomap.WithIndexerLogger(a.logger))

	report, err := indexer.Index(ctx, urls, force)
	if err != nil {
		return report, fmt.Errorf("index ontologies: %w", err)
	}

	for _, res := range report.Results {
		a.logger.Info("Ontology",
			slog.String("url", res.URL),
			slog.String("status", string(res.Status)),
			slog.Int("concepts", res.Concepts),
			slog.Int("existing", res.Existing),
			slog.Int("points", res.Points))
	}
	return report, nil
}

// Matcher returns a matcher over the configured collection.
func (a *App) Matcher() *ontomap.Matcher {
	return ontomap.NewMatcher(a.store, a.embedder, a.cfg.VectorDB.Collection, a.logger)
}

// Close releases the index and writes the metrics file when requested.
func (a *App) Close() error {
	var errs []error
	if a.embedder != nil {
		errs = append(errs, a.embedder.Close())
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	if a.metricsFile != "" {
		if err := a.metrics.WriteFile(a.metricsFile); err != nil {
			errs = append(errs, err)
		} else {
			a.logger.Debug("Wrote metrics", slog.String("path", a.metricsFile))
		}
	}
	return errors.Join(errs...)
}

// writeJSON writes v indented by two spaces and terminated by a newline,
// to path when set and to w otherwise.
func writeJSON(w io.Writer, path string, v any) error {
	if path == "" {
		return encodeJSON(w, v)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := encodeJSON(f, v); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
