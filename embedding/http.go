package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/sashabaranov/go-openai"

	"github.com/c360studio/csvw-ontomap/metrics"
)

// HTTPEmbedder calls an OpenAI-compatible embedding endpoint. It works with
// OpenAI, Ollama, Hugging Face Text Embeddings Inference and anything else
// serving POST {base}/embeddings.
type HTTPEmbedder struct {
	client     *openai.Client
	model      string
	dimensions int
	batchSize  int
	retry      retry.Config
	cache      Cache
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// NewHTTPEmbedder creates an embedder for cfg.BaseURL.
func NewHTTPEmbedder(cfg Config) (*HTTPEmbedder, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 256
	}
	retryCfg := cfg.Retry
	if retryCfg.MaxAttempts == 0 {
		retryCfg = retry.DefaultConfig()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "dummy-key" // local services don't check it
	}

	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &HTTPEmbedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  batchSize,
		retry:      retryCfg,
		cache:      cfg.Cache,
		metrics:    cfg.Metrics,
		logger:     logger,
	}, nil
}

// Embed checks the cache first, then requests the misses in batches.
func (h *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	if len(texts) == 0 {
		return out, nil
	}

	var missIdx []int
	for i, text := range texts {
		if h.cache != nil {
			if v, err := h.cache.Get(ctx, ContentHash(h.model, text)); err == nil {
				out[i] = v
				continue
			}
		}
		missIdx = append(missIdx, i)
	}
	if h.cache != nil {
		h.metrics.EmbeddingCache(len(texts)-len(missIdx), len(missIdx))
	}

	for start := 0; start < len(missIdx); start += h.batchSize {
		end := min(start+h.batchSize, len(missIdx))
		idx := missIdx[start:end]

		batch := make([]string, len(idx))
		for j, i := range idx {
			batch[j] = texts[i]
		}

		vectors, err := h.request(ctx, batch)
		if err != nil {
			return nil, err
		}

		for j, i := range idx {
			out[i] = vectors[j]
			if h.cache != nil {
				if err := h.cache.Put(ctx, ContentHash(h.model, texts[i]), vectors[j]); err != nil {
					h.logger.Warn("Embedding cache put failed", slog.String("error", err.Error()))
				}
			}
		}
	}

	return out, nil
}

func (h *HTTPEmbedder) request(ctx context.Context, batch []string) ([][]float32, error) {
	var vectors [][]float32
	err := retry.Do(ctx, h.retry, func() error {
		start := time.Now()
		v, err := h.call(ctx, batch)
		h.metrics.EmbeddingRequest(len(batch), time.Since(start), err)
		if err != nil {
			h.logger.Debug("Embedding request failed",
				slog.String("model", h.model),
				slog.Int("texts", len(batch)),
				slog.Bool("transient", IsTransient(err)),
				slog.String("error", err.Error()))
			if IsFatal(err) {
				return retry.NonRetryable(err)
			}
			return err
		}
		vectors = v
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("embed %d texts with %s: %w", len(batch), h.model, err)
	}
	return vectors, nil
}

func (h *HTTPEmbedder) call(ctx context.Context, batch []string) ([][]float32, error) {
	resp, err := h.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: batch,
		Model: openai.EmbeddingModel(h.model),
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Data) != len(batch) {
		return nil, NewFatalError(fmt.Errorf("service returned %d embeddings for %d texts", len(resp.Data), len(batch)))
	}

	vectors := make([][]float32, len(batch))
	for pos, d := range resp.Data {
		i := d.Index
		if i < 0 || i >= len(batch) || vectors[i] != nil {
			i = pos
		}
		if h.dimensions > 0 && len(d.Embedding) != h.dimensions {
			return nil, NewFatalError(fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(d.Embedding), h.dimensions))
		}
		vectors[i] = d.Embedding
	}
	if h.dimensions == 0 && len(vectors) > 0 {
		h.dimensions = len(vectors[0])
	}
	return vectors, nil
}

// classify sorts client errors into transient (network, 429, 5xx) and
// fatal (other 4xx).
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch {
	case status == 0, status == http.StatusTooManyRequests, status >= 500:
		return NewTransientError(err)
	default:
		return NewFatalError(err)
	}
}

// Dimensions returns the configured or detected vector size.
func (h *HTTPEmbedder) Dimensions() int {
	return h.dimensions
}

// Model returns the model identifier.
func (h *HTTPEmbedder) Model() string {
	return h.model
}

// Close is a no-op; the HTTP client holds no resources.
func (h *HTTPEmbedder) Close() error {
	return nil
}
