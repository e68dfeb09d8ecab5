package embedding_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/csvw-ontomap/embedding"
)

type embeddingRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

// fakeEmbeddingServer answers with vectors whose first component is the
// input length, so callers can check ordering.
func fakeEmbeddingServer(t *testing.T, dims int, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		data := make([]map[string]any, len(req.Input))
		for i, text := range req.Input {
			v := make([]float32, dims)
			v[0] = float32(len(text))
			data[i] = map[string]any{"object": "embedding", "index": i, "embedding": v}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "model": req.Model, "data": data})
	}))
}

func fastRetry() retry.Config {
	return retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
}

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]float32
}

func (c *memoryCache) Get(_ context.Context, hash string) ([]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[hash]
	if !ok {
		return nil, embedding.ErrCacheMiss
	}
	return v, nil
}

func (c *memoryCache) Put(_ context.Context, hash string, v []float32) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[hash] = v
	return nil
}

func TestHTTPEmbedderBatches(t *testing.T) {
	var requests atomic.Int32
	srv := fakeEmbeddingServer(t, 4, &requests)
	defer srv.Close()

	e, err := embedding.NewHTTPEmbedder(embedding.Config{
		BaseURL:    srv.URL + "/v1",
		Model:      "test-model",
		Dimensions: 4,
		BatchSize:  2,
		Retry:      fastRetry(),
	})
	require.NoError(t, err)

	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}
	vectors, err := e.Embed(context.Background(), texts)
	require.NoError(t, err)

	require.Len(t, vectors, 5)
	for i, v := range vectors {
		assert.Equal(t, float32(len(texts[i])), v[0])
	}
	assert.Equal(t, int32(3), requests.Load())
	assert.Equal(t, "test-model", e.Model())
	assert.Equal(t, 4, e.Dimensions())
}

func TestHTTPEmbedderEmptyInput(t *testing.T) {
	e, err := embedding.NewHTTPEmbedder(embedding.Config{BaseURL: "http://127.0.0.1:1/v1", Model: "m"})
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestHTTPEmbedderUsesCache(t *testing.T) {
	var requests atomic.Int32
	srv := fakeEmbeddingServer(t, 2, &requests)
	defer srv.Close()

	cache := &memoryCache{data: map[string][]float32{}}
	e, err := embedding.NewHTTPEmbedder(embedding.Config{
		BaseURL:    srv.URL + "/v1",
		Model:      "m",
		Dimensions: 2,
		Cache:      cache,
		Retry:      fastRetry(),
	})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"age", "sex"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load())

	vectors, err := e.Embed(context.Background(), []string{"sex", "age"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), requests.Load(), "second call served from cache")
	assert.Equal(t, float32(3), vectors[0][0])
}

func TestHTTPEmbedderRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"loading"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,0.5]}]}`))
	}))
	defer srv.Close()

	e, err := embedding.NewHTTPEmbedder(embedding.Config{BaseURL: srv.URL, Model: "m", Retry: fastRetry()})
	require.NoError(t, err)

	vectors, err := e.Embed(context.Background(), []string{"x"})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.5}, vectors[0])
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, e.Dimensions(), "dimensions detected from first response")
}

func TestHTTPEmbedderDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	e, err := embedding.NewHTTPEmbedder(embedding.Config{BaseURL: srv.URL, Model: "m", Retry: fastRetry()})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.True(t, embedding.IsFatal(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPEmbedderDimensionMismatch(t *testing.T) {
	var requests atomic.Int32
	srv := fakeEmbeddingServer(t, 3, &requests)
	defer srv.Close()

	e, err := embedding.NewHTTPEmbedder(embedding.Config{BaseURL: srv.URL, Model: "m", Dimensions: 768, Retry: fastRetry()})
	require.NoError(t, err)

	_, err = e.Embed(context.Background(), []string{"x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrDimensionMismatch)
	assert.Equal(t, int32(1), requests.Load())
}

func TestNewHTTPEmbedderValidation(t *testing.T) {
	_, err := embedding.NewHTTPEmbedder(embedding.Config{Model: "m"})
	assert.Error(t, err)

	_, err = embedding.NewHTTPEmbedder(embedding.Config{BaseURL: "http://localhost"})
	assert.Error(t, err)
}
