package ontology

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"
)

// maxDocumentSize bounds how much of a remote ontology is read.
const maxDocumentSize = 256 << 20

// Document is a fetched ontology before parsing.
type Document struct {
	// Source is the location the document was fetched from.
	Source string
	// ContentType is the media type reported by the server, if any.
	ContentType string
	Data        []byte
}

// Fetcher retrieves ontology documents from http(s) URLs, file:// URLs or
// local paths.
type Fetcher struct {
	client *http.Client
	retry  retry.Config
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for remote documents.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithRetryConfig sets the retry policy for remote documents.
func WithRetryConfig(cfg retry.Config) FetcherOption {
	return func(f *Fetcher) {
		f.retry = cfg
	}
}

// WithFetchLogger sets the logger.
func WithFetchLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 2 * time.Minute},
		retry:  retry.DefaultConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the document at location.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*Document, error) {
	u, err := url.Parse(location)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return f.fetchRemote(ctx, location)
	}

	p := location
	if err == nil && u.Scheme == "file" {
		p = u.Path
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return &Document{Source: location, Data: data}, nil
}

func (f *Fetcher) fetchRemote(ctx context.Context, location string) (*Document, error) {
	var doc *Document
	attempt := 0
	err := retry.Do(ctx, f.retry, func() error {
		attempt++
		d, err := f.get(ctx, location)
		if err != nil {
			f.logger.Debug("Ontology fetch attempt failed",
				slog.String("url", location),
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			return err
		}
		doc = d
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, location, err)
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, location string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, retry.NonRetryable(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", acceptHeader())

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("get %s: status %d", location, resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, retry.NonRetryable(err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Document{
		Source:      location,
		ContentType: strings.TrimSpace(resp.Header.Get("Content-Type")),
		Data:        data,
	}, nil
}
