package embedding

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/c360studio/semstreams/pkg/retry"

	"github.com/c360studio/csvw-ontomap/metrics"
)

// Config describes an embedder to build.
type Config struct {
	Provider   string
	BaseURL    string
	Model      string
	APIKey     string
	Dimensions int
	Timeout    time.Duration
	BatchSize  int

	// Retry applies to transient request failures.
	Retry retry.Config
	// Cache is optional.
	Cache   Cache
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// Provider builds embedders of one kind.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "ollama").
	Name() string

	// New creates an embedder from cfg.
	New(cfg Config) (Embedder, error)
}

// providerRegistry holds registered providers.
var (
	providerRegistry = make(map[string]Provider)
	providerMu       sync.RWMutex
)

// RegisterProvider adds a provider to the registry.
func RegisterProvider(p Provider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	providerRegistry[p.Name()] = p
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) Provider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return providerRegistry[name]
}

// ListProviders returns all registered provider names, sorted.
func ListProviders() []string {
	providerMu.RLock()
	defer providerMu.RUnlock()

	names := make([]string, 0, len(providerRegistry))
	for name := range providerRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the embedder for cfg.Provider.
func New(cfg Config) (Embedder, error) {
	p := GetProvider(cfg.Provider)
	if p == nil {
		return nil, fmt.Errorf("%w: %q (registered: %v)", ErrUnknownProvider, cfg.Provider, ListProviders())
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return p.New(cfg)
}
