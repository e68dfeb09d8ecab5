// Package providers registers the embedding providers with the embedding
// package. Import it for side effects.
package providers

import (
	"os"

	"github.com/c360studio/csvw-ontomap/embedding"
)

// OpenAICompatible covers every provider that serves the OpenAI
// embeddings API and differs only in default endpoint and key variable.
type OpenAICompatible struct {
	ProviderName string
	// DefaultBaseURL is used when the config has no endpoint.
	DefaultBaseURL string
	// KeyEnv is consulted when the config has no API key.
	KeyEnv string
}

func init() {
	embedding.RegisterProvider(&OpenAICompatible{
		ProviderName:   "openai",
		DefaultBaseURL: "https://api.openai.com/v1",
		KeyEnv:         "OPENAI_API_KEY",
	})
	embedding.RegisterProvider(&OpenAICompatible{
		ProviderName:   "ollama",
		DefaultBaseURL: "http://localhost:11434/v1",
	})
	embedding.RegisterProvider(&OpenAICompatible{
		ProviderName:   "tei",
		DefaultBaseURL: "http://localhost:8080/v1",
		KeyEnv:         "HF_API_TOKEN",
	})
}

// Name returns the provider identifier.
func (p *OpenAICompatible) Name() string {
	return p.ProviderName
}

// New creates an HTTP embedder.
func (p *OpenAICompatible) New(cfg embedding.Config) (embedding.Embedder, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = p.DefaultBaseURL
	}
	if cfg.APIKey == "" && p.KeyEnv != "" {
		cfg.APIKey = os.Getenv(p.KeyEnv)
	}
	return embedding.NewHTTPEmbedder(cfg)
}
