package providers

import "github.com/c360studio/csvw-ontomap/embedding"

// Lexical builds the offline feature-hashing embedder.
type Lexical struct{}

func init() {
	embedding.RegisterProvider(&Lexical{})
}

// Name returns the provider identifier.
func (l *Lexical) Name() string {
	return "lexical"
}

// New creates a lexical embedder with the configured dimensions.
func (l *Lexical) New(cfg embedding.Config) (embedding.Embedder, error) {
	return embedding.NewLexicalEmbedder(cfg.Dimensions), nil
}
