package ontomap

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/c360studio/csvw-ontomap/embedding"
	"github.com/c360studio/csvw-ontomap/vectordb"
)

// DefaultLimit replaces a non-positive match limit.
const DefaultLimit = 3

// Match is a concept found for a query.
type Match struct {
	Score   float64
	Payload vectordb.Payload
}

// Matcher finds the ontology concepts closest to a piece of text.
type Matcher struct {
	index      VectorIndex
	embedder   embedding.Embedder
	collection string
	logger     *slog.Logger
}

// NewMatcher creates a Matcher searching collection.
func NewMatcher(index VectorIndex, embedder embedding.Embedder, collection string, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		index:      index,
		embedder:   embedder,
		collection: collection,
		logger:     logger,
	}
}

// Match embeds query and returns at most limit concepts by descending
// similarity. A limit <= 0 means DefaultLimit. Hits are not filtered by any
// threshold.
func (m *Matcher) Match(ctx context.Context, query string, limit int) ([]Match, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vectors, err := m.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embed query: got %d vectors", len(vectors))
	}

	hits, err := m.index.Search(ctx, m.collection, vectors[0], limit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	matches := make([]Match, len(hits))
	for i, h := range hits {
		matches[i] = Match{Score: h.Score, Payload: h.Payload}
	}

	if len(matches) > 0 {
		m.logger.Debug("Matched query",
			slog.String("query", query),
			slog.String("best", matches[0].Payload.ID),
			slog.Float64("score", matches[0].Score))
	}
	return matches, nil
}

// FormatMatches renders matches for a column comment:
//
//	Best matches: [0.93] age (property) <http://example.org/age> - ...
func FormatMatches(matches []Match) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("[%s] %s (%s) <%s>",
			FormatScore(m.Score), m.Payload.Label, m.Payload.Category, m.Payload.ID)
	}
	return "Best matches: " + strings.Join(parts, " - ")
}

// FormatScore rounds a score to two decimals, keeping at least one digit
// after the point (0.9, 1.0, 0.87).
func FormatScore(score float64) string {
	s := strconv.FormatFloat(math.Round(score*100)/100, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
