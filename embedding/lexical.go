package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LexicalEmbedder maps text to vectors by feature hashing its word tokens.
// It needs no model or network and gives identical vectors for texts with
// the same words, so it serves offline runs and tests. It does not capture
// synonyms.
type LexicalEmbedder struct {
	dimensions int
}

// NewLexicalEmbedder creates a lexical embedder producing vectors of the
// given size (768 when dimensions <= 0).
func NewLexicalEmbedder(dimensions int) *LexicalEmbedder {
	if dimensions <= 0 {
		dimensions = 768
	}
	return &LexicalEmbedder{dimensions: dimensions}
}

// Embed returns one L2-normalized vector per text. Texts without tokens map
// to the zero vector.
func (l *LexicalEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = l.vector(text)
	}
	return out, nil
}

func (l *LexicalEmbedder) vector(text string) []float32 {
	v := make([]float32, l.dimensions)

	tf := make(map[string]int)
	for _, tok := range Tokenize(text) {
		tf[tok]++
	}
	for tok, n := range tf {
		h := fnv.New32a()
		h.Write([]byte(tok))
		sum := h.Sum32()
		idx := int(sum % uint32(l.dimensions))
		// a second hash bit picks the sign to reduce collision bias
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		v[idx] += sign * float32(1+math.Log(float64(n)))
	}

	Normalize(v)
	return v
}

// Tokenize lowercases text and splits it into words on non-alphanumeric
// runes and lower-to-upper case transitions.
func Tokenize(text string) []string {
	var tokens []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			tokens = append(tokens, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}

	var prev rune
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if unicode.IsUpper(r) && unicode.IsLower(prev) {
				flush()
			}
			cur = append(cur, r)
		default:
			flush()
		}
		prev = r
	}
	flush()
	return tokens
}

// Dimensions returns the vector size.
func (l *LexicalEmbedder) Dimensions() int {
	return l.dimensions
}

// Model returns the model identifier.
func (l *LexicalEmbedder) Model() string {
	return "lexical-fnv"
}

// Close is a no-op.
func (l *LexicalEmbedder) Close() error {
	return nil
}
