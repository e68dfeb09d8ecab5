package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Age", []string{"age"}},
		{"Resting ECG", []string{"resting", "ecg"}},
		{"RestingBP", []string{"resting", "bp"}},
		{"max_heart-rate", []string{"max", "heart", "rate"}},
		{"  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.input))
		})
	}
}

func TestLexicalEmbedder(t *testing.T) {
	e := NewLexicalEmbedder(128)
	assert.Equal(t, 128, e.Dimensions())

	vectors, err := e.Embed(context.Background(), []string{"Age", "age", "cholesterol", ""})
	require.NoError(t, err)
	require.Len(t, vectors, 4)

	assert.InDelta(t, 1.0, CosineSimilarity(vectors[0], vectors[1]), 1e-6, "case-insensitive")
	assert.Less(t, CosineSimilarity(vectors[0], vectors[2]), 1.0)
	assert.Equal(t, 0.0, CosineSimilarity(vectors[0], vectors[3]), "empty text is the zero vector")

	var norm float64
	for _, x := range vectors[2] {
		norm += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestLexicalEmbedderDefaultDimensions(t *testing.T) {
	assert.Equal(t, 768, NewLexicalEmbedder(0).Dimensions())
}

func TestLexicalEmbedderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLexicalEmbedder(8).Embed(ctx, []string{"x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, []float32{1, 2}))
}

func TestContentHash(t *testing.T) {
	assert.Equal(t, ContentHash("m", "age"), ContentHash("m", "age"))
	assert.NotEqual(t, ContentHash("m", "age"), ContentHash("other", "age"))
	assert.Len(t, ContentHash("m", "age"), 64)
}
