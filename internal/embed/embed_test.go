package embed_test

import (
	"math"
	"testing"

	"github.com/findable-ai/findable-score/internal/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vecNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestHashingModel_Embed_Deterministic(t *testing.T) {
	m := embed.DefaultHashingModel()
	a, err := m.Embed("AI findability depends on crawlable content.")
	require.NoError(t, err)
	b, err := m.Embed("AI findability depends on crawlable content.")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestHashingModel_Embed_DifferentTextDiffers(t *testing.T) {
	m := embed.DefaultHashingModel()
	a, err := m.Embed("the quick brown fox")
	require.NoError(t, err)
	b, err := m.Embed("completely unrelated content about databases")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashingModel_Embed_Normalized(t *testing.T) {
	m := embed.DefaultHashingModel()
	v, err := m.Embed("normalize this please across several distinct tokens")
	require.NoError(t, err)
	norm := vecNorm(v)
	assert.InDelta(t, 1.0, norm, 1e-6)
}

func TestHashingModel_Embed_EmptyTextYieldsZeroVector(t *testing.T) {
	m := embed.DefaultHashingModel()
	v, err := m.Embed("")
	require.NoError(t, err)
	require.Len(t, v, embed.ReferenceDimensions)
	for _, x := range v {
		assert.Zero(t, x)
	}
}

type countingModel struct {
	calls int
}

func (c *countingModel) Name() string    { return "counting-model" }
func (c *countingModel) Dimensions() int { return 4 }
func (c *countingModel) Embed(text string) ([]float32, error) {
	c.calls++
	return []float32{1, 0, 0, 0}, nil
}

func TestEmbedder_Embed_CachesByContentHash(t *testing.T) {
	stub := &countingModel{}
	e := embed.NewEmbedder(stub)

	_, err := e.Embed("same text")
	require.NoError(t, err)
	_, err = e.Embed("same text")
	require.NoError(t, err)
	_, err = e.Embed("different text")
	require.NoError(t, err)

	assert.Equal(t, 2, stub.calls)
}

func TestContentHash_StableAndDistinct(t *testing.T) {
	h1 := embed.ContentHash("hello world")
	h2 := embed.ContentHash("hello world")
	h3 := embed.ContentHash("hello there")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}
