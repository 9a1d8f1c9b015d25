package retrieve_test

import (
	"testing"

	"github.com/findable-ai/findable-score/internal/embed"
	"github.com/findable-ai/findable-score/internal/retrieve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildIndex(t *testing.T) *retrieve.Index {
	t.Helper()
	embedder := embed.NewEmbedder(embed.DefaultHashingModel())
	idx := retrieve.NewIndex("site-1", embedder)

	docs := []struct {
		id       string
		content  string
		headings []string
		ratio    float64
	}{
		{"doc-1", "Our pricing page lists subscription tiers and monthly cost.", []string{"Pricing"}, 0.1},
		{"doc-2", "Installation requires Go 1.21 and a configured module path.", []string{"Installation"}, 0.4},
		{"doc-3", "Contact support by email for billing and pricing questions.", []string{"Support"}, 0.7},
	}
	for _, d := range docs {
		vec, err := embedder.Embed(d.content)
		require.NoError(t, err)
		idx.Upsert(retrieve.Doc{
			DocID:          d.id,
			ContentHash:    embed.ContentHash(d.content),
			Content:        d.content,
			Embedding:      vec,
			HeadingContext: d.headings,
			SourceURL:      "https://example.com/" + d.id,
			PageTitle:      "Example " + d.id,
			PositionRatio:  d.ratio,
		})
	}
	idx.Build()
	return idx
}

func TestIndex_Retrieve_ReturnsTopKByScore(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Retrieve("pricing cost", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestIndex_Retrieve_EmptyQueryStillReturnsResults(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Retrieve("", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestIndex_Retrieve_KZeroReturnsNil(t *testing.T) {
	idx := buildIndex(t)
	results, err := idx.Retrieve("pricing", 0)
	require.NoError(t, err)
	assert.Nil(t, results)
}

func TestIndex_Upsert_ContentHashDedupes(t *testing.T) {
	embedder := embed.NewEmbedder(embed.DefaultHashingModel())
	idx := retrieve.NewIndex("site-1", embedder)
	vec, err := embedder.Embed("same content twice")
	require.NoError(t, err)

	idx.Upsert(retrieve.Doc{DocID: "a", ContentHash: embed.ContentHash("same content twice"), Content: "same content twice", Embedding: vec})
	idx.Upsert(retrieve.Doc{DocID: "b", ContentHash: embed.ContentHash("same content twice"), Content: "same content twice", Embedding: vec})

	assert.Equal(t, 1, idx.Len())
}

func TestIndex_Retrieve_TieBreaksOnPositionRatioThenDocID(t *testing.T) {
	embedder := embed.NewEmbedder(embed.DefaultHashingModel())
	idx := retrieve.NewIndex("site-1", embedder)

	vec, err := embedder.Embed("identical body text for both docs")
	require.NoError(t, err)
	idx.Upsert(retrieve.Doc{DocID: "z-doc", ContentHash: "hash-z", Content: "identical body text for both docs", Embedding: vec, PositionRatio: 0.5})
	idx.Upsert(retrieve.Doc{DocID: "a-doc", ContentHash: "hash-a", Content: "identical body text for both docs", Embedding: vec, PositionRatio: 0.2})
	idx.Build()

	results, err := idx.Retrieve("identical body text", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "a-doc", results[0].DocID)
}
