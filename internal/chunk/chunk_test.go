package chunk_test

import (
	"testing"

	"github.com/findable-ai/findable-score/internal/chunk"
	"github.com/findable-ai/findable-score/internal/clean"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_Chunk_HeadingContextInherited(t *testing.T) {
	blocks := []clean.Block{
		{Type: clean.BlockHeading, Text: "Getting Started", HeadingLevel: 1, HeadingContext: []string{"Getting Started"}},
		{Type: clean.BlockText, Text: "Findable audits a site's AI findability.", HeadingContext: []string{"Getting Started"}},
		{Type: clean.BlockHeading, Text: "Installation", HeadingLevel: 2, HeadingContext: []string{"Getting Started", "Installation"}},
		{Type: clean.BlockText, Text: "Run the CLI against your domain.", HeadingContext: []string{"Getting Started", "Installation"}},
	}

	c := chunk.NewChunker(chunk.DefaultParam())
	chunks := c.Chunk("page-1", blocks)

	require.Len(t, chunks, 2)
	assert.Equal(t, []string{"Getting Started"}, chunks[0].HeadingContext())
	assert.Equal(t, []string{"Getting Started", "Installation"}, chunks[1].HeadingContext())
}

func TestChunker_Chunk_PositionRatioStrictlyIncreases(t *testing.T) {
	var blocks []clean.Block
	for i := 0; i < 10; i++ {
		blocks = append(blocks, clean.Block{Type: clean.BlockText, Text: "This is a reasonably long paragraph used to force multiple chunks during the test run."})
	}

	c := chunk.NewChunker(chunk.Param{SoftTarget: 50, HardMax: 100})
	chunks := c.Chunk("page-1", blocks)

	require.Greater(t, len(chunks), 1)
	for i := 1; i < len(chunks); i++ {
		assert.Greater(t, chunks[i].PositionRatio(), chunks[i-1].PositionRatio())
		assert.Equal(t, i, chunks[i].ChunkIndex())
	}
}

func TestChunker_Chunk_EmptyBlocksReturnsNil(t *testing.T) {
	c := chunk.NewChunker(chunk.DefaultParam())
	assert.Nil(t, c.Chunk("page-1", nil))
}

func TestChunker_Chunk_TypeChangeForcesNewChunk(t *testing.T) {
	blocks := []clean.Block{
		{Type: clean.BlockText, Text: "intro paragraph"},
		{Type: clean.BlockTable, Text: "a table cell"},
	}
	c := chunk.NewChunker(chunk.DefaultParam())
	chunks := c.Chunk("page-1", blocks)
	require.Len(t, chunks, 2)
	assert.Equal(t, chunk.ChunkText, chunks[0].ChunkType())
	assert.Equal(t, chunk.ChunkTable, chunks[1].ChunkType())
}
