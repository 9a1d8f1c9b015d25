package chunk

// ChunkType mirrors clean.BlockType for the chunk that resulted from
// merging one or more blocks of that kind.
type ChunkType string

const (
	ChunkText  ChunkType = "text"
	ChunkList  ChunkType = "list"
	ChunkTable ChunkType = "table"
	ChunkCode  ChunkType = "code"
)

// Chunk is one semantically coherent slice of a page's content, tagged
// with the heading chain active when it occurred in the source document.
type Chunk struct {
	chunkID        string
	pageID         string
	content        string
	headingContext []string
	chunkType      ChunkType
	chunkIndex     int
	positionRatio  float64
}

func (c Chunk) ChunkID() string          { return c.chunkID }
func (c Chunk) PageID() string           { return c.pageID }
func (c Chunk) Content() string          { return c.content }
func (c Chunk) HeadingContext() []string { return c.headingContext }
func (c Chunk) ChunkType() ChunkType     { return c.chunkType }
func (c Chunk) ChunkIndex() int          { return c.chunkIndex }
func (c Chunk) PositionRatio() float64   { return c.positionRatio }
