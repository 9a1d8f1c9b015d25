package clean

import "time"

// BlockType tags the kind of content a Block holds, for chunking and
// formats-detection to distinguish prose from structured markup.
type BlockType string

const (
	BlockHeading BlockType = "heading"
	BlockText    BlockType = "text"
	BlockListItem BlockType = "list"
	BlockTable    BlockType = "table"
	BlockCode     BlockType = "code"
)

// Block is one document-ordered unit of main content, carrying the heading
// chain active at that point so downstream chunking can tag each chunk
// with its heading_context without re-walking the DOM.
type Block struct {
	Type           BlockType
	Text           string
	HeadingLevel   int
	HeadingContext []string
}

// CleanedPage is the output of isolating main content from a fetched HTML
// page and extracting its descriptive metadata.
type CleanedPage struct {
	url             string
	title           string
	mainContent     string
	fullText        string
	metadata        PageMetadata
	blocks          []Block
	wordCount       int
	depth           int
	fetchedAt       time.Time
	htmlSize        int
	contentSize     int
	compressionRate float64
}

func NewCleanedPage(
	url string,
	title string,
	mainContent string,
	fullText string,
	pageMetadata PageMetadata,
	blocks []Block,
	depth int,
	fetchedAt time.Time,
	htmlSize int,
) CleanedPage {
	wordCount := countWords(mainContent)
	contentSize := len(mainContent)
	var compressionRate float64
	if htmlSize > 0 {
		compressionRate = float64(contentSize) / float64(htmlSize)
	}
	return CleanedPage{
		url:             url,
		title:           title,
		mainContent:     mainContent,
		fullText:        fullText,
		metadata:        pageMetadata,
		blocks:          blocks,
		wordCount:       wordCount,
		depth:           depth,
		fetchedAt:       fetchedAt,
		htmlSize:        htmlSize,
		contentSize:     contentSize,
		compressionRate: compressionRate,
	}
}

func (p CleanedPage) Blocks() []Block { return p.blocks }

func (p CleanedPage) URL() string              { return p.url }
func (p CleanedPage) Title() string             { return p.title }
func (p CleanedPage) MainContent() string       { return p.mainContent }
func (p CleanedPage) FullText() string          { return p.fullText }
func (p CleanedPage) Metadata() PageMetadata    { return p.metadata }
func (p CleanedPage) WordCount() int            { return p.wordCount }
func (p CleanedPage) Depth() int                { return p.depth }
func (p CleanedPage) FetchedAt() time.Time      { return p.fetchedAt }
func (p CleanedPage) HTMLSize() int             { return p.htmlSize }
func (p CleanedPage) ContentSize() int          { return p.contentSize }
func (p CleanedPage) CompressionRatio() float64 { return p.compressionRate }

// OpenGraphTags holds the subset of og:* meta tags the pillars care about.
type OpenGraphTags struct {
	Title       string
	Description string
	Image       string
	Type        string
	SiteName    string
}

// TwitterCardTags holds the subset of twitter:* meta tags the pillars care about.
type TwitterCardTags struct {
	Card        string
	Title       string
	Description string
	Image       string
}

// Headings buckets every heading level found on a page, in document order.
type Headings struct {
	H1 []string
	H2 []string
	H3 []string
	H4 []string
	H5 []string
	H6 []string
}

// PageMetadata is purely descriptive: it never drives control flow on its
// own, only the analyzers consuming it do.
type PageMetadata struct {
	Title           string
	Description     string
	Keywords        []string
	Author          string
	PublishedDate   *time.Time
	ModifiedDate    *time.Time
	CanonicalURL    string
	Language        string
	OpenGraph       OpenGraphTags
	TwitterCard     TwitterCardTags
	Favicon         string
	Headings        Headings
	InternalLinks   int
	ExternalLinks   int
	ImageCount      int
	SchemaTypes     []string
	WordCount       int
}
