package metadata

import "time"

// MetadataSink is the narrow write port every pipeline package depends on to
// report fetch events, asset fetches, written artifacts, and classified
// errors. It is the seam that lets packages stay ignorant of how events are
// actually stored (in-memory Recorder in production, a spy in tests).
type MetadataSink interface {
	RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int)
	RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
	RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute)
}

// CrawlFinalizer records the terminal summary of a completed crawl, exactly
// once, after scheduling has stopped. Kept separate from MetadataSink so a
// component that only reports in-flight events never also gets a way to
// close out the run.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration)
}

// ArtifactKind classifies a written artifact for observability purposes only.
type ArtifactKind string

const (
	ArtifactMarkdown ArtifactKind = "markdown"
	ArtifactAsset    ArtifactKind = "asset"
	ArtifactSnapshot ArtifactKind = "snapshot"
	ArtifactCrawl    ArtifactKind = "crawl_cache"
)

var _ MetadataSink = (*Recorder)(nil)
var _ CrawlFinalizer = (*Recorder)(nil)

// NoopSink discards every event. Useful in tests that exercise a component
// depending on MetadataSink but don't care about its observability output.
type NoopSink struct{}

func (s *NoopSink) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
}

func (s *NoopSink) RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int) {
}

func (s *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (s *NoopSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
}

var _ MetadataSink = (*NoopSink)(nil)
