package metadata

import (
	"sync"
	"time"
)

/*
Metadata Collected
- Fetch timestamps
- HTTP status codes
- Content hashes
- Crawl depth

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred.

Allowed:
- Primitive values
- Timestamps
- URLs (as values, not objects with behavior)
- Hashes
- Status codes
- Durations
- Identifiers (page ID, crawl ID)
*/

// AssetFetchEvent mirrors FetchEvent for non-HTML asset requests, which are
// recorded separately since they carry no crawl depth of their own.
type AssetFetchEvent struct {
	fetchUrl   string
	httpStatus int
	duration   int64
	retryCount int
}

// Recorder accumulates the events emitted by every pipeline stage during a
// single run. It is the one implementation of MetadataSink used outside
// tests; it never influences control flow (see ErrorCause's doc comment).
type Recorder struct {
	mu sync.Mutex

	crawlID      string
	fetches      []FetchEvent
	assetFetches []AssetFetchEvent
	artifacts    []ArtifactRecord
	errors       []ErrorRecord
	finalStats   *crawlStats
}

// NewRecorder returns an empty, ready-to-use Recorder tagged with crawlID,
// the identifier every subsequent event is implicitly scoped to.
func NewRecorder(crawlID string) *Recorder {
	return &Recorder{crawlID: crawlID}
}

func (r *Recorder) RecordFetch(fetchUrl string, httpStatus int, duration time.Duration, contentType string, retryCount int, crawlDepth int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetches = append(r.fetches, FetchEvent{
		fetchUrl:    fetchUrl,
		httpStatus:  httpStatus,
		duration:    duration,
		contentType: contentType,
		retryCount:  retryCount,
		crawlDepth:  crawlDepth,
	})
}

func (r *Recorder) RecordAssetFetch(fetchUrl string, httpStatus int, duration time.Duration, retryCount int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assetFetches = append(r.assetFetches, AssetFetchEvent{
		fetchUrl:   fetchUrl,
		httpStatus: httpStatus,
		duration:   int64(duration),
		retryCount: retryCount,
	})
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.artifacts = append(r.artifacts, ArtifactRecord{Kind: kind, Path: path, Attrs: attrs})
}

func (r *Recorder) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, errorString string, attrs []Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, ErrorRecord{
		packageName: packageName,
		action:      action,
		cause:       cause,
		errorString: errorString,
		observedAt:  observedAt,
		attrs:       attrs,
	})
}

// Fetches returns a defensive copy of the recorded fetch events, in
// recording order.
func (r *Recorder) Fetches() []FetchEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FetchEvent, len(r.fetches))
	copy(out, r.fetches)
	return out
}

// Artifacts returns a defensive copy of the recorded artifacts.
func (r *Recorder) Artifacts() []ArtifactRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ArtifactRecord, len(r.artifacts))
	copy(out, r.artifacts)
	return out
}

// Errors returns a defensive copy of the recorded error events.
func (r *Recorder) Errors() []ErrorRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ErrorRecord, len(r.errors))
	copy(out, r.errors)
	return out
}

// RecordFinalCrawlStats records the terminal summary of a completed crawl.
// Per data.go's contract this must happen exactly once and must not
// influence scheduling, retries, or crawl termination — it is recorded
// after the scheduler has already decided the crawl is over.
func (r *Recorder) RecordFinalCrawlStats(totalPages int, totalErrors int, totalAssets int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finalStats = &crawlStats{
		totalPages:  totalPages,
		totalErrors: totalErrors,
		totalAssets: totalAssets,
		durationMs:  duration.Milliseconds(),
	}
}

// FinalStats returns the recorded terminal summary, or nil if the crawl
// has not yet finalized.
func (r *Recorder) FinalStats() *crawlStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finalStats == nil {
		return nil
	}
	stats := *r.finalStats
	return &stats
}
