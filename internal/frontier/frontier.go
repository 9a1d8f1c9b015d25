package frontier

import (
	"net/url"
	"sync"

	"github.com/findable-ai/findable-score/internal/config"
	"github.com/findable-ai/findable-score/pkg/urlutil"
)

/*
Frontier Responsibilities
- Maintain BFS ordering
- Deduplicate URLs
- Track crawl depth
- Prevent infinite traversal
- Knows nothing about:
	- fetching
	- extraction
	- markdown
	- storage

It is a data structure + policy module, not a pipeline executor.
*/

// Frontier holds one FIFO queue per depth level so Dequeue can always drain
// the lowest non-empty depth first, guaranteeing strict BFS ordering even
// when deeper URLs are discovered and submitted before shallower ones.
type Frontier struct {
	mu            sync.Mutex
	queuesByDepth map[int]*FIFOQueue[CrawlToken]
	visited       Set[string]
	maxDepth      int
	maxPages      int
}

// NewCrawlFrontier returns a Frontier ready for Init.
func NewCrawlFrontier() Frontier {
	return Frontier{
		queuesByDepth: make(map[int]*FIFOQueue[CrawlToken]),
		visited:       NewSet[string](),
	}
}

// NewFrontier is an alias for NewCrawlFrontier.
func NewFrontier() Frontier {
	return NewCrawlFrontier()
}

// Init configures the frontier's limits from cfg. A zero MaxDepth/MaxPages
// means unlimited.
func (f *Frontier) Init(cfg config.Config) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.maxDepth = cfg.MaxDepth()
	f.maxPages = cfg.MaxPages()
}

// Submit admits candidate into the frontier, unless it has already been
// visited, exceeds MaxDepth, or MaxPages has already been reached.
func (f *Frontier) Submit(candidate CrawlAdmissionCandidate) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := candidate.DiscoveryMetadata().Depth()
	if f.maxDepth > 0 && depth > f.maxDepth {
		return
	}

	key := canonicalKey(candidate.TargetURL())
	if f.visited.Contains(key) {
		return
	}
	if f.maxPages > 0 && f.visited.Size() >= f.maxPages {
		return
	}
	f.visited.Add(key)

	queue, exists := f.queuesByDepth[depth]
	if !exists {
		queue = NewFIFOQueue[CrawlToken]()
		f.queuesByDepth[depth] = queue
	}
	queue.Enqueue(NewCrawlToken(candidate.TargetURL(), depth))
}

// Dequeue returns the next token in strict BFS order: the lowest depth with
// a pending token. Returns false when no token is pending at any depth.
func (f *Frontier) Dequeue() (CrawlToken, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	depth := f.minPendingDepthLocked()
	if depth == -1 {
		return CrawlToken{}, false
	}
	return f.queuesByDepth[depth].Dequeue()
}

// VisitedCount returns the number of unique, admitted URLs. It never
// decreases, even after those URLs are dequeued.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visited.Size()
}

// IsDepthExhausted reports whether depth has no pending tokens. Negative
// depths are always exhausted.
func (f *Frontier) IsDepthExhausted(depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if depth < 0 {
		return true
	}
	queue, exists := f.queuesByDepth[depth]
	return !exists || queue.Size() == 0
}

// CurrentMinDepth returns the lowest depth with a pending token, or -1 if
// the frontier is empty.
func (f *Frontier) CurrentMinDepth() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.minPendingDepthLocked()
}

func (f *Frontier) minPendingDepthLocked() int {
	min := -1
	for depth, queue := range f.queuesByDepth {
		if queue.Size() == 0 {
			continue
		}
		if min == -1 || depth < min {
			min = depth
		}
	}
	return min
}

// canonicalKey produces the deduplication key for target. Canonicalize
// normalizes scheme/host case, default ports, and trailing slashes so
// semantically identical URLs collide on the same key.
func canonicalKey(target url.URL) string {
	return urlutil.Canonicalize(target).String()
}
