package embed

import (
	"sync"

	"github.com/findable-ai/findable-score/pkg/hashutil"
)

// Embedder wraps a Model with a content-hash keyed cache so repeated
// chunks (or re-runs over unchanged pages) never recompute a vector.
type Embedder struct {
	model Model
	mu    sync.RWMutex
	cache map[string][]float32
}

func NewEmbedder(model Model) *Embedder {
	return &Embedder{model: model, cache: map[string][]float32{}}
}

func (e *Embedder) Model() Model { return e.model }

// ContentHash returns the SHA-256 hex digest of text, the key used both
// for the embedding cache and for StoredEmbedding's uniqueness constraint.
func ContentHash(text string) string {
	digest, _ := hashutil.HashBytes([]byte(text), hashutil.HashAlgoSHA256)
	return digest
}

// Embed returns text's vector, computing and caching it on a miss. The
// cache key includes the model name so swapping models never serves a
// stale vector from a different model's cache entry.
func (e *Embedder) Embed(text string) ([]float32, error) {
	key := e.model.Name() + ":" + ContentHash(text)

	e.mu.RLock()
	if v, ok := e.cache[key]; ok {
		e.mu.RUnlock()
		return v, nil
	}
	e.mu.RUnlock()

	vec, err := e.model.Embed(text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[key] = vec
	e.mu.Unlock()
	return vec, nil
}
