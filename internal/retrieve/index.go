package retrieve

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/findable-ai/findable-score/internal/embed"
)

// BlendWeight is the fixed convex-combination weight given to the
// semantic (cosine) score; 1-BlendWeight goes to the lexical score.
// Fixed rather than query-adaptive: the contract downstream consumers
// depend on is a stable blend, not one that shifts per query shape.
const BlendWeight = 0.65

// Index is a per-site hybrid retrieval index: exclusively owned by the
// run building it until Build completes, then safe for concurrent
// read-only Retrieve calls.
type Index struct {
	siteID   string
	embedder *embed.Embedder

	mu   sync.RWMutex
	docs map[string]Doc // keyed by content_hash, unique per (content_hash, site_id)

	built    bool
	ordered  []Doc
	lexical  *lexicalIndex
}

func NewIndex(siteID string, embedder *embed.Embedder) *Index {
	return &Index{siteID: siteID, embedder: embedder, docs: map[string]Doc{}}
}

// Upsert inserts or replaces a doc keyed on content hash; last write for
// a given content hash wins. Must be called before Build.
func (idx *Index) Upsert(doc Doc) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	doc.SiteID = idx.siteID
	idx.docs[doc.ContentHash] = doc
	idx.built = false
}

// Build finalizes the lexical index over the current doc set. Must be
// called once after all Upserts and before any Retrieve.
func (idx *Index) Build() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.ordered = idx.ordered[:0]
	for _, d := range idx.docs {
		idx.ordered = append(idx.ordered, d)
	}
	sort.Slice(idx.ordered, func(i, j int) bool {
		return idx.ordered[i].DocID < idx.ordered[j].DocID
	})
	idx.lexical = newLexicalIndex(idx.ordered)
	idx.built = true
}

func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Retrieve runs the hybrid query: vector cosine k-NN merged with the
// lexical scorer, combined by a fixed convex blend, returning the top k
// by descending score with the spec's deterministic tie-break: lower
// position_ratio, then lexical doc_id.
func (idx *Index) Retrieve(query string, k int) ([]Result, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if !idx.built || len(idx.ordered) == 0 || k <= 0 {
		return nil, nil
	}

	queryVec, err := idx.embedder.Embed(query)
	if err != nil {
		return nil, fmt.Errorf("retrieve: embed query: %w", err)
	}

	type scored struct {
		doc      Doc
		semantic float64
		lexical  float64
	}
	candidates := make([]scored, 0, len(idx.ordered))
	var maxLex float64
	for _, d := range idx.ordered {
		sem := cosineSimilarity(queryVec, d.Embedding)
		lex := idx.lexical.score(d.DocID, query)
		if lex > maxLex {
			maxLex = lex
		}
		candidates = append(candidates, scored{doc: d, semantic: sem, lexical: lex})
	}

	results := make([]Result, 0, len(candidates))
	for _, c := range candidates {
		semNorm := clamp01((c.semantic + 1) / 2)
		lexNorm := 0.0
		if maxLex > 0 {
			lexNorm = clamp01(c.lexical / maxLex)
		}
		combined := BlendWeight*semNorm + (1-BlendWeight)*lexNorm
		results = append(results, Result{
			DocID:          c.doc.DocID,
			Content:        c.doc.Content,
			Score:          combined,
			Distance:       1 - c.semantic,
			HeadingContext: c.doc.HeadingContext,
			SourceURL:      c.doc.SourceURL,
			PageTitle:      c.doc.PageTitle,
		})
	}

	posRatio := make(map[string]float64, len(idx.ordered))
	for _, d := range idx.ordered {
		posRatio[d.DocID] = d.PositionRatio
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		pi, pj := posRatio[results[i].DocID], posRatio[results[j].DocID]
		if pi != pj {
			return pi < pj
		}
		return results[i].DocID < results[j].DocID
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
