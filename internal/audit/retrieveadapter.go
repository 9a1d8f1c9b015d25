package audit

import (
	"github.com/findable-ai/findable-score/internal/retrieve"
	"github.com/findable-ai/findable-score/internal/simulate"
)

// retrieverAdapter satisfies simulate.Retriever over a *retrieve.Index,
// narrowing retrieve.Result (which also carries doc_id/source_url/page_title
// for display) down to the content/score/heading_context triple the
// simulator actually scores on.
type retrieverAdapter struct {
	index *retrieve.Index
}

func newRetrieverAdapter(index *retrieve.Index) retrieverAdapter {
	return retrieverAdapter{index: index}
}

func (a retrieverAdapter) Retrieve(query string, k int) ([]simulate.RetrievedChunk, error) {
	results, err := a.index.Retrieve(query, k)
	if err != nil {
		return nil, err
	}
	chunks := make([]simulate.RetrievedChunk, len(results))
	for i, r := range results {
		chunks[i] = simulate.RetrievedChunk{
			Content:        r.Content,
			Score:          r.Score,
			HeadingContext: r.HeadingContext,
		}
	}
	return chunks, nil
}

var _ simulate.Retriever = retrieverAdapter{}
