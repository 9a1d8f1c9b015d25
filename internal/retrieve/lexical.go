package retrieve

import (
	"math"
	"regexp"
	"strings"
)

var lexTokenRe = regexp.MustCompile(`[a-z0-9]+`)

const (
	bm25K1 = 1.2
	bm25B  = 0.75

	// headingContextBoost multiplies a term's contribution when it also
	// appears in the chunk's heading_context, since a heading mention is
	// a stronger signal of aboutness than a body mention.
	headingContextBoost = 1.5
)

func tokenize(text string) []string {
	return lexTokenRe.FindAllString(strings.ToLower(text), -1)
}

func termFreq(tokens []string) map[string]int {
	tf := map[string]int{}
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}

// lexicalIndex is a BM25-style scorer over a fixed corpus of docs, built
// once per Index and reused across Retrieve calls.
type lexicalIndex struct {
	docTokens   map[string][]string
	docHeadings map[string]map[string]bool
	docFreq     map[string]int
	avgDocLen   float64
	docCount    int
}

func newLexicalIndex(docs []Doc) *lexicalIndex {
	li := &lexicalIndex{
		docTokens:   map[string][]string{},
		docHeadings: map[string]map[string]bool{},
		docFreq:     map[string]int{},
	}
	var totalLen int
	for _, d := range docs {
		tokens := tokenize(d.Content)
		li.docTokens[d.DocID] = tokens
		totalLen += len(tokens)

		headingTokens := map[string]bool{}
		for _, h := range d.HeadingContext {
			for _, tok := range tokenize(h) {
				headingTokens[tok] = true
			}
		}
		li.docHeadings[d.DocID] = headingTokens

		seen := map[string]bool{}
		for _, tok := range tokens {
			if !seen[tok] {
				li.docFreq[tok]++
				seen[tok] = true
			}
		}
	}
	li.docCount = len(docs)
	if li.docCount > 0 {
		li.avgDocLen = float64(totalLen) / float64(li.docCount)
	}
	return li
}

// score returns an unbounded BM25-style score for docID against query,
// with matches inside heading_context weighted more heavily.
func (li *lexicalIndex) score(docID, query string) float64 {
	tokens, ok := li.docTokens[docID]
	if !ok || len(tokens) == 0 {
		return 0
	}
	tf := termFreq(tokens)
	headings := li.docHeadings[docID]
	docLen := float64(len(tokens))

	var score float64
	for _, qTok := range tokenize(query) {
		freq, present := tf[qTok]
		if !present {
			continue
		}
		df := li.docFreq[qTok]
		if df == 0 {
			continue
		}
		idf := math.Log(1 + (float64(li.docCount)-float64(df)+0.5)/(float64(df)+0.5))
		num := float64(freq) * (bm25K1 + 1)
		denom := float64(freq) + bm25K1*(1-bm25B+bm25B*docLen/maxFloat(li.avgDocLen, 1))
		term := idf * num / denom
		if headings[qTok] {
			term *= headingContextBoost
		}
		score += term
	}
	return score
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
