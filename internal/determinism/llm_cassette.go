package determinism

import (
	"strings"
	"sync"

	"github.com/findable-ai/findable-score/pkg/hashutil"
)

// LLMEpisode is one recorded prompt/response pair.
type LLMEpisode struct {
	Prompt   string
	Model    string
	Response string
}

func llmKey(prompt, model string) (string, error) {
	return hashutil.HashBytes([]byte(prompt+"\x00"+model), hashutil.HashAlgoSHA256)
}

// LLMCassette records and replays LLM calls keyed by hash(prompt, model),
// with an optional Jaccard-similarity fuzzy match for near-identical
// prompts (useful when a prompt template embeds a timestamp or run id
// that varies call to call but shouldn't defeat replay).
type LLMCassette struct {
	mu       sync.Mutex
	episodes []LLMEpisode

	FuzzyMatch         bool
	FuzzyMatchMinScore float64 // Jaccard similarity threshold, default 0.9
}

func NewLLMCassette() *LLMCassette {
	return &LLMCassette{FuzzyMatchMinScore: 0.9}
}

func (c *LLMCassette) Record(ep LLMEpisode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.episodes = append(c.episodes, ep)
}

// Match returns the recorded response for (prompt, model): an exact key
// match first, then — if FuzzyMatch is enabled — the highest-scoring
// episode for the same model above FuzzyMatchMinScore.
func (c *LLMCassette) Match(prompt, model string) (string, bool, error) {
	key, err := llmKey(prompt, model)
	if err != nil {
		return "", false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ep := range c.episodes {
		epKey, err := llmKey(ep.Prompt, ep.Model)
		if err != nil {
			return "", false, err
		}
		if epKey == key {
			return ep.Response, true, nil
		}
	}

	if !c.FuzzyMatch {
		return "", false, nil
	}

	var best LLMEpisode
	var bestScore float64
	found := false
	for _, ep := range c.episodes {
		if ep.Model != model {
			continue
		}
		score := jaccardSimilarity(prompt, ep.Prompt)
		if score > bestScore {
			bestScore = score
			best = ep
			found = true
		}
	}
	if found && bestScore >= c.FuzzyMatchMinScore {
		return best.Response, true, nil
	}
	return "", false, nil
}

func jaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 && len(setB) == 0 {
		return 1
	}
	var intersection int
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(s)) {
		set[tok] = true
	}
	return set
}
