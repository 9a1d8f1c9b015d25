package simulate

import (
	"context"
	"sort"
	"strings"

	"github.com/findable-ai/findable-score/internal/question"
	"golang.org/x/sync/errgroup"
)

// Runner simulates the question bank against a Retriever.
type Runner struct {
	retriever Retriever
	config    Config
}

func NewRunner(retriever Retriever, config Config) Runner {
	return Runner{retriever: retriever, config: config}
}

// Run retrieves top-k chunks for every question concurrently (bounded by
// config.WorkerCount), scores each independently, then sorts results by
// question id before aggregating so the aggregate is independent of
// goroutine completion order.
func (r Runner) Run(ctx context.Context, questions []question.Question) (Result, error) {
	if err := r.config.Thresholds.Validate(); err != nil {
		return Result{}, err
	}

	results := make([]QuestionResult, len(questions))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.config.WorkerCount))

	for i, q := range questions {
		i, q := i, q
		g.Go(func() error {
			select {
			case <-gCtx.Done():
				return gCtx.Err()
			default:
			}
			qr, err := r.simulateOne(q)
			if err != nil {
				return err
			}
			results[i] = qr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].QuestionID < results[j].QuestionID
	})

	return aggregate(results, r.config), nil
}

func (r Runner) simulateOne(q question.Question) (QuestionResult, error) {
	chunks, err := r.retriever.Retrieve(q.Text, r.config.TopK)
	if err != nil {
		return QuestionResult{}, err
	}

	relevance := relevanceScore(chunks)
	signalsFound, signalsTotal, signalScore := signalMatchScore(chunks, q.ExpectedSignals, r.config.SignalMatchThreshold)
	confidenceScore, confidenceLevel := confidenceFromChunks(chunks)

	combined := r.config.Weights.Relevance*relevance +
		r.config.Weights.Signal*signalScore +
		r.config.Weights.Confidence*confidenceScore

	var maxRelevance float64
	for _, c := range chunks {
		if c.Score > maxRelevance {
			maxRelevance = c.Score
		}
	}

	return QuestionResult{
		QuestionID:     q.ID,
		Answerability:  classify(combined, r.config.Thresholds),
		Score:          combined,
		Confidence:     confidenceLevel,
		SignalsFound:   signalsFound,
		SignalsTotal:   signalsTotal,
		RelevanceScore: relevance,
		Context: Context{
			TotalChunks:       len(chunks),
			MaxRelevanceScore: maxRelevance,
		},
	}, nil
}

// relevanceScore is the mean of top-k retrieval scores, capped to [0,1].
func relevanceScore(chunks []RetrievedChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	var sum float64
	for _, c := range chunks {
		sum += c.Score
	}
	return clamp01(sum / float64(len(chunks)))
}

// signalMatchScore looks for each expected signal as a case-insensitive
// substring of the concatenated top-k content, and reports the fraction
// found, thresholded by signalMatchThreshold: below threshold the
// question counts as having found none of its signals toward the score
// (a near-miss is not a partial match).
func signalMatchScore(chunks []RetrievedChunk, expected []string, signalMatchThreshold float64) (found, total int, score float64) {
	total = len(expected)
	if total == 0 {
		return 0, 0, 1
	}
	var body strings.Builder
	for _, c := range chunks {
		body.WriteString(strings.ToLower(c.Content))
		body.WriteString(" ")
	}
	haystack := body.String()
	for _, sig := range expected {
		if sig == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(sig)) {
			found++
		}
	}
	frac := float64(found) / float64(total)
	if frac < signalMatchThreshold {
		return found, total, 0
	}
	return found, total, frac
}

// confidenceFromChunks derives a [0,1] confidence score from the best
// chunk's retrieval score, boosted slightly when it carries heading
// context (a heading-anchored chunk is a stronger signal than a bare
// paragraph), then quantizes it into {high,medium,low}.
func confidenceFromChunks(chunks []RetrievedChunk) (float64, Confidence) {
	if len(chunks) == 0 {
		return 0, ConfidenceLow
	}
	best := chunks[0]
	for _, c := range chunks {
		if c.Score > best.Score {
			best = c
		}
	}
	score := best.Score
	if len(best.HeadingContext) > 0 {
		score = clamp01(score + 0.1)
	}

	switch {
	case score >= 0.7:
		return score, ConfidenceHigh
	case score >= 0.4:
		return score, ConfidenceMedium
	default:
		return score, ConfidenceLow
	}
}

func classify(combined float64, t Thresholds) Answerability {
	switch {
	case combined >= t.FullyAnswerable:
		return AnswerabilityFully
	case combined >= t.PartiallyAnswerable:
		return AnswerabilityPartially
	default:
		return AnswerabilityNot
	}
}

func aggregate(results []QuestionResult, config Config) Result {
	var answered, partial, unanswered int
	var combinedSum float64
	var coveredCount int

	for _, r := range results {
		switch r.Answerability {
		case AnswerabilityFully:
			answered++
		case AnswerabilityPartially:
			partial++
		default:
			unanswered++
		}
		combinedSum += r.Score
		if r.Context.MaxRelevanceScore >= config.CoverageFloor {
			coveredCount++
		}
	}

	var overall, coverage float64
	if len(results) > 0 {
		overall = combinedSum / float64(len(results)) * 100
		coverage = float64(coveredCount) / float64(len(results)) * 100
	}

	return Result{
		QuestionsAnswered:   answered,
		QuestionsPartial:    partial,
		QuestionsUnanswered: unanswered,
		OverallScore:        overall,
		CoverageScore:       coverage,
		QuestionResults:     results,
	}
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
