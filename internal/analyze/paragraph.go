package analyze

import (
	"regexp"
	"strings"
)

var abbreviations = []string{"mr.", "mrs.", "dr.", "ms.", "prof.", "sr.", "jr.", "vs.", "etc.", "e.g.", "i.e.", "inc.", "ltd.", "co."}

var decimalNumberRe = regexp.MustCompile(`\d\.\d`)

var paragraphSplitRe = regexp.MustCompile(`\n{2,}`)

const (
	optimalParagraphMaxSentences = 4
	optimalParagraphMaxWords     = 100
)

// splitParagraphs splits text on blank lines. If the text has no blank
// lines (already flattened whitespace, as clean.CleanedPage.MainContent
// produces), it is treated as a single paragraph.
func splitParagraphs(text string) []string {
	parts := paragraphSplitRe.Split(text, -1)
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitSentences counts sentence boundaries on '.', '!', '?' while guarding
// against abbreviations and decimal numbers, which are not sentence ends.
func splitSentences(paragraph string) []string {
	masked := maskFalseBoundaries(paragraph)

	var sentences []string
	var cur strings.Builder
	for i, r := range masked {
		cur.WriteRune(rune(paragraph[i]))
		if r == '.' || r == '!' || r == '?' {
			sentences = append(sentences, strings.TrimSpace(cur.String()))
			cur.Reset()
		}
	}
	if rest := strings.TrimSpace(cur.String()); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// maskFalseBoundaries replaces periods that are part of an abbreviation or
// a decimal number with a placeholder rune so splitSentences skips them,
// while keeping the string the same length as the input (byte-for-byte)
// so the caller's index-based reconstruction stays aligned.
func maskFalseBoundaries(s string) string {
	lower := strings.ToLower(s)
	runes := []rune(s)
	lowerRunes := []rune(lower)

	for _, abbr := range abbreviations {
		abbrRunes := []rune(abbr)
		for i := 0; i+len(abbrRunes) <= len(lowerRunes); i++ {
			if string(lowerRunes[i:i+len(abbrRunes)]) == abbr {
				for k, ar := range abbrRunes {
					if ar == '.' {
						runes[i+k] = 'x'
					}
				}
			}
		}
	}
	for _, loc := range decimalNumberRe.FindAllStringIndex(s, -1) {
		dotIdx := loc[0] + 1
		if dotIdx < len(runes) {
			runes[dotIdx] = 'x'
		}
	}
	return string(runes)
}

func wordCount(s string) int {
	if strings.TrimSpace(s) == "" {
		return 0
	}
	return len(strings.Fields(s))
}

// Paragraph scores text on sentence density: an optimal paragraph has at
// most optimalParagraphMaxSentences sentences and at most
// optimalParagraphMaxWords words. The score rewards a high optimal ratio
// and penalizes long paragraphs and a high average sentence count.
func Paragraph(text string) Output {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		out := newOutput("paragraph", 0, LevelLimited)
		out.Issues = []string{"no paragraph content"}
		return out
	}

	optimalCount := 0
	totalSentences := 0
	longCount := 0
	for _, p := range paragraphs {
		sentences := splitSentences(p)
		totalSentences += len(sentences)
		words := wordCount(p)
		if len(sentences) <= optimalParagraphMaxSentences && words <= optimalParagraphMaxWords {
			optimalCount++
		}
		if words > 150 {
			longCount++
		}
	}

	optimalRatio := float64(optimalCount) / float64(len(paragraphs))
	avgSentences := float64(totalSentences) / float64(len(paragraphs))

	score := optimalRatio * 100
	var issues []string
	if avgSentences > optimalParagraphMaxSentences {
		score -= (avgSentences - optimalParagraphMaxSentences) * 5
		issues = append(issues, "high average sentence count per paragraph")
	}
	if longCount > 0 {
		score -= float64(longCount) * 5
		issues = append(issues, "long paragraphs present")
	}

	out := newOutput("paragraph", score, levelFromScore(score))
	out.Issues = issues
	out.Details["paragraph_count"] = len(paragraphs)
	out.Details["optimal_ratio"] = optimalRatio
	out.Details["avg_sentences_per_paragraph"] = avgSentences
	return out
}
