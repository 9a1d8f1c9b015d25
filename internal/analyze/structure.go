package analyze

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/findable-ai/findable-score/internal/clean"
)

var definitionPatterns = []string{" is a ", " is an ", " are a ", " refers to ", " means ", " is the ", " is defined as "}

// StructureParam holds the sub-weights composing the Structure analyzer's
// composite score. They must sum to 1.0.
type StructureParam struct {
	HeadingsWeight     float64
	AnswerFirstWeight  float64
	AIAnswerBlockWeight float64
	ReadabilityWeight  float64
	FAQWeight          float64
	LinksWeight        float64
	FormatsWeight      float64
}

func DefaultStructureParam() StructureParam {
	return StructureParam{
		HeadingsWeight:      0.20,
		AnswerFirstWeight:   0.15,
		AIAnswerBlockWeight: 0.15,
		ReadabilityWeight:   0.15,
		FAQWeight:           0.15,
		LinksWeight:         0.10,
		FormatsWeight:       0.10,
	}
}

// WeightSum returns the sum of every sub-weight, for the caller to assert
// it is within epsilon of 1.0.
func (p StructureParam) WeightSum() float64 {
	return p.HeadingsWeight + p.AnswerFirstWeight + p.AIAnswerBlockWeight +
		p.ReadabilityWeight + p.FAQWeight + p.LinksWeight + p.FormatsWeight
}

// Structure composes the heading, link, and text-shape analyzers into a
// single score. headingOut and linkOut are expected to already have been
// computed by Heading and Link so their scores are reused rather than
// recomputed.
func Structure(page clean.CleanedPage, doc *goquery.Document, headingOut Output, linkOut Output, param StructureParam) Output {
	answerFirst := answerFirstScore(page.MainContent())
	aiBlock := aiAnswerBlockScore(page.MainContent())
	readability := readabilityScore(page.MainContent())
	faq := faqPresenceScore(doc, page.Metadata().SchemaTypes)
	formats := formatsScore(doc)

	composite := headingOut.RawScore*param.HeadingsWeight +
		answerFirst*param.AnswerFirstWeight +
		aiBlock*param.AIAnswerBlockWeight +
		readability*param.ReadabilityWeight +
		faq*param.FAQWeight +
		linkOut.RawScore*param.LinksWeight +
		formats*param.FormatsWeight

	out := newOutput("structure", composite, levelFromScore(composite))
	out.Details["answer_first_score"] = answerFirst
	out.Details["ai_answer_block_score"] = aiBlock
	out.Details["readability_score"] = readability
	out.Details["faq_score"] = faq
	out.Details["formats_score"] = formats
	return out
}

// answerFirstScore rewards the first paragraph directly addressing the
// page's topic near the top of main content: present, non-trivial, and
// within the opening ~120 words.
func answerFirstScore(mainContent string) float64 {
	paragraphs := splitParagraphs(mainContent)
	if len(paragraphs) == 0 {
		return 0
	}
	first := paragraphs[0]
	words := wordCount(first)
	if words == 0 {
		return 0
	}
	score := 100.0
	if words < 20 {
		score -= 30
	}
	if wordCount(mainContent) > 0 {
		offsetWords := wordCount(strings.SplitN(mainContent, first, 2)[0])
		if offsetWords > 120 {
			score -= 40
		}
	}
	return clampScore(score)
}

// aiAnswerBlockScore scores the first substantive paragraph: optimal
// 40-80 words, topic-leading (not a generic opener like "In this article"),
// and containing a definitional pattern.
func aiAnswerBlockScore(mainContent string) float64 {
	paragraphs := splitParagraphs(mainContent)
	if len(paragraphs) == 0 {
		return 0
	}
	first := strings.ToLower(paragraphs[0])
	words := wordCount(first)

	score := 0.0
	switch {
	case words >= 40 && words <= 80:
		score += 50
	case words > 0:
		score += 20
	}

	genericOpeners := []string{"in this article", "in this guide", "welcome to", "this page covers"}
	isGeneric := false
	for _, g := range genericOpeners {
		if strings.HasPrefix(first, g) {
			isGeneric = true
		}
	}
	if !isGeneric {
		score += 25
	}

	for _, pattern := range definitionPatterns {
		if strings.Contains(first, pattern) {
			score += 25
			break
		}
	}
	return clampScore(score)
}

// readabilityScore targets 2-4 sentences per paragraph, 15-22 words per
// sentence average, and no paragraph over 150 words.
func readabilityScore(mainContent string) float64 {
	paragraphs := splitParagraphs(mainContent)
	if len(paragraphs) == 0 {
		return 0
	}

	totalSentences, totalWords, overlong := 0, 0, 0
	for _, p := range paragraphs {
		sentences := splitSentences(p)
		totalSentences += len(sentences)
		totalWords += wordCount(p)
		if wordCount(p) > 150 {
			overlong++
		}
	}
	if totalSentences == 0 {
		return 0
	}
	avgSentencesPerParagraph := float64(totalSentences) / float64(len(paragraphs))
	avgWordsPerSentence := float64(totalWords) / float64(totalSentences)

	score := 100.0
	if avgSentencesPerParagraph < 2 || avgSentencesPerParagraph > 4 {
		score -= 25
	}
	if avgWordsPerSentence < 15 || avgWordsPerSentence > 22 {
		score -= 25
	}
	if overlong > 0 {
		score -= float64(overlong) * 10
	}
	return clampScore(score)
}

// faqPresenceScore looks for a FAQPage schema type or a <dl>/question-like
// heading pattern in the DOM.
func faqPresenceScore(doc *goquery.Document, schemaTypes []string) float64 {
	for _, t := range schemaTypes {
		if t == "FAQPage" {
			return 100
		}
	}
	if doc != nil && doc.Find("dl").Length() > 0 {
		return 60
	}
	questionHeadings := 0
	if doc != nil {
		doc.Find("h2, h3").Each(func(_ int, s *goquery.Selection) {
			text := strings.ToLower(s.Text())
			if strings.Contains(text, "faq") || strings.HasSuffix(strings.TrimSpace(text), "?") {
				questionHeadings++
			}
		})
	}
	if questionHeadings >= 2 {
		return 50
	}
	return 0
}

// formatsScore rewards use of lists, tables, and code blocks, which aid
// machine extractability of structured facts.
func formatsScore(doc *goquery.Document) float64 {
	if doc == nil {
		return 0
	}
	score := 0.0
	if doc.Find("ul, ol").Length() > 0 {
		score += 35
	}
	if doc.Find("table").Length() > 0 {
		score += 35
	}
	if doc.Find("pre, code").Length() > 0 {
		score += 30
	}
	return clampScore(score)
}
