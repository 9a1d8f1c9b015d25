package question

import "fmt"

// perCategoryCount is the fixed size of each category's slice in the
// bank, so the total bank size never varies with site content.
const perCategoryCount = 3

// Generate returns the deterministic question bank for ctx. Category
// order and in-category order are both fixed, so Generate(ctx) always
// returns the same slice for the same ctx.
func Generate(ctx SiteContext) []Question {
	var out []Question
	out = append(out, identityQuestions(ctx)...)
	out = append(out, offeringsQuestions(ctx)...)
	out = append(out, howToQuestions(ctx)...)
	out = append(out, comparisonQuestions(ctx)...)
	out = append(out, faqQuestions(ctx)...)
	out = append(out, technicalQuestions(ctx)...)
	return out
}

func name(ctx SiteContext) string {
	if ctx.CompanyName != "" {
		return ctx.CompanyName
	}
	return ctx.Domain
}

// headingAt returns the heading at index i, cycling through the
// available headings so a fixed number of questions can always be
// produced even from a short heading list, or "" if there are none.
func headingAt(ctx SiteContext, i int) string {
	if len(ctx.Headings) == 0 {
		return ""
	}
	return ctx.Headings[i%len(ctx.Headings)]
}

func mkQuestion(id, text string, category Category, difficulty Difficulty, signals ...string) Question {
	var filtered []string
	for _, s := range signals {
		if s != "" {
			filtered = append(filtered, s)
		}
	}
	return Question{ID: id, Text: text, Category: category, Difficulty: difficulty, ExpectedSignals: filtered}
}

func identityQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	return []Question{
		mkQuestion("identity-1", fmt.Sprintf("What is %s?", n), CategoryIdentity, DifficultyEasy, n, ctx.Domain),
		mkQuestion("identity-2", fmt.Sprintf("Who owns the %s website?", ctx.Domain), CategoryIdentity, DifficultyEasy, n, ctx.Domain),
		mkQuestion("identity-3", fmt.Sprintf("What does %s do?", n), CategoryIdentity, DifficultyMedium, n),
	}
}

func offeringsQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	return []Question{
		mkQuestion("offerings-1", fmt.Sprintf("What products or services does %s offer?", n), CategoryOfferings, DifficultyEasy, n, headingAt(ctx, 0)),
		mkQuestion("offerings-2", fmt.Sprintf("What is included in %s's %s?", n, fallback(headingAt(ctx, 1), "pricing plans")), CategoryOfferings, DifficultyMedium, headingAt(ctx, 1)),
		mkQuestion("offerings-3", fmt.Sprintf("Does %s offer a free trial or free tier?", n), CategoryOfferings, DifficultyMedium, "free", "trial"),
	}
}

func howToQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	return []Question{
		mkQuestion("how-to-1", fmt.Sprintf("How do I get started with %s?", n), CategoryHowTo, DifficultyEasy, "get started", "getting started"),
		mkQuestion("how-to-2", fmt.Sprintf("How do I set up %s?", fallback(headingAt(ctx, 2), n)), CategoryHowTo, DifficultyMedium, headingAt(ctx, 2), "setup", "install"),
		mkQuestion("how-to-3", fmt.Sprintf("How do I contact %s support?", n), CategoryHowTo, DifficultyEasy, "contact", "support"),
	}
}

func comparisonQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	return []Question{
		mkQuestion("comparison-1", fmt.Sprintf("How does %s compare to its alternatives?", n), CategoryComparison, DifficultyHard, n, "alternative", "compare"),
		mkQuestion("comparison-2", fmt.Sprintf("Why should I choose %s over a competitor?", n), CategoryComparison, DifficultyHard, n, "competitor"),
		mkQuestion("comparison-3", fmt.Sprintf("What makes %s different?", n), CategoryComparison, DifficultyMedium, n, "different", "unique"),
	}
}

func faqQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	return []Question{
		mkQuestion("faq-1", fmt.Sprintf("What is %s's refund or cancellation policy?", n), CategoryFAQ, DifficultyMedium, "refund", "cancel"),
		mkQuestion("faq-2", fmt.Sprintf("Is %s's pricing published publicly?", n), CategoryFAQ, DifficultyMedium, "price", "pricing"),
		mkQuestion("faq-3", fmt.Sprintf("What do customers frequently ask about %s?", n), CategoryFAQ, DifficultyEasy, "frequently asked", "faq"),
	}
}

func technicalQuestions(ctx SiteContext) []Question {
	n := name(ctx)
	schema := ""
	if len(ctx.SchemaTypes) > 0 {
		schema = ctx.SchemaTypes[0]
	}
	return []Question{
		mkQuestion("technical-1", fmt.Sprintf("Does %s expose structured data (schema.org) markup?", n), CategoryTechnical, DifficultyHard, schema, "schema"),
		mkQuestion("technical-2", fmt.Sprintf("Is %s's content accessible without running JavaScript?", n), CategoryTechnical, DifficultyHard, "javascript", "server-rendered"),
		mkQuestion("technical-3", fmt.Sprintf("Does %s publish an API or developer documentation?", n), CategoryTechnical, DifficultyMedium, "API", "documentation"),
	}
}

func fallback(primary, alt string) string {
	if primary != "" {
		return primary
	}
	return alt
}
