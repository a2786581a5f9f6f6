package collector

import (
	"strings"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
)

// MatchCount counts how many topic keywords appear in the text.
// Matching is case-insensitive substring containment, not tokenized: a keyword
// inside a longer word still counts. Deliberately recall-favoring; downstream
// classification confidence absorbs false positives.
func MatchCount(text string, keywords []string) int {
	lower := strings.ToLower(text)
	count := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			count++
		}
	}
	return count
}

// Relevant reports whether a candidate is sufficiently on-topic: at least two
// keyword matches across headline and content combined, or at least one match
// in the headline alone.
func Relevant(c domain.Candidate, keywords []string) bool {
	headlineMatches := MatchCount(c.Headline, keywords)
	if headlineMatches >= 1 {
		return true
	}
	combined := MatchCount(c.Headline+" "+c.Content, keywords)
	return combined >= 2
}

// FilterRelevant keeps only candidates that pass the relevance check.
func FilterRelevant(candidates []domain.Candidate, keywords []string) []domain.Candidate {
	relevant := make([]domain.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if Relevant(c, keywords) {
			relevant = append(relevant, c)
		}
	}
	return relevant
}
