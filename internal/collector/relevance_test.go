package collector

import (
	"testing"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
)

var testKeywords = []string{"Bundesrat", "Abstimmung", "Referendum"}

func TestMatchCount_CaseInsensitiveSubstring(t *testing.T) {
	if got := MatchCount("Der BUNDESRAT plant eine abstimmung", testKeywords); got != 2 {
		t.Errorf("got %d matches, want 2", got)
	}
	// Substring containment: a keyword inside a longer word counts.
	if got := MatchCount("Abstimmungskampf beginnt", testKeywords); got != 1 {
		t.Errorf("got %d matches, want 1", got)
	}
	if got := MatchCount("nothing relevant here", testKeywords); got != 0 {
		t.Errorf("got %d matches, want 0", got)
	}
}

func TestRelevant_SingleHeadlineMatchSuffices(t *testing.T) {
	c := domain.Candidate{
		Headline: "Bundesrat entscheidet",
		Content:  "no further keywords in the body",
	}
	if !Relevant(c, testKeywords) {
		t.Errorf("one headline match should be enough")
	}
}

func TestRelevant_BodyOnlyNeedsTwoMatches(t *testing.T) {
	one := domain.Candidate{
		Headline: "Neues aus Bern",
		Content:  "Die Abstimmung findet im Herbst statt.",
	}
	if Relevant(one, testKeywords) {
		t.Errorf("a single body match should not be enough")
	}

	two := domain.Candidate{
		Headline: "Neues aus Bern",
		Content:  "Die Abstimmung zum Referendum findet im Herbst statt.",
	}
	if !Relevant(two, testKeywords) {
		t.Errorf("two combined matches should pass")
	}
}

func TestFilterRelevant(t *testing.T) {
	in := []domain.Candidate{
		{Headline: "Bundesrat entscheidet", Content: ""},
		{Headline: "Sportresultate", Content: "nichts politisches"},
	}
	out := FilterRelevant(in, testKeywords)
	if len(out) != 1 || out[0].Headline != "Bundesrat entscheidet" {
		t.Errorf("unexpected filter result: %+v", out)
	}
}
