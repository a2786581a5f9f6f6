package classifier

import (
	"fmt"
	"strings"

	"github.com/devpouya/swiss-media-bias-tracker/internal/domain"
	"github.com/devpouya/swiss-media-bias-tracker/internal/registry"
)

// maxContentChars bounds how much article body goes into the prompt.
const maxContentChars = 3000

// buildPrompt assembles the topic-specific classification prompt. One generic
// template parameterized by the topic descriptor; only the guidance block and
// the label triple differ per topic.
func buildPrompt(topic registry.TopicConfig, c domain.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Analyze this Swiss article about %s for bias, considering cultural and political nuances of Swiss media:\n\n", topic.DisplayName)
	b.WriteString(topic.Guidance)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Article Title: %s\n", c.Headline)
	fmt.Fprintf(&b, "Article Content: %s...\n\n", truncateRunes(c.Content, maxContentChars))

	b.WriteString("Classify as:\n")
	fmt.Fprintf(&b, "- %q: %s\n", topic.SideA, topic.SideADesc)
	fmt.Fprintf(&b, "- %q: %s\n", domain.CategoryNeutral, topic.NeutralDesc)
	fmt.Fprintf(&b, "- %q: %s\n\n", topic.SideB, topic.SideBDesc)

	b.WriteString("Return ONLY valid JSON:\n")
	fmt.Fprintf(&b, `{
    "category": "%s|%s|%s",
    "confidence": 0.8,
    "main_reasons": ["Quotes only one side", "Uses loaded terminology"],
    "key_indicators": ["source_imbalance", "loaded_language", "context_omission"]
}
`, topic.SideA, domain.CategoryNeutral, topic.SideB)

	return b.String()
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
