// Package authors extracts bylines from article text and resolves them to
// persistent author identities with running bias statistics.
package authors

import (
	"regexp"
	"strings"
)

// genericBylines are phrases that mark an institutional byline rather than a
// person. Matched case-insensitively as substrings of the whole byline.
var genericBylines = []string{
	"staff",
	"editor",
	"correspondent",
	"reporter",
	"news desk",
	"editorial board",
	"opinion",
	"wire services",
	"associated press",
	"reuters",
	"bloomberg",
	"news service",
	"staff writer",
}

// initialDot matches a period that follows a single-letter initial, so that
// "J. Smith" and "J Smith" normalize to the same key.
var initialDot = regexp.MustCompile(`\b([A-Za-z])\.`)

// whitespaceRun collapses consecutive whitespace into a single space.
var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeKey maps byline variants of the same person to one identity key:
// whitespace collapsed, initials' periods dropped, lowercased.
func NormalizeKey(byline string) string {
	s := initialDot.ReplaceAllString(byline, "$1")
	s = whitespaceRun.ReplaceAllString(s, " ")
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidByline reports whether the byline plausibly names a person. Generic
// institutional bylines, single-token names and shouty or all-lowercase
// strings are rejected.
func ValidByline(byline string) bool {
	trimmed := strings.TrimSpace(byline)
	if trimmed == "" {
		return false
	}

	lower := strings.ToLower(trimmed)
	for _, generic := range genericBylines {
		if strings.Contains(lower, generic) {
			return false
		}
	}

	if len(strings.Fields(trimmed)) < 2 {
		return false
	}
	if trimmed == strings.ToUpper(trimmed) || trimmed == strings.ToLower(trimmed) {
		return false
	}
	return true
}

// bylineWindow bounds how far into the body the byline scan reaches. Bylines
// appear at the top of the article or not at all.
const bylineWindow = 1000

// namePattern matches two to four capitalized name tokens on one line,
// allowing initials, hyphens and apostrophes. The separator excludes newlines
// so a byline never swallows the following line.
const namePattern = `([A-ZÄÖÜÉÈÀ][\p{L}.'\-]*(?:[ \t]+[A-ZÄÖÜÉÈÀ][\p{L}.'\-]*){1,3})`

// bylinePatterns cover the byline markers of German, French, Italian and
// English language Swiss outlets.
var bylinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^[ \t]*[Bb]y[ \t]+` + namePattern),
	regexp.MustCompile(`(?m)^[ \t]*[Vv]on[ \t]+` + namePattern),
	regexp.MustCompile(`(?m)^[ \t]*[Pp]ar[ \t]+` + namePattern),
	regexp.MustCompile(`(?m)^[ \t]*[Dd]i[ \t]+` + namePattern),
	regexp.MustCompile(`\bBy[ \t]+` + namePattern),
	regexp.MustCompile(`\bVon[ \t]+` + namePattern),
	// "Jane Muster, Tages-Anzeiger" style attribution lines.
	regexp.MustCompile(`(?m)^` + namePattern + `,[ \t]+[A-Z]`),
}

// headlinePatterns catch attributed opinion pieces whose author only appears
// in the headline.
var headlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\banalysis by)[ \t]+` + namePattern),
	regexp.MustCompile(`(?i:\bcomment(?:ary)? by)[ \t]+` + namePattern),
	regexp.MustCompile(`(?i:\bkolumne von)[ \t]+` + namePattern),
}

// ExtractFromContent scans the top of the article body for a byline and
// returns the first valid one, or "" when none is found.
func ExtractFromContent(content string) string {
	head := content
	if runes := []rune(head); len(runes) > bylineWindow {
		head = string(runes[:bylineWindow])
	}
	for _, pat := range bylinePatterns {
		if m := pat.FindStringSubmatch(head); m != nil {
			if candidate := cleanByline(m[1]); ValidByline(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// ExtractFromHeadline pulls an author out of attributed headlines such as
// "Analysis by Jane Muster".
func ExtractFromHeadline(headline string) string {
	for _, pat := range headlinePatterns {
		if m := pat.FindStringSubmatch(headline); m != nil {
			if candidate := cleanByline(m[1]); ValidByline(candidate) {
				return candidate
			}
		}
	}
	return ""
}

// Extract tries the body first and falls back to the headline.
func Extract(headline, content string) string {
	if byline := ExtractFromContent(content); byline != "" {
		return byline
	}
	return ExtractFromHeadline(headline)
}

func cleanByline(s string) string {
	return strings.TrimRight(whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " "), ",.")
}
