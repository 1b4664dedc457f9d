package itinerary

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	// an unterminated fence still yields its body, completions are often cut off
	fencedJSONPattern = regexp.MustCompile("(?is)```json\\s*(.*?)\\s*(?:```|\\z)")
	braceSpanPattern  = regexp.MustCompile(`(?s)\{.*\}`)
)

// ExtractCandidates returns the strings of raw believed to contain the JSON
// itinerary, most likely first: the raw text, the first ```json fenced block
// and the outermost brace span. Trimmed duplicates and empty strings are
// dropped, so an empty result is possible.
func ExtractCandidates(raw string) []string {
	candidates := []string{raw}

	if m := fencedJSONPattern.FindStringSubmatch(raw); m != nil {
		candidates = append(candidates, m[1])
	}
	if span := braceSpanPattern.FindString(raw); span != "" {
		candidates = append(candidates, span)
	}

	trimmed := lo.FilterMap(candidates, func(c string, _ int) (string, bool) {
		c = strings.TrimSpace(c)
		return c, c != ""
	})
	return lo.Uniq(trimmed)
}
