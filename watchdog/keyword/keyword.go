package keyword

import (
	"strings"
)

// A list of lower-case phrases, matched as substrings of case-folded text.
//
// Substring matching is deliberately loose: "pump" also matches "pumping", and emoji phrases match anywhere in the text.
type Lexicon []string

func NewLexicon(phrases ...string) Lexicon {
	out := make(Lexicon, 0, len(phrases))
	seen := make(map[string]bool, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Returns every phrase found in the text, in lexicon order. Each phrase is reported at most once.
func (l Lexicon) Matches(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, p := range l {
		if strings.Contains(lower, p) {
			out = append(out, p)
		}
	}
	return out
}

func (l Lexicon) Count(text string) int {
	return len(l.Matches(text))
}

func (l Lexicon) Any(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range l {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
