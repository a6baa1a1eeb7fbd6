package fingerprint

import (
	"strings"
)

func tokenSet(text string) map[string]bool {
	fields := strings.Fields(strings.ToLower(text))
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

// Jaccard similarity of the case-folded, whitespace-split token sets of two texts.
//
// Returns 0 when both texts are empty. Symmetric, and 1 for any non-empty text compared with itself.
func Similarity(a, b string) float64 {
	return jaccard(tokenSet(a), tokenSet(b))
}

func jaccard(sa, sb map[string]bool) float64 {
	if len(sa) > len(sb) {
		sa, sb = sb, sa
	}
	inter := 0
	for tok := range sa {
		if sb[tok] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
