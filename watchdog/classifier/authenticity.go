package classifier

import (
	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Posts below this authenticity are counted as low-trust by the coordination risk policy.
//
// Penalties sum to at most 60, so a score under 65 means at least three red flags.
const LowAuthenticityThreshold = 65

// Post-level trust estimate on a 0 to 100 scale, from surface features of the text and its engagement.
type AuthenticityScorer struct {
	Urgency    keyword.Lexicon
	Unverified keyword.Lexicon
}

func NewAuthenticityScorer(urgency, unverified []string) *AuthenticityScorer {
	if len(urgency) == 0 {
		urgency = keyword.DefaultUrgencyWords
	}
	if len(unverified) == 0 {
		unverified = keyword.DefaultUnverifiedRefs
	}
	return &AuthenticityScorer{
		Urgency:    keyword.NewLexicon(urgency...),
		Unverified: keyword.NewLexicon(unverified...),
	}
}

func (as *AuthenticityScorer) Score(text string, likes int) int {
	score := 100
	if len([]rune(text)) < 20 {
		score -= 20
	}
	if helpers.CountEmoji(text) > 3 {
		score -= 15
	}
	if as.Urgency.Any(text) {
		score -= 10
	}
	if as.Unverified.Any(text) {
		score -= 15
	}
	if likes > 20 {
		score += 10
	}
	return max(0, min(100, score))
}
