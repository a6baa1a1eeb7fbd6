package classifier

import (
	"math"
	"strings"

	"github.com/trendai/watchdog/watchdog/helpers"
)

// Estimates how bot-like a post is, given its author and text. Higher is more bot-like.
type BotScorer interface {
	BotScore(accountID, text string) float64
}

// Hash-derived placeholder score, with a floor for accounts whose identifier gives them away.
type HashBotScorer struct {
	// lower-case substrings of account ids which indicate automation
	Markers []string
	Floor   float64
}

var _ BotScorer = (*HashBotScorer)(nil)

func NewHashBotScorer() *HashBotScorer {
	return &HashBotScorer{
		Markers: []string{"bot", "farm"},
		Floor:   0.8,
	}
}

func (bs *HashBotScorer) BotScore(accountID, text string) float64 {
	score := helpers.HashToUnit(accountID + text)
	lower := strings.ToLower(accountID)
	for _, m := range bs.Markers {
		if strings.Contains(lower, m) {
			score = math.Max(score, bs.Floor)
			break
		}
	}
	return helpers.Round(score, 3)
}
