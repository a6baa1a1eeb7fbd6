package narrative

import (
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

// Narrative risk levels
const (
	LevelLow      = "LOW"
	LevelHigh     = "HIGH"
	LevelCritical = "CRITICAL"
)

type NarrativeRisk struct {
	NarrativeID   string  `json:"narrative_id"`
	TokenID       string  `json:"token_id"`
	Topic         string  `json:"topic"`
	RiskLevel     string  `json:"risk_level"`
	Warning       string  `json:"warning"`
	BotPercentage float64 `json:"bot_percentage"`
	AvgSentiment  float64 `json:"avg_sentiment"`
	PostCount     int     `json:"post_count"`
	// time span over the resolvable posts only
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Rates each narrative by the share of bot-like posts in it and their mean sentiment.
//
// Post ids which don't resolve are ignored. A narrative with no resolvable posts is dropped from the output entirely. Output order follows input order.
func Assess(narratives []*models.Narrative, postsByID map[string]*models.Post) []NarrativeRisk {
	out := []NarrativeRisk{}
	for _, n := range narratives {
		var resolved []*models.Post
		for _, id := range n.PostIDs {
			if p, ok := postsByID[id]; ok && p != nil {
				resolved = append(resolved, p)
			}
		}
		if len(resolved) == 0 {
			continue
		}

		bots := 0
		sentiment := 0.0
		first, last := resolved[0].Timestamp, resolved[0].Timestamp
		for _, p := range resolved {
			if p.IsSuspicious() {
				bots++
			}
			if p.Sentiment != nil {
				sentiment += *p.Sentiment
			}
			if p.Timestamp.Before(first) {
				first = p.Timestamp
			}
			if p.Timestamp.After(last) {
				last = p.Timestamp
			}
		}
		botPct := float64(bots) / float64(len(resolved)) * 100
		avgSent := sentiment / float64(len(resolved))

		level, warning := LevelLow, "Organic conversation"
		switch {
		case botPct > 60:
			level, warning = LevelHigh, "Heavily manipulated (bot army)"
		case botPct > 40 && avgSent > 0.4:
			level, warning = LevelCritical, "Artificial hype / bull trap"
		case botPct > 40 && avgSent < -0.4:
			level, warning = LevelHigh, "Coordinated FUD attack"
		}

		out = append(out, NarrativeRisk{
			NarrativeID:   n.ID,
			TokenID:       n.TokenID,
			Topic:         n.Topic,
			RiskLevel:     level,
			Warning:       warning,
			BotPercentage: helpers.Round(botPct, 1),
			AvgSentiment:  helpers.Round(avgSent, 2),
			PostCount:     len(resolved),
			StartTime:     first,
			EndTime:       last,
		})
	}
	return out
}
