package narrative

import (
	"fmt"
	"time"

	"github.com/trendai/watchdog/models"
)

// One-line verdict for chat-style or dashboard consumers
type Answer struct {
	TokenID        string  `json:"token_id"`
	Answer         string  `json:"answer"`
	Score          float64 `json:"score"`
	Label          string  `json:"label"`
	Reason         string  `json:"reason"`
	Urgency        string  `json:"urgency"`
	Recommendation string  `json:"recommendation"`
}

func QuickAnswer(risk models.TokenRiskScore, now time.Time) Answer {
	var urgency, action string
	switch RiskTier(risk.Score) {
	case TierHigh:
		urgency = "URGENT: manipulation detected"
		action = "Avoid any investment"
	case TierMedium:
		urgency = "ALERT: suspicious activity"
		action = "Invest with caution"
	default:
		urgency = "SAFE: low risk"
		action = "Standard monitoring"
	}
	label := risk.Label
	if label == "" {
		label = models.RiskSafe
	}
	return Answer{
		TokenID:        risk.TokenID,
		Answer:         fmt.Sprintf("$%s risk: %s (%.1f/100). %s. Reason: %s. Recommendation: %s. Updated %s UTC.", risk.TokenID, label, risk.Score, urgency, risk.Reason, action, now.UTC().Format("15:04")),
		Score:          risk.Score,
		Label:          label,
		Reason:         risk.Reason,
		Urgency:        urgency,
		Recommendation: action,
	}
}
