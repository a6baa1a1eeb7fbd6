package engine

import (
	"context"

	"github.com/trendai/watchdog/models"
)

// Interface for a type that can handle sending notifications
type Notifier interface {
	// Called when a token's label escalates to an elevated one. prev is nil for a token's first score.
	SendTokenAlert(ctx context.Context, score *models.TokenRiskScore, prev *models.TokenRiskScore) error
}

// Only labels which are newly elevated are worth an alert; re-scoring a token that already carries the same elevated label stays quiet.
func shouldAlert(score, prev *models.TokenRiskScore) bool {
	if !score.Elevated() {
		return false
	}
	return prev == nil || prev.Label != score.Label
}
