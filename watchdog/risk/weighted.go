package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

const ReasonNormal = "signals normal"

// Baseline policy: a weighted sum of the duplicate fraction, the suspicious fraction and the mean bot score.
type WeightedPolicy struct {
	DuplicateWeight  float64
	SuspiciousWeight float64
	BotWeight        float64
	// label thresholds, inclusive upper bounds
	SafeMax       float64
	SuspiciousMax float64
}

var _ Policy = (*WeightedPolicy)(nil)

func NewWeightedPolicy() *WeightedPolicy {
	return &WeightedPolicy{
		DuplicateWeight:  0.5,
		SuspiciousWeight: 0.35,
		BotWeight:        0.15,
		SafeMax:          30,
		SuspiciousMax:    65,
	}
}

func (wp *WeightedPolicy) Name() string {
	return PolicyWeighted
}

func (wp *WeightedPolicy) Evaluate(agg Aggregates, sig *Signals) Verdict {
	dup := agg.DuplicateFraction()
	susp := agg.SuspiciousFraction()
	raw := wp.DuplicateWeight*dup + wp.SuspiciousWeight*susp + wp.BotWeight*agg.MeanBotScore
	score := math.Min(100, helpers.Round(raw*100, 2))
	return Verdict{
		Score:  score,
		Label:  wp.label(score),
		Reason: weightedReason(dup, susp, agg.MeanBotScore),
	}
}

func (wp *WeightedPolicy) label(score float64) string {
	switch {
	case score <= wp.SafeMax:
		return models.RiskSafe
	case score <= wp.SuspiciousMax:
		return models.RiskSuspicious
	default:
		return models.RiskHigh
	}
}

func weightedReason(dup, susp, bot float64) string {
	var clauses []string
	if dup > 0.2 {
		clauses = append(clauses, fmt.Sprintf("high duplication ratio (%.2f)", dup))
	}
	if susp > 0.2 {
		clauses = append(clauses, fmt.Sprintf("many suspicious posts (%.2f)", susp))
	}
	if bot > 0.4 {
		clauses = append(clauses, fmt.Sprintf("high bot-like activity (%.2f)", bot))
	}
	if len(clauses) == 0 {
		return ReasonNormal
	}
	return strings.Join(clauses, "; ")
}
