package risk

import (
	"fmt"
	"math"
	"strings"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

// Scores near-duplicate pairs, coordinated timing, bot-style accounts and low-trust posts.
type CoordinationPolicy struct {
	DuplicateWeight   float64
	CoordinatedWeight float64
	BotAccountWeight  float64
	LowTrustWeight    float64
	// label thresholds, inclusive lower bounds
	SuspiciousMin float64
	HighMin       float64
}

var _ Policy = (*CoordinationPolicy)(nil)

func NewCoordinationPolicy() *CoordinationPolicy {
	return &CoordinationPolicy{
		DuplicateWeight:   40,
		CoordinatedWeight: 30,
		BotAccountWeight:  20,
		LowTrustWeight:    10,
		SuspiciousMin:     60,
		HighMin:           80,
	}
}

func (cp *CoordinationPolicy) Name() string {
	return PolicyCoordination
}

func (cp *CoordinationPolicy) Evaluate(agg Aggregates, sig *Signals) Verdict {
	if sig == nil {
		sig = &Signals{}
	}
	total := float64(max(1, agg.Total))
	dupRate := math.Min(1, float64(sig.DuplicatePairs)/total)
	coordinated := 0.0
	if sig.Burst != nil && sig.Burst.Coordinated {
		coordinated = 1
	}
	botAccounts := 0.0
	if sig.UniqueAccounts > 0 {
		botAccounts = float64(sig.BotAccounts) / float64(sig.UniqueAccounts)
	}
	lowTrust := float64(sig.LowTrustPosts) / total

	raw := cp.DuplicateWeight*dupRate + cp.CoordinatedWeight*coordinated + cp.BotAccountWeight*botAccounts + cp.LowTrustWeight*lowTrust
	score := math.Min(100, helpers.Round(raw, 2))

	var clauses []string
	if dupRate > 0 {
		clauses = append(clauses, fmt.Sprintf("near-duplicate posts (%d pairs)", sig.DuplicatePairs))
	}
	if coordinated > 0 {
		clauses = append(clauses, "coordinated posting burst")
	}
	if sig.BotAccounts > 0 {
		clauses = append(clauses, fmt.Sprintf("bot-style accounts (%d of %d)", sig.BotAccounts, sig.UniqueAccounts))
	}
	if lowTrust > 0 {
		clauses = append(clauses, fmt.Sprintf("low-trust posts (%.2f)", lowTrust))
	}
	reason := ReasonNormal
	if len(clauses) > 0 {
		reason = strings.Join(clauses, "; ")
	}

	label := models.RiskSafe
	switch {
	case score >= cp.HighMin:
		label = models.RiskHigh
	case score >= cp.SuspiciousMin:
		label = models.RiskSuspicious
	}
	return Verdict{Score: score, Label: label, Reason: reason}
}
