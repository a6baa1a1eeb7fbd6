package risk

import (
	"fmt"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/burst"
)

const ReasonNoPosts = "No posts"

// Per-token aggregates over the scored post set
type Aggregates struct {
	Total         int     `json:"total"`
	Suspicious    int     `json:"suspicious"`
	Clustered     int     `json:"clustered"`
	MeanBotScore  float64 `json:"mean_bot_score"`
	MeanSentiment float64 `json:"mean_sentiment"`
}

func (a Aggregates) DuplicateFraction() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Clustered) / float64(a.Total)
}

func (a Aggregates) SuspiciousFraction() float64 {
	if a.Total == 0 {
		return 0
	}
	return float64(a.Suspicious) / float64(a.Total)
}

// Optional extra signals, only consulted by some policies
type Signals struct {
	DuplicatePairs int           `json:"duplicate_pairs"`
	Burst          *burst.Report `json:"burst,omitempty"`
	BotAccounts    int           `json:"bot_accounts"`
	UniqueAccounts int           `json:"unique_accounts"`
	LowTrustPosts  int           `json:"low_trust_posts"`
}

type Verdict struct {
	Score  float64
	Label  string
	Reason string
}

// A risk policy maps aggregates to a verdict. Policies are alternatives; exactly one is used per aggregator.
type Policy interface {
	Name() string
	Evaluate(agg Aggregates, sig *Signals) Verdict
}

// Policy names
const (
	PolicyWeighted     = "weighted"
	PolicySentiment    = "sentiment"
	PolicyCoordination = "coordination"
)

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", PolicyWeighted:
		return NewWeightedPolicy(), nil
	case PolicySentiment:
		return NewSentimentPolicy(), nil
	case PolicyCoordination:
		return NewCoordinationPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown risk policy: %s", name)
	}
}

func PolicyNames() []string {
	return []string{PolicyWeighted, PolicySentiment, PolicyCoordination}
}

type Aggregator struct {
	Policy Policy
}

func NewAggregator(p Policy) *Aggregator {
	if p == nil {
		p = NewWeightedPolicy()
	}
	return &Aggregator{Policy: p}
}

// Produces the token's risk record. Tokens with no posts short-circuit to a zero, Safe score before the policy runs.
//
// The result depends only on the inputs (and the supplied timestamp), so re-running on unchanged data yields the same score, label and reason.
func (a *Aggregator) Evaluate(tokenID string, agg Aggregates, sig *Signals, now time.Time) models.TokenRiskScore {
	out := models.TokenRiskScore{
		TokenID:   tokenID,
		Policy:    a.Policy.Name(),
		UpdatedAt: now,
	}
	if agg.Total <= 0 {
		out.Score = 0
		out.Label = models.RiskSafe
		out.Reason = ReasonNoPosts
		return out
	}
	v := a.Policy.Evaluate(agg, sig)
	out.Score = v.Score
	out.Label = v.Label
	out.Reason = v.Reason
	return out
}
