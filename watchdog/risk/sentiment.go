package risk

import (
	"fmt"
	"math"

	"github.com/trendai/watchdog/models"
)

// Baseline scoring, plus two manipulation archetypes told apart by mean sentiment when bot-like posts are common.
type SentimentPolicy struct {
	Base *WeightedPolicy
	// suspicious fraction above which sentiment is consulted
	BotRatioMin float64
	HypeMin     float64
	FearMax     float64
	Boost       float64
}

var _ Policy = (*SentimentPolicy)(nil)

func NewSentimentPolicy() *SentimentPolicy {
	return &SentimentPolicy{
		Base:        NewWeightedPolicy(),
		BotRatioMin: 0.3,
		HypeMin:     0.5,
		FearMax:     -0.5,
		Boost:       20,
	}
}

func (sp *SentimentPolicy) Name() string {
	return PolicySentiment
}

func (sp *SentimentPolicy) Evaluate(agg Aggregates, sig *Signals) Verdict {
	v := sp.Base.Evaluate(agg, sig)
	botRatio := agg.SuspiciousFraction()
	if botRatio <= sp.BotRatioMin {
		return v
	}
	var clause string
	switch {
	case agg.MeanSentiment > sp.HypeMin:
		v.Label = models.RiskPumpDump
		clause = fmt.Sprintf("bot-driven hype (sentiment %.2f)", agg.MeanSentiment)
	case agg.MeanSentiment < sp.FearMax:
		v.Label = models.RiskFUD
		clause = fmt.Sprintf("bot-driven fear campaign (sentiment %.2f)", agg.MeanSentiment)
	default:
		return v
	}
	v.Score = math.Min(100, v.Score+sp.Boost)
	if v.Reason == ReasonNormal {
		v.Reason = clause
	} else {
		v.Reason = v.Reason + "; " + clause
	}
	return v
}
