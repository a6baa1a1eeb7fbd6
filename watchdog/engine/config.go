package engine

import (
	"fmt"
	"time"

	"github.com/trendai/watchdog/watchdog/burst"
	"github.com/trendai/watchdog/watchdog/fingerprint"
	"github.com/trendai/watchdog/watchdog/risk"
	"github.com/trendai/watchdog/watchdog/topics"
	"github.com/trendai/watchdog/watchdog/trust"
)

type EngineConfig struct {
	// name of the risk policy; see risk.PolicyNames
	RiskPolicy string
	// how clustered posts count towards the duplicate fraction; see risk.CountSignificant
	DuplicateCounting  string
	DuplicateThreshold float64
	BurstWindow        time.Duration
	TrustVariant       string
	// bound on concurrent per-post classification
	Workers int
	// number of most recent posts fed to narrative reports
	NarrativeLimit int
	TopicClusters  int
	TopicMinPosts  int
	// tokens scoring above this are "high risk" in rankings and bulk analysis
	HighRiskScore float64
}

func DefaultConfig() EngineConfig {
	return EngineConfig{
		RiskPolicy:         risk.PolicyWeighted,
		DuplicateCounting:  risk.CountSignificant,
		DuplicateThreshold: fingerprint.DefaultDuplicateThreshold,
		BurstWindow:        burst.DefaultWindow,
		TrustVariant:       trust.VariantRiskAnalysis,
		Workers:            8,
		NarrativeLimit:     100,
		TopicClusters:      topics.DefaultClusters,
		TopicMinPosts:      topics.DefaultMinPosts,
		HighRiskScore:      70,
	}
}

func (c *EngineConfig) Validate() error {
	if _, err := risk.PolicyByName(c.RiskPolicy); err != nil {
		return err
	}
	if err := risk.ValidDuplicateCounting(c.DuplicateCounting); err != nil {
		return err
	}
	if c.DuplicateThreshold <= 0 || c.DuplicateThreshold > 1 {
		return fmt.Errorf("duplicate threshold must be in (0, 1]: %v", c.DuplicateThreshold)
	}
	if c.BurstWindow <= 0 {
		return fmt.Errorf("burst window must be positive: %s", c.BurstWindow)
	}
	if c.Workers < 1 {
		return fmt.Errorf("need at least one worker: %d", c.Workers)
	}
	if c.NarrativeLimit < 1 {
		return fmt.Errorf("narrative limit must be positive: %d", c.NarrativeLimit)
	}
	if c.TopicClusters < 1 {
		return fmt.Errorf("topic cluster count must be positive: %d", c.TopicClusters)
	}
	return nil
}
