package narrative

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/burst"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Risk tiers, selected by score
const (
	TierHigh   = "high"
	TierMedium = "medium"
	TierLow    = "low"
)

// Signals which drive narrative points, in reporting precedence order
const (
	SignalRisk          = "risk"
	SignalCoordination  = "coordination"
	SignalBurst         = "burst"
	SignalLexical       = "lexical"
	SignalConcentration = "concentration"
)

const concentrationThreshold = 0.3

func RiskTier(score float64) string {
	switch {
	case score > 70:
		return TierHigh
	case score > 40:
		return TierMedium
	default:
		return TierLow
	}
}

var recommendations = map[string][]string{
	TierHigh: {
		"Avoid any investment",
		"Investigate the suspicious accounts",
		"Monitor trading volumes",
		"Report to market regulators if warranted",
	},
	TierMedium: {
		"Invest only with extreme caution",
		"Verify the token's fundamentals",
		"Examine the real community behind the token",
		"Watch for unusual price movements",
	},
	TierLow: {
		"Risk acceptable for investment",
		"Always do your own research (DYOR)",
		"Continue standard monitoring",
	},
}

type Point struct {
	Signal string `json:"signal"`
	Text   string `json:"text"`
}

type Analysis struct {
	Patterns     PatternAnalysis      `json:"post_patterns"`
	Coordination CoordinationAnalysis `json:"coordination_analysis"`
	Temporal     burst.Report         `json:"temporal_analysis"`
	Semantic     SemanticAnalysis     `json:"semantic_analysis"`
}

type Report struct {
	TokenID          string    `json:"token_id"`
	RiskScore        float64   `json:"risk_score"`
	RiskLabel        string    `json:"risk_label"`
	RiskTier         string    `json:"risk_tier"`
	ExecutiveSummary string    `json:"executive_summary"`
	Points           []Point   `json:"narrative_points"`
	Warnings         []string  `json:"warnings"`
	Recommendations  []string  `json:"recommendations"`
	Analysis         Analysis  `json:"detailed_analysis"`
	GeneratedAt      time.Time `json:"generated_at"`
}

type Reporter struct {
	Logger *slog.Logger
	Hype   keyword.Lexicon
	Fear   keyword.Lexicon
	Bursts *burst.Detector
}

func NewReporter(hype, fear []string, detector *burst.Detector) *Reporter {
	if len(hype) == 0 {
		hype = keyword.DefaultHypeKeywords
	}
	if len(fear) == 0 {
		fear = keyword.DefaultFearKeywords
	}
	if detector == nil {
		detector = burst.NewDetector(burst.DefaultWindow)
	}
	return &Reporter{
		Logger: slog.Default(),
		Hype:   keyword.NewLexicon(hype...),
		Fear:   keyword.NewLexicon(fear...),
		Bursts: detector,
	}
}

// Builds the narrative report for one token from its current risk record and scored posts.
func (r *Reporter) Report(tokenID string, risk models.TokenRiskScore, posts []*models.Post, now time.Time) Report {
	analysis := Analysis{
		Patterns:     analyzePatterns(posts),
		Coordination: analyzeCoordination(posts),
		Temporal:     r.Bursts.Detect(posts),
		Semantic:     analyzeSemantics(posts, r.Hype, r.Fear),
	}
	rep := Report{
		TokenID:     tokenID,
		RiskScore:   risk.Score,
		RiskLabel:   risk.Label,
		RiskTier:    RiskTier(risk.Score),
		Points:      []Point{},
		Warnings:    []string{},
		Analysis:    analysis,
		GeneratedAt: now,
	}
	if rep.RiskLabel == "" {
		rep.RiskLabel = models.RiskSafe
	}

	point := func(signal, format string, args ...any) {
		rep.Points = append(rep.Points, Point{Signal: signal, Text: fmt.Sprintf(format, args...)})
	}

	switch rep.RiskTier {
	case TierHigh:
		point(SignalRisk, "High risk detected: score %.1f/100", risk.Score)
		rep.Warnings = append(rep.Warnings, "This token shows strong signs of market manipulation.")
	case TierMedium:
		point(SignalRisk, "Moderate risk detected: score %.1f/100", risk.Score)
		rep.Warnings = append(rep.Warnings, "Suspicious activity detected; monitoring recommended.")
	default:
		point(SignalRisk, "Low risk: score %.1f/100", risk.Score)
	}

	if co := analysis.Coordination; co.Coordinated {
		point(SignalCoordination, "Coordination detected: %d clusters of identical posts", co.SignificantClusters)
		point(SignalCoordination, "%d posts appear coordinated", co.PostsInClusters)
		rep.Warnings = append(rep.Warnings, "Coordinated activity detected; may indicate a bot farm.")
	}

	if tp := analysis.Temporal; tp.BurstDetected {
		point(SignalBurst, "Burst activity: %d bursts detected covering %d posts", tp.BurstCount, tp.PostsInBursts())
		point(SignalBurst, "Frequency: %.1f posts/hour", tp.FrequencyPerHour)
		rep.Warnings = append(rep.Warnings, "Bursty posting pattern, typical of orchestrated campaigns.")
	}

	if sem := analysis.Semantic; sem.Manipulation {
		point(SignalLexical, "Manipulative language: %.1f%% of posts use hype terms", sem.HypeFraction*100)
		top := "n/a"
		if len(sem.TopKeywords) > 0 {
			top = sem.TopKeywords[0].Keyword
		}
		point(SignalLexical, "Dominant keyword: '%s'", top)
		rep.Warnings = append(rep.Warnings, "Excessively promotional language detected.")
	}

	if pa := analysis.Patterns; pa.Concentration > concentrationThreshold {
		point(SignalConcentration, "High concentration: %.1f%% of posts come from a single account", pa.Concentration*100)
		rep.Warnings = append(rep.Warnings, "Uneven distribution of posts; possible astroturfing.")
	}

	rep.Recommendations = append([]string{}, recommendations[rep.RiskTier]...)
	rep.ExecutiveSummary = executiveSummary(&rep)

	r.Logger.Debug("narrative report generated", "token", tokenID, "tier", rep.RiskTier, "points", len(rep.Points), "posts", len(posts))
	return rep
}

func executiveSummary(rep *Report) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Narrative report for $%s\n\n", rep.TokenID)
	fmt.Fprintf(&sb, "Risk assessment: %s (%.1f/100)\n\n", rep.RiskLabel, rep.RiskScore)
	sb.WriteString("Key points:\n")
	for _, p := range rep.Points {
		fmt.Fprintf(&sb, "- %s\n", p.Text)
	}
	sb.WriteString("\nRecommendations:\n")
	for _, rec := range rep.Recommendations {
		fmt.Fprintf(&sb, "- %s\n", rec)
	}
	fmt.Fprintf(&sb, "\nLast updated: %s UTC", rep.GeneratedAt.UTC().Format(time.DateTime))
	return sb.String()
}
