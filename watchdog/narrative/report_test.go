package narrative

import (
	"fmt"
	"testing"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/classifier"
	"github.com/trendai/watchdog/watchdog/fingerprint"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func iptr(v int) *int {
	return &v
}

func fptr(v float64) *float64 {
	return &v
}

// 20 posts in a tight burst: 8 from one account sharing text, the rest hype from distinct accounts
func campaignPosts() []*models.Post {
	var posts []*models.Post
	for i := 0; i < 20; i++ {
		p := &models.Post{
			ID:        fmt.Sprintf("p%02d", i),
			TokenID:   "PUMP",
			AccountID: fmt.Sprintf("acct-%d", i),
			Text:      fmt.Sprintf("huge partnership news, to the moon %d 🚀", i),
			Timestamp: testNow.Add(time.Duration(i*10) * time.Second),
			Label:     models.LabelSuspicious,
			ClusterID: iptr(100 + i),
		}
		if i < 8 {
			p.AccountID = "farm-1"
			p.Text = "BUY NOW before the pump"
			p.ClusterID = iptr(1)
		}
		posts = append(posts, p)
	}
	return posts
}

func calmPosts() []*models.Post {
	var posts []*models.Post
	for i := 0; i < 6; i++ {
		posts = append(posts, &models.Post{
			ID:        fmt.Sprintf("c%d", i),
			TokenID:   "CALM",
			AccountID: fmt.Sprintf("user-%d", i),
			Text:      fmt.Sprintf("quarterly dev update number %d looks steady", i),
			Timestamp: testNow.Add(time.Duration(i) * time.Hour),
			Label:     models.LabelOrganic,
			ClusterID: iptr(i + 1),
		})
	}
	return posts
}

func TestReportHighRisk(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter(nil, nil, nil)
	risk := models.TokenRiskScore{TokenID: "PUMP", Score: 82.5, Label: models.RiskHigh, Reason: "high duplication ratio"}
	rep := r.Report("PUMP", risk, campaignPosts(), testNow)

	assert.Equal("PUMP", rep.TokenID)
	assert.Equal(TierHigh, rep.RiskTier)
	assert.Equal(testNow, rep.GeneratedAt)

	var signals []string
	for _, p := range rep.Points {
		if len(signals) == 0 || signals[len(signals)-1] != p.Signal {
			signals = append(signals, p.Signal)
		}
	}
	assert.Equal([]string{SignalRisk, SignalCoordination, SignalBurst, SignalLexical, SignalConcentration}, signals)
	assert.Equal(5, len(rep.Warnings))
	assert.Equal(recommendations[TierHigh], rep.Recommendations)

	co := rep.Analysis.Coordination
	assert.True(co.Coordinated)
	assert.Equal(1, co.SignificantClusters)
	assert.Equal(8, co.PostsInClusters)
	assert.Equal(0.4, co.Score)
	assert.Equal([]string{"farm-1"}, co.Clusters[0].Accounts)
	assert.Equal(2, len(co.Clusters[0].SampleTexts))
	assert.Equal(fingerprint.Fingerprint("buy now before the pump"), co.Clusters[0].Fingerprint)
	assert.Zero(co.Clusters[0].SeenTotal)

	pa := rep.Analysis.Patterns
	assert.Equal(0.4, pa.Concentration)
	assert.Equal("farm-1", pa.TopAccount)
	assert.Equal(13, pa.UniqueAccounts)
	assert.Equal(1.0, pa.SuspiciousRatio)

	sem := rep.Analysis.Semantic
	assert.True(sem.Manipulation)
	assert.Equal(SentimentHyper, sem.Sentiment)
	assert.Equal(1.0, sem.HypeFraction)
	assert.NotEmpty(sem.TopKeywords)
	assert.LessOrEqual(len(sem.TopKeywords), 10)

	assert.True(rep.Analysis.Temporal.BurstDetected)
	assert.Contains(rep.Points, Point{Signal: SignalBurst, Text: "Burst activity: 1 bursts detected covering 20 posts"})
	assert.Contains(rep.ExecutiveSummary, "$PUMP")
	assert.Contains(rep.ExecutiveSummary, "Avoid any investment")
}

func TestReportLowRisk(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter(nil, nil, nil)
	risk := models.TokenRiskScore{TokenID: "CALM", Score: 12, Label: models.RiskSafe, Reason: "signals normal"}
	rep := r.Report("CALM", risk, calmPosts(), testNow)

	assert.Equal(TierLow, rep.RiskTier)
	assert.Equal([]Point{{Signal: SignalRisk, Text: "Low risk: score 12.0/100"}}, rep.Points)
	assert.Empty(rep.Warnings)
	assert.Equal(recommendations[TierLow], rep.Recommendations)
	assert.False(rep.Analysis.Coordination.Coordinated)
	assert.Equal(SentimentMixed, rep.Analysis.Semantic.Sentiment)
	assert.InDelta(1.2, rep.Analysis.Temporal.FrequencyPerHour, 0.001)
}

func TestReportMediumTierAndEmpty(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter(nil, nil, nil)
	rep := r.Report("NONE", models.TokenRiskScore{TokenID: "NONE", Score: 55}, nil, testNow)
	assert.Equal(TierMedium, rep.RiskTier)
	assert.Equal(models.RiskSafe, rep.RiskLabel)
	assert.Equal(1, len(rep.Points))
	assert.Equal(1, len(rep.Warnings))
	assert.Equal(recommendations[TierMedium], rep.Recommendations)
	assert.Equal(SentimentNeutral, rep.Analysis.Semantic.Sentiment)
	assert.Equal(0, rep.Analysis.Patterns.TotalPosts)
}

func TestRiskTier(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(TierHigh, RiskTier(70.01))
	assert.Equal(TierMedium, RiskTier(70))
	assert.Equal(TierMedium, RiskTier(40.5))
	assert.Equal(TierLow, RiskTier(40))
	assert.Equal(TierLow, RiskTier(0))
}

func TestSemanticsFearful(t *testing.T) {
	assert := assert.New(t)

	r := NewReporter(nil, nil, nil)
	posts := []*models.Post{
		{ID: "1", Text: "this is a scam, avoid", Sentiment: fptr(-0.8)},
		{ID: "2", Text: "⚠️ funds stolen", Sentiment: fptr(-0.6)},
		{ID: "3", Text: "warning: exploit found", Sentiment: fptr(-0.4)},
		{ID: "4", Text: "normal chatter"},
	}
	sem := analyzeSemantics(posts, r.Hype, r.Fear)
	assert.Equal(SentimentFearful, sem.Sentiment)
	assert.Equal(0.75, sem.FearFraction)
	assert.Equal(0.0, sem.HypeFraction)
	assert.False(sem.Manipulation)
	// unscored posts don't dilute the mean
	assert.Equal(-0.6, sem.MeanPolarity)
	assert.Equal(classifier.SentimentNegative, sem.PolarityLabel)

	sem = analyzeSemantics(posts[3:], r.Hype, r.Fear)
	assert.Equal(0.0, sem.MeanPolarity)
	assert.Equal(classifier.SentimentNeutral, sem.PolarityLabel)
}

func TestQuickAnswer(t *testing.T) {
	assert := assert.New(t)

	a := QuickAnswer(models.TokenRiskScore{TokenID: "X", Score: 80, Label: models.RiskHigh, Reason: "many suspicious posts"}, testNow)
	assert.Equal("Avoid any investment", a.Recommendation)
	assert.Contains(a.Answer, "$X risk: High Risk (80.0/100)")
	assert.Contains(a.Answer, "12:00 UTC")

	a = QuickAnswer(models.TokenRiskScore{TokenID: "Y", Score: 50}, testNow)
	assert.Equal("Invest with caution", a.Recommendation)
	assert.Equal(models.RiskSafe, a.Label)

	a = QuickAnswer(models.TokenRiskScore{TokenID: "Z"}, testNow)
	assert.Equal("Standard monitoring", a.Recommendation)
}

func TestTruncate(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("abc", truncate("abc", 5))
	assert.Equal("ab...", truncate("abc", 2))
	assert.Equal("🚀🚀...", truncate("🚀🚀🚀", 2))
}

func TestSharedLinks(t *testing.T) {
	assert := assert.New(t)

	posts := []*models.Post{
		{ID: "1", AccountID: "a", Text: "join t.me/pumpgroup now"},
		{ID: "2", AccountID: "b", Text: "JOIN https://t.me/pumpgroup?utm_source=x"},
		{ID: "3", AccountID: "b", Text: "again t.me/pumpgroup"},
		{ID: "4", AccountID: "c", Text: "my own blog example.com/post and v1.5"},
	}
	ca := analyzeCoordination(posts)
	if assert.Len(ca.SharedLinks, 1) {
		assert.Equal(SharedLink{URL: "https://t.me/pumpgroup", Accounts: 2, Posts: 3}, ca.SharedLinks[0])
	}
	assert.Empty(analyzeCoordination(calmPosts()).SharedLinks)
}
