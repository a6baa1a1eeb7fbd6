package trust

import (
	"testing"
	"time"

	"github.com/trendai/watchdog/models"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d int) *time.Time {
	t := testNow.AddDate(0, 0, -d)
	return &t
}

func TestScoreBaseline(t *testing.T) {
	assert := assert.New(t)

	s, err := NewScorer(VariantBaseline, nil)
	assert.NoError(err)

	fixtures := []struct {
		name  string
		acct  models.Account
		stats Stats
		score int
		label string
	}{
		{
			// young, hyperactive, bot-like account: 50 -10 -50 -20 = -30, clamped
			name:  "bot farm account",
			acct:  models.Account{ID: "a1", CreatedAt: daysAgo(2)},
			stats: Stats{PostCount: 40, BotRatio: 0.9, PostsPerDay: 80},
			score: 0,
			label: models.TrustBot,
		},
		{
			name:  "long-standing human",
			acct:  models.Account{ID: "a2", CreatedAt: daysAgo(1200)},
			stats: Stats{PostCount: 12, BotRatio: 0.05, PostsPerDay: 2},
			score: 85,
			label: models.TrustReliable,
		},
		{
			name:  "year old, mixed",
			acct:  models.Account{ID: "a3", CreatedAt: daysAgo(400)},
			stats: Stats{PostCount: 12, BotRatio: 0.6, PostsPerDay: 10},
			score: 30,
			label: models.TrustNeutral,
		},
		{
			// single clamp: a per-step clamp would have ended at 5
			name:  "clamped once at the end",
			acct:  models.Account{ID: "a4", CreatedAt: daysAgo(3)},
			stats: Stats{PostCount: 5, BotRatio: 0.95, PostsPerDay: 1},
			score: 0,
			label: models.TrustBot,
		},
		{
			name:  "missing creation date",
			acct:  models.Account{ID: "a5"},
			stats: Stats{PostCount: 5, BotRatio: 0.3, PostsPerDay: 20},
			score: 50,
			label: models.TrustNeutral,
		},
		{
			name:  "bogus creation date",
			acct:  models.Account{ID: "a6", CreatedAt: daysAgo(-30)},
			stats: Stats{PostCount: 5, BotRatio: 0.3, PostsPerDay: 20},
			score: 50,
			label: models.TrustNeutral,
		},
	}

	for _, f := range fixtures {
		res := s.Score(&f.acct, f.stats, testNow)
		assert.Equal(f.score, res.Score, f.name)
		assert.Equal(f.label, res.Label, f.name)
		assert.Equal(f.acct.ID, res.AccountID)
	}
}

func TestScoreNoData(t *testing.T) {
	assert := assert.New(t)

	s, err := NewScorer("", nil)
	assert.NoError(err)
	res := s.Score(&models.Account{ID: "a1", CreatedAt: daysAgo(2000)}, Stats{}, testNow)
	assert.Equal(NeutralScore, res.Score)
	assert.Equal(models.TrustNeutral, res.Label)
	assert.Equal(ReasonNoData, res.Reason)
	assert.Empty(res.Factors)
}

func TestScoreRiskAnalysisVariant(t *testing.T) {
	assert := assert.New(t)

	acct := models.Account{ID: "a1", Username: "Crypto_1234", Followers: 10, Following: 2000}
	stats := Stats{PostCount: 20, BotRatio: 0.2, PostsPerDay: 10, DuplicateRate: 0.6}

	base, err := NewScorer(VariantBaseline, nil)
	assert.NoError(err)
	res := base.Score(&acct, stats, testNow)
	assert.Equal(50, res.Score)
	assert.Equal("signals normal", res.Reason)
	assert.Equal(0.005, res.FollowRatio)

	ext, err := NewScorer(VariantRiskAnalysis, nil)
	assert.NoError(err)
	res = ext.Score(&acct, stats, testNow)
	assert.Equal(5, res.Score)
	assert.Equal(models.TrustBot, res.Label)
	assert.Equal(models.CredibilityBot, res.Credibility)
	assert.Equal([]Factor{{Name: "bot-style username", Delta: -20}, {Name: "mostly duplicated content", Delta: -25}}, res.Factors)
	assert.Equal("bot-style username (-20); mostly duplicated content (-25)", res.Reason)

	_, err = NewScorer("bogus", nil)
	assert.Error(err)
}

func TestScoreBounded(t *testing.T) {
	assert := assert.New(t)

	s, _ := NewScorer(VariantRiskAnalysis, nil)
	for _, age := range []int{1, 100, 500, 2000} {
		for _, ratio := range []float64{0, 0.3, 0.6, 0.9, 1} {
			for _, ppd := range []float64{0, 3, 20, 100} {
				acct := models.Account{ID: "x", Username: "whale42", CreatedAt: daysAgo(age)}
				res := s.Score(&acct, Stats{PostCount: 1, BotRatio: ratio, PostsPerDay: ppd, DuplicateRate: ratio}, testNow)
				assert.GreaterOrEqual(res.Score, 0)
				assert.LessOrEqual(res.Score, 100)
			}
		}
	}
}

func TestLabelsAndCredibility(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(models.TrustReliable, Label(76))
	assert.Equal(models.TrustNeutral, Label(75))
	assert.Equal(models.TrustNeutral, Label(30))
	assert.Equal(models.TrustBot, Label(29))

	assert.Equal(models.CredibilityHigh, Credibility(80))
	assert.Equal(models.CredibilityMedium, Credibility(50))
	assert.Equal(models.CredibilityLow, Credibility(30))
	assert.Equal(models.CredibilityBot, Credibility(10))
}

func TestApply(t *testing.T) {
	assert := assert.New(t)

	acct := models.Account{ID: "a1", Credibility: models.CredibilityHigh}
	Apply(&acct, Result{Score: 10, Label: models.TrustBot, Credibility: models.CredibilityBot}, testNow)
	assert.Equal(10.0, *acct.TrustScore)
	assert.Equal(models.TrustBot, acct.TrustLabel)
	assert.Equal(models.CredibilityHigh, acct.Credibility)
	assert.Equal(testNow, acct.UpdatedAt)

	other := models.Account{ID: "a2"}
	Apply(&other, Result{Score: 60, Label: models.TrustNeutral, Credibility: models.CredibilityMedium}, testNow)
	assert.Equal(models.CredibilityMedium, other.Credibility)
}
