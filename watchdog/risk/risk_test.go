package risk

import (
	"fmt"
	"testing"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/burst"

	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func fptr(v float64) *float64 {
	return &v
}

func iptr(v int) *int {
	return &v
}

// 10 posts, 6 suspicious, 4 sharing one cluster id, mean bot score 0.5
func scenarioPosts() []*models.Post {
	var posts []*models.Post
	for i := 0; i < 10; i++ {
		p := &models.Post{
			ID:       fmt.Sprintf("p%d", i),
			TokenID:  "X",
			Label:    models.LabelOrganic,
			BotScore: fptr(0.5),
		}
		if i < 6 {
			p.Label = models.LabelSuspicious
		}
		if i >= 6 {
			p.ClusterID = iptr(7)
		}
		posts = append(posts, p)
	}
	return posts
}

func TestWeightedScenario(t *testing.T) {
	assert := assert.New(t)

	agg := AggregatesFromPosts(scenarioPosts(), CountAllClustered)
	assert.Equal(Aggregates{Total: 10, Suspicious: 6, Clustered: 4, MeanBotScore: 0.5}, agg)
	assert.Equal(0.4, agg.DuplicateFraction())
	assert.Equal(0.6, agg.SuspiciousFraction())

	rs := NewAggregator(nil).Evaluate("X", agg, nil, testNow)
	assert.Equal("X", rs.TokenID)
	assert.Equal(48.5, rs.Score)
	assert.Equal(models.RiskSuspicious, rs.Label)
	assert.Contains(rs.Reason, "high duplication ratio")
	assert.Contains(rs.Reason, "many suspicious posts")
	assert.NotContains(rs.Reason, "bot-like")
	assert.Equal(PolicyWeighted, rs.Policy)
	assert.Equal(testNow, rs.UpdatedAt)
}

func TestZeroPosts(t *testing.T) {
	assert := assert.New(t)

	for _, name := range PolicyNames() {
		p, err := PolicyByName(name)
		assert.NoError(err)
		rs := NewAggregator(p).Evaluate("EMPTY", AggregatesFromPosts(nil, CountAllClustered), nil, testNow)
		assert.Equal(0.0, rs.Score, name)
		assert.Equal(models.RiskSafe, rs.Label, name)
		assert.Equal(ReasonNoPosts, rs.Reason, name)
	}
}

func TestIdempotent(t *testing.T) {
	assert := assert.New(t)

	agg := AggregatesFromPosts(scenarioPosts(), CountAllClustered)
	for _, name := range PolicyNames() {
		p, _ := PolicyByName(name)
		a := NewAggregator(p)
		sig := &Signals{DuplicatePairs: 3, UniqueAccounts: 4, BotAccounts: 1}
		first := a.Evaluate("X", agg, sig, testNow)
		second := a.Evaluate("X", agg, sig, testNow)
		assert.Equal(first, second, name)
	}
}

func TestWeightedLabels(t *testing.T) {
	assert := assert.New(t)

	wp := NewWeightedPolicy()
	fixtures := []struct {
		agg    Aggregates
		score  float64
		label  string
		reason string
	}{
		{agg: Aggregates{Total: 10}, score: 0, label: models.RiskSafe, reason: ReasonNormal},
		{agg: Aggregates{Total: 10, Clustered: 6}, score: 30, label: models.RiskSafe, reason: "high duplication ratio (0.60)"},
		{agg: Aggregates{Total: 10, Clustered: 10, Suspicious: 10, MeanBotScore: 1}, score: 100, label: models.RiskHigh},
		{agg: Aggregates{Total: 4, Clustered: 4, Suspicious: 2, MeanBotScore: 0.8}, score: 79.5, label: models.RiskHigh},
		{agg: Aggregates{Total: 10, MeanBotScore: 0.6}, score: 9, label: models.RiskSafe, reason: "high bot-like activity (0.60)"},
	}
	for _, f := range fixtures {
		v := wp.Evaluate(f.agg, nil)
		assert.InDelta(f.score, v.Score, 0.001)
		assert.Equal(f.label, v.Label)
		if f.reason != "" {
			assert.Equal(f.reason, v.Reason)
		}
	}
}

func TestSignificantCounting(t *testing.T) {
	assert := assert.New(t)

	posts := []*models.Post{
		{ID: "1", ClusterID: iptr(1)},
		{ID: "2", ClusterID: iptr(2)},
		{ID: "3", ClusterID: iptr(1)},
		{ID: "4", ClusterID: iptr(3)},
		{ID: "5"},
	}
	assert.Equal(4, AggregatesFromPosts(posts, CountAllClustered).Clustered)
	assert.Equal(2, AggregatesFromPosts(posts, CountSignificant).Clustered)

	assert.NoError(ValidDuplicateCounting(CountSignificant))
	assert.Error(ValidDuplicateCounting("some"))
}

func TestSentimentPolicy(t *testing.T) {
	assert := assert.New(t)

	a := NewAggregator(NewSentimentPolicy())

	hype := Aggregates{Total: 10, Suspicious: 5, MeanBotScore: 0.2, MeanSentiment: 0.7}
	rs := a.Evaluate("PUMP", hype, nil, testNow)
	assert.Equal(models.RiskPumpDump, rs.Label)
	assert.InDelta(40.5, rs.Score, 0.001)
	assert.Contains(rs.Reason, "many suspicious posts")
	assert.Contains(rs.Reason, "hype")

	fud := hype
	fud.MeanSentiment = -0.7
	rs = a.Evaluate("FUD", fud, nil, testNow)
	assert.Equal(models.RiskFUD, rs.Label)
	assert.InDelta(40.5, rs.Score, 0.001)

	neutral := hype
	neutral.MeanSentiment = 0.2
	rs = a.Evaluate("MEH", neutral, nil, testNow)
	assert.Equal(models.RiskSafe, rs.Label)
	assert.InDelta(20.5, rs.Score, 0.001)

	// bot ratio must exceed the minimum
	few := Aggregates{Total: 10, Suspicious: 3, MeanSentiment: 0.9}
	rs = a.Evaluate("FEW", few, nil, testNow)
	assert.Equal(models.RiskSafe, rs.Label)

	capped := Aggregates{Total: 10, Suspicious: 10, Clustered: 10, MeanBotScore: 0.9, MeanSentiment: 0.9}
	rs = a.Evaluate("CAP", capped, nil, testNow)
	assert.Equal(100.0, rs.Score)
	assert.Equal(models.RiskPumpDump, rs.Label)
}

func TestCoordinationPolicy(t *testing.T) {
	assert := assert.New(t)

	a := NewAggregator(NewCoordinationPolicy())
	agg := Aggregates{Total: 20}

	rs := a.Evaluate("A", agg, &Signals{
		DuplicatePairs: 4,
		Burst:          &burst.Report{Coordinated: true},
		BotAccounts:    2,
		UniqueAccounts: 10,
		LowTrustPosts:  5,
	}, testNow)
	assert.InDelta(44.5, rs.Score, 0.001)
	assert.Equal(models.RiskSafe, rs.Label)
	assert.Equal("near-duplicate posts (4 pairs); coordinated posting burst; bot-style accounts (2 of 10); low-trust posts (0.25)", rs.Reason)

	rs = a.Evaluate("B", agg, &Signals{
		DuplicatePairs: 30,
		Burst:          &burst.Report{Coordinated: true},
		BotAccounts:    8,
		UniqueAccounts: 10,
		LowTrustPosts:  20,
	}, testNow)
	assert.InDelta(96, rs.Score, 0.001)
	assert.Equal(models.RiskHigh, rs.Label)

	rs = a.Evaluate("C", agg, nil, testNow)
	assert.Equal(0.0, rs.Score)
	assert.Equal(ReasonNormal, rs.Reason)
}

func TestPolicyByName(t *testing.T) {
	assert := assert.New(t)

	p, err := PolicyByName("")
	assert.NoError(err)
	assert.Equal(PolicyWeighted, p.Name())

	_, err = PolicyByName("blended")
	assert.Error(err)
}
