package riskstore

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/util/cliutil"
)

func testStores(t *testing.T) map[string]RiskStore {
	db, err := cliutil.SetupDatabase("sqlite://:memory:", 1)
	if err != nil {
		t.Fatal(err)
	}
	gs, err := NewGormStore(db)
	if err != nil {
		t.Fatal(err)
	}
	return map[string]RiskStore{
		"gorm": gs,
		"mem":  NewMemStore(),
	}
}

func ptr[T any](v T) *T {
	return &v
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testPosts() []*models.Post {
	var out []*models.Post
	for i := 0; i < 5; i++ {
		out = append(out, &models.Post{
			ID:        fmt.Sprintf("d%d", i),
			TokenID:   "DOGE",
			AccountID: fmt.Sprintf("a%d", i%2),
			Text:      "to the moon",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		})
	}
	out = append(out, &models.Post{ID: "p0", TokenID: "PEPE", AccountID: "a0", Text: "meh", Timestamp: base})
	return out
}

func TestPosts(t *testing.T) {
	for name, rs := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			assert.NoError(rs.SavePosts(ctx, testPosts()))
			assert.NoError(rs.SavePosts(ctx, nil))

			posts, err := rs.PostsForToken(ctx, "DOGE", 0)
			assert.NoError(err)
			assert.Len(posts, 5)
			assert.Equal("d4", posts[0].ID)
			assert.Equal("d0", posts[4].ID)

			posts, err = rs.PostsForToken(ctx, "DOGE", 2)
			assert.NoError(err)
			assert.Len(posts, 2)
			assert.Equal("d3", posts[1].ID)

			// re-saving updates derived fields
			scored := testPosts()[0]
			scored.OrganicScore = ptr(0.4)
			scored.Label = models.LabelSuspicious
			scored.ClusterID = ptr(2)
			assert.NoError(rs.SavePosts(ctx, []*models.Post{scored}))
			byID, err := rs.PostsByID(ctx, []string{"d0", "missing"})
			assert.NoError(err)
			assert.Len(byID, 1)
			assert.Equal(models.LabelSuspicious, byID["d0"].Label)
			assert.Equal(2, *byID["d0"].ClusterID)
			assert.InDelta(0.4, *byID["d0"].OrganicScore, 1e-9)

			acctPosts, err := rs.PostsForAccount(ctx, "a0")
			assert.NoError(err)
			assert.Len(acctPosts, 4)
			assert.Equal("d0", acctPosts[0].ID)

			tokens, err := rs.Tokens(ctx)
			assert.NoError(err)
			assert.Equal([]string{"DOGE", "PEPE"}, tokens)
		})
	}
}

func TestRiskScores(t *testing.T) {
	for name, rs := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			_, err := rs.GetRiskScore(ctx, "DOGE")
			assert.ErrorIs(err, ErrNotFound)

			first := &models.TokenRiskScore{TokenID: "DOGE", Score: 40, Label: models.RiskSuspicious, Reason: "x", Policy: "weighted", UpdatedAt: base}
			assert.NoError(rs.UpsertRiskScore(ctx, first))
			second := &models.TokenRiskScore{TokenID: "DOGE", Score: 80, Label: models.RiskHigh, Reason: "y", Policy: "weighted", UpdatedAt: base.Add(time.Hour)}
			assert.NoError(rs.UpsertRiskScore(ctx, second))
			assert.NoError(rs.UpsertRiskScore(ctx, &models.TokenRiskScore{TokenID: "PEPE", Score: 80, Label: models.RiskHigh, Reason: "z", UpdatedAt: base}))
			assert.NoError(rs.UpsertRiskScore(ctx, &models.TokenRiskScore{TokenID: "SHIB", Score: 10, Label: models.RiskSafe, Reason: "signals normal", UpdatedAt: base}))

			got, err := rs.GetRiskScore(ctx, "DOGE")
			assert.NoError(err)
			assert.Equal(80.0, got.Score)
			assert.Equal(models.RiskHigh, got.Label)
			assert.Equal("y", got.Reason)
			assert.True(got.UpdatedAt.Equal(base.Add(time.Hour)))

			top, err := rs.TopRisks(ctx, 70, 0)
			assert.NoError(err)
			assert.Len(top, 2)
			assert.Equal("DOGE", top[0].TokenID)
			assert.Equal("PEPE", top[1].TokenID)

			top, err = rs.TopRisks(ctx, 0, 1)
			assert.NoError(err)
			assert.Len(top, 1)
		})
	}
}

func TestAccounts(t *testing.T) {
	for name, rs := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			_, err := rs.GetAccount(ctx, "a1")
			assert.ErrorIs(err, ErrNotFound)

			acct := &models.Account{ID: "a1", Username: "moonboi1234", Followers: 10, Following: 500, UpdatedAt: base}
			assert.NoError(rs.SaveAccount(ctx, acct))
			acct.TrustScore = ptr(20.0)
			acct.TrustLabel = models.TrustBot
			assert.NoError(rs.SaveAccount(ctx, acct))

			got, err := rs.GetAccount(ctx, "a1")
			assert.NoError(err)
			assert.Equal("moonboi1234", got.Username)
			assert.Equal(models.TrustBot, got.TrustLabel)
			assert.Equal(20.0, *got.TrustScore)
		})
	}
}

func TestNarratives(t *testing.T) {
	for name, rs := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			ctx := context.Background()

			first := []*models.Narrative{
				{ID: "DOGE-n0001", TokenID: "DOGE", Topic: "Trend: Moon", PostIDs: []string{"d0", "d1"}, StartTime: base, EndTime: base.Add(time.Minute), CreatedAt: base},
				{ID: "DOGE-n0002", TokenID: "DOGE", Topic: "Trend: Rug", PostIDs: []string{"d2"}, StartTime: base, EndTime: base, CreatedAt: base},
			}
			assert.NoError(rs.ReplaceNarratives(ctx, "DOGE", first))
			ns, err := rs.NarrativesForToken(ctx, "DOGE")
			assert.NoError(err)
			assert.Len(ns, 2)
			assert.Equal([]string{"d0", "d1"}, ns[0].PostIDs)

			assert.NoError(rs.ReplaceNarratives(ctx, "DOGE", first[1:]))
			ns, err = rs.NarrativesForToken(ctx, "DOGE")
			assert.NoError(err)
			assert.Len(ns, 1)
			assert.Equal("Trend: Rug", ns[0].Topic)

			assert.NoError(rs.ReplaceNarratives(ctx, "DOGE", nil))
			ns, err = rs.NarrativesForToken(ctx, "DOGE")
			assert.NoError(err)
			assert.Empty(ns)
		})
	}
}
