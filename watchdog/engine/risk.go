package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/classifier"
	"github.com/trendai/watchdog/watchdog/fingerprint"
	"github.com/trendai/watchdog/watchdog/flagstore"
	"github.com/trendai/watchdog/watchdog/risk"
	"github.com/trendai/watchdog/watchdog/riskstore"
)

// Scores a token from its complete current post set and upserts the result. Posts belonging to other tokens are ignored.
//
// Calls for the same token are serialized, so the stored record always reflects one complete evaluation.
func (eng *Engine) TokenRisk(ctx context.Context, tokenID string, posts []*models.Post) (score models.TokenRiskScore, err error) {
	defer func() {
		if r := recover(); r != nil {
			executionPanics.WithLabelValues("token-risk").Inc()
			eng.Logger.Error("watchdog token risk execution exception", "err", r, "token", tokenID)
			err = fmt.Errorf("token risk panic: %v", r)
		}
	}()
	if tokenID == "" {
		return score, models.ErrMissingToken
	}

	unlock := eng.lockToken(tokenID)
	defer unlock()

	own := reclustered(tokenPosts(tokenID, posts))
	agg := risk.AggregatesFromPosts(own, eng.Config.DuplicateCounting)
	sig, err := eng.riskSignals(ctx, own)
	if err != nil {
		return score, err
	}
	score = eng.Risk.Evaluate(tokenID, agg, sig, eng.now())
	riskEvaluations.WithLabelValues(score.Policy, score.Label).Inc()
	riskScores.Observe(score.Score)

	var prev *models.TokenRiskScore
	if eng.Store != nil {
		prev, err = eng.Store.GetRiskScore(ctx, tokenID)
		if err != nil && !errors.Is(err, riskstore.ErrNotFound) {
			return score, fmt.Errorf("loading previous risk score: %w", err)
		}
		if err := eng.Store.UpsertRiskScore(ctx, &score); err != nil {
			return score, fmt.Errorf("saving risk score: %w", err)
		}
	}

	eng.addFlags(ctx, flagstore.TokenKey(tokenID), riskFlags(&score, sig))
	// new posts purge on ingest; here only a changed verdict invalidates derived reports
	if prev == nil || verdictChanged(prev, &score) {
		if err := eng.PurgeTokenCaches(ctx, tokenID); err != nil {
			eng.Logger.Warn("failed to purge token caches", "token", tokenID, "err", err)
		}
	}
	if eng.Cache != nil {
		if err := cachestore.SetJSON(ctx, eng.Cache, cachestore.NameTokenRisk, tokenID, score); err != nil {
			eng.Logger.Warn("failed to cache risk score", "token", tokenID, "err", err)
		}
	}
	if eng.Notifier != nil && shouldAlert(&score, prev) {
		if err := eng.Notifier.SendTokenAlert(ctx, &score, prev); err != nil {
			notificationsSent.WithLabelValues("error").Inc()
			eng.Logger.Error("failed to send risk notification", "token", tokenID, "err", err)
		} else {
			notificationsSent.WithLabelValues("ok").Inc()
		}
	}

	eng.Logger.Info("token risk evaluated", "token", tokenID, "posts", agg.Total, "score", score.Score, "label", score.Label, "policy", score.Policy)
	return score, nil
}

// Latest stored score for a token, from cache when warm.
func (eng *Engine) CachedRisk(ctx context.Context, tokenID string) (*models.TokenRiskScore, error) {
	if eng.Cache != nil {
		var score models.TokenRiskScore
		ok, err := cachestore.GetJSON(ctx, eng.Cache, cachestore.NameTokenRisk, tokenID, &score)
		if err != nil {
			eng.Logger.Warn("ignoring unreadable cached risk score", "token", tokenID, "err", err)
		} else if ok {
			return &score, nil
		}
	}
	if eng.Store == nil {
		return nil, riskstore.ErrNotFound
	}
	return eng.Store.GetRiskScore(ctx, tokenID)
}

func verdictChanged(prev, score *models.TokenRiskScore) bool {
	return prev.Score != score.Score || prev.Label != score.Label || prev.Reason != score.Reason || prev.Policy != score.Policy
}

func tokenPosts(tokenID string, posts []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		if p != nil && p.TokenID == tokenID {
			out = append(out, p)
		}
	}
	return out
}

// Cluster ids assigned at ingestion are only comparable within a batch. Risk and narrative reports span a token's whole history, so its posts are fingerprinted again as one set; the caller's posts are left untouched.
func reclustered(posts []*models.Post) []*models.Post {
	refs := make([]fingerprint.TextRef, len(posts))
	for i, p := range posts {
		refs[i] = fingerprint.TextRef{ID: p.ID, Text: p.Text}
	}
	clusters := fingerprint.Cluster(refs)
	out := make([]*models.Post, len(posts))
	for i, p := range posts {
		c := *p
		cid := clusters[p.ID]
		c.ClusterID = &cid
		out[i] = &c
	}
	return out
}

// Extra signals for policies which look past the per-post aggregates: near-duplicate pairs, timing, bot-style authors and low-authenticity posts.
func (eng *Engine) riskSignals(ctx context.Context, posts []*models.Post) (*risk.Signals, error) {
	sig := &risk.Signals{}
	if len(posts) == 0 {
		return sig, nil
	}

	if len(posts) >= fingerprint.MinPostsForDuplicates {
		refs := make([]fingerprint.TextRef, len(posts))
		for i, p := range posts {
			refs[i] = fingerprint.TextRef{ID: p.ID, Text: p.Text}
		}
		sig.DuplicatePairs = len(fingerprint.DuplicatePairs(refs, eng.Config.DuplicateThreshold))
	}

	rep := eng.Bursts.Detect(posts)
	sig.Burst = &rep

	accounts := make(map[string]bool)
	for _, p := range posts {
		if p.AccountID != "" {
			accounts[p.AccountID] = true
		}
		if eng.Authenticity != nil && eng.Authenticity.Score(p.Text, p.Likes) < classifier.LowAuthenticityThreshold {
			sig.LowTrustPosts++
		}
	}
	sig.UniqueAccounts = len(accounts)
	for id := range accounts {
		bot, err := eng.botAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		if bot {
			sig.BotAccounts++
		}
	}
	return sig, nil
}

// An account counts as a bot when its stored trust label says so, or when its username matches a bot pattern.
func (eng *Engine) botAccount(ctx context.Context, accountID string) (bool, error) {
	if eng.Store == nil {
		return false, nil
	}
	acct, err := eng.Store.GetAccount(ctx, accountID)
	if errors.Is(err, riskstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading account %s: %w", accountID, err)
	}
	if acct.TrustLabel == models.TrustBot || acct.Credibility == models.CredibilityBot {
		return true, nil
	}
	return eng.Usernames.Suspicious(acct.Username), nil
}

func riskFlags(score *models.TokenRiskScore, sig *risk.Signals) []string {
	var flags []string
	switch score.Label {
	case models.RiskHigh:
		flags = append(flags, flagstore.FlagHighRisk)
	case models.RiskPumpDump:
		flags = append(flags, flagstore.FlagPumpDump)
	case models.RiskFUD:
		flags = append(flags, flagstore.FlagFUD)
	}
	if sig != nil && sig.Burst != nil && sig.Burst.Coordinated {
		flags = append(flags, flagstore.FlagCoordinatedBurst)
	}
	return flags
}
