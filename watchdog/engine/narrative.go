package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/narrative"
	"github.com/trendai/watchdog/watchdog/topics"
)

// Builds the narrative report for a token from its current risk record and (up to limit) most recent posts. A limit of zero or less uses the configured default.
func (eng *Engine) TokenNarrative(ctx context.Context, tokenID string, score models.TokenRiskScore, posts []*models.Post, limit int) (*narrative.Report, error) {
	if tokenID == "" {
		return nil, models.ErrMissingToken
	}
	if limit <= 0 {
		limit = eng.Config.NarrativeLimit
	}
	recent := mostRecent(reclustered(tokenPosts(tokenID, posts)), limit)
	rep := eng.Reporter.Report(tokenID, score, recent, eng.now())
	eng.annotateClusters(ctx, &rep)
	// only the default-sized report is served from cache
	if eng.Cache != nil && limit == eng.Config.NarrativeLimit {
		if err := cachestore.SetJSON(ctx, eng.Cache, cachestore.NameTokenNarrative, tokenID, rep); err != nil {
			eng.Logger.Warn("failed to cache narrative report", "token", tokenID, "err", err)
		}
	}
	return &rep, nil
}

// Returns the last narrative report built for a token, if it is still cached.
func (eng *Engine) CachedNarrative(ctx context.Context, tokenID string) (*narrative.Report, bool) {
	if eng.Cache == nil {
		return nil, false
	}
	var rep narrative.Report
	ok, err := cachestore.GetJSON(ctx, eng.Cache, cachestore.NameTokenNarrative, tokenID, &rep)
	if err != nil {
		eng.Logger.Warn("ignoring unreadable cached narrative", "token", tokenID, "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	return &rep, true
}

// Fills in how often each duplicated text has been seen across all tokens.
func (eng *Engine) annotateClusters(ctx context.Context, rep *narrative.Report) {
	if eng.Counters == nil {
		return
	}
	clusters := rep.Analysis.Coordination.Clusters
	for i := range clusters {
		n, err := eng.Counters.GetCount(ctx, countstore.CounterFingerprintPosts, clusters[i].Fingerprint, countstore.PeriodTotal, eng.now())
		if err != nil {
			eng.Logger.Warn("failed to read fingerprint counter", "token", rep.TokenID, "err", err)
			return
		}
		clusters[i].SeenTotal = n
	}
}

// newest first, ties by id
func mostRecent(posts []*models.Post, limit int) []*models.Post {
	out := append([]*models.Post(nil), posts...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Groups a token's posts into topical narratives and replaces the stored set. Tokens with too few posts end up with no narratives.
func (eng *Engine) DiscoverNarratives(ctx context.Context, tokenID string, posts []*models.Post) ([]*models.Narrative, error) {
	if tokenID == "" {
		return nil, models.ErrMissingToken
	}
	own := tokenPosts(tokenID, posts)
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Timestamp.Before(own[j].Timestamp)
	})
	ns := topics.BuildNarratives(eng.Topics, tokenID, own, eng.Config.TopicClusters, eng.Config.TopicMinPosts, eng.now())
	narrativesDiscovered.Add(float64(len(ns)))
	if eng.Store != nil {
		if err := eng.Store.ReplaceNarratives(ctx, tokenID, ns); err != nil {
			return nil, fmt.Errorf("saving narratives: %w", err)
		}
	}
	eng.Logger.Info("narratives discovered", "token", tokenID, "posts", len(own), "narratives", len(ns))
	return ns, nil
}

// Assesses each stored narrative of a token against the posts it references. Narratives whose posts no longer resolve are dropped.
func (eng *Engine) AssessNarratives(ctx context.Context, tokenID string) ([]narrative.NarrativeRisk, error) {
	if eng.Store == nil {
		return nil, fmt.Errorf("narrative assessment needs a risk store")
	}
	ns, err := eng.Store.NarrativesForToken(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("loading narratives: %w", err)
	}
	var ids []string
	for _, n := range ns {
		ids = append(ids, n.PostIDs...)
	}
	byID, err := eng.Store.PostsByID(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading narrative posts: %w", err)
	}
	return narrative.Assess(ns, byID), nil
}
