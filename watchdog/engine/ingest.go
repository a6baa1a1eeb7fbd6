package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/fingerprint"
	"github.com/trendai/watchdog/watchdog/helpers"
)

type IngestResult struct {
	// accepted posts with derived fields populated, in input order
	Posts []*models.Post `json:"posts"`
	// skipped records; the rest of the batch is still processed
	Errors []models.RecordError `json:"errors"`
	// distinct tokens touched by the batch, sorted
	Tokens []string `json:"tokens"`
}

// Validates, classifies and fingerprints a batch of raw posts.
//
// Classification runs concurrently; fingerprinting then runs once over the whole batch in input order, so cluster ids are stable for a given batch. Re-ingesting the same batch yields identical derived fields.
func (eng *Engine) Ingest(ctx context.Context, raws []models.RawPost) (res *IngestResult, err error) {
	start := time.Now()
	defer func() {
		ingestDuration.Observe(time.Since(start).Seconds())
	}()
	// similar to an HTTP server, we want to recover any panics from scoring
	defer func() {
		if r := recover(); r != nil {
			executionPanics.WithLabelValues("ingest").Inc()
			eng.Logger.Error("watchdog ingest execution exception", "err", r, "batch", len(raws))
			err = fmt.Errorf("ingest panic: %v", r)
		}
	}()

	res = &IngestResult{
		Posts:  []*models.Post{},
		Errors: []models.RecordError{},
		Tokens: []string{},
	}
	seen := make(map[string]bool, len(raws))
	for i := range raws {
		p, err := raws[i].Validate()
		if err == nil && seen[p.ID] {
			err = models.ErrDuplicateID
		}
		if err != nil {
			res.Errors = append(res.Errors, models.RecordError{Index: i, ID: raws[i].ID, Err: err})
			continue
		}
		seen[p.ID] = true
		res.Posts = append(res.Posts, p)
	}
	recordErrors.Add(float64(len(res.Errors)))
	for _, re := range res.Errors {
		eng.Logger.Info("skipping malformed record", "index", re.Index, "id", re.ID, "err", re.Err)
	}

	if err := eng.ScorePosts(ctx, res.Posts); err != nil {
		return nil, err
	}

	tokens := make(map[string]bool)
	for _, p := range res.Posts {
		tokens[p.TokenID] = true
		postsIngested.WithLabelValues(p.Label).Inc()
	}
	for t := range tokens {
		res.Tokens = append(res.Tokens, t)
	}
	sort.Strings(res.Tokens)

	if eng.Store != nil && len(res.Posts) > 0 {
		if err := eng.Store.SavePosts(ctx, res.Posts); err != nil {
			return nil, fmt.Errorf("saving posts: %w", err)
		}
	}
	if err := eng.countPosts(ctx, res.Posts); err != nil {
		return nil, fmt.Errorf("incrementing counters: %w", err)
	}
	if err := eng.RefreshAccounts(ctx, batchAccounts(res.Posts)); err != nil {
		return nil, fmt.Errorf("refreshing account trust: %w", err)
	}
	for _, t := range res.Tokens {
		if err := eng.PurgeTokenCaches(ctx, t); err != nil {
			eng.Logger.Warn("failed to purge token caches", "token", t, "err", err)
		}
	}

	eng.Logger.Info("ingested post batch", "accepted", len(res.Posts), "skipped", len(res.Errors), "tokens", len(res.Tokens), "duration", time.Since(start))
	return res, nil
}

// Populates derived fields on every post: organic score, label, bot score and sentiment per post, then cluster ids across the set.
func (eng *Engine) ScorePosts(ctx context.Context, posts []*models.Post) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, eng.Config.Workers))
	for _, p := range posts {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			eng.classifyPost(p)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	refs := make([]fingerprint.TextRef, len(posts))
	for i, p := range posts {
		refs[i] = fingerprint.TextRef{ID: p.ID, Text: p.Text}
	}
	clusters := fingerprint.Cluster(refs)
	for _, p := range posts {
		if c, ok := clusters[p.ID]; ok {
			p.ClusterID = &c
		}
	}
	return nil
}

func (eng *Engine) classifyPost(p *models.Post) {
	cls := eng.Classifier.Classify(p.Text)
	p.OrganicScore = &cls.OrganicScore
	p.Label = cls.Label
	if eng.BotScorer != nil {
		bot := eng.BotScorer.BotScore(p.AccountID, p.Text)
		p.BotScore = &bot
	}
	if eng.Sentiment != nil {
		s := helpers.Round(eng.Sentiment.Polarity(p.Text), 4)
		p.Sentiment = &s
	}
}

func (eng *Engine) countPosts(ctx context.Context, posts []*models.Post) error {
	if eng.Counters == nil {
		return nil
	}
	for _, p := range posts {
		if err := countstore.Increment(ctx, eng.Counters, countstore.CounterTokenPosts, p.TokenID, p.Timestamp); err != nil {
			return err
		}
		if err := countstore.Increment(ctx, eng.Counters, countstore.CounterFingerprintPosts, fingerprint.Fingerprint(p.Text), p.Timestamp); err != nil {
			return err
		}
		if p.IsSuspicious() {
			if err := countstore.Increment(ctx, eng.Counters, countstore.CounterTokenSuspicious, p.TokenID, p.Timestamp); err != nil {
				return err
			}
		}
		if p.AccountID == "" {
			continue
		}
		if err := countstore.Increment(ctx, eng.Counters, countstore.CounterAccountPosts, p.AccountID, p.Timestamp); err != nil {
			return err
		}
		if err := eng.Counters.IncrementDistinct(ctx, countstore.DistinctTokenAccounts, p.TokenID, p.AccountID, p.Timestamp); err != nil {
			return err
		}
	}
	return nil
}

func batchAccounts(posts []*models.Post) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range posts {
		if p.AccountID != "" && !seen[p.AccountID] {
			seen[p.AccountID] = true
			out = append(out, p.AccountID)
		}
	}
	sort.Strings(out)
	return out
}
