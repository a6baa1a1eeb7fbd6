package engine

import (
	"context"
	"fmt"

	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/flagstore"
)

// Ingest volume for a token from the counters, bucketed by post timestamp relative to the engine clock.
type TokenActivity struct {
	PostsTotal      int `json:"posts_total"`
	PostsToday      int `json:"posts_today"`
	PostsThisHour   int `json:"posts_this_hour"`
	SuspiciousToday int `json:"suspicious_today"`
	AccountsToday   int `json:"accounts_today"`
}

// Returns nil when the engine has no counters.
func (eng *Engine) TokenActivity(ctx context.Context, tokenID string) (*TokenActivity, error) {
	if eng.Counters == nil {
		return nil, nil
	}
	now := eng.now()
	var act TokenActivity
	for _, c := range []struct {
		name, period string
		dst          *int
	}{
		{countstore.CounterTokenPosts, countstore.PeriodTotal, &act.PostsTotal},
		{countstore.CounterTokenPosts, countstore.PeriodDay, &act.PostsToday},
		{countstore.CounterTokenPosts, countstore.PeriodHour, &act.PostsThisHour},
		{countstore.CounterTokenSuspicious, countstore.PeriodDay, &act.SuspiciousToday},
	} {
		n, err := eng.Counters.GetCount(ctx, c.name, tokenID, c.period, now)
		if err != nil {
			return nil, fmt.Errorf("reading %s counter: %w", c.name, err)
		}
		*c.dst = n
	}
	n, err := eng.Counters.GetCountDistinct(ctx, countstore.DistinctTokenAccounts, tokenID, countstore.PeriodDay, now)
	if err != nil {
		return nil, fmt.Errorf("reading %s counter: %w", countstore.DistinctTokenAccounts, err)
	}
	act.AccountsToday = n
	return &act, nil
}

func (eng *Engine) TokenFlags(ctx context.Context, tokenID string) ([]string, error) {
	return eng.flags(ctx, flagstore.TokenKey(tokenID))
}

func (eng *Engine) AccountFlags(ctx context.Context, accountID string) ([]string, error) {
	return eng.flags(ctx, flagstore.AccountKey(accountID))
}

// never nil
func (eng *Engine) flags(ctx context.Context, key string) ([]string, error) {
	if eng.Flags == nil {
		return []string{}, nil
	}
	out, err := eng.Flags.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("reading flags for %s: %w", key, err)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}
