package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/flagstore"
	"github.com/trendai/watchdog/watchdog/riskstore"
	"github.com/trendai/watchdog/watchdog/trust"
)

// Scores an account from its post-derived stats, writes the result on to the account and persists it.
func (eng *Engine) RefreshAccountTrust(ctx context.Context, acct *models.Account, stats trust.Stats) (trust.Result, error) {
	if acct == nil || acct.ID == "" {
		return trust.Result{}, models.ErrMissingID
	}
	now := eng.now()
	res := eng.Trust.Score(acct, stats, now)
	trust.Apply(acct, res, now)
	trustRefreshes.WithLabelValues(res.Label).Inc()

	if eng.Store != nil {
		if err := eng.Store.SaveAccount(ctx, acct); err != nil {
			return res, fmt.Errorf("saving account: %w", err)
		}
	}
	if res.Label == models.TrustBot {
		eng.addFlags(ctx, flagstore.AccountKey(acct.ID), []string{flagstore.FlagBotAccount})
	}
	if eng.Cache != nil {
		if err := cachestore.SetJSON(ctx, eng.Cache, cachestore.NameAccountTrust, acct.ID, res); err != nil {
			eng.Logger.Warn("failed to cache trust result", "account", acct.ID, "err", err)
		}
	}
	eng.Logger.Debug("account trust refreshed", "account", acct.ID, "score", res.Score, "label", res.Label)
	return res, nil
}

func (eng *Engine) AccountTrustFromPosts(ctx context.Context, acct *models.Account, posts []*models.Post) (trust.Result, error) {
	if acct == nil {
		return trust.Result{}, models.ErrMissingID
	}
	return eng.RefreshAccountTrust(ctx, acct, trust.StatsFromPosts(acct, posts))
}

// Recomputes trust for each account from its stored posts. Accounts without a stored record get a bare one.
func (eng *Engine) RefreshAccounts(ctx context.Context, accountIDs []string) error {
	if eng.Store == nil {
		return nil
	}
	for _, id := range accountIDs {
		if id == "" {
			continue
		}
		acct, err := eng.Store.GetAccount(ctx, id)
		if errors.Is(err, riskstore.ErrNotFound) {
			acct = &models.Account{ID: id}
		} else if err != nil {
			return fmt.Errorf("loading account %s: %w", id, err)
		}
		posts, err := eng.Store.PostsForAccount(ctx, id)
		if err != nil {
			return fmt.Errorf("loading posts for account %s: %w", id, err)
		}
		if _, err := eng.AccountTrustFromPosts(ctx, acct, posts); err != nil {
			return err
		}
	}
	return nil
}

// Cached trust result for an account, falling back to a fresh computation from stored data.
func (eng *Engine) AccountTrust(ctx context.Context, accountID string) (*trust.Result, error) {
	if eng.Cache != nil {
		var res trust.Result
		ok, err := cachestore.GetJSON(ctx, eng.Cache, cachestore.NameAccountTrust, accountID, &res)
		if err == nil && ok {
			return &res, nil
		}
	}
	if eng.Store == nil {
		return nil, riskstore.ErrNotFound
	}
	acct, err := eng.Store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	posts, err := eng.Store.PostsForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	res, err := eng.AccountTrustFromPosts(ctx, acct, posts)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
