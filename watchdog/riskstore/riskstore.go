// Persistence for posts, accounts, token risk scores and narratives.
//
// GormStore is the durable implementation (sqlite or postgres); MemStore backs tests and one-shot CLI runs.
package riskstore

import (
	"context"
	"errors"

	"github.com/trendai/watchdog/models"
)

var ErrNotFound = errors.New("record not found")

type RiskStore interface {
	// Inserts posts, overwriting derived fields of any post already stored under the same id.
	SavePosts(ctx context.Context, posts []*models.Post) error
	// Most recent posts for a token, newest first. A limit of zero or less returns every post.
	PostsForToken(ctx context.Context, tokenID string, limit int) ([]*models.Post, error)
	PostsForAccount(ctx context.Context, accountID string) ([]*models.Post, error)
	PostsByID(ctx context.Context, ids []string) (map[string]*models.Post, error)
	Tokens(ctx context.Context) ([]string, error)

	SaveAccount(ctx context.Context, acct *models.Account) error
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// Exactly one row per token survives; a later write replaces the earlier one.
	UpsertRiskScore(ctx context.Context, score *models.TokenRiskScore) error
	GetRiskScore(ctx context.Context, tokenID string) (*models.TokenRiskScore, error)
	// Highest scores first, ties broken by token id.
	TopRisks(ctx context.Context, minScore float64, limit int) ([]*models.TokenRiskScore, error)

	// Replaces all stored narratives for a token.
	ReplaceNarratives(ctx context.Context, tokenID string, narratives []*models.Narrative) error
	NarrativesForToken(ctx context.Context, tokenID string) ([]*models.Narrative, error)
}
