// Counters of post activity, bucketed by calendar period of the post timestamp.
//
// Includes an interface and implementations using redis and in-process memory.
package countstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	PeriodTotal = "total"
	PeriodDay   = "day"
	PeriodHour  = "hour"
)

// Counter names used by the engine
const (
	// posts ingested, keyed by token
	CounterTokenPosts = "token-posts"
	// posts classified suspicious, keyed by token
	CounterTokenSuspicious = "token-suspicious"
	// posts ingested, keyed by account
	CounterAccountPosts = "account-posts"
	// posts ingested, keyed by normalized-text fingerprint across all tokens
	CounterFingerprintPosts = "fingerprint-posts"
	// distinct authoring accounts, bucketed by token
	DistinctTokenAccounts = "token-accounts"
)

var allPeriods = []string{PeriodTotal, PeriodDay, PeriodHour}

type CountStore interface {
	GetCount(ctx context.Context, name, val, period string, at time.Time) (int, error)
	IncrementBy(ctx context.Context, name, val string, at time.Time, n int) error
	GetCountDistinct(ctx context.Context, name, bucket, period string, at time.Time) (int, error)
	IncrementDistinct(ctx context.Context, name, bucket, val string, at time.Time) error
}

func Increment(ctx context.Context, cs CountStore, name, val string, at time.Time) error {
	return cs.IncrementBy(ctx, name, val, at, 1)
}

func periodBucket(name, val, period string, at time.Time) string {
	switch period {
	case PeriodTotal:
		return fmt.Sprintf("%s/%s", name, val)
	case PeriodDay:
		return fmt.Sprintf("%s/%s/%s", name, val, at.UTC().Format(time.DateOnly))
	case PeriodHour:
		return fmt.Sprintf("%s/%s/%s", name, val, at.UTC().Format("2006-01-02T15"))
	default:
		slog.Warn("unhandled counter period", "period", period)
		return fmt.Sprintf("%s/%s", name, val)
	}
}
