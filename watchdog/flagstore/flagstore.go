// Sticky review flags on tokens and accounts. Flags are added by the engine when a verdict crosses a threshold and are only cleared by an operator.
package flagstore

import (
	"context"
	"sort"
)

const (
	FlagHighRisk         = "high-risk"
	FlagPumpDump         = "pump-dump"
	FlagFUD              = "fud"
	FlagCoordinatedBurst = "coordinated-burst"
	FlagBotAccount       = "bot-account"
)

type FlagStore interface {
	Get(ctx context.Context, key string) ([]string, error)
	Add(ctx context.Context, key string, flags []string) error
	Remove(ctx context.Context, key string, flags []string) error
}

func TokenKey(tokenID string) string {
	return "token/" + tokenID
}

func AccountKey(accountID string) string {
	return "account/" + accountID
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
