// Cache of computed reports (risk verdicts, narrative reports, trust results), stored as JSON strings with a fixed TTL.
//
// Entries for a token are purged whenever its posts or risk score change.
package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Cache namespaces
const (
	NameTokenRisk      = "risk"
	NameTokenNarrative = "narrative"
	NameAccountTrust   = "trust"
)

type CacheStore interface {
	Get(ctx context.Context, name, key string) (string, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}

// Fetches and decodes a cached value. Returns false on a miss.
func GetJSON(ctx context.Context, cs CacheStore, name, key string, dst any) (bool, error) {
	raw, err := cs.Get(ctx, name, key)
	if err != nil {
		return false, err
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decoding cached %s/%s: %w", name, key, err)
	}
	return true, nil
}

func SetJSON(ctx context.Context, cs CacheStore, name, key string, val any) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return cs.Set(ctx, name, key, string(b))
}

// Drops every cached report derived from a token's posts.
func PurgeToken(ctx context.Context, cs CacheStore, tokenID string) error {
	for _, name := range []string{NameTokenRisk, NameTokenNarrative} {
		if err := cs.Purge(ctx, name, tokenID); err != nil {
			return err
		}
	}
	return nil
}
