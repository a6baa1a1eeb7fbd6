package cachestore

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

const (
	redisReportPrefix = "watchdog/report/"
	// entries held in the in-process tier; peers purging a token are seen after at most this long
	localCacheTTL  = time.Minute
	localCacheSize = 10_000
)

// Lifetime of entries per namespace
var DefaultNamespaceTTLs = map[string]time.Duration{
	NameTokenRisk:      10 * time.Minute,
	NameTokenNarrative: 30 * time.Minute,
	NameAccountTrust:   2 * time.Hour,
}

// Two-tier cache: a local TinyLFU in front of redis. Keys are laid out as watchdog/report/{namespace}/{key}, for example watchdog/report/narrative/PEPE.
type RedisCacheStore struct {
	Data *cache.Cache
	// fallback lifetime for namespaces without an entry in NamespaceTTL
	TTL          time.Duration
	NamespaceTTL map[string]time.Duration
}

var _ CacheStore = (*RedisCacheStore)(nil)

func NewRedisCacheStore(redisURL string, ttl time.Duration) (*RedisCacheStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	return &RedisCacheStore{
		Data: cache.New(&cache.Options{
			Redis:      rdb,
			LocalCache: cache.NewTinyLFU(localCacheSize, min(ttl, localCacheTTL)),
		}),
		TTL:          ttl,
		NamespaceTTL: DefaultNamespaceTTLs,
	}, nil
}

func redisReportKey(name, key string) string {
	return redisReportPrefix + name + "/" + key
}

// Namespace lifetime, never longer than the store-wide TTL.
func (s *RedisCacheStore) ttlFor(name string) time.Duration {
	if d, ok := s.NamespaceTTL[name]; ok && d > 0 && (s.TTL <= 0 || d < s.TTL) {
		return d
	}
	return s.TTL
}

func (s *RedisCacheStore) Get(ctx context.Context, name, key string) (string, error) {
	var val string
	err := s.Data.Get(ctx, redisReportKey(name, key), &val)
	if errors.Is(err, cache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, name, key string, val string) error {
	return s.Data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   redisReportKey(name, key),
		Value: val,
		TTL:   s.ttlFor(name),
	})
}

func (s *RedisCacheStore) Purge(ctx context.Context, name, key string) error {
	err := s.Data.Delete(ctx, redisReportKey(name, key))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil
	}
	return err
}
