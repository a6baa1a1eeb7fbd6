package countstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisCountPrefix    = "watchdog/count/"
	redisDistinctPrefix = "watchdog/distinct/"

	hourBucketTTL = 72 * time.Hour
	dayBucketTTL  = 30 * 24 * time.Hour
)

type RedisCountStore struct {
	Client *redis.Client
}

var _ CountStore = (*RedisCountStore)(nil)

func NewRedisCountStore(redisURL string) (*RedisCountStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	if _, err := rdb.Ping(context.TODO()).Result(); err != nil {
		return nil, err
	}
	return &RedisCountStore{Client: rdb}, nil
}

func (s *RedisCountStore) GetCount(ctx context.Context, name, val, period string, at time.Time) (int, error) {
	c, err := s.Client.Get(ctx, redisCountPrefix+periodBucket(name, val, period, at)).Int()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return c, nil
}

func (s *RedisCountStore) IncrementBy(ctx context.Context, name, val string, at time.Time, n int) error {
	if n == 0 {
		return nil
	}

	// all period buckets in a single redis round-trip
	multi := s.Client.Pipeline()

	key := redisCountPrefix + periodBucket(name, val, PeriodHour, at)
	multi.IncrBy(ctx, key, int64(n))
	multi.Expire(ctx, key, hourBucketTTL)

	key = redisCountPrefix + periodBucket(name, val, PeriodDay, at)
	multi.IncrBy(ctx, key, int64(n))
	multi.Expire(ctx, key, dayBucketTTL)

	// no expiration for total
	multi.IncrBy(ctx, redisCountPrefix+periodBucket(name, val, PeriodTotal, at), int64(n))

	_, err := multi.Exec(ctx)
	return err
}

func (s *RedisCountStore) GetCountDistinct(ctx context.Context, name, bucket, period string, at time.Time) (int, error) {
	c, err := s.Client.PFCount(ctx, redisDistinctPrefix+periodBucket(name, bucket, period, at)).Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return int(c), nil
}

func (s *RedisCountStore) IncrementDistinct(ctx context.Context, name, bucket, val string, at time.Time) error {
	multi := s.Client.Pipeline()

	key := redisDistinctPrefix + periodBucket(name, bucket, PeriodHour, at)
	multi.PFAdd(ctx, key, val)
	multi.Expire(ctx, key, hourBucketTTL)

	key = redisDistinctPrefix + periodBucket(name, bucket, PeriodDay, at)
	multi.PFAdd(ctx, key, val)
	multi.Expire(ctx, key, dayBucketTTL)

	multi.PFAdd(ctx, redisDistinctPrefix+periodBucket(name, bucket, PeriodTotal, at), val)

	_, err := multi.Exec(ctx)
	return err
}
