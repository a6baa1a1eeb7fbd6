package countstore

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	cs := NewMemCountStore()

	c, err := cs.GetCount(ctx, CounterTokenPosts, "DOGE", PeriodTotal, at)
	assert.NoError(err)
	assert.Equal(0, c)
	assert.NoError(Increment(ctx, cs, CounterTokenPosts, "DOGE", at))
	assert.NoError(cs.IncrementBy(ctx, CounterTokenPosts, "DOGE", at.Add(10*time.Minute), 4))
	assert.NoError(cs.IncrementBy(ctx, CounterTokenPosts, "DOGE", at, 0))

	for _, period := range allPeriods {
		c, err = cs.GetCount(ctx, CounterTokenPosts, "DOGE", period, at)
		assert.NoError(err)
		assert.Equal(5, c)
	}

	// next hour, same day
	later := at.Add(time.Hour)
	assert.NoError(Increment(ctx, cs, CounterTokenPosts, "DOGE", later))
	c, _ = cs.GetCount(ctx, CounterTokenPosts, "DOGE", PeriodHour, later)
	assert.Equal(1, c)
	c, _ = cs.GetCount(ctx, CounterTokenPosts, "DOGE", PeriodDay, later)
	assert.Equal(6, c)
	c, _ = cs.GetCount(ctx, CounterTokenPosts, "DOGE", PeriodTotal, time.Time{})
	assert.Equal(6, c)

	c, err = cs.GetCountDistinct(ctx, DistinctTokenAccounts, "DOGE", PeriodTotal, at)
	assert.NoError(err)
	assert.Equal(0, c)
	for _, acct := range []string{"a1", "a1", "a2", "a3", "a1"} {
		assert.NoError(cs.IncrementDistinct(ctx, DistinctTokenAccounts, "DOGE", acct, at))
	}
	for _, period := range allPeriods {
		c, err = cs.GetCountDistinct(ctx, DistinctTokenAccounts, "DOGE", period, at)
		assert.NoError(err)
		assert.Equal(3, c)
	}
}

func TestMemCountStoreConcurrent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

	cs := NewMemCountStore()

	var wg sync.WaitGroup
	inc := func(token string, times int) {
		defer wg.Done()
		for i := 0; i < times; i++ {
			assert.NoError(Increment(ctx, cs, CounterTokenPosts, token, at))
			assert.NoError(cs.IncrementDistinct(ctx, DistinctTokenAccounts, token, "a1", at))
			_, err := cs.GetCount(ctx, CounterTokenPosts, token, PeriodTotal, at)
			assert.NoError(err)
		}
	}
	wg.Add(4)
	go inc("DOGE", 10)
	go inc("DOGE", 10)
	go inc("PEPE", 6)
	go inc("PEPE", 6)
	wg.Wait()

	c, _ := cs.GetCount(ctx, CounterTokenPosts, "DOGE", PeriodTotal, at)
	assert.Equal(20, c)
	c, _ = cs.GetCount(ctx, CounterTokenPosts, "PEPE", PeriodTotal, at)
	assert.Equal(12, c)
	c, _ = cs.GetCountDistinct(ctx, DistinctTokenAccounts, "PEPE", PeriodTotal, at)
	assert.Equal(1, c)
}

func TestRedisCountStoreBasics(t *testing.T) {
	t.Skip("live test, need redis running locally")
	assert := assert.New(t)
	ctx := context.Background()
	at := time.Now()

	cs, err := NewRedisCountStore("redis://localhost:6379/0")
	if err != nil {
		t.Fatal(err)
	}
	before, err := cs.GetCount(ctx, CounterTokenPosts, "LIVETEST", PeriodHour, at)
	assert.NoError(err)
	assert.NoError(cs.IncrementBy(ctx, CounterTokenPosts, "LIVETEST", at, 3))
	after, err := cs.GetCount(ctx, CounterTokenPosts, "LIVETEST", PeriodHour, at)
	assert.NoError(err)
	assert.Equal(before+3, after)
}
