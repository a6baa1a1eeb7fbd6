package flagstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisFlagStoreBasics(t *testing.T) {
	t.Skip("live test, need redis running locally")
	assert := assert.New(t)
	ctx := context.Background()

	fs, err := NewRedisFlagStore("redis://localhost:6379/0")
	if err != nil {
		t.Fatal(err)
	}
	key := TokenKey("LIVETEST")

	l, err := fs.Get(ctx, key)
	assert.NoError(err)
	assert.Empty(l)

	assert.NoError(fs.Add(ctx, key, []string{FlagHighRisk, FlagFUD}))
	assert.NoError(fs.Add(ctx, key, []string{FlagHighRisk, FlagPumpDump}))
	l, err = fs.Get(ctx, key)
	assert.NoError(err)
	assert.Equal(3, len(l))

	assert.NoError(fs.Remove(ctx, key, []string{FlagHighRisk, FlagPumpDump, FlagBotAccount}))
	l, err = fs.Get(ctx, key)
	assert.NoError(err)
	assert.Equal([]string{FlagFUD}, l)
	assert.NoError(fs.Remove(ctx, key, []string{FlagFUD}))
}
