package trust

import (
	"testing"
	"time"

	"github.com/trendai/watchdog/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 {
	return &v
}

func TestStatsFromPosts(t *testing.T) {
	assert := assert.New(t)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	posts := []*models.Post{
		{ID: "1", AccountID: "a1", Text: "buy now", Label: models.LabelSuspicious, Sentiment: fptr(0.5), Timestamp: base},
		{ID: "2", AccountID: "a1", Text: "BUY NOW", Label: models.LabelSuspicious, Sentiment: fptr(0.5), Timestamp: base.Add(time.Hour)},
		{ID: "3", AccountID: "a1", Text: "thinking about it", Label: models.LabelOrganic, Sentiment: fptr(-0.5), Timestamp: base.Add(50 * time.Hour)},
		{ID: "4", AccountID: "a1", Text: "buy now", Label: models.LabelSuspicious, Sentiment: fptr(0.5), Timestamp: base.Add(2 * time.Hour)},
		{ID: "5", AccountID: "other", Text: "ignored", Label: models.LabelSuspicious, Timestamp: base},
	}

	stats := StatsFromPosts(&models.Account{ID: "a1"}, posts)
	assert.Equal(4, stats.PostCount)
	assert.Equal(0.75, stats.BotRatio)
	assert.Equal(0.5, stats.DuplicateRate)
	assert.Equal(0.5, stats.Volatility)
	// 4 posts over a span of just over 2 days, rounded up to 3
	assert.Equal(1.33, stats.PostsPerDay)

	stats = StatsFromPosts(&models.Account{ID: "a1", PostsPerDay: 7}, posts)
	assert.Equal(7.0, stats.PostsPerDay)

	empty := StatsFromPosts(&models.Account{ID: "nobody"}, posts)
	assert.Equal(0, empty.PostCount)
	assert.Equal(0.0, empty.BotRatio)
	assert.Equal(DefaultVolatility, empty.Volatility)
}
