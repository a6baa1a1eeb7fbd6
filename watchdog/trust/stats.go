package trust

import (
	"math"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/fingerprint"
	"github.com/trendai/watchdog/watchdog/helpers"
)

// Volatility reported when there are too few scored posts to measure spread
const DefaultVolatility = 0.5

// Derives behavioral stats for an account from its own posts. Posts by other accounts are ignored.
//
// Posting cadence comes from the account record; when that is unset it is estimated from the observed span of posts, in whole days (minimum one).
func StatsFromPosts(acct *models.Account, posts []*models.Post) Stats {
	var own []*models.Post
	for _, p := range posts {
		if p.AccountID == acct.ID {
			own = append(own, p)
		}
	}
	stats := Stats{
		PostCount:   len(own),
		Volatility:  DefaultVolatility,
		PostsPerDay: acct.PostsPerDay,
	}
	if len(own) == 0 {
		return stats
	}

	suspicious := 0
	var sentiments []float64
	texts := make([]string, 0, len(own))
	first, last := own[0].Timestamp, own[0].Timestamp
	for _, p := range own {
		if p.IsSuspicious() {
			suspicious++
		}
		if p.Sentiment != nil {
			sentiments = append(sentiments, *p.Sentiment)
		}
		texts = append(texts, p.Text)
		if p.Timestamp.Before(first) {
			first = p.Timestamp
		}
		if p.Timestamp.After(last) {
			last = p.Timestamp
		}
	}
	stats.BotRatio = helpers.Round(float64(suspicious)/float64(len(own)), 4)
	stats.DuplicateRate = helpers.Round(fingerprint.DuplicateRate(texts), 4)
	if len(sentiments) >= 2 {
		stats.Volatility = helpers.Round(sampleStdDev(sentiments), 4)
	}
	if stats.PostsPerDay <= 0 {
		days := math.Max(1, math.Ceil(last.Sub(first).Hours()/24))
		stats.PostsPerDay = helpers.Round(float64(len(own))/days, 2)
	}
	return stats
}

func sampleStdDev(vals []float64) float64 {
	mean := 0.0
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	ss := 0.0
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}
