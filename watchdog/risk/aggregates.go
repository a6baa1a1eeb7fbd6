package risk

import (
	"fmt"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

// How the duplicate fraction counts clustered posts
const (
	// every post carrying a cluster id counts, singletons included
	CountAllClustered = "all"
	// only posts sharing their cluster id with at least one other post count
	CountSignificant = "significant"
)

func ValidDuplicateCounting(mode string) error {
	switch mode {
	case CountAllClustered, CountSignificant:
		return nil
	}
	return fmt.Errorf("unknown duplicate counting mode: %s", mode)
}

// Aggregates a token's scored posts. Unscored fields are treated as absent: posts without a bot score don't contribute to the mean.
func AggregatesFromPosts(posts []*models.Post, counting string) Aggregates {
	agg := Aggregates{Total: len(posts)}
	if len(posts) == 0 {
		return agg
	}

	clusterSizes := make(map[int]int)
	for _, p := range posts {
		if p.Clustered() {
			clusterSizes[*p.ClusterID]++
		}
	}

	botSum, botN := 0.0, 0
	sentSum, sentN := 0.0, 0
	for _, p := range posts {
		if p.IsSuspicious() {
			agg.Suspicious++
		}
		if p.Clustered() {
			if counting != CountSignificant || clusterSizes[*p.ClusterID] > 1 {
				agg.Clustered++
			}
		}
		if p.BotScore != nil {
			botSum += *p.BotScore
			botN++
		}
		if p.Sentiment != nil {
			sentSum += *p.Sentiment
			sentN++
		}
	}
	if botN > 0 {
		agg.MeanBotScore = helpers.Round(botSum/float64(botN), 4)
	}
	if sentN > 0 {
		agg.MeanSentiment = helpers.Round(sentSum/float64(sentN), 4)
	}
	return agg
}
