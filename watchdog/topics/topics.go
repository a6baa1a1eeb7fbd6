package topics

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/trendai/watchdog/models"
)

const (
	DefaultClusters = 3
	// tokens with fewer posts than this are not clustered
	DefaultMinPosts = 10
	topicTerms      = 3
)

// Result of grouping texts by topic. Labels holds one cluster index per input text; Keywords holds the representative terms of each cluster, most significant first.
type Assignment struct {
	Labels   []int
	Keywords [][]string
}

// Groups free-form texts in to at most k topical clusters. Implementations must be deterministic.
type Discoverer interface {
	Discover(texts []string, k int) Assignment
}

// Runs topic discovery over one token's posts and returns a narrative per non-empty cluster. Returns nil when there are too few posts.
func BuildNarratives(d Discoverer, tokenID string, posts []*models.Post, k, minPosts int, now time.Time) []*models.Narrative {
	if len(posts) == 0 || len(posts) < minPosts {
		return nil
	}
	texts := make([]string, len(posts))
	for i, p := range posts {
		texts[i] = p.Text
	}
	asg := d.Discover(texts, k)

	members := make(map[int][]*models.Post)
	for i, c := range asg.Labels {
		members[c] = append(members[c], posts[i])
	}
	var clusters []int
	for c := range members {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	title := cases.Title(language.English)
	var out []*models.Narrative
	for _, c := range clusters {
		ps := members[c]
		var terms []string
		if c < len(asg.Keywords) {
			terms = asg.Keywords[c]
		}
		if len(terms) > topicTerms {
			terms = terms[:topicTerms]
		}
		n := &models.Narrative{
			ID:        fmt.Sprintf("%s-n%04d", tokenID, len(out)+1),
			TokenID:   tokenID,
			Topic:     "Trend: " + title.String(strings.Join(terms, " ")),
			StartTime: ps[0].Timestamp,
			EndTime:   ps[0].Timestamp,
			CreatedAt: now,
		}
		for _, p := range ps {
			n.PostIDs = append(n.PostIDs, p.ID)
			if p.Timestamp.Before(n.StartTime) {
				n.StartTime = p.Timestamp
			}
			if p.Timestamp.After(n.EndTime) {
				n.EndTime = p.Timestamp
			}
		}
		out = append(out, n)
	}
	return out
}
