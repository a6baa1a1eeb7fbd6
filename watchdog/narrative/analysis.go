package narrative

import (
	"sort"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/classifier"
	"github.com/trendai/watchdog/watchdog/fingerprint"
	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Dominant sentiment buckets
const (
	SentimentHyper   = "hyper_positive"
	SentimentFearful = "fearful"
	SentimentMixed   = "mixed"
	SentimentNeutral = "neutral"
)

const (
	maxClusterDetails = 5
	maxTopKeywords    = 10
	sampleTextRunes   = 50
)

type PatternAnalysis struct {
	TotalPosts      int            `json:"total_posts"`
	UniqueAccounts  int            `json:"unique_accounts"`
	SuspiciousRatio float64        `json:"suspicious_ratio"`
	OrganicRatio    float64        `json:"organic_ratio"`
	Concentration   float64        `json:"concentration_score"`
	TopAccount      string         `json:"top_account,omitempty"`
	PostsPerAccount map[string]int `json:"posts_per_account"`
}

type ClusterDetail struct {
	ClusterID   int      `json:"cluster_id"`
	PostCount   int      `json:"post_count"`
	Fingerprint string   `json:"fingerprint"`
	// posts with this exact text seen across every token; filled in by the engine from its counters
	SeenTotal   int      `json:"seen_total,omitempty"`
	Accounts    []string `json:"accounts"`
	SampleTexts []string `json:"sample_texts"`
}

type CoordinationAnalysis struct {
	Coordinated         bool            `json:"coordinated"`
	Score               float64         `json:"coordination_score"`
	SignificantClusters int             `json:"significant_clusters"`
	PostsInClusters     int             `json:"total_posts_in_clusters"`
	Clusters            []ClusterDetail `json:"cluster_details"`
	// links pushed by more than one account
	SharedLinks []SharedLink `json:"shared_links"`
}

type SharedLink struct {
	URL      string `json:"url"`
	Accounts int    `json:"accounts"`
	Posts    int    `json:"posts"`
}

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type SemanticAnalysis struct {
	Sentiment    string         `json:"sentiment"`
	HypeFraction float64        `json:"hype_percentage"`
	FearFraction float64        `json:"fear_percentage"`
	TopKeywords  []KeywordCount `json:"top_keywords"`
	Manipulation bool           `json:"manipulation_indicators"`
	// mean per-post polarity, over posts which carry one
	MeanPolarity  float64 `json:"mean_polarity"`
	PolarityLabel string  `json:"polarity_label"`
}

func analyzePatterns(posts []*models.Post) PatternAnalysis {
	pa := PatternAnalysis{
		TotalPosts:      len(posts),
		PostsPerAccount: map[string]int{},
	}
	if len(posts) == 0 {
		return pa
	}
	suspicious, organic := 0, 0
	for _, p := range posts {
		pa.PostsPerAccount[p.AccountID]++
		switch p.Label {
		case models.LabelSuspicious:
			suspicious++
		case models.LabelOrganic:
			organic++
		}
	}
	pa.UniqueAccounts = len(pa.PostsPerAccount)
	total := float64(len(posts))
	pa.SuspiciousRatio = helpers.Round(float64(suspicious)/total, 4)
	pa.OrganicRatio = helpers.Round(float64(organic)/total, 4)

	best := 0
	for acct, n := range pa.PostsPerAccount {
		// ties go to the lexically smallest account, for stable output
		if n > best || (n == best && acct < pa.TopAccount) {
			best = n
			pa.TopAccount = acct
		}
	}
	pa.Concentration = helpers.Round(float64(best)/total, 4)
	return pa
}

func analyzeCoordination(posts []*models.Post) CoordinationAnalysis {
	ca := CoordinationAnalysis{Clusters: []ClusterDetail{}, SharedLinks: []SharedLink{}}
	if len(posts) == 0 {
		return ca
	}
	ca.SharedLinks = sharedLinks(posts)
	byID := make(map[string]*models.Post, len(posts))
	assignments := make(map[string]int, len(posts))
	for _, p := range posts {
		if p.ClusterID == nil {
			continue
		}
		byID[p.ID] = p
		assignments[p.ID] = *p.ClusterID
	}

	significant := fingerprint.SignificantClusters(assignments)
	for _, ci := range significant {
		ca.PostsInClusters += ci.Size
	}
	ca.SignificantClusters = len(significant)
	ca.Score = helpers.Round(float64(ca.PostsInClusters)/float64(len(posts)), 4)
	ca.Coordinated = ca.Score > 0.2

	for i, ci := range significant {
		if i >= maxClusterDetails {
			break
		}
		var accounts, samples []string
		for _, id := range ci.PostIDs {
			accounts = append(accounts, byID[id].AccountID)
		}
		for _, id := range ci.PostIDs[:min(2, len(ci.PostIDs))] {
			samples = append(samples, truncate(byID[id].Text, sampleTextRunes))
		}
		accounts = helpers.DedupeStrings(accounts)
		sort.Strings(accounts)
		ca.Clusters = append(ca.Clusters, ClusterDetail{
			ClusterID:   ci.ClusterID,
			PostCount:   ci.Size,
			Fingerprint: fingerprint.Fingerprint(byID[ci.PostIDs[0]].Text),
			Accounts:    accounts,
			SampleTexts: samples,
		})
	}
	return ca
}

func sharedLinks(posts []*models.Post) []SharedLink {
	postCounts := make(map[string]int)
	accounts := make(map[string]map[string]bool)
	for _, p := range posts {
		for _, u := range helpers.TextLinks(p.Text) {
			postCounts[u]++
			if accounts[u] == nil {
				accounts[u] = make(map[string]bool)
			}
			accounts[u][p.AccountID] = true
		}
	}
	out := []SharedLink{}
	for u, n := range postCounts {
		if len(accounts[u]) < 2 {
			continue
		}
		out = append(out, SharedLink{URL: u, Accounts: len(accounts[u]), Posts: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Accounts != out[j].Accounts {
			return out[i].Accounts > out[j].Accounts
		}
		return out[i].URL < out[j].URL
	})
	if len(out) > maxClusterDetails {
		out = out[:maxClusterDetails]
	}
	return out
}

func analyzeSemantics(posts []*models.Post, hype, fear keyword.Lexicon) SemanticAnalysis {
	sa := SemanticAnalysis{Sentiment: SentimentNeutral, TopKeywords: []KeywordCount{}, PolarityLabel: classifier.SentimentNeutral}
	if len(posts) == 0 {
		return sa
	}
	polSum, polN := 0.0, 0
	for _, p := range posts {
		if p.Sentiment != nil {
			polSum += *p.Sentiment
			polN++
		}
	}
	if polN > 0 {
		sa.MeanPolarity = helpers.Round(polSum/float64(polN), 4)
		sa.PolarityLabel = classifier.SentimentLabel(sa.MeanPolarity)
	}
	hypeCount, fearCount := 0, 0
	counts := make(map[string]int)
	var seenOrder []string
	tally := func(matches []string) {
		for _, kw := range matches {
			if _, ok := counts[kw]; !ok {
				seenOrder = append(seenOrder, kw)
			}
			counts[kw]++
		}
	}
	for _, p := range posts {
		h := hype.Matches(p.Text)
		f := fear.Matches(p.Text)
		if len(h) > 0 {
			hypeCount++
		}
		if len(f) > 0 {
			fearCount++
		}
		tally(h)
		tally(f)
	}

	total := float64(len(posts))
	sa.HypeFraction = helpers.Round(float64(hypeCount)/total, 4)
	sa.FearFraction = helpers.Round(float64(fearCount)/total, 4)
	switch {
	case hypeCount > fearCount && float64(hypeCount) > total*0.3:
		sa.Sentiment = SentimentHyper
	case fearCount > hypeCount && float64(fearCount) > total*0.3:
		sa.Sentiment = SentimentFearful
	default:
		sa.Sentiment = SentimentMixed
	}
	sa.Manipulation = float64(hypeCount) > total*0.4

	sort.SliceStable(seenOrder, func(i, j int) bool {
		return counts[seenOrder[i]] > counts[seenOrder[j]]
	})
	for i, kw := range seenOrder {
		if i >= maxTopKeywords {
			break
		}
		sa.TopKeywords = append(sa.TopKeywords, KeywordCount{Keyword: kw, Count: counts[kw]})
	}
	return sa
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
