package trust

import (
	"fmt"
	"strings"
	"time"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
	"github.com/trendai/watchdog/watchdog/keyword"
)

// Scoring variants
const (
	VariantBaseline = "baseline"
	// adds username and duplicate-content penalties
	VariantRiskAnalysis = "risk-analysis"
)

const (
	NeutralScore = 50
	ReasonNoData = "No data"
)

// Behavioral aggregates over an account's own posts
type Stats struct {
	PostCount int `json:"post_count"`
	// fraction of the account's posts labeled Suspicious
	BotRatio float64 `json:"bot_ratio"`
	// sample standard deviation of post sentiment
	Volatility    float64 `json:"volatility"`
	DuplicateRate float64 `json:"duplicate_rate"`
	PostsPerDay   float64 `json:"posts_per_day"`
}

// One additive adjustment which fired
type Factor struct {
	Name  string `json:"name"`
	Delta int    `json:"delta"`
}

type Result struct {
	AccountID   string   `json:"account_id"`
	Score       int      `json:"trust_score"`
	Label       string   `json:"trust_label"`
	Credibility string   `json:"credibility"`
	Reason      string   `json:"reason"`
	Factors     []Factor `json:"factors"`
	FollowRatio float64  `json:"follow_ratio"`
	Stats       Stats    `json:"stats"`
}

type Scorer struct {
	Variant   string
	Usernames *keyword.UsernameMatcher
}

func NewScorer(variant string, usernames *keyword.UsernameMatcher) (*Scorer, error) {
	switch variant {
	case "", VariantBaseline:
		variant = VariantBaseline
	case VariantRiskAnalysis:
		if usernames == nil {
			usernames = keyword.DefaultUsernameMatcher()
		}
	default:
		return nil, fmt.Errorf("unknown trust scoring variant: %s", variant)
	}
	return &Scorer{Variant: variant, Usernames: usernames}, nil
}

// Computes trust for one account. Adjustments are additive from a neutral 50, with at most one branch per factor category, and the total is clamped to [0, 100] once at the end.
//
// Accounts without any scored posts resolve to the neutral score with reason "No data".
func (s *Scorer) Score(acct *models.Account, stats Stats, now time.Time) Result {
	res := Result{
		AccountID:   acct.ID,
		FollowRatio: helpers.Round(helpers.FollowRatio(acct.Followers, acct.Following), 3),
		Stats:       stats,
		Factors:     []Factor{},
	}
	if stats.PostCount <= 0 {
		res.Score = NeutralScore
		res.Label = Label(NeutralScore)
		res.Credibility = Credibility(NeutralScore)
		res.Reason = ReasonNoData
		return res
	}

	add := func(name string, delta int) {
		res.Factors = append(res.Factors, Factor{Name: name, Delta: delta})
	}

	if age, ok := helpers.AccountAgeDays(acct.CreatedAt, now); ok {
		switch {
		case age > 1000:
			add("established account", 20)
		case age > 365:
			add("account older than a year", 10)
		case age < 30:
			add("brand new account", -10)
		}
	}

	switch {
	case stats.BotRatio > 0.8:
		add("mostly bot-like posts", -50)
	case stats.BotRatio > 0.5:
		add("majority bot-like posts", -30)
	case stats.BotRatio < 0.1:
		add("consistently organic posts", 10)
	}

	switch {
	case stats.PostsPerDay > 50:
		add("implausible posting cadence", -20)
	case stats.PostsPerDay < 5:
		add("normal posting cadence", 5)
	}

	if s.Variant == VariantRiskAnalysis {
		if s.Usernames.Suspicious(acct.Username) {
			add("bot-style username", -20)
		}
		if stats.DuplicateRate > 0.5 {
			add("mostly duplicated content", -25)
		}
	}

	score := NeutralScore
	var reasons []string
	for _, f := range res.Factors {
		score += f.Delta
		reasons = append(reasons, fmt.Sprintf("%s (%+d)", f.Name, f.Delta))
	}
	res.Score = max(0, min(100, score))
	res.Label = Label(res.Score)
	res.Credibility = Credibility(res.Score)
	if len(reasons) == 0 {
		res.Reason = "signals normal"
	} else {
		res.Reason = strings.Join(reasons, "; ")
	}
	return res
}

func Label(score int) string {
	switch {
	case score > 75:
		return models.TrustReliable
	case score < 30:
		return models.TrustBot
	default:
		return models.TrustNeutral
	}
}

// Derived credibility tier, used when an account doesn't carry an externally supplied one
func Credibility(score int) string {
	switch {
	case score > 75:
		return models.CredibilityHigh
	case score >= 50:
		return models.CredibilityMedium
	case score >= 30:
		return models.CredibilityLow
	default:
		return models.CredibilityBot
	}
}

// Copies a result on to the account record. An externally supplied credibility tier is kept.
func Apply(acct *models.Account, res Result, now time.Time) {
	score := float64(res.Score)
	acct.TrustScore = &score
	acct.TrustLabel = res.Label
	if acct.Credibility == "" {
		acct.Credibility = res.Credibility
	}
	acct.UpdatedAt = now
}
