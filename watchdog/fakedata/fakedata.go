// Synthetic accounts and posts for demos and load tests: organic chatter, pump campaigns run by bot farms, and coordinated fear campaigns.
package fakedata

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/helpers"
)

// How a token's conversation is generated
const (
	ProfileOrganic = "organic"
	ProfilePump    = "pump"
	ProfileFUD     = "fud"
	// organic chatter with a smaller pump campaign mixed in
	ProfileMixed = "mixed"
)

type TokenSpec struct {
	TokenID string
	Profile string
}

var DefaultTokens = []TokenSpec{
	{TokenID: "BTC", Profile: ProfileOrganic},
	{TokenID: "ETH", Profile: ProfileOrganic},
	{TokenID: "SAFEMOON", Profile: ProfilePump},
	{TokenID: "SCAMCOIN", Profile: ProfilePump},
	{TokenID: "SUSPICIOUS", Profile: ProfileMixed},
	{TokenID: "RUGGED", Profile: ProfileFUD},
}

type Config struct {
	Seed            int64
	Tokens          []TokenSpec
	OrganicAccounts int
	BotAccounts     int
	// organic posts per token; campaigns add their own on top
	PostsPerToken int
	// size of each coordinated campaign
	CampaignPosts int
	// generated timestamps fall in [End-Span, End]
	End  time.Time
	Span time.Duration
}

func DefaultConfig() Config {
	return Config{
		Seed:            42,
		Tokens:          DefaultTokens,
		OrganicAccounts: 40,
		BotAccounts:     15,
		PostsPerToken:   30,
		CampaignPosts:   25,
		End:             time.Now().UTC().Truncate(time.Minute),
		Span:            48 * time.Hour,
	}
}

type Sample struct {
	Accounts []*models.Account
	Posts    []models.RawPost
}

var pumpTemplates = []string{
	"$%s TO THE MOON!!! BUY NOW BEFORE ITS TOO LATE!!! 1000X GUARANTEED 🚀🚀🚀",
	"HUGE ANNOUNCEMENT COMING for $%s! GET IN NOW! DONT MISS OUT 🚀💎",
	"LAST CHANCE!!! $%s PRICE EXPLOSION INCOMING!!! BUY BUY BUY 🔥",
	"$%s partnership confirmed, pump starts now 🚀",
}

var fudTemplates = []string{
	"$%s is a rug pull scam, devs dumping, sell now before zero",
	"Warning: $%s team exit scam confirmed, crash incoming 📉",
	"$%s hacked, liquidity gone, panic sell everything 💀",
}

var organicTemplates = []string{
	"Interesting technical analysis on $%s. %s",
	"Reading through the $%s docs today. %s",
	"Not sure about $%s yet. %s",
	"$%s governance call notes: %s",
}

// Generates a reproducible sample: the same config (including seed and end time) always yields the same data.
func Generate(cfg Config) *Sample {
	f := gofakeit.New(cfg.Seed)
	out := &Sample{}

	organic := make([]*models.Account, 0, cfg.OrganicAccounts)
	for i := 0; i < cfg.OrganicAccounts; i++ {
		created := cfg.End.AddDate(-f.Number(1, 6), -f.Number(0, 11), 0)
		acct := &models.Account{
			ID:          fmt.Sprintf("user-%04d", i+1),
			Username:    strings.ToLower(f.Username()),
			CreatedAt:   &created,
			Followers:   f.Number(100, 5000),
			Following:   f.Number(50, 800),
			PostsPerDay: helpers.Round(f.Float64Range(0.5, 4), 2),
		}
		organic = append(organic, acct)
	}

	bots := make([]*models.Account, 0, cfg.BotAccounts)
	for i := 0; i < cfg.BotAccounts; i++ {
		created := cfg.End.AddDate(0, 0, -f.Number(1, 20))
		acct := &models.Account{
			ID:          fmt.Sprintf("botfarm-%04d", i+1),
			Username:    fmt.Sprintf("%s%04d", strings.ToLower(f.Adjective()), f.Number(1000, 9999)),
			CreatedAt:   &created,
			Followers:   f.Number(0, 20),
			Following:   f.Number(500, 3000),
			PostsPerDay: helpers.Round(f.Float64Range(60, 200), 2),
			Credibility: models.CredibilityBot,
		}
		bots = append(bots, acct)
	}
	out.Accounts = append(append(out.Accounts, organic...), bots...)

	start := cfg.End.Add(-cfg.Span)
	for _, tok := range cfg.Tokens {
		seq := 0
		nextID := func() string {
			seq++
			return fmt.Sprintf("%s-%05d", strings.ToLower(tok.TokenID), seq)
		}

		organicPosts := cfg.PostsPerToken
		if tok.Profile == ProfilePump || tok.Profile == ProfileFUD {
			organicPosts /= 3
		}
		if len(organic) > 0 {
			for i := 0; i < organicPosts; i++ {
				acct := organic[f.Number(0, len(organic)-1)]
				ts := start.Add(time.Duration(f.Number(0, int(cfg.Span/time.Second))) * time.Second)
				out.Posts = append(out.Posts, models.RawPost{
					ID:           nextID(),
					TokenID:      tok.TokenID,
					AccountID:    acct.ID,
					Text:         fmt.Sprintf(f.RandomString(organicTemplates), tok.TokenID, f.Sentence(10)),
					Timestamp:    ts,
					DeclaredType: models.PostTypeOrganic,
					Likes:        f.Number(0, 150),
				})
			}
		}

		var templates []string
		campaign := cfg.CampaignPosts
		declared := models.PostTypeCoordinated
		switch tok.Profile {
		case ProfilePump:
			templates = pumpTemplates
		case ProfileMixed:
			templates = pumpTemplates
			campaign /= 2
		case ProfileFUD:
			templates = fudTemplates
			declared = models.PostTypeFakeNews
		}
		if len(templates) == 0 || len(bots) == 0 {
			continue
		}
		// bot farms repeat one message in a tight burst
		text := fmt.Sprintf(f.RandomString(templates), tok.TokenID)
		ts := start.Add(time.Duration(f.Number(0, max(0, int(cfg.Span/time.Hour)-1))) * time.Hour)
		for i := 0; i < campaign; i++ {
			ts = ts.Add(time.Duration(f.Number(5, 60)) * time.Second)
			out.Posts = append(out.Posts, models.RawPost{
				ID:           nextID(),
				TokenID:      tok.TokenID,
				AccountID:    bots[i%len(bots)].ID,
				Text:         text,
				Timestamp:    ts,
				DeclaredType: declared,
				Likes:        f.Number(0, 3),
			})
		}
	}

	sort.SliceStable(out.Posts, func(i, j int) bool {
		return out.Posts[i].Timestamp.Before(out.Posts[j].Timestamp)
	})
	return out
}
