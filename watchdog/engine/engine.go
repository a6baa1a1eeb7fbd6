package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/trendai/watchdog/watchdog/burst"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/classifier"
	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/flagstore"
	"github.com/trendai/watchdog/watchdog/keyword"
	"github.com/trendai/watchdog/watchdog/narrative"
	"github.com/trendai/watchdog/watchdog/risk"
	"github.com/trendai/watchdog/watchdog/riskstore"
	"github.com/trendai/watchdog/watchdog/setstore"
	"github.com/trendai/watchdog/watchdog/topics"
	"github.com/trendai/watchdog/watchdog/trust"
)

// Runs the scoring pipeline over posts and persists its outcomes.
//
// The analysis components are pure. Storage, counters, cache, flags and notifications are all optional: a nil field disables that side effect.
type Engine struct {
	Logger *slog.Logger
	Config EngineConfig

	Classifier   classifier.Classifier
	BotScorer    classifier.BotScorer
	Sentiment    classifier.SentimentAnalyzer
	Authenticity *classifier.AuthenticityScorer
	Usernames    *keyword.UsernameMatcher
	Bursts       *burst.Detector
	Risk         *risk.Aggregator
	Trust        *trust.Scorer
	Reporter     *narrative.Reporter
	Topics       topics.Discoverer

	Store    riskstore.RiskStore
	Counters countstore.CountStore
	Cache    cachestore.CacheStore
	Flags    flagstore.FlagStore
	Notifier Notifier

	// defaults to time.Now
	Clock func() time.Time

	tokenLocks *xsync.MapOf[string, *sync.Mutex]
}

// Builds an engine with every analysis component configured. Lexicons and username patterns come from the set store when it holds a set of the matching name, and from built-in defaults otherwise.
func NewEngine(ctx context.Context, logger *slog.Logger, cfg EngineConfig, sets setstore.SetStore) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}

	lexicons := make(map[string][]string)
	for name, fallback := range map[string][]string{
		keyword.SetSuspiciousPhrases:   keyword.DefaultSuspiciousPhrases,
		keyword.SetHypeKeywords:        keyword.DefaultHypeKeywords,
		keyword.SetFearKeywords:        keyword.DefaultFearKeywords,
		keyword.SetUrgencyWords:        keyword.DefaultUrgencyWords,
		keyword.SetUnverifiedRefs:      keyword.DefaultUnverifiedRefs,
		keyword.SetBotUsernamePatterns: keyword.DefaultBotUsernamePatterns,
	} {
		l, err := setstore.MembersOr(ctx, sets, name, fallback)
		if err != nil {
			return nil, fmt.Errorf("loading reference set %s: %w", name, err)
		}
		lexicons[name] = l
	}

	usernames, err := keyword.NewUsernameMatcher(lexicons[keyword.SetBotUsernamePatterns])
	if err != nil {
		return nil, err
	}
	policy, err := risk.PolicyByName(cfg.RiskPolicy)
	if err != nil {
		return nil, err
	}
	trustScorer, err := trust.NewScorer(cfg.TrustVariant, usernames)
	if err != nil {
		return nil, err
	}
	detector := burst.NewDetector(cfg.BurstWindow)
	reporter := narrative.NewReporter(lexicons[keyword.SetHypeKeywords], lexicons[keyword.SetFearKeywords], detector)
	reporter.Logger = logger

	return &Engine{
		Logger:       logger,
		Config:       cfg,
		Classifier:   classifier.NewHeuristicClassifier(lexicons[keyword.SetSuspiciousPhrases]),
		BotScorer:    classifier.NewHashBotScorer(),
		Sentiment:    classifier.NewLexiconSentiment(),
		Authenticity: classifier.NewAuthenticityScorer(lexicons[keyword.SetUrgencyWords], lexicons[keyword.SetUnverifiedRefs]),
		Usernames:    usernames,
		Bursts:       detector,
		Risk:         risk.NewAggregator(policy),
		Trust:        trustScorer,
		Reporter:     reporter,
		Topics:       topics.NewKMeans(),
		tokenLocks:   xsync.NewMapOf[string, *sync.Mutex](),
	}, nil
}

func (eng *Engine) now() time.Time {
	if eng.Clock != nil {
		return eng.Clock().UTC()
	}
	return time.Now().UTC()
}

// Serializes work on a single token. Different tokens never contend.
func (eng *Engine) lockToken(tokenID string) func() {
	if eng.tokenLocks == nil {
		panic("engine not initialized: use NewEngine")
	}
	mu, _ := eng.tokenLocks.LoadOrCompute(tokenID, func() *sync.Mutex {
		return &sync.Mutex{}
	})
	mu.Lock()
	return mu.Unlock
}

// purge cached reports derived from a token's posts
func (eng *Engine) PurgeTokenCaches(ctx context.Context, tokenID string) error {
	if eng.Cache == nil {
		return nil
	}
	return cachestore.PurgeToken(ctx, eng.Cache, tokenID)
}

func (eng *Engine) addFlags(ctx context.Context, key string, flags []string) {
	if eng.Flags == nil || len(flags) == 0 {
		return
	}
	if err := eng.Flags.Add(ctx, key, flags); err != nil {
		eng.Logger.Warn("failed to persist flags", "key", key, "flags", flags, "err", err)
		return
	}
	for _, f := range flags {
		flagsAdded.WithLabelValues(f).Inc()
	}
}
