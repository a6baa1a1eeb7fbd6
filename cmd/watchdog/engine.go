package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/trendai/watchdog/util"
	"github.com/trendai/watchdog/util/cliutil"
	"github.com/trendai/watchdog/watchdog/cachestore"
	"github.com/trendai/watchdog/watchdog/countstore"
	"github.com/trendai/watchdog/watchdog/engine"
	"github.com/trendai/watchdog/watchdog/flagstore"
	"github.com/trendai/watchdog/watchdog/riskstore"
	"github.com/trendai/watchdog/watchdog/setstore"

	cli "github.com/urfave/cli/v2"
	"gorm.io/plugin/opentelemetry/tracing"
)

const (
	cacheTTL      = 2 * time.Hour
	cacheCapacity = 10_000
)

func configFromFlags(cctx *cli.Context) engine.EngineConfig {
	cfg := engine.DefaultConfig()
	cfg.RiskPolicy = cctx.String("risk-policy")
	cfg.DuplicateCounting = cctx.String("duplicate-counting")
	cfg.DuplicateThreshold = cctx.Float64("duplicate-threshold")
	cfg.BurstWindow = cctx.Duration("burst-window")
	cfg.TrustVariant = cctx.String("trust-variant")
	cfg.Workers = cctx.Int("workers")
	cfg.NarrativeLimit = cctx.Int("narrative-limit")
	return cfg
}

// Builds a fully wired engine from global flags: gorm store on DATABASE_URL, redis-backed or in-process counters, caches and flags, and optional slack alerts.
func engineFromFlags(ctx context.Context, cctx *cli.Context, logger *slog.Logger) (*engine.Engine, error) {
	sets := setstore.NewMemSetStore()
	if p := cctx.String("sets-json-path"); p != "" {
		if err := sets.LoadFromFileJSON(p); err != nil {
			return nil, fmt.Errorf("loading reference sets: %w", err)
		}
	}

	eng, err := engine.NewEngine(ctx, logger, configFromFlags(cctx), sets)
	if err != nil {
		return nil, err
	}

	db, err := cliutil.SetupDatabase(cctx.String("database-url"), cctx.Int("max-db-connections"))
	if err != nil {
		return nil, err
	}
	if cctx.Bool("db-tracing") {
		if err := db.Use(tracing.NewPlugin()); err != nil {
			return nil, err
		}
	}
	store, err := riskstore.NewGormStore(db)
	if err != nil {
		return nil, err
	}
	eng.Store = store

	if ru := cctx.String("redis-url"); ru != "" {
		cache, err := cachestore.NewRedisCacheStore(ru, cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("initializing redis cachestore: %v", err)
		}
		counters, err := countstore.NewRedisCountStore(ru)
		if err != nil {
			return nil, fmt.Errorf("initializing redis countstore: %v", err)
		}
		flags, err := flagstore.NewRedisFlagStore(ru)
		if err != nil {
			return nil, fmt.Errorf("initializing redis flagstore: %v", err)
		}
		eng.Cache = cache
		eng.Counters = counters
		eng.Flags = flags
	} else {
		eng.Cache = cachestore.NewMemCacheStore(cacheCapacity, cacheTTL)
		eng.Counters = countstore.NewMemCountStore()
		eng.Flags = flagstore.NewMemFlagStore()
	}

	if hook := cctx.String("slack-webhook-url"); hook != "" {
		eng.Notifier = engine.NewSlackNotifier(hook, util.RobustHTTPClient(logger))
	}
	return eng, nil
}
