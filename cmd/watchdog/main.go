package main

import (
	"log/slog"
	"os"

	"github.com/carlmjohnson/versioninfo"
	_ "github.com/joho/godotenv/autoload"
	cli "github.com/urfave/cli/v2"
	_ "go.uber.org/automaxprocs"

	"github.com/trendai/watchdog/watchdog/burst"
)

func main() {
	if err := run(os.Args); err != nil {
		slog.Error("exiting", "err", err)
		os.Exit(-1)
	}
}

func run(args []string) error {

	app := cli.App{
		Name:    "watchdog",
		Usage:   "manipulation risk scoring for token chatter",
		Version: versioninfo.Short(),
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "log verbosity level (eg: warn, info, debug)",
			Value:   "info",
			EnvVars: []string{"WATCHDOG_LOG_LEVEL", "LOG_LEVEL"},
		},
		&cli.StringFlag{
			Name:    "log-format",
			Usage:   "log output format: json or text",
			Value:   "json",
			EnvVars: []string{"WATCHDOG_LOG_FORMAT"},
		},
		&cli.StringFlag{
			Name:    "database-url",
			Usage:   "database connection string for posts, accounts and scores",
			Value:   "sqlite://data/watchdog/watchdog.sqlite",
			EnvVars: []string{"DATABASE_URL"},
		},
		&cli.IntFlag{
			Name:    "max-db-connections",
			EnvVars: []string{"WATCHDOG_MAX_DB_CONNECTIONS"},
			Value:   40,
		},
		&cli.BoolFlag{
			Name:    "db-tracing",
			Usage:   "emit a trace span for each database query",
			EnvVars: []string{"WATCHDOG_DB_TRACING"},
		},
		&cli.StringFlag{
			Name:    "redis-url",
			Usage:   "redis connection URL for counters, caches and flags; in-process stores are used when empty",
			EnvVars: []string{"WATCHDOG_REDIS_URL", "REDIS_URL"},
		},
		&cli.StringFlag{
			Name:    "sets-json-path",
			Usage:   "file path of JSON file containing reference sets (lexicons and bot username patterns)",
			EnvVars: []string{"WATCHDOG_SETS_JSON_PATH"},
		},
		&cli.StringFlag{
			Name:    "risk-policy",
			Usage:   "token risk policy: weighted, sentiment or coordination",
			Value:   "weighted",
			EnvVars: []string{"WATCHDOG_RISK_POLICY"},
		},
		&cli.StringFlag{
			Name:    "duplicate-counting",
			Usage:   "which clustered posts count as duplicates: significant (clusters of two or more posts, the default) or all (every clustered post, singletons included)",
			Value:   "significant",
			EnvVars: []string{"WATCHDOG_DUPLICATE_COUNTING"},
		},
		&cli.Float64Flag{
			Name:    "duplicate-threshold",
			Usage:   "text similarity strictly above which two posts are near-duplicates",
			Value:   0.85,
			EnvVars: []string{"WATCHDOG_DUPLICATE_THRESHOLD"},
		},
		&cli.DurationFlag{
			Name:    "burst-window",
			Usage:   "time window for temporal burst detection",
			Value:   burst.DefaultWindow,
			EnvVars: []string{"WATCHDOG_BURST_WINDOW"},
		},
		&cli.StringFlag{
			Name:    "trust-variant",
			Usage:   "account trust scoring variant: baseline or risk-analysis",
			Value:   "risk-analysis",
			EnvVars: []string{"WATCHDOG_TRUST_VARIANT"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "max concurrent post classifications during ingest",
			Value:   8,
			EnvVars: []string{"WATCHDOG_WORKERS"},
		},
		&cli.IntFlag{
			Name:    "narrative-limit",
			Usage:   "number of most recent posts included in narrative reports",
			Value:   100,
			EnvVars: []string{"WATCHDOG_NARRATIVE_LIMIT"},
		},
		&cli.StringFlag{
			Name:    "slack-webhook-url",
			Usage:   "full URL of slack webhook for risk alerts",
			EnvVars: []string{"SLACK_WEBHOOK_URL"},
		},
	}

	app.Commands = []*cli.Command{
		serveCmd,
		ingestCmd,
		analyzeCmd,
		genSampleCmd,
	}

	return app.Run(args)
}
