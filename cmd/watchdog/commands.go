package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/util"
	"github.com/trendai/watchdog/util/svcutil"
	"github.com/trendai/watchdog/watchdog/csvio"
	"github.com/trendai/watchdog/watchdog/engine"
	"github.com/trendai/watchdog/watchdog/fakedata"

	cli "github.com/urfave/cli/v2"
)

var ingestCmd = &cli.Command{
	Name:      "ingest",
	Usage:     "import posts (and optionally accounts) from CSV, then score every touched token",
	ArgsUsage: "<posts.csv>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "accounts",
			Usage: "CSV file of account profiles to import before the posts",
		},
		&cli.BoolFlag{
			Name:  "narratives",
			Usage: "also discover topical narratives for each touched token",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := svcutil.ConfigLogger(cctx, os.Stderr)
		if cctx.Args().Len() != 1 {
			return fmt.Errorf("expected a single posts CSV file path")
		}

		eng, err := engineFromFlags(ctx, cctx, logger)
		if err != nil {
			return err
		}

		if p := cctx.String("accounts"); p != "" {
			f, err := os.Open(p)
			if err != nil {
				return err
			}
			accounts, bad, err := csvio.ReadAccounts(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("reading accounts: %w", err)
			}
			for _, re := range bad {
				logger.Warn("skipping account row", "err", re)
			}
			for _, acct := range accounts {
				if err := eng.Store.SaveAccount(ctx, acct); err != nil {
					return fmt.Errorf("saving account %s: %w", acct.ID, err)
				}
			}
			logger.Info("imported accounts", "count", len(accounts), "skipped", len(bad))
		}

		f, err := os.Open(cctx.Args().First())
		if err != nil {
			return err
		}
		defer f.Close()
		raws, bad, err := csvio.ReadPosts(f)
		if err != nil {
			return fmt.Errorf("reading posts: %w", err)
		}
		for _, re := range bad {
			logger.Warn("skipping post row", "err", re)
		}

		res, err := eng.Ingest(ctx, raws)
		if err != nil {
			return err
		}
		for _, re := range res.Errors {
			logger.Warn("rejected post", "err", re)
		}

		scores := []models.TokenRiskScore{}
		for _, tok := range res.Tokens {
			ta, err := eng.AnalyzeToken(ctx, tok, false)
			if err != nil {
				return err
			}
			scores = append(scores, ta.Risk)
			if cctx.Bool("narratives") {
				posts, err := eng.Store.PostsForToken(ctx, tok, 0)
				if err != nil {
					return err
				}
				if _, err := eng.DiscoverNarratives(ctx, tok, posts); err != nil {
					return err
				}
			}
		}
		logger.Info("ingest complete", "posts", len(res.Posts), "rejected", len(res.Errors)+len(bad), "tokens", len(res.Tokens))
		return printJSON(scores)
	},
}

var analyzeCmd = &cli.Command{
	Name:      "analyze",
	Usage:     "re-score stored tokens and print their narrative reports as JSON",
	ArgsUsage: "<token>...",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "print only scores and one-line answers",
		},
	},
	Action: func(cctx *cli.Context) error {
		ctx := context.Background()
		logger := svcutil.ConfigLogger(cctx, os.Stderr)
		if !cctx.Args().Present() {
			return fmt.Errorf("need at least one token id")
		}

		eng, err := engineFromFlags(ctx, cctx, logger)
		if err != nil {
			return err
		}

		tokens := cctx.Args().Slice()
		if cctx.Bool("summary") {
			bulk, err := eng.BulkAnalyze(ctx, tokens)
			if err != nil {
				return err
			}
			return printJSON(bulk)
		}
		out := []*engine.TokenAnalysis{}
		for _, tok := range tokens {
			ta, err := eng.AnalyzeToken(ctx, tok, true)
			if err != nil {
				return fmt.Errorf("analyzing %s: %w", tok, err)
			}
			out = append(out, ta)
		}
		return printJSON(out)
	},
}

var genSampleCmd = &cli.Command{
	Name:  "gen-sample",
	Usage: "write synthetic posts.csv and accounts.csv for demos and load tests",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out-dir",
			Usage: "directory to write the CSV files into",
			Value: "data/sample",
		},
		&cli.Int64Flag{
			Name:  "seed",
			Usage: "random seed; the same seed and end time always yield the same data",
			Value: 42,
		},
		&cli.StringFlag{
			Name:  "tokens",
			Usage: "comma-separated TOKEN:profile pairs (profiles: organic, pump, fud, mixed)",
		},
		&cli.IntFlag{
			Name:  "posts-per-token",
			Value: 30,
		},
		&cli.StringFlag{
			Name:  "end",
			Usage: "timestamp of the newest generated post (default: now)",
		},
	},
	Action: func(cctx *cli.Context) error {
		logger := svcutil.ConfigLogger(cctx, os.Stderr)

		cfg := fakedata.DefaultConfig()
		cfg.Seed = cctx.Int64("seed")
		cfg.PostsPerToken = cctx.Int("posts-per-token")
		if s := cctx.String("tokens"); s != "" {
			specs, err := parseTokenSpecs(s)
			if err != nil {
				return err
			}
			cfg.Tokens = specs
		}
		if s := cctx.String("end"); s != "" {
			end, err := util.ParseTimestamp(s)
			if err != nil {
				return fmt.Errorf("invalid end time: %w", err)
			}
			cfg.End = end
		}

		sample := fakedata.Generate(cfg)

		dir := cctx.String("out-dir")
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "accounts.csv"), func(f *os.File) error {
			return csvio.WriteAccounts(f, sample.Accounts)
		}); err != nil {
			return err
		}
		if err := writeFile(filepath.Join(dir, "posts.csv"), func(f *os.File) error {
			return csvio.WritePosts(f, sample.Posts)
		}); err != nil {
			return err
		}
		logger.Info("wrote sample data", "dir", dir, "accounts", len(sample.Accounts), "posts", len(sample.Posts))
		return nil
	},
}

func parseTokenSpecs(s string) ([]fakedata.TokenSpec, error) {
	var out []fakedata.TokenSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		tok, profile, ok := strings.Cut(part, ":")
		if !ok {
			profile = fakedata.ProfileOrganic
		}
		switch profile {
		case fakedata.ProfileOrganic, fakedata.ProfilePump, fakedata.ProfileFUD, fakedata.ProfileMixed:
		default:
			return nil, fmt.Errorf("unknown sample profile for %s: %q", tok, profile)
		}
		out = append(out, fakedata.TokenSpec{TokenID: strings.ToUpper(tok), Profile: profile})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no token specs in %q", s)
	}
	return out, nil
}

func writeFile(p string, fn func(f *os.File) error) error {
	f, err := os.Create(p)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", p, err)
	}
	return f.Close()
}

func printJSON(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(b))
	return nil
}
