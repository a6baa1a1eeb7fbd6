package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/narrative"
)

// Upper bound on tokens per bulk analysis request
const MaxBulkTokens = 10

type TokenAnalysis struct {
	TokenID  string                `json:"token_id"`
	Risk     models.TokenRiskScore `json:"risk"`
	Answer   narrative.Answer      `json:"answer"`
	Flags    []string              `json:"flags"`
	Activity *TokenActivity        `json:"activity,omitempty"`
	Report   *narrative.Report     `json:"report,omitempty"`
}

type BulkAnalysis struct {
	Results       []TokenAnalysis   `json:"results"`
	HighRiskCount int               `json:"high_risk_count"`
	Errors        map[string]string `json:"errors,omitempty"`
}

// Full analysis of one stored token: re-scores risk over all of its posts, then builds the narrative report over the most recent ones. A cached report is reused while neither the posts nor the verdict have changed.
func (eng *Engine) AnalyzeToken(ctx context.Context, tokenID string, withReport bool) (*TokenAnalysis, error) {
	if eng.Store == nil {
		return nil, fmt.Errorf("token analysis needs a risk store")
	}
	posts, err := eng.Store.PostsForToken(ctx, tokenID, 0)
	if err != nil {
		return nil, fmt.Errorf("loading posts: %w", err)
	}
	score, err := eng.TokenRisk(ctx, tokenID, posts)
	if err != nil {
		return nil, err
	}
	out := &TokenAnalysis{
		TokenID: tokenID,
		Risk:    score,
		Answer:  narrative.QuickAnswer(score, eng.now()),
	}
	if out.Flags, err = eng.TokenFlags(ctx, tokenID); err != nil {
		return nil, err
	}
	if out.Activity, err = eng.TokenActivity(ctx, tokenID); err != nil {
		return nil, err
	}
	if !withReport {
		return out, nil
	}
	if rep, ok := eng.CachedNarrative(ctx, tokenID); ok {
		out.Report = rep
		return out, nil
	}
	out.Report, err = eng.TokenNarrative(ctx, tokenID, score, posts, eng.Config.NarrativeLimit)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Analyzes up to MaxBulkTokens tokens, highest risk first. A failure on one token is reported without failing the rest.
func (eng *Engine) BulkAnalyze(ctx context.Context, tokenIDs []string) (*BulkAnalysis, error) {
	if len(tokenIDs) > MaxBulkTokens {
		return nil, fmt.Errorf("at most %d tokens per bulk analysis, got %d", MaxBulkTokens, len(tokenIDs))
	}
	out := &BulkAnalysis{Results: []TokenAnalysis{}}
	for _, id := range tokenIDs {
		ta, err := eng.AnalyzeToken(ctx, id, false)
		if err != nil {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[id] = err.Error()
			continue
		}
		out.Results = append(out.Results, *ta)
		if ta.Risk.Score > eng.Config.HighRiskScore {
			out.HighRiskCount++
		}
	}
	sort.SliceStable(out.Results, func(i, j int) bool {
		return out.Results[i].Risk.Score > out.Results[j].Risk.Score
	})
	return out, nil
}
