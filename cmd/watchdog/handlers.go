package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/trendai/watchdog/models"
	"github.com/trendai/watchdog/watchdog/engine"
	"github.com/trendai/watchdog/watchdog/narrative"
	"github.com/trendai/watchdog/watchdog/riskstore"
	"github.com/trendai/watchdog/watchdog/trust"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPostsLimit    = 50
	maxPostsLimit        = 1000
	defaultRankingsLimit = 20
)

type IngestRequest struct {
	Posts    []models.RawPost  `json:"posts"`
	Accounts []*models.Account `json:"accounts,omitempty"`
}

type IngestResponse struct {
	Ingested int                     `json:"ingested"`
	Errors   []models.RecordError    `json:"errors"`
	Risks    []models.TokenRiskScore `json:"risks"`
}

type NarrativesResponse struct {
	TokenID     string                    `json:"token_id"`
	Narratives  []*models.Narrative       `json:"narratives"`
	Assessments []narrative.NarrativeRisk `json:"assessments"`
}

// Risk record with the review flags raised on the token
type RiskResponse struct {
	*models.TokenRiskScore
	Flags []string `json:"flags"`
}

type TrustResponse struct {
	*trust.Result
	Flags []string `json:"flags"`
}

type BulkAnalyzeRequest struct {
	Tokens []string `json:"tokens"`
}

type RankingsResponse struct {
	MinScore float64                  `json:"min_score"`
	Tokens   []*models.TokenRiskScore `json:"tokens"`
}

func intParam(c echo.Context, name string, def int) (int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s: %s", name, s))
	}
	return v, nil
}

// Accepts a batch of posts (and optionally their accounts), scores it, and re-evaluates every token the batch touched.
func (srv *Server) HandleIngest(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleIngest")
	defer span.End()

	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid ingest body: %s", err))
	}
	if len(req.Posts) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no posts in request")
	}
	span.SetAttributes(attribute.Int("posts", len(req.Posts)))

	for _, acct := range req.Accounts {
		if acct == nil || acct.ID == "" {
			continue
		}
		if err := srv.eng.Store.SaveAccount(ctx, acct); err != nil {
			return fmt.Errorf("saving account %s: %w", acct.ID, err)
		}
	}

	res, err := srv.eng.Ingest(ctx, req.Posts)
	if err != nil {
		return err
	}
	out := IngestResponse{
		Ingested: len(res.Posts),
		Errors:   res.Errors,
		Risks:    []models.TokenRiskScore{},
	}
	if out.Errors == nil {
		out.Errors = []models.RecordError{}
	}
	for _, tok := range res.Tokens {
		ta, err := srv.eng.AnalyzeToken(ctx, tok, false)
		if err != nil {
			return err
		}
		out.Risks = append(out.Risks, ta.Risk)
	}
	return c.JSON(http.StatusOK, out)
}

func (srv *Server) HandleGetRisk(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleGetRisk")
	defer span.End()

	tok := c.Param("token")
	span.SetAttributes(attribute.String("token", tok))
	score, err := srv.eng.CachedRisk(ctx, tok)
	if errors.Is(err, riskstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no risk score for token: %s", tok))
	}
	if err != nil {
		return err
	}
	flags, err := srv.eng.TokenFlags(ctx, tok)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RiskResponse{TokenRiskScore: score, Flags: flags})
}

func (srv *Server) HandleGetPosts(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleGetPosts")
	defer span.End()

	limit, err := intParam(c, "limit", defaultPostsLimit)
	if err != nil {
		return err
	}
	limit = min(max(limit, 1), maxPostsLimit)

	posts, err := srv.eng.Store.PostsForToken(ctx, c.Param("token"), limit)
	if err != nil {
		return err
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(http.StatusOK, posts)
}

// Re-scores a token from its stored posts and returns the narrative report alongside the one-line answer.
func (srv *Server) HandleAnalyze(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleAnalyze")
	defer span.End()

	tok := c.Param("token")
	span.SetAttributes(attribute.String("token", tok))
	// unknown tokens must not leave an empty score behind
	exists, err := srv.eng.Store.PostsForToken(ctx, tok, 1)
	if err != nil {
		return err
	}
	if len(exists) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no posts for token: %s", tok))
	}
	ta, err := srv.eng.AnalyzeToken(ctx, tok, true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ta)
}

func (srv *Server) HandleBulkAnalyze(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleBulkAnalyze")
	defer span.End()

	var req BulkAnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid bulk analyze body: %s", err))
	}
	if len(req.Tokens) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "no tokens in request")
	}
	if len(req.Tokens) > engine.MaxBulkTokens {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("at most %d tokens per request", engine.MaxBulkTokens))
	}
	span.SetAttributes(attribute.Int("tokens", len(req.Tokens)))

	out, err := srv.eng.BulkAnalyze(ctx, req.Tokens)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Rediscovers the token's narratives from its stored posts, then assesses each one.
func (srv *Server) HandleNarratives(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleNarratives")
	defer span.End()

	tok := c.Param("token")
	span.SetAttributes(attribute.String("token", tok))
	posts, err := srv.eng.Store.PostsForToken(ctx, tok, 0)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no posts for token: %s", tok))
	}
	ns, err := srv.eng.DiscoverNarratives(ctx, tok, posts)
	if err != nil {
		return err
	}
	assessed, err := srv.eng.AssessNarratives(ctx, tok)
	if err != nil {
		return err
	}
	out := NarrativesResponse{
		TokenID:     tok,
		Narratives:  ns,
		Assessments: assessed,
	}
	if out.Narratives == nil {
		out.Narratives = []*models.Narrative{}
	}
	if out.Assessments == nil {
		out.Assessments = []narrative.NarrativeRisk{}
	}
	return c.JSON(http.StatusOK, out)
}

func (srv *Server) HandleAccountTrust(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleAccountTrust")
	defer span.End()

	id := c.Param("id")
	res, err := srv.eng.AccountTrust(ctx, id)
	if errors.Is(err, riskstore.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("account not found: %s", id))
	}
	if err != nil {
		return err
	}
	flags, err := srv.eng.AccountFlags(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TrustResponse{Result: res, Flags: flags})
}

func (srv *Server) HandleHighRisk(c echo.Context) error {
	ctx, span := tracer.Start(c.Request().Context(), "HandleHighRisk")
	defer span.End()

	minScore := srv.eng.Config.HighRiskScore
	if s := c.QueryParam("min_score"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 || v > 100 {
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid min_score: %s", s))
		}
		minScore = v
	}
	limit, err := intParam(c, "limit", defaultRankingsLimit)
	if err != nil {
		return err
	}

	top, err := srv.eng.Store.TopRisks(ctx, minScore, limit)
	if err != nil {
		return err
	}
	if top == nil {
		top = []*models.TokenRiskScore{}
	}
	return c.JSON(http.StatusOK, RankingsResponse{MinScore: minScore, Tokens: top})
}
