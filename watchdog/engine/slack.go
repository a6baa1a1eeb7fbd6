package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/trendai/watchdog/models"
)

type SlackNotifier struct {
	SlackWebhookURL string
	Client          *http.Client
	// optional; caps how fast alerts go out during a wide campaign
	Limiter *rate.Limiter
}

var _ Notifier = (*SlackNotifier)(nil)

func NewSlackNotifier(webhookURL string, client *http.Client) *SlackNotifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &SlackNotifier{
		SlackWebhookURL: webhookURL,
		Client:          client,
		Limiter:         rate.NewLimiter(rate.Limit(1), 5),
	}
}

func (n *SlackNotifier) SendTokenAlert(ctx context.Context, score, prev *models.TokenRiskScore) error {
	if n.Limiter != nil {
		if err := n.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return n.sendSlackMsg(ctx, slackBody(score, prev))
}

type SlackWebhookBody struct {
	Text string `json:"text"`
}

// Sends a simple slack message to a channel via "incoming webhook".
//
// The slack incoming webhook must be already configured in the slack workplace.
func (n *SlackNotifier) sendSlackMsg(ctx context.Context, msg string) error {
	body, err := json.Marshal(SlackWebhookBody{Text: msg})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.SlackWebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Add("Content-Type", "application/json")
	resp, err := n.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK || string(respBody) != "ok" {
		return fmt.Errorf("failed slack webhook POST request. status=%d", resp.StatusCode)
	}
	return nil
}

func slackBody(score, prev *models.TokenRiskScore) string {
	msg := "⚠️ Token Risk Escalation ⚠️\n"
	msg += fmt.Sprintf("`$%s` is now *%s* (%.1f/100, policy `%s`)\n", score.TokenID, score.Label, score.Score, score.Policy)
	if prev != nil {
		msg += fmt.Sprintf("Previously: %s (%.1f/100)\n", prev.Label, prev.Score)
	}
	msg += fmt.Sprintf("Reason: %s\n", score.Reason)
	return msg
}
