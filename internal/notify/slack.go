// Package notify delivers alerts to a Slack-compatible webhook.
//
// DESIGN: Best-effort, at-most-once delivery. One HTTP POST per alert with
// a short client timeout; no retries. Failures are returned to the caller
// to log, never escalated, and never touch the detectors' state.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/opspulse/pool-watcher/internal/watcher"
)

// DefaultTimeout bounds one delivery attempt end to end.
const DefaultTimeout = 10 * time.Second

// SlackNotifier posts alert messages to a webhook URL.
type SlackNotifier struct {
	url    string
	client *http.Client
}

// NewSlackNotifier creates a notifier for the given webhook URL.
func NewSlackNotifier(url string) *SlackNotifier {
	return &SlackNotifier{
		url: url,
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Send posts one alert. A non-2xx response or transport error is returned
// as an error for the caller to log; the alert is not retried.
func (n *SlackNotifier) Send(ctx context.Context, alertType watcher.AlertType, message string) error {
	payload, err := buildPayload(alertType, message)
	if err != nil {
		return fmt.Errorf("build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, strings.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Alert-Type", string(alertType))
	req.Header.Set("X-Alert-ID", uuid.New().String())

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	// Slack-style APIs return {"ok":false,"error":"..."} on failure.
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if reason := gjson.GetBytes(body, "error").String(); reason != "" {
		return fmt.Errorf("webhook error: status %d: %s", resp.StatusCode, reason)
	}
	return fmt.Errorf("webhook error: status %d", resp.StatusCode)
}

// buildPayload renders the Slack message JSON.
func buildPayload(alertType watcher.AlertType, message string) (string, error) {
	payload, err := sjson.Set("", "text", fmt.Sprintf("🚨 Blue/Green Alert: %s", message))
	if err != nil {
		return "", err
	}
	if payload, err = sjson.Set(payload, "username", "Deployment Monitor"); err != nil {
		return "", err
	}
	if payload, err = sjson.Set(payload, "icon_emoji", ":warning:"); err != nil {
		return "", err
	}
	if payload, err = sjson.Set(payload, "alert_type", string(alertType)); err != nil {
		return "", err
	}
	return payload, nil
}

var _ watcher.Notifier = (*SlackNotifier)(nil)
