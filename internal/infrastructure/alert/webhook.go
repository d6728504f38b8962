package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"SubTracker/internal/domain"
	"SubTracker/internal/ports"
)

// Webhook hands alert requests to the external alert service, which
// owns persistence and delivery.
type Webhook struct {
	url    string
	client *http.Client
}

var _ ports.AlertSink = (*Webhook)(nil)

// NewWebhook registers the alert service endpoint.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// Send posts one alert request as JSON.
func (w *Webhook) Send(ctx context.Context, alert domain.AlertRequest) error {
	if w.url == "" || w.client == nil {
		return fmt.Errorf("alert webhook misconfigured")
	}

	body, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("alert service error: %s", resp.Status)
	}

	return nil
}
