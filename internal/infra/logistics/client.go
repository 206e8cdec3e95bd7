// Package logistics notifies the downstream fulfillment service when an
// order is paid. Delivery is best-effort; the outbox worker retries.
package logistics

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"
)

type NotifierInterface interface {
	NotifyPaid(ctx context.Context, payload []byte) error
}

type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string, timeout time.Duration) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) NotifyPaid(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("logistics service returned status %d", resp.StatusCode)
	}
	return nil
}
