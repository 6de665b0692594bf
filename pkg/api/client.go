// Package api submits inventory documents to a registry endpoint.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client submits inventories over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a submission client with the standard 30s timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SubmitInventory POSTs the JSON payload to url. A single blocking request
// with no retry: any 2xx status is success, anything else is an error the
// caller treats as fatal.
func (c *Client) SubmitInventory(ctx context.Context, url string, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			return fmt.Errorf("submission failed with status %d", resp.StatusCode)
		}
		return fmt.Errorf("submission failed with status %d: %s", resp.StatusCode, msg)
	}

	return nil
}
