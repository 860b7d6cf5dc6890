// Package telemetry sends fire-and-forget game events to the remote store.
//
// The response is opaque and never read. Callers treat errors as advisory:
// a lost event costs the remote board one feed at most, and the local store
// still has it.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Event names accepted by the remote store.
const (
	EventStart = "start"
	EventFeed  = "feed"
)

// DefaultTimeout bounds a telemetry write.
const DefaultTimeout = 5 * time.Second

// Event is the write payload.
type Event struct {
	Event       string `json:"event"`
	HamsterName string `json:"hamsterName,omitempty"`
	PlayerIG    string `json:"playerIG,omitempty"`
	UA          string `json:"ua"`
}

// Client posts events to the remote store.
type Client struct {
	endpoint   string
	ua         string
	httpClient *http.Client
}

// New creates a telemetry client. ua identifies this build in event
// payloads and is stamped onto every event sent.
func New(endpoint, ua string) *Client {
	return &Client{
		endpoint: endpoint,
		ua:       ua,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Send posts one event. The response body is drained and discarded.
func (c *Client) Send(ctx context.Context, ev Event) error {
	ev.UA = c.ua
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending event: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("event rejected: HTTP %d", resp.StatusCode)
	}
	return nil
}
