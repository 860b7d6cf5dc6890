// Package transport reads leaderboard rows from the remote count store.
//
// Two transports are provided. Client issues a plain JSON GET. ScriptClient
// speaks the callback-injection convention used where the plain transport is
// blocked by cross-origin or redirect policy. Neither transport retries;
// fallback chaining is the engine's responsibility.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hamsterboard/hmb/internal/board"
)

// DefaultTimeout bounds a single primary request.
const DefaultTimeout = 5 * time.Second

// maxResponseSize limits response body reads to prevent memory exhaustion.
const maxResponseSize = 1024 * 1024 // 1MB

// boardPayload is the JSON body of a leaderboard read.
type boardPayload struct {
	Data []board.Row `json:"data"`
}

// Client is the primary leaderboard transport.
type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// New creates a primary transport for the given endpoint URL.
func New(endpoint string) *Client {
	return NewWithTimeout(endpoint, DefaultTimeout)
}

// NewWithTimeout creates a primary transport with a custom per-request
// timeout.
func NewWithTimeout(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: &http.Client{},
	}
}

// FetchBoard reads up to limit leaderboard rows. The request is bound to a
// deadline derived from the client timeout; an in-flight request is
// cancelled when it fires. A body that does not decode as the expected JSON
// is ErrParse, never a panic.
func (c *Client) FetchBoard(ctx context.Context, limit int) ([]board.Row, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, boardURL(c.endpoint, limit, ""), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("fetching leaderboard: %w", ErrTimeout)
		}
		return nil, fmt.Errorf("fetching leaderboard: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("reading response: %w", ErrTimeout)
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > maxResponseSize {
		return nil, fmt.Errorf("response exceeds maximum size of %d bytes", maxResponseSize)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	var payload boardPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return payload.Data, nil
}

// boardURL builds the leaderboard query shared by both transports. A
// non-empty callback selects the script convention.
func boardURL(endpoint string, limit int, callback string) string {
	q := url.Values{}
	q.Set("leaderboard", "1")
	q.Set("limit", fmt.Sprintf("%d", limit))
	if callback != "" {
		q.Set("callback", callback)
	}

	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + q.Encode()
}
