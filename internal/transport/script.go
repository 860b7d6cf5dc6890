package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hamsterboard/hmb/internal/board"
)

// DefaultScriptTimeout bounds a fallback request. It is independent from
// and longer than the primary timeout: the script convention is the last
// network resort before the local store.
const DefaultScriptTimeout = 8 * time.Second

// scriptResult is what a completed script load delivers to its waiter.
type scriptResult struct {
	rows []board.Row
	err  error
}

// registry maps single-use callback tokens to pending completions. It
// replaces the process-wide mutable callback slot the script convention
// implies: every slot is removed exactly once, on resolve, rejection, or
// timeout, whichever comes first.
type registry struct {
	mu    sync.Mutex
	slots map[string]chan scriptResult
}

func newRegistry() *registry {
	return &registry{slots: make(map[string]chan scriptResult)}
}

// add installs a pending slot for token and returns its completion channel.
func (r *registry) add(token string) chan scriptResult {
	ch := make(chan scriptResult, 1)
	r.mu.Lock()
	r.slots[token] = ch
	r.mu.Unlock()
	return ch
}

// remove discards the slot for token. Safe to call after resolve.
func (r *registry) remove(token string) {
	r.mu.Lock()
	delete(r.slots, token)
	r.mu.Unlock()
}

// resolve delivers a result to the pending slot and removes it. Deliveries
// for tokens already removed (e.g. after a timeout) are dropped.
func (r *registry) resolve(token string, res scriptResult) {
	r.mu.Lock()
	ch, ok := r.slots[token]
	if ok {
		delete(r.slots, token)
	}
	r.mu.Unlock()
	if ok {
		ch <- res // buffered; never blocks
	}
}

// pending returns the number of installed slots. Test hook.
func (r *registry) pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.slots)
}

// ScriptClient is the fallback leaderboard transport. It injects a
// generated single-use callback name into the query and expects the server
// to reply with a script body invoking that name with the usual JSON
// payload.
type ScriptClient struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	registry   *registry
}

// NewScript creates a fallback transport for the given endpoint URL.
func NewScript(endpoint string) *ScriptClient {
	return NewScriptWithTimeout(endpoint, DefaultScriptTimeout)
}

// NewScriptWithTimeout creates a fallback transport with a custom timeout.
func NewScriptWithTimeout(endpoint string, timeout time.Duration) *ScriptClient {
	return &ScriptClient{
		endpoint:   endpoint,
		timeout:    timeout,
		httpClient: &http.Client{},
		registry:   newRegistry(),
	}
}

// FetchBoard reads up to limit leaderboard rows via the script convention.
func (c *ScriptClient) FetchBoard(ctx context.Context, limit int) ([]board.Row, error) {
	token := callbackName()
	ch := c.registry.add(token)
	defer c.registry.remove(token)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	go c.load(ctx, boardURL(c.endpoint, limit, token), token)

	select {
	case res := <-ch:
		return res.rows, res.err
	case <-ctx.Done():
		return nil, fmt.Errorf("awaiting callback: %w", ErrTimeout)
	}
}

// load fetches the script body and resolves the token's slot with the
// outcome. The waiter may already be gone on timeout; resolve drops the
// result in that case.
func (c *ScriptClient) load(ctx context.Context, url, token string) {
	rows, err := c.fetchScript(ctx, url, token)
	c.registry.resolve(token, scriptResult{rows: rows, err: err})
}

func (c *ScriptClient) fetchScript(ctx context.Context, url, token string) ([]board.Row, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrLoad, err)
	}
	if int64(len(body)) > maxResponseSize {
		return nil, fmt.Errorf("%w: response exceeds maximum size of %d bytes", ErrLoad, maxResponseSize)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: HTTP %d", ErrLoad, resp.StatusCode)
	}

	return parseInvocation(string(body), token)
}

// parseInvocation extracts the JSON payload from a script body of the form
//
//	<token>({"data":[...]});
//
// A body that does not invoke the token is ErrLoad; a malformed inner
// payload is ErrParse.
func parseInvocation(body, token string) ([]board.Row, error) {
	s := strings.TrimSpace(body)
	if !strings.HasPrefix(s, token+"(") {
		return nil, fmt.Errorf("%w: response does not invoke callback", ErrLoad)
	}
	end := strings.LastIndex(s, ")")
	if end < len(token)+1 {
		return nil, fmt.Errorf("%w: unterminated callback invocation", ErrLoad)
	}

	var payload boardPayload
	if err := json.Unmarshal([]byte(s[len(token)+1:end]), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return payload.Data, nil
}

// callbackName generates a single-use callback identifier. Identifier-safe:
// no hyphens.
func callbackName() string {
	return "hmb_cb_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}
