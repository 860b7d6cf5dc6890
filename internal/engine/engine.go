// Package engine reconciles the local optimistic feed counter and the
// leaderboard view against the remote count store.
//
// Every remote read degrades to the local store instead of surfacing a
// blocking error: the worst case is a local-only, eventually-reconciled
// count. The only user-visible error is an advisory message rendered next
// to a still-usable local result.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/hamsterboard/hmb/internal/board"
	"github.com/hamsterboard/hmb/internal/identity"
	"github.com/hamsterboard/hmb/internal/telemetry"
)

// BoardSize is the number of rows shown on the leaderboard.
const BoardSize = 3

// totalQueryLimit is the row limit used when resolving a single player's
// total. Effectively unbounded for this game's population.
const totalQueryLimit = 1000

// DefaultReconcileDelay is how long a post-feed reconciliation waits before
// re-reading the remote total, giving the telemetry write time to become
// visible to reads.
const DefaultReconcileDelay = 800 * time.Millisecond

// Transport reads raw leaderboard rows from the remote count store.
type Transport interface {
	FetchBoard(ctx context.Context, limit int) ([]board.Row, error)
}

// CountStore is the client-local fallback store.
type CountStore interface {
	Increment(identity string) error
	TopN(n int) board.View
	CountFor(identity string) int
}

// Telemetry sends fire-and-forget game events.
type Telemetry interface {
	Send(ctx context.Context, ev telemetry.Event) error
}

// SyncState is a snapshot of the leaderboard view.
type SyncState struct {
	Items   board.View
	Loading bool

	// Err is advisory: when set, Items still holds a renderable local
	// result.
	Err string
}

// Engine drives fetch-or-fallback decisions for the leaderboard and the
// active player's displayed count.
type Engine struct {
	primary  Transport
	fallback Transport
	store    CountStore
	events   Telemetry

	reconcileDelay time.Duration
	logw           io.Writer
	onChange       func(SyncState)

	mu         sync.Mutex
	state      SyncState
	myCount    int
	activeID   string
	refreshing bool // single-flight latch for RefreshLeaderboard

	wg sync.WaitGroup // in-flight asynchronous reconciliations
}

// New creates an engine over the two transports, the local fallback store,
// and the telemetry client.
func New(primary, fallback Transport, store CountStore, events Telemetry) *Engine {
	return &Engine{
		primary:        primary,
		fallback:       fallback,
		store:          store,
		events:         events,
		reconcileDelay: DefaultReconcileDelay,
		logw:           os.Stderr,
	}
}

// SetReconcileDelay overrides the post-feed reconciliation delay.
func (e *Engine) SetReconcileDelay(d time.Duration) {
	e.reconcileDelay = d
}

// SetLogWriter redirects advisory warnings. Defaults to stderr.
func (e *Engine) SetLogWriter(w io.Writer) {
	e.logw = w
}

// SetOnChange installs a hook invoked with a snapshot after every
// leaderboard state change. Must be set before the engine is used.
func (e *Engine) SetOnChange(fn func(SyncState)) {
	e.onChange = fn
}

// State returns the current leaderboard snapshot.
func (e *Engine) State() SyncState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// MyCount returns the active player's displayed feed count.
func (e *Engine) MyCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.myCount
}

// ActiveIdentity returns the canonical handle of the active player.
func (e *Engine) ActiveIdentity() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeID
}

// Wait blocks until all asynchronous reconciliations started so far have
// finished. One-shot commands use it to print a settled count.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// RefreshLeaderboard regenerates the leaderboard view: primary transport,
// then fallback transport, then the local store. Single-flight guarded - a
// call made while another refresh is in progress is a no-op returning the
// current snapshot, with no network traffic of its own.
func (e *Engine) RefreshLeaderboard(ctx context.Context) SyncState {
	e.mu.Lock()
	if e.refreshing {
		st := e.state
		e.mu.Unlock()
		return st
	}
	e.refreshing = true
	e.state.Loading = true
	e.state.Err = ""
	st := e.state
	e.mu.Unlock()
	e.notify(st)

	items, fetchErr := e.fetchBoard(ctx, BoardSize)

	e.mu.Lock()
	if fetchErr == nil && len(items) > 0 {
		e.state.Items = items.Top(BoardSize)
		e.state.Err = ""
	} else {
		// Local fallback renders regardless; the error stays advisory. An
		// error-free remote read with zero rows leaves Err empty.
		e.state.Items = e.store.TopN(BoardSize)
		if fetchErr != nil {
			e.state.Err = fetchErr.Error()
		}
	}
	e.state.Loading = false
	e.refreshing = false
	st = e.state
	e.mu.Unlock()
	e.notify(st)
	return st
}

// fetchBoard tries the primary transport and retries the same query via the
// fallback transport on failure. A successful read with zero usable rows is
// (empty view, nil).
func (e *Engine) fetchBoard(ctx context.Context, limit int) (board.View, error) {
	rows, err := e.primary.FetchBoard(ctx, limit)
	if err != nil {
		e.logf("leaderboard: primary transport failed: %v", err)
		rows, err = e.fallback.FetchBoard(ctx, limit)
		if err != nil {
			e.logf("leaderboard: fallback transport failed: %v", err)
			return nil, err
		}
	}
	return board.Merge(rows), nil
}

// FetchTotalFor resolves a player's authoritative remote total. ok is false
// only when both transports failed - "use the local fallback", not "the
// count is zero". A successful read with no row for the player is (0, true).
func (e *Engine) FetchTotalFor(ctx context.Context, rawIdentity string) (total int, ok bool) {
	id := identity.Normalize(rawIdentity)
	if id == "" {
		return 0, true
	}

	view, err := e.fetchBoard(ctx, totalQueryLimit)
	if err != nil {
		return 0, false
	}
	return view.CountFor(id), true
}

// RecordFeedAction registers one feed by the given player.
//
// The local store increment and the optimistic counter bump happen before
// this returns - feeding must feel instant even with the server down. The
// telemetry write and the authoritative reconciliation run asynchronously;
// the reconciliation waits reconcileDelay first so the write has a chance
// to become visible to reads.
func (e *Engine) RecordFeedAction(rawIdentity, displayName string) {
	id := identity.Normalize(rawIdentity)
	if id == "" || !identity.IsValid(id) {
		return
	}

	// Local increment completes before the optimistic bump: the displayed
	// count must never show a feed the store could lose.
	if err := e.store.Increment(id); err != nil {
		e.logf("feed: local increment failed: %v", err)
	}

	e.mu.Lock()
	e.myCount++
	e.state.Items = e.store.TopN(BoardSize) // interim view until the next refresh
	st := e.state
	e.mu.Unlock()
	e.notify(st)

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ev := telemetry.Event{Event: telemetry.EventFeed, HamsterName: displayName, PlayerIG: id}
		if err := e.events.Send(context.Background(), ev); err != nil {
			e.logf("feed: telemetry failed: %v", err)
		}
	}()

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		time.Sleep(e.reconcileDelay)
		e.reconcileAfterFeed(id)
	}()
}

// reconcileAfterFeed raises the displayed count to the remote total - never
// below the optimistic value - then refreshes the leaderboard. The result
// is discarded when the player is no longer active.
func (e *Engine) reconcileAfterFeed(id string) {
	ctx := context.Background()

	if total, ok := e.FetchTotalFor(ctx, id); ok {
		e.mu.Lock()
		if e.activeID == id && total > e.myCount {
			e.myCount = total
		}
		e.mu.Unlock()
	}

	e.RefreshLeaderboard(ctx)
}

// SetIdentity makes the handle the active player and asynchronously
// resolves its authoritative count. Unlike post-feed reconciliation this
// REPLACES the displayed count - it is an initial load, not a correction -
// falling back to the local store when both transports fail. A resolution
// that arrives after the active identity changed again is discarded.
func (e *Engine) SetIdentity(rawIdentity string) {
	id := identity.Normalize(rawIdentity)

	e.mu.Lock()
	e.activeID = id
	e.mu.Unlock()
	if id == "" {
		return
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		total, ok := e.FetchTotalFor(context.Background(), id)
		if !ok {
			total = e.store.CountFor(id)
		}

		e.mu.Lock()
		if e.activeID == id {
			e.myCount = total
		}
		e.mu.Unlock()
	}()
}

func (e *Engine) notify(st SyncState) {
	if e.onChange != nil {
		e.onChange(st)
	}
}

func (e *Engine) logf(format string, args ...any) {
	fmt.Fprintf(e.logw, format+"\n", args...)
}
