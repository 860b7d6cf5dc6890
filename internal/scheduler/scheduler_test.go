package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hamsterboard/hmb/internal/engine"
)

// countingRefresher counts refreshes and signals each one.
type countingRefresher struct {
	calls   atomic.Int32
	refresh chan struct{}
}

func newCountingRefresher() *countingRefresher {
	return &countingRefresher{refresh: make(chan struct{}, 64)}
}

func (r *countingRefresher) RefreshLeaderboard(ctx context.Context) engine.SyncState {
	r.calls.Add(1)
	r.refresh <- struct{}{}
	return engine.SyncState{}
}

func (r *countingRefresher) waitForRefresh(t *testing.T) {
	t.Helper()
	select {
	case <-r.refresh:
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a refresh")
	}
}

func TestStart_RefreshesImmediately(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, time.Hour) // interval long enough to never fire
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)

	if got := r.calls.Load(); got != 1 {
		t.Errorf("Expected 1 refresh, got %d", got)
	}
}

func TestStart_Periodic(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, 10*time.Millisecond)
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)
	r.waitForRefresh(t)
	r.waitForRefresh(t)

	if got := r.calls.Load(); got < 3 {
		t.Errorf("Expected at least 3 refreshes, got %d", got)
	}
}

func TestStart_Idempotent(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, time.Hour)
	defer s.Stop()

	s.Start(context.Background())
	s.Start(context.Background())
	r.waitForRefresh(t)

	// Give a hypothetical second loop a moment to misfire.
	time.Sleep(50 * time.Millisecond)
	if got := r.calls.Load(); got != 1 {
		t.Errorf("Expected 1 refresh from a doubly-started scheduler, got %d", got)
	}
}

func TestPause_CancelsPendingTimer(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, 20*time.Millisecond)
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)
	s.Pause()

	// Let any refresh that won the race with Pause drain.
	time.Sleep(30 * time.Millisecond)
	before := r.calls.Load()
	time.Sleep(100 * time.Millisecond)
	if got := r.calls.Load(); got != before {
		t.Errorf("Refreshes continued while paused: %d -> %d", before, got)
	}
}

func TestResume_RefreshesImmediately(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, time.Hour)
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)
	s.Pause()

	s.Resume()
	r.waitForRefresh(t) // no interval wait on resume

	if got := r.calls.Load(); got != 2 {
		t.Errorf("Expected 2 refreshes after resume, got %d", got)
	}
}

func TestResume_WithoutPauseIsNoop(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, time.Hour)
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)

	s.Resume()
	time.Sleep(50 * time.Millisecond)
	if got := r.calls.Load(); got != 1 {
		t.Errorf("Resume on a running scheduler refreshed: got %d calls", got)
	}
}

func TestStop_CancelsEverything(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, 10*time.Millisecond)

	s.Start(context.Background())
	r.waitForRefresh(t)
	s.Stop()

	if s.Running() {
		t.Error("Expected Running()=false after Stop")
	}

	// Let any refresh that was already executing drain.
	time.Sleep(30 * time.Millisecond)
	before := r.calls.Load()
	time.Sleep(60 * time.Millisecond)
	if got := r.calls.Load(); got != before {
		t.Errorf("Refreshes continued after stop: %d -> %d", before, got)
	}
}

func TestStop_ThenStartAgain(t *testing.T) {
	r := newCountingRefresher()
	s := NewWithInterval(r, time.Hour)
	defer s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)
	s.Stop()

	s.Start(context.Background())
	r.waitForRefresh(t)

	if got := r.calls.Load(); got != 2 {
		t.Errorf("Expected 2 refreshes across restart, got %d", got)
	}
}
