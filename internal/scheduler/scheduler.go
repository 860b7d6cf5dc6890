// Package scheduler drives periodic leaderboard refreshes.
//
// The interval is measured from completion of the previous refresh, not
// from a wall-clock tick: a slow refresh delays the next one. Pausing
// cancels the pending timer without touching leaderboard state; resuming
// refreshes immediately and re-enters the loop.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/hamsterboard/hmb/internal/engine"
)

// DefaultInterval between refreshes.
const DefaultInterval = 20 * time.Second

// Refresher is the operation the scheduler drives.
type Refresher interface {
	RefreshLeaderboard(ctx context.Context) engine.SyncState
}

// Scheduler runs one refresh loop per mounted session.
type Scheduler struct {
	refresher Refresher
	interval  time.Duration

	mu      sync.Mutex
	running bool
	paused  bool
	gen     int // bumped on pause/resume/stop; stale timer chains check it and die
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler over the refresher with the default interval.
func New(r Refresher) *Scheduler {
	return NewWithInterval(r, DefaultInterval)
}

// NewWithInterval creates a scheduler with a custom interval.
func NewWithInterval(r Refresher, interval time.Duration) *Scheduler {
	return &Scheduler{refresher: r, interval: interval}
}

// Start begins the loop with an immediate refresh. Starting a running
// scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.paused = false
	s.gen++
	s.ctx, s.cancel = context.WithCancel(ctx)
	gen := s.gen
	s.mu.Unlock()

	go s.runOnce(gen)
}

// runOnce performs one refresh and re-arms the timer from its completion,
// unless the generation moved on underneath it.
func (s *Scheduler) runOnce(gen int) {
	s.mu.Lock()
	if !s.running || s.paused || gen != s.gen || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	ctx := s.ctx
	s.mu.Unlock()

	s.refresher.RefreshLeaderboard(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running && !s.paused && gen == s.gen && s.ctx.Err() == nil {
		s.timer = time.AfterFunc(s.interval, func() { s.runOnce(gen) })
	}
}

// Pause cancels the pending timer (the page-hidden transition). Leaderboard
// state and any refresh already executing are left alone.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || s.paused {
		return
	}
	s.paused = true
	s.gen++
	s.stopTimerLocked()
}

// Resume triggers an immediate refresh and re-enters the periodic loop (the
// page-visible transition).
func (s *Scheduler) Resume() {
	s.mu.Lock()
	if !s.running || !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	go s.runOnce(gen)
}

// Stop tears the session down, cancelling any pending timer. The scheduler
// may be started again afterwards.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.paused = false
	s.gen++
	s.stopTimerLocked()
	if s.cancel != nil {
		s.cancel()
	}
}

// Running reports whether the scheduler has been started and not stopped.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
