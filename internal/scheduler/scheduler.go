// Package scheduler runs a refresh cycle on a repeating timer with at most
// one cycle in flight.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the scheduler's lifecycle state.
type State int

const (
	Idle State = iota
	Scheduled
	Running
	Paused
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scheduled:
		return "scheduled"
	case Running:
		return "running"
	case Paused:
		return "paused"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Cycle is one refresh pass. It should return promptly once ctx is done.
type Cycle func(ctx context.Context) error

// Stats counts what the scheduler has done since it was created.
type Stats struct {
	Runs      int
	Failures  int
	Coalesced int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithErrorHandler is called with every error a cycle returns. Errors from
// a cycle that was superseded by a newer run are not reported.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Scheduler) { s.onError = fn }
}

// WithCoalescedHandler is called for every tick dropped because a cycle
// was already running.
func WithCoalescedHandler(fn func()) Option {
	return func(s *Scheduler) { s.onCoalesced = fn }
}

// Scheduler coordinates periodic runs of a Cycle.
type Scheduler struct {
	mu          sync.Mutex
	cycle       Cycle
	clock       Clock
	onError     func(error)
	onCoalesced func()

	state    State
	resting  State
	interval time.Duration
	ticker   Ticker
	stopLoop chan struct{}

	runID  uint64
	cancel context.CancelFunc
	stats  Stats
}

// New creates an idle scheduler for cycle.
func New(cycle Cycle, opts ...Option) *Scheduler {
	s := &Scheduler{
		cycle: cycle,
		clock: realClock{},
		state: Idle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ErrInvalidInterval is returned for a non-positive interval.
var ErrInvalidInterval = errors.New("interval must be positive")

// Start arms a repeating timer and enters Scheduled. Any existing timer is
// released first. If a cycle is running, it finishes into Scheduled.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	s.setResting(Scheduled)
	s.armLocked()
	return nil
}

// Tick runs one cycle if the scheduler is Scheduled and blocks until it
// completes. A tick while Running is dropped and counted. It reports
// whether a cycle ran.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.mu.Lock()
	switch s.state {
	case Running:
		s.stats.Coalesced++
		fn := s.onCoalesced
		s.mu.Unlock()
		if fn != nil {
			fn()
		}
		return false
	case Scheduled:
	default:
		s.mu.Unlock()
		return false
	}
	id, cctx := s.beginLocked(ctx, Scheduled)
	s.mu.Unlock()

	s.run(id, cctx)
	return true
}

// ForceRun starts a manual cycle from any state and blocks until it
// completes. A cycle already in flight is cancelled and its results are
// the caller's to discard. Afterwards the scheduler returns to the state
// it rested in before, so a manual refresh while Paused stays Paused.
func (s *Scheduler) ForceRun(ctx context.Context) {
	s.mu.Lock()
	resting := s.state
	if s.state == Running {
		resting = s.resting
		if s.cancel != nil {
			s.cancel()
		}
	}
	id, cctx := s.beginLocked(ctx, resting)
	s.mu.Unlock()

	s.run(id, cctx)
}

// beginLocked marks a new run as current and returns its id and context.
func (s *Scheduler) beginLocked(ctx context.Context, resting State) (uint64, context.Context) {
	s.runID++
	cctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.resting = resting
	s.state = Running
	s.stats.Runs++
	return s.runID, cctx
}

func (s *Scheduler) run(id uint64, ctx context.Context) {
	err := s.cycle(ctx)

	s.mu.Lock()
	current := s.runID == id
	if current {
		s.state = s.resting
		s.cancel()
		s.cancel = nil
	}
	if err != nil && current {
		s.stats.Failures++
	}
	fn := s.onError
	s.mu.Unlock()

	if err != nil && current && fn != nil {
		fn(err)
	}
}

// Pause releases the timer. Scheduled and Idle become Paused; a running
// cycle finishes into Paused.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	s.setResting(Paused)
}

// Resume re-arms the timer with the last configured interval. It is a
// no-op unless the scheduler is (or will settle) Paused.
func (s *Scheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settled() != Paused {
		return
	}
	if s.interval <= 0 {
		s.setResting(Idle)
		return
	}
	s.setResting(Scheduled)
	s.armLocked()
}

// Reconfigure changes the interval. When Scheduled the timer is released
// and re-armed; otherwise only the stored interval changes.
func (s *Scheduler) Reconfigure(interval time.Duration) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	if s.settled() == Scheduled {
		s.armLocked()
	}
	return nil
}

// Stop releases the timer, cancels any running cycle and returns to Idle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disarmLocked()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	// Invalidate the in-flight run so it does not restore a state.
	s.runID++
	s.state = Idle
	s.resting = Idle
}

// State returns the current state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Settled returns the state the scheduler rests in: the current state, or
// for a running cycle the state it will return to.
func (s *Scheduler) Settled() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled()
}

// Interval returns the configured interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Stats returns a copy of the counters.
func (s *Scheduler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// settled is the state the scheduler is in, or will return to once the
// running cycle completes.
func (s *Scheduler) settled() State {
	if s.state == Running {
		return s.resting
	}
	return s.state
}

func (s *Scheduler) setResting(st State) {
	if s.state == Running {
		s.resting = st
		return
	}
	s.state = st
}

// armLocked releases the current ticker and arms a new one.
func (s *Scheduler) armLocked() {
	s.disarmLocked()
	t := s.clock.NewTicker(s.interval)
	done := make(chan struct{})
	s.ticker = t
	s.stopLoop = done
	go s.loop(t, done)
}

func (s *Scheduler) disarmLocked() {
	if s.ticker == nil {
		return
	}
	s.ticker.Stop()
	close(s.stopLoop)
	s.ticker = nil
	s.stopLoop = nil
}

// loop forwards ticks. Each tick runs on its own goroutine so that a tick
// arriving mid-cycle is seen, and dropped, by Tick.
func (s *Scheduler) loop(t Ticker, done <-chan struct{}) {
	for {
		select {
		case <-t.C():
			go s.Tick(context.Background())
		case <-done:
			return
		}
	}
}
