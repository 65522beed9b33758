package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeTicker struct {
	ch      chan time.Time
	d       time.Duration
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func (c *fakeClock) NewTicker(d time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{ch: make(chan time.Time, 1), d: d}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) active() []*fakeTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTicker
	for _, t := range c.tickers {
		if !t.stopped.Load() {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) fire() {
	for _, t := range c.active() {
		t.ch <- time.Now()
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

// blockingCycle signals on started and waits for release or cancellation.
type blockingCycle struct {
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func newBlockingCycle() *blockingCycle {
	return &blockingCycle{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (b *blockingCycle) run(ctx context.Context) error {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func TestStartArmsTimer(t *testing.T) {
	clk := &fakeClock{}
	s := New(func(context.Context) error { return nil }, WithClock(clk))
	if s.State() != Idle {
		t.Fatalf("expected Idle, got %v", s.State())
	}
	if err := s.Start(5 * time.Second); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if s.State() != Scheduled {
		t.Errorf("expected Scheduled, got %v", s.State())
	}
	active := clk.active()
	if len(active) != 1 || active[0].d != 5*time.Second {
		t.Errorf("expected one 5s ticker, got %d", len(active))
	}
	s.Start(time.Second)
	if len(clk.active()) != 1 {
		t.Errorf("restart should release the old ticker, %d active", len(clk.active()))
	}
	s.Stop()
}

func TestStartRejectsBadInterval(t *testing.T) {
	s := New(func(context.Context) error { return nil }, WithClock(&fakeClock{}))
	if err := s.Start(0); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
	if err := s.Reconfigure(-time.Second); !errors.Is(err, ErrInvalidInterval) {
		t.Errorf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestTickRunsCycleAndReturnsToScheduled(t *testing.T) {
	var calls int
	s := New(func(context.Context) error { calls++; return nil }, WithClock(&fakeClock{}))
	s.Start(time.Second)
	if !s.Tick(context.Background()) {
		t.Fatal("expected tick to run a cycle")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if s.State() != Scheduled {
		t.Errorf("expected Scheduled after cycle, got %v", s.State())
	}
	s.Stop()
}

func TestTickWhileRunningIsNoop(t *testing.T) {
	cyc := newBlockingCycle()
	s := New(cyc.run, WithClock(&fakeClock{}))
	s.Start(time.Second)

	done := make(chan bool)
	go func() { done <- s.Tick(context.Background()) }()
	<-cyc.started
	if s.State() != Running {
		t.Fatalf("expected Running, got %v", s.State())
	}
	if s.Tick(context.Background()) {
		t.Error("tick while Running should be a no-op")
	}
	if got := cyc.calls.Load(); got != 1 {
		t.Errorf("expected 1 cycle invocation, got %d", got)
	}
	close(cyc.release)
	if !<-done {
		t.Error("first tick should report a run")
	}
	if st := s.Stats(); st.Runs != 1 || st.Coalesced != 1 {
		t.Errorf("expected 1 run and 1 coalesced tick, got %+v", st)
	}
	s.Stop()
}

func TestOverlappingTimerTicksCoalesce(t *testing.T) {
	clk := &fakeClock{}
	cyc := newBlockingCycle()
	var coalesced atomic.Int32
	s := New(cyc.run, WithClock(clk), WithCoalescedHandler(func() { coalesced.Add(1) }))
	s.Start(time.Millisecond)

	clk.fire()
	<-cyc.started
	clk.fire()
	waitFor(t, "second tick to be dropped", func() bool { return coalesced.Load() == 1 })

	close(cyc.release)
	waitFor(t, "cycle to finish", func() bool { return s.State() == Scheduled })
	if got := cyc.calls.Load(); got != 1 {
		t.Errorf("expected exactly one cycle, got %d", got)
	}
	s.Stop()
}

func TestFailureDoesNotStopScheduler(t *testing.T) {
	boom := errors.New("boom")
	var reported []error
	s := New(func(context.Context) error { return boom },
		WithClock(&fakeClock{}),
		WithErrorHandler(func(err error) { reported = append(reported, err) }))
	s.Start(time.Second)
	s.Tick(context.Background())
	s.Tick(context.Background())
	if len(reported) != 2 || !errors.Is(reported[0], boom) {
		t.Errorf("expected two reported failures, got %v", reported)
	}
	if s.State() != Scheduled {
		t.Errorf("expected Scheduled after failure, got %v", s.State())
	}
	if st := s.Stats(); st.Failures != 2 {
		t.Errorf("expected 2 failures, got %d", st.Failures)
	}
	s.Stop()
}

func TestPauseResume(t *testing.T) {
	clk := &fakeClock{}
	s := New(func(context.Context) error { return nil }, WithClock(clk))
	s.Start(3 * time.Second)
	s.Pause()
	if s.State() != Paused {
		t.Fatalf("expected Paused, got %v", s.State())
	}
	if len(clk.active()) != 0 {
		t.Error("pause should release the timer")
	}
	if s.Tick(context.Background()) {
		t.Error("tick while Paused should not run")
	}
	s.Resume()
	if s.State() != Scheduled {
		t.Errorf("expected Scheduled, got %v", s.State())
	}
	active := clk.active()
	if len(active) != 1 || active[0].d != 3*time.Second {
		t.Error("resume should arm a ticker with the last interval")
	}
	s.Stop()
}

func TestPauseFromIdle(t *testing.T) {
	clk := &fakeClock{}
	s := New(func(context.Context) error { return nil }, WithClock(clk))
	s.Pause()
	if s.State() != Paused {
		t.Errorf("expected Paused, got %v", s.State())
	}
	s.Resume()
	if s.State() != Idle {
		t.Errorf("resume without an interval should fall back to Idle, got %v", s.State())
	}
	if clk.armed() != 0 {
		t.Error("no timer should have been armed")
	}
}

func TestReconfigureWhilePausedArmsNoTimer(t *testing.T) {
	clk := &fakeClock{}
	s := New(func(context.Context) error { return nil }, WithClock(clk))
	s.Start(10 * time.Second)
	s.Pause()
	before := clk.armed()
	if err := s.Reconfigure(2 * time.Second); err != nil {
		t.Fatalf("Reconfigure() error: %v", err)
	}
	if clk.armed() != before || len(clk.active()) != 0 {
		t.Error("reconfigure while Paused must not start a timer")
	}
	if s.Interval() != 2*time.Second {
		t.Errorf("expected stored interval 2s, got %v", s.Interval())
	}
	s.Resume()
	active := clk.active()
	if len(active) != 1 || active[0].d != 2*time.Second {
		t.Error("resume should use the reconfigured interval")
	}
	s.Stop()
}

func TestReconfigureWhileScheduledRearms(t *testing.T) {
	clk := &fakeClock{}
	s := New(func(context.Context) error { return nil }, WithClock(clk))
	s.Start(10 * time.Second)
	s.Reconfigure(time.Second)
	active := clk.active()
	if len(active) != 1 || active[0].d != time.Second {
		t.Errorf("expected a single 1s ticker, got %d active", len(active))
	}
	if clk.armed() != 2 {
		t.Errorf("expected 2 tickers armed in total, got %d", clk.armed())
	}
	s.Stop()
}

func TestForceRunWhilePausedStaysPaused(t *testing.T) {
	var calls int
	s := New(func(context.Context) error { calls++; return nil }, WithClock(&fakeClock{}))
	s.Start(time.Second)
	s.Pause()
	s.ForceRun(context.Background())
	if calls != 1 {
		t.Errorf("expected manual run, got %d calls", calls)
	}
	if s.State() != Paused {
		t.Errorf("expected Paused after manual run, got %v", s.State())
	}
}

func TestForceRunSupersedesRunningCycle(t *testing.T) {
	cyc := newBlockingCycle()
	var reported atomic.Int32
	s := New(cyc.run, WithClock(&fakeClock{}), WithErrorHandler(func(error) { reported.Add(1) }))
	s.Start(time.Second)

	first := make(chan struct{})
	go func() { s.Tick(context.Background()); close(first) }()
	<-cyc.started

	second := make(chan struct{})
	go func() { s.ForceRun(context.Background()); close(second) }()
	<-cyc.started
	<-first // cancelled by the manual run

	if s.State() != Running {
		t.Errorf("superseded run must not restore state, got %v", s.State())
	}
	if reported.Load() != 0 {
		t.Error("cancellation of a superseded run should not be reported")
	}
	close(cyc.release)
	<-second
	if s.State() != Scheduled {
		t.Errorf("expected Scheduled after manual run, got %v", s.State())
	}
	s.Stop()
}

func TestPauseDuringRunSettlesPaused(t *testing.T) {
	clk := &fakeClock{}
	cyc := newBlockingCycle()
	s := New(cyc.run, WithClock(clk))
	s.Start(time.Second)

	done := make(chan struct{})
	go func() { s.Tick(context.Background()); close(done) }()
	<-cyc.started
	s.Pause()
	if len(clk.active()) != 0 {
		t.Error("pause should release the timer immediately")
	}
	close(cyc.release)
	<-done
	if s.State() != Paused {
		t.Errorf("expected Paused once the cycle finishes, got %v", s.State())
	}
}

func TestStopCancelsRunningCycle(t *testing.T) {
	cyc := newBlockingCycle()
	s := New(cyc.run, WithClock(&fakeClock{}))
	s.Start(time.Second)
	done := make(chan struct{})
	go func() { s.Tick(context.Background()); close(done) }()
	<-cyc.started
	s.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop should cancel the running cycle")
	}
	if s.State() != Idle {
		t.Errorf("expected Idle, got %v", s.State())
	}
}

func TestSettledDuringRun(t *testing.T) {
	cyc := newBlockingCycle()
	s := New(cyc.run, WithClock(&fakeClock{}))
	s.Start(time.Second)
	done := make(chan struct{})
	go func() { s.Tick(context.Background()); close(done) }()
	<-cyc.started
	if s.Settled() != Scheduled {
		t.Errorf("expected Scheduled resting state, got %v", s.Settled())
	}
	s.Pause()
	if s.State() != Running || s.Settled() != Paused {
		t.Errorf("expected Running settling to Paused, got %v/%v", s.State(), s.Settled())
	}
	close(cyc.release)
	<-done
}
