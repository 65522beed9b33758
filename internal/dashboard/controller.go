// Package dashboard owns the dashboard's mutable state and runs refresh
// cycles against the monitoring backend.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/logger"
	"github.com/tonhe/solmon/internal/metrics"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/internal/scheduler"
	"github.com/tonhe/solmon/internal/telemetry"
)

// Fetcher is the backend the controller polls. *source.Client implements it.
type Fetcher interface {
	Latest(ctx context.Context, limit int) (json.RawMessage, error)
	Summary(ctx context.Context) (json.RawMessage, error)
	TimeSeries(ctx context.Context, kind string, hours int) (json.RawMessage, error)
	PowerFlow(ctx context.Context) (json.RawMessage, error)
	Analysis(ctx context.Context) (json.RawMessage, error)
	Health(ctx context.Context) (bool, error)
}

// Endpoint names used in logs and metrics.
const (
	EndpointLatest     = "latest"
	EndpointSummary    = "summary"
	EndpointPowerFlow  = "power_flow"
	EndpointAnalysis   = "analysis"
	EndpointTimeSeries = "timeseries"
	EndpointHealth     = "health"
)

// Panel keys, in display order.
const (
	PanelEnvironment = "environment"
	PanelAC          = "ac"
	PanelDC          = "dc"
	PanelSystem      = "system"
	PanelRack        = "rack"
	PanelSummary     = "summary"
	PanelAnalysis    = "analysis"
)

var panelOrder = []string{
	PanelEnvironment, PanelAC, PanelDC, PanelSystem, PanelRack, PanelSummary, PanelAnalysis,
}

// Notification texts.
const (
	MsgLoadFailed      = "Failed to load dashboard data"
	MsgConnectionLost  = "Connection to the monitoring API lost"
	MsgConnectionFound = "Connection to the monitoring API restored"
)

// latencyHistory is how many cycle durations are kept for the sparkline.
const latencyHistory = 60

// HealthState is the result of the most recent health check.
type HealthState int

const (
	HealthUnknown HealthState = iota
	HealthUp
	HealthDown
)

func (h HealthState) String() string {
	switch h {
	case HealthUp:
		return "up"
	case HealthDown:
		return "down"
	default:
		return "unknown"
	}
}

// EventKind says what changed.
type EventKind int

const (
	EventRefreshed EventKind = iota
	EventState
	EventNotification
	EventHealth
)

// Event is sent to subscribers after a change has been applied.
type Event struct {
	Kind EventKind
	At   time.Time
}

// Options configures a Controller.
type Options struct {
	Interval             time.Duration
	HealthInterval       time.Duration
	HistoryHours         int
	LatestLimit          int
	MaxPoints            int
	NotificationDuration time.Duration
	Policy               render.Policy
	Layout               *Layout

	Logger  *logger.Logger
	Metrics *metrics.Metrics
	Clock   scheduler.Clock
	Now     func() time.Time
}

// View is a read-only copy of everything the UI draws.
type View struct {
	Panels        []render.PanelViewState
	Flow          render.FlowViewState
	LastUpdated   time.Time
	State         scheduler.State
	Interval      time.Duration
	Health        HealthState
	Notifications []Notification
	Latency       []float64
	Cycles        int
	Stats         scheduler.Stats
}

// Controller owns the snapshot, panels, charts, schedulers and
// notifications for one dashboard.
type Controller struct {
	mu sync.RWMutex

	client  Fetcher
	opts    Options
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	charts  *chart.Manager
	layout  *Layout
	refresh *scheduler.Scheduler
	health  *scheduler.Scheduler
	notes   *Notifier
	latency *chart.RingBuffer[float64]

	snapshot    *telemetry.DashboardSnapshot
	panels      map[string]render.PanelViewState
	flow        render.FlowViewState
	lastUpdated time.Time
	healthState HealthState
	generation  uint64
	cycles      int
	lastErr     error
	loaded      bool

	ctx         context.Context
	cancel      context.CancelFunc
	subscribers []chan Event
	closed      bool
}

// New creates a Controller. Nothing is fetched until Start or RunOnce.
func New(client Fetcher, opts Options) (*Controller, error) {
	if opts.Layout == nil {
		opts.Layout = DefaultLayout()
	}
	if err := opts.Layout.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = 720
	}
	if opts.HistoryHours <= 0 {
		opts.HistoryHours = 6
	}
	if opts.LatestLimit <= 0 {
		opts.LatestLimit = 20
	}

	c := &Controller{
		client:  client,
		opts:    opts,
		log:     opts.Logger,
		metrics: opts.Metrics,
		now:     opts.Now,
		charts:  chart.NewManager(opts.MaxPoints),
		layout:  opts.Layout,
		notes:   NewNotifier(opts.NotificationDuration, opts.Now),
		latency: chart.NewRingBuffer[float64](latencyHistory),
		panels:  make(map[string]render.PanelViewState),
		flow:    render.PowerFlow(nil, opts.Policy),
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.panels[PanelEnvironment] = render.Environmental(nil)
	c.panels[PanelAC] = render.PowerMeter(telemetry.MeterAC, nil)
	c.panels[PanelDC] = render.PowerMeter(telemetry.MeterDC, nil)
	c.panels[PanelSystem] = render.System(nil)
	c.panels[PanelRack] = render.Rack(nil)
	c.panels[PanelSummary] = render.Summary(nil)
	c.panels[PanelAnalysis] = render.Analysis(nil)

	if err := c.layout.Apply(c.charts); err != nil {
		return nil, err
	}

	var schedOpts []scheduler.Option
	if opts.Clock != nil {
		schedOpts = append(schedOpts, scheduler.WithClock(opts.Clock))
	}
	c.refresh = scheduler.New(c.cycle, append(schedOpts,
		scheduler.WithErrorHandler(func(err error) {
			c.log.Errorw("refresh_failed", "error", err)
		}),
		scheduler.WithCoalescedHandler(func() {
			c.log.Debugw("tick_coalesced")
			c.metrics.TickCoalesced()
		}),
	)...)
	c.health = scheduler.New(c.checkHealth, append(schedOpts,
		scheduler.WithErrorHandler(func(err error) {
			c.log.Warnw("health_check_failed", "error", err)
		}),
	)...)
	return c, nil
}

// Start arms both schedulers and kicks off the first refresh and health
// check in the background.
func (c *Controller) Start() error {
	if err := c.refresh.Start(c.opts.Interval); err != nil {
		return fmt.Errorf("refresh interval: %w", err)
	}
	if err := c.health.Start(c.opts.HealthInterval); err != nil {
		c.refresh.Stop()
		return fmt.Errorf("health interval: %w", err)
	}
	c.log.Infow("dashboard_started", "interval", c.opts.Interval.String(), "health_interval", c.opts.HealthInterval.String())
	go c.refresh.ForceRun(withManual(c.ctx))
	go c.health.ForceRun(c.ctx)
	return nil
}

// RunOnce runs a manual refresh cycle and waits for it. It returns the
// snapshot error, if any.
func (c *Controller) RunOnce(ctx context.Context) error {
	c.refresh.ForceRun(withManual(ctx))
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// CheckHealth runs a health check and waits for it.
func (c *Controller) CheckHealth(ctx context.Context) HealthState {
	c.health.ForceRun(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.healthState
}

// Refresh starts a manual refresh without waiting. A cycle already in
// flight is superseded and its results discarded.
func (c *Controller) Refresh() {
	if c.isClosed() {
		return
	}
	c.log.Infow("manual_refresh")
	go c.refresh.ForceRun(withManual(c.ctx))
}

// Pause stops auto-refresh.
func (c *Controller) Pause() {
	if c.isClosed() {
		return
	}
	c.refresh.Pause()
	c.log.Infow("auto_refresh_paused")
	c.publish(EventState)
}

// Resume restarts auto-refresh with the last configured interval.
func (c *Controller) Resume() {
	if c.isClosed() {
		return
	}
	c.refresh.Resume()
	c.log.Infow("auto_refresh_resumed", "interval", c.refresh.Interval().String())
	c.publish(EventState)
}

// TogglePause pauses when auto-refresh is on and resumes when it is off.
func (c *Controller) TogglePause() {
	if c.Paused() {
		c.Resume()
		return
	}
	c.Pause()
}

// Paused reports whether auto-refresh is paused, counting a pause issued
// while a cycle is still running.
func (c *Controller) Paused() bool {
	return c.refresh.Settled() == scheduler.Paused
}

// SetInterval changes the auto-refresh interval. While paused only the
// stored interval changes.
func (c *Controller) SetInterval(d time.Duration) error {
	if c.isClosed() {
		return nil
	}
	if err := c.refresh.Reconfigure(d); err != nil {
		return err
	}
	c.log.Infow("refresh_interval_changed", "interval", d.String())
	c.publish(EventState)
	return nil
}

// Close stops both schedulers, abandons in-flight requests and closes every
// subscriber channel.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	subs := c.subscribers
	c.subscribers = nil
	c.mu.Unlock()

	c.refresh.Stop()
	c.health.Stop()
	c.cancel()
	for _, ch := range subs {
		close(ch)
	}
	c.log.Infow("dashboard_closed")
}

// Subscribe returns a channel that receives an event after every applied
// change. Slow readers miss events rather than block the controller.
func (c *Controller) Subscribe() <-chan Event {
	ch := make(chan Event, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		close(ch)
		return ch
	}
	c.subscribers = append(c.subscribers, ch)
	return ch
}

// Charts returns the chart manager. Callers may pan and zoom but should
// leave data changes to the controller.
func (c *Controller) Charts() *chart.Manager {
	return c.charts
}

// Snapshot returns the last successfully applied snapshot, or nil.
func (c *Controller) Snapshot() *telemetry.DashboardSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}

// Notify pushes a notification and tells subscribers.
func (c *Controller) Notify(kind NotificationKind, msg string) Notification {
	n := c.notes.Push(kind, msg)
	c.publish(EventNotification)
	return n
}

// DismissNewest removes the most recent notification still on screen.
func (c *Controller) DismissNewest() bool {
	active := c.notes.Active()
	if len(active) == 0 {
		return false
	}
	if !c.notes.Dismiss(active[len(active)-1].ID) {
		return false
	}
	c.publish(EventNotification)
	return true
}

// DismissNotifications clears every notification on screen.
func (c *Controller) DismissNotifications() {
	if c.notes.Clear() > 0 {
		c.publish(EventNotification)
	}
}

// View returns a copy of the current view-state.
func (c *Controller) View() View {
	c.mu.RLock()
	v := View{
		Panels:      make([]render.PanelViewState, 0, len(panelOrder)),
		Flow:        c.flow,
		LastUpdated: c.lastUpdated,
		Health:      c.healthState,
		Cycles:      c.cycles,
	}
	for _, key := range panelOrder {
		v.Panels = append(v.Panels, c.panels[key])
	}
	c.mu.RUnlock()

	v.State = c.refresh.State()
	v.Interval = c.refresh.Interval()
	v.Notifications = c.notes.Active()
	v.Latency = c.latency.All()
	v.Stats = c.SchedulerStats()
	return v
}

// Panel returns one panel by key.
func (c *Controller) Panel(key string) (render.PanelViewState, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.panels[key]
	return p, ok
}

// SchedulerStats exposes the refresh scheduler's counters.
func (c *Controller) SchedulerStats() scheduler.Stats {
	return c.refresh.Stats()
}

func (c *Controller) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// publish sends ev to every subscriber without blocking.
func (c *Controller) publish(kind EventKind) {
	ev := Event{Kind: kind, At: c.now()}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, ch := range c.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

type manualKey struct{}

func withManual(ctx context.Context) context.Context {
	return context.WithValue(ctx, manualKey{}, true)
}

func isManual(ctx context.Context) bool {
	v, _ := ctx.Value(manualKey{}).(bool)
	return v
}

// errSnapshot marks a cycle whose snapshot fetch failed.
var errSnapshot = errors.New("snapshot fetch failed")
