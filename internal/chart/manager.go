// Package chart owns the dashboard's time-series charts: their series
// definitions, data, and per-chart view state.
package chart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tonhe/solmon/internal/telemetry"
)

// AnimationFrames is the number of frames a reveal animation lasts.
const AnimationFrames = 8

// MinWindow is the fewest points a fully zoomed-in chart shows.
const MinWindow = 8

// MaxZoom is the deepest zoom level; each level halves the window.
const MaxZoom = 6

// ErrUnknownChart is returned for a chart ID that was never defined.
var ErrUnknownChart = errors.New("unknown chart")

// Axis is a named value axis. Min and Max pin the scale when set; otherwise
// it is fitted to the data.
type Axis struct {
	Name string
	Unit string
	Min  *float64
	Max  *float64
}

// SeriesSpec binds a point field to an axis.
type SeriesSpec struct {
	Name  string
	Field string
	Axis  string
}

// View is the user-controlled part of a chart. Offset counts points back
// from the newest; Zoom halves the visible window per level.
type View struct {
	Offset int
	Zoom   int
}

// Chart is a read-only snapshot of one chart.
type Chart struct {
	ID       string
	Title    string
	Axes     []Axis
	Series   []SeriesSpec
	Points   []telemetry.Point
	View     View
	Revision int
	// Frame counts up to AnimationFrames during a reveal; it equals
	// AnimationFrames when no animation is running.
	Frame int
}

// Animating reports whether a reveal animation is in progress.
func (c Chart) Animating() bool {
	return c.Frame < AnimationFrames
}

// Visible returns the points inside the current pan/zoom window. During a
// reveal only the leading fraction of the window is returned.
func (c Chart) Visible() []telemetry.Point {
	n := len(c.Points)
	if n == 0 {
		return nil
	}
	window := n >> c.View.Zoom
	if window < MinWindow {
		window = MinWindow
	}
	if window > n {
		window = n
	}
	end := n - c.View.Offset
	if end > n {
		end = n
	}
	if end < window {
		end = window
	}
	pts := c.Points[end-window : end]
	if c.Animating() {
		pts = pts[:len(pts)*c.Frame/AnimationFrames]
	}
	return pts
}

// Values extracts one series from the visible window.
func (c Chart) Values(series int) []float64 {
	if series < 0 || series >= len(c.Series) {
		return nil
	}
	field := c.Series[series].Field
	pts := c.Visible()
	vals := make([]float64, 0, len(pts))
	for _, p := range pts {
		if v, ok := p.Value(field); ok {
			vals = append(vals, v)
		}
	}
	return vals
}

// AxisFor returns the axis a series is bound to.
func (c Chart) AxisFor(series int) (Axis, bool) {
	if series < 0 || series >= len(c.Series) {
		return Axis{}, false
	}
	for _, a := range c.Axes {
		if a.Name == c.Series[series].Axis {
			return a, true
		}
	}
	return Axis{}, false
}

type chartState struct {
	Chart
	buf *RingBuffer[telemetry.Point]
}

// Manager holds a fixed set of named charts. It is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	maxPoints int
	charts    map[string]*chartState
	order     []string
}

// NewManager creates a Manager whose charts keep at most maxPoints points.
func NewManager(maxPoints int) *Manager {
	return &Manager{
		maxPoints: maxPoints,
		charts:    make(map[string]*chartState),
	}
}

// DefineSeries creates or redefines a chart. Every series must reference
// one of the given axes. Redefining a chart clears its data but keeps its
// view state.
func (m *Manager) DefineSeries(id, title string, axes []Axis, specs []SeriesSpec) error {
	names := make(map[string]bool, len(axes))
	for _, a := range axes {
		names[a.Name] = true
	}
	for _, s := range specs {
		if !names[s.Axis] {
			return fmt.Errorf("chart %q: series %q references unknown axis %q", id, s.Name, s.Axis)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		cs = &chartState{}
		cs.ID = id
		cs.Frame = AnimationFrames
		m.charts[id] = cs
		m.order = append(m.order, id)
	}
	cs.Title = title
	cs.Axes = append([]Axis(nil), axes...)
	cs.Series = append([]SeriesSpec(nil), specs...)
	cs.Points = nil
	cs.buf = NewRingBuffer[telemetry.Point](m.maxPoints)
	return nil
}

// ReplaceData replaces a chart's data. Points missing any series field are
// dropped; the rest keep their order. When more than maxPoints remain, the
// newest are kept. The change is not visible until Redraw.
func (m *Manager) ReplaceData(id string, points []telemetry.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	cs.buf.Replace(points, func(p telemetry.Point) bool {
		return complete(p, cs.Series)
	})
	return nil
}

func complete(p telemetry.Point, specs []SeriesSpec) bool {
	for _, s := range specs {
		if _, ok := p.Value(s.Field); !ok {
			return false
		}
	}
	return true
}

// Redraw publishes the chart's pending data. With animate set a reveal
// animation starts; otherwise the data appears at once. Axes and view state
// are left as they are.
func (m *Manager) Redraw(id string, animate bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	cs.Points = cs.buf.All()
	cs.Revision++
	if animate {
		cs.Frame = 0
	} else {
		cs.Frame = AnimationFrames
	}
	return nil
}

// Step advances every running animation by one frame and reports whether
// any chart is still animating.
func (m *Manager) Step() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	running := false
	for _, cs := range m.charts {
		if cs.Frame < AnimationFrames {
			cs.Frame++
			running = running || cs.Frame < AnimationFrames
		}
	}
	return running
}

// Pan moves the window by delta points; positive moves back in time.
func (m *Manager) Pan(id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	off := cs.View.Offset + delta
	if limit := len(cs.Points) - MinWindow; off > limit {
		off = limit
	}
	if off < 0 {
		off = 0
	}
	cs.View.Offset = off
	return nil
}

// Zoom changes the zoom level by delta; positive zooms in.
func (m *Manager) Zoom(id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	z := cs.View.Zoom + delta
	if z < 0 {
		z = 0
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	cs.View.Zoom = z
	return nil
}

// ResetView clears pan and zoom.
func (m *Manager) ResetView(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cs, ok := m.charts[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownChart, id)
	}
	cs.View = View{}
	return nil
}

// Chart returns a snapshot of the chart. Points are shared with the
// manager and must not be modified.
func (m *Manager) Chart(id string) (Chart, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs, ok := m.charts[id]
	if !ok {
		return Chart{}, false
	}
	c := cs.Chart
	c.Axes = append([]Axis(nil), cs.Axes...)
	c.Series = append([]SeriesSpec(nil), cs.Series...)
	return c, true
}

// IDs returns chart IDs in definition order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.order...)
}
