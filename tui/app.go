package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/scheduler"
	"github.com/tonhe/solmon/tui/components"
	"github.com/tonhe/solmon/tui/keys"
	"github.com/tonhe/solmon/tui/styles"
	"github.com/tonhe/solmon/tui/views"
)

// AppState represents the current screen/view of the application.
type AppState int

const (
	StateDashboard AppState = iota
	StateCharts
	StateDetail
	StateSettings
)

// frameInterval paces chart reveal animations.
const frameInterval = 50 * time.Millisecond

// intervalSteps are the presets walked by the faster/slower keys.
var intervalSteps = []time.Duration{
	time.Second,
	2 * time.Second,
	5 * time.Second,
	10 * time.Second,
	15 * time.Second,
	30 * time.Second,
	time.Minute,
	2 * time.Minute,
	5 * time.Minute,
	10 * time.Minute,
}

// TickMsg triggers a periodic redraw so expired notifications disappear
// and the "updated" clock stays current.
type TickMsg struct{}

// FrameMsg advances chart animations by one frame.
type FrameMsg struct{}

// EventMsg carries a controller event into the update loop.
type EventMsg struct {
	Event dashboard.Event
}

// AppModel is the root Bubble Tea model that manages all views and state.
type AppModel struct {
	state      AppState
	theme      styles.Theme
	config     *config.Config
	configPath string
	version    string

	ctrl   *dashboard.Controller
	events <-chan dashboard.Event

	view      dashboard.View
	focus     int
	animating bool
	back      AppState

	dashboard views.DashboardView
	charts    views.ChartsView
	detail    views.DetailView
	help      views.HelpView
	settings  views.SettingsView
	prompt    *views.IntervalPrompt

	width  int
	height int
}

// NewAppModel creates a new AppModel driving ctrl. Settings are saved to
// configPath.
func NewAppModel(cfg *config.Config, configPath string, ctrl *dashboard.Controller, version string) AppModel {
	theme := styles.DefaultTheme
	if t := styles.GetThemeByName(cfg.Theme); t != nil {
		theme = *t
	}
	m := AppModel{
		state:      StateDashboard,
		theme:      theme,
		config:     cfg,
		configPath: configPath,
		version:    version,
		ctrl:       ctrl,
		events:     ctrl.Subscribe(),
		dashboard:  views.NewDashboardView(theme),
		charts:     views.NewChartsView(theme),
		detail:     views.NewDetailView(theme),
		help:       views.NewHelpView(theme),
	}
	m.sync()
	return m
}

// Init returns the initial commands: the redraw tick, the event listener
// and the first animation frame.
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForEvent(m.events), frameCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg{}
	})
}

// waitForEvent blocks on the controller's event channel. A closed channel
// ends the listener.
func waitForEvent(ch <-chan dashboard.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return EventMsg{Event: ev}
	}
}

// sync copies the controller's view-state into the views.
func (m *AppModel) sync() {
	m.view = m.ctrl.View()
	mgr := m.ctrl.Charts()
	ids := mgr.IDs()
	list := make([]chart.Chart, 0, len(ids))
	for _, id := range ids {
		if c, ok := mgr.Chart(id); ok {
			list = append(list, c)
		}
	}
	if m.focus >= len(list) {
		m.focus = 0
	}
	m.dashboard.SetData(m.view, list)
	m.dashboard.SetFocus(m.focus)
	m.charts.SetData(list, m.focus)
	if len(list) > 0 {
		focused := list[m.focus]
		m.detail.SetChart(&focused)
	} else {
		m.detail.SetChart(nil)
	}
}

// anyAnimating reports whether a chart reveal is in progress.
func (m AppModel) anyAnimating() bool {
	mgr := m.ctrl.Charts()
	for _, id := range mgr.IDs() {
		if c, ok := mgr.Chart(id); ok && c.Animating() {
			return true
		}
	}
	return false
}

func (m *AppModel) applyTheme(theme styles.Theme) {
	m.theme = theme
	styles.SetTheme(theme)
	m.dashboard.SetTheme(theme)
	m.charts.SetTheme(theme)
	m.detail.SetTheme(theme)
	m.help.SetTheme(theme)
}

func (m *AppModel) resize() {
	bodyHeight := m.bodyHeight()
	m.dashboard.SetSize(m.width, bodyHeight)
	m.charts.SetSize(m.width, bodyHeight)
	m.detail.SetSize(m.width, bodyHeight)
	m.help.SetSize(m.width, bodyHeight)
	m.settings.SetSize(m.width, bodyHeight)
	if m.prompt != nil {
		m.prompt.SetSize(m.width, bodyHeight)
	}
}

// bodyHeight is the total height minus the header and the status bar.
func (m AppModel) bodyHeight() int {
	h := m.height - 1 - 2
	if h < 1 {
		h = 1
	}
	return h
}

// Update handles messages and dispatches to the active view.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case TickMsg:
		m.sync()
		return m, tickCmd()

	case EventMsg:
		m.sync()
		cmds := []tea.Cmd{waitForEvent(m.events)}
		if !m.animating && m.anyAnimating() {
			m.animating = true
			cmds = append(cmds, frameCmd())
		}
		return m, tea.Batch(cmds...)

	case FrameMsg:
		running := m.ctrl.Charts().Step()
		m.sync()
		if running {
			m.animating = true
			return m, frameCmd()
		}
		m.animating = false
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}
		if m.prompt != nil {
			return m.updatePrompt(msg)
		}
		if m.state == StateSettings {
			return m.updateSettings(msg)
		}
		if m.help.IsVisible() {
			switch {
			case key.Matches(msg, keys.DefaultKeyMap.Help), key.Matches(msg, keys.DefaultKeyMap.Escape):
				m.help.Toggle()
			case key.Matches(msg, keys.DefaultKeyMap.Quit):
				return m.quit()
			}
			return m, nil
		}
		return m.handleKey(msg)
	}

	if m.prompt != nil {
		p, cmd, _ := m.prompt.Update(msg)
		m.prompt = &p
		return m, cmd
	}
	return m, nil
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Close()
	return m, tea.Quit
}

// handleKey maps dashboard and chart keys to controller intents.
func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	km := keys.DefaultKeyMap
	if m.state == StateDetail {
		if _, _, back := m.detail.Update(msg); back {
			m.state = m.back
			return m, nil
		}
	}
	switch {
	case key.Matches(msg, km.Quit):
		return m.quit()

	case key.Matches(msg, km.Help):
		m.help.Toggle()

	case key.Matches(msg, km.Refresh):
		m.ctrl.Refresh()

	case key.Matches(msg, km.Pause):
		m.ctrl.TogglePause()

	case key.Matches(msg, km.Faster):
		m.setInterval(stepInterval(m.view.Interval, -1))

	case key.Matches(msg, km.Slower):
		m.setInterval(stepInterval(m.view.Interval, 1))

	case key.Matches(msg, km.Interval):
		p := views.NewIntervalPrompt(m.theme, m.view.Interval)
		p.SetSize(m.width, m.bodyHeight())
		m.prompt = &p

	case key.Matches(msg, km.Charts):
		if m.state == StateCharts {
			m.state = StateDashboard
		} else {
			m.state = StateCharts
		}

	case key.Matches(msg, km.Enter):
		if m.state != StateDetail {
			m.back = m.state
			m.state = StateDetail
		}

	case key.Matches(msg, km.Escape):
		m.state = StateDashboard

	case key.Matches(msg, km.Settings):
		m.settings = views.NewSettingsView(m.theme, m.config, m.configPath)
		m.settings.SetSize(m.width, m.bodyHeight())
		m.state = StateSettings

	case key.Matches(msg, km.Dismiss):
		m.ctrl.DismissNewest()

	case key.Matches(msg, km.ClearAll):
		m.ctrl.DismissNotifications()

	case key.Matches(msg, km.Tab):
		if n := len(m.ctrl.Charts().IDs()); n > 0 {
			m.focus = (m.focus + 1) % n
		}

	case key.Matches(msg, km.Left):
		m.panFocused(1)

	case key.Matches(msg, km.Right):
		m.panFocused(-1)

	case key.Matches(msg, km.ZoomIn):
		m.withFocused(func(mgr *chart.Manager, id string) error { return mgr.Zoom(id, 1) })

	case key.Matches(msg, km.ZoomOut):
		m.withFocused(func(mgr *chart.Manager, id string) error { return mgr.Zoom(id, -1) })

	case key.Matches(msg, km.ResetView):
		m.withFocused(func(mgr *chart.Manager, id string) error { return mgr.ResetView(id) })
	}
	m.sync()
	return m, nil
}

func (m *AppModel) setInterval(d time.Duration) {
	if err := m.ctrl.SetInterval(d); err != nil {
		m.ctrl.Notify(dashboard.NotifyError, err.Error())
		return
	}
	m.config.RefreshInterval = d
	m.ctrl.Notify(dashboard.NotifyInfo, "Refresh interval set to "+d.String())
}

// stepInterval moves to the next preset in direction dir.
func stepInterval(current time.Duration, dir int) time.Duration {
	if dir < 0 {
		for i := len(intervalSteps) - 1; i >= 0; i-- {
			if intervalSteps[i] < current {
				return intervalSteps[i]
			}
		}
		return intervalSteps[0]
	}
	for _, d := range intervalSteps {
		if d > current {
			return d
		}
	}
	return intervalSteps[len(intervalSteps)-1]
}

func (m *AppModel) withFocused(fn func(*chart.Manager, string) error) {
	mgr := m.ctrl.Charts()
	ids := mgr.IDs()
	if m.focus >= len(ids) {
		return
	}
	_ = fn(mgr, ids[m.focus])
}

// panFocused pans the focused chart by a quarter of its visible window.
func (m *AppModel) panFocused(dir int) {
	m.withFocused(func(mgr *chart.Manager, id string) error {
		c, ok := mgr.Chart(id)
		if !ok {
			return chart.ErrUnknownChart
		}
		step := len(c.Visible()) / 4
		if step < 1 {
			step = 1
		}
		return mgr.Pan(id, dir*step)
	})
}

func (m AppModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p, cmd, action := m.prompt.Update(msg)
	switch action {
	case views.PromptCancel:
		m.prompt = nil
	case views.PromptSubmit:
		m.prompt = nil
		m.setInterval(p.Value())
		m.sync()
	default:
		m.prompt = &p
	}
	return m, cmd
}

func (m AppModel) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s, cmd, action := m.settings.Update(msg)
	m.settings = s
	switch action {
	case views.SettingsClose:
		m.state = StateDashboard
	case views.SettingsSaved:
		m.state = StateDashboard
		m.applyTheme(s.Theme())
		if m.config.RefreshInterval != m.view.Interval {
			if err := m.ctrl.SetInterval(m.config.RefreshInterval); err != nil {
				m.ctrl.Notify(dashboard.NotifyError, err.Error())
			}
		}
		m.ctrl.Notify(dashboard.NotifySuccess, "Settings saved")
		if s.RestartNeeded {
			m.ctrl.Notify(dashboard.NotifyInfo, "Restart solmon to apply connection settings")
		}
		m.sync()
	}
	return m, cmd
}

// View renders the full application UI by composing header, body, and status.
func (m AppModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := m.view.State
	if m.ctrl.Paused() {
		state = scheduler.Paused
	}
	header := components.RenderHeader(m.theme, m.config.BaseURL, state, m.view.Health, m.width, m.version)

	bodyHeight := m.bodyHeight()
	var notes string
	if m.config.NotificationStyle == config.NotificationBanner {
		notes = components.RenderBanner(m.theme, m.view.Notifications, m.width)
	} else {
		notes = components.RenderToasts(styles.NewStyles(m.theme), m.view.Notifications, m.width)
	}
	if notes != "" {
		bodyHeight -= lipgloss.Height(notes)
		if bodyHeight < 1 {
			bodyHeight = 1
		}
	}

	var body string
	switch {
	case m.prompt != nil:
		p := *m.prompt
		p.SetSize(m.width, bodyHeight)
		body = p.View()
	case m.help.IsVisible():
		h := m.help
		h.SetSize(m.width, bodyHeight)
		body = h.View()
	case m.state == StateSettings:
		body = m.settings.View()
	case m.state == StateDetail:
		d := m.detail
		d.SetSize(m.width, bodyHeight)
		body = d.View()
	case m.state == StateCharts:
		c := m.charts
		c.SetSize(m.width, bodyHeight)
		body = c.View()
	default:
		d := m.dashboard
		d.SetSize(m.width, bodyHeight)
		body = d.View()
	}
	if notes != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, notes, body)
	}

	statusBar := components.RenderStatusBar(m.theme, m.view.Interval, m.view.LastUpdated, components.CycleCounts{
		Applied:   m.view.Cycles,
		Failed:    m.view.Stats.Failures,
		Coalesced: m.view.Stats.Coalesced,
	}, m.view.Latency, m.width)

	bodyStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.bodyHeight()).
		MaxHeight(m.bodyHeight()).
		Background(m.theme.Base00).
		Foreground(m.theme.Base05)

	return lipgloss.JoinVertical(lipgloss.Left, header, bodyStyle.Render(body), statusBar)
}
