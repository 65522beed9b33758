package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/tui/components"
	"github.com/tonhe/solmon/tui/styles"
)

// Layout constants (minimum sizes).
const (
	panelMinWidth  = 34
	panelMaxCols   = 4
	chartMinHeight = 9
)

// DashboardView is the main screen: a grid of status panels and the power
// flow, with the charts underneath when there is room.
type DashboardView struct {
	theme  styles.Theme
	sty    *styles.Styles
	view   dashboard.View
	charts []chart.Chart
	focus  int
	width  int
	height int
}

// NewDashboardView creates a new DashboardView with the given theme.
func NewDashboardView(theme styles.Theme) DashboardView {
	return DashboardView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette.
func (v *DashboardView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetData updates the panels and charts to draw.
func (v *DashboardView) SetData(view dashboard.View, charts []chart.Chart) {
	v.view = view
	v.charts = charts
	if v.focus < 0 || v.focus >= len(charts) {
		v.focus = 0
	}
}

// SetSize updates the available dimensions for the view.
func (v *DashboardView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// SetFocus selects the chart that receives pan and zoom keys.
func (v *DashboardView) SetFocus(i int) {
	if i < 0 || i >= len(v.charts) {
		i = 0
	}
	v.focus = i
}

// View renders the dashboard view.
func (v DashboardView) View() string {
	grid := v.renderPanels()
	remaining := v.height - lipgloss.Height(grid)
	if remaining < chartMinHeight || len(v.charts) == 0 {
		return grid
	}
	return lipgloss.JoinVertical(lipgloss.Left, grid, v.renderCharts(remaining))
}

// columns returns how many panels fit side by side.
func (v DashboardView) columns() int {
	cols := v.width / panelMinWidth
	if cols < 1 {
		cols = 1
	}
	if cols > panelMaxCols {
		cols = panelMaxCols
	}
	return cols
}

// renderPanels lays out the device panels and the flow panel row by row.
func (v DashboardView) renderPanels() string {
	cols := v.columns()
	w := v.width / cols
	if w < panelMinWidth {
		w = panelMinWidth
	}

	cells := make([]string, 0, len(v.view.Panels)+1)
	cells = append(cells, components.RenderFlow(v.sty, v.view.Flow, w))
	for _, p := range v.view.Panels {
		cells = append(cells, components.RenderPanel(v.sty, p, w))
	}

	var rows []string
	for i := 0; i < len(cells); i += cols {
		end := i + cols
		if end > len(cells) {
			end = len(cells)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderCharts draws every chart side by side in the given height.
func (v DashboardView) renderCharts(height int) string {
	n := len(v.charts)
	w := v.width / n
	if w < 30 {
		// Too narrow for all of them: show the focused chart only.
		return components.RenderChart(v.sty, v.charts[v.focus], v.width, height, true)
	}
	parts := make([]string, 0, n)
	for i, c := range v.charts {
		parts = append(parts, components.RenderChart(v.sty, c, w, height, i == v.focus))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// ChartsView shows every chart full width, stacked.
type ChartsView struct {
	sty    *styles.Styles
	charts []chart.Chart
	focus  int
	width  int
	height int
}

// NewChartsView creates a ChartsView with the given theme.
func NewChartsView(theme styles.Theme) ChartsView {
	return ChartsView{sty: styles.NewStyles(theme)}
}

// SetTheme swaps the palette.
func (v *ChartsView) SetTheme(theme styles.Theme) {
	v.sty = styles.NewStyles(theme)
}

// SetData updates the charts to draw.
func (v *ChartsView) SetData(charts []chart.Chart, focus int) {
	v.charts = charts
	v.focus = focus
}

// SetSize updates the available dimensions for the view.
func (v *ChartsView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the charts view.
func (v ChartsView) View() string {
	n := len(v.charts)
	if n == 0 {
		return ""
	}
	focus := v.focus
	if focus < 0 || focus >= n {
		focus = 0
	}
	h := v.height / n
	if h < chartMinHeight {
		return components.RenderChart(v.sty, v.charts[focus], v.width, v.height, true)
	}
	parts := make([]string, 0, n)
	for i, c := range v.charts {
		parts = append(parts, components.RenderChart(v.sty, c, v.width, h, i == focus))
	}
	return strings.Join(parts, "\n")
}

// padRight pads s with spaces on the right to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
