package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/tui/components"
	"github.com/tonhe/solmon/tui/keys"
	"github.com/tonhe/solmon/tui/styles"
)

// DetailView is a split-screen view showing per-series statistics at the
// top and the chart at full width below.
type DetailView struct {
	theme  styles.Theme
	sty    *styles.Styles
	chart  *chart.Chart
	width  int
	height int
}

// NewDetailView creates a new DetailView with the given theme.
func NewDetailView(theme styles.Theme) DetailView {
	return DetailView{
		theme: theme,
		sty:   styles.NewStyles(theme),
	}
}

// SetTheme swaps the palette.
func (v *DetailView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// SetChart updates the detail view with new chart data.
func (v *DetailView) SetChart(c *chart.Chart) {
	v.chart = c
}

// SetSize updates the available dimensions for the view.
func (v *DetailView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// Update handles key messages for the detail view. The third return value
// indicates whether the user wants to go back (Esc pressed).
func (v DetailView) Update(msg tea.Msg) (DetailView, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return v, nil, true
		}
	}
	return v, nil, false
}

// View renders the detail view with a stats table and the chart.
func (v DetailView) View() string {
	if v.chart == nil {
		return v.renderEmpty()
	}

	info := v.renderStats()
	chartHeight := v.height - lipgloss.Height(info) - 2
	if chartHeight < 8 {
		chartHeight = 8
	}
	plot := components.RenderChart(v.sty, *v.chart, v.width, chartHeight, true)
	return lipgloss.JoinVertical(lipgloss.Left, info, plot, v.renderHelp())
}

// renderEmpty shows a placeholder when no chart is selected.
func (v DetailView) renderEmpty() string {
	msg := lipgloss.NewStyle().
		Foreground(v.theme.Base04).
		Align(lipgloss.Center).
		Render("No chart selected")
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, msg)
}

// renderStats renders one row per series over the visible window.
func (v DetailView) renderStats() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base0D).
		Bold(true)
	valueStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base05)
	dimStyle := lipgloss.NewStyle().
		Foreground(v.theme.Base03)

	cols := []string{"Series", "Latest", "Min", "Max", "Mean", "Points"}
	widths := []int{22, 10, 10, 10, 10, 8}

	var header strings.Builder
	header.WriteString("  ")
	for i, c := range cols {
		header.WriteString(headerStyle.Render(padRight(c, widths[i])))
	}

	rows := []string{"", "  " + headerStyle.Render(v.chart.Title), header.String()}
	span := ""
	for i, s := range v.chart.Series {
		unit := ""
		if a, ok := v.chart.AxisFor(i); ok {
			unit = a.Unit
		}
		name := v.sty.SeriesStyle(i).Render("■ ") + valueStyle.Render(padRight(s.Name, widths[0]-2))
		st, ok := v.chart.Stats(i)
		if !ok {
			rows = append(rows, "  "+name+dimStyle.Render(render.NoDataLine))
			continue
		}
		num := func(x float64, w int) string {
			return valueStyle.Render(padRight(render.FormatNumber(x)+unit, w))
		}
		rows = append(rows, "  "+name+
			num(st.Latest, widths[1])+
			num(st.Min, widths[2])+
			num(st.Max, widths[3])+
			num(st.Mean, widths[4])+
			valueStyle.Render(padRight(fmt.Sprintf("%d", st.Count), widths[5])))
		if span == "" {
			span = fmt.Sprintf("%s to %s", st.From.Format(render.TimeLayout), st.To.Format(render.TimeLayout))
		}
	}
	if span != "" {
		rows = append(rows, "  "+dimStyle.Render("Window: "+span))
	}
	return strings.Join(rows, "\n")
}

// renderHelp renders a help line at the bottom of the detail view.
func (v DetailView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(v.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	return helpStyle.Render(fmt.Sprintf("  %s pan  %s zoom  %s to go back",
		keyStyle.Render("[left/right]"),
		keyStyle.Render("[z/x]"),
		keyStyle.Render("[esc]"),
	))
}
