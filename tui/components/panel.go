package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/tui/styles"
)

// panelLabelWidth is the label column width inside a panel.
const panelLabelWidth = 14

// BadgeStyle picks the badge colour for a status kind.
func BadgeStyle(sty *styles.Styles, kind render.BadgeKind) lipgloss.Style {
	switch kind {
	case render.BadgeSuccess:
		return sty.BadgeSuccess
	case render.BadgeError:
		return sty.BadgeError
	default:
		return sty.BadgeUnknown
	}
}

// RenderPanel draws one status panel: a title row with the badge on the
// right, then one row per line. width is the outer width including border.
func RenderPanel(sty *styles.Styles, p render.PanelViewState, width int) string {
	inner := width - 4 // border + padding
	if inner < 10 {
		inner = 10
	}

	title := sty.PanelTitle.Render(truncate(p.Title, inner))
	badge := BadgeStyle(sty, p.Badge).Render(p.BadgeText)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}

	rows := []string{title + strings.Repeat(" ", gap) + badge}
	for _, l := range p.Lines {
		rows = append(rows, renderLine(sty, l, inner))
	}

	return sty.PanelBorder.Width(width - 2).Render(strings.Join(rows, "\n"))
}

func renderLine(sty *styles.Styles, l render.Line, width int) string {
	if l.Label == "" {
		return sty.PanelDim.Render(truncate(l.Text(), width))
	}
	lw := panelLabelWidth
	if lw > width/2 {
		lw = width / 2
	}
	label := sty.PanelLabel.Render(padRight(truncate(l.Label, lw-1), lw))
	return label + sty.PanelValue.Render(truncate(l.Text(), width-lw))
}

// RenderFlow draws the power-flow panel: solar on the left, AC on the
// right, an arrow between them that lights up when energy is moving.
func RenderFlow(sty *styles.Styles, f render.FlowViewState, width int) string {
	inner := width - 4
	if inner < 20 {
		inner = 20
	}

	title := sty.PanelTitle.Render(f.Panel.Title)
	badge := BadgeStyle(sty, f.Panel.Badge).Render(f.Panel.BadgeText)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(badge)
	if gap < 1 {
		gap = 1
	}
	rows := []string{title + strings.Repeat(" ", gap) + badge}

	if f.Panel.Badge == render.BadgeSuccess {
		solar := node(sty, "☀ Solar", f.SolarActive)
		ac := node(sty, "⚡ AC", f.ACActive)
		arrow := sty.FlowInactive.Render(" ──────▶ ")
		if f.SolarActive && f.ACActive {
			arrow = sty.FlowActive.Render(" ══════▶ ")
		}
		rows = append(rows, solar+arrow+ac)
	}
	for _, l := range f.Panel.Lines {
		rows = append(rows, renderLine(sty, l, inner))
	}

	return sty.PanelBorder.Width(width - 2).Render(strings.Join(rows, "\n"))
}

func node(sty *styles.Styles, label string, active bool) string {
	if active {
		return sty.FlowActive.Render(label)
	}
	return sty.FlowInactive.Render(label)
}

// padRight pads s with spaces on the right to the given display width.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to maxLen runes, adding an ellipsis if needed.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
