package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/tui/styles"
)

// latencyWidth is the width of the cycle latency sparkline.
const latencyWidth = 20

// footerHints are the key hints on the second status line.
var footerHints = [][2]string{
	{"r", "refresh"},
	{"p", "pause"},
	{"+/-", "interval"},
	{"i", "set interval"},
	{"tab", "chart"},
	{"s", "settings"},
	{"?", "help"},
	{"q", "quit"},
}

// CycleCounts are the refresh counters shown in the status bar.
type CycleCounts struct {
	Applied   int
	Failed    int
	Coalesced int
}

// String reports applied cycles, adding failures and dropped ticks only
// once there are any.
func (c CycleCounts) String() string {
	out := fmt.Sprintf("%d cycles", c.Applied)
	if c.Failed > 0 {
		out += fmt.Sprintf(", %d failed", c.Failed)
	}
	if c.Coalesced > 0 {
		out += fmt.Sprintf(", %d coalesced", c.Coalesced)
	}
	return out
}

// RenderStatusBar renders two lines: refresh state with a sparkline of
// recent cycle latencies, then key hints.
func RenderStatusBar(theme styles.Theme, interval time.Duration, lastUpdated time.Time, cycles CycleCounts, latency []float64, width int) string {
	bg := lipgloss.NewStyle().Background(theme.Base01)
	text := bg.Foreground(theme.Base05)
	dim := bg.Foreground(theme.Base04)

	updated := "never"
	if !lastUpdated.IsZero() {
		updated = lastUpdated.Format("15:04:05")
	}
	latest := "--"
	if n := len(latency); n > 0 {
		latest = FormatLatency(latency[n-1])
	}

	segments := []string{
		text.Render("every " + interval.String()),
		text.Render("updated: " + updated),
		dim.Render(cycles.String()),
		bg.Foreground(theme.Base0C).Render(Sparkline(latency, latencyWidth) + " " + latest),
	}
	sep := bg.Foreground(theme.Base03).Render(" | ")
	status := bg.Render(" ") + strings.Join(segments, sep)

	keyStyle := bg.Foreground(theme.Base0D).Bold(true)
	hints := make([]string, 0, len(footerHints))
	for _, h := range footerHints {
		hints = append(hints, keyStyle.Render(h[0])+dim.Render(":"+h[1]))
	}
	footer := bg.Render(" ") + strings.Join(hints, bg.Render("  "))

	return lipgloss.JoinVertical(lipgloss.Left, fill(bg, status, width), fill(bg, footer, width))
}

// fill pads line with the background colour up to width.
func fill(bg lipgloss.Style, line string, width int) string {
	if w := lipgloss.Width(line); w < width {
		line += bg.Render(strings.Repeat(" ", width-w))
	}
	return line
}
