package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/scheduler"
	"github.com/tonhe/solmon/tui/styles"
)

// RenderHeader renders the top header bar with app name, backend URL,
// live/paused status, and backend health.
func RenderHeader(theme styles.Theme, baseURL string, state scheduler.State, health dashboard.HealthState, width int, ver string) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Base0D).
		Background(theme.Base01).
		Bold(true).
		Render("solmon")

	center := lipgloss.NewStyle().
		Foreground(theme.Base05).
		Background(theme.Base01).
		Render(baseURL)

	status := "LIVE"
	statusColor := theme.Base0B
	switch state {
	case scheduler.Paused:
		status = "PAUSED"
		statusColor = theme.Base0A
	case scheduler.Running:
		status = "UPDATING"
		statusColor = theme.Base0C
	case scheduler.Idle:
		status = "STOPPED"
		statusColor = theme.Base08
	}
	right := lipgloss.NewStyle().
		Foreground(statusColor).
		Background(theme.Base01).
		Render(status)

	healthColor := theme.Base04
	switch health {
	case dashboard.HealthUp:
		healthColor = theme.Base0B
	case dashboard.HealthDown:
		healthColor = theme.Base08
	}
	healthSeg := lipgloss.NewStyle().
		Foreground(healthColor).
		Background(theme.Base01).
		Render(fmt.Sprintf("api %s", health))

	versionSeg := lipgloss.NewStyle().
		Foreground(theme.Base04).
		Background(theme.Base01).
		Render("v" + ver)

	content := fmt.Sprintf(" %s  |  %s  |  %s  |  %s  |  %s ", left, center, right, healthSeg, versionSeg)

	return lipgloss.NewStyle().
		Background(theme.Base01).
		Width(width).
		Render(content)
}
