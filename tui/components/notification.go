package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/tui/styles"
)

// maxToasts caps how many notifications are stacked at once.
const maxToasts = 3

func notificationStyle(sty *styles.Styles, kind dashboard.NotificationKind) lipgloss.Style {
	switch kind {
	case dashboard.NotifyError:
		return sty.NotifyError
	case dashboard.NotifySuccess:
		return sty.NotifySuccess
	default:
		return sty.NotifyInfo
	}
}

func notificationIcon(kind dashboard.NotificationKind) string {
	switch kind {
	case dashboard.NotifyError:
		return "✗ "
	case dashboard.NotifySuccess:
		return "✓ "
	default:
		return "ℹ "
	}
}

// RenderToasts stacks the newest notifications as boxes aligned to the
// right edge. It returns "" when there is nothing to show.
func RenderToasts(sty *styles.Styles, notes []dashboard.Notification, width int) string {
	if len(notes) == 0 {
		return ""
	}
	if len(notes) > maxToasts {
		notes = notes[len(notes)-maxToasts:]
	}
	boxW := width / 3
	if boxW < 30 {
		boxW = 30
	}
	if boxW > width {
		boxW = width
	}

	boxes := make([]string, 0, len(notes))
	for _, n := range notes {
		box := notificationStyle(sty, n.Kind).
			Width(boxW - 2).
			Render(notificationIcon(n.Kind) + n.Message)
		boxes = append(boxes, box)
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, boxes...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}

// RenderBanner shows the newest notification as a single full-width line.
func RenderBanner(theme styles.Theme, notes []dashboard.Notification, width int) string {
	if len(notes) == 0 {
		return ""
	}
	n := notes[len(notes)-1]
	bg := theme.Base0D
	switch n.Kind {
	case dashboard.NotifyError:
		bg = theme.Base08
	case dashboard.NotifySuccess:
		bg = theme.Base0B
	}
	text := notificationIcon(n.Kind) + n.Message
	if extra := len(notes) - 1; extra > 0 {
		text += fmt.Sprintf("  (+%d more)", extra)
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(theme.Base00).
		Bold(true).
		Width(width).
		Padding(0, 1).
		Render(truncate(text, width-2))
}
