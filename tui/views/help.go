package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/tui/keys"
	"github.com/tonhe/solmon/tui/styles"
)

// HelpView is a modal overlay listing the key bindings by section.
type HelpView struct {
	theme    styles.Theme
	sty      *styles.Styles
	sections []keys.Section
	width    int
	height   int
	visible  bool
}

// NewHelpView creates a new HelpView with the given theme.
func NewHelpView(theme styles.Theme) HelpView {
	return HelpView{
		theme:    theme,
		sty:      styles.NewStyles(theme),
		sections: keys.DefaultKeyMap.Sections(),
	}
}

// SetTheme swaps the palette.
func (v *HelpView) SetTheme(theme styles.Theme) {
	v.theme = theme
	v.sty = styles.NewStyles(theme)
}

// Toggle flips the help overlay visibility.
func (v *HelpView) Toggle() {
	v.visible = !v.visible
}

// IsVisible returns whether the help overlay is currently shown.
func (v HelpView) IsVisible() bool {
	return v.visible
}

// SetSize updates the available dimensions for the overlay.
func (v *HelpView) SetSize(width, height int) {
	v.width = width
	v.height = height
}

// View renders the sections in one column, or two when the terminal is
// too short for one.
func (v HelpView) View() string {
	blocks := make([]string, 0, len(v.sections))
	for _, s := range v.sections {
		blocks = append(blocks, v.renderSection(s))
	}

	body := strings.Join(blocks, "\n\n")
	if lipgloss.Height(body)+6 > v.height && len(blocks) > 1 {
		half := (len(blocks) + 1) / 2
		left := strings.Join(blocks[:half], "\n\n")
		right := strings.Join(blocks[half:], "\n\n")
		body = lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)
	}
	footer := lipgloss.NewStyle().Foreground(v.theme.Base04).Render("[?] or [esc] to close")
	return renderModal(v.sty, "Keyboard Shortcuts", body+"\n\n"+footer, v.width, v.height)
}

func (v HelpView) renderSection(s keys.Section) string {
	keyStyle := lipgloss.NewStyle().Foreground(v.theme.Base0D).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(v.theme.Base05)

	lines := []string{lipgloss.NewStyle().Foreground(v.theme.Base0E).Bold(true).Render(s.Title)}
	for _, b := range s.Bindings {
		h := b.Help()
		lines = append(lines, "  "+keyStyle.Render(padRight(h.Key, 14))+descStyle.Render(h.Desc))
	}
	return strings.Join(lines, "\n")
}

// renderModal draws content in the modal border with a title above it,
// centred in a width x height area.
func renderModal(sty *styles.Styles, title, content string, width, height int) string {
	box := sty.ModalBorder.Render(content)
	modal := lipgloss.JoinVertical(lipgloss.Center, sty.ModalTitle.Render(" "+title+" "), box)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
