package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/tui/keys"
	"github.com/tonhe/solmon/tui/styles"
)

// MinInterval is the shortest refresh interval the prompt accepts.
const MinInterval = time.Second

// PromptAction describes what the app should do after a prompt update.
type PromptAction int

const (
	PromptNone PromptAction = iota
	PromptCancel
	PromptSubmit
)

// IntervalPrompt is a small modal for typing a new refresh interval.
type IntervalPrompt struct {
	theme  styles.Theme
	sty    *styles.Styles
	input  textinput.Model
	value  time.Duration
	err    string
	width  int
	height int
}

// NewIntervalPrompt creates a prompt pre-filled with current.
func NewIntervalPrompt(theme styles.Theme, current time.Duration) IntervalPrompt {
	input := textinput.New()
	input.Placeholder = "10s"
	input.CharLimit = 16
	input.Width = 20
	input.SetValue(current.String())
	input.Focus()

	return IntervalPrompt{
		theme: theme,
		sty:   styles.NewStyles(theme),
		input: input,
	}
}

// SetSize updates the available dimensions for the overlay.
func (p *IntervalPrompt) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// Value is the parsed interval after PromptSubmit.
func (p IntervalPrompt) Value() time.Duration {
	return p.value
}

// Update handles key input for the prompt.
func (p IntervalPrompt) Update(msg tea.Msg) (IntervalPrompt, tea.Cmd, PromptAction) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return p, nil, PromptCancel
		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			d, err := ParseInterval(p.input.Value())
			if err != nil {
				p.err = err.Error()
				return p, nil, PromptNone
			}
			p.value = d
			p.err = ""
			return p, nil, PromptSubmit
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd, PromptNone
}

// ParseInterval parses a user-typed interval. A bare number is taken as
// seconds.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("interval is empty")
	}
	if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) < 0 {
		s += "s"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q", s)
	}
	if d < MinInterval {
		return 0, fmt.Errorf("interval must be at least %s", MinInterval)
	}
	return d, nil
}

// View renders the prompt as a centered modal box.
func (p IntervalPrompt) View() string {
	var lines []string
	lines = append(lines, p.sty.FormLabel.Render("Refresh every:")+" "+p.input.View())
	if p.err != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(p.theme.Base08).Render(p.err))
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(p.theme.Base04).Render("[enter] apply  [esc] cancel"))

	return renderModal(p.sty, "Refresh Interval", strings.Join(lines, "\n"), p.width, p.height)
}
