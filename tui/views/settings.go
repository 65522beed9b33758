package views

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/tui/components"
	"github.com/tonhe/solmon/tui/keys"
	"github.com/tonhe/solmon/tui/styles"
)

// SettingsAction describes what the app should do after a settings update.
type SettingsAction int

const (
	// SettingsNone means continue in the settings view.
	SettingsNone SettingsAction = iota
	// SettingsClose means the user cancelled without saving.
	SettingsClose
	// SettingsSaved means the config was saved; the app should apply changes.
	SettingsSaved
)

// Settings field indices.
const (
	settingsFieldTheme    = 0
	settingsFieldURL      = 1
	settingsFieldInterval = 2
	settingsFieldHealth   = 3
	settingsFieldHistory  = 4
	settingsFieldStyle    = 5
	settingsFieldCount    = 6
)

var notificationStyles = []string{config.NotificationToast, config.NotificationBanner}

// sampleTime is the timestamp shown in the theme preview.
var sampleTime = time.Date(2026, time.January, 1, 12, 0, 0, 0, time.UTC)

// SettingsView is a full-screen settings editor with a live theme preview.
type SettingsView struct {
	theme  styles.Theme
	sty    *styles.Styles
	config *config.Config
	path   string

	themeIndex int // index into styles.ListThemes()
	styleIndex int // index into notificationStyles
	cursor     int // which setting row is focused

	width  int
	height int

	urlInput      textinput.Model
	intervalInput textinput.Model
	healthInput   textinput.Model
	historyInput  textinput.Model

	err string
	// RestartNeeded is set when a saved change only applies on next start.
	RestartNeeded bool
}

// NewSettingsView creates a fresh SettingsView populated from cfg. Saving
// writes the config to path.
func NewSettingsView(theme styles.Theme, cfg *config.Config, path string) SettingsView {
	themeIdx := styles.GetThemeIndex(cfg.Theme)
	if themeIdx < 0 {
		themeIdx = 0
	}
	styleIdx := 0
	if cfg.NotificationStyle == config.NotificationBanner {
		styleIdx = 1
	}

	newInput := func(placeholder, value string, limit int) textinput.Model {
		in := textinput.New()
		in.Placeholder = placeholder
		in.CharLimit = limit
		in.Width = 40
		in.SetValue(value)
		return in
	}

	return SettingsView{
		theme:         theme,
		sty:           styles.NewStyles(theme),
		config:        cfg,
		path:          path,
		themeIndex:    themeIdx,
		styleIndex:    styleIdx,
		urlInput:      newInput("http://localhost:5000/api", cfg.BaseURL, 256),
		intervalInput: newInput("10s", cfg.RefreshInterval.String(), 16),
		healthInput:   newInput("30s", cfg.HealthInterval.String(), 16),
		historyInput:  newInput("6", strconv.Itoa(cfg.HistoryHours), 4),
	}
}

// SetSize updates the available dimensions for the settings view.
func (s *SettingsView) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// selectedThemeSlug returns the slug of the currently selected theme.
func (s SettingsView) selectedThemeSlug() string {
	themes := styles.ListThemes()
	if s.themeIndex >= 0 && s.themeIndex < len(themes) {
		return themes[s.themeIndex]
	}
	return ""
}

// selectedTheme returns the Theme struct for the currently selected theme.
func (s SettingsView) selectedTheme() styles.Theme {
	t := styles.GetThemeByIndex(s.themeIndex)
	if t != nil {
		return *t
	}
	return styles.DefaultTheme
}

// focusInput blurs all inputs and focuses the one at the cursor position.
func (s *SettingsView) focusInput() {
	s.urlInput.Blur()
	s.intervalInput.Blur()
	s.healthInput.Blur()
	s.historyInput.Blur()

	switch s.cursor {
	case settingsFieldURL:
		s.urlInput.Focus()
	case settingsFieldInterval:
		s.intervalInput.Focus()
	case settingsFieldHealth:
		s.healthInput.Focus()
	case settingsFieldHistory:
		s.historyInput.Focus()
	}
}

// cycle moves a selector field by delta.
func (s *SettingsView) cycle(delta int) bool {
	switch s.cursor {
	case settingsFieldTheme:
		n := styles.GetThemeCount()
		s.themeIndex = (s.themeIndex + delta + n) % n
		s.theme = s.selectedTheme()
		s.sty = styles.NewStyles(s.theme)
		return true
	case settingsFieldStyle:
		n := len(notificationStyles)
		s.styleIndex = (s.styleIndex + delta + n) % n
		return true
	}
	return false
}

// Update handles messages for the settings view.
func (s SettingsView) Update(msg tea.Msg) (SettingsView, tea.Cmd, SettingsAction) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.DefaultKeyMap.Escape):
			return s, nil, SettingsClose

		case key.Matches(msg, keys.DefaultKeyMap.Enter):
			return s.save()

		case msg.String() == "up":
			if s.cursor > 0 {
				s.cursor--
				s.focusInput()
			}
			return s, nil, SettingsNone

		case msg.String() == "down":
			if s.cursor < settingsFieldCount-1 {
				s.cursor++
				s.focusInput()
			}
			return s, nil, SettingsNone

		case msg.String() == "tab":
			s.cursor = (s.cursor + 1) % settingsFieldCount
			s.focusInput()
			return s, nil, SettingsNone

		case msg.String() == "shift+tab":
			s.cursor = (s.cursor - 1 + settingsFieldCount) % settingsFieldCount
			s.focusInput()
			return s, nil, SettingsNone

		case msg.String() == "left":
			if s.cycle(-1) {
				return s, nil, SettingsNone
			}
			return s.updateTextInput(msg)

		case msg.String() == "right":
			if s.cycle(1) {
				return s, nil, SettingsNone
			}
			return s.updateTextInput(msg)

		default:
			return s.updateTextInput(msg)
		}
	}
	return s, nil, SettingsNone
}

// updateTextInput dispatches a key message to the currently focused text input.
func (s SettingsView) updateTextInput(msg tea.Msg) (SettingsView, tea.Cmd, SettingsAction) {
	var cmd tea.Cmd
	switch s.cursor {
	case settingsFieldURL:
		s.urlInput, cmd = s.urlInput.Update(msg)
	case settingsFieldInterval:
		s.intervalInput, cmd = s.intervalInput.Update(msg)
	case settingsFieldHealth:
		s.healthInput, cmd = s.healthInput.Update(msg)
	case settingsFieldHistory:
		s.historyInput, cmd = s.historyInput.Update(msg)
	}
	return s, cmd, SettingsNone
}

// save validates and persists the config to disk.
func (s SettingsView) save() (SettingsView, tea.Cmd, SettingsAction) {
	baseURL := strings.TrimSpace(s.urlInput.Value())
	if u, err := url.Parse(baseURL); err != nil || u.Scheme == "" || u.Host == "" {
		s.err = fmt.Sprintf("Invalid base URL %q", baseURL)
		return s, nil, SettingsNone
	}
	interval, err := ParseInterval(s.intervalInput.Value())
	if err != nil {
		s.err = "Refresh interval: " + err.Error()
		return s, nil, SettingsNone
	}
	health, err := ParseInterval(s.healthInput.Value())
	if err != nil {
		s.err = "Health interval: " + err.Error()
		return s, nil, SettingsNone
	}
	hours, err := strconv.Atoi(strings.TrimSpace(s.historyInput.Value()))
	if err != nil || hours < 1 {
		s.err = "History hours must be a positive integer"
		return s, nil, SettingsNone
	}

	s.RestartNeeded = baseURL != s.config.BaseURL ||
		health != s.config.HealthInterval ||
		hours != s.config.HistoryHours

	s.config.Theme = s.selectedThemeSlug()
	s.config.BaseURL = baseURL
	s.config.RefreshInterval = interval
	s.config.HealthInterval = health
	s.config.HistoryHours = hours
	s.config.NotificationStyle = notificationStyles[s.styleIndex]

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.err = fmt.Sprintf("Failed to create directories: %v", err)
		return s, nil, SettingsNone
	}
	if err := config.SaveConfig(s.config, s.path); err != nil {
		s.err = fmt.Sprintf("Failed to save config: %v", err)
		return s, nil, SettingsNone
	}

	s.err = ""
	return s, nil, SettingsSaved
}

// Theme returns the theme currently selected in the view.
func (s SettingsView) Theme() styles.Theme {
	return s.theme
}

// View renders the settings screen.
func (s SettingsView) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base0D).
		Bold(true)
	labelStyle := s.sty.FormLabel
	activeLabelStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base0D).
		Bold(true)
	valStyle := lipgloss.NewStyle().
		Foreground(s.theme.Base06)

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Settings") + "\n")
	b.WriteString("\n")

	if s.err != "" {
		errStyle := lipgloss.NewStyle().Foreground(s.theme.Base08)
		b.WriteString("  " + errStyle.Render(s.err) + "\n\n")
	}

	themeName := s.selectedTheme().Name
	themeDisplay := fmt.Sprintf("< %s >  (%d/%d)", themeName, s.themeIndex+1, styles.GetThemeCount())
	styleDisplay := fmt.Sprintf("< %s >", notificationStyles[s.styleIndex])

	type settingsRow struct {
		label   string
		display string
		isInput bool
		input   string
	}

	rows := []settingsRow{
		{"Theme", themeDisplay, false, ""},
		{"Base URL", "", true, s.urlInput.View()},
		{"Refresh Interval", "", true, s.intervalInput.View()},
		{"Health Interval", "", true, s.healthInput.View()},
		{"History Hours", "", true, s.historyInput.View()},
		{"Notifications", styleDisplay, false, ""},
	}

	for i, row := range rows {
		indicator := "  "
		lbl := labelStyle
		if i == s.cursor {
			indicator = activeLabelStyle.Render("> ")
			lbl = activeLabelStyle
		}

		label := lbl.Render(padRight(row.label+":", 20))
		if row.isInput {
			b.WriteString(fmt.Sprintf("  %s%s%s\n", indicator, label, row.input))
		} else {
			b.WriteString(fmt.Sprintf("  %s%s%s\n", indicator, label, valStyle.Render(row.display)))
		}
	}

	b.WriteString("\n")
	b.WriteString(s.renderThemePreview())

	b.WriteString("\n")
	b.WriteString("  " + s.renderHelp() + "\n")

	return b.String()
}

// renderThemePreview renders a sample panel in the selected theme.
func (s SettingsView) renderThemePreview() string {
	temp, hum := 22.5, 48.0
	sample := render.PanelViewState{
		Title:     "Theme Preview",
		Badge:     render.BadgeSuccess,
		BadgeText: render.TextOnline,
		Lines: []render.Line{
			{Label: "Temperature", Value: render.FormatNumber(temp), Unit: "°C"},
			{Label: "Humidity", Value: render.FormatNumber(hum), Unit: "%"},
		},
	}
	failed := render.Failed("Error Sample", nil, sampleTime)

	width := 36
	preview := lipgloss.JoinHorizontal(lipgloss.Top,
		components.RenderPanel(s.sty, sample, width),
		components.RenderPanel(s.sty, failed, width),
	)

	var b strings.Builder
	for _, line := range strings.Split(preview, "\n") {
		b.WriteString("  " + line + "\n")
	}

	swatchLabel := lipgloss.NewStyle().Foreground(s.theme.Base04)
	b.WriteString("  " + swatchLabel.Render("Colors: "))
	colorPairs := []struct {
		name  string
		color lipgloss.Color
	}{
		{"red", s.theme.Base08},
		{"org", s.theme.Base09},
		{"yel", s.theme.Base0A},
		{"grn", s.theme.Base0B},
		{"cyn", s.theme.Base0C},
		{"blu", s.theme.Base0D},
		{"mag", s.theme.Base0E},
	}
	for _, cp := range colorPairs {
		b.WriteString(lipgloss.NewStyle().Foreground(cp.color).Render(cp.name) + " ")
	}
	b.WriteString("\n")
	return b.String()
}

// renderHelp renders the help line for the settings view.
func (s SettingsView) renderHelp() string {
	helpStyle := lipgloss.NewStyle().Foreground(s.theme.Base04)
	keyStyle := lipgloss.NewStyle().Foreground(s.theme.Base0D).Bold(true)

	hint := fmt.Sprintf(
		"%s/%s navigate  %s save  %s cancel",
		keyStyle.Render("[up]"),
		keyStyle.Render("[down]"),
		keyStyle.Render("[enter]"),
		keyStyle.Render("[esc]"),
	)
	if s.cursor == settingsFieldTheme || s.cursor == settingsFieldStyle {
		hint = fmt.Sprintf("%s/%s cycle  ", keyStyle.Render("[left]"), keyStyle.Render("[right]")) + hint
	}
	return helpStyle.Render(hint)
}
