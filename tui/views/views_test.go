package views

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tonhe/solmon/internal/chart"
	"github.com/tonhe/solmon/internal/config"
	"github.com/tonhe/solmon/internal/dashboard"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/internal/telemetry"
	"github.com/tonhe/solmon/tui/styles"
)

func TestParseInterval(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"10s", 10 * time.Second, false},
		{" 2m ", 2 * time.Minute, false},
		{"45", 45 * time.Second, false},
		{"500ms", 0, true},
		{"", 0, true},
		{"soon", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseInterval(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseInterval(%q): expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInterval(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseInterval(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestIntervalPromptSubmitsPrefilledValue(t *testing.T) {
	p := NewIntervalPrompt(styles.DefaultTheme, 30*time.Second)
	p, _, action := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != PromptSubmit {
		t.Fatalf("expected PromptSubmit, got %d", action)
	}
	if p.Value() != 30*time.Second {
		t.Errorf("expected 30s, got %s", p.Value())
	}
}

func TestIntervalPromptRejectsTooShort(t *testing.T) {
	p := NewIntervalPrompt(styles.DefaultTheme, 500*time.Millisecond)
	p.SetSize(80, 20)
	p, _, action := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != PromptNone {
		t.Fatalf("expected the prompt to stay open, got %d", action)
	}
	if !strings.Contains(p.View(), "at least") {
		t.Error("expected an error message in the prompt")
	}
}

func TestDashboardViewRendersEveryPanel(t *testing.T) {
	v := NewDashboardView(styles.DefaultTheme)
	v.SetSize(140, 60)
	view := dashboard.View{
		Panels: []render.PanelViewState{
			render.NoData(render.TitleEnvironment),
			render.NoData(render.TitleACMeter),
			render.NoData(render.TitleDCMeter),
		},
		Flow: render.PowerFlow(nil, render.DefaultPolicy()),
	}
	v.SetData(view, nil)
	out := v.View()
	for _, want := range []string{render.TitleEnvironment, render.TitleACMeter, render.TitleDCMeter, render.TitlePowerFlow} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in dashboard", want)
		}
	}
}

func TestDashboardViewDrawsChartsWhenRoomy(t *testing.T) {
	m := chart.NewManager(10)
	if err := m.DefineSeries("c1", "Climate Chart", []chart.Axis{{Name: "a"}}, []chart.SeriesSpec{{Name: "A", Field: "a", Axis: "a"}}); err != nil {
		t.Fatal(err)
	}
	c, _ := m.Chart("c1")

	v := NewDashboardView(styles.DefaultTheme)
	v.SetData(dashboard.View{Flow: render.PowerFlow(nil, render.DefaultPolicy())}, []chart.Chart{c})

	v.SetSize(140, 60)
	if !strings.Contains(v.View(), "Climate Chart") {
		t.Error("expected chart with enough height")
	}
	v.SetSize(140, 6)
	if strings.Contains(v.View(), "Climate Chart") {
		t.Error("expected chart hidden without room")
	}
}

func TestChartsViewFocusClamped(t *testing.T) {
	m := chart.NewManager(10)
	_ = m.DefineSeries("c1", "Only Chart", []chart.Axis{{Name: "a"}}, []chart.SeriesSpec{{Name: "A", Field: "a", Axis: "a"}})
	c, _ := m.Chart("c1")
	v := NewChartsView(styles.DefaultTheme)
	v.SetSize(100, 30)
	v.SetData([]chart.Chart{c}, 5)
	if !strings.Contains(v.View(), "Only Chart") {
		t.Error("expected out-of-range focus to fall back to the first chart")
	}
}

func TestSettingsSaveWritesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	cfg := config.DefaultConfig()
	s := NewSettingsView(styles.DefaultTheme, cfg, path)

	// Cycle the theme one step to the right.
	s, _, _ = s.Update(tea.KeyMsg{Type: tea.KeyRight})
	wantTheme := s.Theme().Name
	s, _, action := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != SettingsSaved {
		t.Fatalf("expected SettingsSaved, got %d (err %q)", action, s.err)
	}
	if s.RestartNeeded {
		t.Error("expected no restart for a theme change")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}
	loaded, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	got := styles.GetThemeByName(loaded.Theme)
	if got == nil || got.Name != wantTheme {
		t.Errorf("expected saved theme %q, got %q", wantTheme, loaded.Theme)
	}
}

func TestSettingsCycleNotificationStyle(t *testing.T) {
	cfg := config.DefaultConfig()
	s := NewSettingsView(styles.DefaultTheme, cfg, filepath.Join(t.TempDir(), "config.toml"))
	s, _, _ = s.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	s, _, _ = s.Update(tea.KeyMsg{Type: tea.KeyRight})
	s, _, action := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if action != SettingsSaved {
		t.Fatalf("expected SettingsSaved, got %d", action)
	}
	if cfg.NotificationStyle != config.NotificationBanner {
		t.Errorf("expected banner style, got %q", cfg.NotificationStyle)
	}
}

func TestSettingsEscapeCloses(t *testing.T) {
	s := NewSettingsView(styles.DefaultTheme, config.DefaultConfig(), "unused")
	_, _, action := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if action != SettingsClose {
		t.Errorf("expected SettingsClose, got %d", action)
	}
}

func TestDetailViewShowsStats(t *testing.T) {
	m := chart.NewManager(10)
	_ = m.DefineSeries("c", "Rack Climate", []chart.Axis{{Name: "t", Unit: "°C"}}, []chart.SeriesSpec{{Name: "Temperature", Field: "temperature", Axis: "t"}})
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	_ = m.ReplaceData("c", []telemetry.Point{
		{Timestamp: base, Fields: map[string]float64{"temperature": 21}},
		{Timestamp: base.Add(time.Minute), Fields: map[string]float64{"temperature": 23}},
	})
	_ = m.Redraw("c", false)
	c, _ := m.Chart("c")

	v := NewDetailView(styles.DefaultTheme)
	v.SetSize(120, 40)
	v.SetChart(&c)
	out := v.View()
	for _, want := range []string{"Rack Climate", "Temperature", "23°C", "21°C", "22°C"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in detail view", want)
		}
	}

	_, _, back := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !back {
		t.Error("expected esc to go back")
	}
}

func TestDetailViewEmpty(t *testing.T) {
	v := NewDetailView(styles.DefaultTheme)
	v.SetSize(60, 10)
	if !strings.Contains(v.View(), "No chart selected") {
		t.Error("expected placeholder without a chart")
	}
}
