package styles

import (
	"testing"
)

func TestGetThemeByName(t *testing.T) {
	theme := GetThemeByName("solarized-dark")
	if theme == nil {
		t.Fatal("GetThemeByName('solarized-dark') returned nil")
	}
	if theme.Name != "Solarized Dark" {
		t.Errorf("expected name 'Solarized Dark', got %q", theme.Name)
	}
}

func TestGetThemeByNameMissing(t *testing.T) {
	theme := GetThemeByName("nonexistent")
	if theme != nil {
		t.Error("expected nil for nonexistent theme")
	}
}

func TestListThemes(t *testing.T) {
	themes := ListThemes()
	if len(themes) < 20 {
		t.Errorf("expected at least 20 themes, got %d", len(themes))
	}
}

func TestThemeCount(t *testing.T) {
	count := GetThemeCount()
	if count < 20 {
		t.Errorf("expected at least 20 themes, got %d", count)
	}
}

func TestGetThemeByIndex(t *testing.T) {
	theme := GetThemeByIndex(0)
	if theme == nil {
		t.Fatal("GetThemeByIndex(0) returned nil")
	}
}

func TestThemeIndexRoundTrip(t *testing.T) {
	idx := GetThemeIndex("nord")
	if idx < 0 {
		t.Fatal("expected nord to be listed")
	}
	theme := GetThemeByIndex(idx)
	if theme == nil || theme.Name != "Nord" {
		t.Errorf("expected Nord at index %d, got %+v", idx, theme)
	}
	if GetThemeIndex("nonexistent") != -1 {
		t.Error("expected -1 for unknown slug")
	}
}

func TestSeriesStyleWraps(t *testing.T) {
	sty := NewStyles(DefaultTheme)
	n := len(sty.ChartSeries)
	if n == 0 {
		t.Fatal("expected series colours")
	}
	if sty.SeriesStyle(n).GetForeground() != sty.SeriesStyle(0).GetForeground() {
		t.Error("expected series colours to wrap around")
	}
}

func TestThemesKnowTheirSlug(t *testing.T) {
	for _, slug := range ListThemes() {
		if got := GetThemeByName(slug).Slug; got != slug {
			t.Errorf("expected slug %q, got %q", slug, got)
		}
	}
	if DefaultTheme.Slug != DefaultThemeSlug {
		t.Errorf("expected default theme %q, got %q", DefaultThemeSlug, DefaultTheme.Slug)
	}
}
