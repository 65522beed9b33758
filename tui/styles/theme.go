package styles

import (
	"slices"

	"github.com/charmbracelet/lipgloss"
)

// DefaultThemeSlug is used when the config names no theme or an unknown one.
const DefaultThemeSlug = "solarized-dark"

// Theme is a Base16 palette. Base00-07 run from background to foreground;
// Base08-0F are the accents (red, orange, yellow, green, cyan, blue,
// magenta, brown).
type Theme struct {
	Name string
	Slug string

	Base00, Base01, Base02, Base03 lipgloss.Color
	Base04, Base05, Base06, Base07 lipgloss.Color
	Base08, Base09, Base0A, Base0B lipgloss.Color
	Base0C, Base0D, Base0E, Base0F lipgloss.Color
}

// SeriesPalette is the order chart series are coloured in. The reds are
// left out so a series never looks like an error badge.
func (t Theme) SeriesPalette() []lipgloss.Color {
	return []lipgloss.Color{t.Base0C, t.Base09, t.Base0E, t.Base0B, t.Base0A, t.Base0D}
}

var (
	DefaultTheme Theme
	slugs        []string
)

func init() {
	slugs = make([]string, 0, len(Themes))
	for slug, t := range Themes {
		t.Slug = slug
		Themes[slug] = t
		slugs = append(slugs, slug)
	}
	slices.Sort(slugs)
	DefaultTheme = Themes[DefaultThemeSlug]
}

// SetTheme updates the default theme.
func SetTheme(theme Theme) {
	DefaultTheme = theme
}

// GetThemeByName returns a theme by its slug, or nil if not found.
func GetThemeByName(name string) *Theme {
	if t, ok := Themes[name]; ok {
		return &t
	}
	return nil
}

// ListThemes returns the theme slugs in alphabetical order.
func ListThemes() []string {
	return slugs
}

func GetThemeCount() int {
	return len(slugs)
}

// GetThemeByIndex returns the theme at idx in ListThemes order.
func GetThemeByIndex(idx int) *Theme {
	if idx < 0 || idx >= len(slugs) {
		return nil
	}
	return GetThemeByName(slugs[idx])
}

// GetThemeIndex returns the position of slug in ListThemes, or -1.
func GetThemeIndex(slug string) int {
	return slices.Index(slugs, slug)
}
