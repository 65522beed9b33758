package styles

import "github.com/charmbracelet/lipgloss"

// Styles holds all themed lipgloss styles for the application.
type Styles struct {
	// Layout
	AppContainer lipgloss.Style

	// Header / Footer
	Header       lipgloss.Style
	HeaderTitle  lipgloss.Style
	HeaderStatus lipgloss.Style
	Footer       lipgloss.Style
	FooterKey    lipgloss.Style
	FooterDesc   lipgloss.Style

	// Panels
	PanelBorder      lipgloss.Style
	PanelBorderFocus lipgloss.Style
	PanelTitle       lipgloss.Style
	PanelLabel       lipgloss.Style
	PanelValue       lipgloss.Style
	PanelDim         lipgloss.Style

	// Status badges
	BadgeSuccess lipgloss.Style
	BadgeError   lipgloss.Style
	BadgeUnknown lipgloss.Style

	// Flow indicators
	FlowActive   lipgloss.Style
	FlowInactive lipgloss.Style

	// Charts
	ChartAxis   lipgloss.Style
	ChartSeries []lipgloss.Style

	// Sparkline
	SparklineStyle lipgloss.Style

	// Notifications
	NotifyInfo    lipgloss.Style
	NotifySuccess lipgloss.Style
	NotifyError   lipgloss.Style

	// Modal / overlay
	ModalBorder lipgloss.Style
	ModalTitle  lipgloss.Style

	// Form
	FormLabel       lipgloss.Style
	FormInput       lipgloss.Style
	FormInputActive lipgloss.Style
	FormCursor      lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(theme Theme) *Styles {
	badge := lipgloss.NewStyle().
		Foreground(theme.Base00).
		Bold(true).
		Padding(0, 1)
	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Background(theme.Base01).
		Foreground(theme.Base05).
		Padding(0, 1)

	series := make([]lipgloss.Style, 0, 6)
	for _, c := range theme.SeriesPalette() {
		series = append(series, lipgloss.NewStyle().Foreground(c))
	}

	return &Styles{
		ChartSeries: series,
		AppContainer: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base00),

		Header: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Background(theme.Base01).
			Bold(true).
			Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		HeaderStatus: lipgloss.NewStyle().
			Foreground(theme.Base0B),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Base04).
			Background(theme.Base01).
			Padding(0, 1),
		FooterKey: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		FooterDesc: lipgloss.NewStyle().
			Foreground(theme.Base04),

		PanelBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base03).
			Padding(0, 1),
		PanelBorderFocus: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			Padding(0, 1),
		PanelTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),
		PanelLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		PanelValue: lipgloss.NewStyle().
			Foreground(theme.Base05).
			Bold(true),
		PanelDim: lipgloss.NewStyle().
			Foreground(theme.Base03),

		BadgeSuccess: badge.Background(theme.Base0B),
		BadgeError:   badge.Background(theme.Base08),
		BadgeUnknown: badge.Background(theme.Base03),

		FlowActive: lipgloss.NewStyle().
			Foreground(theme.Base0A).
			Bold(true),
		FlowInactive: lipgloss.NewStyle().
			Foreground(theme.Base03),

		ChartAxis: lipgloss.NewStyle().
			Foreground(theme.Base04),

		SparklineStyle: lipgloss.NewStyle().
			Foreground(theme.Base0C),

		NotifyInfo:    toast.BorderForeground(theme.Base0D),
		NotifySuccess: toast.BorderForeground(theme.Base0B),
		NotifyError:   toast.BorderForeground(theme.Base08),

		ModalBorder: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Base0D).
			BorderBackground(theme.Base00).
			Background(theme.Base00).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(theme.Base0D).
			Bold(true),

		FormLabel: lipgloss.NewStyle().
			Foreground(theme.Base04),
		FormInput: lipgloss.NewStyle().
			Foreground(theme.Base05),
		FormInputActive: lipgloss.NewStyle().
			Foreground(theme.Base06).
			Background(theme.Base02),
		FormCursor: lipgloss.NewStyle().
			Foreground(theme.Base0B),
	}
}

// SeriesStyle returns the colour for the i-th series of a chart.
func (s *Styles) SeriesStyle(i int) lipgloss.Style {
	if len(s.ChartSeries) == 0 {
		return lipgloss.NewStyle()
	}
	return s.ChartSeries[i%len(s.ChartSeries)]
}
