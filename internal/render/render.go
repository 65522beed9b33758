// Package render maps telemetry readings to panel view-state. Every
// function here is pure: the same input always yields the same output.
package render

import (
	"math"
	"strconv"
	"time"
)

// BadgeKind selects the colour of a panel's status badge.
type BadgeKind int

const (
	BadgeUnknown BadgeKind = iota
	BadgeSuccess
	BadgeError
)

func (b BadgeKind) String() string {
	switch b {
	case BadgeSuccess:
		return "success"
	case BadgeError:
		return "error"
	default:
		return "unknown"
	}
}

// Badge and body texts shared by every panel.
const (
	TextOnline  = "Online"
	TextOffline = "Offline"
	TextError   = "Error"
	TextNoData  = "No Data"

	NoDataLine   = "No data available"
	GenericError = "Sensor error"
	Placeholder  = "--"
	UnknownValue = "Unknown"
)

// Panel titles.
const (
	TitleEnvironment = "Environment"
	TitleACMeter     = "AC Output"
	TitleDCMeter     = "Solar Input"
	TitleSystem      = "System"
	TitleRack        = "Rack"
	TitlePowerFlow   = "Power Flow"
	TitleSummary     = "Summary"
	TitleAnalysis    = "Analysis"
)

// TimeLayout is used for every timestamp line.
const TimeLayout = "2006-01-02 15:04:05"

// Line is one row of a panel body. Label may be empty for free-text rows.
type Line struct {
	Label string
	Value string
	Unit  string
}

// Text joins value and unit the way the panel displays them, e.g. "22.5°C".
func (l Line) Text() string {
	return l.Value + l.Unit
}

// PanelViewState is everything the UI needs to draw one panel.
type PanelViewState struct {
	Title     string
	Badge     BadgeKind
	BadgeText string
	Lines     []Line
}

// NoData is the view-state for a category the backend returned nothing for.
func NoData(title string) PanelViewState {
	return PanelViewState{
		Title:     title,
		Badge:     BadgeUnknown,
		BadgeText: TextNoData,
		Lines:     []Line{{Value: NoDataLine}},
	}
}

// Failed is the view-state for a reading that reported an error. Metric
// fields are never shown, even if the payload carried them.
func Failed(title string, message *string, ts time.Time) PanelViewState {
	msg := GenericError
	if message != nil && *message != "" {
		msg = *message
	}
	return PanelViewState{
		Title:     title,
		Badge:     BadgeError,
		BadgeText: TextError,
		Lines: []Line{
			{Value: msg},
			{Label: "Last reading", Value: formatTime(ts)},
		},
	}
}

// Invalid is the view-state for a payload that failed validation.
func Invalid(title string, err error) PanelViewState {
	return PanelViewState{
		Title:     title,
		Badge:     BadgeError,
		BadgeText: TextError,
		Lines: []Line{
			{Value: "Invalid data"},
			{Label: "Reason", Value: err.Error()},
		},
	}
}

// FormatNumber renders v with at most two decimals and no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

// orZero renders an optional quantity, falling back to 0 when absent.
func orZero(v *float64) string {
	if v == nil {
		return "0"
	}
	return FormatNumber(*v)
}

// orPlaceholder renders an optional quantity, falling back to "--".
func orPlaceholder(v *float64) string {
	if v == nil {
		return Placeholder
	}
	return FormatNumber(*v)
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return t.Format(TimeLayout)
}
