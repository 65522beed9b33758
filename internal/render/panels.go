package render

import (
	"strconv"

	"github.com/tonhe/solmon/internal/telemetry"
)

// Environmental renders the DHT22 panel.
func Environmental(r *telemetry.EnvironmentalReading) PanelViewState {
	if r == nil {
		return NoData(TitleEnvironment)
	}
	if r.Status == telemetry.StatusError {
		return Failed(TitleEnvironment, r.ErrorMessage, r.Timestamp)
	}
	return PanelViewState{
		Title:     TitleEnvironment,
		Badge:     BadgeSuccess,
		BadgeText: TextOnline,
		Lines: []Line{
			{Label: "Temperature", Value: orZero(r.Temperature), Unit: "°C"},
			{Label: "Humidity", Value: orZero(r.Humidity), Unit: "%"},
			{Label: "Updated", Value: formatTime(r.Timestamp)},
		},
	}
}

// PowerMeter renders the AC or DC meter panel.
func PowerMeter(kind telemetry.MeterKind, r *telemetry.PowerMeterReading) PanelViewState {
	title := TitleACMeter
	if kind == telemetry.MeterDC {
		title = TitleDCMeter
	}
	if r == nil {
		return NoData(title)
	}
	if r.Status == telemetry.StatusError {
		return Failed(title, r.ErrorMessage, r.Timestamp)
	}

	lines := []Line{
		{Label: "Voltage", Value: orZero(r.Voltage), Unit: "V"},
		{Label: "Current", Value: orZero(r.Current), Unit: "A"},
		{Label: "Power", Value: orZero(r.Power), Unit: "W"},
		{Label: "Energy", Value: orZero(r.Energy), Unit: "kWh"},
	}
	if kind == telemetry.MeterAC {
		lines = append(lines,
			Line{Label: "Frequency", Value: orZero(r.Frequency), Unit: "Hz"},
			Line{Label: "Power Factor", Value: orZero(r.PowerFactor)},
			Line{Label: "Voltage status", Value: classified(r.Voltage, telemetry.ClassifyACVoltage)},
			Line{Label: "PF quality", Value: classified(r.PowerFactor, telemetry.ClassifyPowerFactor)},
			Line{Label: "Load", Value: telemetry.ClassifyLoad(value(r.Power))},
		)
	} else {
		solar := UnknownValue
		if r.SolarStatus != nil && *r.SolarStatus != "" {
			solar = *r.SolarStatus
		}
		lines = append(lines,
			Line{Label: "Sunlight", Value: solar},
			Line{Label: "Generation", Value: telemetry.ClassifyGeneration(value(r.Power))},
		)
	}
	lines = append(lines, Line{Label: "Updated", Value: formatTime(r.Timestamp)})

	return PanelViewState{Title: title, Badge: BadgeSuccess, BadgeText: TextOnline, Lines: lines}
}

// System renders the host resource panel.
func System(r *telemetry.SystemResourceSample) PanelViewState {
	if r == nil {
		return NoData(TitleSystem)
	}
	if r.Status == telemetry.StatusError {
		return Failed(TitleSystem, r.ErrorMessage, r.Timestamp)
	}
	return PanelViewState{
		Title:     TitleSystem,
		Badge:     BadgeSuccess,
		BadgeText: TextOnline,
		Lines: []Line{
			{Label: "CPU", Value: orZero(r.CPUPercent), Unit: "%"},
			{Label: "RAM", Value: orZero(r.RAMPercent), Unit: "%"},
			{Label: "Storage", Value: orZero(r.StoragePercent), Unit: "%"},
			{Label: "CPU Temp", Value: orZero(r.CPUTemperature), Unit: "°C"},
			{Label: "Updated", Value: formatTime(r.Timestamp)},
		},
	}
}

// Rack renders the rack controller panel. Anything other than exactly
// "ONLINE" is shown as offline, with the reported string kept verbatim.
func Rack(r *telemetry.RackState) PanelViewState {
	if r == nil {
		return NoData(TitleRack)
	}
	badge, text := BadgeError, TextOffline
	if r.Online() {
		badge, text = BadgeSuccess, TextOnline
	}
	return PanelViewState{
		Title:     TitleRack,
		Badge:     badge,
		BadgeText: text,
		Lines: []Line{
			{Label: "Status", Value: r.Status},
			{Label: "Lamp", Value: orUnknown(r.Lamp)},
			{Label: "Exhaust", Value: orUnknown(r.Exhaust)},
			{Label: "Temperature", Value: orPlaceholder(r.Temperature), Unit: unitUnlessAbsent(r.Temperature, "°C")},
			{Label: "Humidity", Value: orPlaceholder(r.Humidity), Unit: unitUnlessAbsent(r.Humidity, "%")},
			{Label: "Last Update", Value: formatTime(r.LastUpdate)},
		},
	}
}

// orUnknown renders an optional status string, falling back to "Unknown".
func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return UnknownValue
	}
	return *s
}

func unitUnlessAbsent(v *float64, unit string) string {
	if v == nil {
		return ""
	}
	return unit
}

// Summary renders the record count panel.
func Summary(s *telemetry.Summary) PanelViewState {
	if s == nil {
		return NoData(TitleSummary)
	}
	return PanelViewState{
		Title:     TitleSummary,
		Badge:     BadgeSuccess,
		BadgeText: TextOnline,
		Lines:     []Line{{Label: "Total Records", Value: strconv.Itoa(s.TotalRecords)}},
	}
}

// Analysis renders the backend's analysis object as-is, one line per key.
func Analysis(a *telemetry.Analysis) PanelViewState {
	if a == nil || len(a.Entries) == 0 {
		return NoData(TitleAnalysis)
	}
	lines := make([]Line, 0, len(a.Entries))
	for _, e := range a.Entries {
		lines = append(lines, Line{Label: e.Key, Value: e.Value})
	}
	return PanelViewState{
		Title:     TitleAnalysis,
		Badge:     BadgeSuccess,
		BadgeText: TextOnline,
		Lines:     lines,
	}
}

// classified labels a metric, or reports Unknown when it was not sent.
func classified(v *float64, classify func(float64) string) string {
	if v == nil {
		return UnknownValue
	}
	return classify(*v)
}
