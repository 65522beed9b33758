package render

import (
	"math"
	"strconv"

	"github.com/tonhe/solmon/internal/telemetry"
)

// DefaultInactiveThresholdW is the power at or below which a flow leg is
// drawn as inactive.
const DefaultInactiveThresholdW = 1.0

// Policy holds the tunables of the power-flow panel.
type Policy struct {
	InactiveThresholdW float64
}

// DefaultPolicy returns the stock power-flow policy.
func DefaultPolicy() Policy {
	return Policy{InactiveThresholdW: DefaultInactiveThresholdW}
}

// FlowViewState is the power-flow panel plus the derived values the UI uses
// to highlight the flow arrows.
type FlowViewState struct {
	Panel       PanelViewState
	Efficiency  int
	SolarActive bool
	ACActive    bool
}

// MaxEfficiency bounds the efficiency percentage in either direction.
const MaxEfficiency = 9999

// Efficiency returns round(ac/solar*100) clamped to ±MaxEfficiency, or 0
// when solar power is not positive or either value is not finite.
func Efficiency(solarW, acW float64) int {
	if solarW <= 0 || math.IsInf(solarW, 0) || math.IsNaN(acW) || math.IsInf(acW, 0) {
		return 0
	}
	ratio := acW / solarW * 100
	if math.IsNaN(ratio) {
		return 0
	}
	ratio = math.Max(-MaxEfficiency, math.Min(MaxEfficiency, ratio))
	return int(math.Round(ratio))
}

// PowerFlow renders the power-flow panel.
func PowerFlow(pf *telemetry.PowerFlow, policy Policy) FlowViewState {
	if pf == nil {
		return FlowViewState{Panel: NoData(TitlePowerFlow)}
	}
	solar := value(pf.SolarInput.PowerW)
	ac := value(pf.ACOutput.PowerW)
	eff := Efficiency(solar, ac)

	return FlowViewState{
		Panel: PanelViewState{
			Title:     TitlePowerFlow,
			Badge:     BadgeSuccess,
			BadgeText: TextOnline,
			Lines: []Line{
				{Label: "Solar", Value: orZero(pf.SolarInput.PowerW), Unit: "W"},
				{Label: "Solar Voltage", Value: orZero(pf.SolarInput.VoltageV), Unit: "V"},
				{Label: "AC Output", Value: orZero(pf.ACOutput.PowerW), Unit: "W"},
				{Label: "AC Voltage", Value: orZero(pf.ACOutput.VoltageV), Unit: "V"},
				{Label: "Efficiency", Value: strconv.Itoa(eff), Unit: "%"},
			},
		},
		Efficiency:  eff,
		SolarActive: solar > policy.InactiveThresholdW,
		ACActive:    ac > policy.InactiveThresholdW,
	}
}
