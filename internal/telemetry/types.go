package telemetry

import (
	"fmt"
	"time"
)

// Status is the Ok/Error vocabulary reported by sensors and meters.
type Status int

const (
	StatusOK Status = iota
	StatusError
)

func (s Status) String() string {
	if s == StatusOK {
		return "ok"
	}
	return "error"
}

// MeterKind distinguishes the AC (PZEM-016) and DC (PZEM-017) meters.
type MeterKind int

const (
	MeterAC MeterKind = iota
	MeterDC
)

func (k MeterKind) String() string {
	if k == MeterAC {
		return "AC"
	}
	return "DC"
}

// Snapshot category keys as they appear in the /latest payload.
const (
	CategoryDHT22  = "dht22"
	CategoryAC     = "pzem_ac"
	CategoryDC     = "pzem_dc"
	CategorySystem = "system"
	CategoryRack   = "rack"
)

// Rack vocabulary. Comparisons are case-sensitive.
const (
	RackOnline  = "ONLINE"
	RackOffline = "OFFLINE"
	SwitchOn    = "ON"
	SwitchOff   = "OFF"
)

// EnvironmentalReading is one DHT22 temperature/humidity sample.
// Nil pointers mean the field was missing or null.
type EnvironmentalReading struct {
	Status       Status
	RawStatus    string
	Temperature  *float64
	Humidity     *float64
	ErrorMessage *string
	Timestamp    time.Time
}

// PowerMeterReading is one AC or DC power meter sample.
type PowerMeterReading struct {
	Kind         MeterKind
	Status       Status
	RawStatus    string
	Voltage      *float64 // V
	Current      *float64 // A
	Power        *float64 // W
	Energy       *float64 // kWh
	Frequency    *float64 // Hz, AC only
	PowerFactor  *float64 // AC only
	SolarStatus  *string  // DC only
	ErrorMessage *string
	Timestamp    time.Time
}

// SystemResourceSample is one host resource sample.
type SystemResourceSample struct {
	Status         Status
	RAMPercent     *float64
	CPUPercent     *float64
	StoragePercent *float64
	CPUTemperature *float64
	ErrorMessage   *string
	Timestamp      time.Time
}

// RackState is the rack controller's last reported state. Status, Lamp and
// Exhaust are kept verbatim; a nil Lamp or Exhaust was not reported.
type RackState struct {
	Status      string
	Lamp        *string
	Exhaust     *string
	Temperature *float64
	Humidity    *float64
	LastUpdate  time.Time
}

// Online reports whether the controller reported exactly "ONLINE".
func (r *RackState) Online() bool { return r.Status == RackOnline }

// LampOn reports whether the lamp relay is "ON".
func (r *RackState) LampOn() bool { return r.Lamp != nil && *r.Lamp == SwitchOn }

// ExhaustOn reports whether the exhaust fan relay is "ON".
func (r *RackState) ExhaustOn() bool { return r.Exhaust != nil && *r.Exhaust == SwitchOn }

// DashboardSnapshot holds the most recent reading of every category. A nil
// field means the backend returned nothing for it. Categories whose payload
// failed validation are listed in Invalid instead.
type DashboardSnapshot struct {
	DHT22   *EnvironmentalReading
	ACMeter *PowerMeterReading
	DCMeter *PowerMeterReading
	System  *SystemResourceSample
	Rack    *RackState
	Invalid map[string]*ValidationError
}

// FlowEndpoint is one side of the power flow.
type FlowEndpoint struct {
	PowerW   *float64
	VoltageV *float64
}

// PowerFlow pairs solar input with AC output.
type PowerFlow struct {
	SolarInput FlowEndpoint
	ACOutput   FlowEndpoint
}

// Summary is the backend's record count.
type Summary struct {
	TotalRecords int
}

// Entry is one top-level key of an opaque analysis payload.
type Entry struct {
	Key   string
	Value string
}

// Analysis is rendered as-is; its shape is owned by the backend.
type Analysis struct {
	Entries []Entry
}

// Point is one time-series sample. Null or missing numeric fields are
// absent from Fields.
type Point struct {
	Timestamp time.Time
	Status    string
	Fields    map[string]float64
}

// Value returns the named field and whether it was present.
func (p Point) Value(field string) (float64, bool) {
	v, ok := p.Fields[field]
	return v, ok
}

// ValidationError reports a malformed or missing required field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
