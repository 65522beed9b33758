package telemetry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// timeLayouts are the timestamp formats the backend emits. Python's
// isoformat() omits the zone, so naive timestamps are read as local time.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTime parses a backend timestamp.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for i, layout := range timeLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, s)
		} else {
			t, err = time.ParseInLocation(layout, s, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// rawReading is the superset of fields a sensor/meter/system row can carry.
type rawReading struct {
	Timestamp    *string         `json:"timestamp"`
	Status       *string         `json:"status"`
	ErrorMessage *string         `json:"error_message"`
	Error        *string         `json:"error"`
	Temperature  *float64        `json:"temperature"`
	Humidity     *float64        `json:"humidity"`
	RAM          *float64        `json:"ram_usage_percent"`
	CPU          *float64        `json:"cpu_usage_percent"`
	Storage      *float64        `json:"storage_usage_percent"`
	CPUTemp      *float64        `json:"cpu_temperature"`
	ParsedData   json.RawMessage `json:"parsed_data"`
	rawMeterData
}

// rawMeterData holds PZEM values, which live either in parsed_data or at
// the top level of the row.
type rawMeterData struct {
	Status      *string  `json:"status"`
	Error       *string  `json:"error"`
	VoltageV    *float64 `json:"voltage_v"`
	CurrentA    *float64 `json:"current_a"`
	PowerW      *float64 `json:"power_w"`
	EnergyKWh   *float64 `json:"energy_kwh"`
	EnergyWh    *float64 `json:"energy_wh"`
	FrequencyHz *float64 `json:"frequency_hz"`
	PowerFactor *float64 `json:"power_factor"`
	SolarStatus *string  `json:"solar_status"`
}

func decodeRow(raw json.RawMessage, field string) (*rawReading, error) {
	var r rawReading
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ValidationError{Field: field, Reason: err.Error()}
	}
	return &r, nil
}

// parseStatus maps the sensor status vocabulary. Anything other than
// "success" counts as an error but the raw string is kept.
func parseStatus(s *string, field string) (Status, string, error) {
	if s == nil || *s == "" {
		return StatusError, "", &ValidationError{Field: field + ".status", Reason: "missing"}
	}
	if *s == "success" {
		return StatusOK, *s, nil
	}
	return StatusError, *s, nil
}

func parseTimestamp(s *string, field string) (time.Time, error) {
	if s == nil || *s == "" {
		return time.Time{}, &ValidationError{Field: field + ".timestamp", Reason: "missing"}
	}
	t, err := ParseTime(*s)
	if err != nil {
		return time.Time{}, &ValidationError{Field: field + ".timestamp", Reason: err.Error()}
	}
	return t, nil
}

func firstString(vals ...*string) *string {
	for _, v := range vals {
		if v != nil && *v != "" {
			return v
		}
	}
	return nil
}

// ParseEnvironmental parses one DHT22 row.
func ParseEnvironmental(raw json.RawMessage) (*EnvironmentalReading, error) {
	r, err := decodeRow(raw, CategoryDHT22)
	if err != nil {
		return nil, err
	}
	status, rawStatus, err := parseStatus(r.Status, CategoryDHT22)
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(r.Timestamp, CategoryDHT22)
	if err != nil {
		return nil, err
	}
	return &EnvironmentalReading{
		Status:       status,
		RawStatus:    rawStatus,
		Temperature:  r.Temperature,
		Humidity:     r.Humidity,
		ErrorMessage: firstString(r.ErrorMessage, r.Error),
		Timestamp:    ts,
	}, nil
}

// ParsePowerMeter parses one PZEM row of the given kind.
func ParsePowerMeter(raw json.RawMessage, kind MeterKind) (*PowerMeterReading, error) {
	field := CategoryAC
	if kind == MeterDC {
		field = CategoryDC
	}
	r, err := decodeRow(raw, field)
	if err != nil {
		return nil, err
	}
	status, rawStatus, err := parseStatus(r.Status, field)
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(r.Timestamp, field)
	if err != nil {
		return nil, err
	}

	m := r.rawMeterData
	if len(r.ParsedData) > 0 && !bytes.Equal(bytes.TrimSpace(r.ParsedData), []byte("null")) {
		var parsed rawMeterData
		if err := json.Unmarshal(r.ParsedData, &parsed); err != nil {
			return nil, &ValidationError{Field: field + ".parsed_data", Reason: err.Error()}
		}
		m = parsed
		// The parser reports its own failures inside parsed_data.
		if m.Status != nil && *m.Status == "error" {
			status = StatusError
		}
	}

	energy := m.EnergyKWh
	if energy == nil && m.EnergyWh != nil {
		kwh := *m.EnergyWh / 1000
		energy = &kwh
	}

	reading := &PowerMeterReading{
		Kind:         kind,
		Status:       status,
		RawStatus:    rawStatus,
		Voltage:      m.VoltageV,
		Current:      m.CurrentA,
		Power:        m.PowerW,
		Energy:       energy,
		ErrorMessage: firstString(r.ErrorMessage, r.Error, m.Error),
		Timestamp:    ts,
	}
	if kind == MeterAC {
		reading.Frequency = m.FrequencyHz
		reading.PowerFactor = m.PowerFactor
	} else {
		reading.SolarStatus = m.SolarStatus
	}
	return reading, nil
}

// ParseSystem parses one system resource row.
func ParseSystem(raw json.RawMessage) (*SystemResourceSample, error) {
	r, err := decodeRow(raw, CategorySystem)
	if err != nil {
		return nil, err
	}
	status, _, err := parseStatus(r.Status, CategorySystem)
	if err != nil {
		return nil, err
	}
	ts, err := parseTimestamp(r.Timestamp, CategorySystem)
	if err != nil {
		return nil, err
	}
	return &SystemResourceSample{
		Status:         status,
		RAMPercent:     r.RAM,
		CPUPercent:     r.CPU,
		StoragePercent: r.Storage,
		CPUTemperature: r.CPUTemp,
		ErrorMessage:   firstString(r.ErrorMessage, r.Error),
		Timestamp:      ts,
	}, nil
}

type rawRack struct {
	Status      *string  `json:"status"`
	Lamp        *string  `json:"lamp"`
	Exhaust     *string  `json:"exhaust"`
	Temperature *float64 `json:"temperature"`
	Humidity    *float64 `json:"humidity"`
	LastUpdate  *string  `json:"last_update"`
}

// ParseRack parses the rack controller object. A missing last_update is
// allowed; the controller may never have reported.
func ParseRack(raw json.RawMessage) (*RackState, error) {
	var r rawRack
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, &ValidationError{Field: CategoryRack, Reason: err.Error()}
	}
	if r.Status == nil {
		return nil, &ValidationError{Field: CategoryRack + ".status", Reason: "missing"}
	}
	rack := &RackState{
		Status:      *r.Status,
		Lamp:        r.Lamp,
		Exhaust:     r.Exhaust,
		Temperature: r.Temperature,
		Humidity:    r.Humidity,
	}
	if r.LastUpdate != nil && *r.LastUpdate != "" {
		t, err := ParseTime(*r.LastUpdate)
		if err != nil {
			return nil, &ValidationError{Field: CategoryRack + ".last_update", Reason: err.Error()}
		}
		rack.LastUpdate = t
	}
	return rack, nil
}

// rawSnapshot keeps each category undecoded so one bad category does not
// take the others down with it.
type rawSnapshot struct {
	DHT22  []json.RawMessage `json:"dht22"`
	AC     []json.RawMessage `json:"pzem_ac"`
	DC     []json.RawMessage `json:"pzem_dc"`
	System []json.RawMessage `json:"system"`
	Rack   json.RawMessage   `json:"rack"`
}

// ParseSnapshot parses the /latest data object. Sequences are newest first,
// so the first element of each is used. The returned error is non-nil only
// when data is not an object at all; per-category problems are recorded in
// DashboardSnapshot.Invalid.
func ParseSnapshot(data json.RawMessage) (*DashboardSnapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "snapshot", Reason: err.Error()}
	}
	snap := &DashboardSnapshot{Invalid: make(map[string]*ValidationError)}

	record := func(category string, err error) {
		if verr, ok := err.(*ValidationError); ok {
			snap.Invalid[category] = verr
			return
		}
		snap.Invalid[category] = &ValidationError{Field: category, Reason: err.Error()}
	}

	if len(raw.DHT22) > 0 {
		r, err := ParseEnvironmental(raw.DHT22[0])
		if err != nil {
			record(CategoryDHT22, err)
		}
		snap.DHT22 = r
	}
	if len(raw.AC) > 0 {
		r, err := ParsePowerMeter(raw.AC[0], MeterAC)
		if err != nil {
			record(CategoryAC, err)
		}
		snap.ACMeter = r
	}
	if len(raw.DC) > 0 {
		r, err := ParsePowerMeter(raw.DC[0], MeterDC)
		if err != nil {
			record(CategoryDC, err)
		}
		snap.DCMeter = r
	}
	if len(raw.System) > 0 {
		r, err := ParseSystem(raw.System[0])
		if err != nil {
			record(CategorySystem, err)
		}
		snap.System = r
	}
	if len(raw.Rack) > 0 && !bytes.Equal(bytes.TrimSpace(raw.Rack), []byte("null")) {
		r, err := ParseRack(raw.Rack)
		if err != nil {
			record(CategoryRack, err)
		}
		snap.Rack = r
	}
	return snap, nil
}

// ParseSummary parses the /summary data object.
func ParseSummary(data json.RawMessage) (*Summary, error) {
	var raw struct {
		TotalRecords *int `json:"total_records"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "summary", Reason: err.Error()}
	}
	if raw.TotalRecords == nil {
		return nil, &ValidationError{Field: "summary.total_records", Reason: "missing"}
	}
	return &Summary{TotalRecords: *raw.TotalRecords}, nil
}

// ParsePowerFlow parses the /power_flow data object.
func ParsePowerFlow(data json.RawMessage) (*PowerFlow, error) {
	var raw struct {
		SolarInput *struct {
			PowerW   *float64 `json:"power_w"`
			VoltageV *float64 `json:"voltage_v"`
		} `json:"solar_input"`
		ACOutput *struct {
			PowerW   *float64 `json:"power_w"`
			VoltageV *float64 `json:"voltage_v"`
		} `json:"ac_output"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Field: "power_flow", Reason: err.Error()}
	}
	if raw.SolarInput == nil {
		return nil, &ValidationError{Field: "power_flow.solar_input", Reason: "missing"}
	}
	if raw.ACOutput == nil {
		return nil, &ValidationError{Field: "power_flow.ac_output", Reason: "missing"}
	}
	return &PowerFlow{
		SolarInput: FlowEndpoint{PowerW: raw.SolarInput.PowerW, VoltageV: raw.SolarInput.VoltageV},
		ACOutput:   FlowEndpoint{PowerW: raw.ACOutput.PowerW, VoltageV: raw.ACOutput.VoltageV},
	}, nil
}

// ParseAnalysis keeps the top-level keys of the analysis object in payload
// order, with each value as compact JSON (strings unquoted). A non-object
// payload becomes a single entry with an empty key.
func ParseAnalysis(data json.RawMessage) (*Analysis, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Analysis{}, nil
	}
	if trimmed[0] != '{' {
		return &Analysis{Entries: []Entry{{Value: compactValue(trimmed)}}}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return nil, &ValidationError{Field: "analysis", Reason: err.Error()}
	}
	a := &Analysis{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, &ValidationError{Field: "analysis", Reason: err.Error()}
		}
		key, _ := tok.(string)
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, &ValidationError{Field: "analysis." + key, Reason: err.Error()}
		}
		a.Entries = append(a.Entries, Entry{Key: key, Value: compactValue(val)})
	}
	return a, nil
}

func compactValue(raw []byte) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// ParseSeries parses a /timeseries data array in order. Numeric fields are
// collected into Point.Fields; nulls and non-numeric values are left out.
// Rows without a readable timestamp cannot be placed on a time axis and
// are skipped.
func ParseSeries(data json.RawMessage) ([]Point, error) {
	var rows []map[string]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, &ValidationError{Field: "timeseries", Reason: err.Error()}
	}
	points := make([]Point, 0, len(rows))
	for _, row := range rows {
		var tsStr string
		if err := json.Unmarshal(row["timestamp"], &tsStr); err != nil {
			continue
		}
		ts, err := ParseTime(tsStr)
		if err != nil {
			continue
		}
		p := Point{Timestamp: ts, Fields: make(map[string]float64)}
		for k, v := range row {
			switch k {
			case "timestamp":
				continue
			case "status":
				_ = json.Unmarshal(v, &p.Status)
				continue
			}
			var f *float64
			if err := json.Unmarshal(v, &f); err == nil && f != nil {
				p.Fields[k] = *f
			}
		}
		points = append(points, p)
	}
	return points, nil
}
