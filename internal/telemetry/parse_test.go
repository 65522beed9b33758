package telemetry

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimeLayouts(t *testing.T) {
	inputs := []string{
		"2024-05-01T10:20:30Z",
		"2024-05-01T10:20:30.123456",
		"2024-05-01 10:20:30",
		"2024-05-01T10:20:30",
	}
	for _, in := range inputs {
		got, err := ParseTime(in)
		if err != nil {
			t.Errorf("ParseTime(%q) error: %v", in, err)
			continue
		}
		if got.Year() != 2024 || got.Month() != time.May || got.Minute() != 20 {
			t.Errorf("ParseTime(%q) = %v", in, got)
		}
	}
	if _, err := ParseTime("yesterday"); err == nil {
		t.Error("expected error for unparseable timestamp")
	}
}

func TestParseEnvironmentalOK(t *testing.T) {
	r, err := ParseEnvironmental(json.RawMessage(`{"status":"success","temperature":22.5,"humidity":60,"timestamp":"2024-05-01T10:00:00"}`))
	if err != nil {
		t.Fatalf("ParseEnvironmental() error: %v", err)
	}
	if r.Status != StatusOK {
		t.Errorf("expected StatusOK, got %v", r.Status)
	}
	if r.Temperature == nil || *r.Temperature != 22.5 {
		t.Errorf("expected temperature 22.5, got %v", r.Temperature)
	}
	if r.Humidity == nil || *r.Humidity != 60 {
		t.Errorf("expected humidity 60, got %v", r.Humidity)
	}
}

func TestParseEnvironmentalPreservesAbsence(t *testing.T) {
	r, err := ParseEnvironmental(json.RawMessage(`{"status":"success","temperature":0,"humidity":null,"timestamp":"2024-05-01T10:00:00"}`))
	if err != nil {
		t.Fatalf("ParseEnvironmental() error: %v", err)
	}
	if r.Temperature == nil || *r.Temperature != 0 {
		t.Errorf("zero temperature should be present, got %v", r.Temperature)
	}
	if r.Humidity != nil {
		t.Errorf("null humidity should be absent, got %v", *r.Humidity)
	}
}

func TestParseEnvironmentalError(t *testing.T) {
	r, err := ParseEnvironmental(json.RawMessage(`{"status":"error","error_message":"sensor timeout","timestamp":"2024-05-01T10:00:00"}`))
	if err != nil {
		t.Fatalf("ParseEnvironmental() error: %v", err)
	}
	if r.Status != StatusError {
		t.Errorf("expected StatusError, got %v", r.Status)
	}
	if r.ErrorMessage == nil || *r.ErrorMessage != "sensor timeout" {
		t.Errorf("expected error message, got %v", r.ErrorMessage)
	}
}

func TestParseEnvironmentalUnknownStatus(t *testing.T) {
	r, err := ParseEnvironmental(json.RawMessage(`{"status":"stale","timestamp":"2024-05-01T10:00:00"}`))
	if err != nil {
		t.Fatalf("ParseEnvironmental() error: %v", err)
	}
	if r.Status != StatusError || r.RawStatus != "stale" {
		t.Errorf("expected error status with raw 'stale', got %v %q", r.Status, r.RawStatus)
	}
}

func TestParseEnvironmentalValidation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"missing status", `{"timestamp":"2024-05-01T10:00:00"}`, "dht22.status"},
		{"missing timestamp", `{"status":"success"}`, "dht22.timestamp"},
		{"bad timestamp", `{"status":"success","timestamp":"soon"}`, "dht22.timestamp"},
		{"wrong type", `{"status":"success","temperature":"hot","timestamp":"2024-05-01T10:00:00"}`, "dht22"},
	}
	for _, tt := range tests {
		_, err := ParseEnvironmental(json.RawMessage(tt.input))
		verr, ok := err.(*ValidationError)
		if !ok {
			t.Errorf("%s: expected ValidationError, got %T %v", tt.name, err, err)
			continue
		}
		if verr.Field != tt.field {
			t.Errorf("%s: expected field %q, got %q", tt.name, tt.field, verr.Field)
		}
	}
}

func TestParsePowerMeterParsedData(t *testing.T) {
	raw := `{"status":"success","timestamp":"2024-05-01T10:00:00","device_type":"PZEM-017_DC",
		"parsed_data":{"voltage_v":73.6,"current_a":0.25,"power_w":18.4,"energy_wh":1939,"solar_status":"Low sunlight","status":"success"}}`
	r, err := ParsePowerMeter(json.RawMessage(raw), MeterDC)
	if err != nil {
		t.Fatalf("ParsePowerMeter() error: %v", err)
	}
	if r.Kind != MeterDC || r.Status != StatusOK {
		t.Errorf("unexpected kind/status %v/%v", r.Kind, r.Status)
	}
	if r.Voltage == nil || *r.Voltage != 73.6 {
		t.Errorf("expected voltage 73.6, got %v", r.Voltage)
	}
	if r.Energy == nil || *r.Energy != 1.939 {
		t.Errorf("expected energy 1.939 kWh derived from Wh, got %v", r.Energy)
	}
	if r.SolarStatus == nil || *r.SolarStatus != "Low sunlight" {
		t.Errorf("expected solar status, got %v", r.SolarStatus)
	}
	if r.Frequency != nil {
		t.Error("DC reading should not carry frequency")
	}
}

func TestParsePowerMeterTopLevelAC(t *testing.T) {
	raw := `{"status":"success","timestamp":"2024-05-01T10:00:00","voltage_v":220.1,"power_w":40,"frequency_hz":50,"power_factor":0.85,"energy_kwh":2.5}`
	r, err := ParsePowerMeter(json.RawMessage(raw), MeterAC)
	if err != nil {
		t.Fatalf("ParsePowerMeter() error: %v", err)
	}
	if r.Frequency == nil || *r.Frequency != 50 {
		t.Errorf("expected frequency 50, got %v", r.Frequency)
	}
	if r.PowerFactor == nil || *r.PowerFactor != 0.85 {
		t.Errorf("expected pf 0.85, got %v", r.PowerFactor)
	}
	if r.Current != nil {
		t.Errorf("missing current should be absent, got %v", *r.Current)
	}
}

func TestParsePowerMeterParserFailure(t *testing.T) {
	raw := `{"status":"success","timestamp":"2024-05-01T10:00:00","parsed_data":{"status":"error","error":"Insufficient data for PZEM-016 AC"}}`
	r, err := ParsePowerMeter(json.RawMessage(raw), MeterAC)
	if err != nil {
		t.Fatalf("ParsePowerMeter() error: %v", err)
	}
	if r.Status != StatusError {
		t.Errorf("expected StatusError from parsed_data, got %v", r.Status)
	}
	if r.ErrorMessage == nil || *r.ErrorMessage != "Insufficient data for PZEM-016 AC" {
		t.Errorf("expected parser error message, got %v", r.ErrorMessage)
	}
}

func TestParseRack(t *testing.T) {
	r, err := ParseRack(json.RawMessage(`{"status":"ONLINE","lamp":"ON","exhaust":"OFF","temperature":null,"humidity":null,"last_update":null}`))
	if err != nil {
		t.Fatalf("ParseRack() error: %v", err)
	}
	if !r.Online() || !r.LampOn() || r.ExhaustOn() {
		t.Errorf("unexpected rack flags %+v", r)
	}
	if r.Temperature != nil || !r.LastUpdate.IsZero() {
		t.Errorf("expected absent temperature and zero last update, got %+v", r)
	}

	r, err = ParseRack(json.RawMessage(`{"status":"online"}`))
	if err != nil {
		t.Fatalf("ParseRack() error: %v", err)
	}
	if r.Online() {
		t.Error("status comparison must be case-sensitive")
	}
	if r.Lamp != nil || r.Exhaust != nil || r.LampOn() || r.ExhaustOn() {
		t.Errorf("expected unreported relays to stay absent, got lamp=%v exhaust=%v", r.Lamp, r.Exhaust)
	}
	if r.Status != "online" {
		t.Errorf("expected verbatim status, got %q", r.Status)
	}
}

func TestParseSnapshotMostRecentAndIsolation(t *testing.T) {
	data := `{
		"dht22":[{"status":"success","temperature":22.5,"humidity":60,"timestamp":"2024-05-01T10:01:00"},
		         {"status":"success","temperature":21.0,"humidity":55,"timestamp":"2024-05-01T10:00:00"}],
		"system":[{"status":"success","timestamp":"nope"}],
		"pzem_ac":[],
		"rack":{"status":"OFFLINE"}
	}`
	snap, err := ParseSnapshot(json.RawMessage(data))
	if err != nil {
		t.Fatalf("ParseSnapshot() error: %v", err)
	}
	if snap.DHT22 == nil || *snap.DHT22.Temperature != 22.5 {
		t.Errorf("expected newest dht22 reading, got %+v", snap.DHT22)
	}
	if snap.System != nil {
		t.Error("invalid system row should not produce a reading")
	}
	if _, ok := snap.Invalid[CategorySystem]; !ok {
		t.Error("expected system validation error to be recorded")
	}
	if snap.ACMeter != nil || snap.DCMeter != nil {
		t.Error("empty meter sequences should be absent")
	}
	if snap.Rack == nil || snap.Rack.Online() {
		t.Errorf("expected offline rack, got %+v", snap.Rack)
	}
}

func TestParseSnapshotNotObject(t *testing.T) {
	if _, err := ParseSnapshot(json.RawMessage(`[1,2]`)); err == nil {
		t.Error("expected error for non-object snapshot")
	}
}

func TestParseSummary(t *testing.T) {
	s, err := ParseSummary(json.RawMessage(`{"total_records":1234}`))
	if err != nil {
		t.Fatalf("ParseSummary() error: %v", err)
	}
	if s.TotalRecords != 1234 {
		t.Errorf("expected 1234, got %d", s.TotalRecords)
	}
	if _, err := ParseSummary(json.RawMessage(`{}`)); err == nil {
		t.Error("expected error for missing total_records")
	}
}

func TestParsePowerFlow(t *testing.T) {
	pf, err := ParsePowerFlow(json.RawMessage(`{"solar_input":{"power_w":100,"voltage_v":18.2},"ac_output":{"power_w":null}}`))
	if err != nil {
		t.Fatalf("ParsePowerFlow() error: %v", err)
	}
	if pf.SolarInput.PowerW == nil || *pf.SolarInput.PowerW != 100 {
		t.Errorf("expected solar power 100, got %v", pf.SolarInput.PowerW)
	}
	if pf.ACOutput.PowerW != nil {
		t.Error("null ac power should be absent")
	}
	if _, err := ParsePowerFlow(json.RawMessage(`{"solar_input":{}}`)); err == nil {
		t.Error("expected error for missing ac_output")
	}
}

func TestParseAnalysisKeepsOrder(t *testing.T) {
	a, err := ParseAnalysis(json.RawMessage(`{"zeta":"last?","alpha":{"n":1},"mid":[1,2]}`))
	if err != nil {
		t.Fatalf("ParseAnalysis() error: %v", err)
	}
	want := []Entry{{"zeta", "last?"}, {"alpha", `{"n":1}`}, {"mid", "[1,2]"}}
	if len(a.Entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(a.Entries))
	}
	for i := range want {
		if a.Entries[i] != want[i] {
			t.Errorf("entry %d: got %+v, want %+v", i, a.Entries[i], want[i])
		}
	}

	a, err = ParseAnalysis(json.RawMessage(`"placeholder"`))
	if err != nil {
		t.Fatalf("ParseAnalysis() error: %v", err)
	}
	if len(a.Entries) != 1 || a.Entries[0].Value != "placeholder" {
		t.Errorf("expected single opaque entry, got %+v", a.Entries)
	}
}

func TestParseSeries(t *testing.T) {
	data := `[
		{"timestamp":"2024-05-01T10:00:00","temperature":21.5,"humidity":50,"status":"success"},
		{"timestamp":"2024-05-01T10:01:00","temperature":null,"humidity":51,"status":"success"},
		{"temperature":22,"humidity":52},
		{"timestamp":"2024-05-01T10:02:00","temperature":0,"humidity":53}
	]`
	points, err := ParseSeries(json.RawMessage(data))
	if err != nil {
		t.Fatalf("ParseSeries() error: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points (row without timestamp skipped), got %d", len(points))
	}
	if _, ok := points[1].Value("temperature"); ok {
		t.Error("null temperature should be absent")
	}
	if v, ok := points[2].Value("temperature"); !ok || v != 0 {
		t.Errorf("zero temperature should be present, got %v %v", v, ok)
	}
	if points[0].Status != "success" {
		t.Errorf("expected status to be kept, got %q", points[0].Status)
	}
	if !points[0].Timestamp.Before(points[2].Timestamp) {
		t.Error("order should be preserved")
	}
}

func TestClassifiers(t *testing.T) {
	if got := ClassifyLoad(40); got != "Light load" {
		t.Errorf("ClassifyLoad(40) = %q", got)
	}
	if got := ClassifyACVoltage(250); got != "High voltage" {
		t.Errorf("ClassifyACVoltage(250) = %q", got)
	}
	if got := ClassifyPowerFactor(0.95); got != "Good" {
		t.Errorf("ClassifyPowerFactor(0.95) = %q", got)
	}
	if got := ClassifyGeneration(0); got != "No generation" {
		t.Errorf("ClassifyGeneration(0) = %q", got)
	}
}
