package source

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestLatestUnwrapsEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"dht22":[]}}`))
	})
	data, err := c.Latest(context.Background(), 20)
	if err != nil {
		t.Fatalf("Latest() error: %v", err)
	}
	if string(data) != `{"dht22":[]}` {
		t.Errorf("unexpected data %s", data)
	}
}

func TestUnsuccessfulEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"error":"db locked"}`))
	})
	_, err := c.Summary(context.Background())
	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected DecodeError, got %T %v", err, err)
	}
	if !IsUnsuccessful(err) {
		t.Errorf("expected IsUnsuccessful to be true for %v", err)
	}
}

func TestTimeSeriesPath(t *testing.T) {
	var gotPath, gotHours string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHours = r.URL.Query().Get("hours")
		w.Write([]byte(`{"success":true,"data":[]}`))
	})
	if _, err := c.TimeSeries(context.Background(), SeriesRack, 6); err != nil {
		t.Fatalf("TimeSeries() error: %v", err)
	}
	if gotPath != "/api/timeseries/rack" || gotHours != "6" {
		t.Errorf("unexpected request %s hours=%s", gotPath, gotHours)
	}
}

func TestTimeSeriesUnknownKind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for unknown kind")
	})
	if _, err := c.TimeSeries(context.Background(), "pzem", 6); err == nil {
		t.Error("expected error for unknown series kind")
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`{"status":"ok"}`, true},
		{`{"status":"degraded"}`, false},
	}
	for _, tt := range tests {
		body := tt.body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		got, err := c.Health(context.Background())
		if err != nil {
			t.Fatalf("Health() error: %v", err)
		}
		if got != tt.want {
			t.Errorf("Health(%s) = %v, want %v", tt.body, got, tt.want)
		}
	}
}
