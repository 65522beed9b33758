package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Series kinds served by /timeseries/{kind}.
const (
	SeriesDHT22  = "dht22"
	SeriesSystem = "system"
	SeriesRack   = "rack"
)

// envelope is the {success, data} wrapper used on every documented path.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// fetchData fetches path and unwraps the envelope, returning data.
func (c *Client) fetchData(ctx context.Context, path string, query map[string]string) (json.RawMessage, error) {
	raw, err := c.FetchResource(ctx, path, query)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	if !env.Success {
		return nil, &DecodeError{Cause: fmt.Errorf("%s: %w", path, errUnsuccessful)}
	}
	return env.Data, nil
}

// Latest fetches the most recent readings for every device category.
func (c *Client) Latest(ctx context.Context, limit int) (json.RawMessage, error) {
	return c.fetchData(ctx, "/latest", map[string]string{"limit": strconv.Itoa(limit)})
}

// Summary fetches record counts.
func (c *Client) Summary(ctx context.Context) (json.RawMessage, error) {
	return c.fetchData(ctx, "/summary", nil)
}

// TimeSeries fetches the last hours of samples for kind (dht22, system, rack).
func (c *Client) TimeSeries(ctx context.Context, kind string, hours int) (json.RawMessage, error) {
	switch kind {
	case SeriesDHT22, SeriesSystem, SeriesRack:
	default:
		return nil, fmt.Errorf("unknown series kind %q", kind)
	}
	return c.fetchData(ctx, "/timeseries/"+kind, map[string]string{"hours": strconv.Itoa(hours)})
}

// PowerFlow fetches the solar input / AC output flow sample.
func (c *Client) PowerFlow(ctx context.Context) (json.RawMessage, error) {
	return c.fetchData(ctx, "/power_flow", nil)
}

// Analysis fetches the backend's analysis object.
func (c *Client) Analysis(ctx context.Context) (json.RawMessage, error) {
	return c.fetchData(ctx, "/analysis", nil)
}

// Health reports whether /health answers {"status":"ok"}. The health
// endpoint is not wrapped in an envelope.
func (c *Client) Health(ctx context.Context) (bool, error) {
	raw, err := c.FetchResource(ctx, "/health", nil)
	if err != nil {
		return false, err
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return false, &DecodeError{Cause: err}
	}
	return body.Status == "ok", nil
}
