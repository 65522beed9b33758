package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/tonhe/solmon/internal/metrics"
	"github.com/tonhe/solmon/internal/render"
	"github.com/tonhe/solmon/internal/source"
	"github.com/tonhe/solmon/internal/telemetry"
)

type fetchResult struct {
	data json.RawMessage
	err  error
}

// cycle is one refresh pass. Every fetch is issued at once and nothing is
// applied until all of them have resolved. A cycle that was cancelled or
// overtaken by a newer one applies nothing.
func (c *Controller) cycle(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	begin := time.Now()
	var (
		wg                              sync.WaitGroup
		latest, summary, flow, analysis fetchResult
		series                          = make(map[string]*fetchResult)
	)
	fetch := func(dst *fetchResult, fn func(context.Context) (json.RawMessage, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dst.data, dst.err = fn(ctx)
		}()
	}

	fetch(&latest, func(ctx context.Context) (json.RawMessage, error) {
		return c.client.Latest(ctx, c.opts.LatestLimit)
	})
	fetch(&summary, c.client.Summary)
	fetch(&flow, c.client.PowerFlow)
	fetch(&analysis, c.client.Analysis)
	for _, kind := range c.layout.Sources() {
		kind := kind
		res := &fetchResult{}
		series[kind] = res
		fetch(res, func(ctx context.Context) (json.RawMessage, error) {
			return c.client.TimeSeries(ctx, kind, c.opts.HistoryHours)
		})
	}
	wg.Wait()
	elapsed := time.Since(begin)

	c.mu.Lock()
	if ctx.Err() != nil || gen != c.generation || c.closed {
		c.mu.Unlock()
		c.metrics.ObserveCycle(metrics.ResultSuperseded, elapsed)
		c.log.Debugw("cycle_discarded", "generation", gen)
		return nil
	}

	animate := isManual(ctx) || !c.loaded
	var snapErr error
	cause := c.applySnapshotLocked(latest)
	if cause != nil {
		snapErr = fmt.Errorf("%w: %w", errSnapshot, cause)
	}
	c.applyPanelLocked(PanelSummary, EndpointSummary, summary, func(data json.RawMessage) (render.PanelViewState, error) {
		s, err := telemetry.ParseSummary(data)
		if err != nil {
			return render.Invalid(render.TitleSummary, err), err
		}
		return render.Summary(s), nil
	})
	c.applyPanelLocked(PanelAnalysis, EndpointAnalysis, analysis, func(data json.RawMessage) (render.PanelViewState, error) {
		a, err := telemetry.ParseAnalysis(data)
		if err != nil {
			return render.Invalid(render.TitleAnalysis, err), err
		}
		return render.Analysis(a), nil
	})
	c.applyFlowLocked(flow)
	for kind, res := range series {
		c.applySeriesLocked(kind, *res, animate)
	}

	c.cycles++
	c.loaded = true
	c.lastErr = snapErr
	c.mu.Unlock()

	c.latency.Add(elapsed.Seconds())
	if snapErr != nil {
		c.metrics.ObserveCycle(metrics.ResultFailed, elapsed)
		c.notes.Push(NotifyError, fmt.Sprintf("%s: %v", MsgLoadFailed, cause))
	} else {
		c.metrics.ObserveCycle(metrics.ResultOK, elapsed)
	}
	c.publish(EventRefreshed)
	return snapErr
}

// applySnapshotLocked updates the five device panels. On failure the panels
// keep their last good state and the cause is returned.
func (c *Controller) applySnapshotLocked(res fetchResult) error {
	if res.err != nil {
		c.fetchFailedLocked(EndpointLatest, res.err)
		return res.err
	}
	snap, err := telemetry.ParseSnapshot(res.data)
	if err != nil {
		c.fetchFailedLocked(EndpointLatest, err)
		return err
	}

	c.snapshot = snap
	c.lastUpdated = c.now()
	c.panels[PanelEnvironment] = panelOrInvalid(snap, telemetry.CategoryDHT22, render.TitleEnvironment, render.Environmental(snap.DHT22))
	c.panels[PanelAC] = panelOrInvalid(snap, telemetry.CategoryAC, render.TitleACMeter, render.PowerMeter(telemetry.MeterAC, snap.ACMeter))
	c.panels[PanelDC] = panelOrInvalid(snap, telemetry.CategoryDC, render.TitleDCMeter, render.PowerMeter(telemetry.MeterDC, snap.DCMeter))
	c.panels[PanelSystem] = panelOrInvalid(snap, telemetry.CategorySystem, render.TitleSystem, render.System(snap.System))
	c.panels[PanelRack] = panelOrInvalid(snap, telemetry.CategoryRack, render.TitleRack, render.Rack(snap.Rack))
	for cat, verr := range snap.Invalid {
		c.log.Warnw("invalid_reading", "category", cat, "error", verr)
	}
	return nil
}

func panelOrInvalid(snap *telemetry.DashboardSnapshot, category, title string, p render.PanelViewState) render.PanelViewState {
	if verr, ok := snap.Invalid[category]; ok {
		return render.Invalid(title, verr)
	}
	return p
}

// applyPanelLocked renders a single-endpoint panel. A failed fetch keeps
// the previous panel; a payload that does not validate becomes an error
// panel.
func (c *Controller) applyPanelLocked(key, endpoint string, res fetchResult, build func(json.RawMessage) (render.PanelViewState, error)) {
	if res.err != nil {
		c.fetchFailedLocked(endpoint, res.err)
		return
	}
	p, err := build(res.data)
	if err != nil {
		c.log.Warnw("invalid_payload", "endpoint", endpoint, "error", err)
	}
	c.panels[key] = p
}

func (c *Controller) applyFlowLocked(res fetchResult) {
	if res.err != nil {
		c.fetchFailedLocked(EndpointPowerFlow, res.err)
		return
	}
	pf, err := telemetry.ParsePowerFlow(res.data)
	if err != nil {
		c.log.Warnw("invalid_payload", "endpoint", EndpointPowerFlow, "error", err)
		c.flow = render.FlowViewState{Panel: render.Invalid(render.TitlePowerFlow, err)}
		return
	}
	c.flow = render.PowerFlow(pf, c.opts.Policy)
}

// applySeriesLocked replaces the data of every chart fed by kind. Charts
// keep their previous data when the fetch or parse fails.
func (c *Controller) applySeriesLocked(kind string, res fetchResult, animate bool) {
	if res.err != nil {
		c.fetchFailedLocked(EndpointTimeSeries+"/"+kind, res.err)
		return
	}
	points, err := telemetry.ParseSeries(res.data)
	if err != nil {
		c.log.Warnw("invalid_payload", "endpoint", EndpointTimeSeries+"/"+kind, "error", err)
		return
	}
	for _, def := range c.layout.Charts {
		if def.Source != kind {
			continue
		}
		if err := c.charts.ReplaceData(def.ID, points); err != nil {
			c.log.Errorw("chart_update_failed", "chart", def.ID, "error", err)
			continue
		}
		if err := c.charts.Redraw(def.ID, animate); err != nil {
			c.log.Errorw("chart_update_failed", "chart", def.ID, "error", err)
		}
	}
}

func (c *Controller) fetchFailedLocked(endpoint string, err error) {
	c.metrics.FetchFailed(endpoint)
	c.log.Warnw("fetch_failed", "endpoint", endpoint, "reason", source.FailureReason(err), "error", err)
}

// checkHealth polls /health and turns transitions into notifications.
// Only changes are announced: the first failure, and the first success
// after a failure.
func (c *Controller) checkHealth(ctx context.Context) error {
	ok, err := c.client.Health(ctx)
	if ctx.Err() != nil {
		return nil
	}
	up := err == nil && ok

	c.mu.Lock()
	prev := c.healthState
	if up {
		c.healthState = HealthUp
	} else {
		c.healthState = HealthDown
	}
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return nil
	}

	c.metrics.SetBackendUp(up)
	switch {
	case !up && prev != HealthDown:
		c.log.Warnw("connection_lost", "error", err)
		c.notes.Push(NotifyError, MsgConnectionLost)
	case up && prev == HealthDown:
		c.log.Infow("connection_restored")
		c.notes.Push(NotifySuccess, MsgConnectionFound)
	}
	c.publish(EventHealth)

	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("health status is not ok")
	}
	return nil
}
