// Package metrics exposes refresh-loop counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tonhe/solmon/internal/logger"
)

// Cycle results.
const (
	ResultOK         = "ok"
	ResultFailed     = "failed"
	ResultSuperseded = "superseded"
)

// Metrics holds the dashboard's collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	cycles        *prometheus.CounterVec
	fetchFailures *prometheus.CounterVec
	coalesced     prometheus.Counter
	cycleDuration prometheus.Histogram
	backendUp     prometheus.Gauge
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solmon_refresh_cycles_total",
			Help: "Refresh cycles completed, by result.",
		}, []string{"result"}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "solmon_fetch_failures_total",
			Help: "Failed backend fetches, by endpoint.",
		}, []string{"endpoint"}),
		coalesced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "solmon_ticks_coalesced_total",
			Help: "Timer ticks dropped because a refresh cycle was already running.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "solmon_refresh_cycle_seconds",
			Help:    "Wall time of a refresh cycle from first request to last response.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
		backendUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "solmon_backend_up",
			Help: "1 if the last health check succeeded, 0 otherwise.",
		}),
	}
	reg.MustRegister(m.cycles, m.fetchFailures, m.coalesced, m.cycleDuration, m.backendUp)
	return m
}

// ObserveCycle records one finished refresh cycle.
func (m *Metrics) ObserveCycle(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
	if result != ResultSuperseded {
		m.cycleDuration.Observe(d.Seconds())
	}
}

// FetchFailed counts a failed fetch of endpoint.
func (m *Metrics) FetchFailed(endpoint string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(endpoint).Inc()
}

// TickCoalesced counts a dropped timer tick.
func (m *Metrics) TickCoalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

// SetBackendUp records the latest health check result.
func (m *Metrics) SetBackendUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.backendUp.Set(1)
		return
	}
	m.backendUp.Set(0)
}

// Serve starts an HTTP server exposing g at /metrics. The caller shuts it
// down with Close.
func Serve(addr string, g prometheus.Gatherer, log *logger.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("metrics_server_exited", "addr", addr, "error", err)
		}
	}()
	log.Infow("metrics_server_started", "addr", addr)
	return srv
}
