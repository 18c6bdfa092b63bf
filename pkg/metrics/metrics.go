package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dispatch outcomes.
const (
	OutcomeMatched   = "matched"
	OutcomeNotFound  = "not_found"
	OutcomeCancelled = "cancelled"
)

// Upstream results.
const (
	UpstreamOK       = "ok"
	UpstreamStatus   = "status"
	UpstreamError    = "error"
	UpstreamRefused  = "refused"
	UpstreamTooLarge = "too_large"
)

// Metrics holds the collectors. Create it with New.
type Metrics struct {
	gatherer prometheus.Gatherer

	dispatchTotal    *prometheus.CounterVec
	dispatchDuration *prometheus.HistogramVec
	upstreamDuration *prometheus.HistogramVec
	captures         prometheus.Counter
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		gatherer: reg,
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mockgate",
			Name:      "dispatch_total",
			Help:      "Requests dispatched through the handler chain.",
		}, []string{"outcome", "kind"}),
		dispatchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mockgate",
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent resolving a request against the handler chain.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mockgate",
			Name:      "upstream_duration_seconds",
			Help:      "Gateway round trips to the upstream service.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 4, 8),
		}, []string{"result"}),
		captures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mockgate",
			Name:      "captures_total",
			Help:      "Exchanges captured by gateways.",
		}),
	}
	reg.MustRegister(m.dispatchTotal, m.dispatchDuration, m.upstreamDuration, m.captures)
	return m
}

// ObserveDispatch records one dispatch.
func (m *Metrics) ObserveDispatch(outcome, kind string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.dispatchTotal.WithLabelValues(outcome, kind).Inc()
	m.dispatchDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveUpstream records one gateway round trip.
func (m *Metrics) ObserveUpstream(result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(result).Observe(elapsed.Seconds())
}

// IncCaptures records one captured exchange.
func (m *Metrics) IncCaptures() {
	if m == nil {
		return
	}
	m.captures.Inc()
}

// Gatherer returns the registry backing m.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.gatherer
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
