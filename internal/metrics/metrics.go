package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds aggregation counters instrumented in the cascade and router.
// A nil *Metrics is valid and records nothing, so wiring stays optional.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	Fallbacks        *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers aggregation metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nontonhub",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream provider attempts by provider and outcome.",
		}, []string{"provider", "outcome"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nontonhub",
			Subsystem: "upstream",
			Name:      "fallbacks_total",
			Help:      "Cascade transitions away from a failed provider.",
		}, []string{"provider"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "nontonhub",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Duration of API requests by route.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 90},
		}, []string{"route"}),
	}

	reg.MustRegister(m.UpstreamRequests, m.Fallbacks, m.RequestDuration)

	return m
}

// ObserveUpstream records one provider attempt.
func (m *Metrics) ObserveUpstream(provider string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.UpstreamRequests.WithLabelValues(provider, outcome).Inc()
}

// ObserveFallback records a cascade transition away from the given provider.
func (m *Metrics) ObserveFallback(provider string) {
	if m == nil {
		return
	}
	m.Fallbacks.WithLabelValues(provider).Inc()
}

// ObserveRequest records one API request's duration.
func (m *Metrics) ObserveRequest(route string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(seconds)
}
