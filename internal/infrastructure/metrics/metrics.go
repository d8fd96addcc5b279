package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "identityapi"

type Metrics struct {
	Counter       *prometheus.CounterVec
	AuthzDecision *prometheus.CounterVec
	HTTPRequests  *prometheus.CounterVec
	HTTPLatency   *prometheus.HistogramVec
}

// New registers every collector on reg. Pass prometheus.DefaultRegisterer in
// the service and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Counter: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "general_counters",
			},
			[]string{"result"}),
		AuthzDecision: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "authz_decisions_total",
				Help:      "Authorization decisions by operation and result.",
			},
			[]string{"operation", "result"}),
		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Count of HTTP requests.",
			},
			[]string{"path", "method", "status"}),
		HTTPLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "method"}),
	}
}

// Nop returns collectors registered nowhere.
func Nop() *Metrics { return New(prometheus.NewRegistry()) }
