package deeplink

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "deeplink"

// Labels of deeplink_evaluations_total.
const (
	resultHandled   = "handled"
	resultUnhandled = "unhandled"
	resultBusy      = "busy"
)

// Labels of deeplink_aborts_total.
const (
	abortTakeover = "takeover"
	abortTimeout  = "step_timeout"
	abortContext  = "context"
)

type metrics struct {
	evaluations  *prometheus.CounterVec
	steps        *prometheus.CounterVec
	stepDuration prometheus.Histogram
	redirects    prometheus.Counter
	aborts       *prometheus.CounterVec
}

// newMetrics creates the registry metrics. With a nil registerer they are
// still collected but never exported.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		evaluations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "evaluations_total",
			Help:      "Evaluations by admission result",
		}, []string{"result"}),
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "steps_total",
			Help:      "Route actions executed, by route kind",
		}, []string{"kind"}),
		stepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "step_duration_seconds",
			Help:      "Time from invoking a route action until its transition settled, failed or was redirected",
			Buckets:   prometheus.DefBuckets,
		}),
		redirects: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "redirects_total",
			Help:      "Redirects scheduled by redirect routes",
		}),
		aborts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "aborts_total",
			Help:      "Sessions stopped before completing all steps",
		}, []string{"reason"}),
	}
}
