package dispatch

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records dispatcher decisions and data store latency.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	lookups  *prometheus.HistogramVec
}

// NewMetrics registers the dispatcher collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statuspage",
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Dispatcher outcomes by deciding stage.",
		}, []string{"stage", "outcome"}),
		lookups: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statuspage",
			Subsystem: "dispatch",
			Name:      "lookup_duration_seconds",
			Help:      "Latency of data store reads made while dispatching.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"lookup", "result"}),
	}
	reg.MustRegister(m.outcomes, m.lookups)
	return m
}

func (m *Metrics) observeOutcome(stage string, kind OutcomeKind) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(stage, kind.String()).Inc()
}

func (m *Metrics) observeLookup(name string, d time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.lookups.WithLabelValues(name, result).Observe(d.Seconds())
}
