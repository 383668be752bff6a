package checker

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records checker throughput. A nil *Metrics records nothing.
type Metrics struct {
	enqueued *prometheus.CounterVec
	checks   *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the checker collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		enqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statuspage",
			Subsystem: "checker",
			Name:      "enqueued_total",
			Help:      "Checks enqueued by cron ticks.",
		}, []string{"periodicity"}),
		checks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "statuspage",
			Subsystem: "checker",
			Name:      "checks_total",
			Help:      "Checks performed by status class.",
		}, []string{"region", "status_class"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "statuspage",
			Subsystem: "checker",
			Name:      "check_latency_seconds",
			Help:      "Latency of monitor checks.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"region"}),
	}
	reg.MustRegister(m.enqueued, m.checks, m.latency)
	return m
}

func (m *Metrics) observeEnqueued(periodicity string, n int) {
	if m == nil {
		return
	}
	m.enqueued.WithLabelValues(periodicity).Add(float64(n))
}

func (m *Metrics) observeCheck(region string, result Result) {
	if m == nil {
		return
	}
	m.checks.WithLabelValues(region, statusClass(result.StatusCode)).Inc()
	m.latency.WithLabelValues(region).Observe(result.Latency.Seconds())
}

func statusClass(code int) string {
	if code <= 0 {
		return "error"
	}
	return strconv.Itoa(code/100) + "xx"
}

