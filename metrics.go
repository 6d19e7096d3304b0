package stablejson

import (
	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultLabelName = "result"
	kindLabelName   = "kind"

	resultOK    = "ok"
	resultError = "error"

	truncationDepth   = "depth"
	truncationBreadth = "breadth"
)

// outputBuckets spans 64B .. 16MiB.
var outputBuckets = prometheus.ExponentialBuckets(64, 4, 10)

// Metrics holds the prometheus collectors a Stringifier reports into.
// One Metrics value may be shared by several Stringifiers.
type Metrics struct {
	calls       *prometheus.CounterVec
	circular    prometheus.Counter
	truncations *prometheus.CounterVec
	outputBytes prometheus.Histogram
}

// NewMetrics creates unregistered collectors under namespace.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stablejson",
				Name:      "stringify_total",
				Help:      "number of serialization calls by result",
			}, []string{resultLabelName}),
		circular: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stablejson",
				Name:      "circular_references_total",
				Help:      "number of back-references replaced or rejected",
			}),
		truncations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stablejson",
				Name:      "truncations_total",
				Help:      "number of containers cut short by the depth or breadth limit",
			}, []string{kindLabelName}),
		outputBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "stablejson",
				Name:      "output_bytes",
				Help:      "size of successful serialization results in bytes",
				Buckets:   outputBuckets,
			}),
	}
}

// Collectors returns every collector, for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calls, m.circular, m.truncations, m.outputBytes}
}

// Register registers all collectors with r.
func (m *Metrics) Register(r prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := r.Register(c); err != nil {
			return errors.Wrap(err, "stablejson: register metrics")
		}
	}
	return nil
}

// callStats is accumulated during one call and flushed once.
type callStats struct {
	circular       int
	depthCuts      int
	breadthCuts    int
	outputByteSize int
}

func (m *Metrics) observe(stats *callStats, err error) {
	if m == nil {
		return
	}
	if stats.circular > 0 {
		m.circular.Add(float64(stats.circular))
	}
	if stats.depthCuts > 0 {
		m.truncations.WithLabelValues(truncationDepth).Add(float64(stats.depthCuts))
	}
	if stats.breadthCuts > 0 {
		m.truncations.WithLabelValues(truncationBreadth).Add(float64(stats.breadthCuts))
	}
	if err != nil {
		m.calls.WithLabelValues(resultError).Inc()
		return
	}
	m.calls.WithLabelValues(resultOK).Inc()
	m.outputBytes.Observe(float64(stats.outputByteSize))
}
