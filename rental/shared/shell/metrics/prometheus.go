// Package metrics implements the MetricsCollector of the event store and the handlers on Prometheus.
//
// Instruments are created on first use. The label names of an instrument are fixed by the labels
// of its first observation; later observations with a different label set are dropped.
package metrics

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onelib/rentalengine/eventstore"
)

// Collector implements eventstore.MetricsCollector with Prometheus vectors:
//   - RecordDuration -> HistogramVec (seconds)
//   - IncrementCounter -> CounterVec
//   - RecordValue -> GaugeVec
type Collector struct {
	registerer prometheus.Registerer

	mu         sync.Mutex
	histograms map[string]*prometheus.HistogramVec
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
}

var _ eventstore.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector that registers its instruments with registerer.
func NewCollector(registerer prometheus.Registerer) *Collector {
	return &Collector{
		registerer: registerer,
		histograms: make(map[string]*prometheus.HistogramVec),
		counters:   make(map[string]*prometheus.CounterVec),
		gauges:     make(map[string]*prometheus.GaugeVec),
	}
}

// RecordDuration observes duration in seconds on the histogram named metric.
func (c *Collector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.histograms[metric]
	if !ok {
		vec = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: metric, Help: helpFor(metric), Buckets: prometheus.DefBuckets},
			labelNames(labels),
		)
		vec = register(c.registerer, vec)
		c.histograms[metric] = vec
	}
	c.mu.Unlock()

	if observer, err := vec.GetMetricWith(labels); err == nil {
		observer.Observe(duration.Seconds())
	}
}

// IncrementCounter adds one to the counter named metric.
func (c *Collector) IncrementCounter(metric string, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.counters[metric]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: metric, Help: helpFor(metric)}, labelNames(labels))
		vec = register(c.registerer, vec)
		c.counters[metric] = vec
	}
	c.mu.Unlock()

	if counter, err := vec.GetMetricWith(labels); err == nil {
		counter.Inc()
	}
}

// RecordValue sets the gauge named metric to value.
func (c *Collector) RecordValue(metric string, value float64, labels map[string]string) {
	c.mu.Lock()
	vec, ok := c.gauges[metric]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metric, Help: helpFor(metric)}, labelNames(labels))
		vec = register(c.registerer, vec)
		c.gauges[metric] = vec
	}
	c.mu.Unlock()

	if gauge, err := vec.GetMetricWith(labels); err == nil {
		gauge.Set(value)
	}
}

// register registers vec, or returns the already registered collector of the same name and labels.
func register[V prometheus.Collector](registerer prometheus.Registerer, vec V) V {
	if err := registerer.Register(vec); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(V); ok {
				return existing
			}
		}
	}

	return vec
}

func labelNames(labels map[string]string) []string {
	return slices.Sorted(maps.Keys(labels))
}

func helpFor(metric string) string {
	return "rentalengine metric " + metric
}
