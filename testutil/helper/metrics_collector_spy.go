package helper

import (
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy is a MetricsCollector implementation that captures metrics calls for testing.
type MetricsCollectorSpy struct {
	mu              sync.Mutex
	durationRecords []SpyRecord
	counterRecords  []SpyRecord
	valueRecords    []SpyRecord
}

// SpyRecord represents one captured call. Value is the duration in seconds for RecordDuration calls.
type SpyRecord struct {
	Metric string
	Value  float64
	Labels map[string]string
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

// RecordDuration implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durationRecords = append(s.durationRecords, SpyRecord{Metric: metric, Value: duration.Seconds(), Labels: maps.Clone(labels)})
}

// IncrementCounter implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counterRecords = append(s.counterRecords, SpyRecord{Metric: metric, Value: 1, Labels: maps.Clone(labels)})
}

// RecordValue implements the MetricsCollector interface.
func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.valueRecords = append(s.valueRecords, SpyRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

// CounterRecords returns a copy of the captured counter increments of metric.
func (s *MetricsCollectorSpy) CounterRecords(metric string) []SpyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filterRecords(s.counterRecords, metric)
}

// DurationRecords returns a copy of the captured durations of metric.
func (s *MetricsCollectorSpy) DurationRecords(metric string) []SpyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return filterRecords(s.durationRecords, metric)
}

func filterRecords(records []SpyRecord, metric string) []SpyRecord {
	matching := make([]SpyRecord, 0)
	for _, record := range records {
		if record.Metric == metric {
			matching = append(matching, record)
		}
	}

	return matching
}
