package memengine

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/onelib/rentalengine/eventstore"
)

const (
	engineName                = "memory"
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logMsgIndexingFailed      = "failed to index event payload"
	logAttrError              = "error"
	logAttrEventType          = "event_type"
	logAttrEventCount         = "event_count"
	logAttrDurationMS         = "duration_ms"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

// ErrIndexingPayloadFailed is returned when an appended payload is not a JSON object.
var ErrIndexingPayloadFailed = errors.New("indexing event payload failed")

type storedEvent struct {
	event          eventstore.StorableEvent
	sequenceNumber eventstore.MaxSequenceNumberUint
	fields         map[eventstore.FilterKeyString]eventstore.FilterValString
}

// EventStore keeps events in memory. It is safe for concurrent use.
type EventStore struct {
	mu               sync.RWMutex
	events           []storedEvent
	logger           eventstore.Logger
	metricsCollector eventstore.MetricsCollector
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore) error

// WithLogger sets the logger for the EventStore.
// Debug level receives per-operation timings, Info level receives concurrency conflicts.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the EventStore.
func WithMetrics(collector eventstore.MetricsCollector) Option {
	return func(es *EventStore) error {
		es.metricsCollector = collector
		return nil
	}
}

// NewEventStore creates an empty EventStore.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns all events selected by the filter in sequence order,
// together with the MaxSequenceNumberUint of this "dynamic event stream".
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	start := time.Now()

	es.mu.RLock()
	eventStream := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if filter.Matches(stored.event.EventType, stored.fields) {
			eventStream = append(eventStream, stored.event)
			maxSequenceNumber = stored.sequenceNumber
		}
	}
	es.mu.RUnlock()

	duration := time.Since(start)
	es.recordDuration(eventstore.MetricQueryDuration, duration)
	es.logDebug(logMsgQueryCompleted, logAttrEventCount, len(eventStream), logAttrDurationMS, durationToMilliseconds(duration))

	return eventStream, maxSequenceNumber, nil
}

// Append appends one or multiple events atomically, but only if the highest sequence number selected by the filter
// still equals expectedMaxSequenceNumber. Otherwise it returns eventstore.ErrConcurrencyConflict.
//
// The filter should be the same one that was used for the Query before making the business decision.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	start := time.Now()
	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	indexed := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		fields, err := indexPayload(e.PayloadJSON)
		if err != nil {
			es.logError(logMsgIndexingFailed, logAttrError, err.Error(), logAttrEventType, e.EventType)
			return errors.Join(eventstore.ErrAppendingEventFailed, ErrIndexingPayloadFailed, err)
		}

		indexed = append(indexed, storedEvent{event: e, fields: fields})
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actualMaxSequenceNumber := es.maxSequenceNumberFor(filter)
	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		es.incrementCounter(eventstore.MetricConcurrencyConflicts)
		es.logInfo(
			logMsgConcurrencyConflict,
			logAttrExpectedSequence, expectedMaxSequenceNumber,
			logAttrActualSequence, actualMaxSequenceNumber,
		)

		return eventstore.ErrConcurrencyConflict
	}

	nextSequenceNumber := eventstore.MaxSequenceNumberUint(len(es.events))
	for i := range indexed {
		nextSequenceNumber++
		indexed[i].sequenceNumber = nextSequenceNumber
	}

	es.events = append(es.events, indexed...)

	duration := time.Since(start)
	es.recordDuration(eventstore.MetricAppendDuration, duration)
	es.recordValue(eventstore.MetricEventsAppended, float64(len(indexed)))
	es.logDebug(logMsgEventsAppended, logAttrEventCount, len(indexed), logAttrDurationMS, durationToMilliseconds(duration))

	return nil
}

// maxSequenceNumberFor must be called with the lock held.
func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.events) - 1; i >= 0; i-- {
		if filter.Matches(es.events[i].event.EventType, es.events[i].fields) {
			return es.events[i].sequenceNumber
		}
	}

	return 0
}

// indexPayload extracts the top-level string fields of a JSON object payload.
// Only string values take part in predicate matching, like the jsonb containment query of postgresengine.
func indexPayload(payloadJSON []byte) (map[eventstore.FilterKeyString]eventstore.FilterValString, error) {
	raw := make(map[string]any)
	if err := jsoniter.ConfigFastest.Unmarshal(payloadJSON, &raw); err != nil {
		return nil, err
	}

	fields := make(map[eventstore.FilterKeyString]eventstore.FilterValString, len(raw))
	for key, val := range raw {
		if s, ok := val.(string); ok {
			fields[key] = s
		}
	}

	return fields, nil
}

func (es *EventStore) recordDuration(metric string, duration time.Duration) {
	if es.metricsCollector != nil {
		es.metricsCollector.RecordDuration(metric, duration, map[string]string{eventstore.LabelEngine: engineName})
	}
}

func (es *EventStore) recordValue(metric string, value float64) {
	if es.metricsCollector != nil {
		es.metricsCollector.RecordValue(metric, value, map[string]string{eventstore.LabelEngine: engineName})
	}
}

func (es *EventStore) incrementCounter(metric string) {
	if es.metricsCollector != nil {
		es.metricsCollector.IncrementCounter(metric, map[string]string{eventstore.LabelEngine: engineName})
	}
}

func (es *EventStore) logDebug(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Debug(msg, args...)
	}
}

func (es *EventStore) logInfo(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func (es *EventStore) logError(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Error(msg, args...)
	}
}

// durationToMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func durationToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}
