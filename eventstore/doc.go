// Package eventstore holds the engine-agnostic building blocks of an event store with dynamic event streams.
//
// A "dynamic event stream" is not a fixed aggregate stream but whatever a Filter selects:
// event types, OR-ed or AND-ed payload predicates, and OR-ed combinations of both.
// Engines (memengine, postgresengine) implement two operations on top of it:
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Append only succeeds if no event matching the same filter was appended since the Query,
// otherwise it fails with ErrConcurrencyConflict and the caller re-queries and decides again.
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.RentalRequestedEventType,
//			core.RentalApprovedEventType).
//		AndAnyPredicateOf(eventstore.P("RentalID", rentalID)).
//		Finalize()
package eventstore
