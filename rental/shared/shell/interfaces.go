package shell

import (
	"context"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
)

// EventStore is what the command and query handlers need from an engine.
// memengine.EventStore and postgresengine.EventStore both satisfy it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvent eventstore.StorableEvent,
		additionalEvents ...eventstore.StorableEvent,
	) error
}

// NotificationSink accepts user notifications. Enqueue is fire-and-forget, delivery problems are the sink's concern.
type NotificationSink interface {
	Enqueue(ctx context.Context, userID core.UserIDString, message string, kind core.NotificationType)
}

// Command represents the contract for all command types.
// The CommandType method labels logs and metrics.
type Command interface {
	CommandType() string
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueriesEvents is the read side of EventStore, all a query handler needs.
type QueriesEvents interface {
	Query(ctx context.Context, filter eventstore.Filter) (
		eventstore.StorableEvents,
		eventstore.MaxSequenceNumberUint,
		error,
	)
}
