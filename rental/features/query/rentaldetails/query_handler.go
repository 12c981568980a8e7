package rentaldetails

import (
	"context"
	"time"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

// QueryHandler orchestrates the complete query processing workflow.
// It handles event store interactions and delegates projection logic to the pure Project function.
type QueryHandler struct {
	eventStore shell.QueriesEvents
	options    shell.QueryOptions
}

// NewQueryHandler creates a new QueryHandler with the provided EventStore dependency.
func NewQueryHandler(eventStore shell.QueriesEvents, opts ...shell.QueryOption) QueryHandler {
	return QueryHandler{
		eventStore: eventStore,
		options:    shell.BuildQueryOptions(opts...),
	}
}

// Handle executes the complete query processing workflow: Query -> Project.
func (h QueryHandler) Handle(ctx context.Context, query Query) (result RentalDetails, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveQuery(h.options.Logger, h.options.MetricsCollector, queryType, startedAt, err)
	}()

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.RentalID))
	if err != nil {
		return RentalDetails{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return RentalDetails{}, err
	}

	return Project(history, query, maxSequenceNumber)
}
