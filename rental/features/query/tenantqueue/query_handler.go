package tenantqueue

import (
	"context"
	"time"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

// QueryHandler orchestrates the complete query processing workflow.
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
// It fails with INVALID_INPUT for an unknown status.
func (h QueryHandler) Handle(ctx context.Context, query Query) (result TenantQueue, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveQuery(h.options.Logger, h.options.MetricsCollector, queryType, startedAt, err)
	}()

	if query.Status != core.StatusOverdue {
		if _, err = core.ParseStatus(string(query.Status)); err != nil {
			return TenantQueue{}, err
		}
	}

	ctx = eventstore.WithEventualConsistency(ctx)

	storableEvents, maxSequenceNumber, err := h.eventStore.Query(ctx, BuildEventFilter(query.Tenant))
	if err != nil {
		return TenantQueue{}, err
	}

	history, err := shell.DomainEventsFrom(storableEvents)
	if err != nil {
		return TenantQueue{}, err
	}

	return Project(history, query, maxSequenceNumber), nil
}
