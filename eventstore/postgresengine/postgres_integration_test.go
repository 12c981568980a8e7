package postgresengine_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/testutil/helper/postgreswrapper"
)

func Test_Postgres_AppendAndQuery_GuardsTheDynamicStream(t *testing.T) {
	// arrange
	es := postgreswrapper.New(t, "rental_events_it").EventStore()
	ctx := context.Background()
	filter := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("RentalID", "r-1")).Finalize()

	require.NoError(t, es.Append(ctx, filter, 0, givenRentalEvent(t, "RentalRequested", "r-1")))
	require.NoError(t, es.Append(ctx,
		eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("RentalID", "r-2")).Finalize(),
		0,
		givenRentalEvent(t, "RentalRequested", "r-2"),
	))

	// act
	events, maxSeq, err := es.Query(ctx, filter)
	staleErr := es.Append(ctx, filter, 0, givenRentalEvent(t, "RentalApproved", "r-1"))
	freshErr := es.Append(ctx, filter, maxSeq, givenRentalEvent(t, "RentalApproved", "r-1"))

	// assert
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "RentalRequested", events[0].EventType)
	assert.ErrorIs(t, staleErr, eventstore.ErrConcurrencyConflict)
	assert.NoError(t, freshErr)

	all, _, err := es.Query(ctx, eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func givenRentalEvent(t *testing.T, eventType, rentalID string) eventstore.StorableEvent {
	t.Helper()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata(
		eventType,
		time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC),
		[]byte(`{"RentalID":"`+rentalID+`"}`),
	)
	require.NoError(t, err)

	return event
}
