package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

// FixtureTenant is the tenant of the titles GivenTitle builds.
const FixtureTenant = "city-library"

// GivenTitle builds a title of FixtureTenant.
func GivenTitle(id core.TitleIDString, rentPrice, copies int) core.Title {
	return core.Title{
		ID:          id,
		Tenant:      FixtureTenant,
		Name:        "Title " + id,
		Author:      "Premchand",
		Publisher:   "Rajkamal",
		Category:    "Fiction",
		RentPrice:   rentPrice,
		TotalCopies: copies,
	}
}

// GivenHistory builds the events of a rental requested at requestedAt that then went through actions,
// one hour apart.
func GivenHistory(
	t *testing.T,
	rentalID core.RentalIDString,
	userID core.UserIDString,
	title core.Title,
	requestedAt time.Time,
	actions ...core.Action,
) core.DomainEvents {

	t.Helper()

	history := core.DomainEvents{core.BuildRentalRequested(rentalID, title, userID, requestedAt)}

	for i, action := range actions {
		rental := core.ProjectRental(history, rentalID)
		event, err := core.BuildTransitionEvent(rental, action, requestedAt.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)

		history = append(history, event)
	}

	return history
}

// GivenStoredEvents appends the events one by one, each guarded by the stream of its rental.
func GivenStoredEvents(t *testing.T, eventStore shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()

	for _, event := range events {
		filter := eventstore.BuildEventFilter().
			Matching().
			AnyPredicateOf(eventstore.P("RentalID", event.ForRental())).
			Finalize()

		_, maxSequenceNumber, err := eventStore.Query(ctx, filter)
		require.NoError(t, err)

		storableEvent, err := shell.StorableEventFrom(event, shell.BuildEventMetadata(uuid.New(), uuid.New(), uuid.New()))
		require.NoError(t, err)

		require.NoError(t, eventStore.Append(ctx, filter, maxSequenceNumber, storableEvent))
	}
}
