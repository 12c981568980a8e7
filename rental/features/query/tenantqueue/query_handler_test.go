package tenantqueue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore/memengine"
	"github.com/onelib/rentalengine/rental/features/query/tenantqueue"
	"github.com/onelib/rentalengine/rental/shared/core"
	. "github.com/onelib/rentalengine/testutil/helper" //nolint:revive
)

var requestedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func Test_QueryHandler_Handle_SelectsRentalsByStatus(t *testing.T) {
	testCases := []struct {
		name     string
		status   core.Status
		expected []core.RentalIDString
	}{
		{name: "pending by default", status: "", expected: []core.RentalIDString{"r-1", "r-3"}},
		{name: "approved", status: core.StatusApproved, expected: []core.RentalIDString{"r-2"}},
		{name: "overdue", status: core.StatusOverdue, expected: []core.RentalIDString{"r-4"}},
		{name: "delivered includes overdue", status: core.StatusDelivered, expected: []core.RentalIDString{"r-4"}},
		{name: "none rejected", status: core.StatusRejected, expected: []core.RentalIDString{}},
	}

	handler := givenHandler(t)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			result, err := handler.Handle(
				context.Background(),
				tenantqueue.BuildQuery(FixtureTenant, tc.status, requestedAt.Add(20*24*time.Hour)),
			)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, rentalIDs(result))
		})
	}
}

func Test_QueryHandler_Handle_Fails_WhenStatusIsUnknown(t *testing.T) {
	_, err := givenHandler(t).Handle(context.Background(), tenantqueue.BuildQuery(FixtureTenant, "lost", requestedAt))

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func givenHandler(t *testing.T) tenantqueue.QueryHandler {
	t.Helper()

	eventStore, err := memengine.NewEventStore()
	require.NoError(t, err)

	title := GivenTitle("t-1", 90, 5)
	otherTenant := title
	otherTenant.Tenant = "other-library"

	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-1", "u-1", title, requestedAt)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-2", "u-2", title, requestedAt, core.ActionApprove)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-3", "u-3", title, requestedAt.Add(time.Hour))...)
	GivenStoredEvents(t, eventStore, GivenHistory(
		t, "r-4", "u-4", title, requestedAt,
		core.ActionApprove, core.ActionDispatch, core.ActionDeliver,
	)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-5", "u-5", otherTenant, requestedAt)...)

	return tenantqueue.NewQueryHandler(eventStore)
}

func rentalIDs(queue tenantqueue.TenantQueue) []core.RentalIDString {
	ids := make([]core.RentalIDString, 0, len(queue.Rentals))
	for _, rental := range queue.Rentals {
		ids = append(ids, rental.ID)
	}

	return ids
}
