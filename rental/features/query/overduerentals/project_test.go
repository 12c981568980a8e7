package overduerentals_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore/memengine"
	"github.com/onelib/rentalengine/rental/features/query/overduerentals"
	"github.com/onelib/rentalengine/rental/shared/core"
	. "github.com/onelib/rentalengine/testutil/helper" //nolint:revive
)

var requestedAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func Test_QueryHandler_Handle_ListsDeliveredRentalsPastDueDate_MostOverdueFirst(t *testing.T) {
	// arrange
	eventStore, err := memengine.NewEventStore()
	require.NoError(t, err)

	title := GivenTitle("t-1", 90, 5)
	delivered := []core.Action{core.ActionApprove, core.ActionDispatch, core.ActionDeliver}

	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-late", "u-1", title, requestedAt.Add(24*time.Hour), delivered...)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-later", "u-2", title, requestedAt, delivered...)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-returning", "u-3", title, requestedAt,
		append(delivered, core.ActionRequestReturn)...)...)
	GivenStoredEvents(t, eventStore, GivenHistory(t, "r-pending", "u-4", title, requestedAt)...)

	at := requestedAt.Add(20 * 24 * time.Hour)

	// act
	result, err := overduerentals.NewQueryHandler(eventStore).Handle(context.Background(), overduerentals.BuildQuery(FixtureTenant, at))

	// assert
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	assert.Equal(t, "r-later", result.Rentals[0].ID)
	assert.Equal(t, "r-late", result.Rentals[1].ID)
	assert.Equal(t, 5, result.Rentals[0].DaysOverdue)
	assert.True(t, result.Rentals[0].Overdue)
}

func Test_Project_SkipsRenewedRental_UntilNewDueDate(t *testing.T) {
	// arrange
	history := GivenHistory(t, "r-1", "u-1", GivenTitle("t-1", 90, 1), requestedAt,
		core.ActionApprove, core.ActionDispatch, core.ActionDeliver)
	rental := core.ProjectRental(history, "r-1")
	history = append(history, core.BuildRentalRenewed(rental, requestedAt.Add(10*24*time.Hour)))

	// act
	result := overduerentals.Project(history, overduerentals.BuildQuery(FixtureTenant, requestedAt.Add(20*24*time.Hour)), 5)

	// assert
	assert.Equal(t, 0, result.Count)
}
