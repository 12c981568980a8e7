package checkout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/shared/core"
)

var checkoutAt = time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)

func Test_Decide_RequestsRental_WhenUserHasNoOpenRentalOfTitle(t *testing.T) {
	// arrange
	command := givenItemCommand("r-1", "u-1", givenTitle("t-1", 120, 1))

	// act
	decision := checkout.Decide(core.DomainEvents{}, command)

	// assert
	assert.NoError(t, decision.HasError())
	assert.True(t, decision.HasEventToAppend())

	event, ok := decision.Event.(core.RentalRequested)
	assert.True(t, ok)
	assert.Equal(t, "r-1", event.RentalID)
	assert.Equal(t, 120, event.RentPrice)
	assert.Equal(t, checkoutAt.Add(core.HoldPeriod), event.HoldExpiresAt)
}

func Test_Decide_Fails_WhenUserHasOpenRentalOfTitle(t *testing.T) {
	// arrange
	title := givenTitle("t-1", 120, 1)
	history := core.DomainEvents{core.BuildRentalRequested("r-0", title, "u-1", checkoutAt.Add(-time.Hour))}

	// act
	decision := checkout.Decide(history, givenItemCommand("r-1", "u-1", title))

	// assert
	assert.ErrorIs(t, decision.HasError(), core.ErrAlreadyRequested)
	assert.False(t, decision.HasEventToAppend())
}

func Test_Decide_RequestsRental_WhenPreviousRentalOfTitleIsTerminal(t *testing.T) {
	// arrange
	title := givenTitle("t-1", 120, 1)
	requested := core.BuildRentalRequested("r-0", title, "u-1", checkoutAt.Add(-time.Hour))
	rejected := core.BuildRentalRejected(core.Rental{}.Apply(requested), core.LocationSystemUpdate, checkoutAt.Add(-time.Minute))

	// act
	decision := checkout.Decide(core.DomainEvents{requested, rejected}, givenItemCommand("r-1", "u-1", title))

	// assert
	assert.NoError(t, decision.HasError())
	assert.True(t, decision.HasEventToAppend())
}

func Test_BuildCommand_DropsDuplicateAndEmptyTitleIDs(t *testing.T) {
	command := checkout.BuildCommand("u-1", []core.TitleIDString{"t-2", "", "t-1", "t-2"}, 10, checkoutAt)

	assert.Equal(t, []core.TitleIDString{"t-2", "t-1"}, command.TitleIDs)
}

func givenItemCommand(rentalID core.RentalIDString, userID core.UserIDString, title core.Title) checkout.ItemCommand {
	return checkout.ItemCommand{
		RentalID:   rentalID,
		Title:      title,
		UserID:     userID,
		OccurredAt: checkoutAt,
	}
}

func givenTitle(id core.TitleIDString, rentPrice, copies int) core.Title {
	return core.Title{
		ID:          id,
		Tenant:      "city-library",
		Name:        "Title " + id,
		Author:      "Premchand",
		Publisher:   "Rajkamal",
		Category:    "Fiction",
		RentPrice:   rentPrice,
		TotalCopies: copies,
	}
}
