package changerentalstatus_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/eventstore/memengine"
	"github.com/onelib/rentalengine/rental/features/command/changerentalstatus"
	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell/catalog"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
	"github.com/onelib/rentalengine/rental/shared/shell/notify"
)

const tenant = "city-library"

type fixture struct {
	checkout checkout.CommandHandler
	handler  changerentalstatus.CommandHandler
	ledger   *inventory.Ledger
	inbox    *notify.Inbox
}

func Test_CommandHandler_Handle_WalksFullLifecycle_AndReleasesCopyOnReturn(t *testing.T) {
	// arrange
	f := givenFixture(t, 1)
	rentalID := givenPendingRental(t, f, "u-1")
	assertAvailableCopies(t, f.ledger, 0)

	steps := []changerentalstatus.Command{
		changerentalstatus.BuildCommand(rentalID, core.ActionApprove, tenant, requestedAt.Add(1*time.Hour)),
		changerentalstatus.BuildCommand(rentalID, core.ActionDispatch, tenant, requestedAt.Add(2*time.Hour)),
		changerentalstatus.BuildCommand(rentalID, core.ActionDeliver, tenant, requestedAt.Add(3*time.Hour)),
		changerentalstatus.BuildMemberCommand(rentalID, core.ActionRequestReturn, "u-1", requestedAt.Add(4*time.Hour)),
		changerentalstatus.BuildCommand(rentalID, core.ActionScheduleReturn, tenant, requestedAt.Add(5*time.Hour)),
		changerentalstatus.BuildCommand(rentalID, core.ActionConfirmReturn, tenant, requestedAt.Add(6*time.Hour)),
	}

	// act
	var result changerentalstatus.Result
	for _, step := range steps {
		var err error
		result, err = f.handler.Handle(context.Background(), step)
		require.NoError(t, err, string(step.Action))
	}

	// assert
	rental := result.Rental
	assert.Equal(t, core.StatusReturned, rental.Status)
	assert.Equal(t, requestedAt.Add(6*time.Hour), rental.ReturnDate)
	require.Len(t, rental.TrackingHistory, 7)
	assert.Equal(t, core.LocationUserDashboard, rental.TrackingHistory[4].Location)
	assertAvailableCopies(t, f.ledger, 1)

	// checkout + approve, dispatch, deliver, schedule_return, confirm_return
	assert.Len(t, f.inbox.List("u-1"), 6)
}

func Test_CommandHandler_Handle_Fails_WhenTransitionIsNotListed(t *testing.T) {
	// arrange
	f := givenFixture(t, 1)
	rentalID := givenPendingRental(t, f, "u-1")

	// act
	result, err := f.handler.Handle(
		context.Background(),
		changerentalstatus.BuildCommand(rentalID, core.ActionConfirmReturn, tenant, requestedAt.Add(time.Hour)),
	)

	// assert
	assert.ErrorIs(t, err, core.ErrInvalidTransition)
	assert.Equal(t, 1, result.Handler.RetryAttempts)
	assertAvailableCopies(t, f.ledger, 0)
}

func Test_CommandHandler_Handle_Fails_WhenRentalIsUnknown(t *testing.T) {
	f := givenFixture(t, 1)

	_, err := f.handler.Handle(
		context.Background(),
		changerentalstatus.BuildCommand("r-unknown", core.ActionApprove, tenant, requestedAt),
	)

	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_CommandHandler_Handle_ReleasesCopySilently_WhenRejected(t *testing.T) {
	// arrange
	f := givenFixture(t, 1)
	rentalID := givenPendingRental(t, f, "u-1")

	// act
	result, err := f.handler.Handle(
		context.Background(),
		changerentalstatus.BuildCommand(rentalID, core.ActionReject, tenant, requestedAt.Add(time.Hour)),
	)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.StatusRejected, result.Rental.Status)
	assertAvailableCopies(t, f.ledger, 1)
	assert.Len(t, f.inbox.List("u-1"), 1)
}

func Test_CommandHandler_Handle_IsIdempotent_WhenHoldIsStillValid(t *testing.T) {
	// arrange
	f := givenFixture(t, 1)
	rentalID := givenPendingRental(t, f, "u-1")

	// act
	result, err := f.handler.Handle(
		context.Background(),
		changerentalstatus.BuildExpireCommand(rentalID, requestedAt.Add(time.Hour)),
	)

	// assert
	require.NoError(t, err)
	assert.True(t, result.Handler.Idempotent)
	assert.Equal(t, core.StatusPending, result.Rental.Status)
	assertAvailableCopies(t, f.ledger, 0)
}

func Test_CommandHandler_Handle_ReleasesCopyOnce_WhenRejectAndExpireRace(t *testing.T) {
	// arrange
	f := givenFixture(t, 2)
	rentalID := givenPendingRental(t, f, "u-1")
	givenPendingRental(t, f, "u-2")
	assertAvailableCopies(t, f.ledger, 0)

	afterHold := requestedAt.Add(core.HoldPeriod + time.Minute)
	commands := []changerentalstatus.Command{
		changerentalstatus.BuildCommand(rentalID, core.ActionReject, tenant, afterHold),
		changerentalstatus.BuildExpireCommand(rentalID, afterHold),
		changerentalstatus.BuildCommand(rentalID, core.ActionReject, tenant, afterHold),
		changerentalstatus.BuildExpireCommand(rentalID, afterHold),
	}

	var wg sync.WaitGroup
	changed := make([]bool, len(commands))

	// act
	for i, command := range commands {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.handler.Handle(context.Background(), command)
			changed[i] = err == nil && !result.Handler.Idempotent
		}()
	}
	wg.Wait()

	// assert
	count := 0
	for _, c := range changed {
		if c {
			count++
		}
	}

	assert.Equal(t, 1, count)
	assertAvailableCopies(t, f.ledger, 1)
}

func givenFixture(t *testing.T, copies int) fixture {
	t.Helper()

	eventStore, err := memengine.NewEventStore()
	require.NoError(t, err)

	ledger := inventory.NewLedger()
	titleCatalog := catalog.New(ledger)
	require.NoError(t, titleCatalog.Add(context.Background(), core.Title{
		ID:          "t-1",
		Tenant:      tenant,
		Name:        "Godan",
		RentPrice:   90,
		TotalCopies: copies,
	}))

	inbox := notify.NewInbox()

	return fixture{
		checkout: checkout.NewCommandHandler(eventStore, titleCatalog, ledger, inbox),
		handler:  changerentalstatus.NewCommandHandler(eventStore, ledger, inbox),
		ledger:   ledger,
		inbox:    inbox,
	}
}

func givenPendingRental(t *testing.T, f fixture, userID core.UserIDString) core.RentalIDString {
	t.Helper()

	result, err := f.checkout.Handle(
		context.Background(),
		checkout.BuildCommand(userID, []core.TitleIDString{"t-1"}, 0, requestedAt),
	)
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	return result.Created[0].ID
}

func assertAvailableCopies(t *testing.T, ledger *inventory.Ledger, expected int) {
	t.Helper()

	level, err := ledger.Level("t-1")
	require.NoError(t, err)
	assert.Equal(t, expected, level.AvailableCopies)
}
