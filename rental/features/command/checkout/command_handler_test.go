package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

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

type fixture struct {
	handler    checkout.CommandHandler
	eventStore *memengine.EventStore
	ledger     *inventory.Ledger
	inbox      *notify.Inbox
}

func Test_CommandHandler_Handle_CreatesPendingRentalsAndQuotes(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 150, 2))

	// act
	result, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1"}, 1000, checkoutAt))

	// assert
	require.NoError(t, err)
	require.Len(t, result.Created, 1)

	rental := result.Created[0]
	assert.Equal(t, core.StatusPending, rental.Status)
	assert.Equal(t, checkoutAt.Add(core.HoldPeriod), rental.HoldExpiresAt)
	require.Len(t, rental.TrackingHistory, 1)
	assert.Equal(t, core.LocationWeb, rental.TrackingHistory[0].Location)

	assert.Equal(t, core.Quote{
		Subtotal:        150,
		Tax:             8,
		GrossTotal:      158,
		PointsUsed:      158,
		FinalTotal:      0,
		PointsRemaining: 842,
	}, result.Quote)

	assertAvailableCopies(t, f.ledger, "t-1", 1)
	assertLatestNotification(t, f.inbox, "u-1", "Successfully rented 1 book(s)!", core.NotificationSuccess)
}

func Test_CommandHandler_Handle_GivesLastCopyToFirstUser_WhenTwoUsersWantIt(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 1))
	_, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-a", []string{"t-1"}, 0, checkoutAt))
	require.NoError(t, err)

	// act
	result, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-b", []string{"t-1"}, 0, checkoutAt))

	// assert
	assert.ErrorIs(t, err, core.ErrNothingToCheckout)
	assert.Empty(t, result.Created)
	require.Len(t, result.Items, 1)
	assert.Equal(t, core.CodeOutOfStock, result.Items[0].Code)
	assertAvailableCopies(t, f.ledger, "t-1", 0)
	assertLatestNotification(t, f.inbox, "u-b", "None of the selected books could be rented.", core.NotificationError)
}

func Test_CommandHandler_Handle_ReportsAlreadyRequested_WhenUserHasOpenRentalOfTitle(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 3))
	_, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt))
	require.NoError(t, err)

	// act
	result, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt))

	// assert
	assert.ErrorIs(t, err, core.ErrNothingToCheckout)
	require.Len(t, result.Items, 1)
	assert.Equal(t, core.CodeAlreadyRequested, result.Items[0].Code)
	assertAvailableCopies(t, f.ledger, "t-1", 2)
}

func Test_CommandHandler_Handle_ReportsAlreadyRequested_WhenUserHoldsDeliveredRentalOfTitle(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 3))
	first, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt))
	require.NoError(t, err)
	require.Len(t, first.Created, 1)

	givenDeliveredRental(t, f, first.Created[0].ID)
	assertAvailableCopies(t, f.ledger, "t-1", 2)

	// act
	result, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt))

	// assert
	assert.ErrorIs(t, err, core.ErrNothingToCheckout)
	assert.Empty(t, result.Created)
	require.Len(t, result.Items, 1)
	assert.Equal(t, core.CodeAlreadyRequested, result.Items[0].Code)
	assertAvailableCopies(t, f.ledger, "t-1", 2)
}

func Test_CommandHandler_Handle_ReturnsInfrastructureError_WhenEveryCatalogLookupFails(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 3))
	lookupErr := errors.New("catalog unavailable")
	handler := checkout.NewCommandHandler(f.eventStore, failingCatalog{err: lookupErr}, f.ledger, f.inbox)

	// act
	result, err := handler.Handle(context.Background(), checkout.BuildCommand("u-1", []string{"t-1", "t-2"}, 0, checkoutAt))

	// assert
	require.ErrorIs(t, err, lookupErr)
	assert.NotErrorIs(t, err, core.ErrNothingToCheckout)
	assert.Empty(t, result.Created)
	require.Len(t, result.Items, 2)
	assertAvailableCopies(t, f.ledger, "t-1", 3)
}

func Test_CommandHandler_Handle_ReturnsInfrastructureError_WhenHistoryQueryFails(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 3))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// act
	result, err := f.handler.Handle(ctx, checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt))

	// assert
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, core.ErrNothingToCheckout)
	assert.Empty(t, result.Created)
	assertAvailableCopies(t, f.ledger, "t-1", 3)
}

func Test_CommandHandler_Handle_ItemizesSkippedTitles_WhenSomeCanBeRented(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 1), givenTitle("t-2", 80, 0))

	// act
	result, err := f.handler.Handle(
		context.Background(),
		checkout.BuildCommand("u-1", []string{"t-1", "t-2", "t-unknown"}, 0, checkoutAt),
	)

	// assert
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, "t-1", result.Created[0].TitleID)
	assert.Equal(t, 100, result.Quote.Subtotal)

	codes := map[core.TitleIDString]core.ErrCode{}
	for _, item := range result.Items {
		codes[item.TitleID] = item.Code
	}

	assert.Equal(t, map[core.TitleIDString]core.ErrCode{
		"t-1":       "",
		"t-2":       core.CodeOutOfStock,
		"t-unknown": core.CodeNotFound,
	}, codes)
	assertLatestNotification(t, f.inbox, "u-1", "Rented 1 book(s), 2 could not be rented.", core.NotificationWarning)
}

func Test_CommandHandler_Handle_Fails_WhenCartIsEmpty(t *testing.T) {
	f := givenFixture(t)

	_, err := f.handler.Handle(context.Background(), checkout.BuildCommand("u-1", nil, 0, checkoutAt))

	assert.ErrorIs(t, err, core.ErrNothingToCheckout)
}

func Test_CommandHandler_Handle_CreatesOneRental_WhenSameUserChecksOutConcurrently(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 5))
	const attempts = 8

	var wg sync.WaitGroup
	results := make([]checkout.Result, attempts)
	errs := make([]error, attempts)

	// act
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = f.handler.Handle(
				context.Background(),
				checkout.BuildCommand("u-1", []string{"t-1"}, 0, checkoutAt),
			)
		}()
	}
	wg.Wait()

	// assert
	created := 0
	for i := range attempts {
		created += len(results[i].Created)

		if errs[i] != nil {
			assert.ErrorIs(t, errs[i], core.ErrNothingToCheckout)
			assert.Equal(t, core.CodeAlreadyRequested, results[i].Items[0].Code)
		}
	}

	assert.Equal(t, 1, created)
	assertAvailableCopies(t, f.ledger, "t-1", 4)
}

func Test_CommandHandler_Handle_NeverOversells_WhenManyUsersRaceForFewCopies(t *testing.T) {
	// arrange
	f := givenFixture(t, givenTitle("t-1", 100, 3))
	const users = 20

	var wg sync.WaitGroup
	created := make([]int, users)

	// act
	for i := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _ := f.handler.Handle(
				context.Background(),
				checkout.BuildCommand(core.UserIDString(rune('a'+i)), []string{"t-1"}, 0, checkoutAt),
			)
			created[i] = len(result.Created)
		}()
	}
	wg.Wait()

	// assert
	total := 0
	for _, n := range created {
		total += n
	}

	assert.Equal(t, 3, total)
	assertAvailableCopies(t, f.ledger, "t-1", 0)
}

func givenFixture(t *testing.T, titles ...core.Title) fixture {
	t.Helper()

	eventStore, err := memengine.NewEventStore()
	require.NoError(t, err)

	ledger := inventory.NewLedger()
	titleCatalog := catalog.New(ledger)

	for _, title := range titles {
		require.NoError(t, titleCatalog.Add(context.Background(), title))
	}

	inbox := notify.NewInbox()

	return fixture{
		handler:    checkout.NewCommandHandler(eventStore, titleCatalog, ledger, inbox),
		eventStore: eventStore,
		ledger:     ledger,
		inbox:      inbox,
	}
}

type failingCatalog struct {
	err error
}

func (c failingCatalog) Title(context.Context, core.TitleIDString) (core.Title, error) {
	return core.Title{}, c.err
}

// givenDeliveredRental walks a pending rental through approve, dispatch and deliver.
func givenDeliveredRental(t *testing.T, f fixture, rentalID core.RentalIDString) {
	t.Helper()

	statusHandler := changerentalstatus.NewCommandHandler(f.eventStore, f.ledger, nil)

	for _, action := range []core.Action{core.ActionApprove, core.ActionDispatch, core.ActionDeliver} {
		_, err := statusHandler.Handle(
			context.Background(),
			changerentalstatus.BuildCommand(rentalID, action, "city-library", checkoutAt),
		)
		require.NoError(t, err)
	}
}

func assertAvailableCopies(t *testing.T, ledger *inventory.Ledger, titleID core.TitleIDString, expected int) {
	t.Helper()

	level, err := ledger.Level(titleID)
	require.NoError(t, err)
	assert.Equal(t, expected, level.AvailableCopies)
}

func assertLatestNotification(
	t *testing.T,
	inbox *notify.Inbox,
	userID core.UserIDString,
	message string,
	kind core.NotificationType,
) {
	t.Helper()

	notifications := inbox.List(userID)
	require.NotEmpty(t, notifications)
	assert.Equal(t, message, notifications[0].Message)
	assert.Equal(t, kind, notifications[0].Type)
}
