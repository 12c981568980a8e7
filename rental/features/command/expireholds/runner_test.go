package expireholds_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/onelib/rentalengine/rental/features/command/expireholds"
	"github.com/onelib/rentalengine/rental/shared/core"
)

func Test_Runner_SweepsOnInterval_AndStopsWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	// arrange
	f := givenFixture(t)
	givenPendingRental(t, f, "u-1", requestedAt)
	afterHold := func() time.Time { return requestedAt.Add(core.HoldPeriod + time.Minute) }
	runner := expireholds.NewRunner(f.sweeper, 5*time.Millisecond, afterHold, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// act
	go func() {
		done <- runner.Run(ctx)
	}()

	// assert
	require.Eventually(t, func() bool {
		level, err := f.ledger.Level("t-1")
		return err == nil && level.AvailableCopies == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}
