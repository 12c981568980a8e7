package inventory_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
)

func Test_Ledger_Reserve_Fails_WhenNoCopyIsAvailable(t *testing.T) {
	// arrange
	ledger := givenLedger(t, "t-1", 1)

	// act
	first := ledger.Reserve("t-1")
	second := ledger.Reserve("t-1")

	// assert
	assert.NoError(t, first)
	assert.ErrorIs(t, second, core.ErrOutOfStock)
	assertLevel(t, ledger, "t-1", 1, 0)
}

func Test_Ledger_Release_IsClampedToTotal(t *testing.T) {
	ledger := givenLedger(t, "t-1", 2)

	require.NoError(t, ledger.Release("t-1"))

	assertLevel(t, ledger, "t-1", 2, 2)
}

func Test_Ledger_Fails_WhenTitleIsUnknown(t *testing.T) {
	ledger := inventory.NewLedger()

	assert.ErrorIs(t, ledger.Reserve("nope"), core.ErrNotFound)
	assert.ErrorIs(t, ledger.Release("nope"), core.ErrNotFound)
	assert.ErrorIs(t, ledger.Restock("nope", 1), core.ErrNotFound)
	_, err := ledger.Level("nope")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func Test_Ledger_ConservesStock_OverReservesAndReleases(t *testing.T) {
	// arrange
	ledger := givenLedger(t, "t-1", 3)
	ops := []bool{true, true, false, true, true, false, false, true}
	reserves, releases := 0, 0

	// act
	for _, reserve := range ops {
		if reserve {
			require.NoError(t, ledger.Reserve("t-1"))
			reserves++
		} else {
			require.NoError(t, ledger.Release("t-1"))
			releases++
		}
	}

	// assert
	assertLevel(t, ledger, "t-1", 3, 3+releases-reserves)
}

func Test_Ledger_StaysInBounds_UnderConcurrentReserves(t *testing.T) {
	// arrange
	ledger := givenLedger(t, "t-1", 5)
	var wg sync.WaitGroup
	var succeeded atomic.Int32

	// act
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ledger.Reserve("t-1") == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	// assert
	assert.Equal(t, int32(5), succeeded.Load())
	assertLevel(t, ledger, "t-1", 5, 0)
}

func Test_Ledger_ReserveFor_UndoesReservation_WhenCreateFails(t *testing.T) {
	// arrange
	ledger := givenLedger(t, "t-1", 1)
	createErr := errors.New("append failed")

	// act
	err := ledger.ReserveFor("t-1", func() error { return createErr })

	// assert
	assert.ErrorIs(t, err, createErr)
	assertLevel(t, ledger, "t-1", 1, 1)
}

func Test_Ledger_ReserveFor_SkipsCreate_WhenOutOfStock(t *testing.T) {
	ledger := givenLedger(t, "t-1", 0)
	called := false

	err := ledger.ReserveFor("t-1", func() error { called = true; return nil })

	assert.ErrorIs(t, err, core.ErrOutOfStock)
	assert.False(t, called)
}

func Test_Ledger_ReleaseAfter_ReleasesOnlyOnCommit(t *testing.T) {
	// arrange
	ledger := givenLedger(t, "t-1", 2)
	require.NoError(t, ledger.Reserve("t-1"))
	require.NoError(t, ledger.Reserve("t-1"))

	// act
	failed := ledger.ReleaseAfter("t-1", func() error { return errors.New("conflict") })
	committed := ledger.ReleaseAfter("t-1", func() error { return nil })

	// assert
	assert.Error(t, failed)
	assert.NoError(t, committed)
	assertLevel(t, ledger, "t-1", 2, 1)
}

func Test_Ledger_Restock_AddsToBothCounters(t *testing.T) {
	ledger := givenLedger(t, "t-1", 1)
	require.NoError(t, ledger.Reserve("t-1"))

	require.NoError(t, ledger.Restock("t-1", 2))
	assert.ErrorIs(t, ledger.Restock("t-1", 0), core.ErrInvalidInput)

	assertLevel(t, ledger, "t-1", 3, 2)
}

func Test_Ledger_Register_AddsCopies_WhenTitleIsKnown(t *testing.T) {
	ledger := givenLedger(t, "t-1", 1)

	require.NoError(t, ledger.Register("t-1", 2))

	assertLevel(t, ledger, "t-1", 3, 3)
	assert.ErrorIs(t, ledger.Register("t-2", -1), core.ErrInvalidInput)
}

func givenLedger(t *testing.T, titleID core.TitleIDString, copies int) *inventory.Ledger {
	t.Helper()

	ledger := inventory.NewLedger()
	require.NoError(t, ledger.Register(titleID, copies))

	return ledger
}

func assertLevel(t *testing.T, ledger *inventory.Ledger, titleID core.TitleIDString, total, available int) {
	t.Helper()

	level, err := ledger.Level(titleID)
	require.NoError(t, err)
	assert.Equal(t, total, level.TotalCopies)
	assert.Equal(t, available, level.AvailableCopies)
	assert.Equal(t, core.AvailabilityOf(available), level.Availability)
}
