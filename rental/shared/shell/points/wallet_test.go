package points_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell/points"
)

func Test_Wallet_Spend_TakesWhatCheckoutUses_AndRefundKeepsTheRest(t *testing.T) {
	// arrange
	wallet := points.NewWallet()
	_, err := wallet.Credit("u-1", 1000)
	require.NoError(t, err)

	// act
	held := wallet.Spend("u-1", wallet.Balance("u-1"))
	quote := core.PriceCart([]int{49, 49, 52}, held)
	balance, err := wallet.Credit("u-1", held-quote.PointsUsed)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1000, held)
	assert.Equal(t, quote.PointsRemaining, balance)
	assert.Equal(t, 842, wallet.Balance("u-1"))
}

func Test_Wallet_Spend_TakesOnlyTheBalance_WhenLimitIsHigher(t *testing.T) {
	wallet := points.NewWallet()
	_, err := wallet.Credit("u-1", 40)
	require.NoError(t, err)

	taken := wallet.Spend("u-1", 100)

	assert.Equal(t, 40, taken)
	assert.Equal(t, 0, wallet.Balance("u-1"))
}

func Test_Wallet_Spend_TakesNothing_WhenLimitIsNotPositive(t *testing.T) {
	wallet := points.NewWallet()
	_, err := wallet.Credit("u-1", 40)
	require.NoError(t, err)

	assert.Equal(t, 0, wallet.Spend("u-1", 0))
	assert.Equal(t, 0, wallet.Spend("u-1", -5))
	assert.Equal(t, 40, wallet.Balance("u-1"))
}

func Test_Wallet_Spend_NeverHandsOutMoreThanTheBalance_WhenCalledConcurrently(t *testing.T) {
	// arrange
	wallet := points.NewWallet()
	_, err := wallet.Credit("u-1", 100)
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		total atomic.Int64
	)

	// act
	for range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()
			total.Add(int64(wallet.Spend("u-1", 100)))
		}()
	}

	wg.Wait()

	// assert
	assert.Equal(t, int64(100), total.Load())
	assert.Equal(t, 0, wallet.Balance("u-1"))
}

func Test_Wallet_Credit_Fails_WhenAmountIsNotPositive(t *testing.T) {
	_, err := points.NewWallet().Credit("u-1", 0)

	assert.ErrorIs(t, err, core.ErrInvalidInput)
}
