package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onelib/rentalengine/rental/shared/core"
)

func Test_PriceCart_RedeemsPoints_WhenBalanceCoversTotal(t *testing.T) {
	// act
	quote := core.PriceCart([]int{49, 49, 52}, 1000)

	// assert
	assert.Equal(t, core.Quote{
		Subtotal:        150,
		Tax:             8,
		GrossTotal:      158,
		PointsUsed:      158,
		FinalTotal:      0,
		PointsRemaining: 842,
	}, quote)
}

func Test_PriceCart_UsesWholeBalance_WhenBalanceIsBelowTotal(t *testing.T) {
	quote := core.PriceCart([]int{100}, 30)

	assert.Equal(t, 5, quote.Tax)
	assert.Equal(t, 105, quote.GrossTotal)
	assert.Equal(t, 30, quote.PointsUsed)
	assert.Equal(t, 75, quote.FinalTotal)
	assert.Equal(t, 0, quote.PointsRemaining)
}

func Test_PriceCart_RoundsTaxHalfUp(t *testing.T) {
	tests := []struct {
		subtotal int
		tax      int
	}{
		{subtotal: 0, tax: 0},
		{subtotal: 9, tax: 0},
		{subtotal: 10, tax: 1},
		{subtotal: 49, tax: 2},
		{subtotal: 50, tax: 3},
		{subtotal: 98, tax: 5},
	}

	for _, tt := range tests {
		quote := core.PriceCart([]int{tt.subtotal}, 0)

		assert.Equal(t, tt.tax, quote.Tax, "subtotal %d", tt.subtotal)
		assert.Equal(t, tt.subtotal+tt.tax, quote.FinalTotal, "subtotal %d", tt.subtotal)
	}
}

func Test_PriceCart_IgnoresNegativeBalance(t *testing.T) {
	quote := core.PriceCart([]int{49}, -10)

	assert.Equal(t, 0, quote.PointsUsed)
	assert.Equal(t, 0, quote.PointsRemaining)
	assert.Equal(t, quote.GrossTotal, quote.FinalTotal)
}
