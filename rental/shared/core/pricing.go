package core

// TaxPercent is the tax applied on the subtotal of a checkout.
const TaxPercent = 5

// Quote is the integer price breakdown of a checkout. 1 point equals 1 currency unit.
type Quote struct {
	Subtotal        int `json:"subtotal"`
	Tax             int `json:"tax"`
	GrossTotal      int `json:"grossTotal"`
	PointsUsed      int `json:"pointsUsed"`
	FinalTotal      int `json:"finalTotal"`
	PointsRemaining int `json:"pointsRemaining"`
}

// PriceCart computes the Quote for the given rent prices and point balance.
// Tax is rounded half-up; negative point balances count as zero.
func PriceCart(rentPrices []int, availablePoints int) Quote {
	subtotal := 0
	for _, price := range rentPrices {
		subtotal += price
	}

	tax := (subtotal*TaxPercent + 50) / 100
	gross := subtotal + tax
	points := max(availablePoints, 0)
	pointsUsed := min(points, gross)

	return Quote{
		Subtotal:        subtotal,
		Tax:             tax,
		GrossTotal:      gross,
		PointsUsed:      pointsUsed,
		FinalTotal:      gross - pointsUsed,
		PointsRemaining: points - pointsUsed,
	}
}
