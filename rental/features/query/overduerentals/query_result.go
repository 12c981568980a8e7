package overduerentals

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

// OverdueRental is a rental past its due date.
type OverdueRental struct {
	core.RentalView
	DaysOverdue int `json:"daysOverdue"`
}

// OverdueRentals represents the query result.
type OverdueRentals struct {
	Rentals        []OverdueRental `json:"rentals"`
	Count          int             `json:"count"`
	SequenceNumber uint            `json:"-"`
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from) / (24 * time.Hour))
}
