package rentaldetails

import (
	"github.com/onelib/rentalengine/rental/shared/core"
)

// RentalDetails represents the query result.
type RentalDetails struct {
	Rental         core.RentalView `json:"rental"`
	SequenceNumber uint            `json:"-"`
}
