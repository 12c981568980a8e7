package userrentals

import (
	"github.com/onelib/rentalengine/rental/shared/core"
)

// UserRentals represents the query result.
type UserRentals struct {
	Rentals        []core.RentalView `json:"rentals"`
	Count          int               `json:"count"`
	Active         int               `json:"active"`
	Overdue        int               `json:"overdue"`
	SequenceNumber uint              `json:"-"`
}
