package tenantqueue

import (
	"github.com/onelib/rentalengine/rental/shared/core"
)

// TenantQueue represents the query result, oldest request first.
type TenantQueue struct {
	Status         core.Status       `json:"status"`
	Rentals        []core.RentalView `json:"rentals"`
	Count          int               `json:"count"`
	SequenceNumber uint              `json:"-"`
}
