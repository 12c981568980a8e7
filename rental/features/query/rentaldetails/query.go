package rentaldetails

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	queryType = "RentalDetails"
)

// Query asks for one rental as seen at At. Empty UserID and Tenant leave the query unscoped.
type Query struct {
	RentalID core.RentalIDString
	UserID   core.UserIDString
	Tenant   core.TenantString
	At       time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(
	rentalID core.RentalIDString,
	userID core.UserIDString,
	tenant core.TenantString,
	at time.Time,
) Query {

	return Query{
		RentalID: rentalID,
		UserID:   userID,
		Tenant:   tenant,
		At:       at,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
