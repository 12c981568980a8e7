package overduerentals

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	queryType = "OverdueRentals"
)

// Query represents the input for the overdue rentals of a tenant at At.
type Query struct {
	Tenant core.TenantString
	At     time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(tenant core.TenantString, at time.Time) Query {
	return Query{Tenant: tenant, At: at}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
