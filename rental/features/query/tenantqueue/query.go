package tenantqueue

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	queryType = "TenantQueue"
)

// Query represents the input for the work queue of a librarian.
// Status may be any stored status or core.StatusOverdue, it defaults to core.StatusPending.
type Query struct {
	Tenant core.TenantString
	Status core.Status
	At     time.Time
}

// BuildQuery creates a new Query. An empty status selects the pending requests.
func BuildQuery(tenant core.TenantString, status core.Status, at time.Time) Query {
	if status == "" {
		status = core.StatusPending
	}

	return Query{
		Tenant: tenant,
		Status: status,
		At:     at,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
