package userrentals

import (
	"time"

	"github.com/onelib/rentalengine/rental/shared/core"
)

const (
	queryType = "UserRentals"
)

// Query represents the input for the rentals of one user, as seen at At.
type Query struct {
	UserID core.UserIDString
	At     time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(userID core.UserIDString, at time.Time) Query {
	return Query{
		UserID: userID,
		At:     at,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
