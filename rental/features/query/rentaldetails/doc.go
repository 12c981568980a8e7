// Package rentaldetails implements the Rental Details query: one rental with its full tracking history.
//
// Like the status changes, the query is scoped to the asking actor. A rental of another member or fulfilled
// by another tenant is reported as NOT_FOUND.
package rentaldetails
