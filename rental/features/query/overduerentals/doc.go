// Package overduerentals implements the Overdue Rentals query: the delivered rentals of a tenant
// whose due date has passed, most overdue first. Overdue is never stored, it is computed at query time.
package overduerentals
