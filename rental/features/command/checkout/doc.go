// Package checkout implements the Checkout use case: it turns a cart of titles into one pending
// rental per title, each holding one copy of its title for core.HoldPeriod.
//
// Checkout is best-effort per item. Titles the user already has an open rental for are skipped with
// ALREADY_REQUESTED, unknown titles with NOT_FOUND and titles without an available copy with OUT_OF_STOCK.
// Only when no title is left does the whole checkout fail, with NOTHING_TO_CHECKOUT.
//
// Reserving the copy and appending RentalRequested form one critical section under the title lock
// of the inventory ledger. The append is guarded by the (user, title) event stream, so two concurrent
// checkouts of the same title by the same user cannot both succeed.
package checkout
