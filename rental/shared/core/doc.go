// Package core contains the pure domain of the rental engine: the rental domain events,
// the Rental projection with its tracking history, the status transition table,
// coded business errors, titles with their availability and the checkout pricing rules.
//
// Nothing in here does I/O. Feature packages query events, project them with the functions of this
// package, decide, and hand the resulting event back to their shell for appending.
package core
