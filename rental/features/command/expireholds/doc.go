// Package expireholds cancels pending rentals whose hold ran out and credits their copies back.
//
// The Sweeper only selects candidates. Each candidate goes through the expire path of the state machine,
// which re-reads the rental before acting, so a rental approved or rejected in the meantime is left alone.
// Running the sweep again cancels nothing new.
package expireholds
