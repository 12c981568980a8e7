// Package userrentals implements the member dashboard query: all rentals of one user, newest first,
// each with its computed overdue state.
package userrentals
