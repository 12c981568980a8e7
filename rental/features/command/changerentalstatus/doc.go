// Package changerentalstatus implements every status change of a rental: the librarian actions,
// the return request of the member and the expiry of a hold.
//
// A change is accepted only if the (status, action) pair is listed in the transition table of core.
// Changes into a terminal status credit the held copy back to the inventory ledger, inside the same
// critical section as the append, so only the actor whose append commits releases the copy.
package changerentalstatus
