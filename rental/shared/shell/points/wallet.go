// Package points keeps the reward point balance of every user in memory. 1 point equals 1 currency unit.
package points

import (
	"sync"

	"github.com/onelib/rentalengine/rental/shared/core"
)

// Wallet holds point balances per user. Unknown users have a zero balance.
type Wallet struct {
	mu       sync.Mutex
	balances map[core.UserIDString]int
}

// NewWallet creates an empty Wallet.
func NewWallet() *Wallet {
	return &Wallet{balances: make(map[core.UserIDString]int)}
}

// Balance returns the balance of the user.
func (w *Wallet) Balance(userID core.UserIDString) int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.balances[userID]
}

// Credit adds amount points and returns the new balance.
func (w *Wallet) Credit(userID core.UserIDString, amount int) (int, error) {
	if amount <= 0 {
		return 0, core.InvalidInput("credit needs a positive amount, got %d", amount)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.balances[userID] += amount

	return w.balances[userID], nil
}

// Spend takes up to limit points in one step and returns how many were taken.
// Concurrent callers never take the same points twice.
func (w *Wallet) Spend(userID core.UserIDString, limit int) int {
	if limit <= 0 {
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	taken := min(limit, w.balances[userID])
	w.balances[userID] -= taken

	return taken
}
