// Package inventory owns the copy counters of the catalog titles.
//
// Every counter change of a title happens under the lock of that title, so
// 0 <= available <= total holds at all times, whatever the concurrency.
package inventory

import (
	"sync"

	"github.com/onelib/rentalengine/rental/shared/core"
)

// StockLevel is a snapshot of the counters of one title.
type StockLevel struct {
	TotalCopies     int               `json:"totalCopies"`
	AvailableCopies int               `json:"availableCopies"`
	Availability    core.Availability `json:"availability"`
}

type titleStock struct {
	mu        sync.Mutex
	total     int
	available int
}

// Ledger holds per-title copy counters, each guarded by its own mutex.
type Ledger struct {
	mu     sync.RWMutex
	titles map[core.TitleIDString]*titleStock
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{titles: make(map[core.TitleIDString]*titleStock)}
}

// Register adds a title with all of its copies available.
// Registering a known title adds totalCopies to it, like Restock.
func (l *Ledger) Register(titleID core.TitleIDString, totalCopies int) error {
	if titleID == "" || totalCopies < 0 {
		return core.InvalidInput("title %q cannot be registered with %d copies", titleID, totalCopies)
	}

	l.mu.Lock()
	stock, known := l.titles[titleID]
	if !known {
		l.titles[titleID] = &titleStock{total: totalCopies, available: totalCopies}
	}
	l.mu.Unlock()

	if known {
		stock.mu.Lock()
		stock.total += totalCopies
		stock.available += totalCopies
		stock.mu.Unlock()
	}

	return nil
}

// Restock adds delta copies to both counters of a known title.
func (l *Ledger) Restock(titleID core.TitleIDString, delta int) error {
	if delta <= 0 {
		return core.InvalidInput("restock of title %s needs a positive delta, got %d", titleID, delta)
	}

	stock, err := l.stockOf(titleID)
	if err != nil {
		return err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	stock.total += delta
	stock.available += delta

	return nil
}

// Reserve takes one copy of the title. It fails with OutOfStock when no copy is available.
func (l *Ledger) Reserve(titleID core.TitleIDString) error {
	stock, err := l.stockOf(titleID)
	if err != nil {
		return err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	return stock.reserve(titleID)
}

// Release credits one copy back to the title, clamped to its total.
func (l *Ledger) Release(titleID core.TitleIDString) error {
	stock, err := l.stockOf(titleID)
	if err != nil {
		return err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	stock.release()

	return nil
}

// ReserveFor reserves one copy and runs create while still holding the title lock.
// If create fails, the reservation is undone and the error of create is returned.
func (l *Ledger) ReserveFor(titleID core.TitleIDString, create func() error) error {
	stock, err := l.stockOf(titleID)
	if err != nil {
		return err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	if err = stock.reserve(titleID); err != nil {
		return err
	}

	if err = create(); err != nil {
		stock.release()
		return err
	}

	return nil
}

// ReleaseAfter runs commit while holding the title lock and credits one copy back only if commit succeeded.
func (l *Ledger) ReleaseAfter(titleID core.TitleIDString, commit func() error) error {
	stock, err := l.stockOf(titleID)
	if err != nil {
		return err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	if err = commit(); err != nil {
		return err
	}

	stock.release()

	return nil
}

// Level returns the current counters of the title.
func (l *Ledger) Level(titleID core.TitleIDString) (StockLevel, error) {
	stock, err := l.stockOf(titleID)
	if err != nil {
		return StockLevel{}, err
	}

	stock.mu.Lock()
	defer stock.mu.Unlock()

	return StockLevel{
		TotalCopies:     stock.total,
		AvailableCopies: stock.available,
		Availability:    core.AvailabilityOf(stock.available),
	}, nil
}

// Knows reports whether the title is registered.
func (l *Ledger) Knows(titleID core.TitleIDString) bool {
	_, err := l.stockOf(titleID)
	return err == nil
}

func (l *Ledger) stockOf(titleID core.TitleIDString) (*titleStock, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stock, ok := l.titles[titleID]
	if !ok {
		return nil, core.TitleNotFound(titleID)
	}

	return stock, nil
}

func (s *titleStock) reserve(titleID core.TitleIDString) error {
	if s.available == 0 {
		return core.OutOfStock(titleID)
	}

	s.available--

	return nil
}

func (s *titleStock) release() {
	if s.available < s.total {
		s.available++
	}
}
