// Package catalog is the in-memory catalog the engine reads titles from.
// Copy counters are not stored here: every returned Title carries the live counts of the inventory ledger.
package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell/inventory"
)

// PageSize is the number of titles per search page.
const PageSize = 24

// FieldResults groups search hits by the field that matched.
type FieldResults struct {
	Title     []core.Title `json:"title"`
	Author    []core.Title `json:"author"`
	Publisher []core.Title `json:"publisher"`
}

// Catalog stores title metadata and reads copy counters from the ledger.
type Catalog struct {
	ledger *inventory.Ledger

	mu     sync.RWMutex
	titles map[core.TitleIDString]core.Title
	order  []core.TitleIDString
}

// New creates an empty Catalog on top of the ledger.
func New(ledger *inventory.Ledger) *Catalog {
	return &Catalog{
		ledger: ledger,
		titles: make(map[core.TitleIDString]core.Title),
	}
}

// Add stores a new title and registers its copies with the ledger.
func (c *Catalog) Add(_ context.Context, title core.Title) error {
	if title.ID == "" || strings.TrimSpace(title.Name) == "" {
		return core.InvalidInput("a title needs an id and a name")
	}

	if title.RentPrice < 0 {
		return core.InvalidInput("title %s has a negative rent price", title.ID)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.titles[title.ID]; exists {
		return core.InvalidInput("title %s already exists", title.ID)
	}

	if err := c.ledger.Register(title.ID, title.TotalCopies); err != nil {
		return err
	}

	title.AvailableCopies = 0
	c.titles[title.ID] = title
	c.order = append(c.order, title.ID)

	return nil
}

// Title returns the title with live copy counters, or NotFound.
func (c *Catalog) Title(_ context.Context, id core.TitleIDString) (core.Title, error) {
	c.mu.RLock()
	title, ok := c.titles[id]
	c.mu.RUnlock()

	if !ok {
		return core.Title{}, core.TitleNotFound(id)
	}

	return c.withStock(title), nil
}

// FindByName returns the title of the tenant with the given name, compared case-insensitively.
func (c *Catalog) FindByName(_ context.Context, tenant core.TenantString, name string) (core.Title, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		title := c.titles[id]
		if title.Tenant == tenant && strings.EqualFold(title.Name, strings.TrimSpace(name)) {
			return c.withStock(title), true
		}
	}

	return core.Title{}, false
}

// Search returns page (1-based) of the titles whose name, author, publisher or category contains query.
// An empty query matches every title; category, unless empty or "All", must match exactly.
func (c *Catalog) Search(_ context.Context, query, category string, page int) ([]core.Title, error) {
	if page < 1 {
		page = 1
	}

	query = strings.ToLower(strings.TrimSpace(query))

	c.mu.RLock()
	defer c.mu.RUnlock()

	hits := make([]core.Title, 0)
	skip := (page - 1) * PageSize

	for _, id := range c.order {
		title := c.titles[id]

		if category != "" && !strings.EqualFold(category, "All") && !strings.EqualFold(category, title.Category) {
			continue
		}

		if query != "" && !containsAny(query, title.Name, title.Author, title.Publisher, title.Category) {
			continue
		}

		if skip > 0 {
			skip--
			continue
		}

		hits = append(hits, c.withStock(title))
		if len(hits) == PageSize {
			break
		}
	}

	return hits, nil
}

// SearchByField groups the titles matching query by the field that matched. A title may appear in several groups.
func (c *Catalog) SearchByField(_ context.Context, query string) (FieldResults, error) {
	results := FieldResults{Title: []core.Title{}, Author: []core.Title{}, Publisher: []core.Title{}}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return results, nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, id := range c.order {
		title := c.withStock(c.titles[id])

		if containsAny(query, title.Name) {
			results.Title = append(results.Title, title)
		}

		if containsAny(query, title.Author) {
			results.Author = append(results.Author, title)
		}

		if containsAny(query, title.Publisher) {
			results.Publisher = append(results.Publisher, title)
		}
	}

	return results, nil
}

func (c *Catalog) withStock(title core.Title) core.Title {
	if level, err := c.ledger.Level(title.ID); err == nil {
		title.TotalCopies = level.TotalCopies
		title.AvailableCopies = level.AvailableCopies
	}

	return title
}

func containsAny(lowerQuery string, fields ...string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), lowerQuery) {
			return true
		}
	}

	return false
}
