package core

// Availability is derived from the available copies of a Title.
type Availability string

const (
	AvailabilityAvailable  Availability = "Available"
	AvailabilityOutOfStock Availability = "OutOfStock"
)

// AvailabilityOf is the pure function behind the availability of a Title.
func AvailabilityOf(availableCopies int) Availability {
	if availableCopies > 0 {
		return AvailabilityAvailable
	}

	return AvailabilityOutOfStock
}

// Title is a catalog item. Catalog data is owned by the catalog; the copy counters are owned by the inventory ledger.
type Title struct {
	ID              TitleIDString `json:"id"`
	Tenant          TenantString  `json:"libraryPartner"`
	Name            string        `json:"title"`
	Author          string        `json:"author"`
	Publisher       string        `json:"publisher"`
	Category        string        `json:"category"`
	RentPrice       int           `json:"rentPrice"`
	TotalCopies     int           `json:"totalCopies"`
	AvailableCopies int           `json:"availableCopies"`
}

// Availability returns the derived availability of t.
func (t Title) Availability() Availability {
	return AvailabilityOf(t.AvailableCopies)
}
