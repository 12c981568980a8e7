package importtitles

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
)

const (
	commandType = "ImportTitles"

	// DefaultRentPrice is used when the Price column is missing or not a positive number.
	DefaultRentPrice = 49

	// DefaultCategory is used when the Category column is empty.
	DefaultCategory = "General"

	// DefaultPublisher is used when the Publisher column is empty.
	DefaultPublisher = "Unknown"

	copiesPerRow = 1
)

// ErrReadingCSVFailed is returned when the upload is not readable as CSV.
var ErrReadingCSVFailed = errors.New("reading csv failed")

// Catalog is the part of the catalog the importer writes to.
type Catalog interface {
	Add(ctx context.Context, title core.Title) error
	FindByName(ctx context.Context, tenant core.TenantString, name string) (core.Title, bool)
}

// Inventory adds copies to titles the catalog already has.
type Inventory interface {
	Restock(titleID core.TitleIDString, delta int) error
}

// RejectedRow explains why a CSV line was not imported. Line is 1-based.
type RejectedRow struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Report itemizes the outcome of an import.
type Report struct {
	Added     []core.Title         `json:"added"`
	Restocked []core.TitleIDString `json:"restocked"`
	Rejected  []RejectedRow        `json:"rejected"`
}

// Imported returns how many rows made it into the catalog.
func (r Report) Imported() int {
	return len(r.Added) + len(r.Restocked)
}

// Importer parses CSV uploads into catalog titles.
type Importer struct {
	catalog          Catalog
	inventory        Inventory
	newID            func() string
	logger           shell.Logger
	metricsCollector shell.MetricsCollector
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger for the importer.
func WithLogger(logger shell.Logger) Option {
	return func(i *Importer) {
		i.logger = logger
	}
}

// WithMetrics sets the metrics collector for the importer.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(i *Importer) {
		i.metricsCollector = collector
	}
}

// NewImporter creates an Importer.
func NewImporter(catalog Catalog, inventory Inventory, opts ...Option) Importer {
	importer := Importer{
		catalog:   catalog,
		inventory: inventory,
		newID:     uuid.NewString,
	}

	for _, opt := range opts {
		opt(&importer)
	}

	return importer
}

// Import reads every row of the upload into the tenant's catalog.
// Invalid rows are itemized in the report. The import fails with INVALID_INPUT only if no row could be imported.
func (i Importer) Import(ctx context.Context, tenant core.TenantString, upload io.Reader) (report Report, err error) {
	startedAt := time.Now()
	defer func() {
		shell.ObserveCommand(i.logger, i.metricsCollector, commandType, startedAt, shell.HandlerResult{}, err)
	}()

	if strings.TrimSpace(tenant) == "" {
		return Report{}, core.InvalidInput("an import needs a tenant")
	}

	reader := csv.NewReader(upload)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	first := true

	for {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}

		if readErr != nil {
			var parseErr *csv.ParseError
			if errors.As(readErr, &parseErr) {
				report.Rejected = append(report.Rejected, RejectedRow{Line: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}

			return report, errors.Join(ErrReadingCSVFailed, readErr)
		}

		line, _ := reader.FieldPos(0)

		if first {
			first = false
			if isHeader(record) {
				continue
			}
		}

		if reason := i.importRow(ctx, tenant, record, &report); reason != "" {
			report.Rejected = append(report.Rejected, RejectedRow{Line: line, Reason: reason})
		}
	}

	if report.Imported() == 0 {
		return report, core.InvalidInput("no valid books found in the upload")
	}

	return report, nil
}

// importRow returns the reason a row was rejected, or "" once it is in the catalog.
func (i Importer) importRow(ctx context.Context, tenant core.TenantString, record []string, report *Report) string {
	if len(record) < 2 {
		return "a row needs at least a title and an author"
	}

	title := rowTitle(tenant, record)
	if title.Name == "" || title.Author == "" {
		return "title and author must not be empty"
	}

	if existing, found := i.catalog.FindByName(ctx, tenant, title.Name); found {
		if err := i.inventory.Restock(existing.ID, copiesPerRow); err != nil {
			return err.Error()
		}

		report.Restocked = append(report.Restocked, existing.ID)

		return ""
	}

	title.ID = i.newID()
	if err := i.catalog.Add(ctx, title); err != nil {
		return err.Error()
	}

	title.AvailableCopies = title.TotalCopies
	report.Added = append(report.Added, title)

	return ""
}

func rowTitle(tenant core.TenantString, record []string) core.Title {
	column := func(n int) string {
		if n < len(record) {
			return strings.TrimSpace(record[n])
		}

		return ""
	}

	title := core.Title{
		Tenant:      tenant,
		Name:        column(0),
		Author:      column(1),
		Category:    column(2),
		Publisher:   column(4),
		RentPrice:   DefaultRentPrice,
		TotalCopies: copiesPerRow,
	}

	if title.Category == "" {
		title.Category = DefaultCategory
	}

	if title.Publisher == "" {
		title.Publisher = DefaultPublisher
	}

	if price, err := strconv.Atoi(column(3)); err == nil && price > 0 {
		title.RentPrice = price
	}

	return title
}

func isHeader(record []string) bool {
	return strings.Contains(strings.ToLower(strings.Join(record, ",")), "title")
}
