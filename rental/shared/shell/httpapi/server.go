package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/onelib/rentalengine/rental/features/command/changerentalstatus"
	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/features/command/importtitles"
	"github.com/onelib/rentalengine/rental/features/command/renewrental"
	"github.com/onelib/rentalengine/rental/features/query/overduerentals"
	"github.com/onelib/rentalengine/rental/features/query/rentaldetails"
	"github.com/onelib/rentalengine/rental/features/query/tenantqueue"
	"github.com/onelib/rentalengine/rental/features/query/userrentals"
	"github.com/onelib/rentalengine/rental/shared/core"
	"github.com/onelib/rentalengine/rental/shared/shell"
	"github.com/onelib/rentalengine/rental/shared/shell/catalog"
)

// CheckoutHandler turns a cart into pending rentals.
type CheckoutHandler interface {
	Handle(ctx context.Context, command checkout.Command) (checkout.Result, error)
}

// StatusHandler applies a lifecycle action to one rental.
type StatusHandler interface {
	Handle(ctx context.Context, command changerentalstatus.Command) (changerentalstatus.Result, error)
}

// RenewHandler extends the due date of a delivered rental.
type RenewHandler interface {
	Handle(ctx context.Context, command renewrental.Command) (core.Rental, shell.HandlerResult, error)
}

// RentalDetailsHandler reads one rental.
type RentalDetailsHandler interface {
	Handle(ctx context.Context, query rentaldetails.Query) (rentaldetails.RentalDetails, error)
}

// UserRentalsHandler lists the rentals of a member.
type UserRentalsHandler interface {
	Handle(ctx context.Context, query userrentals.Query) (userrentals.UserRentals, error)
}

// TenantQueueHandler lists the rentals a librarian works on.
type TenantQueueHandler interface {
	Handle(ctx context.Context, query tenantqueue.Query) (tenantqueue.TenantQueue, error)
}

// OverdueHandler lists the delivered rentals of a tenant that are past their due date.
type OverdueHandler interface {
	Handle(ctx context.Context, query overduerentals.Query) (overduerentals.OverdueRentals, error)
}

// Importer loads titles from a CSV upload.
type Importer interface {
	Import(ctx context.Context, tenant core.TenantString, upload io.Reader) (importtitles.Report, error)
}

// Sweeper cancels pending rentals whose hold ran out.
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// Catalog serves the title search.
type Catalog interface {
	Search(ctx context.Context, query, category string, page int) ([]core.Title, error)
	SearchByField(ctx context.Context, query string) (catalog.FieldResults, error)
}

// Inbox holds the notifications of every user.
type Inbox interface {
	List(userID core.UserIDString) []core.Notification
	UnreadCount(userID core.UserIDString) int
	MarkAllRead(userID core.UserIDString) int
}

// Wallet holds reward points. Spend must take points atomically so concurrent checkouts never share them.
type Wallet interface {
	Balance(userID core.UserIDString) int
	Credit(userID core.UserIDString, amount int) (int, error)
	Spend(userID core.UserIDString, limit int) int
}

// Dependencies are the handlers and stores the routes delegate to. All of them are required.
type Dependencies struct {
	Checkout      CheckoutHandler
	ChangeStatus  StatusHandler
	Renew         RenewHandler
	RentalDetails RentalDetailsHandler
	UserRentals   UserRentalsHandler
	TenantQueue   TenantQueueHandler
	Overdue       OverdueHandler
	Importer      Importer
	Sweeper       Sweeper
	Catalog       Catalog
	Inbox         Inbox
	Wallet        Wallet
}

// Server is the HTTP surface of the rental engine, routed by echo.
type Server struct {
	echo           *echo.Echo
	deps           Dependencies
	logger         shell.Logger
	now            func() time.Time
	limiter        *userLimiter
	metricsHandler http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for request and error logs. The default discards everything.
func WithLogger(logger shell.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClock replaces time.Now, the clock used for commands, queries and rate limiting.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithCheckoutRate limits every user to perMinute checkouts. Zero disables the limit.
func WithCheckoutRate(perMinute int) Option {
	return func(s *Server) {
		s.limiter = newUserLimiter(perMinute)
	}
}

// WithMetricsHandler serves handler, typically promhttp, on GET /metrics.
func WithMetricsHandler(handler http.Handler) Option {
	return func(s *Server) {
		s.metricsHandler = handler
	}
}

// NewServer builds the router with its middleware and routes.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		echo:   echo.New(),
		deps:   deps,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Validator = newRequestValidator()
	s.echo.JSONSerializer = jsonSerializer{}

	s.echo.Use(middleware.Recover())
	s.echo.Use(requestID())
	s.echo.Use(s.requestLog())
	s.echo.Use(identify())

	s.routes()

	return s
}

func (s *Server) routes() {
	e := s.echo

	e.GET("/healthz", s.healthz)
	if s.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(s.metricsHandler))
	}

	e.GET("/catalog/search", s.searchCatalog)
	e.GET("/catalog/search/fields", s.searchCatalogFields)

	e.POST("/checkout", s.checkout, requireUser(), s.rateLimited())
	e.GET("/points", s.pointsBalance, requireUser())

	e.GET("/rentals/mine", s.myRentals, requireUser())
	e.GET("/rentals/:id", s.rentalDetails)
	e.POST("/rentals/:id/return-request", s.requestReturn, requireUser())
	e.POST("/rentals/:id/renew", s.renew, requireUser())
	e.POST("/rentals/:id/actions/:action", s.librarianAction, requireLibrarian())

	librarian := e.Group("/librarian", requireLibrarian())
	librarian.GET("/queue", s.queue)
	librarian.GET("/overdue", s.overdue)
	librarian.POST("/import", s.importTitles)
	librarian.POST("/sweep", s.sweep)
	librarian.POST("/points", s.creditPoints)

	e.GET("/notifications", s.notifications, requireUser())
	e.POST("/notifications/read", s.markNotificationsRead, requireUser())
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown. It returns nil after a graceful shutdown.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
