package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onelib/rentalengine/rental/features/command/changerentalstatus"
	"github.com/onelib/rentalengine/rental/features/command/checkout"
	"github.com/onelib/rentalengine/rental/features/command/renewrental"
	"github.com/onelib/rentalengine/rental/features/query/overduerentals"
	"github.com/onelib/rentalengine/rental/features/query/rentaldetails"
	"github.com/onelib/rentalengine/rental/features/query/tenantqueue"
	"github.com/onelib/rentalengine/rental/features/query/userrentals"
	"github.com/onelib/rentalengine/rental/shared/core"
)

func (s *Server) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) searchCatalog(c echo.Context) error {
	var params searchParams
	if err := c.Bind(&params); err != nil {
		return invalidRequest(c, err)
	}

	if err := c.Validate(&params); err != nil {
		return invalidRequest(c, err)
	}

	titles, err := s.deps.Catalog.Search(c.Request().Context(), params.Query, params.Category, params.Page)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, map[string]any{"titles": titles, "page": max(params.Page, 1)})
}

func (s *Server) searchCatalogFields(c echo.Context) error {
	results, err := s.deps.Catalog.SearchByField(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, results)
}

func (s *Server) checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidRequest(c, err)
	}

	userID := identityOf(c).UserID

	held := 0
	if req.UsePoints {
		held = s.deps.Wallet.Spend(userID, s.deps.Wallet.Balance(userID))
	}

	result, err := s.deps.Checkout.Handle(
		c.Request().Context(),
		checkout.BuildCommand(userID, req.TitleIDs, held, s.now()),
	)
	if err != nil {
		s.refundPoints(userID, held)
		return s.respondError(c, err, result.Items)
	}

	s.refundPoints(userID, held-result.Quote.PointsUsed)
	balance := s.deps.Wallet.Balance(userID)

	return c.JSON(http.StatusCreated, checkoutResponse{
		Rentals:       result.Created,
		Items:         result.Items,
		Quote:         result.Quote,
		PointsBalance: balance,
	})
}

// refundPoints returns points held for a checkout that the quote did not use.
func (s *Server) refundPoints(userID core.UserIDString, unused int) {
	if unused <= 0 {
		return
	}

	if _, err := s.deps.Wallet.Credit(userID, unused); err != nil {
		s.logger.Warn(logMsgPointsRefund, logAttrUserID, userID, logAttrError, err.Error())
	}
}

func (s *Server) pointsBalance(c echo.Context) error {
	userID := identityOf(c).UserID

	return c.JSON(http.StatusOK, pointsResponse{UserID: userID, Balance: s.deps.Wallet.Balance(userID)})
}

func (s *Server) creditPoints(c echo.Context) error {
	var req creditRequest
	if err := c.Bind(&req); err != nil {
		return invalidRequest(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return invalidRequest(c, err)
	}

	balance, err := s.deps.Wallet.Credit(req.UserID, req.Amount)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, pointsResponse{UserID: req.UserID, Balance: balance})
}

func (s *Server) myRentals(c echo.Context) error {
	result, err := s.deps.UserRentals.Handle(
		c.Request().Context(),
		userrentals.BuildQuery(identityOf(c).UserID, s.now()),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result)
}

// rentalDetails scopes the lookup to the tenant for librarians and to the caller otherwise.
func (s *Server) rentalDetails(c echo.Context) error {
	identity := identityOf(c)

	var query rentaldetails.Query
	switch {
	case identity.IsLibrarian():
		query = rentaldetails.BuildQuery(c.Param("id"), "", identity.Tenant, s.now())
	case identity.UserID != "":
		query = rentaldetails.BuildQuery(c.Param("id"), identity.UserID, "", s.now())
	default:
		return c.JSON(http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing " + HeaderUserID})
	}

	result, err := s.deps.RentalDetails.Handle(c.Request().Context(), query)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) requestReturn(c echo.Context) error {
	now := s.now()

	result, err := s.deps.ChangeStatus.Handle(
		c.Request().Context(),
		changerentalstatus.BuildMemberCommand(c.Param("id"), core.ActionRequestReturn, identityOf(c).UserID, now),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result.Rental.ViewAt(now))
}

func (s *Server) renew(c echo.Context) error {
	now := s.now()

	rental, _, err := s.deps.Renew.Handle(
		c.Request().Context(),
		renewrental.BuildCommand(c.Param("id"), identityOf(c).UserID, now),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, rental.ViewAt(now))
}

func (s *Server) librarianAction(c echo.Context) error {
	action, err := core.ParseAction(c.Param("action"))
	if err != nil {
		return s.respondError(c, err, nil)
	}

	if !action.IsLibrarianAction() {
		return s.respondError(c, core.InvalidInput("action %s is not available to librarians", action), nil)
	}

	now := s.now()

	result, err := s.deps.ChangeStatus.Handle(
		c.Request().Context(),
		changerentalstatus.BuildCommand(c.Param("id"), action, identityOf(c).Tenant, now),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result.Rental.ViewAt(now))
}

func (s *Server) queue(c echo.Context) error {
	result, err := s.deps.TenantQueue.Handle(
		c.Request().Context(),
		tenantqueue.BuildQuery(identityOf(c).Tenant, core.Status(c.QueryParam("status")), s.now()),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) overdue(c echo.Context) error {
	result, err := s.deps.Overdue.Handle(
		c.Request().Context(),
		overduerentals.BuildQuery(identityOf(c).Tenant, s.now()),
	)
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, result)
}

func (s *Server) importTitles(c echo.Context) error {
	report, err := s.deps.Importer.Import(c.Request().Context(), identityOf(c).Tenant, c.Request().Body)
	if err != nil {
		return s.respondError(c, err, report.Rejected)
	}

	return c.JSON(http.StatusOK, report)
}

func (s *Server) sweep(c echo.Context) error {
	expired, err := s.deps.Sweeper.Sweep(c.Request().Context(), s.now())
	if err != nil {
		return s.respondError(c, err, nil)
	}

	return c.JSON(http.StatusOK, map[string]int{"expired": expired})
}

func (s *Server) notifications(c echo.Context) error {
	userID := identityOf(c).UserID

	return c.JSON(http.StatusOK, notificationsResponse{
		Notifications: s.deps.Inbox.List(userID),
		Unread:        s.deps.Inbox.UnreadCount(userID),
	})
}

func (s *Server) markNotificationsRead(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{"marked": s.deps.Inbox.MarkAllRead(identityOf(c).UserID)})
}
