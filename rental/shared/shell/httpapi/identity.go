package httpapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/onelib/rentalengine/rental/shared/core"
)

// The gateway in front of the server authenticates callers and passes their identity in these headers.
const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-User-Role"
	HeaderTenant = "X-Tenant"

	RoleUser      = "user"
	RoleLibrarian = "librarian"

	ctxKeyIdentity = "identity"
)

// Identity is the caller as announced by the identity headers.
type Identity struct {
	UserID core.UserIDString
	Role   string
	Tenant core.TenantString
}

// IsLibrarian reports whether the caller acts for a tenant.
func (i Identity) IsLibrarian() bool {
	return i.Role == RoleLibrarian && i.Tenant != ""
}

func identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header
			role := strings.ToLower(strings.TrimSpace(header.Get(HeaderRole)))
			if role == "" {
				role = RoleUser
			}

			c.Set(ctxKeyIdentity, Identity{
				UserID: strings.TrimSpace(header.Get(HeaderUserID)),
				Role:   role,
				Tenant: strings.TrimSpace(header.Get(HeaderTenant)),
			})

			return next(c)
		}
	}
}

func identityOf(c echo.Context) Identity {
	identity, _ := c.Get(ctxKeyIdentity).(Identity)
	return identity
}

func requireUser() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if identityOf(c).UserID == "" {
				return c.JSON(http.StatusUnauthorized, errorBody{Code: "UNAUTHENTICATED", Message: "missing " + HeaderUserID})
			}

			return next(c)
		}
	}
}

func requireLibrarian() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !identityOf(c).IsLibrarian() {
				return c.JSON(http.StatusForbidden, errorBody{Code: "FORBIDDEN", Message: "librarian role and tenant required"})
			}

			return next(c)
		}
	}
}
