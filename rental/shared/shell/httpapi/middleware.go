package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	logMsgRequest       = "http request"
	logMsgRequestFailed = "http request failed"
	logMsgPointsRefund  = "refunding checkout points failed"

	logAttrMethod    = "method"
	logAttrPath      = "path"
	logAttrStatus    = "status"
	logAttrLatencyMS = "latency_ms"
	logAttrRequestID = "req_id"
	logAttrUserID    = "user_id"
	logAttrError     = "error"
)

func requestID() echo.MiddlewareFunc {
	return middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	})
}

// requestLog writes one structured line per request once the handler has returned.
func (s *Server) requestLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			s.logger.Info(logMsgRequest,
				logAttrMethod, c.Request().Method,
				logAttrPath, c.Path(),
				logAttrStatus, c.Response().Status,
				logAttrLatencyMS, time.Since(start).Milliseconds(),
				logAttrRequestID, c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return nil
		}
	}
}

// rateLimited guards the checkout route per user.
func (s *Server) rateLimited() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !s.limiter.allow(identityOf(c).UserID, s.now()) {
				return c.JSON(http.StatusTooManyRequests, errorBody{Code: "RATE_LIMITED", Message: "too many checkouts, try again later"})
			}

			return next(c)
		}
	}
}
