package httpapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/onelib/rentalengine/rental/shared/core"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// statusFor maps the code of a business error to its HTTP status. Uncoded errors are internal.
func statusFor(err error) int {
	switch core.Code(err) {
	case core.CodeNotFound:
		return http.StatusNotFound
	case core.CodeOutOfStock, core.CodeAlreadyRequested, core.CodeInvalidTransition, core.CodeNothingToCheckout:
		return http.StatusConflict
	case core.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with details. Internal errors are logged and answered without their message.
func (s *Server) respondError(c echo.Context, err error, details any) error {
	status := statusFor(err)

	if status == http.StatusInternalServerError {
		s.logger.Error(logMsgRequestFailed,
			logAttrPath, c.Path(),
			logAttrRequestID, c.Response().Header().Get(echo.HeaderXRequestID),
			logAttrError, err.Error(),
		)

		return c.JSON(status, errorBody{Code: "INTERNAL", Message: "internal error"})
	}

	return c.JSON(status, errorBody{Code: string(core.Code(err)), Message: err.Error(), Details: details})
}

func invalidRequest(c echo.Context, err error) error {
	return c.JSON(http.StatusBadRequest, errorBody{Code: string(core.CodeInvalidInput), Message: err.Error()})
}
