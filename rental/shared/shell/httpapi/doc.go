// Package httpapi exposes the rental engine over HTTP with echo.
//
// Identity is trusted, not verified: the caller sends X-User-ID and X-User-Role, and librarians also send X-Tenant.
// Business errors map to status codes by their core.ErrCode (see statusFor).
package httpapi
