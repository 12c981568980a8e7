package core

import (
	"errors"
	"fmt"
)

// ErrCode classifies business failures. None of them is fatal; callers report them per item.
type ErrCode string

const (
	CodeOutOfStock        ErrCode = "OUT_OF_STOCK"
	CodeAlreadyRequested  ErrCode = "ALREADY_REQUESTED"
	CodeNotFound          ErrCode = "NOT_FOUND"
	CodeInvalidTransition ErrCode = "INVALID_TRANSITION"
	CodeNothingToCheckout ErrCode = "NOTHING_TO_CHECKOUT"
	CodeInvalidInput      ErrCode = "INVALID_INPUT"
)

var (
	ErrOutOfStock        error = codedError{code: CodeOutOfStock}
	ErrAlreadyRequested  error = codedError{code: CodeAlreadyRequested}
	ErrNotFound          error = codedError{code: CodeNotFound}
	ErrInvalidTransition error = codedError{code: CodeInvalidTransition}
	ErrNothingToCheckout error = codedError{code: CodeNothingToCheckout}
	ErrInvalidInput      error = codedError{code: CodeInvalidInput}
)

type codedError struct {
	code   ErrCode
	detail string
}

func (e codedError) Error() string {
	if e.detail == "" {
		return string(e.code)
	}

	return string(e.code) + ": " + e.detail
}

func (e codedError) Code() ErrCode { return e.code }

// Is makes errors.Is(err, ErrOutOfStock) hold for every error carrying the same code, whatever its detail.
func (e codedError) Is(target error) bool {
	var other codedError
	if errors.As(target, &other) {
		return other.code == e.code
	}

	return false
}

func makeErr(c ErrCode, format string, args ...any) error {
	return codedError{code: c, detail: fmt.Sprintf(format, args...)}
}

// Code extracts the ErrCode of err, or "" if err carries none.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}

	return ""
}

// OutOfStock reports a title with no available copies.
func OutOfStock(titleID TitleIDString) error {
	return makeErr(CodeOutOfStock, "title %s has no available copies", titleID)
}

// AlreadyRequested reports that the user already has an active rental of the title.
func AlreadyRequested(titleID TitleIDString) error {
	return makeErr(CodeAlreadyRequested, "title %s already has an open rental for this user", titleID)
}

// TitleNotFound reports an unknown title.
func TitleNotFound(titleID TitleIDString) error {
	return makeErr(CodeNotFound, "title %s", titleID)
}

// RentalNotFound reports an unknown rental, or one the caller may not see.
func RentalNotFound(rentalID RentalIDString) error {
	return makeErr(CodeNotFound, "rental %s", rentalID)
}

// InvalidTransition reports an action the rental status does not allow.
func InvalidTransition(status Status, action Action) error {
	return makeErr(CodeInvalidTransition, "cannot %s a rental that is %s", action, status)
}

// InvalidInput reports a malformed request value.
func InvalidInput(format string, args ...any) error {
	return makeErr(CodeInvalidInput, format, args...)
}

// NothingToCheckout reports a cart in which no title could be rented.
func NothingToCheckout(cartSize int) error {
	return makeErr(CodeNothingToCheckout, "none of the %d selected titles can be rented", cartSize)
}
