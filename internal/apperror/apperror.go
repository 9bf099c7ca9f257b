// Package apperror defines the typed error surfaced by the booking core. Each
// error carries a stable machine code and the HTTP status class callers map it to.
package apperror

import (
	"errors"
	"net/http"
)

type Error struct {
	Code    string
	Message string
	Status  int
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

func (e *Error) StatusCode() int {
	return e.Status
}

func New(status int, code, message string) *Error {
	return &Error{Code: code, Message: message, Status: status}
}

func BadRequest(code, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func NotFound(code, message string) *Error {
	return New(http.StatusNotFound, code, message)
}

func Conflict(code, message string) *Error {
	return New(http.StatusConflict, code, message)
}

// As extracts an *Error from the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) && appErr != nil {
		return appErr, true
	}
	return nil, false
}

// Shared codes used across packages.
var (
	ErrInvalidRequest = BadRequest("INVALID_REQUEST", "invalid request")
	ErrInvalidDates   = BadRequest("INVALID_DATES", "check-out date must be after check-in date")
	ErrInvalidAmount  = BadRequest("INVALID_AMOUNT", "amount must not be negative")
	ErrNotFound       = NotFound("NOT_FOUND", "resource not found")

	ErrPropertyRequired = BadRequest("PROPERTY_REQUIRED", "an existing property id is required")
)
