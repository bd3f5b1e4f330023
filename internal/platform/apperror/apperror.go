// Package apperror defines the typed domain failures the API returns:
// a machine-readable code plus an HTTP status. Storage errors are never
// wrapped into these; they propagate to the caller unmodified.
package apperror

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes returned by the core operations.
const (
	CodeMissingDate     = "MISSING_DATE"
	CodeInvalidDate     = "INVALID_DATE"
	CodePatientNotFound = "PATIENT_NOT_FOUND"
	CodeMissingReason   = "MISSING_REASON"
)

type Error struct {
	Code    string `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string { return e.Code + ": " + e.Message }

// New builds a typed error with an explicit HTTP status.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// BadRequest builds a 400 error.
func BadRequest(code, message string) *Error {
	return New(code, http.StatusBadRequest, message)
}

// NotFound builds a 404 error.
func NotFound(code, message string) *Error {
	return New(code, http.StatusNotFound, message)
}

// As unwraps err into an *Error if it carries one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HTTPErrorHandler renders *Error values as {code, message} with their
// carried status and leaves echo's own HTTP errors alone. Anything else is
// a 500.
func HTTPErrorHandler(next echo.HTTPErrorHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if e, ok := As(err); ok {
			if !c.Response().Committed {
				_ = c.JSON(e.Status, e)
			}
			return
		}
		next(err, c)
	}
}
