// Package apierror gives every API error the body {"error": message}.
package apierror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/ledger-server/internal/ledger"
)

// Error is the API error model.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error" doc:"Error message"`
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) GetStatus() int {
	return e.Status
}

func init() {
	huma.NewError = New
}

// New builds an Error. Detail errors, such as schema violations, are
// appended to msg.
func New(status int, msg string, errs ...error) huma.StatusError {
	details := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			details = append(details, err.Error())
		}
	}
	if len(details) > 0 {
		if msg == "" {
			msg = strings.Join(details, "; ")
		} else {
			msg = msg + ": " + strings.Join(details, "; ")
		}
	}
	return &Error{Status: status, Message: msg}
}

// FromError maps a domain error to its HTTP status. Unclassified errors are
// internal errors carrying the raw message.
func FromError(err error) huma.StatusError {
	var statusErr huma.StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr
	case ledger.IsValidation(err):
		return &Error{Status: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, ledger.ErrNotFound):
		return &Error{Status: http.StatusNotFound, Message: err.Error()}
	}
	return &Error{Status: http.StatusInternalServerError, Message: err.Error()}
}

// BadRequest is a 400 with a formatted message.
func BadRequest(msg string) huma.StatusError {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}
