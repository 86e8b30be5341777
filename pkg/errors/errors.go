// Package errors defines the RA error taxonomy. Domain code returns these so
// transport can translate outcomes to HTTP statuses without string matching.
package errors

import (
	"errors"
	"net/http"
)

// Code identifies a class of failure. Values double as the machine-readable
// error field in JSON responses.
type Code string

const (
	CodeUnauthorized     Code = "unauthorized"
	CodeForbidden        Code = "forbidden"
	CodeValidation       Code = "validation_failed"
	CodeNotFound         Code = "not_found"
	CodePersistFailed    Code = "persist_failed"
	CodeRelayRejected    Code = "relay_rejected"
	CodeRelayUnreachable Code = "relay_unreachable"
	CodeInternal         Code = "internal_error"
)

// Error carries a code plus a human-readable message. Messages for internal
// errors are never surfaced to clients.
type Error struct {
	Code    Code
	Message string
	wrapped error
}

// New constructs an Error with the given code and message.
func New(code Code, message string) Error {
	return Error{Code: code, Message: message}
}

// Wrap attaches an underlying cause while keeping the taxonomy code.
func Wrap(code Code, message string, err error) Error {
	return Error{Code: code, Message: message, wrapped: err}
}

func (e Error) Error() string {
	if e.wrapped != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.wrapped.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e Error) Unwrap() error { return e.wrapped }

// CodeOf extracts the taxonomy code from any error, defaulting to internal.
func CodeOf(err error) Code {
	var e Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// MessageOf extracts the message from a taxonomy error, empty otherwise.
func MessageOf(err error) string {
	var e Error
	if errors.As(err, &e) {
		return e.Message
	}
	return ""
}

// ToHTTPStatus maps a taxonomy code to the response status used by transport.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodePersistFailed:
		return http.StatusServiceUnavailable
	case CodeRelayRejected:
		return http.StatusBadGateway
	case CodeRelayUnreachable:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
