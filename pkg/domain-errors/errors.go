// Package domainerrors defines coded errors for the wallet core. Services
// attach a Code at the boundary where a failure is detected; transports
// translate codes to HTTP statuses without inspecting error text.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a failure for callers and transports.
type Code string

const (
	// Ambient codes.
	CodeBadRequest   Code = "bad_request"
	CodeValidation   Code = "validation"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"

	// Exchange codes. These are fatal at parse/registration time and stop
	// the pipeline before any matching or token assembly happens.
	CodeClientBinding     Code = "client_binding"
	CodeUnknownScope      Code = "unknown_scope"
	CodeMalformedRequest  Code = "malformed_request"
	CodeDefinitionCompile Code = "definition_compile"
)

// WalletError carries a Code alongside a human-readable message and an
// optional wrapped cause.
type WalletError struct {
	Code    Code
	Message string
	cause   error
}

func (e WalletError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e WalletError) Unwrap() error { return e.cause }

// New builds a coded error with no underlying cause.
func New(code Code, message string) error {
	return WalletError{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// cause for errors.Is/errors.As chains.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return WalletError{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var we WalletError
	for errors.As(err, &we) {
		if we.Code == code {
			return true
		}
		err = we.cause
		we = WalletError{}
	}
	return false
}

// Is is a convenience alias for HasCode.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// ToHTTPStatus maps a code onto the HTTP status a transport should emit.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest, CodeValidation, CodeMalformedRequest:
		return http.StatusBadRequest
	case CodeClientBinding, CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUnknownScope:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
