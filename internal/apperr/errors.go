// Package apperr defines the error taxonomy returned at service boundaries and
// its mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAuthentication
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthentication:
		return "authentication"
	default:
		return "internal"
	}
}

// Machine-readable error codes.
const (
	CodeValidationFailed      = "VALIDATION_FAILED"
	CodePasswordMismatch      = "PASSWORD_MISMATCH"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodeNicknameTaken         = "NICKNAME_TAKEN"
	CodeAccountNotFound       = "ACCOUNT_NOT_FOUND"
	CodeUnauthenticated       = "UNAUTHENTICATED"
	CodeUnrecognizedPrincipal = "UNRECOGNIZED_PRINCIPAL"
	CodeInvalidCredentials    = "INVALID_CREDENTIALS"
	CodeInvalidToken          = "INVALID_TOKEN"
	CodeInvalidOAuthState     = "INVALID_OAUTH_STATE"
	CodeOAuthFailed           = "OAUTH_FAILED"
	CodeInternal              = "INTERNAL"
)

// GenericMessage is the only text an internal failure ever exposes.
const GenericMessage = "an unexpected error occurred, please try again later"

// FieldViolation attributes a validation failure to an input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the service-boundary error type.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  []FieldViolation
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Validation builds a client-fixable error attributed to a single field.
func Validation(code, field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    code,
		Message: message,
		Fields:  []FieldViolation{{Field: field, Message: message}},
	}
}

// Violations wraps an ordered list of field violations. It returns nil when
// the list is empty.
func Violations(fields []FieldViolation) *Error {
	if len(fields) == 0 {
		return nil
	}
	return &Error{
		Kind:    KindValidation,
		Code:    CodeValidationFailed,
		Message: fields[0].Message,
		Fields:  fields,
	}
}

// NotFound builds a lookup miss.
func NotFound(code, message string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

// Authentication builds a missing or rejected credential error.
func Authentication(code, message string) *Error {
	return &Error{Kind: KindAuthentication, Code: code, Message: message}
}

// Internal wraps an unexpected infrastructure failure.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: GenericMessage, Cause: cause}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CodeOf returns the code of err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Status maps an error onto an HTTP status code.
func Status(err error) int {
	e, ok := As(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuthentication:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
