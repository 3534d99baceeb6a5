// Package apperr holds the business error taxonomy shared by every service.
//
// Services return *Error for domain-rule violations and wrap store or network
// failures with Infra so callers can tell the two apart. The HTTP layer turns
// the Code into the response envelope and status.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Code is the result code carried in every response envelope.
type Code int

const (
	Success          Code = 0
	ValidationFailed Code = 40000
	Unauthorized     Code = 40100
	NotFound         Code = 40400
	Conflict         Code = 40900
	Internal         Code = 50000
	Infrastructure   Code = 50300
)

func (c Code) String() string {
	switch c {
	case Success:
		return "SUCCESS"
	case ValidationFailed:
		return "VALIDATION_FAILED"
	case Unauthorized:
		return "UNAUTHORIZED"
	case NotFound:
		return "NOT_FOUND"
	case Conflict:
		return "CONFLICT"
	case Infrastructure:
		return "INFRASTRUCTURE"
	default:
		return "INTERNAL"
	}
}

// HTTPStatus maps the code onto the status the boundary should answer with.
func (c Code) HTTPStatus() int {
	switch c {
	case Success:
		return http.StatusOK
	case ValidationFailed:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Infrastructure:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one violated constraint on a request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the single typed error raised by the service layer.
type Error struct {
	Code       Code
	Message    string
	Violations []FieldError
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Fields returns the names of the violated fields in reporting order.
func (e *Error) Fields() []string {
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Field)
	}
	return out
}

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation builds a VALIDATION_FAILED error listing every violation.
func Validation(violations []FieldError) *Error {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return &Error{
		Code:       ValidationFailed,
		Message:    "validation failed: " + strings.Join(parts, "; "),
		Violations: violations,
	}
}

// Invalid is a shortcut for a single-field validation failure.
func Invalid(field, message string) *Error {
	return Validation([]FieldError{{Field: field, Message: message}})
}

func NotFoundf(format string, args ...any) *Error {
	return New(NotFound, format, args...)
}

func Conflictf(format string, args ...any) *Error {
	return New(Conflict, format, args...)
}

func Unauthorizedf(format string, args ...any) *Error {
	return New(Unauthorized, format, args...)
}

// Infra wraps a store or network failure.
func Infra(err error, format string, args ...any) *Error {
	return &Error{Code: Infrastructure, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf extracts the result code of err; plain errors count as Internal.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// FromStore classifies an error coming back from the store. Unique-key
// violations become CONFLICT; anything else is INFRASTRUCTURE.
func FromStore(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	if IsDuplicateKey(err) {
		return &Error{Code: Conflict, Message: what + " already exists", Err: err}
	}
	return Infra(err, "%s: store unavailable", what)
}

// IsDuplicateKey recognises unique-constraint failures from every driver we run on.
func IsDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
