package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its transport status.
type Kind string

const (
	KindNotFound     Kind = "not_found"
	KindForbidden    Kind = "forbidden"
	KindValidation   Kind = "validation"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindInternal     Kind = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Kind       Kind   `json:"-"`
	Code       string `json:"code"`             // Machine-readable error code
	Message    string `json:"message"`          // Human-readable message
	Detail     string `json:"detail,omitempty"` // Additional details
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail adds detail to the error
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

func newError(kind Kind, status int, code, message string, err error) *AppError {
	return &AppError{
		Kind:       kind,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// --- Error constructors ---

func NewNotFound(code, message string) *AppError {
	return newError(KindNotFound, http.StatusNotFound, code, message, nil)
}

func NewForbidden(code, message string) *AppError {
	return newError(KindForbidden, http.StatusForbidden, code, message, nil)
}

// NewValidation creates a 400 error for malformed input, duplicate
// references and unreachable target states.
func NewValidation(code, message string) *AppError {
	return newError(KindValidation, http.StatusBadRequest, code, message, nil)
}

func NewConflict(code, message string) *AppError {
	return newError(KindConflict, http.StatusConflict, code, message, nil)
}

func NewUnauthorized(code, message string) *AppError {
	return newError(KindUnauthorized, http.StatusUnauthorized, code, message, nil)
}

func NewInternal(code, message string, err error) *AppError {
	return newError(KindInternal, http.StatusInternalServerError, code, message, err)
}

// AsAppError finds the first AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, treating unknown errors as internal.
func KindOf(err error) Kind {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool   { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool  { return KindOf(err) == KindForbidden }
func IsValidation(err error) bool { return KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return KindOf(err) == KindConflict }
