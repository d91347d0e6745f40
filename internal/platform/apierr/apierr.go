package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classification codes. The gate and the handlers dispatch on these,
// never on raw error strings from the storage layer.
const (
	CodeSessionMissing   = "auth/session_missing"
	CodeServiceError     = "auth/service_error"
	CodeRoleDenied       = "auth/role_denied"
	CodeNotFound         = "resource/not_found"
	CodeValidationFailed = "request/validation_failed"
	CodeInvariantFailed  = "resource/invariant_operation_failed"
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func SessionMissing(err error) *Error {
	return New(http.StatusUnauthorized, CodeSessionMissing, err)
}

func ServiceError(err error) *Error {
	return New(http.StatusInternalServerError, CodeServiceError, err)
}

func NotFound(err error) *Error {
	return New(http.StatusNotFound, CodeNotFound, err)
}

func Validation(err error) *Error {
	return New(http.StatusBadRequest, CodeValidationFailed, err)
}

func InvariantFailed(err error) *Error {
	return New(http.StatusInternalServerError, CodeInvariantFailed, err)
}

// HasCode reports whether err (or anything it wraps) is an *Error with the
// given classification code.
func HasCode(err error, code string) bool {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// StatusOf maps err to the HTTP status it should surface as, defaulting to
// 500 for unclassified errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// CodeOf returns the classification code, or empty for unclassified errors.
func CodeOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}
