package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies why a request was rejected. Every pipeline gate maps to
// exactly one code so clients can react without parsing messages.
type Code string

const (
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeForbidden         Code = "FORBIDDEN"
	CodeTooSimilar        Code = "TOO_SIMILAR"
	CodeBelowCorrectness  Code = "BELOW_CORRECTNESS"
	CodeAttemptsExhausted Code = "ATTEMPTS_EXHAUSTED"
	CodeRateLimited       Code = "RATE_LIMITED"
)

type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus maps an error to its response status. Anything that is not an
// *Error is treated as an internal fault.
func HTTPStatus(err error) int {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeForbidden:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusBadRequest
	}
}

// CodeOf returns the rejection code, or "" for non-application errors.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
