package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// AppError is the single error type handlers translate into HTTP responses.
// Anything else reaching the response layer is treated as a 500.
type AppError struct {
	Code    string
	Status  int
	Message string
	Errs    []string
}

func (e *AppError) Error() string {
	if len(e.Errs) > 0 {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, strings.Join(e.Errs, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeAccessDenied     = "ACCESS_DENIED"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeAccountLocked    = "ACCOUNT_LOCKED"
	CodeServerError      = "SERVER_ERROR"
)

func Validation(msgs ...string) *AppError {
	msg := "validation failed"
	if len(msgs) == 1 {
		msg = msgs[0]
	}
	return &AppError{Code: CodeValidationFailed, Status: http.StatusBadRequest, Message: msg, Errs: msgs}
}

func Unauthenticated(msg string) *AppError {
	return &AppError{Code: CodeUnauthenticated, Status: http.StatusUnauthorized, Message: msg}
}

func AccessDenied(msg string) *AppError {
	return &AppError{Code: CodeAccessDenied, Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Status: http.StatusNotFound, Message: msg}
}

func Conflict(msg string) *AppError {
	return &AppError{Code: CodeConflict, Status: http.StatusConflict, Message: msg}
}

func Locked(msg string) *AppError {
	return &AppError{Code: CodeAccountLocked, Status: http.StatusLocked, Message: msg}
}

// Internal wraps an unexpected error. The original error is kept for logging
// but never shown to the client.
func Internal(err error) *AppError {
	ae := &AppError{Code: CodeServerError, Status: http.StatusInternalServerError, Message: "internal server error"}
	if err != nil {
		ae.Errs = []string{err.Error()}
	}
	return ae
}

// From extracts an *AppError from err, or wraps it as a 500.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

func IsCode(err error, code string) bool {
	var ae *AppError
	return errors.As(err, &ae) && ae.Code == code
}
