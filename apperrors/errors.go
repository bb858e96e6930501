// Package apperrors defines the error taxonomy shared by the stores, the
// review service and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrBadRequest = errors.New("bad request")
	ErrNotFound   = errors.New("not found")
	// ErrStorage covers unacknowledged writes and targets that vanished
	// between the read and the write of a two-step flow.
	ErrStorage = errors.New("storage error")
	// ErrOperation covers violated internal invariants, e.g. a review insert
	// that was acknowledged while the summary creation was not.
	ErrOperation = errors.New("operation error")
)

// AppError carries a taxonomy sentinel, a stable code for response bodies and
// the wrapped cause.
type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrBadRequest,
	}
}

func NotFound(message string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// Storage wraps a backing-store failure. The original cause is preserved for
// errors.Is/As and logging.
func Storage(message string, cause error) *AppError {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     fmt.Errorf("%w: %w", ErrStorage, cause),
	}
}

// StorageMsg is Storage without a distinct cause.
func StorageMsg(message string) *AppError {
	return &AppError{
		Code:    "STORAGE_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrStorage,
	}
}

func Operation(message string) *AppError {
	return &AppError{
		Code:    "OPERATION_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     ErrOperation,
	}
}

// HTTPStatus maps an error to its response status, falling back to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable error code for response bodies.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return "INTERNAL_ERROR"
}
