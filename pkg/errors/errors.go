package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure across package boundaries.
type ErrorCode string

// Signup outcomes such as a taken identifier or an expired token are result
// values, not errors, so they have no code here.
const (
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

	// Infrastructure failures. These are the only codes the signup service
	// returns as errors.
	ErrCodeStorageFailure      ErrorCode = "STORAGE_FAILURE"
	ErrCodeNotificationFailure ErrorCode = "NOTIFICATION_FAILURE"
)

// Error is a coded error. Message is safe to return to API clients; Err is
// the underlying cause and is only logged.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) HTTPStatusCode() int {
	return MapErrorCodeToHTTPStatus(e.Code)
}

func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *Error {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// StorageFailure wraps an error from a storage adapter. op names the step,
// e.g. "create" or "lookup".
func StorageFailure(err error, op string) *Error {
	return Wrapf(err, ErrCodeStorageFailure, "storage failure during %s", op)
}

// NotificationFailure wraps an error from the notifier.
func NotificationFailure(err error, notice string) *Error {
	return Wrapf(err, ErrCodeNotificationFailure, "failed to send %s notice", notice)
}

// IsCode reports whether any *Error in err's chain carries code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// GetCode returns the code of the first *Error in err's chain, or
// ErrCodeInternal when there is none.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// MapErrorCodeToHTTPStatus is the status the REST layer answers a service
// error with.
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotificationFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
