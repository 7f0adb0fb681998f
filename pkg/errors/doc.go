// Package errors provides structured errors with error codes for simple-signup.
//
// Business outcomes of the signup flow (validation failures, taken identifiers,
// expired tokens) are result values, not errors. This package carries the
// infrastructure failures that abort an operation, plus the HTTP status mapping
// the REST layer uses for them.
//
// # Basic Usage
//
//	import "github.com/tendant/simple-signup/pkg/errors"
//
//	// Wrap a storage adapter error
//	err := errors.StorageFailure(dbErr, "find by email")
//
//	// Wrap a notifier error
//	err := errors.NotificationFailure(smtpErr, "registration-confirmation")
//
// # Inspection
//
//	if errors.IsCode(err, errors.ErrCodeStorageFailure) {
//	    // retry later
//	}
//
//	status := errors.MapErrorCodeToHTTPStatus(errors.GetCode(err))
//
// Error implements Unwrap, so the standard library errors.Is and errors.As
// still reach the wrapped cause.
package errors
