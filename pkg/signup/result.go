package signup

import (
	"errors"

	"github.com/tendant/simple-signup/pkg/account"
)

// Outcome is the business result of a signup operation.
type Outcome string

const (
	Created                   Outcome = "created"
	ValidationFailed          Outcome = "validation_failed"
	IdentifierTaken           Outcome = "identifier_taken"
	AlreadyRegisteredNotified Outcome = "already_registered_notified"
	Accepted                  Outcome = "accepted"
	Verified                  Outcome = "verified"
	Expired                   Outcome = "expired"
	NotFound                  Outcome = "not_found"
)

// Reasons attached to rejecting outcomes. Validation failures carry the
// validator sentinel instead.
var (
	ErrIdentifierTaken = errors.New("Username already taken")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenNotFound   = errors.New("not found")
)

// Result is returned by every Service operation alongside a nil error.
// Account is set for Created, Verified and Expired.
type Result struct {
	Outcome Outcome
	Reason  error
	Account *account.Account
}

func (r Result) Is(outcome Outcome) bool {
	return r.Outcome == outcome
}
