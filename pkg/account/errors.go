package account

import "errors"

var (
	// ErrAccountNotFound is returned by a Repository when no account matches
	ErrAccountNotFound = errors.New("account not found")

	// ErrDuplicateIdentifier is returned by Create when the identifier is already taken
	ErrDuplicateIdentifier = errors.New("identifier already taken")

	// ErrDuplicateEmail is returned by Create when the email is already registered
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrStaleToken is returned by Update when the stored token is no longer
	// the one the caller read, i.e. another request redeemed or rotated it
	ErrStaleToken = errors.New("verification token changed concurrently")

	// ErrDuplicateToken is returned when a verification token collides with another account's
	ErrDuplicateToken = errors.New("verification token already assigned")
)
