package credential

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyCredential   = errors.New("credential cannot be empty")
	ErrCredentialTooLong = errors.New("credential is too long")
)

// Hasher turns a plain credential into the opaque value stored on the account.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) (bool, error)
}

// BcryptHasher hashes credentials with bcrypt. A zero Cost means bcrypt.DefaultCost.
type BcryptHasher struct {
	Cost int
}

func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyCredential
	}
	// bcrypt only reads the first 72 bytes
	if len(plain) > 72 {
		return "", ErrCredentialTooLong
	}

	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (h *BcryptHasher) Verify(plain, hashed string) (bool, error) {
	if plain == "" || hashed == "" {
		return false, errors.New("credential and hash cannot be empty")
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
