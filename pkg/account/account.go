package account

import (
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-signup/pkg/token"
)

// Account is a signup record. An empty VerificationToken means no token is
// outstanding.
type Account struct {
	ID                         uuid.UUID  `json:"id"`
	Identifier                 string     `json:"identifier"`
	Email                      string     `json:"email"`
	Credential                 string     `json:"credential"`
	VerificationToken          string     `json:"verification_token,omitempty"`
	VerificationTokenExpiresAt *time.Time `json:"verification_token_expires_at,omitempty"`
	VerifiedAt                 *time.Time `json:"verified_at,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

func (a Account) IsVerified() bool {
	return a.VerifiedAt != nil
}

func (a Account) IsPending() bool {
	return !a.IsVerified()
}

// AssignToken replaces any outstanding token.
func (a *Account) AssignToken(tok token.Token) {
	expiresAt := tok.ExpiresAt
	a.VerificationToken = tok.Value
	a.VerificationTokenExpiresAt = &expiresAt
}

func (a *Account) ClearToken() {
	a.VerificationToken = ""
	a.VerificationTokenExpiresAt = nil
}

// MarkVerified records the verification time and drops the token.
func (a *Account) MarkVerified(at time.Time) {
	a.VerifiedAt = &at
	a.ClearToken()
}

// TokenExpired reports whether the outstanding token is past its expiry at now.
// A token checked at exactly its expiry instant is still valid.
func (a *Account) TokenExpired(now time.Time) bool {
	if a.VerificationTokenExpiresAt == nil {
		return true
	}
	return now.After(*a.VerificationTokenExpiresAt)
}

// Clone returns a deep copy so callers never share pointer fields with storage.
func (a Account) Clone() Account {
	c := a
	if a.VerificationTokenExpiresAt != nil {
		t := *a.VerificationTokenExpiresAt
		c.VerificationTokenExpiresAt = &t
	}
	if a.VerifiedAt != nil {
		t := *a.VerifiedAt
		c.VerifiedAt = &t
	}
	return c
}
