// Package token issues single-use verification tokens and recognises the
// token shapes the verification route accepts.
package token

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Format selects the string shape of issued tokens.
type Format string

const (
	// FormatCanonical is a random UUID in 36 character hyphenated form.
	FormatCanonical Format = "canonical"
	// FormatCompact is a 22 character lowercase hex string. It carries 88
	// random bits, fewer than the 122 of a canonical token, so issue it only
	// where short links matter more than guessing resistance.
	FormatCompact Format = "compact"
)

const (
	compactAlphabet = "0123456789abcdef"
	compactLength   = 22
)

var pattern = regexp.MustCompile(`(?i)^(?:[0-9a-f]{22}|[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12})$`)

// Token is an issued verification token and the instant it stops being redeemable.
type Token struct {
	Value     string
	ExpiresAt time.Time
}

type Issuer struct {
	now    func() time.Time
	format Format
}

type Option func(*Issuer)

func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

func WithFormat(format Format) Option {
	return func(i *Issuer) {
		i.format = format
	}
}

func NewIssuer(opts ...Option) *Issuer {
	i := &Issuer{
		now:    time.Now,
		format: FormatCanonical,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns a fresh token that expires ttl from now.
func (i *Issuer) Issue(ttl time.Duration) (Token, error) {
	value, err := i.generate()
	if err != nil {
		return Token{}, err
	}
	return Token{
		Value:     value,
		ExpiresAt: i.now().UTC().Add(ttl),
	}, nil
}

func (i *Issuer) generate() (string, error) {
	switch i.format {
	case FormatCompact:
		value, err := gonanoid.Generate(compactAlphabet, compactLength)
		if err != nil {
			return "", fmt.Errorf("failed to generate compact token: %w", err)
		}
		return value, nil
	case FormatCanonical, "":
		id, err := uuid.NewRandom()
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		return id.String(), nil
	default:
		return "", fmt.Errorf("unknown token format: %s", i.format)
	}
}

// Matches reports whether value has one of the accepted token shapes. Both
// shapes have been issued historically and both stay redeemable.
func Matches(value string) bool {
	return pattern.MatchString(value)
}

// ParseFormat maps a configuration value to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCanonical, "":
		return FormatCanonical, nil
	case FormatCompact:
		return FormatCompact, nil
	default:
		return "", fmt.Errorf("unknown token format: %q", s)
	}
}
