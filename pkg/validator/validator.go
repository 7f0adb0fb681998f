// Package validator holds the pure input checks run before any signup
// operation touches storage.
package validator

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

var (
	// Characters encodeURIComponent leaves untouched.
	urlSafePattern = regexp.MustCompile(`^[A-Za-z0-9\-_.!~*'()]*$`)

	startsWithLetterPattern = regexp.MustCompile(`^[a-z]`)

	EmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,6}$`)
)

type check struct {
	value string
	rules []validation.Rule
	err   *ValidationError
}

// ValidateRegistration checks a signup form. Rules run in a fixed order and
// the first failing rule is returned.
func ValidateRegistration(identifier, email, credential string) error {
	checks := []check{
		{identifier, []validation.Rule{validation.Required}, ErrAllFieldsRequired},
		{email, []validation.Rule{validation.Required}, ErrAllFieldsRequired},
		{credential, []validation.Rule{validation.Required}, ErrAllFieldsRequired},
		{identifier, []validation.Rule{validation.Match(urlSafePattern)}, ErrIdentifierNotURLSafe},
		{identifier, []validation.Rule{is.LowerCase}, ErrIdentifierNotLowercase},
		{identifier, []validation.Rule{validation.Match(startsWithLetterPattern)}, ErrIdentifierMustStartWithLetter},
		{email, []validation.Rule{validation.Match(EmailPattern)}, ErrEmailInvalid},
	}
	return run(checks)
}

// ValidateEmail checks the address submitted to the resend form.
func ValidateEmail(email string) error {
	return run([]check{
		{email, []validation.Rule{validation.Required, validation.Match(EmailPattern)}, ErrEmailInvalid},
	})
}

func run(checks []check) error {
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return c.err
		}
	}
	return nil
}
