package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ValidationError names an environment variable and what is wrong with it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ValidationErrors is every problem found in one Validate call.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("configuration validation failed:")
	for _, err := range e {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validator checks one config section.
type Validator func() ValidationErrors

// Validate runs every validator and reports all failures together, so one
// restart shows every misconfigured variable.
func Validate(validators ...Validator) error {
	var all ValidationErrors
	for _, v := range validators {
		all = append(all, v()...)
	}
	if len(all) == 0 {
		return nil
	}
	return all
}

// CollectErrors drops the nil results of the RequireXxx checks.
func CollectErrors(checks ...*ValidationError) ValidationErrors {
	var out ValidationErrors
	for _, c := range checks {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out
}

func RequireNonEmpty(field, value string) *ValidationError {
	if value == "" {
		return invalid(field, "is required")
	}
	return nil
}

func RequireNonNegative(field string, value int) *ValidationError {
	if value < 0 {
		return invalid(field, "must be non-negative, got %d", value)
	}
	return nil
}

func RequirePositiveDuration(field string, value time.Duration) *ValidationError {
	if value <= 0 {
		return invalid(field, "must be positive, got %v", value)
	}
	return nil
}

// RequireValidURL wants an absolute URL; verification links are built from it.
func RequireValidURL(field, value string) *ValidationError {
	if value == "" {
		return invalid(field, "is required")
	}
	u, err := url.Parse(value)
	if err != nil {
		return invalid(field, "invalid URL: %v", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return invalid(field, "must be an absolute URL such as https://example.com, got %q", value)
	}
	return nil
}

func RequireValidPort(field string, value uint16) *ValidationError {
	if value == 0 {
		return invalid(field, "port must be between 1 and 65535")
	}
	return nil
}

func RequireOneOf(field, value string, allowed []string) *ValidationError {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return invalid(field, "must be one of %s, got %q", strings.Join(allowed, ", "), value)
}
