package validator

// ValidationError is a rejected signup input. Message is safe to show to the
// person who submitted the form.
type ValidationError struct {
	Rule    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrAllFieldsRequired = &ValidationError{
		Rule:    "all_fields_required",
		Message: "All fields are required",
	}
	ErrIdentifierNotURLSafe = &ValidationError{
		Rule:    "identifier_not_url_safe",
		Message: "Username may not contain any non-url-safe characters",
	}
	ErrIdentifierNotLowercase = &ValidationError{
		Rule:    "identifier_not_lowercase",
		Message: "Username must be lowercase",
	}
	ErrIdentifierMustStartWithLetter = &ValidationError{
		Rule:    "identifier_must_start_with_letter",
		Message: "Username has to start with a lowercase letter (a-z)",
	}
	ErrEmailInvalid = &ValidationError{
		Rule:    "email_invalid",
		Message: "Email is invalid",
	}
)
