package api

// RegisterRequest is the body of POST {route}
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResendVerificationRequest is the body of POST {route}/resend-verification
type ResendVerificationRequest struct {
	Email string `json:"email"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
