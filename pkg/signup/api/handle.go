package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/tendant/simple-signup/pkg/account"
	"github.com/tendant/simple-signup/pkg/credential"
	signuperrors "github.com/tendant/simple-signup/pkg/errors"
	"github.com/tendant/simple-signup/pkg/signup"
	"github.com/tendant/simple-signup/pkg/validator"
)

// VerifiedResponder writes the response for a successful verification when
// the handler is not handling it itself.
type VerifiedResponder func(w http.ResponseWriter, r *http.Request, acct *account.Account)

type Handle struct {
	service           *signup.Service
	hasher            credential.Hasher
	handleResponse    bool
	verifiedResponder VerifiedResponder
}

type Option func(*Handle)

func NewHandle(service *signup.Service, opts ...Option) *Handle {
	h := &Handle{
		service:        service,
		hasher:         &credential.BcryptHasher{},
		handleResponse: true,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func WithHasher(hasher credential.Hasher) Option {
	return func(h *Handle) {
		h.hasher = hasher
	}
}

// WithHandleResponse controls whether a successful verification is answered
// with 204 or handed to the VerifiedResponder.
func WithHandleResponse(enabled bool) Option {
	return func(h *Handle) {
		h.handleResponse = enabled
	}
}

func WithVerifiedResponder(responder VerifiedResponder) Option {
	return func(h *Handle) {
		h.verifiedResponder = responder
	}
}

// Routes registers the signup routes relative to the mount point:
//
//	r.Route(cfg.RoutePrefix(), handle.Routes)
func (h *Handle) Routes(r chi.Router) {
	r.Post("/", h.Register)
	r.Post("/resend-verification", h.ResendVerification)
	r.Get("/{token}", h.VerifyToken)
}

// Register handles POST {route}
func (h *Handle) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Validate the raw input before paying for a hash, so the first failing
	// rule is the one reported.
	if err := validator.ValidateRegistration(req.Name, req.Email, req.Password); err != nil {
		writeError(w, r, http.StatusForbidden, err.Error())
		return
	}

	hashed, err := h.hasher.Hash(req.Password)
	if errors.Is(err, credential.ErrCredentialTooLong) {
		writeError(w, r, http.StatusForbidden, "Password is too long")
		return
	}
	if err != nil {
		slog.Error("Failed to hash credential", "error", err)
		writeError(w, r, http.StatusInternalServerError, "Failed to process registration")
		return
	}

	result, err := h.service.Register(r.Context(), req.Name, req.Email, hashed)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch result.Outcome {
	case signup.ValidationFailed, signup.IdentifierTaken:
		writeError(w, r, http.StatusForbidden, result.Reason.Error())
	default:
		render.NoContent(w, r)
	}
}

// ResendVerification handles POST {route}/resend-verification
func (h *Handle) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req ResendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.service.ResendVerification(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if result.Is(signup.ValidationFailed) {
		writeError(w, r, http.StatusForbidden, result.Reason.Error())
		return
	}
	render.NoContent(w, r)
}

// VerifyToken handles GET {route}/{token}
func (h *Handle) VerifyToken(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.VerifyToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	switch result.Outcome {
	case signup.NotFound:
		writeError(w, r, http.StatusNotFound, signup.ErrTokenNotFound.Error())
	case signup.Expired:
		writeError(w, r, http.StatusForbidden, signup.ErrTokenExpired.Error())
	case signup.Verified:
		if !h.handleResponse {
			if h.verifiedResponder != nil {
				h.verifiedResponder(w, r, result.Account)
				return
			}
			slog.Warn("Response handling is off but no verified responder is set")
		}
		render.NoContent(w, r)
	default:
		slog.Error("Unexpected verification outcome", "outcome", result.Outcome)
		writeError(w, r, http.StatusInternalServerError, "An error occurred while verifying account")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := signuperrors.MapErrorCodeToHTTPStatus(signuperrors.GetCode(err))
	message := "Internal server error"

	var e *signuperrors.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	writeError(w, r, status, message)
}
