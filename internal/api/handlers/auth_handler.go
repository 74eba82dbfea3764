package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/rs/zerolog/log"

	"github.com/lmoretti/taskvault-be/internal/apperr"
	"github.com/lmoretti/taskvault-be/internal/auth"
	"github.com/lmoretti/taskvault-be/internal/models"
	"github.com/lmoretti/taskvault-be/internal/sanitize"
	"github.com/lmoretti/taskvault-be/internal/services"
)

// AuthHandler handles registration, login and identity introspection.
type AuthHandler struct {
	users services.UserServiceProvider
	codec *auth.TokenCodec
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users services.UserServiceProvider, codec *auth.TokenCodec) *AuthHandler {
	return &AuthHandler{users: users, codec: codec}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p RegisterPayload) validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 100)),
	)
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by both register and login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles new user registration and issues a token immediately.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "Invalid request body"))
		return
	}
	payload.Email = sanitize.Email(payload.Email)
	if err := payload.validate(); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, err.Error()))
		return
	}

	user, err := h.users.Register(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.codec.Issue(strconv.FormatInt(user.ID, 10))
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login handles credential verification and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.New(apperr.KindValidation, "Invalid request body"))
		return
	}

	user, err := h.users.Authenticate(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.codec.Issue(strconv.FormatInt(user.ID, 10))
	if err != nil {
		log.Error().Err(err).Int64("user_id", user.ID).Msg("Failed to issue token")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{Token: token, User: user})
}

// Logout is informational only: tokens are stateless, so logout happens
// client-side by discarding the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Successfully logged out. Please remove the token from client storage.",
	})
}

// Me returns the identity resolved for the current request.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve identity from context")
		writeError(w, apperr.New(apperr.KindInternal, "an unexpected error occurred"))
		return
	}
	writeJSON(w, http.StatusOK, identity)
}
