// Package authapi provides the registration, login, and current-user API
// endpoints.
//
// Endpoints:
//   - POST /api/auth/register - Create an account
//   - POST /api/auth/login    - Exchange credentials for a bearer token
//   - GET  /api/auth/me       - Return the authenticated user
package authapi

import (
	"errors"
	"net/http"
	"strings"

	userstore "filevault/internal/app/store/users"
	"filevault/internal/app/system/auth"
	"filevault/internal/app/system/authutil"
	"filevault/internal/app/system/jsonutil"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles authentication API requests.
type Handler struct {
	users  *userstore.Store
	tokens *auth.TokenAuth
	logger *zap.Logger
}

// NewHandler creates a new authapi handler.
func NewHandler(users *userstore.Store, tokens *auth.TokenAuth, logger *zap.Logger) *Handler {
	return &Handler{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// RegisterInput is the POST /api/auth/register request body.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate implements ozzo-validation for RegisterInput.
func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required),
		validation.Field(&in.FullName, validation.Required),
	)
}

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	hash, err := authutil.HashPassword(in.Password)
	if err != nil {
		h.logger.Error("password hashing failed", zap.Error(err))
		jsonutil.InternalError(w, "Registration failed: "+err.Error())
		return
	}

	user, err := h.users.Create(r.Context(), userstore.CreateInput{
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			jsonutil.BadRequest(w, "Email already registered")
			return
		}
		h.logger.Error("user creation failed", zap.Error(err))
		jsonutil.InternalError(w, "Registration failed: "+err.Error())
		return
	}

	h.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	jsonutil.Message(w, "User registered successfully")
}

// LoginInput is the POST /api/auth/login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login. A missing account and a wrong
// password produce the same response.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}

	user, err := h.users.GetByEmail(r.Context(), strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			jsonutil.Unauthorized(w, "Incorrect email or password")
			return
		}
		h.logger.Error("user lookup failed", zap.Error(err))
		jsonutil.InternalError(w, "Login failed: "+err.Error())
		return
	}
	if !authutil.CheckPassword(in.Password, user.PasswordHash) {
		jsonutil.Unauthorized(w, "Incorrect email or password")
		return
	}

	token, err := h.tokens.IssueToken(user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		jsonutil.InternalError(w, "Login failed: "+err.Error())
		return
	}

	jsonutil.OK(w, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Unauthorized(w, "Could not validate credentials")
		return
	}
	jsonutil.OK(w, user)
}
