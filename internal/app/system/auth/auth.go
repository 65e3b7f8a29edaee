// Package auth provides stateless bearer-token authentication.
//
// Tokens are HS256 JWTs carrying the user's email as subject and a fixed
// expiry window. There is no server-side session state and no revocation
// list; a token is valid until it expires.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	userstore "filevault/internal/app/store/users"
	"filevault/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// TokenAuth issues and verifies access tokens and resolves the current
// user for incoming requests.
type TokenAuth struct {
	users  *userstore.Store
	secret []byte
	expiry time.Duration
	logger *zap.Logger
}

// New creates a TokenAuth backed by the given user store.
func New(users *userstore.Store, secret string, expiry time.Duration, logger *zap.Logger) *TokenAuth {
	if expiry <= 0 {
		expiry = 30 * time.Minute
	}
	return &TokenAuth{
		users:  users,
		secret: []byte(secret),
		expiry: expiry,
		logger: logger,
	}
}

// IssueToken creates a signed access token for the given email.
func (a *TokenAuth) IssueToken(email string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.expiry)),
		ID:        uuid.NewString(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// VerifyToken parses and verifies a raw token and returns the subject
// email. Malformed, expired, or badly signed tokens all fail.
func (a *TokenAuth) VerifyToken(raw string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return a.secret, nil },
		jwt.WithValidMethods([]string{"HS256"}),
	)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// RequireAuth is middleware that validates the Authorization header,
// resolves the token's subject to a user, and stores the user in the
// request context. Any failure yields 401 without distinguishing the
// cause to the client.
func (a *TokenAuth) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			unauthorized(w)
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(w)
			return
		}

		email, err := a.VerifyToken(parts[1])
		if err != nil || email == "" {
			a.logger.Debug("rejected bearer token",
				zap.String("path", r.URL.Path),
				zap.Error(err),
			)
			unauthorized(w)
			return
		}

		user, err := a.users.GetByEmail(r.Context(), email)
		if err != nil {
			a.logger.Debug("token subject did not resolve to a user",
				zap.String("path", r.URL.Path),
			)
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"Could not validate credentials"}`))
}

// CurrentUser returns the authenticated user placed in the context by
// RequireAuth.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*models.User)
	return user, ok
}

// WithTestUser injects a user into the request context, bypassing the
// token middleware. For handler tests only.
func WithTestUser(r *http.Request, user *models.User) *http.Request {
	ctx := context.WithValue(r.Context(), userContextKey, user)
	return r.WithContext(ctx)
}
