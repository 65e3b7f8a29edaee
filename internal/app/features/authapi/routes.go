package authapi

import (
	"net/http"

	"filevault/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the authentication endpoints.
//
// When mounted at /api/auth:
//   - POST /api/auth/register (public)
//   - POST /api/auth/login    (public)
//   - GET  /api/auth/me       (bearer token required)
func Routes(h *Handler, tokens *auth.TokenAuth) http.Handler {
	r := chi.NewRouter()

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(tokens.RequireAuth)
		r.Get("/me", h.Me)
	})

	return r
}
