package fileapi

import (
	"net/http"

	"filevault/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the file endpoints. All routes require a
// bearer token.
func Routes(h *Handler, tokens *auth.TokenAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(tokens.RequireAuth)

	r.Post("/upload", h.Upload)
	r.Get("/", h.List)
	r.Get("/{file_id}/download", h.Download)
	r.Put("/{file_id}", h.Update)
	r.Delete("/{file_id}", h.Delete)

	return r
}
