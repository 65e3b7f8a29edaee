package folderapi

import (
	"net/http"

	"filevault/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a router with the folder endpoints. All routes require a
// bearer token.
func Routes(h *Handler, tokens *auth.TokenAuth) http.Handler {
	r := chi.NewRouter()
	r.Use(tokens.RequireAuth)

	r.Post("/", h.Create)
	r.Get("/breadcrumb", h.Breadcrumb)
	r.Get("/{folder_id}/breadcrumb", h.Breadcrumb)
	r.Put("/{folder_id}", h.Update)
	r.Delete("/{folder_id}", h.Delete)

	return r
}
