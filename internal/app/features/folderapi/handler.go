// Package folderapi provides the folder management API endpoints.
//
// Endpoints (all bearer-authenticated):
//   - POST   /api/folders                            - Create a folder
//   - PUT    /api/folders/{folder_id}                - Rename a folder
//   - DELETE /api/folders/{folder_id}                - Delete an empty folder
//   - GET    /api/folders/{folder_id}/breadcrumb     - Trail from root
//   - GET    /api/folders/breadcrumb                 - Trail for the root itself
package folderapi

import (
	"errors"
	"net/http"
	"strings"

	"filevault/internal/app/system/auth"
	"filevault/internal/app/system/jsonutil"
	"filevault/internal/app/tree"
	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
)

// Handler handles folder API requests.
type Handler struct {
	tree   *tree.Manager
	logger *zap.Logger
}

// NewHandler creates a new folderapi handler.
func NewHandler(mgr *tree.Manager, logger *zap.Logger) *Handler {
	return &Handler{
		tree:   mgr,
		logger: logger,
	}
}

// CreateInput is the POST /api/folders request body. A nil or empty
// ParentFolderID places the folder at the root.
type CreateInput struct {
	Name           string  `json:"name"`
	ParentFolderID *string `json:"parent_folder_id"`
}

// Validate implements ozzo-validation for CreateInput.
func (in CreateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required),
	)
}

// Create handles POST /api/folders. The parent reference is stored
// verbatim and not checked for existence.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var in CreateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		jsonutil.BadRequest(w, err.Error())
		return
	}

	f, err := h.tree.CreateFolder(r.Context(), user.ID, in.Name, in.ParentFolderID)
	if err != nil {
		h.logger.Error("folder creation failed", zap.Error(err))
		jsonutil.InternalError(w, "Folder creation failed: "+err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"message":   "Folder created successfully",
		"folder_id": f.ID.Hex(),
		"name":      f.Name,
	})
}

// UpdateInput is the PUT /api/folders/{folder_id} request body.
type UpdateInput struct {
	Name string `json:"name"`
}

// Update handles PUT /api/folders/{folder_id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "folder_id")

	var in UpdateInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.BadRequest(w, "Invalid JSON payload")
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		jsonutil.BadRequest(w, "Name is required")
		return
	}

	if err := h.tree.RenameFolder(r.Context(), user.ID, id, in.Name); err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			jsonutil.NotFound(w, "Folder not found")
			return
		}
		h.logger.Error("folder update failed", zap.String("folder_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Update failed: "+err.Error())
		return
	}
	jsonutil.Message(w, "Folder updated successfully")
}

// Delete handles DELETE /api/folders/{folder_id}. Only empty folders may
// be deleted.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "folder_id")

	if err := h.tree.DeleteFolder(r.Context(), user.ID, id); err != nil {
		switch {
		case errors.Is(err, tree.ErrFolderNotEmpty):
			jsonutil.BadRequest(w, "Cannot delete non-empty folder")
		case errors.Is(err, tree.ErrNotFound):
			jsonutil.NotFound(w, "Folder not found")
		default:
			h.logger.Error("folder delete failed", zap.String("folder_id", id), zap.Error(err))
			jsonutil.InternalError(w, "Delete failed: "+err.Error())
		}
		return
	}
	jsonutil.Message(w, "Folder deleted successfully")
}

// Breadcrumb handles GET /api/folders/{folder_id}/breadcrumb and
// GET /api/folders/breadcrumb (root trail).
func (h *Handler) Breadcrumb(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	var folderID *string
	if id := chi.URLParam(r, "folder_id"); id != "" {
		folderID = &id
	}

	trail, err := h.tree.Breadcrumb(r.Context(), user.ID, folderID)
	if err != nil {
		h.logger.Error("breadcrumb failed", zap.Error(err))
		jsonutil.InternalError(w, "Breadcrumb failed: "+err.Error())
		return
	}
	jsonutil.OK(w, map[string]any{"breadcrumb": trail})
}
