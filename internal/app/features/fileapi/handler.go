// Package fileapi provides the file management API endpoints.
//
// Endpoints (all bearer-authenticated):
//   - POST   /api/files/upload             - Upload a file (multipart)
//   - GET    /api/files                    - List a folder or search the tree
//   - GET    /api/files/{file_id}/download - Stream a file's content
//   - PUT    /api/files/{file_id}          - Rename a file
//   - DELETE /api/files/{file_id}          - Delete a file
package fileapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"filevault/internal/app/system/auth"
	"filevault/internal/app/system/jsonutil"
	"filevault/internal/app/tree"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler handles file API requests.
type Handler struct {
	tree      *tree.Manager
	logger    *zap.Logger
	maxUpload int64 // bytes
}

// NewHandler creates a new fileapi handler.
func NewHandler(mgr *tree.Manager, maxUpload int64, logger *zap.Logger) *Handler {
	if maxUpload <= 0 {
		maxUpload = 100 << 20 // 100MB
	}
	return &Handler{
		tree:      mgr,
		logger:    logger,
		maxUpload: maxUpload,
	}
}

// optionalID converts an optional folder reference from a form or query
// value. Empty means root (nil).
func optionalID(raw string) *string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	return &raw
}

// Upload handles POST /api/files/upload. The blob is stored before the
// metadata so a listed file always has content behind it; the folder_id
// field is recorded verbatim.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		jsonutil.BadRequest(w, "Invalid multipart payload")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		jsonutil.BadRequest(w, "Missing file field")
		return
	}
	defer upload.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	folderID := optionalID(r.FormValue("folder_id"))

	f, err := h.tree.Upload(r.Context(), user.ID, tree.UploadInput{
		Name:        header.Filename,
		ContentType: contentType,
		Size:        header.Size,
		Body:        upload,
		FolderID:    folderID,
	})
	if err != nil {
		h.logger.Error("upload failed",
			zap.String("filename", header.Filename),
			zap.Error(err),
		)
		jsonutil.InternalError(w, "Upload failed: "+err.Error())
		return
	}

	jsonutil.OK(w, map[string]any{
		"message":   "File uploaded successfully",
		"file_id":   f.ID.Hex(),
		"filename":  f.Name,
		"folder_id": folderID,
	})
}

// List handles GET /api/files?folder_id=&search=. A non-empty search term
// switches to a whole-tree name search and folder_id is ignored.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)

	folderID := optionalID(r.URL.Query().Get("folder_id"))
	search := r.URL.Query().Get("search")

	items, err := h.tree.List(r.Context(), user.ID, folderID, search)
	if err != nil {
		h.logger.Error("list failed", zap.Error(err))
		jsonutil.InternalError(w, "Failed to list items: "+err.Error())
		return
	}

	resp := map[string]any{
		"items":          items,
		"current_folder": folderID,
	}
	if term := strings.TrimSpace(search); term != "" {
		resp["search_term"] = term
	}
	jsonutil.OK(w, resp)
}

// Download handles GET /api/files/{file_id}/download, streaming the blob
// with the original content type and an attachment disposition.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "file_id")

	f, reader, err := h.tree.Download(r.Context(), user.ID, id)
	if err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			jsonutil.NotFound(w, "File not found")
			return
		}
		h.logger.Error("download failed", zap.String("file_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Download failed: "+err.Error())
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", f.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.Name))

	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("failed to stream file",
			zap.String("file_id", id),
			zap.Error(err),
		)
	}
}

// UpdateInput is the PUT /api/files/{file_id} request body. Name is the
// only mutable field.
type UpdateInput struct {
	Name string `json:"name"`
}

// Update handles PUT /api/files/{file_id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "file_id")

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

	if err := h.tree.RenameFile(r.Context(), user.ID, id, in.Name); err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			jsonutil.NotFound(w, "File not found")
			return
		}
		h.logger.Error("file update failed", zap.String("file_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Update failed: "+err.Error())
		return
	}
	jsonutil.Message(w, "File updated successfully")
}

// Delete handles DELETE /api/files/{file_id}. Metadata removal is
// authoritative; blob cleanup failures are not reported.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.CurrentUser(r)
	id := chi.URLParam(r, "file_id")

	if err := h.tree.DeleteFile(r.Context(), user.ID, id); err != nil {
		if errors.Is(err, tree.ErrNotFound) {
			jsonutil.NotFound(w, "File not found")
			return
		}
		h.logger.Error("file delete failed", zap.String("file_id", id), zap.Error(err))
		jsonutil.InternalError(w, "Delete failed: "+err.Error())
		return
	}
	jsonutil.Message(w, "File deleted successfully")
}
