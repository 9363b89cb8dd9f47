package handler

import (
	"log/slog"
	"net/http"

	"coursedesk/internal/config"
	"coursedesk/internal/domain/backend"
	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/httputil"
	"coursedesk/internal/service/upload"
)

// UploadHandler exposes transfer progress, guarded cancellation, and the
// replace-with-undo flow for committed lesson videos.
type UploadHandler struct {
	uploads *upload.Manager
	store   svc.TreeStore
	logger  *slog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploads *upload.Manager, store svc.TreeStore, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{
		uploads: uploads,
		store:   store,
		logger:  logger,
	}
}

// ListProgress returns the live transfer map keyed by entity id.
// GET /api/uploads
func (h *UploadHandler) ListProgress(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"uploads": h.uploads.Progress(),
	})
}

// GetProgress returns one entity's transfer state.
// GET /api/lessons/{id}/upload
func (h *UploadHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}

	task, ok := h.uploads.Progress()[id]
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "no active upload for lesson")
		return
	}

	httputil.RespondJSON(w, http.StatusOK, task)
}

// CancelUpload cancels an in-flight transfer. Mid-transfer cancellation
// must be confirmed; at 0% or 100% it proceeds directly.
// POST /api/lessons/{id}/upload/cancel
func (h *UploadHandler) CancelUpload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}

	var req struct {
		Confirmed bool `json:"confirmed"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	needsConfirmation, err := h.uploads.Cancel(id, req.Confirmed)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]bool{
		"needs_confirmation": needsConfirmation,
		"cancelled":          !needsConfirmation,
	})
}

// BeginReplace stashes the lesson's committed video path before the user
// picks a replacement file.
// POST /api/lessons/{id}/video/replace
func (h *UploadHandler) BeginReplace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}

	lesson, ok := h.store.Lesson(id)
	if !ok {
		httputil.RespondError(w, http.StatusNotFound, "lesson not found")
		return
	}

	h.uploads.BeginReplace(id, lesson.FilePath)
	w.WriteHeader(http.StatusNoContent)
}

// ResolveReplace finalizes a replace flow. A request without a video part
// means the picker was cancelled and the previous path is restored; an
// oversized file restores it as well.
// POST /api/lessons/{id}/video/replace/resolve  (multipart/form-data)
func (h *UploadHandler) ResolveReplace(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var selected *backend.File
	if headers := r.MultipartForm.File["video"]; len(headers) > 0 {
		f, err := headers[0].Open()
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, err.Error())
			return
		}
		defer f.Close()
		selected = &backend.File{
			Name:    headers[0].Filename,
			Size:    headers[0].Size,
			Content: f,
		}
	}

	committed, accepted, err := h.uploads.ResolveReplace(id, selected, config.MaxVideoFileSize)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"file_path": committed,
		"accepted":  accepted,
	})
}
