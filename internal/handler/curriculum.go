package handler

import (
	"log/slog"
	"net/http"

	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/httputil"
	"coursedesk/internal/notify"
)

// CurriculumHandler exposes the section/lesson tree and its imperative
// operations to the admin UI shell.
type CurriculumHandler struct {
	store  svc.TreeStore
	feed   *notify.Feed
	logger *slog.Logger
}

// NewCurriculumHandler creates a new curriculum handler.
func NewCurriculumHandler(store svc.TreeStore, feed *notify.Feed, logger *slog.Logger) *CurriculumHandler {
	return &CurriculumHandler{
		store:  store,
		feed:   feed,
		logger: logger,
	}
}

// GetTree returns the current in-memory tree snapshot.
// GET /api/curriculum
func (h *CurriculumHandler) GetTree(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id": h.store.CourseID(),
		"sections":  h.store.Snapshot(),
	})
}

// LoadCourse hydrates the tree for a course and returns the snapshot.
// POST /api/curriculum/load
func (h *CurriculumHandler) LoadCourse(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CourseID string `json:"course_id"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.CourseID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "course_id is required")
		return
	}

	if err := h.store.Hydrate(r.Context(), req.CourseID); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id": h.store.CourseID(),
		"sections":  h.store.Snapshot(),
	})
}

// ReloadCourse re-hydrates the current course from the backend.
// POST /api/curriculum/reload
func (h *CurriculumHandler) ReloadCourse(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Reload(r.Context()); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"course_id": h.store.CourseID(),
		"sections":  h.store.Snapshot(),
	})
}

// CreateSection appends a section to the course, creating a draft course
// first when the session has none yet.
// POST /api/sections
func (h *CurriculumHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	var req svc.AddSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.store.EnsureCourse(r.Context()); err != nil {
		handleError(w, err)
		return
	}

	section, err := h.store.AddSection(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, section)
}

// UpdateSection renames a section, edits its description, or toggles its
// published flag.
// PATCH /api/sections/{id}
func (h *CurriculumHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "section ID is required")
		return
	}

	var req svc.UpdateSectionRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	section, err := h.store.UpdateSection(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, section)
}

// DeleteSection removes a section and everything under it.
// DELETE /api/sections/{id}
func (h *CurriculumHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "section ID is required")
		return
	}

	if err := h.store.DeleteSection(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderSections persists a drag-produced permutation of the course's
// sections. The body carries the complete new order.
// POST /api/sections/reorder
func (h *CurriculumHandler) ReorderSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderedIDs []string `json:"ordered_ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.ReorderSections(r.Context(), req.OrderedIDs); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sections": h.store.Snapshot(),
	})
}

// ReorderLessons does the same within one section.
// POST /api/sections/{id}/lessons/reorder
func (h *CurriculumHandler) ReorderLessons(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "section ID is required")
		return
	}

	var req struct {
		OrderedIDs []string `json:"ordered_ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.ReorderLessons(r.Context(), id, req.OrderedIDs); err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"sections": h.store.Snapshot(),
	})
}

// DeleteLesson removes a lesson from its section.
// DELETE /api/lessons/{id}
func (h *CurriculumHandler) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}

	if err := h.store.DeleteLesson(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DrainNotices returns the pending transient notices and clears the feed.
// GET /api/notices
func (h *CurriculumHandler) DrainNotices(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"notices": h.feed.Drain(),
	})
}

// HealthCheck reports liveness.
// GET /health
func (h *CurriculumHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
