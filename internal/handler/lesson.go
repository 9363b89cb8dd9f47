package handler

import (
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/content"
	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/httputil"
)

// maxMultipartMemory is the in-memory threshold for multipart parsing.
// Larger file parts spill to temp files and stream from disk.
const maxMultipartMemory = 32 << 20 // 32 MB

// LessonHandler handles lesson submit, content decode, and the multipart
// payloads that carry lesson files.
type LessonHandler struct {
	lifecycle svc.LessonLifecycle
	store     svc.TreeStore
	logger    *slog.Logger
}

// NewLessonHandler creates a new lesson handler.
func NewLessonHandler(lifecycle svc.LessonLifecycle, store svc.TreeStore, logger *slog.Logger) *LessonHandler {
	return &LessonHandler{
		lifecycle: lifecycle,
		store:     store,
		logger:    logger,
	}
}

// CreateLesson submits a new lesson with its files.
// POST /api/lessons  (multipart/form-data)
func (h *LessonHandler) CreateLesson(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, "")
}

// UpdateLesson re-submits an existing lesson.
// PATCH /api/lessons/{id}  (multipart/form-data)
func (h *LessonHandler) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "lesson ID is required")
		return
	}
	h.submit(w, r, id)
}

// submit parses the multipart payload into a submit request and runs the
// lifecycle sequence. Transfer and batch failures come back on the result
// rather than as errors, so a partially applied submit answers 207.
func (h *LessonHandler) submit(w http.ResponseWriter, r *http.Request, lessonID string) {
	req, closeFiles, err := h.parseSubmit(r, lessonID)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer closeFiles()

	result, err := h.lifecycle.SubmitLesson(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	body := map[string]interface{}{
		"lesson_id": result.LessonID,
		"lesson":    result.Lesson,
	}
	if result.FilePath != "" {
		body["file_path"] = result.FilePath
	}

	status := http.StatusOK
	if lessonID == "" {
		status = http.StatusCreated
	}
	if result.TransferErr != nil || result.BatchErr != nil {
		status = http.StatusMultiStatus
		warnings := []string{}
		if result.TransferErr != nil {
			warnings = append(warnings, result.TransferErr.Error())
		}
		if result.BatchErr != nil {
			warnings = append(warnings, result.BatchErr.Error())
		}
		body["warnings"] = warnings
	}

	httputil.RespondJSON(w, status, body)
}

// GetLessonContent decodes a lesson's content reference into the typed
// variant payload the edit dialog resumes from.
// GET /api/lessons/{id}/content
func (h *LessonHandler) GetLessonContent(w http.ResponseWriter, r *http.Request) {
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

	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"lesson":  lesson,
		"content": h.lifecycle.LessonContent(lesson),
	})
}

// parseSubmit maps the multipart form onto a submit request. The returned
// close func releases every opened file part and must run after the
// lifecycle call finishes.
func (h *LessonHandler) parseSubmit(r *http.Request, lessonID string) (*svc.SubmitLessonRequest, func(), error) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, nil, err
	}

	req := &svc.SubmitLessonRequest{
		LessonID:    lessonID,
		SectionID:   r.FormValue("section_id"),
		Title:       r.FormValue("title"),
		Type:        content.LessonType(r.FormValue("type")),
		Description: r.FormValue("description"),
		VideoSource: content.VideoSource(r.FormValue("video_source")),
		VideoURL:    r.FormValue("video_url"),
		PlainText:   r.FormValue("plain_text"),
	}

	if v := r.FormValue("duration_minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, nil, err
		}
		req.DurationMinutes = n
	}
	if v := r.FormValue("is_free_preview"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, nil, err
		}
		req.IsFreePreview = b
	}
	if v := r.FormValue("start_time"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, nil, err
		}
		req.StartTime = &t
	}
	if v := r.FormValue("blocks"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Blocks); err != nil {
			return nil, nil, err
		}
	}
	if v := r.FormValue("delete_resource_ids"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.DeleteResourceIDs); err != nil {
			return nil, nil, err
		}
	}

	var opened []multipart.File
	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	if headers := r.MultipartForm.File["video"]; len(headers) > 0 {
		f, err := headers[0].Open()
		if err != nil {
			closeFiles()
			return nil, nil, err
		}
		opened = append(opened, f)
		req.VideoFile = &backend.File{
			Name:    headers[0].Filename,
			Size:    headers[0].Size,
			Content: f,
		}
	}

	for _, fh := range r.MultipartForm.File["resources"] {
		f, err := fh.Open()
		if err != nil {
			closeFiles()
			return nil, nil, err
		}
		opened = append(opened, f)
		req.AddResources = append(req.AddResources, backend.File{
			Name:    fh.Filename,
			Size:    fh.Size,
			Content: f,
		})
	}

	return req, closeFiles, nil
}
