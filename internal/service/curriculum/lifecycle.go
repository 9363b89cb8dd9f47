package curriculum

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/content"
	models "coursedesk/internal/domain/models/curriculum"
	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/notify"
	"coursedesk/internal/policy"
	"coursedesk/internal/service/upload"
)

// Controller is the single entry point for "add lesson" and "edit lesson".
// One submit fans out into a type-specific sequence of backend calls:
// validate, upsert the lesson row, conditionally upload the video, apply
// the resource batch, reload the tree. Steps run strictly in that order;
// each network call is issued only after the previous one resolved.
type Controller struct {
	store        *Store
	backend      backend.Curriculum
	uploads      *upload.Manager
	conferencing backend.Conferencing
	policy       *policy.Registry
	notifier     notify.Notifier
	logger       *slog.Logger

	// now is a test seam for live-session lead-time checks.
	now func() time.Time

	tierMu     sync.Mutex
	tier       backend.Tier
	tierCached bool
}

// NewController creates a lesson lifecycle controller.
func NewController(
	store *Store,
	b backend.Curriculum,
	uploads *upload.Manager,
	conferencing backend.Conferencing,
	pol *policy.Registry,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		store:        store,
		backend:      b,
		uploads:      uploads,
		conferencing: conferencing,
		policy:       pol,
		notifier:     notifier,
		logger:       logger,
		now:          time.Now,
	}
}

// SubmitLesson runs the full submit sequence. A ValidationError or
// PersistenceError is returned as the error; transfer and batch failures
// are non-fatal and reported on the result, because the lesson row already
// persisted when they occur.
func (c *Controller) SubmitLesson(ctx context.Context, req *svc.SubmitLessonRequest) (*svc.SubmitLessonResult, error) {
	// Step 1: validate. Fails fast with field-level errors; no network
	// call for the lesson has been issued at this point.
	maxLive := 0
	if req.Type == content.LessonTypeLive {
		maxLive = c.policy.MaxDurationMinutes(c.accountTier(ctx))
	}
	if err := validateSubmit(req, maxLive, c.now()); err != nil {
		return nil, err
	}

	// Step 2: upsert the lesson row. Every dependent step needs its id.
	lesson, err := c.upsertLesson(ctx, req)
	if err != nil {
		c.notifier.Notify(notify.LevelError, "Failed to save lesson")
		c.store.reloadAfterFailure(ctx)
		return nil, err
	}

	result := &svc.SubmitLessonResult{LessonID: lesson.ID}

	// Step 3: conditional video upload, then the follow-up metadata update
	// that stores the server-assigned path. Upload completion and metadata
	// persistence are two distinct steps; a failure in either is reported
	// but does not roll back the lesson row.
	if req.Type == content.LessonTypeVideo && req.VideoSource == content.VideoSourceUpload && req.VideoFile != nil {
		c.uploadVideo(ctx, lesson, *req.VideoFile, result)
	}

	// Step 4: resource deletions, then uploads. Each file is handled
	// independently; one failure is logged and surfaced but the rest of
	// the batch still runs.
	c.applyResourceBatch(ctx, lesson.ID, req, result)

	// Step 5: reload to pick up server-computed fields, regardless of
	// whether every sub-step succeeded.
	if err := c.store.Reload(ctx); err != nil {
		c.logger.Error("reload after lesson submit failed", "lesson_id", lesson.ID, "error", err)
	}
	if fresh, ok := c.store.Lesson(lesson.ID); ok {
		result.Lesson = fresh
	}

	if result.TransferErr == nil && result.BatchErr == nil {
		c.notifier.Notify(notify.LevelSuccess, "Lesson saved")
	}
	return result, nil
}

// upsertLesson builds the lesson row with the type-appropriate primary
// content reference and persists it.
func (c *Controller) upsertLesson(ctx context.Context, req *svc.SubmitLessonRequest) (*models.Lesson, error) {
	lesson, err := c.buildLesson(req)
	if err != nil {
		return nil, err
	}

	if lesson.ID == "" {
		order, err := c.store.NextLessonOrder(req.SectionID)
		if err != nil {
			return nil, err
		}
		lesson.Order = order
		if err := c.backend.CreateLesson(ctx, lesson); err != nil {
			return nil, &domain.PersistenceError{Op: "create lesson", Err: err}
		}
		c.logger.Info("lesson created", "lesson_id", lesson.ID, "section_id", lesson.SectionID, "type", lesson.Type)
		return lesson, nil
	}

	// Editing: keep the position and section, and keep an already-uploaded
	// video file unless the submit replaces it.
	if existing, ok := c.store.Lesson(lesson.ID); ok {
		lesson.Order = existing.Order
		if lesson.SectionID == "" {
			lesson.SectionID = existing.SectionID
		}
		if lesson.FilePath == "" && lesson.Type == content.LessonTypeVideo && req.VideoSource == content.VideoSourceUpload {
			lesson.FilePath = existing.FilePath
		}
	}
	if err := c.backend.UpdateLesson(ctx, lesson); err != nil {
		return nil, &domain.PersistenceError{Op: "update lesson", Err: err}
	}
	c.logger.Info("lesson updated", "lesson_id", lesson.ID, "type", lesson.Type)
	return lesson, nil
}

// buildLesson encodes the variant payload into the opaque content
// reference. Video-by-URL carries its primary reference in FilePath;
// text and document lessons carry theirs in ContentRef.
func (c *Controller) buildLesson(req *svc.SubmitLessonRequest) (*models.Lesson, error) {
	preview := req.IsFreePreview
	lesson := &models.Lesson{
		ID:              req.LessonID,
		SectionID:       req.SectionID,
		Title:           req.Title,
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
		IsFreePreview:   &preview,
		StartTime:       req.StartTime,
	}

	switch req.Type {
	case content.LessonTypeVideo:
		payload := &content.VideoContent{
			Description:  req.Description,
			Source:       req.VideoSource,
			Duration:     req.DurationMinutes,
			AllowPreview: req.IsFreePreview,
		}
		if req.VideoSource == content.VideoSourceURL {
			payload.VideoURL = req.VideoURL
			lesson.FilePath = req.VideoURL
		}
		if req.VideoFile != nil {
			payload.VideoFileName = req.VideoFile.Name
		}
		ref, err := content.Encode(req.Type, payload)
		if err != nil {
			return nil, err
		}
		lesson.ContentRef = ref

	case content.LessonTypeText, content.LessonTypeDocument:
		payload := content.TextContent{Blocks: req.Blocks}
		if len(req.Blocks) == 0 {
			payload = content.TextFromPlain(req.PlainText)
		}
		ref, err := content.Encode(req.Type, &payload)
		if err != nil {
			return nil, err
		}
		lesson.ContentRef = ref

	case content.LessonTypeLive:
		ref, err := content.Encode(req.Type, &content.LiveContent{
			Description: req.Description,
			StartTime:   req.StartTime,
		})
		if err != nil {
			return nil, err
		}
		lesson.ContentRef = ref

	case content.LessonTypeQuiz:
		ref, err := content.Encode(req.Type, &content.QuizContent{
			Description: req.Description,
		})
		if err != nil {
			return nil, err
		}
		lesson.ContentRef = ref
	}

	return lesson, nil
}

// uploadVideo runs the transfer and the follow-up metadata update. When the
// follow-up fails the lesson exists with no stored file path and the
// failure is surfaced as a TransferError, distinct from validation errors.
func (c *Controller) uploadVideo(ctx context.Context, lesson *models.Lesson, file backend.File, result *svc.SubmitLessonResult) {
	path, err := c.uploads.UploadVideo(ctx, lesson.ID, file)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		result.TransferErr = err
		c.notifier.Notify(notify.LevelError, "Video upload failed; the lesson was saved without it")
		return
	}

	lesson.FilePath = path
	if err := c.backend.UpdateLesson(ctx, lesson); err != nil {
		lesson.FilePath = ""
		result.TransferErr = &domain.TransferError{EntityID: lesson.ID, Err: err}
		c.logger.Error("failed to store uploaded video path",
			"lesson_id", lesson.ID,
			"path", path,
			"error", err,
		)
		c.notifier.Notify(notify.LevelError, "Video uploaded but could not be attached to the lesson")
		return
	}
	result.FilePath = path
}

// applyResourceBatch deletes then uploads attachments, best-effort.
func (c *Controller) applyResourceBatch(ctx context.Context, lessonID string, req *svc.SubmitLessonRequest, result *svc.SubmitLessonResult) {
	var failures []domain.BatchFailure

	for _, resourceID := range req.DeleteResourceIDs {
		if err := c.uploads.DeleteResource(ctx, resourceID); err != nil {
			c.logger.Error("failed to delete resource",
				"lesson_id", lessonID,
				"resource_id", resourceID,
				"error", err,
			)
			failures = append(failures, domain.BatchFailure{ItemID: resourceID, Err: err})
		}
	}

	for _, file := range req.AddResources {
		if _, err := c.uploads.UploadResource(ctx, lessonID, file); err != nil {
			c.logger.Error("failed to upload resource",
				"lesson_id", lessonID,
				"file", file.Name,
				"error", err,
			)
			failures = append(failures, domain.BatchFailure{ItemID: file.Name, Err: err})
		}
	}

	if len(failures) > 0 {
		result.BatchErr = &domain.PartialBatchError{Failures: failures}
		c.notifier.Notify(notify.LevelError, "Some resource changes failed; the rest were applied")
	}
}

// LessonContent decodes a lesson's opaque content reference into the typed
// variant the edit dialog resumes from. Decoding never fails; malformed or
// legacy references degrade to plain text.
func (c *Controller) LessonContent(lesson *models.Lesson) *svc.DecodedLesson {
	out := &svc.DecodedLesson{Type: lesson.Type}
	switch lesson.Type {
	case content.LessonTypeVideo:
		v := content.DecodeVideo(lesson.ContentRef, lesson.FilePath, lesson.IsFreePreview)
		out.Video = &v
	case content.LessonTypeText, content.LessonTypeDocument:
		t := content.DecodeText(lesson.ContentRef)
		out.Text = &t
	case content.LessonTypeLive:
		l := content.DecodeLive(lesson.ContentRef)
		out.Live = &l
	case content.LessonTypeQuiz:
		q := content.DecodeQuiz(lesson.ContentRef)
		out.Quiz = &q
	}
	return out
}

// accountTier fetches the conferencing tier once and caches it. Fetch
// failures and unknown tiers resolve to the most restrictive tier, never to
// unlimited; only a successful fetch is cached, so a flaky integration gets
// retried on the next submit.
func (c *Controller) accountTier(ctx context.Context) backend.Tier {
	c.tierMu.Lock()
	if c.tierCached {
		tier := c.tier
		c.tierMu.Unlock()
		return tier
	}
	c.tierMu.Unlock()

	tier, err := c.conferencing.AccountTier(ctx)
	if err != nil {
		c.logger.Warn("conferencing tier unavailable, assuming most restrictive", "error", err)
		return backend.TierFree
	}
	if tier == backend.TierUnknown {
		tier = backend.TierFree
	}

	c.tierMu.Lock()
	c.tier = tier
	c.tierCached = true
	c.tierMu.Unlock()
	return tier
}
