package curriculum

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"coursedesk/internal/config"
	"coursedesk/internal/domain"
	"coursedesk/internal/domain/models/content"
	svc "coursedesk/internal/domain/services/curriculum"
)

// validateSubmit checks the type-specific required fields of a lesson
// submit. maxLiveMinutes is the tier-derived duration cap, only consulted
// for live sessions.
func validateSubmit(req *svc.SubmitLessonRequest, maxLiveMinutes int, now time.Time) error {
	fields := map[string]string{}

	if err := validation.Validate(req.Title,
		validation.Required,
		validation.Length(1, config.MaxLessonTitleLength),
	); err != nil {
		fields["title"] = err.Error()
	}

	if !req.Type.Valid() {
		fields["type"] = fmt.Sprintf("unknown lesson type %q", req.Type)
	}

	if req.SectionID == "" && req.LessonID == "" {
		fields["section_id"] = "cannot be blank"
	}

	switch req.Type {
	case content.LessonTypeVideo:
		validateVideo(req, fields)
	case content.LessonTypeLive:
		validateLive(req, maxLiveMinutes, now, fields)
	}
	// Text, document and quiz lessons need nothing beyond the title; an
	// empty body is wrapped as a single plain-text paragraph on encode.

	// Size ceilings are enforced here so an invalid file rejects the whole
	// submit before any backend call fires. The upload manager re-checks
	// them for callers that reach it directly.
	for _, f := range req.AddResources {
		if f.Size > config.MaxResourceFileSize {
			fields["resources"] = fmt.Sprintf("%s exceeds the 50MB resource limit", f.Name)
			break
		}
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateVideo(req *svc.SubmitLessonRequest, fields map[string]string) {
	switch req.VideoSource {
	case content.VideoSourceURL:
		if err := validation.Validate(req.VideoURL, validation.Required, is.URL); err != nil {
			fields["video_url"] = err.Error()
		}
	case content.VideoSourceUpload:
		// Editing an existing lesson may keep its current file; only a
		// brand-new upload-source lesson must bring one.
		if req.VideoFile == nil && req.LessonID == "" {
			fields["video_file"] = "a video file is required"
		}
		if req.VideoFile != nil && req.VideoFile.Size > config.MaxVideoFileSize {
			fields["video_file"] = fmt.Sprintf("%s exceeds the 500MB video limit", req.VideoFile.Name)
		}
	default:
		fields["video_source"] = "must be upload or url"
	}
}

func validateLive(req *svc.SubmitLessonRequest, maxLiveMinutes int, now time.Time, fields map[string]string) {
	if req.StartTime == nil {
		fields["start_time"] = "cannot be blank"
	} else if req.StartTime.Before(now.Add(config.MinLiveLeadTime)) {
		fields["start_time"] = fmt.Sprintf("must be at least %d minutes in the future",
			int(config.MinLiveLeadTime.Minutes()))
	}

	switch {
	case req.DurationMinutes < config.MinLiveDurationMinutes:
		fields["duration_minutes"] = fmt.Sprintf("must be at least %d minute", config.MinLiveDurationMinutes)
	case req.DurationMinutes > maxLiveMinutes:
		fields["duration_minutes"] = fmt.Sprintf("live sessions on the connected account are limited to %d minutes", maxLiveMinutes)
	}
}
