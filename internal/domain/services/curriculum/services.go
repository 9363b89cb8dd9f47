// Package curriculum defines the service contracts the engine exposes
// upward to the admin UI shell, and the request/result types they speak.
package curriculum

import (
	"context"
	"time"

	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/content"
	models "coursedesk/internal/domain/models/curriculum"
	"coursedesk/internal/httputil"
)

// TreeStore is the authoritative in-memory hierarchy for the editing
// session. Mutations are optimistic: local state changes first, the backend
// call follows, and a persistence failure is answered with a full reload
// rather than local patch-up.
type TreeStore interface {
	// Hydrate loads the full section/lesson tree for a course.
	Hydrate(ctx context.Context, courseID string) error

	// Reload re-hydrates the current course. No-op when no course is loaded.
	Reload(ctx context.Context) error

	// EnsureCourse returns the session's course id, creating a draft course
	// first if none exists yet. Callers compose EnsureCourse and AddSection
	// so the create side effect stays visible.
	EnsureCourse(ctx context.Context) (string, error)

	AddSection(ctx context.Context, req *AddSectionRequest) (*models.Section, error)
	UpdateSection(ctx context.Context, id string, req *UpdateSectionRequest) (*models.Section, error)
	DeleteSection(ctx context.Context, id string) error
	DeleteLesson(ctx context.Context, id string) error

	// ReorderSections persists a drag-produced permutation of the course's
	// sections. orderedIDs is the complete new order.
	ReorderSections(ctx context.Context, orderedIDs []string) error

	// ReorderLessons does the same within one section.
	ReorderLessons(ctx context.Context, sectionID string, orderedIDs []string) error

	// Snapshot returns a deep copy of the current tree.
	Snapshot() []models.Section

	// Lesson returns a copy of one lesson by id.
	Lesson(id string) (*models.Lesson, bool)

	CourseID() string
}

// LessonLifecycle orchestrates create/update of a lesson together with its
// dependent video upload and resource batch as one logical sequence.
type LessonLifecycle interface {
	SubmitLesson(ctx context.Context, req *SubmitLessonRequest) (*SubmitLessonResult, error)

	// LessonContent decodes a lesson's opaque content reference into the
	// typed variant payload the edit dialog resumes from.
	LessonContent(lesson *models.Lesson) *DecodedLesson
}

// AddSectionRequest creates a section at the end of the course.
type AddSectionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateSectionRequest carries partial section updates; an absent field is
// unchanged. Description uses tri-state presence so an explicit null can
// clear it.
type UpdateSectionRequest struct {
	Title       *string                 `json:"title,omitempty"`
	Description httputil.OptionalString `json:"description"`
	IsPublished *bool                   `json:"is_published,omitempty"`
}

// SubmitLessonRequest is the single entry point payload for "add lesson"
// and "edit lesson". LessonID empty means create.
type SubmitLessonRequest struct {
	LessonID        string
	SectionID       string
	Title           string
	Type            content.LessonType
	DurationMinutes int
	IsFreePreview   bool
	Description     string

	// Video fields
	VideoSource content.VideoSource
	VideoURL    string
	VideoFile   *backend.File

	// Text/document fields. PlainText is the fallback body when the editor
	// produced no structured blocks.
	Blocks    []content.Block
	PlainText string

	// Live-session fields
	StartTime *time.Time

	// Resource batch, applied best-effort after the lesson row persists.
	DeleteResourceIDs []string
	AddResources      []backend.File
}

// SubmitLessonResult reports the outcome of one submit run. TransferErr and
// BatchErr are non-fatal: the lesson row persisted even when they are set.
type SubmitLessonResult struct {
	Lesson      *models.Lesson
	LessonID    string
	FilePath    string
	TransferErr error
	BatchErr    error
}

// DecodedLesson is the typed view of a lesson's content reference. Exactly
// one variant field is non-nil, matching Type.
type DecodedLesson struct {
	Type  content.LessonType      `json:"type"`
	Video *content.VideoContent   `json:"video,omitempty"`
	Text  *content.TextContent    `json:"text,omitempty"`
	Live  *content.LiveContent    `json:"live,omitempty"`
	Quiz  *content.QuizContent    `json:"quiz,omitempty"`
}
