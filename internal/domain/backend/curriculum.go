// Package backend defines the collaborator interfaces the engine consumes.
// The remote REST store is the system of record; everything here is
// asynchronous, may fail, and carries no transactional guarantees across
// calls.
package backend

import (
	"context"

	"coursedesk/internal/domain/models/curriculum"
)

// Curriculum is the remote store for courses, sections and lessons.
type Curriculum interface {
	// CreateDraftCourse mints a draft course and returns it with a durable id.
	CreateDraftCourse(ctx context.Context) (*curriculum.Course, error)

	// ListSections returns all sections of a course, unordered lessons excluded.
	ListSections(ctx context.Context, courseID string) ([]curriculum.Section, error)

	// ListLessons returns all lessons of a section.
	ListLessons(ctx context.Context, sectionID string) ([]curriculum.Lesson, error)

	// CreateSection persists a new section and fills in its id.
	CreateSection(ctx context.Context, section *curriculum.Section) error

	// UpdateSection persists section field changes.
	UpdateSection(ctx context.Context, section *curriculum.Section) error

	// DeleteSection removes a section; the backend cascades to its lessons.
	DeleteSection(ctx context.Context, id string) error

	// ReorderSections applies a batch of {id, order} updates in one request.
	ReorderSections(ctx context.Context, courseID string, updates []curriculum.OrderUpdate) error

	// CreateLesson persists a new lesson and fills in its id.
	CreateLesson(ctx context.Context, lesson *curriculum.Lesson) error

	// UpdateLesson persists lesson field changes.
	UpdateLesson(ctx context.Context, lesson *curriculum.Lesson) error

	// DeleteLesson removes a lesson; the backend cascades to its resources.
	DeleteLesson(ctx context.Context, id string) error

	// ReorderLessons applies a batch of {id, order} updates within a section.
	ReorderLessons(ctx context.Context, sectionID string, updates []curriculum.OrderUpdate) error
}
