// Package curriculum implements the curriculum authoring engine: the tree
// store, the reorder reconciliation, and the lesson lifecycle controller.
package curriculum

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"coursedesk/internal/config"
	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
	models "coursedesk/internal/domain/models/curriculum"
	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/notify"
)

// Store is the authoritative in-memory section/lesson tree for one editing
// session. All state lives behind one mutex; async reconciliation reads the
// container at execution time instead of capturing snapshots, so there is
// no stale-closure hazard and no shadow copy to keep in sync.
type Store struct {
	backend  backend.Curriculum
	notifier notify.Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	courseID string
	sections []models.Section
}

// NewStore creates a tree store.
func NewStore(b backend.Curriculum, notifier notify.Notifier, logger *slog.Logger) *Store {
	return &Store{
		backend:  b,
		notifier: notifier,
		logger:   logger,
	}
}

// Hydrate fetches all sections for the course, then each section's lessons
// in parallel. One section's lesson fetch failing must not abort the whole
// hydration: that section degrades to an empty lesson list and the error is
// logged, not raised.
func (s *Store) Hydrate(ctx context.Context, courseID string) error {
	sections, err := s.backend.ListSections(ctx, courseID)
	if err != nil {
		return &domain.PersistenceError{Op: "load curriculum", Err: err}
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Order < sections[j].Order })

	var wg sync.WaitGroup
	for i := range sections {
		wg.Add(1)
		go func(sec *models.Section) {
			defer wg.Done()
			lessons, err := s.backend.ListLessons(ctx, sec.ID)
			if err != nil {
				s.logger.Error("failed to load section lessons",
					"section_id", sec.ID,
					"error", err,
				)
				sec.Lessons = []models.Lesson{}
				return
			}
			sort.Slice(lessons, func(i, j int) bool { return lessons[i].Order < lessons[j].Order })
			renumberLessons(lessons)
			sec.Lessons = lessons
		}(&sections[i])
	}
	wg.Wait()

	// The backend may hand back gapped orders after a server-side partial
	// failure; relabel to restore the contiguous 1..N invariant.
	for i := range sections {
		sections[i].Order = i + 1
	}

	s.mu.Lock()
	s.courseID = courseID
	s.sections = sections
	s.mu.Unlock()

	s.logger.Info("curriculum hydrated",
		"course_id", courseID,
		"section_count", len(sections),
	)
	return nil
}

// Reload re-hydrates the current course, discarding all optimistic state.
// No-op when no course is loaded yet.
func (s *Store) Reload(ctx context.Context) error {
	s.mu.Lock()
	courseID := s.courseID
	s.mu.Unlock()

	if courseID == "" {
		return nil
	}
	return s.Hydrate(ctx, courseID)
}

// EnsureCourse returns the session's course id, creating a draft course
// first if the session has none. Sections cannot exist without a course id,
// so callers run this before the first AddSection.
func (s *Store) EnsureCourse(ctx context.Context) (string, error) {
	s.mu.Lock()
	id := s.courseID
	s.mu.Unlock()
	if id != "" {
		return id, nil
	}

	course, err := s.backend.CreateDraftCourse(ctx)
	if err != nil {
		return "", &domain.PersistenceError{Op: "create draft course", Err: err}
	}

	s.mu.Lock()
	s.courseID = course.ID
	s.mu.Unlock()

	s.logger.Info("draft course created", "course_id", course.ID)
	return course.ID, nil
}

// AddSection creates a section at the end of the course.
func (s *Store) AddSection(ctx context.Context, req *svc.AddSectionRequest) (*models.Section, error) {
	if err := validateSectionTitle(req.Title); err != nil {
		return nil, err
	}

	s.mu.Lock()
	courseID := s.courseID
	order := len(s.sections) + 1
	s.mu.Unlock()

	if courseID == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"course": "a course must exist before sections can be added",
		}}
	}

	section := models.Section{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       order,
		Lessons:     []models.Lesson{},
	}
	if err := s.backend.CreateSection(ctx, &section); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to create section")
		return nil, &domain.PersistenceError{Op: "create section", Err: err}
	}

	s.mu.Lock()
	s.sections = append(s.sections, section)
	s.renumberSectionsLocked()
	out := section.Clone()
	s.mu.Unlock()

	s.logger.Info("section created",
		"section_id", section.ID,
		"course_id", courseID,
		"order", section.Order,
	)
	s.notifier.Notify(notify.LevelSuccess, "Section created")
	return &out, nil
}

// UpdateSection applies partial field updates to a section.
func (s *Store) UpdateSection(ctx context.Context, id string, req *svc.UpdateSectionRequest) (*models.Section, error) {
	if req.Title != nil {
		if err := validateSectionTitle(*req.Title); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	idx := s.sectionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, fmt.Errorf("section %q: %w", id, domain.ErrNotFound)
	}
	sec := &s.sections[idx]
	if req.Title != nil {
		sec.Title = *req.Title
	}
	if req.Description.Present {
		sec.Description = req.Description.Or("")
	}
	if req.IsPublished != nil {
		sec.IsPublished = *req.IsPublished
	}
	payload := sec.Clone()
	s.mu.Unlock()

	payload.Lessons = nil
	if err := s.backend.UpdateSection(ctx, &payload); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to update section")
		s.reloadAfterFailure(ctx)
		return nil, &domain.PersistenceError{Op: "update section", Err: err}
	}

	out, _ := s.section(id)
	s.notifier.Notify(notify.LevelSuccess, "Section updated")
	return out, nil
}

// DeleteSection removes a section optimistically: local state first, then
// the backend. The backend cascades the section's lessons. On failure the
// local removal is not rolled back in place; the authoritative reload
// restores consistency.
func (s *Store) DeleteSection(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.sectionIndexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("section %q: %w", id, domain.ErrNotFound)
	}
	s.sections = append(s.sections[:idx], s.sections[idx+1:]...)
	s.renumberSectionsLocked()
	s.mu.Unlock()

	if err := s.backend.DeleteSection(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to delete section")
		s.reloadAfterFailure(ctx)
		return &domain.PersistenceError{Op: "delete section", Err: err}
	}

	s.logger.Info("section deleted", "section_id", id)
	s.notifier.Notify(notify.LevelSuccess, "Section deleted")
	return nil
}

// DeleteLesson removes a lesson with the same optimistic pattern.
func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i := range s.sections {
		sec := &s.sections[i]
		for j := range sec.Lessons {
			if sec.Lessons[j].ID == id {
				sec.Lessons = append(sec.Lessons[:j], sec.Lessons[j+1:]...)
				renumberLessons(sec.Lessons)
				found = true
				break
			}
		}
		if found {
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return fmt.Errorf("lesson %q: %w", id, domain.ErrNotFound)
	}

	if err := s.backend.DeleteLesson(ctx, id); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to delete lesson")
		s.reloadAfterFailure(ctx)
		return &domain.PersistenceError{Op: "delete lesson", Err: err}
	}

	s.logger.Info("lesson deleted", "lesson_id", id)
	s.notifier.Notify(notify.LevelSuccess, "Lesson deleted")
	return nil
}

// Snapshot returns a deep copy of the current tree.
func (s *Store) Snapshot() []models.Section {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Section, len(s.sections))
	for i, sec := range s.sections {
		out[i] = sec.Clone()
	}
	return out
}

// CourseID returns the session's course id; empty until hydrated or the
// first EnsureCourse.
func (s *Store) CourseID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courseID
}

// Lesson returns a copy of one lesson by id.
func (s *Store) Lesson(id string) (*models.Lesson, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.sections {
		for j := range s.sections[i].Lessons {
			if s.sections[i].Lessons[j].ID == id {
				l := s.sections[i].Lessons[j].Clone()
				return &l, true
			}
		}
	}
	return nil, false
}

// NextLessonOrder returns the 1-based position a new lesson in the section
// will take.
func (s *Store) NextLessonOrder(sectionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.sectionIndexLocked(sectionID)
	if idx < 0 {
		return 0, fmt.Errorf("section %q: %w", sectionID, domain.ErrNotFound)
	}
	return len(s.sections[idx].Lessons) + 1, nil
}

// section returns a deep copy of one section.
func (s *Store) section(id string) (*models.Section, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.sectionIndexLocked(id)
	if idx < 0 {
		return nil, false
	}
	out := s.sections[idx].Clone()
	return &out, true
}

// sectionIndexLocked finds a section's position. Caller holds s.mu.
func (s *Store) sectionIndexLocked(id string) int {
	for i := range s.sections {
		if s.sections[i].ID == id {
			return i
		}
	}
	return -1
}

// renumberSectionsLocked relabels Order as 1-based position. Caller holds
// s.mu. Runs after every structural mutation, before any network call.
func (s *Store) renumberSectionsLocked() {
	for i := range s.sections {
		s.sections[i].Order = i + 1
	}
}

// renumberLessons relabels lesson Order as 1-based position.
func renumberLessons(lessons []models.Lesson) {
	for i := range lessons {
		lessons[i].Order = i + 1
	}
}

// reloadAfterFailure runs the authoritative reload a persistence failure
// demands. Best-effort: a reload failure is logged, the original error
// already describes the user-facing problem.
func (s *Store) reloadAfterFailure(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.logger.Error("reload after persistence failure failed", "error", err)
	}
}

func validateSectionTitle(title string) error {
	if err := validation.Validate(title,
		validation.Required,
		validation.Length(1, config.MaxSectionTitleLength),
	); err != nil {
		return &domain.ValidationError{Fields: map[string]string{"title": err.Error()}}
	}
	return nil
}
