// Package memory is an in-memory implementation of the backend collaborator
// interfaces. It backs the engine's tests and the MEMORY_BACKEND dev mode,
// where the UI shell runs without a real system of record.
package memory

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/curriculum"
)

// Store holds every table behind one mutex, like a tiny single-node
// database. All returned values are copies; callers never alias internals.
type Store struct {
	mu        sync.Mutex
	course    *curriculum.Course
	sections  map[string]*curriculum.Section
	lessons   map[string]*curriculum.Lesson
	resources map[string]*curriculum.Resource
	tier      backend.Tier

	failNext map[string]error
	calls    map[string]int
}

// New creates an empty store. The conferencing tier starts unknown.
func New() *Store {
	return &Store{
		sections:  make(map[string]*curriculum.Section),
		lessons:   make(map[string]*curriculum.Lesson),
		resources: make(map[string]*curriculum.Resource),
		failNext:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

// FailNext makes the next call to the named operation return err.
// Test hook; operation names match the interface method names.
func (s *Store) FailNext(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[op] = err
}

// Calls returns how many times the named operation was invoked (including
// injected failures).
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// SetTier sets the conferencing account tier the fake reports.
func (s *Store) SetTier(tier backend.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tier = tier
}

// enter records the call and consumes an injected failure, if any.
// Caller must hold s.mu.
func (s *Store) enter(op string) error {
	s.calls[op]++
	if err, ok := s.failNext[op]; ok {
		delete(s.failNext, op)
		return err
	}
	return nil
}

// --- backend.Curriculum ---

func (s *Store) CreateDraftCourse(ctx context.Context) (*curriculum.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateDraftCourse"); err != nil {
		return nil, err
	}

	c := &curriculum.Course{ID: uuid.NewString(), IsDraft: true}
	s.course = c
	out := *c
	return &out, nil
}

func (s *Store) ListSections(ctx context.Context, courseID string) ([]curriculum.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListSections"); err != nil {
		return nil, err
	}

	var out []curriculum.Section
	for _, sec := range s.sections {
		if sec.CourseID == courseID {
			cp := *sec
			cp.Lessons = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (s *Store) ListLessons(ctx context.Context, sectionID string) ([]curriculum.Lesson, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListLessons"); err != nil {
		return nil, err
	}

	var out []curriculum.Lesson
	for _, l := range s.lessons {
		if l.SectionID == sectionID {
			cp := l.Clone()
			cp.Resources = s.lessonResources(l.ID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// lessonResources collects the resource rows for a lesson. Caller holds s.mu.
func (s *Store) lessonResources(lessonID string) []curriculum.Resource {
	out := []curriculum.Resource{}
	for _, r := range s.resources {
		if r.LessonID == lessonID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) CreateSection(ctx context.Context, section *curriculum.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateSection"); err != nil {
		return err
	}
	if s.course == nil || s.course.ID != section.CourseID {
		return fmt.Errorf("course %q: %w", section.CourseID, domain.ErrNotFound)
	}

	section.ID = uuid.NewString()
	cp := *section
	cp.Lessons = nil
	s.sections[cp.ID] = &cp
	return nil
}

func (s *Store) UpdateSection(ctx context.Context, section *curriculum.Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateSection"); err != nil {
		return err
	}

	existing, ok := s.sections[section.ID]
	if !ok {
		return fmt.Errorf("section %q: %w", section.ID, domain.ErrNotFound)
	}
	existing.Title = section.Title
	existing.Description = section.Description
	existing.Order = section.Order
	existing.IsPublished = section.IsPublished
	return nil
}

func (s *Store) DeleteSection(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteSection"); err != nil {
		return err
	}

	if _, ok := s.sections[id]; !ok {
		return fmt.Errorf("section %q: %w", id, domain.ErrNotFound)
	}
	delete(s.sections, id)
	// Cascade to lessons and their resources
	for lid, l := range s.lessons {
		if l.SectionID == id {
			s.deleteLessonLocked(lid)
		}
	}
	return nil
}

func (s *Store) ReorderSections(ctx context.Context, courseID string, updates []curriculum.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ReorderSections"); err != nil {
		return err
	}

	for _, u := range updates {
		sec, ok := s.sections[u.ID]
		if !ok || sec.CourseID != courseID {
			return fmt.Errorf("section %q: %w", u.ID, domain.ErrNotFound)
		}
		sec.Order = u.Order
	}
	return nil
}

func (s *Store) CreateLesson(ctx context.Context, lesson *curriculum.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateLesson"); err != nil {
		return err
	}
	if _, ok := s.sections[lesson.SectionID]; !ok {
		return fmt.Errorf("section %q: %w", lesson.SectionID, domain.ErrNotFound)
	}

	lesson.ID = uuid.NewString()
	cp := lesson.Clone()
	cp.Resources = nil
	s.lessons[cp.ID] = &cp
	return nil
}

func (s *Store) UpdateLesson(ctx context.Context, lesson *curriculum.Lesson) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateLesson"); err != nil {
		return err
	}

	existing, ok := s.lessons[lesson.ID]
	if !ok {
		return fmt.Errorf("lesson %q: %w", lesson.ID, domain.ErrNotFound)
	}
	cp := lesson.Clone()
	cp.Resources = nil
	cp.SectionID = existing.SectionID
	s.lessons[lesson.ID] = &cp
	return nil
}

func (s *Store) DeleteLesson(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteLesson"); err != nil {
		return err
	}

	if _, ok := s.lessons[id]; !ok {
		return fmt.Errorf("lesson %q: %w", id, domain.ErrNotFound)
	}
	s.deleteLessonLocked(id)
	return nil
}

// deleteLessonLocked removes a lesson and its resources. Caller holds s.mu.
func (s *Store) deleteLessonLocked(id string) {
	delete(s.lessons, id)
	for rid, r := range s.resources {
		if r.LessonID == id {
			delete(s.resources, rid)
		}
	}
}

func (s *Store) ReorderLessons(ctx context.Context, sectionID string, updates []curriculum.OrderUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ReorderLessons"); err != nil {
		return err
	}

	for _, u := range updates {
		l, ok := s.lessons[u.ID]
		if !ok || l.SectionID != sectionID {
			return fmt.Errorf("lesson %q: %w", u.ID, domain.ErrNotFound)
		}
		l.Order = u.Order
	}
	return nil
}

// --- backend.Transfer ---

func (s *Store) UploadLessonVideo(ctx context.Context, lessonID string, file backend.File, onProgress backend.ProgressFunc) (string, error) {
	s.mu.Lock()
	err := s.enter("UploadLessonVideo")
	_, exists := s.lessons[lessonID]
	s.mu.Unlock()
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("lesson %q: %w", lessonID, domain.ErrNotFound)
	}

	if err := drain(ctx, file, onProgress); err != nil {
		return "", err
	}
	return "/media/videos/" + lessonID + "/" + file.Name, nil
}

func (s *Store) UploadLessonResource(ctx context.Context, lessonID string, file backend.File) (*curriculum.Resource, error) {
	s.mu.Lock()
	err := s.enter("UploadLessonResource")
	_, exists := s.lessons[lessonID]
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("lesson %q: %w", lessonID, domain.ErrNotFound)
	}

	if err := drain(ctx, file, nil); err != nil {
		return nil, err
	}

	r := &curriculum.Resource{
		ID:       uuid.NewString(),
		LessonID: lessonID,
		Title:    file.Name,
		FilePath: "/media/resources/" + lessonID + "/" + file.Name,
		FileSize: file.Size,
		FileType: strings.TrimPrefix(filepath.Ext(file.Name), "."),
	}

	s.mu.Lock()
	s.resources[r.ID] = r
	s.mu.Unlock()

	out := *r
	return &out, nil
}

func (s *Store) DeleteLessonResource(ctx context.Context, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteLessonResource"); err != nil {
		return err
	}

	if _, ok := s.resources[resourceID]; !ok {
		return fmt.Errorf("resource %q: %w", resourceID, domain.ErrNotFound)
	}
	delete(s.resources, resourceID)
	return nil
}

// drain consumes the file content, reporting progress in quarters so
// callers exercise their progress paths.
func drain(ctx context.Context, file backend.File, onProgress backend.ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if file.Content != nil {
		if _, err := io.Copy(io.Discard, file.Content); err != nil {
			return err
		}
	}
	if onProgress != nil {
		for _, p := range []int{25, 50, 75, 100} {
			if err := ctx.Err(); err != nil {
				return err
			}
			onProgress(p)
		}
	}
	return nil
}

// --- backend.Conferencing ---

func (s *Store) AccountTier(ctx context.Context) (backend.Tier, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AccountTier"); err != nil {
		return backend.TierUnknown, err
	}
	return s.tier, nil
}
