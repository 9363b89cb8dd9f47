package curriculum

import (
	"context"
	"fmt"

	"coursedesk/internal/domain"
	models "coursedesk/internal/domain/models/curriculum"
	"coursedesk/internal/notify"
)

// ReorderSections converts a drag-produced permutation into a persisted
// order. Local orders are relabelled synchronously first; the batch payload
// is then built from the container state (never from a caller-captured
// snapshot) and sent as one request. Failure discards all optimistic state
// via a full reload, because partial success of a batch reorder cannot be
// safely inferred from the client.
func (s *Store) ReorderSections(ctx context.Context, orderedIDs []string) error {
	s.mu.Lock()
	if err := s.applySectionOrderLocked(orderedIDs); err != nil {
		s.mu.Unlock()
		return err
	}
	courseID := s.courseID
	payload := make([]models.OrderUpdate, len(s.sections))
	for i := range s.sections {
		payload[i] = models.OrderUpdate{ID: s.sections[i].ID, Order: s.sections[i].Order}
	}
	s.mu.Unlock()

	if err := s.backend.ReorderSections(ctx, courseID, payload); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to reorder sections")
		s.reloadAfterFailure(ctx)
		return &domain.PersistenceError{Op: "reorder sections", Err: err}
	}

	s.logger.Info("sections reordered", "course_id", courseID, "count", len(payload))
	s.notifier.Notify(notify.LevelSuccess, "Sections reordered")
	return nil
}

// ReorderLessons persists a permutation of one section's lessons. Reorders
// of different sections are independent and may be in flight simultaneously.
func (s *Store) ReorderLessons(ctx context.Context, sectionID string, orderedIDs []string) error {
	s.mu.Lock()
	idx := s.sectionIndexLocked(sectionID)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("section %q: %w", sectionID, domain.ErrNotFound)
	}
	if err := applyLessonOrder(&s.sections[idx], orderedIDs); err != nil {
		s.mu.Unlock()
		return err
	}
	lessons := s.sections[idx].Lessons
	payload := make([]models.OrderUpdate, len(lessons))
	for i := range lessons {
		payload[i] = models.OrderUpdate{ID: lessons[i].ID, Order: lessons[i].Order}
	}
	s.mu.Unlock()

	if err := s.backend.ReorderLessons(ctx, sectionID, payload); err != nil {
		s.notifier.Notify(notify.LevelError, "Failed to reorder lessons")
		s.reloadAfterFailure(ctx)
		return &domain.PersistenceError{Op: "reorder lessons", Err: err}
	}

	s.logger.Info("lessons reordered", "section_id", sectionID, "count", len(payload))
	s.notifier.Notify(notify.LevelSuccess, "Lessons reordered")
	return nil
}

// applySectionOrderLocked rearranges sections to match orderedIDs and
// relabels Order as 1-based position. The id list must be a complete
// permutation of the current sections. Caller holds s.mu.
func (s *Store) applySectionOrderLocked(orderedIDs []string) error {
	if len(orderedIDs) != len(s.sections) {
		return reorderMismatch("sections")
	}

	byID := make(map[string]models.Section, len(s.sections))
	for _, sec := range s.sections {
		byID[sec.ID] = sec
	}

	next := make([]models.Section, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		sec, ok := byID[id]
		if !ok {
			return reorderMismatch("sections")
		}
		delete(byID, id)
		next = append(next, sec)
	}

	s.sections = next
	s.renumberSectionsLocked()
	return nil
}

// applyLessonOrder rearranges a section's lessons to match orderedIDs.
func applyLessonOrder(sec *models.Section, orderedIDs []string) error {
	if len(orderedIDs) != len(sec.Lessons) {
		return reorderMismatch("lessons")
	}

	byID := make(map[string]models.Lesson, len(sec.Lessons))
	for _, l := range sec.Lessons {
		byID[l.ID] = l
	}

	next := make([]models.Lesson, 0, len(orderedIDs))
	for _, id := range orderedIDs {
		l, ok := byID[id]
		if !ok {
			return reorderMismatch("lessons")
		}
		delete(byID, id)
		next = append(next, l)
	}

	sec.Lessons = next
	renumberLessons(sec.Lessons)
	return nil
}

func reorderMismatch(what string) error {
	return &domain.ValidationError{Fields: map[string]string{
		"order": fmt.Sprintf("reorder list does not match the current %s", what),
	}}
}
