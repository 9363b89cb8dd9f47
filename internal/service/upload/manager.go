// Package upload drives file-transfer sessions for lessons and their
// resources: one live transfer per entity, progress reporting, guarded
// cancellation, and replace-with-undo for already-committed files.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"coursedesk/internal/config"
	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/curriculum"
)

// Status is the lifecycle state of one transfer.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusComplete   Status = "complete"
	StatusCancelled  Status = "cancelled"
	StatusFailed     Status = "failed"
)

// Task is the transient, externally visible state of one transfer. It
// exists only while the transfer runs; terminal transfers disappear from
// the progress map.
type Task struct {
	EntityID   string `json:"entity_id"`
	FileName   string `json:"file_name"`
	BytesTotal int64  `json:"bytes_total"`
	BytesSent  int64  `json:"bytes_sent"`
	Percent    int    `json:"percent"`
	Status     Status `json:"status"`
}

type session struct {
	task   Task
	cancel context.CancelFunc
}

// Manager coordinates transfers through the external transfer primitive.
type Manager struct {
	transfer backend.Transfer
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
	// replacing stashes the committed file reference per entity while the
	// user picks a replacement, so cancelling the picker can undo.
	replacing map[string]string
}

// NewManager creates an upload manager.
func NewManager(transfer backend.Transfer, logger *slog.Logger) *Manager {
	return &Manager{
		transfer:  transfer,
		logger:    logger,
		sessions:  make(map[string]*session),
		replacing: make(map[string]string),
	}
}

// UploadVideo transfers a lesson video and returns the server-assigned file
// path. The lesson must already have a durable id; callers create the
// lesson row first. Completion here is not persistence: the caller still
// has to store the returned path on the lesson.
func (m *Manager) UploadVideo(ctx context.Context, lessonID string, file backend.File) (string, error) {
	if lessonID == "" {
		return "", &domain.ValidationError{Fields: map[string]string{
			"lesson": "lesson must be created before its video can be attached",
		}}
	}
	if file.Size > config.MaxVideoFileSize {
		return "", &domain.ValidationError{Fields: map[string]string{
			"video": "file exceeds the 500MB video limit",
		}}
	}

	ctx, done, err := m.begin(ctx, lessonID, file)
	if err != nil {
		return "", err
	}

	path, err := m.transfer.UploadLessonVideo(ctx, lessonID, file, func(percent int) {
		m.progress(lessonID, percent)
	})
	done(err)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", &domain.TransferError{EntityID: lessonID, Err: err}
	}

	m.logger.Info("video uploaded", "lesson_id", lessonID, "file", file.Name, "path", path)
	return path, nil
}

// UploadResource transfers one lesson attachment.
func (m *Manager) UploadResource(ctx context.Context, lessonID string, file backend.File) (*curriculum.Resource, error) {
	if lessonID == "" {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"lesson": "lesson must be created before resources can be attached",
		}}
	}
	if file.Size > config.MaxResourceFileSize {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"resource": fmt.Sprintf("%s exceeds the 50MB resource limit", file.Name),
		}}
	}

	res, err := m.transfer.UploadLessonResource(ctx, lessonID, file)
	if err != nil {
		return nil, &domain.TransferError{EntityID: lessonID, Err: err}
	}

	m.logger.Info("resource uploaded", "lesson_id", lessonID, "file", file.Name, "resource_id", res.ID)
	return res, nil
}

// DeleteResource removes a persisted attachment through the transfer
// primitive. Irreversible once the backend confirms it.
func (m *Manager) DeleteResource(ctx context.Context, resourceID string) error {
	if err := m.transfer.DeleteLessonResource(ctx, resourceID); err != nil {
		return err
	}
	m.logger.Info("resource deleted", "resource_id", resourceID)
	return nil
}

// begin registers a session for the entity. At most one transfer per entity
// may be live at a time.
func (m *Manager) begin(ctx context.Context, entityID string, file backend.File) (context.Context, func(error), error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[entityID]; exists {
		return nil, nil, fmt.Errorf("transfer for %s: %w", entityID, domain.ErrConflict)
	}

	ctx, cancel := context.WithCancel(ctx)
	m.sessions[entityID] = &session{
		task: Task{
			EntityID:   entityID,
			FileName:   file.Name,
			BytesTotal: file.Size,
			Status:     StatusPending,
		},
		cancel: cancel,
	}

	done := func(err error) {
		m.mu.Lock()
		delete(m.sessions, entityID)
		m.mu.Unlock()
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, context.Canceled):
			m.logger.Info("transfer cancelled", "entity_id", entityID)
		default:
			m.logger.Error("transfer failed", "entity_id", entityID, "error", err)
		}
	}
	return ctx, done, nil
}

// progress records a progress report. Percentages only move forward; stale
// or duplicate reports are dropped.
func (m *Manager) progress(entityID string, percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[entityID]
	if !ok {
		return
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if percent <= s.task.Percent && s.task.Status != StatusPending {
		return
	}
	s.task.Status = StatusInProgress
	s.task.Percent = percent
	if s.task.BytesTotal > 0 {
		s.task.BytesSent = s.task.BytesTotal * int64(percent) / 100
	}
}

// Cancel requests cancellation of the entity's live transfer. A transfer
// strictly between 0% and 100% requires explicit user confirmation; at the
// boundaries the cancel proceeds immediately. The first return value
// reports whether confirmation is still needed.
func (m *Manager) Cancel(entityID string, confirmed bool) (bool, error) {
	m.mu.Lock()
	s, ok := m.sessions[entityID]
	if !ok {
		m.mu.Unlock()
		return false, fmt.Errorf("transfer for %s: %w", entityID, domain.ErrNotFound)
	}
	pct := s.task.Percent
	if pct > 0 && pct < 100 && !confirmed {
		m.mu.Unlock()
		return true, nil
	}
	s.task.Status = StatusCancelled
	cancel := s.cancel
	m.mu.Unlock()

	cancel()
	return false, nil
}

// Progress returns a snapshot of all live transfers keyed by entity id.
func (m *Manager) Progress() map[string]Task {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]Task, len(m.sessions))
	for id, s := range m.sessions {
		out[id] = s.task
	}
	return out
}
