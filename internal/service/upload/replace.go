package upload

import (
	"fmt"

	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
)

// BeginReplace stashes the entity's committed file reference before the
// user picks a replacement. The committed reference stays authoritative
// until a valid new file is actually selected.
func (m *Manager) BeginReplace(entityID, committed string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replacing[entityID] = committed
}

// ResolveReplace finalizes a replace flow and returns the reference the
// entity should keep right now.
//
// selected == nil means the file picker was cancelled: the stashed
// reference is restored exactly. A selected file over the size ceiling is
// rejected with a ValidationError and the stash is restored as well - an
// invalid file never displaces a valid committed one. Only a valid
// selection (accepted == true) clears the committed reference; the caller
// then runs the actual upload.
func (m *Manager) ResolveReplace(entityID string, selected *backend.File, limit int64) (committed string, accepted bool, err error) {
	m.mu.Lock()
	previous, ok := m.replacing[entityID]
	delete(m.replacing, entityID)
	m.mu.Unlock()

	if !ok {
		return "", false, fmt.Errorf("replace for %s: %w", entityID, domain.ErrNotFound)
	}

	if selected == nil {
		m.logger.Info("replace cancelled", "entity_id", entityID)
		return previous, false, nil
	}

	if selected.Size > limit {
		m.logger.Warn("replacement rejected",
			"entity_id", entityID,
			"file", selected.Name,
			"size", selected.Size,
			"limit", limit,
		)
		return previous, false, &domain.ValidationError{Fields: map[string]string{
			"file": fmt.Sprintf("%s exceeds the size limit", selected.Name),
		}}
	}

	return previous, true, nil
}
