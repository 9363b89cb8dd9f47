package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface enables extensible error handling in the
// handler layer without type switches on concrete types.
type HTTPError interface {
	error
	StatusCode() int
}

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// ValidationError is a local, pre-network failure scoped to individual
// fields. It blocks submission; nothing carrying a ValidationError ever
// reaches the backend.
type ValidationError struct {
	Fields map[string]string // field name -> human-readable message
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// Is allows errors.Is() to match against ErrValidation
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// TransferError indicates a file transfer (or its follow-up metadata update)
// failed mid-flight. It is scoped to the owning entity and non-fatal to the
// persisted record: the last successfully stored file path stays authoritative.
type TransferError struct {
	EntityID string
	Err      error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer failed for %s: %v", e.EntityID, e.Err)
}

func (e *TransferError) Unwrap() error   { return e.Err }
func (e *TransferError) StatusCode() int { return http.StatusBadGateway }

// PersistenceError indicates a CRUD or reorder call against the backend
// failed. The client cannot know which part of a batch mutation landed, so
// this class triggers an authoritative full reload rather than local patch-up.
type PersistenceError struct {
	Op  string // operation name, e.g. "reorder sections"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error   { return e.Err }
func (e *PersistenceError) StatusCode() int { return http.StatusBadGateway }

// BatchFailure records one failed item of an independent batch operation.
type BatchFailure struct {
	ItemID string
	Err    error
}

// PartialBatchError aggregates failures from a batch of independent resource
// operations. Remaining items are still attempted; the aggregate is reported
// once at the end.
type PartialBatchError struct {
	Failures []BatchFailure
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("%d of batch operations failed", len(e.Failures))
}

func (e *PartialBatchError) StatusCode() int { return http.StatusMultiStatus }
