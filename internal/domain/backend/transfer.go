package backend

import (
	"context"
	"io"

	"coursedesk/internal/domain/models/curriculum"
)

// File is a file selected by the user for upload.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// ProgressFunc receives transfer progress as an integer percentage. Callers
// may assume monotonically non-decreasing values; 100 signals the transfer
// completed but says nothing about metadata persistence.
type ProgressFunc func(percent int)

// Transfer is the external file-transfer primitive. A transfer may only be
// started for an entity that already has a durable id.
type Transfer interface {
	// UploadLessonVideo streams the file and returns the server-assigned
	// file path. The caller must store that path on the lesson afterwards;
	// upload completion and metadata persistence are two distinct steps.
	UploadLessonVideo(ctx context.Context, lessonID string, file File, onProgress ProgressFunc) (string, error)

	// UploadLessonResource uploads an attachment and returns the created
	// resource row.
	UploadLessonResource(ctx context.Context, lessonID string, file File) (*curriculum.Resource, error)

	// DeleteLessonResource removes an attachment by id.
	DeleteLessonResource(ctx context.Context, resourceID string) error
}
