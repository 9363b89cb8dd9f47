package curriculum

import (
	"time"

	"coursedesk/internal/domain/models/content"
)

// Lesson is a single unit of content of one of five variant types.
//
// ContentRef is the opaque serialized payload carrying type-specific fields
// (see the content package). FilePath is overloaded: for video lessons it
// holds either an uploaded-file path or an external URL, disambiguated by
// scheme prefix; text and document lessons carry their body in ContentRef,
// not FilePath.
//
// IsFreePreview is a pointer because legacy rows may lack the column while
// still carrying an allow_preview key inside ContentRef; the dedicated field
// takes precedence when present.
type Lesson struct {
	ID              string             `json:"id"`
	SectionID       string             `json:"section_id"`
	Title           string             `json:"title"`
	Type            content.LessonType `json:"type"`
	Order           int                `json:"order"`
	DurationMinutes int                `json:"duration_minutes,omitempty"`
	IsFreePreview   *bool              `json:"is_free_preview,omitempty"`
	ContentRef      string             `json:"content_ref"`
	FilePath        string             `json:"file_path,omitempty"`
	Resources       []Resource         `json:"resources"`
	StartTime       *time.Time         `json:"start_time,omitempty"`
}

// FreePreview resolves the dedicated field against absence: nil means false.
// Payload-level reconciliation happens in content.DecodeVideo.
func (l *Lesson) FreePreview() bool {
	return l.IsFreePreview != nil && *l.IsFreePreview
}

// Clone returns a deep copy of the lesson.
func (l Lesson) Clone() Lesson {
	out := l
	if l.IsFreePreview != nil {
		v := *l.IsFreePreview
		out.IsFreePreview = &v
	}
	if l.StartTime != nil {
		t := *l.StartTime
		out.StartTime = &t
	}
	out.Resources = make([]Resource, len(l.Resources))
	copy(out.Resources, l.Resources)
	return out
}
