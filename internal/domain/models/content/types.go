package content

import "time"

// LessonType discriminates the five mutually-incompatible lesson content
// variants. The variant payload for each type is serialized into the
// lesson's opaque content_ref field (see codec.go).
type LessonType string

const (
	LessonTypeVideo    LessonType = "video"
	LessonTypeText     LessonType = "text"
	LessonTypeQuiz     LessonType = "quiz"
	LessonTypeLive     LessonType = "live"
	LessonTypeDocument LessonType = "document"
)

// Valid reports whether t is one of the known lesson types.
func (t LessonType) Valid() bool {
	switch t {
	case LessonTypeVideo, LessonTypeText, LessonTypeQuiz, LessonTypeLive, LessonTypeDocument:
		return true
	}
	return false
}

// VideoSource distinguishes a video hosted as an uploaded file from one
// referenced by external URL. There is no stored flag for this; the
// classification of the lesson's file path (ClassifyVideoSource) is the
// single source of truth.
type VideoSource string

const (
	VideoSourceUpload VideoSource = "upload"
	VideoSourceURL    VideoSource = "url"
)

// ResourceRef is the lightweight attachment reference carried inside a
// video payload. The authoritative Resource rows live on the lesson itself;
// these are denormalized for dialog display.
type ResourceRef struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FilePath string `json:"file_path"`
}

// VideoContent is the variant payload for video lessons.
type VideoContent struct {
	Schema        int           `json:"schema"`
	Description   string        `json:"description,omitempty"`
	Source        VideoSource   `json:"video_type"`
	VideoURL      string        `json:"video_url,omitempty"`
	VideoFileName string        `json:"video_file_name,omitempty"`
	Duration      int           `json:"duration,omitempty"`
	AllowPreview  bool          `json:"allow_preview"`
	Resources     []ResourceRef `json:"resources,omitempty"`
}

// Block is one node of the rich-document tree used by text and document
// lessons.
//
// Block types and their fields:
//   - paragraph: text
//   - heading: text, level
//   - list: items
//   - code: text, language
type Block struct {
	Type     string   `json:"type"`
	Text     string   `json:"text,omitempty"`
	Level    int      `json:"level,omitempty"`
	Language string   `json:"language,omitempty"`
	Items    []string `json:"items,omitempty"`
}

// Block type constants
const (
	BlockTypeParagraph = "paragraph"
	BlockTypeHeading   = "heading"
	BlockTypeList      = "list"
	BlockTypeCode      = "code"
)

// TextContent is the variant payload for text lessons. Document lessons
// share the same block tree.
type TextContent struct {
	Schema int     `json:"schema"`
	Blocks []Block `json:"blocks"`
}

// DocumentContent is the variant payload for generic document lessons.
type DocumentContent = TextContent

// LiveContent is the variant payload for live-session lessons.
type LiveContent struct {
	Schema      int        `json:"schema"`
	Description string     `json:"description,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	JoinURL     string     `json:"join_url,omitempty"`
}

// QuizContent is the variant payload for quiz lessons. The quiz builder has
// not shipped; this carries only the description shell so quiz lessons
// round-trip through the same storage shape as every other type.
type QuizContent struct {
	Schema      int    `json:"schema"`
	Description string `json:"description,omitempty"`
}

// TextFromPlain wraps plain text as a single paragraph block. Used when the
// editor produced no structured content, and as the decode fallback for
// malformed or legacy payloads.
func TextFromPlain(text string) TextContent {
	return TextContent{
		Schema: SchemaVersion,
		Blocks: []Block{{Type: BlockTypeParagraph, Text: text}},
	}
}
