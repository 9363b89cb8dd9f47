package content

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SchemaVersion is stamped into every encoded payload so future shape
// changes can be migrated on read.
const SchemaVersion = 1

// Encode serializes a variant payload to the opaque content_ref string.
// The payload must match the lesson type: *VideoContent for video,
// *TextContent for text/document, *LiveContent for live, *QuizContent for
// quiz. Pure function, no I/O.
func Encode(t LessonType, payload any) (string, error) {
	switch t {
	case LessonTypeVideo:
		c, ok := payload.(*VideoContent)
		if !ok {
			return "", fmt.Errorf("encode %s: expected *VideoContent, got %T", t, payload)
		}
		c.Schema = SchemaVersion
		return marshal(c)
	case LessonTypeText, LessonTypeDocument:
		c, ok := payload.(*TextContent)
		if !ok {
			return "", fmt.Errorf("encode %s: expected *TextContent, got %T", t, payload)
		}
		c.Schema = SchemaVersion
		return marshal(c)
	case LessonTypeLive:
		c, ok := payload.(*LiveContent)
		if !ok {
			return "", fmt.Errorf("encode %s: expected *LiveContent, got %T", t, payload)
		}
		c.Schema = SchemaVersion
		return marshal(c)
	case LessonTypeQuiz:
		c, ok := payload.(*QuizContent)
		if !ok {
			return "", fmt.Errorf("encode %s: expected *QuizContent, got %T", t, payload)
		}
		c.Schema = SchemaVersion
		return marshal(c)
	default:
		return "", fmt.Errorf("encode: unknown lesson type %q", t)
	}
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeVideo deserializes a video payload. Decoding never fails: malformed
// or legacy input degrades to a payload whose description is the raw string.
//
// Two reconciliations happen here:
//   - preview flag: the lesson's dedicated is_free_preview field wins when
//     present, else the allow_preview key inside the payload, else false.
//   - video source: a file path with an http(s):// scheme means the lesson
//     resumes into the external-URL branch, anything else means uploaded
//     file. The path classification overrides whatever the payload stored.
func DecodeVideo(raw, filePath string, freePreview *bool) VideoContent {
	var c VideoContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil || !looksStructured(raw) {
		c = VideoContent{Schema: SchemaVersion, Description: raw, Source: VideoSourceUpload}
	}
	if freePreview != nil {
		c.AllowPreview = *freePreview
	}
	if filePath != "" {
		c.Source = ClassifyVideoSource(filePath)
		if c.Source == VideoSourceURL {
			c.VideoURL = filePath
		}
	}
	if c.Source == "" {
		c.Source = VideoSourceUpload
	}
	return c
}

// DecodeText deserializes a text or document payload. Malformed or legacy
// input degrades to a single-paragraph plain-text representation.
func DecodeText(raw string) TextContent {
	var c TextContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil || !looksStructured(raw) {
		return TextFromPlain(raw)
	}
	if c.Blocks == nil {
		c.Blocks = []Block{}
	}
	return c
}

// DecodeLive deserializes a live-session payload with the same plain-text
// degradation as the other variants.
func DecodeLive(raw string) LiveContent {
	var c LiveContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil || !looksStructured(raw) {
		return LiveContent{Schema: SchemaVersion, Description: raw}
	}
	return c
}

// DecodeQuiz deserializes a quiz payload.
func DecodeQuiz(raw string) QuizContent {
	var c QuizContent
	if err := json.Unmarshal([]byte(raw), &c); err != nil || !looksStructured(raw) {
		return QuizContent{Schema: SchemaVersion, Description: raw}
	}
	return c
}

// looksStructured guards against inputs that json.Unmarshal accepts but that
// are not payload objects (bare strings, numbers, legacy plain text). Only a
// JSON object is treated as a structured payload.
func looksStructured(raw string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), "{")
}

// ClassifyVideoSource reports whether a lesson's stored file path is an
// external URL or an uploaded-file path. http:// and https:// schemes mean
// external; everything else is an uploaded file.
func ClassifyVideoSource(filePath string) VideoSource {
	lower := strings.ToLower(filePath)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return VideoSourceURL
	}
	return VideoSourceUpload
}
