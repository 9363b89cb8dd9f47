package content

import (
	"strings"
	"testing"
)

func TestEncodeDecodeVideoRoundTrip(t *testing.T) {
	original := &VideoContent{
		Description:   "Intro walkthrough",
		Source:        VideoSourceUpload,
		VideoFileName: "intro.mp4",
		Duration:      12,
		AllowPreview:  true,
	}

	raw, err := Encode(LessonTypeVideo, original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if !strings.Contains(raw, `"schema":1`) {
		t.Errorf("encoded payload missing schema stamp: %s", raw)
	}

	decoded := DecodeVideo(raw, "", nil)
	if decoded.Description != original.Description {
		t.Errorf("Description = %q, want %q", decoded.Description, original.Description)
	}
	if decoded.Source != VideoSourceUpload {
		t.Errorf("Source = %q, want %q", decoded.Source, VideoSourceUpload)
	}
	if decoded.Duration != 12 {
		t.Errorf("Duration = %d, want 12", decoded.Duration)
	}
	if !decoded.AllowPreview {
		t.Error("AllowPreview = false, want true")
	}
}

func TestEncodeDecodeTextRoundTrip(t *testing.T) {
	original := &TextContent{
		Blocks: []Block{
			{Type: BlockTypeHeading, Text: "Setup", Level: 2},
			{Type: BlockTypeParagraph, Text: "Install the tools."},
			{Type: BlockTypeList, Items: []string{"go", "docker"}},
		},
	}

	raw, err := Encode(LessonTypeText, original)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	decoded := DecodeText(raw)
	if len(decoded.Blocks) != 3 {
		t.Fatalf("len(Blocks) = %d, want 3", len(decoded.Blocks))
	}
	if decoded.Blocks[0].Type != BlockTypeHeading || decoded.Blocks[0].Level != 2 {
		t.Errorf("block[0] = %+v, want heading level 2", decoded.Blocks[0])
	}
	if len(decoded.Blocks[2].Items) != 2 {
		t.Errorf("list items = %v, want 2 entries", decoded.Blocks[2].Items)
	}
}

func TestEncodeRejectsMismatchedPayload(t *testing.T) {
	if _, err := Encode(LessonTypeVideo, &TextContent{}); err == nil {
		t.Error("Encode(video, *TextContent) expected error, got nil")
	}
	if _, err := Encode(LessonType("bogus"), &TextContent{}); err == nil {
		t.Error("Encode(bogus type) expected error, got nil")
	}
}

func TestDecodeVideoNeverFails(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"legacy plain text", "Watch the intro video first"},
		{"truncated json", `{"schema":1,"descri`},
		{"json but not an object", `"just a string"`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeVideo(tt.raw, "", nil)
			if got.Description != tt.raw {
				t.Errorf("Description = %q, want raw input %q", got.Description, tt.raw)
			}
			if got.Source != VideoSourceUpload {
				t.Errorf("Source = %q, want %q", got.Source, VideoSourceUpload)
			}
		})
	}
}

func TestDecodeTextFallbackWrapsPlainText(t *testing.T) {
	got := DecodeText("just some notes")
	if len(got.Blocks) != 1 {
		t.Fatalf("len(Blocks) = %d, want 1", len(got.Blocks))
	}
	if got.Blocks[0].Type != BlockTypeParagraph || got.Blocks[0].Text != "just some notes" {
		t.Errorf("fallback block = %+v, want paragraph with raw text", got.Blocks[0])
	}
}

func TestDecodeVideoPreviewPrecedence(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	raw, err := Encode(LessonTypeVideo, &VideoContent{AllowPreview: true})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	tests := []struct {
		name        string
		raw         string
		freePreview *bool
		want        bool
	}{
		{"dedicated field wins over payload", raw, boolPtr(false), false},
		{"dedicated field true", raw, boolPtr(true), true},
		{"payload used when field absent", raw, nil, true},
		{"neither present defaults false", `{"schema":1}`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeVideo(tt.raw, "", tt.freePreview)
			if got.AllowPreview != tt.want {
				t.Errorf("AllowPreview = %v, want %v", got.AllowPreview, tt.want)
			}
		})
	}
}

func TestDecodeVideoPathOverridesStoredSource(t *testing.T) {
	raw, err := Encode(LessonTypeVideo, &VideoContent{Source: VideoSourceUpload})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	got := DecodeVideo(raw, "https://videos.example.com/v/123", nil)
	if got.Source != VideoSourceURL {
		t.Errorf("Source = %q, want %q", got.Source, VideoSourceURL)
	}
	if got.VideoURL != "https://videos.example.com/v/123" {
		t.Errorf("VideoURL = %q, want file path copied over", got.VideoURL)
	}

	got = DecodeVideo(raw, "/media/videos/123/intro.mp4", nil)
	if got.Source != VideoSourceUpload {
		t.Errorf("Source = %q, want %q", got.Source, VideoSourceUpload)
	}
}

func TestClassifyVideoSource(t *testing.T) {
	tests := []struct {
		path string
		want VideoSource
	}{
		{"https://cdn.example.com/a.mp4", VideoSourceURL},
		{"http://cdn.example.com/a.mp4", VideoSourceURL},
		{"HTTPS://CDN.EXAMPLE.COM/A.MP4", VideoSourceURL},
		{"/media/videos/42/a.mp4", VideoSourceUpload},
		{"httpserver/a.mp4", VideoSourceUpload},
		{"", VideoSourceUpload},
	}

	for _, tt := range tests {
		if got := ClassifyVideoSource(tt.path); got != tt.want {
			t.Errorf("ClassifyVideoSource(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestDecodeLiveFallback(t *testing.T) {
	got := DecodeLive("Live Q&A at noon")
	if got.Description != "Live Q&A at noon" {
		t.Errorf("Description = %q, want raw input", got.Description)
	}
}
