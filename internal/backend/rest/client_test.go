package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"coursedesk/internal/domain"
	"coursedesk/internal/domain/backend"
	"coursedesk/internal/domain/models/curriculum"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReorderSectionsPayloadShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]json.RawMessage

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", testLogger())
	err := c.ReorderSections(context.Background(), "course-1", []curriculum.OrderUpdate{
		{ID: "sec-b", Order: 1},
		{ID: "sec-a", Order: 2},
	})
	if err != nil {
		t.Fatalf("ReorderSections() error = %v", err)
	}

	if gotPath != "/api/courses/course-1/sections/reorder" {
		t.Errorf("path = %q, want /api/courses/course-1/sections/reorder", gotPath)
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}

	var orders []curriculum.OrderUpdate
	raw, ok := gotBody["orders"]
	if !ok {
		t.Fatalf(`body = %v, want an "orders" key`, gotBody)
	}
	if err := json.Unmarshal(raw, &orders); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(orders) != 2 || orders[0].ID != "sec-b" || orders[0].Order != 1 {
		t.Errorf("orders = %+v, want [{sec-b 1} {sec-a 2}]", orders)
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testLogger())
	err := c.DeleteLesson(context.Background(), "nope")

	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestErrorIncludesStatusAndBodyExcerpt(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		io.WriteString(w, `{"detail":"upstream exploded"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testLogger())
	err := c.DeleteSection(context.Background(), "sec-1")
	if err == nil {
		t.Fatal("error = nil, want failure")
	}
	if !strings.Contains(err.Error(), "502") || !strings.Contains(err.Error(), "upstream exploded") {
		t.Errorf("error = %q, want status and body excerpt", err)
	}
}

func TestCreateSectionFillsAssignedID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sec curriculum.Section
		if err := json.NewDecoder(r.Body).Decode(&sec); err != nil {
			t.Errorf("decode request: %v", err)
		}
		sec.ID = "sec-42"
		json.NewEncoder(w).Encode(sec)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testLogger())
	section := curriculum.Section{CourseID: "course-1", Title: "Basics", Order: 1}
	if err := c.CreateSection(context.Background(), &section); err != nil {
		t.Fatalf("CreateSection() error = %v", err)
	}

	if section.ID != "sec-42" {
		t.Errorf("section.ID = %q, want server-assigned sec-42", section.ID)
	}
	if section.Title != "Basics" {
		t.Errorf("section.Title = %q, want Basics", section.Title)
	}
}

func TestUploadLessonVideoStreamsMultipartWithProgress(t *testing.T) {
	payload := strings.Repeat("x", 10_000)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mr, err := r.MultipartReader()
		if err != nil {
			t.Errorf("MultipartReader: %v", err)
			return
		}
		part, err := mr.NextPart()
		if err != nil {
			t.Errorf("NextPart: %v", err)
			return
		}
		if part.FormName() != "file" {
			t.Errorf("form name = %q, want file", part.FormName())
		}
		if part.FileName() != "intro.mp4" {
			t.Errorf("file name = %q, want intro.mp4", part.FileName())
		}
		data, _ := io.ReadAll(part)
		if len(data) != len(payload) {
			t.Errorf("received %d bytes, want %d", len(data), len(payload))
		}
		json.NewEncoder(w).Encode(map[string]string{"file_path": "/media/videos/l1/intro.mp4"})
	}))
	defer srv.Close()

	var reported []int
	c := NewClient(srv.URL, "", testLogger())
	path, err := c.UploadLessonVideo(context.Background(), "l1",
		backend.File{Name: "intro.mp4", Size: int64(len(payload)), Content: strings.NewReader(payload)},
		func(pct int) { reported = append(reported, pct) },
	)
	if err != nil {
		t.Fatalf("UploadLessonVideo() error = %v", err)
	}
	if path != "/media/videos/l1/intro.mp4" {
		t.Errorf("path = %q, want server-assigned path", path)
	}

	if len(reported) == 0 {
		t.Fatal("no progress reported")
	}
	last := 0
	for _, pct := range reported {
		if pct <= last {
			t.Fatalf("progress not strictly increasing: %v", reported)
		}
		last = pct
	}
	if last != 100 {
		t.Errorf("final progress = %d, want 100", last)
	}
}

func TestUploadLessonResourceDecodesRow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.MultipartReader(); err != nil {
			t.Errorf("MultipartReader: %v", err)
		}
		json.NewEncoder(w).Encode(curriculum.Resource{
			ID:       "res-1",
			LessonID: "l1",
			Title:    "notes.pdf",
			FilePath: "/media/resources/l1/notes.pdf",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testLogger())
	res, err := c.UploadLessonResource(context.Background(), "l1",
		backend.File{Name: "notes.pdf", Size: 4, Content: strings.NewReader("abcd")})
	if err != nil {
		t.Fatalf("UploadLessonResource() error = %v", err)
	}
	if res.ID != "res-1" || res.FilePath != "/media/resources/l1/notes.pdf" {
		t.Errorf("resource = %+v, want decoded server row", res)
	}
}

func TestAccountTier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/integrations/conferencing/account" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"tier": "pro"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", testLogger())
	tier, err := c.AccountTier(context.Background())
	if err != nil {
		t.Fatalf("AccountTier() error = %v", err)
	}
	if tier != backend.TierPro {
		t.Errorf("tier = %q, want pro", tier)
	}
}

func TestProgressReaderCapsAtHundred(t *testing.T) {
	// Declared size smaller than actual content: progress must cap at 100.
	var reported []int
	p := &progressReader{
		r:          strings.NewReader("0123456789"),
		total:      5,
		onProgress: func(pct int) { reported = append(reported, pct) },
	}

	if _, err := io.Copy(io.Discard, p); err != nil {
		t.Fatalf("copy error = %v", err)
	}
	for _, pct := range reported {
		if pct > 100 {
			t.Errorf("reported %d, want cap at 100", pct)
		}
	}
}
