package curriculum

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"coursedesk/internal/backend/memory"
	"coursedesk/internal/domain"
	models "coursedesk/internal/domain/models/curriculum"
	svc "coursedesk/internal/domain/services/curriculum"
	"coursedesk/internal/httputil"
	"coursedesk/internal/notify"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) (*Store, *memory.Store) {
	t.Helper()
	mem := memory.New()
	feed := notify.NewFeed(testLogger())
	return NewStore(mem, feed, testLogger()), mem
}

// seedSections creates a draft course and n sections, returning their ids
// in order.
func seedSections(t *testing.T, store *Store, titles ...string) []string {
	t.Helper()
	ctx := context.Background()

	if _, err := store.EnsureCourse(ctx); err != nil {
		t.Fatalf("EnsureCourse() error = %v", err)
	}
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		sec, err := store.AddSection(ctx, &svc.AddSectionRequest{Title: title})
		if err != nil {
			t.Fatalf("AddSection(%q) error = %v", title, err)
		}
		ids = append(ids, sec.ID)
	}
	return ids
}

func sectionOrders(sections []models.Section) []int {
	out := make([]int, len(sections))
	for i, sec := range sections {
		out[i] = sec.Order
	}
	return out
}

func TestFirstSectionOfEmptyCourseGetsOrderOne(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.EnsureCourse(ctx); err != nil {
		t.Fatalf("EnsureCourse() error = %v", err)
	}
	sec, err := store.AddSection(ctx, &svc.AddSectionRequest{Title: "Getting Started"})
	if err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}

	if sec.Order != 1 {
		t.Errorf("first section Order = %d, want 1", sec.Order)
	}
	if sec.ID == "" {
		t.Error("section has no id after create")
	}

	snap := store.Snapshot()
	if len(snap) != 1 || snap[0].Order != 1 {
		t.Errorf("snapshot = %+v, want one section with order 1", snap)
	}
}

func TestAddSectionKeepsOrdersContiguous(t *testing.T) {
	store, _ := newTestStore(t)
	seedSections(t, store, "One", "Two", "Three")

	got := sectionOrders(store.Snapshot())
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section orders = %v, want %v", got, want)
		}
	}
}

func TestEnsureCourseIsIdempotent(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	first, err := store.EnsureCourse(ctx)
	if err != nil {
		t.Fatalf("EnsureCourse() error = %v", err)
	}
	second, err := store.EnsureCourse(ctx)
	if err != nil {
		t.Fatalf("second EnsureCourse() error = %v", err)
	}

	if first != second {
		t.Errorf("course ids differ: %q vs %q", first, second)
	}
	if calls := mem.Calls("CreateDraftCourse"); calls != 1 {
		t.Errorf("CreateDraftCourse called %d times, want 1", calls)
	}
}

func TestAddSectionRequiresCourse(t *testing.T) {
	store, mem := newTestStore(t)

	_, err := store.AddSection(context.Background(), &svc.AddSectionRequest{Title: "Orphan"})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if mem.Calls("CreateSection") != 0 {
		t.Error("CreateSection reached the backend without a course")
	}
}

func TestAddSectionValidatesTitle(t *testing.T) {
	store, mem := newTestStore(t)
	seedSections(t, store)

	_, err := store.AddSection(context.Background(), &svc.AddSectionRequest{Title: ""})

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := vErr.Fields["title"]; !ok {
		t.Errorf("ValidationError.Fields = %v, want a title entry", vErr.Fields)
	}
	if mem.Calls("CreateSection") != 0 {
		t.Error("invalid title reached the backend")
	}
}

func TestHydrateDegradesFailedSectionToEmptyLessons(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "A", "B")

	for _, id := range ids {
		lesson := models.Lesson{SectionID: id, Title: "L", Type: "text", Order: 1}
		if err := mem.CreateLesson(ctx, &lesson); err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}

	mem.FailNext("ListLessons", errors.New("backend down"))

	if err := store.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v, want degradation instead of failure", err)
	}

	snap := store.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(snap))
	}
	empty := 0
	for _, sec := range snap {
		if len(sec.Lessons) == 0 {
			empty++
		}
	}
	if empty != 1 {
		t.Errorf("%d sections degraded to empty lessons, want exactly 1", empty)
	}
}

func TestHydrateFailureWhenSectionsUnavailable(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	seedSections(t, store, "A")

	mem.FailNext("ListSections", errors.New("backend down"))

	err := store.Reload(ctx)
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("Reload() error = %v, want PersistenceError", err)
	}
}

func TestDeleteSectionRenumbersSiblings(t *testing.T) {
	store, _ := newTestStore(t)
	ids := seedSections(t, store, "A", "B", "C")

	if err := store.DeleteSection(context.Background(), ids[1]); err != nil {
		t.Fatalf("DeleteSection() error = %v", err)
	}

	snap := store.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(snap))
	}
	if snap[0].Title != "A" || snap[1].Title != "C" {
		t.Errorf("remaining sections = %q, %q; want A, C", snap[0].Title, snap[1].Title)
	}
	got := sectionOrders(snap)
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("orders after delete = %v, want [1 2]", got)
	}
}

func TestDeleteSectionBackendFailureTriggersReload(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "A", "B")

	listCallsBefore := mem.Calls("ListSections")
	mem.FailNext("DeleteSection", errors.New("backend down"))

	err := store.DeleteSection(ctx, ids[0])
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}

	// The reload restored the optimistically removed section.
	snap := store.Snapshot()
	if len(snap) != 2 {
		t.Errorf("len(sections) after failed delete = %d, want 2 (restored)", len(snap))
	}
	if mem.Calls("ListSections") <= listCallsBefore {
		t.Error("no authoritative reload happened after the persistence failure")
	}
}

func TestDeleteLessonRenumbersAndPersists(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "A")

	for i, title := range []string{"L1", "L2", "L3"} {
		lesson := models.Lesson{SectionID: ids[0], Title: title, Type: "text", Order: i + 1}
		if err := mem.CreateLesson(ctx, &lesson); err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}
	if err := store.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	snap := store.Snapshot()
	target := snap[0].Lessons[1].ID
	if err := store.DeleteLesson(ctx, target); err != nil {
		t.Fatalf("DeleteLesson() error = %v", err)
	}

	snap = store.Snapshot()
	lessons := snap[0].Lessons
	if len(lessons) != 2 {
		t.Fatalf("len(lessons) = %d, want 2", len(lessons))
	}
	if lessons[0].Order != 1 || lessons[1].Order != 2 {
		t.Errorf("lesson orders = [%d %d], want [1 2]", lessons[0].Order, lessons[1].Order)
	}
	if lessons[0].Title != "L1" || lessons[1].Title != "L3" {
		t.Errorf("remaining lessons = %q, %q; want L1, L3", lessons[0].Title, lessons[1].Title)
	}
}

func TestDeleteLessonNotFound(t *testing.T) {
	store, _ := newTestStore(t)
	seedSections(t, store, "A")

	if err := store.DeleteLesson(context.Background(), "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestUpdateSectionPartialPatch(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "Old Title")

	newTitle := "New Title"
	published := true
	sec, err := store.UpdateSection(ctx, ids[0], &svc.UpdateSectionRequest{
		Title:       &newTitle,
		IsPublished: &published,
	})
	if err != nil {
		t.Fatalf("UpdateSection() error = %v", err)
	}

	if sec.Title != "New Title" {
		t.Errorf("Title = %q, want New Title", sec.Title)
	}
	if !sec.IsPublished {
		t.Error("IsPublished = false, want true")
	}
}

func TestUpdateSectionClearsDescriptionOnNull(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := store.EnsureCourse(ctx); err != nil {
		t.Fatalf("EnsureCourse() error = %v", err)
	}
	sec, err := store.AddSection(ctx, &svc.AddSectionRequest{Title: "A", Description: "temp notes"})
	if err != nil {
		t.Fatalf("AddSection() error = %v", err)
	}

	// Absent field leaves the description alone.
	updated, err := store.UpdateSection(ctx, sec.ID, &svc.UpdateSectionRequest{})
	if err != nil {
		t.Fatalf("UpdateSection() error = %v", err)
	}
	if updated.Description != "temp notes" {
		t.Errorf("Description after absent patch = %q, want unchanged", updated.Description)
	}

	// Explicit null clears it.
	updated, err = store.UpdateSection(ctx, sec.ID, &svc.UpdateSectionRequest{
		Description: httputil.OptionalString{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateSection() error = %v", err)
	}
	if updated.Description != "" {
		t.Errorf("Description after null patch = %q, want empty", updated.Description)
	}
}

func TestHydrateRenumbersGappedBackendOrders(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()

	course, err := mem.CreateDraftCourse(ctx)
	if err != nil {
		t.Fatalf("CreateDraftCourse() error = %v", err)
	}
	// A server-side partial failure can leave gaps; the store must not
	// carry them into the session.
	var firstID string
	for i, order := range []int{1, 3, 5} {
		sec := models.Section{CourseID: course.ID, Title: []string{"A", "B", "C"}[i], Order: order}
		if err := mem.CreateSection(ctx, &sec); err != nil {
			t.Fatalf("seed section: %v", err)
		}
		if i == 0 {
			firstID = sec.ID
		}
	}
	for _, order := range []int{2, 4} {
		lesson := models.Lesson{SectionID: firstID, Title: "L", Type: "text", Order: order}
		if err := mem.CreateLesson(ctx, &lesson); err != nil {
			t.Fatalf("seed lesson: %v", err)
		}
	}

	if err := store.Hydrate(ctx, course.ID); err != nil {
		t.Fatalf("Hydrate() error = %v", err)
	}

	snap := store.Snapshot()
	got := sectionOrders(snap)
	want := []int{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section orders = %v, want %v", got, want)
		}
	}
	if snap[0].Title != "A" || snap[1].Title != "B" || snap[2].Title != "C" {
		t.Errorf("section titles = %q %q %q, want backend order preserved", snap[0].Title, snap[1].Title, snap[2].Title)
	}
	lessons := snap[0].Lessons
	if len(lessons) != 2 || lessons[0].Order != 1 || lessons[1].Order != 2 {
		t.Errorf("lesson orders = %+v, want [1 2]", lessons)
	}
}

func TestSnapshotDoesNotAliasStoreState(t *testing.T) {
	store, _ := newTestStore(t)
	seedSections(t, store, "A")

	snap := store.Snapshot()
	snap[0].Title = "mutated"

	if store.Snapshot()[0].Title != "A" {
		t.Error("mutating a snapshot leaked into the store")
	}
}
