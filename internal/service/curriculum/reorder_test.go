package curriculum

import (
	"context"
	"errors"
	"testing"

	"coursedesk/internal/domain"
	models "coursedesk/internal/domain/models/curriculum"
)

func TestReorderSectionsRelabelsAndPersists(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "A", "B", "C")

	// Drag C to the front.
	if err := store.ReorderSections(ctx, []string{ids[2], ids[0], ids[1]}); err != nil {
		t.Fatalf("ReorderSections() error = %v", err)
	}

	snap := store.Snapshot()
	if snap[0].Title != "C" || snap[1].Title != "A" || snap[2].Title != "B" {
		t.Errorf("section titles = %q, %q, %q; want C, A, B", snap[0].Title, snap[1].Title, snap[2].Title)
	}
	for i, sec := range snap {
		if sec.Order != i+1 {
			t.Errorf("section %q Order = %d, want %d", sec.Title, sec.Order, i+1)
		}
	}

	// The persisted order survives an authoritative reload.
	if err := store.Reload(ctx); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	snap = store.Snapshot()
	if snap[0].Title != "C" {
		t.Errorf("after reload first section = %q, want C", snap[0].Title)
	}
	if calls := mem.Calls("ReorderSections"); calls != 1 {
		t.Errorf("ReorderSections reached the backend %d times, want 1", calls)
	}
}

func TestReorderSectionsRejectsIncompletePermutation(t *testing.T) {
	store, mem := newTestStore(t)
	ids := seedSections(t, store, "A", "B", "C")

	tests := []struct {
		name string
		ids  []string
	}{
		{"missing entry", []string{ids[0], ids[1]}},
		{"unknown entry", []string{ids[0], ids[1], "nope"}},
		{"duplicate entry", []string{ids[0], ids[0], ids[1]}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.ReorderSections(context.Background(), tt.ids)
			var vErr *domain.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
		})
	}

	if mem.Calls("ReorderSections") != 0 {
		t.Error("invalid permutation reached the backend")
	}
	// Local state is untouched by the rejected reorders.
	if snap := store.Snapshot(); snap[0].Title != "A" {
		t.Errorf("first section = %q, want A", snap[0].Title)
	}
}

func TestReorderSectionsFailureReloads(t *testing.T) {
	store, mem := newTestStore(t)
	ctx := context.Background()
	ids := seedSections(t, store, "A", "B")

	mem.FailNext("ReorderSections", errors.New("backend down"))

	err := store.ReorderSections(ctx, []string{ids[1], ids[0]})
	var pErr *domain.PersistenceError
	if !errors.As(err, &pErr) {
		t.Fatalf("error = %v, want PersistenceError", err)
	}

	// The optimistic swap was discarded by the reload.
	snap := store.Snapshot()
	if snap[0].Title != "A" || snap[1].Title != "B" {
		t.Errorf("sections after failed reorder = %q, %q; want A, B", snap[0].Title, snap[1].Title)
	}
}

func TestReorderLessonsWithinSection(t *testing.T) {
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

	lessons := store.Snapshot()[0].Lessons
	if err := store.ReorderLessons(ctx, ids[0], []string{lessons[2].ID, lessons[0].ID, lessons[1].ID}); err != nil {
		t.Fatalf("ReorderLessons() error = %v", err)
	}

	got := store.Snapshot()[0].Lessons
	if got[0].Title != "L3" || got[1].Title != "L1" || got[2].Title != "L2" {
		t.Errorf("lesson titles = %q, %q, %q; want L3, L1, L2", got[0].Title, got[1].Title, got[2].Title)
	}
	for i, l := range got {
		if l.Order != i+1 {
			t.Errorf("lesson %q Order = %d, want %d", l.Title, l.Order, i+1)
		}
	}
}

func TestReorderLessonsUnknownSection(t *testing.T) {
	store, _ := newTestStore(t)
	seedSections(t, store, "A")

	err := store.ReorderLessons(context.Background(), "nope", []string{})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
