package notify

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
)

func TestDrainReturnsAndClears(t *testing.T) {
	f := NewFeed(slog.New(slog.NewTextHandler(io.Discard, nil)))

	f.Notify(LevelSuccess, "Section created")
	f.Notify(LevelError, "Failed to reorder lessons")

	notices := f.Drain()
	if len(notices) != 2 {
		t.Fatalf("len(notices) = %d, want 2", len(notices))
	}
	if notices[0].Level != LevelSuccess || notices[0].Message != "Section created" {
		t.Errorf("notices[0] = %+v", notices[0])
	}
	if notices[1].Level != LevelError {
		t.Errorf("notices[1].Level = %q, want error", notices[1].Level)
	}
	if notices[0].Time.IsZero() {
		t.Error("notice has no timestamp")
	}

	if again := f.Drain(); len(again) != 0 {
		t.Errorf("second Drain() = %v, want empty", again)
	}
}

func TestFeedBoundsPending(t *testing.T) {
	f := NewFeed(slog.New(slog.NewTextHandler(io.Discard, nil)))

	for i := 0; i < maxPending+10; i++ {
		f.Notify(LevelInfo, fmt.Sprintf("notice %d", i))
	}

	notices := f.Drain()
	if len(notices) != maxPending {
		t.Fatalf("len(notices) = %d, want %d", len(notices), maxPending)
	}
	// The oldest notices were dropped, the newest kept.
	if notices[len(notices)-1].Message != fmt.Sprintf("notice %d", maxPending+9) {
		t.Errorf("last notice = %q, want the most recent", notices[len(notices)-1].Message)
	}
}
