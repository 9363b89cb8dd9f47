// Package notify carries transient user-facing notices from the engine to
// the UI shell. Every terminal error produces one; nothing is silently
// swallowed, and nothing except a validation failure blocks further work.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level classifies a notice for UI presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is one transient notification.
type Notice struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifier is the sink services report through.
type Notifier interface {
	Notify(level Level, message string)
}

// maxPending bounds the feed; the UI drains frequently, anything older than
// the window is stale anyway.
const maxPending = 64

// Feed is a drainable notice buffer. Notices are also mirrored to the
// structured log so operators see what users saw.
type Feed struct {
	logger *slog.Logger

	mu      sync.Mutex
	pending []Notice
}

// NewFeed creates a notice feed.
func NewFeed(logger *slog.Logger) *Feed {
	return &Feed{logger: logger}
}

// Notify records a notice and logs it.
func (f *Feed) Notify(level Level, message string) {
	n := Notice{Level: level, Message: message, Time: time.Now()}

	f.mu.Lock()
	f.pending = append(f.pending, n)
	if len(f.pending) > maxPending {
		f.pending = f.pending[len(f.pending)-maxPending:]
	}
	f.mu.Unlock()

	switch level {
	case LevelError:
		f.logger.Error("notice", "message", message)
	default:
		f.logger.Info("notice", "level", level, "message", message)
	}
}

// Drain returns the pending notices and clears the buffer. Notices are
// transient: once drained they are gone.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := f.pending
	f.pending = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}
