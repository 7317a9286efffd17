// Package notifications is the toast feed shown to the shopper. Services push
// messages as side effects of their operations and the view API drains them.
package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/freshfind/storefront/pkg/logger"
	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

const defaultFeedSize = 50

// Notification is one transient message.
type Notification struct {
	ID        string    `json:"id"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// Notifier is what services depend on.
type Notifier interface {
	Success(ctx context.Context, message string)
	Info(ctx context.Context, message string)
	Error(ctx context.Context, message string)
}

// Feed is a bounded FIFO of notifications. When full, the oldest entry is
// dropped. Every pushed message is also logged.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	size  int
	logg  *logger.Logger
	now   func() time.Time
}

func NewFeed(size int, logg *logger.Logger) *Feed {
	if size <= 0 {
		size = defaultFeedSize
	}
	return &Feed{size: size, logg: logg, now: time.Now}
}

func (f *Feed) Success(ctx context.Context, message string) {
	f.push(ctx, LevelSuccess, message)
}

func (f *Feed) Info(ctx context.Context, message string) {
	f.push(ctx, LevelInfo, message)
}

func (f *Feed) Error(ctx context.Context, message string) {
	f.push(ctx, LevelError, message)
}

func (f *Feed) push(ctx context.Context, level Level, message string) {
	if message == "" {
		return
	}
	entry := Notification{
		ID:        uuid.NewString(),
		Level:     level,
		Message:   message,
		CreatedAt: f.now().UTC(),
	}

	f.mu.Lock()
	if len(f.items) >= f.size {
		f.items = append(f.items[:0], f.items[len(f.items)-f.size+1:]...)
	}
	f.items = append(f.items, entry)
	f.mu.Unlock()

	if f.logg != nil {
		logCtx := f.logg.WithFields(ctx, map[string]any{"notification_level": string(level)})
		f.logg.Info(logCtx, message)
	}
}

// Drain returns every pending notification oldest first and empties the feed.
func (f *Feed) Drain() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	f.items = f.items[:0]
	return out
}

// Pending returns a copy of the queue without consuming it.
func (f *Feed) Pending() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Notification, len(f.items))
	copy(out, f.items)
	return out
}

// Discard is a Notifier that drops everything.
type Discard struct{}

func (Discard) Success(context.Context, string) {}
func (Discard) Info(context.Context, string)    {}
func (Discard) Error(context.Context, string)   {}
