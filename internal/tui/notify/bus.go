// Package notify fans task confirmations out to toasts, the CLI and the
// optional history store.
package notify

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/ticked/internal/core/logging"
	"github.com/hay-kot/ticked/internal/core/notify"
)

// Subscriber is a callback invoked when a notification is published.
type Subscriber func(notify.Notification)

// Option configures a Bus.
type Option func(*Bus)

// WithNow overrides the timestamp source.
func WithNow(now func() time.Time) Option {
	return func(b *Bus) { b.now = now }
}

// WithList stamps every published notification with the task list it was
// raised for.
func WithList(list string) Option {
	return func(b *Bus) { b.list = list }
}

// Bus dispatches notifications to subscribers inline and records them in a
// Store. It satisfies task.Notifier; Publish never reports failure to the
// caller.
type Bus struct {
	store notify.Store
	list  string
	now   func() time.Time
	log   zerolog.Logger

	mu     sync.Mutex
	subs   map[int]Subscriber
	nextID int
}

// NewBus creates a bus backed by store. A nil store keeps no history.
func NewBus(store notify.Store, opts ...Option) *Bus {
	b := &Bus{
		store: store,
		now:   time.Now,
		log:   logging.Component("notify"),
		subs:  make(map[int]Subscriber),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Subscriber) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.subs[id] = fn

	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}
}

// Publish records n and hands it to every subscriber in subscription order.
func (b *Bus) Publish(n notify.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = b.now()
	}
	if !n.Level.IsValid() {
		n.Level = notify.LevelInfo
	}
	n.List = b.list

	// Save first so subscribers see the history id.
	if b.store != nil {
		id, err := b.store.Save(context.Background(), n)
		if err != nil {
			b.log.Warn().Err(err).Str("message", n.Message).Msg("record notification")
		} else {
			n.ID = id
		}
	}

	for _, fn := range b.snapshot() {
		fn(n)
	}
}

func (b *Bus) snapshot() []Subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	out := make([]Subscriber, len(ids))
	for i, id := range ids {
		out[i] = b.subs[id]
	}
	return out
}

// Errorf publishes an error-level notification.
func (b *Bus) Errorf(format string, args ...any) {
	b.publishf(notify.LevelError, format, args...)
}

// Warnf publishes a warning-level notification.
func (b *Bus) Warnf(format string, args ...any) {
	b.publishf(notify.LevelWarning, format, args...)
}

// Infof publishes an info-level notification.
func (b *Bus) Infof(format string, args ...any) {
	b.publishf(notify.LevelInfo, format, args...)
}

func (b *Bus) publishf(level notify.Level, format string, args ...any) {
	b.Publish(notify.Notification{
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

// Persistent reports whether a history store is attached.
func (b *Bus) Persistent() bool {
	return b.store != nil
}

// History returns recorded notifications, newest first. Without a store it
// returns nil.
func (b *Bus) History(ctx context.Context) ([]notify.Notification, error) {
	if b.store == nil {
		return nil, nil
	}
	return b.store.List(ctx)
}

// Clear deletes recorded notifications and returns how many were removed.
func (b *Bus) Clear(ctx context.Context) (int64, error) {
	if b.store == nil {
		return 0, nil
	}

	n, err := b.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err := b.store.Clear(ctx); err != nil {
		return 0, err
	}
	return n, nil
}
