package task

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/ticked/internal/core/kv"
)

var baseTime = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

// stepClock advances one minute on every call.
type stepClock struct {
	next time.Time
}

func (c *stepClock) Now() time.Time {
	now := c.next
	c.next = c.next.Add(time.Minute)
	return now
}

// seqIDs hands out "id-1", "id-2", ...
type seqIDs struct {
	n int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

// recorder captures notifier messages.
type recorder struct {
	messages []string
}

func (r *recorder) Infof(format string, args ...any) {
	r.messages = append(r.messages, fmt.Sprintf(format, args...))
}

// countingKV wraps a KV and counts writes; setErr makes every Set fail.
type countingKV struct {
	kv.KV
	sets   int
	setErr error
	getErr error
}

func (c *countingKV) Set(ctx context.Context, key, value string) error {
	c.sets++
	if c.setErr != nil {
		return c.setErr
	}
	return c.KV.Set(ctx, key, value)
}

func (c *countingKV) Get(ctx context.Context, key string) (string, error) {
	if c.getErr != nil {
		return "", c.getErr
	}
	return c.KV.Get(ctx, key)
}

type fixture struct {
	store   *Store
	storage *countingKV
	notes   *recorder
	clock   *stepClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWith(t, kv.NewMemory())
}

func newFixtureWith(t *testing.T, backing kv.KV) *fixture {
	t.Helper()

	f := &fixture{
		storage: &countingKV{KV: backing},
		notes:   &recorder{},
		clock:   &stepClock{next: baseTime},
	}
	f.store = NewStore(f.storage, f.notes, zerolog.Nop(),
		WithClock(f.clock),
		WithIDGenerator(&seqIDs{}),
	)
	require.NoError(t, f.store.Load(context.Background()))
	return f
}

func (f *fixture) mustCreate(t *testing.T, text string) Task {
	t.Helper()
	created, ok, err := f.store.Create(context.Background(), text)
	require.NoError(t, err)
	require.True(t, ok)
	return created
}

var errBoom = errors.New("boom")
