package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/ticked/internal/core/notify"
)

// memStore is an in-memory notify.Store for testing.
type memStore struct {
	items   []notify.Notification
	nextID  int64
	saveErr error
}

func (m *memStore) Save(_ context.Context, n notify.Notification) (int64, error) {
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	m.nextID++
	n.ID = m.nextID
	m.items = append(m.items, n)
	return n.ID, nil
}

func (m *memStore) List(_ context.Context) ([]notify.Notification, error) {
	out := make([]notify.Notification, len(m.items))
	for i, n := range m.items {
		out[len(m.items)-1-i] = n
	}
	return out, nil
}

func (m *memStore) Clear(_ context.Context) error {
	m.items = nil
	return nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

func TestBus_Publish_dispatches_to_subscribers(t *testing.T) {
	bus := NewBus(&memStore{})

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) {
		received = append(received, n)
	})

	bus.Errorf("write failed: %d", 42)
	bus.Infof("Todo added")
	bus.Warnf("discarded")

	require.Len(t, received, 3)
	assert.Equal(t, notify.LevelError, received[0].Level)
	assert.Equal(t, "write failed: 42", received[0].Message)
	assert.Equal(t, notify.LevelInfo, received[1].Level)
	assert.Equal(t, notify.LevelWarning, received[2].Level)
}

func TestBus_Subscribers_called_in_order(t *testing.T) {
	bus := NewBus(nil)

	var order []int
	for i := range 5 {
		bus.Subscribe(func(notify.Notification) { order = append(order, i) })
	}

	bus.Infof("x")
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := NewBus(nil)

	calls := 0
	unsubscribe := bus.Subscribe(func(notify.Notification) { calls++ })

	bus.Infof("one")
	unsubscribe()
	bus.Infof("two")

	assert.Equal(t, 1, calls)
}

func TestBus_Publish_persists_and_assigns_id(t *testing.T) {
	store := &memStore{}
	bus := NewBus(store)

	var received notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = n })

	bus.Infof("Todo deleted")

	require.Len(t, store.items, 1)
	assert.Equal(t, "Todo deleted", store.items[0].Message)
	assert.Equal(t, int64(1), received.ID)
	assert.True(t, bus.Persistent())
}

func TestBus_Publish_store_failure_still_dispatches(t *testing.T) {
	bus := NewBus(&memStore{saveErr: errors.New("locked")})

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = append(received, n) })

	bus.Infof("Todo updated")

	require.Len(t, received, 1)
	assert.Zero(t, received[0].ID)
}

func TestBus_Publish_defaults(t *testing.T) {
	at := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	bus := NewBus(nil, WithNow(func() time.Time { return at }))

	var received notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = n })

	bus.Publish(notify.Notification{Message: "no level"})

	assert.Equal(t, at, received.CreatedAt)
	assert.Equal(t, notify.LevelInfo, received.Level)
}

func TestBus_Publish_stamps_list(t *testing.T) {
	store := &memStore{}
	bus := NewBus(store, WithList("work"))

	var received notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = n })

	bus.Publish(notify.Notification{List: "home", Message: "Todo added"})

	assert.Equal(t, "work", received.List)
	require.Len(t, store.items, 1)
	assert.Equal(t, "work", store.items[0].List)
}

func TestBus_History_and_Clear(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(&memStore{})

	bus.Infof("first")
	bus.Infof("second")
	bus.Infof("third")

	history, err := bus.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "third", history[0].Message)
	assert.Equal(t, "first", history[2].Message)

	removed, err := bus.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)

	history, err = bus.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestBus_nil_store(t *testing.T) {
	ctx := context.Background()
	bus := NewBus(nil)

	var received []notify.Notification
	bus.Subscribe(func(n notify.Notification) { received = append(received, n) })

	bus.Errorf("no store")
	assert.Len(t, received, 1)
	assert.False(t, bus.Persistent())

	history, err := bus.History(ctx)
	require.NoError(t, err)
	assert.Nil(t, history)

	removed, err := bus.Clear(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
