// Package kvtest holds a behavioural test suite shared by every kv.KV backend.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hay-kot/ticked/internal/core/kv"
)

// Run exercises the kv.KV contract against stores produced by newKV.
// Each subtest gets a fresh store.
func Run(t *testing.T, newKV func(t *testing.T) kv.KV) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing returns ErrNotFound", func(t *testing.T) {
		store := newKV(t)
		_, err := store.Get(ctx, "todos")
		require.Error(t, err)
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "todos", `[{"id":"1"}]`))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, `[{"id":"1"}]`, got)
	})

	t.Run("set overwrites", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "todos", "first"))
		require.NoError(t, store.Set(ctx, "todos", "second"))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "second", got)
	})

	t.Run("stores values that are not valid json", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "todos", "{not valid json"))

		got, err := store.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "{not valid json", got)
	})

	t.Run("empty value is distinct from missing", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "todos", ""))

		has, err := store.Has(ctx, "todos")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("delete", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "todos", "x"))
		require.NoError(t, store.Delete(ctx, "todos"))
		require.NoError(t, store.Delete(ctx, "never-set"))

		has, err := store.Has(ctx, "todos")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("list keys sorted", func(t *testing.T) {
		store := newKV(t)
		require.NoError(t, store.Set(ctx, "work:todos", "[]"))
		require.NoError(t, store.Set(ctx, "todos", "[]"))

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"todos", "work:todos"}, keys)
	})

	t.Run("scoped namespaces are isolated", func(t *testing.T) {
		store := newKV(t)
		work := kv.Scoped(store, "work")
		home := kv.Scoped(store, "home")

		require.NoError(t, work.Set(ctx, "todos", "w"))
		require.NoError(t, home.Set(ctx, "todos", "h"))

		w, err := work.Get(ctx, "todos")
		require.NoError(t, err)
		assert.Equal(t, "w", w)

		_, err = store.Get(ctx, "todos")
		assert.ErrorIs(t, err, kv.ErrNotFound)

		keys, err := store.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"home:todos", "work:todos"}, keys)

		scopedKeys, err := work.ListKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"todos"}, scopedKeys)
	})
}
