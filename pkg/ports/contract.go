package ports

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/domain"
)

// RunItemStoreContract verifies that an ItemStore implementation adheres to
// the interface contract. Adapter tests call this against a fresh store.
func RunItemStoreContract(t *testing.T, store ItemStore) {
	t.Helper()

	t.Run("Create and Get", func(t *testing.T) {
		require.False(t, store.Exists("root"))
		require.NoError(t, store.Create("root", ""))
		require.True(t, store.Exists("root"))

		item, err := store.Get("root")
		require.NoError(t, err)
		assert.Equal(t, "root", item.ID)
		assert.Empty(t, item.ParentID)
		assert.Empty(t, item.Subitems)
		assert.Empty(t, item.Title)
	})

	t.Run("Create Duplicate", func(t *testing.T) {
		err := store.Create("root", "")
		assert.ErrorIs(t, err, domain.ErrItemExists)
	})

	t.Run("Create With Missing Parent", func(t *testing.T) {
		err := store.Create("stray", "nope")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.False(t, store.Exists("stray"))
	})

	t.Run("Create Does Not Splice", func(t *testing.T) {
		require.NoError(t, store.Create("child", "root"))

		child, err := store.Get("child")
		require.NoError(t, err)
		assert.Equal(t, "root", child.ParentID)

		// Linking is the reducer's job, not the store's.
		parent, err := store.Get("root")
		require.NoError(t, err)
		assert.NotContains(t, parent.Subitems, "child")
	})

	t.Run("Update Is Atomic Replacement", func(t *testing.T) {
		err := store.Update("root", func(it domain.Item) domain.Item {
			it.Title = "Inbox"
			it.Subitems = append(it.Subitems, "child")
			return it
		})
		require.NoError(t, err)

		got, err := store.Get("root")
		require.NoError(t, err)
		assert.Equal(t, "Inbox", got.Title)
		assert.Equal(t, []string{"child"}, got.Subitems)
	})

	t.Run("Get Returns A Copy", func(t *testing.T) {
		a, err := store.Get("root")
		require.NoError(t, err)
		a.Subitems[0] = "tampered"
		a.Title = "tampered"

		b, err := store.Get("root")
		require.NoError(t, err)
		assert.Equal(t, []string{"child"}, b.Subitems)
		assert.Equal(t, "Inbox", b.Title)
	})

	t.Run("IDs and Roots", func(t *testing.T) {
		assert.Equal(t, []string{"child", "root"}, store.IDs())
		assert.Equal(t, []string{"root"}, store.Roots())
		assert.Equal(t, 2, store.Len())
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete("child"))
		assert.False(t, store.Exists("child"))

		_, err := store.Get("child")
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
		assert.ErrorIs(t, store.Delete("child"), domain.ErrItemNotFound)
	})

	t.Run("Update Missing", func(t *testing.T) {
		err := store.Update("child", func(it domain.Item) domain.Item { return it })
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

// RunFactLogContract verifies that a FactLog implementation preserves
// append order and survives Clear.
func RunFactLogContract(t *testing.T, log FactLog) {
	t.Helper()
	ctx := context.Background()

	t.Run("Empty", func(t *testing.T) {
		lines, err := log.Lines(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)
	})

	t.Run("Append Preserves Order", func(t *testing.T) {
		require.NoError(t, log.Append(ctx, `Outline "r" was created`))
		require.NoError(t, log.Append(ctx, `Item "a" was created inside item "r" at position "0"`))
		require.NoError(t, log.Append(ctx, `Item "a" was deleted`))

		lines, err := log.Lines(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{
			`Outline "r" was created`,
			`Item "a" was created inside item "r" at position "0"`,
			`Item "a" was deleted`,
		}, lines)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, log.Clear(ctx))
		lines, err := log.Lines(ctx)
		require.NoError(t, err)
		assert.Empty(t, lines)

		// Still usable after Clear.
		require.NoError(t, log.Append(ctx, `Outline "r" was created`))
		lines, err = log.Lines(ctx)
		require.NoError(t, err)
		assert.Len(t, lines, 1)
	})
}
