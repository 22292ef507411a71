package reducer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/internal/reducer"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

func TestVerify_CleanStore(t *testing.T) {
	e, store := newEngine(t)
	seed(t, e, outline("r"), created("a", "r", 0), created("b", "r", 1), created("a1", "a", 0))

	assert.NoError(t, reducer.Verify(store))
}

func TestVerify_DetectsCorruption(t *testing.T) {
	corrupt := func(t *testing.T, mutate func(*memory.Store)) error {
		t.Helper()
		e, store := newEngine(t)
		seed(t, e, outline("r"), created("a", "r", 0), created("b", "r", 1))
		mutate(store)
		return reducer.Verify(store)
	}

	t.Run("Dangling Subitem", func(t *testing.T) {
		err := corrupt(t, func(s *memory.Store) {
			require.NoError(t, s.Update("r", func(it domain.Item) domain.Item {
				it.Subitems = append(it.Subitems, "ghost")
				return it
			}))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dangling subitem")
	})

	t.Run("Duplicate Subitem", func(t *testing.T) {
		err := corrupt(t, func(s *memory.Store) {
			require.NoError(t, s.Update("r", func(it domain.Item) domain.Item {
				it.Subitems = append(it.Subitems, "a")
				return it
			}))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate subitem")
	})

	t.Run("Orphaned Parent Reference", func(t *testing.T) {
		err := corrupt(t, func(s *memory.Store) {
			require.NoError(t, s.Update("a", func(it domain.Item) domain.Item {
				it.ParentID = "ghost"
				return it
			}))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("Multiline Title", func(t *testing.T) {
		err := corrupt(t, func(s *memory.Store) {
			require.NoError(t, s.Update("a", func(it domain.Item) domain.Item {
				it.Title = "two\nlines"
				return it
			}))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line break")
	})

	t.Run("Cycle", func(t *testing.T) {
		err := corrupt(t, func(s *memory.Store) {
			// a <-> b cycle behind the store's back.
			require.NoError(t, s.Update("a", func(it domain.Item) domain.Item {
				it.ParentID = "b"
				it.Subitems = []string{"b"}
				return it
			}))
			require.NoError(t, s.Update("b", func(it domain.Item) domain.Item {
				it.ParentID = "a"
				it.Subitems = []string{"a"}
				return it
			}))
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ancestor")
	})
}
