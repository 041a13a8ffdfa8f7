package store_test

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/subst/pkg/subst/store"
)

// backends runs fn against every Store implementation.
func backends(t *testing.T, fn func(t *testing.T, s store.Store)) {
	t.Run("memory", func(t *testing.T) {
		s := store.NewMemoryStore()
		defer s.Close()
		fn(t, s)
	})
	t.Run("sqlite", func(t *testing.T) {
		s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "templates.db"))
		require.NoError(t, err)
		defer s.Close()
		fn(t, s)
	})
}

func TestStore_SaveLoad(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		require.NoError(t, s.Save("greeting", "Hello ${name}"))

		got, err := s.Load("greeting")
		require.NoError(t, err)
		assert.Equal(t, "Hello ${name}", got)

		require.NoError(t, s.Save("greeting", "Hi ${name}"))
		got, err = s.Load("greeting")
		require.NoError(t, err)
		assert.Equal(t, "Hi ${name}", got)
	})
}

func TestStore_LoadNotFound(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		_, err := s.Load("missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestStore_InvalidName(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		err := s.Save("1bad", "x")
		assert.ErrorIs(t, err, store.ErrInvalidName)

		err = s.Save("", "x")
		assert.ErrorIs(t, err, store.ErrInvalidName)
	})
}

func TestStore_List(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		infos, err := s.List()
		require.NoError(t, err)
		assert.Empty(t, infos)

		require.NoError(t, s.Save("b", "two"))
		require.NoError(t, s.Save("a", "one"))
		require.NoError(t, s.Save("b", "three"))

		infos, err = s.List()
		require.NoError(t, err)
		require.Len(t, infos, 2)

		assert.Equal(t, "a", infos[0].Name)
		assert.Equal(t, 1, infos[0].Revision)
		assert.Equal(t, int64(3), infos[0].Size)
		assert.Equal(t, store.Fingerprint("one"), infos[0].Fingerprint)
		assert.False(t, infos[0].Timestamp.IsZero())

		assert.Equal(t, "b", infos[1].Name)
		assert.Equal(t, 2, infos[1].Revision)
		assert.Equal(t, int64(5), infos[1].Size)
		assert.Equal(t, store.Fingerprint("three"), infos[1].Fingerprint)
	})
}

func TestStore_Delete(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		require.NoError(t, s.Save("a", "x"))
		require.NoError(t, s.Delete("a"))
		require.NoError(t, s.Delete("a"))

		_, err := s.Load("a")
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Save("a", "y"))
		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, 1, infos[0].Revision)
	})
}

func TestStore_Closed(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())

		assert.ErrorIs(t, s.Save("a", "x"), store.ErrStoreClosed)
		_, err := s.Load("a")
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		_, err = s.List()
		assert.ErrorIs(t, err, store.ErrStoreClosed)
		assert.ErrorIs(t, s.Delete("a"), store.ErrStoreClosed)
	})
}

func TestStore_Unicode(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		require.NoError(t, s.Save("grüße", "Grüße, ${name} €"))
		got, err := s.Load("grüße")
		require.NoError(t, err)
		assert.Equal(t, "Grüße, ${name} €", got)

		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, int64(len("Grüße, ${name} €")), infos[0].Size)
	})
}

func TestStore_Concurrent(t *testing.T) {
	backends(t, func(t *testing.T, s store.Store) {
		const goroutines = 10
		const ops = 10

		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < ops; i++ {
					assert.NoError(t, s.Save("shared", "v"))
					_, err := s.Load("shared")
					assert.NoError(t, err)
				}
			}()
		}
		wg.Wait()

		infos, err := s.List()
		require.NoError(t, err)
		require.Len(t, infos, 1)
		assert.Equal(t, goroutines*ops, infos[0].Revision)
	})
}

func TestMemoryStore_Len(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Save("a", "1"))
	require.NoError(t, s.Save("b", "2"))
	assert.Equal(t, 2, s.Len())
}

func TestSQLiteStore_Persistence(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "templates.db")

	store1, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, store1.Save("greeting", "persistent ${name}"))
	require.NoError(t, store1.Close())

	store2, err := store.NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer store2.Close()

	got, err := store2.Load("greeting")
	require.NoError(t, err)
	assert.Equal(t, "persistent ${name}", got)
}

func TestSQLiteStore_InMemory(t *testing.T) {
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save("a", "x"))
	got, err := s.Load("a")
	require.NoError(t, err)
	assert.Equal(t, "x", got)
}

func TestSQLiteStore_InvalidPath(t *testing.T) {
	_, err := store.NewSQLiteStore("/nonexistent/path/db.sqlite")
	assert.Error(t, err)
}
