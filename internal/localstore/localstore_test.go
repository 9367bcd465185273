package localstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zenfocus/internal/model"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	dir, err := NewDir(t.TempDir())
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemory(),
		"dir":    dir,
	}
}

func TestRoundTrip(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			settings := model.DefaultSettings()
			settings.DailyGoalHours = 6
			require.NoError(t, store.Put(KeySettings, settings))

			var got model.Settings
			require.NoError(t, store.Get(KeySettings, &got))
			assert.Equal(t, settings, got)
		})
	}
}

func TestGetMissingKeyReturnsNotFound(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			var theme string
			assert.ErrorIs(t, store.Get(KeyTheme, &theme), ErrNotFound)
		})
	}
}

func TestPutReplacesExistingValue(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(KeyTheme, "nature"))
			require.NoError(t, store.Put(KeyTheme, "lofi"))

			var theme string
			require.NoError(t, store.Get(KeyTheme, &theme))
			assert.Equal(t, "lofi", theme)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Put(KeyToken, "token-1"))
			require.NoError(t, store.Delete(KeyToken))

			var token string
			assert.ErrorIs(t, store.Get(KeyToken, &token), ErrNotFound)

			// Deleting an absent key is not an error.
			assert.NoError(t, store.Delete(KeyToken))
		})
	}
}

func TestDirPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	first, err := NewDir(dir)
	require.NoError(t, err)
	tasks := []model.Task{{ID: "t-1", Title: "persisted", CreatedAt: 1700000000000}}
	require.NoError(t, first.Put(KeyTasks, tasks))

	second, err := NewDir(dir)
	require.NoError(t, err)
	var got []model.Task
	require.NoError(t, second.Get(KeyTasks, &got))
	assert.Equal(t, tasks, got)
}

func TestDirFilePermissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDir(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(KeyToken, "secret"))

	info, err := os.Stat(filepath.Join(dir, KeyToken+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
