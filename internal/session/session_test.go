package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

func newTestManager(t *testing.T) (*Manager, string) {
	fileName := filepath.Join(t.TempDir(), "session.json")
	return New(fileName), fileName
}

func TestRestoreWithoutPersistedCopy(t *testing.T) {
	manager, _ := newTestManager(t)

	assert.True(t, manager.IsLoading(), "loading flag should be set before Restore")

	manager.Restore()

	assert.False(t, manager.IsLoading(), "loading flag should be cleared after Restore")
	assert.False(t, manager.IsAuthenticated())
}

func TestSetPersistsAndRoundTrips(t *testing.T) {
	manager, fileName := newTestManager(t)
	manager.Restore()

	usr := &models.User{
		ID:       "1",
		Username: "admin",
		Name:     "System Administrator",
		Role:     models.RoleAdmin,
		Token:    "some token",
	}
	require.NoError(t, manager.Set(usr))
	assert.True(t, manager.IsAuthenticated())

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)

	var persisted models.User
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, *usr, persisted, "the persisted copy should reproduce the user fields")

	// A fresh manager over the same file restores the same session.
	restored := New(fileName)
	restored.Restore()
	current, ok := restored.Current()
	require.True(t, ok)
	assert.Equal(t, *usr, *current)
}

func TestClearRemovesPersistedCopy(t *testing.T) {
	manager, fileName := newTestManager(t)
	manager.Restore()

	require.NoError(t, manager.Set(&models.User{ID: "2", Username: "operator", Role: models.RoleOperator}))
	require.NoError(t, manager.Clear())

	assert.False(t, manager.IsAuthenticated())
	_, err := os.Stat(fileName)
	assert.True(t, os.IsNotExist(err), "the session file should be removed")

	// Clearing an already empty session is not an error.
	assert.NoError(t, manager.Clear())
}

func TestRestoreDiscardsCorruptedCopy(t *testing.T) {
	manager, fileName := newTestManager(t)
	require.NoError(t, os.WriteFile(fileName, []byte(`{"id": 42 oops`), 0600))

	assert.NotPanics(t, manager.Restore)

	assert.False(t, manager.IsLoading(), "loading flag should be cleared even for a corrupted copy")
	assert.False(t, manager.IsAuthenticated())
	_, err := os.Stat(fileName)
	assert.True(t, os.IsNotExist(err), "the corrupted file should be discarded")
}

func TestRestoreDiscardsWellFormedButEmptyCopy(t *testing.T) {
	manager, fileName := newTestManager(t)
	require.NoError(t, os.WriteFile(fileName, []byte(`{}`), 0600))

	manager.Restore()

	assert.False(t, manager.IsAuthenticated())
}
