// Package session holds the client-side login session: the current user,
// mirrored into a single JSON file that survives restarts of the client.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

// Manager owns the current user of the client process. Exactly one of
// {no session, valid session} holds at any time; the loading flag is true
// only until the first Restore completes.
type Manager struct {
	mu        sync.RWMutex
	fileName  string
	usr       *models.User
	isLoading bool
}

// New creates a Manager persisting to fileName. Call Restore before use.
func New(fileName string) *Manager {
	return &Manager{
		fileName:  fileName,
		isLoading: true,
	}
}

// Restore reads the persisted session copy. A well-formed copy becomes the
// current session; an unreadable or corrupted one is discarded together with
// its file. The loading flag is cleared exactly once, whatever the outcome.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() {
		m.isLoading = false
	}()

	data, err := os.ReadFile(m.fileName)
	if err != nil {
		return
	}

	var usr models.User
	if err := json.Unmarshal(data, &usr); err != nil || usr.ID == "" {
		_ = os.Remove(m.fileName)

		return
	}

	m.usr = &usr
}

// Set makes usr the current session and persists it.
func (m *Manager) Set(usr *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := json.Marshal(usr)
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.fileName, data, 0600); err != nil {
		return err
	}
	m.usr = usr

	return nil
}

// Clear drops the current session and removes the persisted copy.
func (m *Manager) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.usr = nil
	err := os.Remove(m.fileName)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// Current returns the logged-in user, if any.
func (m *Manager) Current() (*models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.usr, m.usr != nil
}

// IsAuthenticated reports whether a session is present.
func (m *Manager) IsAuthenticated() bool {
	_, ok := m.Current()
	return ok
}

// IsLoading reports whether the initial Restore has not completed yet.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.isLoading
}
