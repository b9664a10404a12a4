// Package memorystorage keeps the register purely in memory. It reuses the
// jsondb cache and seed data but never touches the filesystem, which makes
// it the default storage and the one used by tests.
package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/docreg/internal/db/jsondb"
)

// MemoryStorage is a jsondb cache without the backing file.
type MemoryStorage struct {
	*jsondb.JSONDB
}

// New returns a memory storage seeded with the default accounts
// and reference data.
func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: &jsondb.JSONDB{
			Cache: jsondb.DefaultCache(),
		},
	}, nil
}

// Close is a no-op: there is nothing to flush.
func (theStorage *MemoryStorage) Close() error {
	return nil
}

// Ping always succeeds for the in-memory store.
func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
