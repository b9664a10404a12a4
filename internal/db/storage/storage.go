// Package storage declares the persistence contract shared by the
// memory, JSON file and PostgreSQL implementations.
package storage

import (
	"context"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

// UsersKeeper resolves login accounts.
type UsersKeeper interface {
	GetUserByUsername(ctx context.Context, username string) (*models.User, bool, error)
	CreateUser(ctx context.Context, usr *models.User) (string, error)
}

// MastersKeeper is the CRUD surface over the four reference-data
// collections. List methods return snapshot copies. Update and Delete
// report found=false when the id is absent from the collection.
type MastersKeeper interface {
	ListOffices(ctx context.Context) ([]models.Office, error)
	CreateOffice(ctx context.Context, office models.Office) (models.Office, error)
	UpdateOffice(ctx context.Context, id string, patch models.OfficePatch) (models.Office, bool, error)
	DeleteOffice(ctx context.Context, id string) (bool, error)

	ListModes(ctx context.Context) ([]models.Mode, error)
	CreateMode(ctx context.Context, mode models.Mode) (models.Mode, error)
	UpdateMode(ctx context.Context, id string, patch models.ModePatch) (models.Mode, bool, error)
	DeleteMode(ctx context.Context, id string) (bool, error)

	ListEntities(ctx context.Context) ([]models.Entity, error)
	CreateEntity(ctx context.Context, entity models.Entity) (models.Entity, error)
	UpdateEntity(ctx context.Context, id string, patch models.EntityPatch) (models.Entity, bool, error)
	DeleteEntity(ctx context.Context, id string) (bool, error)

	ListCouriers(ctx context.Context) ([]models.Courier, error)
	CreateCourier(ctx context.Context, courier models.Courier) (models.Courier, error)
	UpdateCourier(ctx context.Context, id string, patch models.CourierPatch) (models.Courier, bool, error)
	DeleteCourier(ctx context.Context, id string) (bool, error)
}

// EntriesKeeper stores and lists correspondence entries.
type EntriesKeeper interface {
	CreateInwardEntry(ctx context.Context, entry models.InwardEntry) (models.InwardEntry, error)
	CreateOutwardEntry(ctx context.Context, entry models.OutwardEntry) (models.OutwardEntry, error)
	ListInwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.InwardEntry, error)
	ListOutwardEntries(ctx context.Context, filter models.EntryFilter) ([]models.OutwardEntry, error)
	QueryEntries(ctx context.Context, filter models.EntryFilter) ([]models.EntrySummary, error)

	GetNumberOfEntries(ctx context.Context, entryType models.EntryType) (int64, error)
	GetNumberOfEntriesByStatus(ctx context.Context) (map[models.DeliveryStatus]int64, error)
}

// Sequencer hands out the next register number for a type/year pair.
// Allocation is atomic: two concurrent calls never observe the same value.
type Sequencer interface {
	NextSequence(ctx context.Context, entryType models.EntryType, year int) (int, error)
}

// Pinger checks storage health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage is the full persistence contract of the register service.
type Storage interface {
	UsersKeeper
	MastersKeeper
	EntriesKeeper
	Sequencer
	Pinger
	Close() error
}
