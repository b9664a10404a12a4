package jsondb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

func testFileName(t *testing.T) string {
	return filepath.Join(t.TempDir(), "register.json")
}

func TestNewSeedsAnAbsentFile(t *testing.T) {
	fileName := testFileName(t)

	theDB, err := New(fileName)
	require.NoError(t, err)

	_, err = os.Stat(fileName)
	require.NoError(t, err, "the database file should be created")

	usr, found, err := theDB.GetUserByUsername(context.Background(), "operator")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.RoleOperator, usr.Role)

	offices, err := theDB.ListOffices(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, offices, "the seed should include offices")
}

func TestCloseAndReopenRoundTrip(t *testing.T) {
	fileName := testFileName(t)
	ctx := context.Background()

	theDB, err := New(fileName)
	require.NoError(t, err)

	created, err := theDB.CreateEntity(ctx, models.Entity{Name: "Acme Corp", IsActive: true, Place: "Pune"})
	require.NoError(t, err)

	entry, err := theDB.CreateInwardEntry(ctx, models.InwardEntry{
		ID:         "in-1",
		InwardNo:   "INW/2024/0001",
		InwardDate: "2024-02-01",
		Mode:       "Post",
		SenderName: "Acme Corp",
		Subject:    "Tender Documents",
		Status:     models.StatusPending,
	})
	require.NoError(t, err)

	sequence, err := theDB.NextSequence(ctx, models.EntryInward, 2024)
	require.NoError(t, err)

	require.NoError(t, theDB.Close())

	reopened, err := New(fileName)
	require.NoError(t, err)

	entities, err := reopened.ListEntities(ctx)
	require.NoError(t, err)
	found := false
	for _, entity := range entities {
		if entity.ID == created.ID {
			found = true
			assert.Equal(t, created, entity)
		}
	}
	assert.True(t, found, "the created entity should survive a reopen")

	entries, err := reopened.ListInwardEntries(ctx, models.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entry, entries[0])

	next, err := reopened.NextSequence(ctx, models.EntryInward, 2024)
	require.NoError(t, err)
	assert.Equal(t, sequence+1, next, "sequence counters should survive a reopen")
}

func TestNewRejectsAMalformedFile(t *testing.T) {
	fileName := testFileName(t)
	require.NoError(t, os.WriteFile(fileName, []byte(`{"users": oops`), 0644))

	_, err := New(fileName)
	assert.Error(t, err)
}
