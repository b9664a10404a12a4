package memorystorage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thoas/go-funk"

	"github.com/patric-chuzhbe/docreg/internal/models"
)

func TestSeededAccounts(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	usr, found, err := theStorage.GetUserByUsername(context.Background(), "ADMIN")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.RoleAdmin, usr.Role)

	_, found, err = theStorage.GetUserByUsername(context.Background(), "somebody")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, theStorage.Ping(context.Background()))
	require.NoError(t, theStorage.Close())
}

func TestMasterCreateAssignsFreshID(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	before, err := theStorage.ListCouriers(context.Background())
	require.NoError(t, err)

	created, err := theStorage.CreateCourier(context.Background(), models.Courier{Name: "Speed Post", IsActive: true})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	assert.False(
		t,
		funk.Contains(funk.Map(before, func(courier models.Courier) string { return courier.ID }), created.ID),
		"the new identifier should be absent from the pre-call snapshot",
	)

	after, err := theStorage.ListCouriers(context.Background())
	require.NoError(t, err)
	assert.Len(t, after, len(before)+1)
	assert.True(
		t,
		funk.Contains(funk.Map(after, func(courier models.Courier) string { return courier.ID }), created.ID),
		"the new identifier should be present in the post-call snapshot",
	)
}

func TestMasterUpdateMergesPatch(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	inactive := false
	remarks := "closed down"
	updated, found, err := theStorage.UpdateEntity(context.Background(), "1", models.EntityPatch{
		IsActive: &inactive,
		Remarks:  &remarks,
	})
	require.NoError(t, err)
	require.True(t, found)

	assert.Equal(t, "Dell India", updated.Name, "unpatched fields should keep their values")
	assert.False(t, updated.IsActive)
	assert.Equal(t, remarks, updated.Remarks)

	_, found, err = theStorage.UpdateEntity(context.Background(), "no-such-id", models.EntityPatch{Remarks: &remarks})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMasterDeleteRemovesExactlyTheTarget(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	before, err := theStorage.ListModes(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, before)

	found, err := theStorage.DeleteMode(context.Background(), before[0].ID)
	require.NoError(t, err)
	assert.True(t, found)

	after, err := theStorage.ListModes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before[1:], after, "the remaining records should be unchanged")

	found, err = theStorage.DeleteMode(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestListReturnsSnapshotCopy(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	snapshot, err := theStorage.ListOffices(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, snapshot)

	snapshot[0].Name = "mutated"

	fresh, err := theStorage.ListOffices(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", fresh[0].Name, "mutating a snapshot should not affect the store")
}

func TestNextSequenceIsMonotonicPerTypeAndYear(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	first, err := theStorage.NextSequence(context.Background(), models.EntryInward, 2024)
	require.NoError(t, err)
	second, err := theStorage.NextSequence(context.Background(), models.EntryInward, 2024)
	require.NoError(t, err)
	assert.Equal(t, first+1, second)

	otherYear, err := theStorage.NextSequence(context.Background(), models.EntryInward, 2025)
	require.NoError(t, err)
	assert.Equal(t, 1, otherYear)

	otherType, err := theStorage.NextSequence(context.Background(), models.EntryOutward, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, otherType)
}

func TestEntryFiltersAreApplied(t *testing.T) {
	theStorage, err := New()
	require.NoError(t, err)

	ctx := context.Background()
	_, err = theStorage.CreateInwardEntry(ctx, models.InwardEntry{
		ID:         "in-1",
		InwardNo:   "INW/2024/0001",
		InwardDate: "2024-05-10",
		Mode:       "Courier",
		SenderName: "Dell India",
		Subject:    "Quarterly Audit Report",
		Status:     models.StatusDelivered,
	})
	require.NoError(t, err)
	_, err = theStorage.CreateInwardEntry(ctx, models.InwardEntry{
		ID:         "in-2",
		InwardNo:   "INW/2024/0002",
		InwardDate: "2024-06-01",
		Mode:       "By Hand",
		SenderName: "Local Municipal Corp",
		Subject:    "Property Tax Notice",
		Status:     models.StatusPending,
	})
	require.NoError(t, err)
	_, err = theStorage.CreateOutwardEntry(ctx, models.OutwardEntry{
		ID:            "out-1",
		OutwardNo:     "OUT/2024/0001",
		DispatchDate:  "2024-05-12",
		DispatchedBy:  "Suresh Kumar",
		RecipientName: "Dept of Finance",
		Subject:       "Budget Proposal 2024",
		Status:        models.StatusInTransit,
	})
	require.NoError(t, err)

	t.Run("by mode", func(t *testing.T) {
		entries, err := theStorage.ListInwardEntries(ctx, models.EntryFilter{Mode: "Courier"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "in-1", entries[0].ID)
	})

	t.Run("by date range", func(t *testing.T) {
		entries, err := theStorage.ListInwardEntries(ctx, models.EntryFilter{DateFrom: "2024-05-20", DateTo: "2024-06-30"})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "in-2", entries[0].ID)
	})

	t.Run("by keyword across both registers", func(t *testing.T) {
		summaries, err := theStorage.QueryEntries(ctx, models.EntryFilter{Query: "budget"})
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, models.EntryOutward, summaries[0].Type)
		assert.Equal(t, "OUT/2024/0001", summaries[0].Number)
	})

	t.Run("by status", func(t *testing.T) {
		summaries, err := theStorage.QueryEntries(ctx, models.EntryFilter{Status: models.StatusPending})
		require.NoError(t, err)
		require.Len(t, summaries, 1)
		assert.Equal(t, "INW/2024/0002", summaries[0].Number)
	})

	t.Run("no filters returns everything", func(t *testing.T) {
		summaries, err := theStorage.QueryEntries(ctx, models.EntryFilter{})
		require.NoError(t, err)
		assert.Len(t, summaries, 3)
	})

	t.Run("counts", func(t *testing.T) {
		inward, err := theStorage.GetNumberOfEntries(ctx, models.EntryInward)
		require.NoError(t, err)
		assert.Equal(t, int64(2), inward)

		byStatus, err := theStorage.GetNumberOfEntriesByStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), byStatus[models.StatusPending])
		assert.Equal(t, int64(1), byStatus[models.StatusDelivered])
		assert.Equal(t, int64(1), byStatus[models.StatusInTransit])
	})
}
