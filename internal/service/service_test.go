package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/docreg/internal/db/memorystorage"
	"github.com/patric-chuzhbe/docreg/internal/models"
)

func newTestService(t *testing.T) *Service {
	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	return New(theStorage)
}

func TestCreateInwardEntryAssignsNumberAndID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.CreateInwardEntry(ctx, models.InwardEntry{
		InwardDate: "2024-03-15",
		Mode:       "Courier",
		SenderName: "Dell India",
		Subject:    "Quarterly Audit Report",
		Status:     models.StatusPending,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, "INW/2024/0001", first.InwardNo)
	assert.Equal(t, "2024-03-15", first.ReceivedDate, "the received date should default to the inward date")

	second, err := svc.CreateInwardEntry(ctx, models.InwardEntry{
		InwardDate:   "2024-03-16",
		ReceivedDate: "2024-03-17",
		Mode:         "Post",
		SenderName:   "Local Municipal Corp",
		Subject:      "Property Tax Notice",
		Status:       models.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, "INW/2024/0002", second.InwardNo, "sequences advance within a year")
	assert.Equal(t, "2024-03-17", second.ReceivedDate, "an explicit received date is kept")
	assert.NotEqual(t, first.ID, second.ID)

	nextYear, err := svc.CreateInwardEntry(ctx, models.InwardEntry{
		InwardDate: "2025-01-02",
		Mode:       "Email",
		SenderName: "Dept of Finance",
		Subject:    "Circular",
		Status:     models.StatusPending,
	})
	require.NoError(t, err)

	assert.Equal(t, "INW/2025/0001", nextYear.InwardNo, "sequences restart for a new year")
}

func TestCreateInwardEntryRejectsBadDate(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateInwardEntry(context.Background(), models.InwardEntry{InwardDate: "15-03-2024"})
	assert.Error(t, err)
}

func TestCreateOutwardEntryAssignsNumber(t *testing.T) {
	svc := newTestService(t)

	entry, err := svc.CreateOutwardEntry(context.Background(), models.OutwardEntry{
		DispatchDate:  "2024-07-01",
		DispatchedBy:  "Suresh Kumar",
		RecipientName: "Dept of Finance",
		Subject:       "Budget Proposal 2024",
		Status:        models.StatusInTransit,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "OUT/2024/0001", entry.OutwardNo)
}

func TestCreateOutwardEntryReturnInvariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	testCases := []struct {
		name        string
		entry       models.OutwardEntry
		expectedErr error
	}{
		{
			name: "returned with full return info",
			entry: models.OutwardEntry{
				DispatchDate: "2024-07-01",
				Status:       models.StatusReturned,
				IsReturned:   true,
				ReturnDate:   "2024-07-05",
				ReturnReason: "addressee moved",
			},
		},
		{
			name: "returned flag without return date",
			entry: models.OutwardEntry{
				DispatchDate: "2024-07-01",
				Status:       models.StatusReturned,
				IsReturned:   true,
				ReturnReason: "addressee moved",
			},
			expectedErr: ErrInvalidReturnInfo,
		},
		{
			name: "returned flag without status",
			entry: models.OutwardEntry{
				DispatchDate: "2024-07-01",
				Status:       models.StatusDelivered,
				IsReturned:   true,
				ReturnDate:   "2024-07-05",
				ReturnReason: "addressee moved",
			},
			expectedErr: ErrInvalidReturnInfo,
		},
		{
			name: "return info without the flag",
			entry: models.OutwardEntry{
				DispatchDate: "2024-07-01",
				Status:       models.StatusReturned,
				IsReturned:   false,
				ReturnDate:   "2024-07-05",
				ReturnReason: "addressee moved",
			},
			expectedErr: ErrInvalidReturnInfo,
		},
		{
			name: "plain dispatch",
			entry: models.OutwardEntry{
				DispatchDate: "2024-07-01",
				Status:       models.StatusPending,
			},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := svc.CreateOutwardEntry(ctx, testCase.entry)
			if testCase.expectedErr != nil {
				assert.ErrorIs(t, err, testCase.expectedErr)

				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestGetSummary(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateInwardEntry(ctx, models.InwardEntry{InwardDate: "2024-01-10", Status: models.StatusPending})
	require.NoError(t, err)
	_, err = svc.CreateInwardEntry(ctx, models.InwardEntry{InwardDate: "2024-01-11", Status: models.StatusDelivered})
	require.NoError(t, err)
	_, err = svc.CreateOutwardEntry(ctx, models.OutwardEntry{DispatchDate: "2024-01-12", Status: models.StatusPending})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Inward)
	assert.Equal(t, int64(1), summary.Outward)
	assert.Equal(t, int64(2), summary.ByStatus[models.StatusPending])
	assert.Equal(t, int64(1), summary.ByStatus[models.StatusDelivered])
}

func TestMasterOperationsMapMissingIDs(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name := "renamed"
	_, err := svc.UpdateOffice(ctx, "no-such-id", models.OfficePatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.DeleteCourier(ctx, "no-such-id"), ErrNotFound)

	created, err := svc.CreateMode(ctx, models.Mode{Name: "Fax", IsActive: true})
	require.NoError(t, err)

	updated, err := svc.UpdateMode(ctx, created.ID, models.ModePatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)

	assert.NoError(t, svc.DeleteMode(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteMode(ctx, created.ID), ErrNotFound, "a second delete should miss")
}

func TestListMasters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, kind := range []models.MasterKind{models.KindOffices, models.KindModes, models.KindEntities, models.KindCouriers} {
		records, err := svc.ListMasters(ctx, kind)
		require.NoError(t, err)
		assert.NotEmpty(t, records)
	}

	_, err := svc.ListMasters(ctx, models.MasterKind("departments"))
	assert.Error(t, err)
}
