package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/docreg/internal/auth"
	"github.com/patric-chuzhbe/docreg/internal/db/memorystorage"
	"github.com/patric-chuzhbe/docreg/internal/logger"
	"github.com/patric-chuzhbe/docreg/internal/models"
	"github.com/patric-chuzhbe/docreg/internal/router"
	"github.com/patric-chuzhbe/docreg/internal/service"
	"github.com/patric-chuzhbe/docreg/internal/session"
)

func newTestClient(t *testing.T) (*Client, *session.Manager) {
	require.NoError(t, logger.Init("debug"))

	theStorage, err := memorystorage.New()
	require.NoError(t, err)

	theAuth := auth.New(theStorage, "docreg_auth_test", []byte("0123456789abcdef"), time.Hour)
	server := httptest.NewServer(router.New(service.New(theStorage), theAuth))
	t.Cleanup(server.Close)

	sessions := session.New(filepath.Join(t.TempDir(), "session.json"))
	sessions.Restore()

	return New(server.URL, sessions), sessions
}

func TestLoginStoresTheSession(t *testing.T) {
	theClient, sessions := newTestClient(t)
	ctx := context.Background()

	_, err := theClient.Login(ctx, "nobody")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.False(t, sessions.IsAuthenticated())

	usr, err := theClient.Login(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, usr.Role)

	require.True(t, sessions.IsAuthenticated())
	current, ok := sessions.Current()
	require.True(t, ok)
	assert.Equal(t, usr.Token, current.Token)
}

func TestWhoamiUsesTheHeldSession(t *testing.T) {
	theClient, _ := newTestClient(t)
	ctx := context.Background()

	_, err := theClient.Whoami(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated, "whoami without a session should fail")

	_, err = theClient.Login(ctx, "operator")
	require.NoError(t, err)

	usr, err := theClient.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "operator", usr.Username)
	assert.Equal(t, models.RoleOperator, usr.Role)
}

func TestLogoutDropsTheSession(t *testing.T) {
	theClient, sessions := newTestClient(t)
	ctx := context.Background()

	assert.ErrorIs(t, theClient.Logout(ctx), ErrUnauthenticated)

	_, err := theClient.Login(ctx, "operator")
	require.NoError(t, err)

	require.NoError(t, theClient.Logout(ctx))
	assert.False(t, sessions.IsAuthenticated())
}

func TestMasterCallsRequireTheAdminRole(t *testing.T) {
	theClient, _ := newTestClient(t)
	ctx := context.Background()

	_, err := theClient.Login(ctx, "operator")
	require.NoError(t, err)

	records, err := theClient.ListMasters(ctx, models.KindModes)
	require.NoError(t, err)
	assert.NotEmpty(t, records)

	_, err = theClient.CreateMaster(ctx, models.KindModes, models.Mode{Name: "Fax"})
	assert.Error(t, err, "an operator should not create master records")

	_, err = theClient.Login(ctx, "admin")
	require.NoError(t, err)

	created, err := theClient.CreateMaster(ctx, models.KindModes, models.Mode{Name: "Fax", IsActive: true})
	require.NoError(t, err)
	id, ok := created["id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, id)

	updated, err := theClient.UpdateMaster(ctx, models.KindModes, id, map[string]interface{}{"remarks": "rarely used"})
	require.NoError(t, err)
	assert.Equal(t, "rarely used", updated["remarks"])

	require.NoError(t, theClient.DeleteMaster(ctx, models.KindModes, id))
	assert.Error(t, theClient.DeleteMaster(ctx, models.KindModes, id), "a second delete should miss")
}

func TestEntryRoundTrip(t *testing.T) {
	theClient, _ := newTestClient(t)
	ctx := context.Background()

	_, err := theClient.Login(ctx, "admin")
	require.NoError(t, err)

	inward, err := theClient.CreateInwardEntry(ctx, models.InwardEntry{
		InwardDate: "2024-04-01",
		Mode:       "Post",
		SenderName: "Acme Corp",
		Subject:    "Tender Documents",
		Status:     models.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "INW/2024/0001", inward.Number)

	outward, err := theClient.CreateOutwardEntry(ctx, models.OutwardEntry{
		DispatchDate:  "2024-04-02",
		DispatchedBy:  "Suresh Kumar",
		RecipientName: "Acme Corp",
		Subject:       "Tender Reply",
		Status:        models.StatusInTransit,
	})
	require.NoError(t, err)
	assert.Equal(t, "OUT/2024/0001", outward.Number)

	entries, err := theClient.ListInwardRegister(ctx, models.EntryFilter{Mode: "Post"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, inward.ID, entries[0].ID)

	dispatched, err := theClient.ListOutwardRegister(ctx, models.EntryFilter{})
	require.NoError(t, err)
	require.Len(t, dispatched, 1)

	summaries, err := theClient.Search(ctx, models.EntryFilter{Query: "tender"})
	require.NoError(t, err)
	assert.Len(t, summaries, 2)
}
