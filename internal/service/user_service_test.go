package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser_ReusesExistingEmail(t *testing.T) {
	backend := NewLocalBackend(testutil.NewTestDB(t))
	ctx := context.Background()

	first := testutil.NewTestUser("Rosa", testutil.WithEmail("rosa@example.test"))
	require.NoError(t, backend.CreateUser(ctx, first))

	again := testutil.NewTestUser("Rosa bis", testutil.WithEmail(" rosa@example.test "))
	require.NoError(t, backend.CreateUser(ctx, again))
	assert.Equal(t, first.ID, again.ID)

	users, err := backend.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestCreateUser_Validation(t *testing.T) {
	backend := NewLocalBackend(testutil.NewTestDB(t))
	ctx := context.Background()

	err := backend.CreateUser(ctx, testutil.NewTestUser("Sin correo", testutil.WithEmail("")))
	assert.ErrorIs(t, err, ErrInvalidUser)

	err = backend.CreateUser(ctx, testutil.NewTestUser("Raro", testutil.WithRole(domain.Role("superuser"))))
	assert.ErrorIs(t, err, ErrInvalidUser)
}

func TestGetUser_NotFound(t *testing.T) {
	backend := NewLocalBackend(testutil.NewTestDB(t))

	_, err := backend.GetUser(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkNotificationRead(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	backend := NewLocalBackend(conn)

	owner := testutil.NewTestUser("Hugo")
	require.NoError(t, backend.CreateUser(ctx, owner))
	inc := testutil.NewTestIncident("x", testutil.WithAssignee(owner.ID))
	require.NoError(t, backend.CreateIncident(ctx, inc))
	require.NoError(t, backend.UpdateStatus(ctx, inc.ID, domain.StatusResolved))

	notes, err := backend.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, backend.MarkNotificationRead(ctx, notes[0].ID))
	notes, err = backend.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, notes[0].Read)

	assert.ErrorIs(t, backend.MarkNotificationRead(ctx, 999), ErrNotFound)
}
