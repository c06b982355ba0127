package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/repository"
	"github.com/alexanderramin/incidentboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []UseCaseEvent
}

func (o *recordingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func TestUpdateStatus_NotifiesAssignee(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	obs := &recordingObserver{}
	backend := NewLocalBackend(conn, obs)

	owner := testutil.NewTestUser("Irene")
	require.NoError(t, backend.CreateUser(ctx, owner))
	inc := testutil.NewTestIncident("Cinta parada", testutil.WithAssignee(owner.ID))
	require.NoError(t, backend.CreateIncident(ctx, inc))

	require.NoError(t, backend.UpdateStatus(ctx, inc.ID, domain.StatusInProgress))

	got, err := backend.GetIncident(ctx, inc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, got.Status)

	notes, err := backend.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, StatusChangeMessage(inc.ID, domain.StatusInProgress), notes[0].Message)
	assert.Equal(t, inc.ID, notes[0].IncidentID)
	assert.False(t, notes[0].Read)

	last := obs.events[len(obs.events)-1]
	assert.Equal(t, "update-status", last.Name)
	assert.True(t, last.Success)
	assert.Equal(t, owner.ID, last.Fields["notified"])
}

func TestUpdateStatus_SameStatusDoesNotNotify(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	backend := NewLocalBackend(conn)

	owner := testutil.NewTestUser("Irene")
	require.NoError(t, backend.CreateUser(ctx, owner))
	inc := testutil.NewTestIncident("x", testutil.WithAssignee(owner.ID))
	require.NoError(t, backend.CreateIncident(ctx, inc))

	require.NoError(t, backend.UpdateStatus(ctx, inc.ID, domain.StatusPending))

	notes, err := backend.ListNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestUpdateStatus_UnassignedIncident(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	backend := NewLocalBackend(conn)

	inc := testutil.NewTestIncident("x")
	require.NoError(t, backend.CreateIncident(ctx, inc))

	assert.NoError(t, backend.UpdateStatus(ctx, inc.ID, domain.StatusResolved))
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	conn := testutil.NewTestDB(t)
	obs := &recordingObserver{}
	backend := NewLocalBackend(conn, obs)

	err := backend.UpdateStatus(context.Background(), 1, domain.Status("Cerrado"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
}

func TestUpdateStatus_Missing(t *testing.T) {
	backend := NewLocalBackend(testutil.NewTestDB(t))

	err := backend.UpdateStatus(context.Background(), 77, domain.StatusResolved)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_RollsBackWhenNotificationFails(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	backend := NewLocalBackend(conn)

	owner := testutil.NewTestUser("Irene")
	require.NoError(t, backend.CreateUser(ctx, owner))
	inc := testutil.NewTestIncident("x", testutil.WithAssignee(owner.ID))
	require.NoError(t, backend.CreateIncident(ctx, inc))

	boom := errors.New("disk full")
	svc := NewIncidentService(
		repository.NewSQLiteIncidentRepo(conn),
		&testutil.FailingExecUoW{DB: conn, Match: "INSERT INTO notifications", FailOn: 1, Err: boom},
	)
	err := svc.UpdateStatus(ctx, inc.ID, domain.StatusResolved)
	require.ErrorIs(t, err, boom)

	got, err := backend.GetIncident(ctx, inc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestListIncidents_ReturnsValues(t *testing.T) {
	conn := testutil.NewTestDB(t)
	ctx := context.Background()
	backend := NewLocalBackend(conn)

	require.NoError(t, backend.CreateIncident(ctx, testutil.NewTestIncident("a")))
	require.NoError(t, backend.CreateIncident(ctx, testutil.NewTestIncident("b", testutil.WithStatus(domain.StatusResolved))))

	list, err := backend.ListIncidents(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateIncident_RejectsUnknownStatus(t *testing.T) {
	backend := NewLocalBackend(testutil.NewTestDB(t))

	err := backend.CreateIncident(context.Background(), testutil.NewTestIncident("x", testutil.WithStatus("Cerrado")))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
