package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) {
	o.events = append(o.events, e)
}

func testClient(url string, obs Observer) *Client {
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.RetryInterval = time.Millisecond
	cfg.Timeout = 2 * time.Second
	return NewClient(cfg, obs)
}

func TestClient_ListIncidents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/incidencias", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"estado":"Pendiente","prioridad":"alta","responsable_id":4,"area":"Planta","modulo":"Envasado","descripcion":"Fuga"},
			{"id":2,"estado":"Resuelto","prioridad":"baja","responsable_id":null}]`))
	}))
	defer srv.Close()

	list, err := testClient(srv.URL, nil).ListIncidents(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, domain.StatusPending, list[0].Status)
	require.NotNil(t, list[0].AssigneeID)
	assert.Equal(t, int64(4), *list[0].AssigneeID)
	assert.Nil(t, list[1].AssigneeID)
}

func TestClient_GetRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	var mu sync.Mutex
	var ids []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ids = append(ids, r.Header.Get(RequestIDHeader))
		mu.Unlock()
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"id":9,"nombre":"Ana","email":"ana@example.test","rol":"gestor","estado":"activo"}`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	u, err := testClient(srv.URL, obs).GetUser(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, domain.RoleManager, u.Role)
	assert.Equal(t, int32(3), calls.Load())

	require.Len(t, obs.events, 1)
	assert.Equal(t, 3, obs.events[0].Attempts)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, ids[0], ids[2], "retries keep the request id")
}

func TestClient_GetDoesNotRetryNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "no existe", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, nil).GetIncident(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), calls.Load())

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "no existe", se.Body)
}

func TestClient_GetDoesNotRetryMalformedBody(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 5, "estado":`))
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	_, err := testClient(srv.URL, obs).GetIncident(context.Background(), 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBadResponse)
	assert.Equal(t, int32(1), calls.Load())
	require.Len(t, obs.events, 1)
	assert.Equal(t, 1, obs.events[0].Attempts)
	assert.Equal(t, "BAD_RESPONSE", obs.events[0].ErrorCode)
}

func TestClient_UpdateStatusSendsOnePut(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/incidencias/12/estado", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "En curso", body["estado"])
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	err := testClient(srv.URL, obs).UpdateStatus(context.Background(), 12, domain.StatusInProgress)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "writes are never retried")
	require.Len(t, obs.events, 1)
	assert.Equal(t, "HTTP_500", obs.events[0].ErrorCode)
}

func TestClient_UpdateStatusSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, testClient(srv.URL, nil).UpdateStatus(context.Background(), 1, domain.StatusResolved))
}

func TestClient_ListNotificationsSortsUnreadFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/notificaciones/usuario/3", r.URL.Path)
		w.Write([]byte(`[
			{"id":1,"usuario_id":3,"incidencia_id":1,"mensaje":"leída","leida":1,"fecha":"2026-05-02T10:00:00Z"},
			{"id":2,"usuario_id":3,"incidencia_id":1,"mensaje":"nueva","leida":0,"fecha":"2026-05-01T10:00:00Z"}]`))
	}))
	defer srv.Close()

	list, err := testClient(srv.URL, nil).ListNotifications(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "nueva", list[0].Message)
	assert.True(t, list[1].Read)
}

func TestClient_MarkNotificationRead(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/notificaciones/8/leida", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.NoError(t, testClient(srv.URL, nil).MarkNotificationRead(context.Background(), 8))
}

func TestClient_CreateIncidentDecodesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var in domain.Incident
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		in.ID = 31
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	inc := &domain.Incident{Description: "nueva", Status: domain.StatusPending}
	require.NoError(t, testClient(srv.URL, nil).CreateIncident(context.Background(), inc))
	assert.Equal(t, int64(31), inc.ID)
}

func TestClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.MaxRetries = 0
	_, err := NewClient(cfg, nil).ListIncidents(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Timeout = 50 * time.Millisecond
	err := NewClient(cfg, nil).UpdateStatus(context.Background(), 1, domain.StatusResolved)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestClient_Healthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	assert.True(t, testClient(srv.URL, nil).Healthy(context.Background()))
}
