package server

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
)

// countingBackend serves a fixed incident and counts reads.
type countingBackend struct {
	service.Backend
	listCalls int
	getCalls  int
	userCalls int
	status    domain.Status
	failWrite error
}

func (b *countingBackend) ListIncidents(context.Context) ([]domain.Incident, error) {
	b.listCalls++
	return []domain.Incident{{ID: 1, Status: b.status}}, nil
}

func (b *countingBackend) GetIncident(_ context.Context, id int64) (*domain.Incident, error) {
	b.getCalls++
	if id != 1 {
		return nil, service.ErrNotFound
	}
	return &domain.Incident{ID: 1, Status: b.status}, nil
}

func (b *countingBackend) UpdateStatus(_ context.Context, _ int64, s domain.Status) error {
	if b.failWrite != nil {
		return b.failWrite
	}
	b.status = s
	return nil
}

func (b *countingBackend) GetUser(_ context.Context, id int64) (*domain.User, error) {
	b.userCalls++
	return &domain.User{ID: id, Name: "Ana", Role: domain.RoleAdmin}, nil
}

func newTestCache(t *testing.T, base service.Backend, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(base, client, ttl), mr
}

func TestCache_ListMissThenHit(t *testing.T) {
	base := &countingBackend{status: domain.StatusPending}
	cache, mr := newTestCache(t, base, time.Minute)
	ctx := context.Background()

	first, err := cache.ListIncidents(ctx)
	require.NoError(t, err)
	second, err := cache.ListIncidents(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, base.listCalls)
	ttl := mr.TTL(incidentListKey)
	assert.True(t, ttl > 0 && ttl <= time.Minute, "unexpected TTL %v", ttl)
}

func TestCache_UpdateStatusEvicts(t *testing.T) {
	base := &countingBackend{status: domain.StatusPending}
	cache, mr := newTestCache(t, base, time.Minute)
	ctx := context.Background()

	_, err := cache.ListIncidents(ctx)
	require.NoError(t, err)
	_, err = cache.GetIncident(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, cache.UpdateStatus(ctx, 1, domain.StatusResolved))
	assert.False(t, mr.Exists(incidentListKey))
	assert.False(t, mr.Exists(incidentKey(1)))

	inc, err := cache.GetIncident(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusResolved, inc.Status)
	assert.Equal(t, 2, base.getCalls)
}

func TestCache_FailedWriteKeepsEntries(t *testing.T) {
	base := &countingBackend{status: domain.StatusPending, failWrite: errors.New("down")}
	cache, mr := newTestCache(t, base, time.Minute)
	ctx := context.Background()

	_, err := cache.ListIncidents(ctx)
	require.NoError(t, err)

	require.Error(t, cache.UpdateStatus(ctx, 1, domain.StatusResolved))
	assert.True(t, mr.Exists(incidentListKey))
}

func TestCache_NotFoundIsNotCached(t *testing.T) {
	base := &countingBackend{}
	cache, mr := newTestCache(t, base, time.Minute)

	_, err := cache.GetIncident(context.Background(), 2)
	assert.ErrorIs(t, err, service.ErrNotFound)
	assert.False(t, mr.Exists(incidentKey(2)))
}

func TestCache_CorruptEntryFallsBack(t *testing.T) {
	base := &countingBackend{}
	cache, mr := newTestCache(t, base, time.Minute)
	require.NoError(t, mr.Set(userKey(4), "{not json"))

	u, err := cache.GetUser(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, 1, base.userCalls)
}

func TestCache_ZeroTTLPassesThrough(t *testing.T) {
	base := &countingBackend{}
	cache, mr := newTestCache(t, base, 0)
	ctx := context.Background()

	_, _ = cache.GetUser(ctx, 4)
	_, _ = cache.GetUser(ctx, 4)
	assert.Equal(t, 2, base.userCalls)
	assert.False(t, mr.Exists(userKey(4)))
}

func TestCache_NilClient(t *testing.T) {
	base := &countingBackend{}
	cache := NewCache(base, nil, time.Minute)

	_, err := cache.ListIncidents(context.Background())
	require.NoError(t, err)
	_, err = cache.ListIncidents(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, base.listCalls)
}
