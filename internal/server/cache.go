package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"

	"github.com/alexanderramin/incidentboard/internal/domain"
	"github.com/alexanderramin/incidentboard/internal/service"
)

const incidentListKey = "incidents:all"

// Cache wraps a Backend with Redis read-through caching for incident and
// user reads. Writes go straight to the base and evict what they touch.
// Notification reads are never cached. A nil client or a zero TTL turns the
// cache into a pass-through.
type Cache struct {
	service.Backend
	redis *redis.Client
	ttl   time.Duration
}

func NewCache(base service.Backend, client *redis.Client, ttl time.Duration) *Cache {
	if base == nil {
		panic("server.NewCache: base backend is nil")
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{Backend: base, redis: client, ttl: ttl}
}

func (c *Cache) ListIncidents(ctx context.Context) ([]domain.Incident, error) {
	var list []domain.Incident
	if c.load(ctx, incidentListKey, &list) {
		return list, nil
	}
	list, err := c.Backend.ListIncidents(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, incidentListKey, list)
	return list, nil
}

func (c *Cache) GetIncident(ctx context.Context, id int64) (*domain.Incident, error) {
	var inc domain.Incident
	if c.load(ctx, incidentKey(id), &inc) {
		return &inc, nil
	}
	got, err := c.Backend.GetIncident(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, incidentKey(id), got)
	return got, nil
}

func (c *Cache) UpdateStatus(ctx context.Context, id int64, status domain.Status) error {
	if err := c.Backend.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	c.evict(ctx, incidentListKey, incidentKey(id))
	return nil
}

func (c *Cache) CreateIncident(ctx context.Context, inc *domain.Incident) error {
	if err := c.Backend.CreateIncident(ctx, inc); err != nil {
		return err
	}
	c.evict(ctx, incidentListKey)
	return nil
}

func (c *Cache) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if c.load(ctx, userKey(id), &u) {
		return &u, nil
	}
	got, err := c.Backend.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, userKey(id), got)
	return got, nil
}

func (c *Cache) CreateUser(ctx context.Context, u *domain.User) error {
	if err := c.Backend.CreateUser(ctx, u); err != nil {
		return err
	}
	c.evict(ctx, userKey(u.ID))
	return nil
}

// load reports a hit. Redis errors and undecodable entries count as a miss
// and drop the key.
func (c *Cache) load(ctx context.Context, key string, out any) bool {
	if c.redis == nil {
		return false
	}
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			_ = c.redis.Del(ctx, key).Err()
		}
		return false
	}
	if err := sonic.Unmarshal(data, out); err != nil {
		_ = c.redis.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *Cache) store(ctx context.Context, key string, v any) {
	if c.redis == nil || c.ttl == 0 {
		return
	}
	data, err := sonic.Marshal(v)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.ttl).Err()
}

func (c *Cache) evict(ctx context.Context, keys ...string) {
	if c.redis == nil {
		return
	}
	_, _ = c.redis.Del(ctx, keys...).Result()
}

func incidentKey(id int64) string {
	return fmt.Sprintf("incident:%d", id)
}

func userKey(id int64) string {
	return fmt.Sprintf("user:%d", id)
}
