package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/triorate/triorate-backend/internal/app/model"
	"github.com/triorate/triorate-backend/pkg/logger"
)

// EntityCache keeps the per-kind entity lists in Redis so the list
// endpoints don't hit the database on every page load. Mutations
// invalidate; the scheduler re-warms.
type EntityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEntityCache(client *redis.Client, ttl time.Duration) *EntityCache {
	return &EntityCache{client: client, ttl: ttl}
}

func listKey(kind model.Kind) string {
	return fmt.Sprintf("entities:%s", kind)
}

// GetList returns the cached list for a kind, or (nil, false) on a miss.
func (c *EntityCache) GetList(ctx context.Context, kind model.Kind) (json.RawMessage, bool) {
	data, err := c.client.Get(ctx, listKey(kind)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("Entity cache read failed", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
		return nil, false
	}
	return json.RawMessage(data), true
}

// SetList stores the list for a kind.
func (c *EntityCache) SetList(ctx context.Context, kind model.Kind, list interface{}) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listKey(kind), data, c.ttl).Err()
}

// Invalidate drops the cached list for a kind. Called after every mutation
// so clients re-fetching lists see the new state immediately.
func (c *EntityCache) Invalidate(ctx context.Context, kind model.Kind) {
	if err := c.client.Del(ctx, listKey(kind)).Err(); err != nil {
		logger.Warn("Entity cache invalidation failed", map[string]interface{}{
			"kind":  string(kind),
			"error": err.Error(),
		})
	}
}
