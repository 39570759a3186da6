package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// OrderCache stores orders as JSON. Failures are logged and treated as misses.
type OrderCache struct {
	RDB *redis.Client
	TTL time.Duration
	Log *zap.Logger
}

func (c *OrderCache) GetOrder(ctx context.Context, id string) (*orders.Order, bool) {
	b, err := c.RDB.Get(ctx, fmt.Sprintf(KeyOrder, id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger().Warn("order cache get", zap.String("order_id", id), zap.Error(err))
		}
		return nil, false
	}
	var o orders.Order
	if err := json.Unmarshal(b, &o); err != nil {
		c.logger().Warn("order cache decode", zap.String("order_id", id), zap.Error(err))
		return nil, false
	}
	return &o, true
}

func (c *OrderCache) SetOrder(ctx context.Context, o *orders.Order) {
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = TTLOrderCache
	}
	if err := c.RDB.Set(ctx, fmt.Sprintf(KeyOrder, o.ID), b, ttl).Err(); err != nil {
		c.logger().Warn("order cache set", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (c *OrderCache) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
