package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedup remembers processed event ids per consuming service.
type Dedup struct {
	RDB     *redis.Client
	Service string
	TTL     time.Duration
}

// Claim reports true the first time eventID is seen.
func (d *Dedup) Claim(ctx context.Context, eventID string) (bool, error) {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = TTLDedup
	}
	return Claim(ctx, d.RDB, fmt.Sprintf(KeyDedup, d.Service, eventID), ttl)
}

// Release forgets eventID so a redelivery is processed again.
func (d *Dedup) Release(ctx context.Context, eventID string) error {
	return d.RDB.Del(ctx, fmt.Sprintf(KeyDedup, d.Service, eventID)).Err()
}

// StockSnapshots holds the last stock level read for each product.
type StockSnapshots struct {
	RDB *redis.Client
	TTL time.Duration
}

func (s *StockSnapshots) Forget(ctx context.Context, productID string) error {
	return s.RDB.Del(ctx, fmt.Sprintf(KeyProductStock, productID)).Err()
}

// Swap stores stock and returns the snapshot it replaced, if any, in one
// SET ... GET round trip.
func (s *StockSnapshots) Swap(ctx context.Context, productID string, stock int) (int, bool, error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = TTLProductStock
	}
	prev, err := s.RDB.SetArgs(ctx, fmt.Sprintf(KeyProductStock, productID), stock, redis.SetArgs{TTL: ttl, Get: true}).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.Atoi(prev)
	if err != nil {
		return 0, false, fmt.Errorf("stock snapshot %s: %w", productID, err)
	}
	return n, true, nil
}
