package redisx

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/ariefcatur/go-storefront/internal/orders"
	"github.com/ariefcatur/go-storefront/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderCacheRoundTrip(t *testing.T) {
	rdb := testutil.Redis(t)
	cache := &OrderCache{RDB: rdb, TTL: time.Minute}
	ctx := context.Background()

	_, ok := cache.GetOrder(ctx, "o-1")
	assert.False(t, ok)

	owner := "alice"
	in := &orders.Order{
		ID:              "o-1",
		UserID:          &owner,
		ProductID:       "p1",
		Quantity:        2,
		UnitPrice:       money.MustParse("29.99"),
		TotalPrice:      money.MustParse("59.98"),
		CustomerInfo:    orders.CustomerInfo{Name: "A", Email: "a@x.com", Phone: "555"},
		ShippingAddress: orders.ShippingAddress{Street: "1 Rd", City: "C", State: "S", ZipCode: "000", Country: "India"},
		OrderStatus:     orders.StatusConfirmed,
		PaymentStatus:   orders.PaymentPending,
		CreatedAt:       time.Date(2025, 10, 7, 12, 0, 0, 0, time.UTC),
	}
	cache.SetOrder(ctx, in)

	out, ok := cache.GetOrder(ctx, "o-1")
	require.True(t, ok)
	assert.Equal(t, "alice", *out.UserID)
	assert.Equal(t, int64(5998), out.TotalPrice.Cents())
	assert.Equal(t, in.ShippingAddress, out.ShippingAddress)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))

	ttl, err := rdb.TTL(ctx, "order:o-1").Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
}

func TestClaimIsFirstWins(t *testing.T) {
	rdb := testutil.Redis(t)
	ctx := context.Background()

	ok, err := Claim(ctx, rdb, "dedup:test:e1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Claim(ctx, rdb, "dedup:test:e1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := rdb.Exists(ctx, "dedup:test:e1").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestDedupRelease(t *testing.T) {
	rdb := testutil.Redis(t)
	ctx := context.Background()
	d := &Dedup{RDB: rdb, Service: "inventory"}

	ok, err := d.Claim(ctx, "e1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.Claim(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, d.Release(ctx, "e1"))
	ok, err = d.Claim(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestStockSnapshotsSwap(t *testing.T) {
	rdb := testutil.Redis(t)
	ctx := context.Background()
	s := &StockSnapshots{RDB: rdb, TTL: time.Minute}

	_, had, err := s.Swap(ctx, "p1", 12)
	require.NoError(t, err)
	assert.False(t, had)

	prev, had, err := s.Swap(ctx, "p1", 7)
	require.NoError(t, err)
	require.True(t, had)
	assert.Equal(t, 12, prev)

	ttl, err := rdb.TTL(ctx, "product_stock:p1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, s.Forget(ctx, "p1"))
	_, had, err = s.Swap(ctx, "p1", 3)
	require.NoError(t, err)
	assert.False(t, had)
}
