package redisx

import "time"

const (
	// session:{session_id} -> hash {user_id, username}
	KeySession = "session:%s"

	// order:{order_id} -> order JSON. Orders are immutable, so entries only expire.
	KeyOrder = "order:%s"

	// product_stock:{product_id} -> last stock level seen by the inventory worker
	KeyProductStock = "product_stock:%s"

	// dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLSession      = 24 * time.Hour
	TTLOrderCache   = 10 * time.Minute
	TTLProductStock = 5 * time.Minute
	TTLDedup        = 48 * time.Hour
)
