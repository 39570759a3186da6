package orders

import (
	"encoding/json"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
)

const (
	EventOrderPlaced     = "OrderPlaced"
	EventProductStockLow = "ProductStockLow"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id or product_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID    string       `json:"order_id"`
	UserID     *string      `json:"user_id"`
	ProductID  string       `json:"product_id"`
	Quantity   int          `json:"quantity"`
	Size       string       `json:"size"`
	UnitPrice  money.Amount `json:"unit_price"`
	TotalPrice money.Amount `json:"total_price"`
	CreatedAt  time.Time    `json:"created_at"`
}

type ProductStockLowPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Threshold int    `json:"threshold"`
	OrderID   string `json:"order_id,omitempty"` // order that triggered the check
}
