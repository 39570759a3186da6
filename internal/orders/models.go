package orders

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
)

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type ShippingAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

// Order is stored as one flat row; CustomerInfo and ShippingAddress are
// nested only in its JSON form.
type Order struct {
	ID                string          `json:"id"`
	UserID            *string         `json:"user_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductImage      string          `json:"product_image"`
	Quantity          int             `json:"quantity"`
	Size              string          `json:"size"`
	UnitPrice         money.Amount    `json:"unit_price"`
	TotalPrice        money.Amount    `json:"total_price"`
	CustomerInfo      CustomerInfo    `json:"customer_info"`
	ShippingAddress   ShippingAddress `json:"shipping_address"`
	PaymentMethod     string          `json:"payment_method"`
	OrderStatus       Status          `json:"order_status"`
	PaymentStatus     PaymentStatus   `json:"payment_status"`
	EstimatedDelivery string          `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
}

// deniedTo reports whether an authenticated caller is looking at an order
// owned by someone else. Anonymous callers and unowned orders always pass.
func (o *Order) deniedTo(userID string) bool {
	return o.UserID != nil && userID != "" && *o.UserID != userID
}

type PlaceOrderRequest struct {
	ProductID       string           `json:"product_id"`
	Quantity        int              `json:"quantity"`
	Size            string           `json:"size"`
	CustomerInfo    *CustomerInfo    `json:"customer_info"`
	ShippingAddress *ShippingAddress `json:"shipping_address"`
}

// UnmarshalJSON accepts quantity as a JSON integer or as a numeric string.
func (r *PlaceOrderRequest) UnmarshalJSON(b []byte) error {
	type plain PlaceOrderRequest
	aux := struct {
		*plain
		Quantity json.RawMessage `json:"quantity"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	q, err := parseQuantity(aux.Quantity)
	if err != nil {
		return err
	}
	r.Quantity = q
	return nil
}

func parseQuantity(raw json.RawMessage) (int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}
	if raw[0] != '"' {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return 0, fmt.Errorf("quantity: %w", err)
		}
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("quantity: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("quantity %q is not an integer", s)
	}
	return n, nil
}

// Validate checks required fields in a fixed order and reports the first
// one that fails.
func (r PlaceOrderRequest) Validate() error {
	switch {
	case r.ProductID == "":
		return &ValidationError{Field: "product_id"}
	case r.Quantity == 0:
		return &ValidationError{Field: "quantity"}
	case r.Quantity < 0:
		return &ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	case r.Size == "":
		return &ValidationError{Field: "size"}
	case r.CustomerInfo == nil || *r.CustomerInfo == (CustomerInfo{}):
		return &ValidationError{Field: "customer_info"}
	case r.ShippingAddress == nil || *r.ShippingAddress == (ShippingAddress{}):
		return &ValidationError{Field: "shipping_address"}
	}

	nested := []struct{ field, value string }{
		{"customer_info.name", r.CustomerInfo.Name},
		{"customer_info.email", r.CustomerInfo.Email},
		{"customer_info.phone", r.CustomerInfo.Phone},
		{"shipping_address.street", r.ShippingAddress.Street},
		{"shipping_address.city", r.ShippingAddress.City},
		{"shipping_address.state", r.ShippingAddress.State},
		{"shipping_address.zip_code", r.ShippingAddress.ZipCode},
	}
	for _, n := range nested {
		if n.value == "" {
			return &ValidationError{Field: n.field}
		}
	}
	return nil
}
