package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, user_id, product_id, product_name, product_image, quantity, size,
	unit_price_cents, total_price_cents,
	customer_name, customer_email, customer_phone,
	shipping_street, shipping_city, shipping_state, shipping_zip_code, shipping_country,
	payment_method, order_status, payment_status, estimated_delivery, created_at`

// CreateOrder locks the product row (FOR UPDATE), checks and decrements stock
// with a conditional UPDATE, and inserts the order in the same transaction.
// Two concurrent calls for the last units serialize on the row lock; the
// second sees the reduced stock and fails with catalog.ErrInsufficientStock.
func (r *Repo) CreateOrder(ctx context.Context, productID string, qty int, build func(p catalog.Product) *Order) (*Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := catalog.LockProduct(ctx, tx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < qty {
		return nil, catalog.ErrInsufficientStock
	}
	ok, err := catalog.DecrementStock(ctx, tx, productID, qty)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, catalog.ErrInsufficientStock
	}

	o := build(p)
	if _, err := tx.Exec(ctx, `INSERT INTO orders (`+orderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		o.ID, o.UserID, o.ProductID, o.ProductName, o.ProductImage, o.Quantity, o.Size,
		o.UnitPrice.Cents(), o.TotalPrice.Cents(),
		o.CustomerInfo.Name, o.CustomerInfo.Email, o.CustomerInfo.Phone,
		o.ShippingAddress.Street, o.ShippingAddress.City, o.ShippingAddress.State,
		o.ShippingAddress.ZipCode, o.ShippingAddress.Country,
		o.PaymentMethod, string(o.OrderStatus), string(o.PaymentStatus), o.EstimatedDelivery, o.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return o, nil
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return o, nil
}

// ListOrders returns the orders of userID, or all orders when userID is
// empty, newest first.
func (r *Repo) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`
	var args []any
	if userID != "" {
		query += ` WHERE user_id = $1`
		args = append(args, userID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var (
		o                 Order
		unitCents, totals int64
		status, payStatus string
	)
	err := row.Scan(
		&o.ID, &o.UserID, &o.ProductID, &o.ProductName, &o.ProductImage, &o.Quantity, &o.Size,
		&unitCents, &totals,
		&o.CustomerInfo.Name, &o.CustomerInfo.Email, &o.CustomerInfo.Phone,
		&o.ShippingAddress.Street, &o.ShippingAddress.City, &o.ShippingAddress.State,
		&o.ShippingAddress.ZipCode, &o.ShippingAddress.Country,
		&o.PaymentMethod, &status, &payStatus, &o.EstimatedDelivery, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.UnitPrice = money.FromCents(unitCents)
	o.TotalPrice = money.FromCents(totals)
	o.OrderStatus = Status(status)
	o.PaymentStatus = PaymentStatus(payStatus)
	o.CreatedAt = o.CreatedAt.UTC()
	return &o, nil
}
