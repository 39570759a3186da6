package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/jackc/pgx/v5"
)

type Repo struct{ DB postgres.DBTX }

const productColumns = `id, name, description, price_cents, category_id, category_name, image_url, stock, created_at`

func (r *Repo) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.DB.Query(ctx, `SELECT id, name, image_url, created_at FROM categories ORDER BY created_at, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.ImageURL, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListProducts returns every product, or only those of categoryID when it is
// not empty.
func (r *Repo) ListProducts(ctx context.Context, categoryID string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	var args []any
	if categoryID != "" {
		query += ` WHERE category_id = $1`
		args = append(args, categoryID)
	}
	query += ` ORDER BY created_at, name`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (Product, error) {
	return getProduct(ctx, r.DB, id, false)
}

// LockProduct reads the product row with FOR UPDATE. q must be a transaction;
// the lock is held until it ends.
func LockProduct(ctx context.Context, q postgres.DBTX, id string) (Product, error) {
	return getProduct(ctx, q, id, true)
}

// DecrementStock removes qty units only when at least qty are available.
// It reports false, without error, when the row was left untouched.
func DecrementStock(ctx context.Context, q postgres.DBTX, id string, qty int) (bool, error) {
	ct, err := q.Exec(ctx, `UPDATE products SET stock = stock - $2 WHERE id = $1 AND stock >= $2`, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return ct.RowsAffected() == 1, nil
}

func getProduct(ctx context.Context, q postgres.DBTX, id string, forUpdate bool) (Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	p, err := scanProduct(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var (
		p     Product
		cents int64
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &cents, &p.CategoryID, &p.CategoryName, &p.ImageURL, &p.Stock, &p.CreatedAt)
	if err != nil {
		return Product{}, err
	}
	p.Price = money.FromCents(cents)
	return p, nil
}

func insertProduct(ctx context.Context, q postgres.DBTX, p Product) (bool, error) {
	ct, err := q.Exec(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name) DO NOTHING`,
		p.ID, p.Name, p.Description, p.Price.Cents(), p.CategoryID, p.CategoryName, p.ImageURL, p.Stock, p.CreatedAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
