package catalog

import (
	"errors"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Price        money.Amount `json:"price"`
	CategoryID   string       `json:"category_id"`
	CategoryName string       `json:"category_name"`
	ImageURL     string       `json:"image_url"`
	Stock        int          `json:"stock"`
	CreatedAt    time.Time    `json:"created_at"`
}
