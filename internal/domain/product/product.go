package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase. The engine
// treats products as immutable reference data owned by the catalog.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image,omitempty"`
	Rating        float64         `json:"rating"`
	Reviews       int             `json:"reviews"`
	Stock         int             `json:"stock"`
	Description   string          `json:"description,omitempty"`
}

// Catalog defines read operations over the product reference data.
type Catalog interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
}
