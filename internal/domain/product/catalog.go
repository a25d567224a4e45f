package product

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
)

var _ Catalog = (*StaticCatalog)(nil)

// StaticCatalog is an in-memory Catalog backed by a fixed product list,
// typically loaded from the embedded seed data at startup.
type StaticCatalog struct {
	products []Product
	byID     map[int64]int
}

// NewStaticCatalog builds a catalog from the given products. Later entries
// with a duplicate id override earlier ones.
func NewStaticCatalog(products []Product) *StaticCatalog {
	byID := make(map[int64]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}
	return &StaticCatalog{products: products, byID: byID}
}

// LoadCatalog parses a JSON array of products into a StaticCatalog.
func LoadCatalog(data []byte) (*StaticCatalog, error) {
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	return NewStaticCatalog(products), nil
}

// List returns a copy of every product in the catalog.
func (c *StaticCatalog) List(_ context.Context) ([]Product, error) {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out, nil
}

// GetByID returns the product with the given id, or ErrNotFound.
func (c *StaticCatalog) GetByID(_ context.Context, id int64) (*Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	p := c.products[i]
	return &p, nil
}
