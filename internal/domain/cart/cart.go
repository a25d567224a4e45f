// Package cart holds the cart data model and the pricing pipeline that
// derives an order summary from cart lines and an applied promo.
package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/xelkar/shopcart/internal/domain/product"
)

// Line is a single cart entry: a snapshot of the product taken at add-time
// plus the requested quantity. Prices are locked at add-time; later catalog
// price changes do not affect lines already in the cart.
type Line struct {
	product.Product
	Quantity int       `json:"quantity"`
	AddedAt  time.Time `json:"addedAt"`
}

// LineTotal returns price × quantity for this line.
func (l Line) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// WishlistEntry is a product saved for later. Entries have set semantics
// on the product id.
type WishlistEntry struct {
	product.Product
	AddedAt time.Time `json:"addedAt"`
}

// Subtotal returns the sum of line totals across all lines.
func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.LineTotal())
	}
	return sum
}

// ItemCount returns the sum of quantities across all lines.
func ItemCount(lines []Line) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}
