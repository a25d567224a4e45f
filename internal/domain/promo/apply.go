package promo

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Apply calculates the discount the applied promo grants for the given
// subtotal. The result is always within [0, subtotal] and rounded to
// 2 decimal places. A nil promo grants no discount.
func Apply(p *Applied, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if p == nil {
		return decimal.Zero, nil
	}

	var amount decimal.Decimal
	switch p.Type {
	case DiscountPercentage:
		amount = subtotal.Mul(p.Value).Div(hundred)
	case DiscountFixed:
		amount = decimal.Min(p.Value, subtotal)
	default:
		return decimal.Zero, errors.Errorf("unsupported discount type: %q", p.Type)
	}

	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2), nil
}
