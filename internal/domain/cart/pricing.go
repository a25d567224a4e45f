package cart

import (
	"github.com/shopspring/decimal"

	"github.com/xelkar/shopcart/internal/domain/promo"
)

// PricingConfig holds the fixed constants of the pricing pipeline.
type PricingConfig struct {
	// FreeShippingThreshold is the subtotal at or above which shipping is free.
	FreeShippingThreshold decimal.Decimal
	// ShippingCost is the flat shipping cost below the threshold.
	ShippingCost decimal.Decimal
	// TaxRate is applied to the discounted subtotal. Shipping is not taxed.
	TaxRate decimal.Decimal
}

// DefaultPricing returns the stock pricing constants: free shipping from
// 5000, flat 99 shipping below that, 18% tax.
func DefaultPricing() PricingConfig {
	return PricingConfig{
		FreeShippingThreshold: decimal.NewFromInt(5000),
		ShippingCost:          decimal.NewFromInt(99),
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

// Summary is the derived pricing breakdown for a cart. It is recomputed from
// the current lines and promo on every query, never cached.
type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Discount     decimal.Decimal `json:"discount"`
	Shipping     decimal.Decimal `json:"shipping"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"itemCount"`
	AppliedPromo *promo.Applied  `json:"appliedPromo,omitempty"`
}

// ComputeSummary runs the pricing pipeline over the given lines:
//
//	subtotal = Σ price × quantity (snapshot prices)
//	discount = promo output, bounded to [0, subtotal]
//	shipping = 0 when subtotal ≥ threshold, else flat cost
//	tax      = (subtotal − discount) × rate
//	total    = subtotal − discount + shipping + tax
//
// Discount and tax are rounded to 2 decimal places when computed, so the
// total identity holds exactly over the returned components.
func ComputeSummary(lines []Line, applied *promo.Applied, cfg PricingConfig) (Summary, error) {
	subtotal := Subtotal(lines)

	discount, err := promo.Apply(applied, subtotal)
	if err != nil {
		return Summary{}, err
	}

	shipping := cfg.ShippingCost
	if len(lines) == 0 || subtotal.GreaterThanOrEqual(cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Sub(discount).Mul(cfg.TaxRate).Round(2)
	total := subtotal.Sub(discount).Add(shipping).Add(tax)

	return Summary{
		Subtotal:     subtotal,
		Discount:     discount,
		Shipping:     shipping,
		Tax:          tax,
		Total:        total,
		ItemCount:    ItemCount(lines),
		AppliedPromo: applied,
	}, nil
}
