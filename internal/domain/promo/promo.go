package promo

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported promo discount strategies.
type DiscountType string

const (
	// DiscountPercentage applies a percentage-based discount to the subtotal.
	DiscountPercentage DiscountType = "percentage"
	// DiscountFixed applies a fixed monetary discount capped at the subtotal.
	DiscountFixed DiscountType = "fixed"
)

// ErrInvalidCode is returned when a promo code is not found in the rule table.
var ErrInvalidCode = errors.New("invalid promo code")

// Rule defines a promo code's discount behaviour. Rules are reference data:
// the engine never creates or mutates them.
type Rule struct {
	Code        string          `json:"code"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"discount"`
	Description string          `json:"description"`
}

// Applied is the promo currently attached to a cart. At most one is active;
// the code is stored upper-cased.
type Applied struct {
	Code        string          `json:"code"`
	Type        DiscountType    `json:"type"`
	Value       decimal.Decimal `json:"discount"`
	Description string          `json:"description"`
	AppliedAt   time.Time       `json:"appliedAt"`
}

// Repository provides lookup of promo rules by their code.
// Lookups are case-insensitive.
type Repository interface {
	FindByCode(ctx context.Context, code string) (*Rule, error)
}
