package engine

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xelkar/shopcart/internal/domain/promo"
)

// ApplyPromoCode looks up the code (case-insensitively) in the promo table
// and attaches it to the cart, replacing any previously applied promo.
func (e *Engine) ApplyPromoCode(ctx context.Context, code string) Result {
	rule, err := e.promos.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, promo.ErrInvalidCode) {
			return fail(promo.ErrInvalidCode, "Invalid promo code!")
		}
		return fail(errors.Wrap(err, "promo lookup"), "Invalid promo code!")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.applied = &promo.Applied{
		Code:        rule.Code,
		Type:        rule.Type,
		Value:       rule.Value,
		Description: rule.Description,
		AppliedAt:   e.now(),
	}
	if err := e.gateway.SavePromo(ctx, e.applied); err != nil {
		e.lg.Warn("persist promo failed", zap.Error(err))
	}
	return ok("Promo code applied! " + rule.Description)
}

// RemovePromoCode detaches the applied promo, if any.
func (e *Engine) RemovePromoCode(ctx context.Context) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.applied = nil
	if err := e.gateway.RemovePromo(ctx); err != nil {
		e.lg.Warn("remove promo failed", zap.Error(err))
	}
	return ok("Promo code removed!")
}
