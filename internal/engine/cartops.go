package engine

import (
	"context"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/product"
)

// AddToCart adds quantity units of the product to the cart. An existing line
// for the same product is incremented, never duplicated. When the resulting
// quantity would exceed the product's stock the line is clamped to the stock
// level, the clamp is committed and persisted, and the operation reports a
// stock failure. Quantities below 1 are treated as 1.
func (e *Engine) AddToCart(ctx context.Context, p product.Product, quantity int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.addLocked(ctx, p, quantity)
}

func (e *Engine) addLocked(ctx context.Context, p product.Product, quantity int) Result {
	if quantity < 1 {
		quantity = 1
	}

	if i := e.findLine(p.ID); i >= 0 {
		e.lines[i].Quantity += quantity
		if e.lines[i].Quantity > p.Stock {
			e.lines[i].Quantity = p.Stock
			e.persistCart(ctx)
			return fail(ErrStockExceeded, "Maximum stock reached!")
		}
		e.persistCart(ctx)
		return ok("Added to cart!")
	}

	if p.Stock < 1 {
		return fail(ErrStockExceeded, "Out of stock!")
	}

	line := cart.Line{Product: p, Quantity: quantity, AddedAt: e.now()}
	clamped := false
	if line.Quantity > p.Stock {
		line.Quantity = p.Stock
		clamped = true
	}
	e.lines = append(e.lines, line)
	e.persistCart(ctx)
	if clamped {
		return fail(ErrStockExceeded, "Maximum stock reached!")
	}
	return ok("Added to cart!")
}

// RemoveFromCart deletes the line for the given product id. Removing an
// absent line still succeeds.
func (e *Engine) RemoveFromCart(ctx context.Context, productID int64) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeLocked(ctx, productID)
}

func (e *Engine) removeLocked(ctx context.Context, productID int64) Result {
	if i := e.findLine(productID); i >= 0 {
		e.lines = append(e.lines[:i], e.lines[i+1:]...)
	}
	e.persistCart(ctx)
	return ok("Removed from cart!")
}

// UpdateQuantity sets the quantity of an existing cart line. Unlike
// AddToCart, a quantity beyond the product's current stock is rejected
// without touching the line. A quantity of zero or less removes the line.
// The stock check consults the live catalog; a product id missing from the
// catalog fails as not found.
func (e *Engine) UpdateQuantity(ctx context.Context, productID int64, quantity int) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.findLine(productID)
	if i < 0 {
		return fail(ErrNotFound, "Item not found!")
	}

	p, err := e.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return fail(ErrNotFound, "Product not found!")
		}
		return fail(errors.Wrap(err, "catalog lookup"), "Product not found!")
	}

	if quantity > p.Stock {
		return fail(ErrStockExceeded, "Exceeds available stock!")
	}
	if quantity <= 0 {
		return e.removeLocked(ctx, productID)
	}

	e.lines[i].Quantity = quantity
	e.persistCart(ctx)
	return ok("Quantity updated!")
}

// ClearCart empties the cart and drops the applied promo.
func (e *Engine) ClearCart(ctx context.Context) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearLocked(ctx)
	return ok("Cart cleared!")
}

func (e *Engine) clearLocked(ctx context.Context) {
	e.lines = nil
	e.applied = nil
	if err := e.gateway.RemovePromo(ctx); err != nil {
		e.lg.Warn("remove promo failed", zap.Error(err))
	}
	e.persistCart(ctx)
}

func (e *Engine) findLine(productID int64) int {
	for i, l := range e.lines {
		if l.ID == productID {
			return i
		}
	}
	return -1
}
