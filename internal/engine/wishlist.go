package engine

import (
	"context"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/product"
)

// AddToWishlist saves a product for later. The wishlist has set semantics:
// adding a product that is already present fails.
func (e *Engine) AddToWishlist(ctx context.Context, p product.Product) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.findWishlistEntry(p.ID) >= 0 {
		return fail(ErrAlreadyExists, "Already in wishlist!")
	}

	e.wishlist = append(e.wishlist, cart.WishlistEntry{Product: p, AddedAt: e.now()})
	e.persistWishlist(ctx)
	return ok("Added to wishlist!")
}

// RemoveFromWishlist deletes the entry for the given product id. Removing an
// absent entry still succeeds.
func (e *Engine) RemoveFromWishlist(ctx context.Context, productID int64) Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.removeWishlistLocked(ctx, productID)
}

func (e *Engine) removeWishlistLocked(ctx context.Context, productID int64) Result {
	if i := e.findWishlistEntry(productID); i >= 0 {
		e.wishlist = append(e.wishlist[:i], e.wishlist[i+1:]...)
	}
	e.persistWishlist(ctx)
	return ok("Removed from wishlist!")
}

// IsInWishlist reports whether the product is on the wishlist.
func (e *Engine) IsInWishlist(productID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.findWishlistEntry(productID) >= 0
}

// MoveToCart removes a product from the wishlist and adds its snapshot to
// the cart. The move is irreversible: when the add step hits the stock
// clamp, the wishlist removal has already happened and stays committed.
func (e *Engine) MoveToCart(ctx context.Context, productID int64) Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	i := e.findWishlistEntry(productID)
	if i < 0 {
		return fail(ErrNotFound, "Product not found!")
	}
	snapshot := e.wishlist[i].Product

	e.removeWishlistLocked(ctx, productID)
	return e.addLocked(ctx, snapshot, 1)
}

func (e *Engine) findWishlistEntry(productID int64) int {
	for i, entry := range e.wishlist {
		if entry.ID == productID {
			return i
		}
	}
	return -1
}
