// Package storage implements the persistence gateway: a key-value store
// holding JSON documents for the cart, wishlist, orders, applied promo and
// preferences, plus typed accessors over it.
package storage

import (
	"context"

	"github.com/go-faster/errors"
)

// Logical keys under which the engine persists its state documents.
const (
	KeyCart        = "cart"
	KeyWishlist    = "wishlist"
	KeyOrders      = "orders"
	KeyPromoCode   = "promoCode"
	KeyPreferences = "preferences"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("key not found")

// Store is a durable key-value store for JSON documents. Implementations
// must tolerate repeated Set calls for the same key (upsert semantics) and
// treat Remove of an absent key as success.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

var _ Store = Discard{}

// Discard is the degraded-mode store used when no durable storage is
// available: every read reports absence and every write silently succeeds
// without persisting anything.
type Discard struct{}

func (Discard) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }
func (Discard) Set(context.Context, string, []byte) error   { return nil }
func (Discard) Remove(context.Context, string) error        { return nil }
