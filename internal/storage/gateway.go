package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/order"
	"github.com/xelkar/shopcart/internal/domain/promo"
)

// Preferences are per-session display settings. They ride along in the
// persisted state and in exports but the engine never interprets them.
type Preferences struct {
	Theme         string `json:"theme"`
	Currency      string `json:"currency"`
	Notifications bool   `json:"notifications"`
}

// DefaultPreferences returns the preferences used when none are stored.
func DefaultPreferences() Preferences {
	return Preferences{Theme: "light", Currency: "INR", Notifications: true}
}

// Snapshot is the full persisted state of one session, used for backup
// export and restore. Its JSON encoding is the schema an export file must
// round-trip.
type Snapshot struct {
	Cart        []cart.Line          `json:"cart"`
	Wishlist    []cart.WishlistEntry `json:"wishlist"`
	Orders      []order.Order        `json:"orders"`
	PromoCode   *promo.Applied       `json:"promoCode,omitempty"`
	Preferences Preferences          `json:"preferences"`
	ExportDate  time.Time            `json:"exportDate"`
}

// Gateway wraps a Store with typed accessors for each state document.
// Absent keys load as empty values, never as errors.
type Gateway struct {
	store Store
}

// NewGateway returns a Gateway over the given store. Pass Discard{} to run
// without durable storage.
func NewGateway(store Store) *Gateway {
	return &Gateway{store: store}
}

func load[T any](ctx context.Context, s Store, key string, out *T) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return errors.Wrapf(err, "load %s", key)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(err, "decode %s", key)
	}
	return nil
}

func save(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key)
	}
	if err := s.Set(ctx, key, data); err != nil {
		return errors.Wrapf(err, "save %s", key)
	}
	return nil
}

// LoadCart returns the persisted cart lines, or an empty cart.
func (g *Gateway) LoadCart(ctx context.Context) ([]cart.Line, error) {
	var lines []cart.Line
	err := load(ctx, g.store, KeyCart, &lines)
	return lines, err
}

// SaveCart persists the cart lines.
func (g *Gateway) SaveCart(ctx context.Context, lines []cart.Line) error {
	return save(ctx, g.store, KeyCart, lines)
}

// LoadWishlist returns the persisted wishlist, or an empty one.
func (g *Gateway) LoadWishlist(ctx context.Context) ([]cart.WishlistEntry, error) {
	var entries []cart.WishlistEntry
	err := load(ctx, g.store, KeyWishlist, &entries)
	return entries, err
}

// SaveWishlist persists the wishlist entries.
func (g *Gateway) SaveWishlist(ctx context.Context, entries []cart.WishlistEntry) error {
	return save(ctx, g.store, KeyWishlist, entries)
}

// LoadOrders returns the persisted order history, newest first.
func (g *Gateway) LoadOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := load(ctx, g.store, KeyOrders, &orders)
	return orders, err
}

// SaveOrders persists the order history.
func (g *Gateway) SaveOrders(ctx context.Context, orders []order.Order) error {
	return save(ctx, g.store, KeyOrders, orders)
}

// LoadPromo returns the persisted applied promo, or nil when none is set.
func (g *Gateway) LoadPromo(ctx context.Context) (*promo.Applied, error) {
	var applied *promo.Applied
	err := load(ctx, g.store, KeyPromoCode, &applied)
	return applied, err
}

// SavePromo persists the applied promo.
func (g *Gateway) SavePromo(ctx context.Context, applied *promo.Applied) error {
	return save(ctx, g.store, KeyPromoCode, applied)
}

// RemovePromo deletes the applied promo document.
func (g *Gateway) RemovePromo(ctx context.Context) error {
	if err := g.store.Remove(ctx, KeyPromoCode); err != nil {
		return errors.Wrap(err, "remove promo")
	}
	return nil
}

// LoadPreferences returns the persisted preferences, or the defaults.
func (g *Gateway) LoadPreferences(ctx context.Context) (Preferences, error) {
	prefs := DefaultPreferences()
	err := load(ctx, g.store, KeyPreferences, &prefs)
	return prefs, err
}

// SavePreferences persists the preferences.
func (g *Gateway) SavePreferences(ctx context.Context, prefs Preferences) error {
	return save(ctx, g.store, KeyPreferences, prefs)
}

var _ order.History = (*Gateway)(nil)

// List implements order.History over the persisted history document.
func (g *Gateway) List(ctx context.Context) ([]order.Order, error) {
	return g.LoadOrders(ctx)
}

// Prepend implements order.History: the new order goes to the front so the
// history stays newest-first.
func (g *Gateway) Prepend(ctx context.Context, o order.Order) error {
	orders, err := g.LoadOrders(ctx)
	if err != nil {
		return err
	}
	updated := make([]order.Order, 0, len(orders)+1)
	updated = append(updated, o)
	updated = append(updated, orders...)
	return g.SaveOrders(ctx, updated)
}

// Export collects every state document into a Snapshot.
func (g *Gateway) Export(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{ExportDate: time.Now().UTC()}
	var err error
	if snap.Cart, err = g.LoadCart(ctx); err != nil {
		return nil, err
	}
	if snap.Wishlist, err = g.LoadWishlist(ctx); err != nil {
		return nil, err
	}
	if snap.Orders, err = g.LoadOrders(ctx); err != nil {
		return nil, err
	}
	if snap.PromoCode, err = g.LoadPromo(ctx); err != nil {
		return nil, err
	}
	if snap.Preferences, err = g.LoadPreferences(ctx); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import writes every document of the snapshot back to the store.
func (g *Gateway) Import(ctx context.Context, snap *Snapshot) error {
	if err := g.SaveCart(ctx, snap.Cart); err != nil {
		return err
	}
	if err := g.SaveWishlist(ctx, snap.Wishlist); err != nil {
		return err
	}
	if err := g.SaveOrders(ctx, snap.Orders); err != nil {
		return err
	}
	if snap.PromoCode != nil {
		if err := g.SavePromo(ctx, snap.PromoCode); err != nil {
			return err
		}
	} else if err := g.RemovePromo(ctx); err != nil {
		return err
	}
	return g.SavePreferences(ctx, snap.Preferences)
}
