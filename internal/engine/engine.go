// Package engine implements the cart pricing and order-lifecycle engine.
//
// One Engine owns the cart, wishlist and applied promo of a single shopper
// session. Callers are expected to serialize access; the engine additionally
// guards its state with a mutex so a misbehaving caller degrades to
// serialized operations instead of data races. Every mutation persists the
// affected documents through the storage gateway; persistence is best-effort
// except during order placement, where a failed write aborts the placement.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/order"
	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/domain/promo"
	"github.com/xelkar/shopcart/internal/storage"
)

// Default timings for the simulated payment round-trip.
const (
	DefaultProcessingDelay   = 1500 * time.Millisecond
	DefaultProcessingTimeout = 10 * time.Second
)

// Engine is the cart engine for one shopper session. Construct it with New;
// the zero value is not usable.
type Engine struct {
	catalog product.Catalog
	promos  promo.Repository
	gateway *storage.Gateway
	history order.History
	pricing cart.PricingConfig
	lg      *zap.Logger

	processingDelay   time.Duration
	processingTimeout time.Duration
	now               func() time.Time
	newOrderID        func() string

	mu       sync.Mutex
	lines    []cart.Line
	wishlist []cart.WishlistEntry
	applied  *promo.Applied

	placing atomic.Bool
}

// Option customizes an Engine.
type Option func(*Engine)

// WithPricing overrides the default pricing constants.
func WithPricing(cfg cart.PricingConfig) Option {
	return func(e *Engine) { e.pricing = cfg }
}

// WithProcessingDelay overrides the simulated payment processing delay.
func WithProcessingDelay(d time.Duration) Option {
	return func(e *Engine) { e.processingDelay = d }
}

// WithProcessingTimeout overrides the order placement timeout.
func WithProcessingTimeout(d time.Duration) Option {
	return func(e *Engine) { e.processingTimeout = d }
}

// WithHistory overrides the order history store. By default the storage
// gateway's history document is used.
func WithHistory(h order.History) Option {
	return func(e *Engine) { e.history = h }
}

// WithLogger sets the engine logger.
func WithLogger(lg *zap.Logger) Option {
	return func(e *Engine) { e.lg = lg }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithOrderIDs overrides the order id generator, for tests.
func WithOrderIDs(gen func() string) Option {
	return func(e *Engine) { e.newOrderID = gen }
}

// New constructs an Engine and loads any persisted session state from the
// gateway. A store that reports unreadable or absent state yields an empty
// session rather than an error.
func New(ctx context.Context, catalog product.Catalog, promos promo.Repository, gw *storage.Gateway, opts ...Option) *Engine {
	e := &Engine{
		catalog:           catalog,
		promos:            promos,
		gateway:           gw,
		pricing:           cart.DefaultPricing(),
		lg:                zap.NewNop(),
		processingDelay:   DefaultProcessingDelay,
		processingTimeout: DefaultProcessingTimeout,
		now:               time.Now,
		newOrderID:        func() string { return "ORD-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.history == nil {
		e.history = gw
	}

	var err error
	if e.lines, err = gw.LoadCart(ctx); err != nil {
		e.lg.Warn("load cart failed, starting empty", zap.Error(err))
		e.lines = nil
	}
	if e.wishlist, err = gw.LoadWishlist(ctx); err != nil {
		e.lg.Warn("load wishlist failed, starting empty", zap.Error(err))
		e.wishlist = nil
	}
	if e.applied, err = gw.LoadPromo(ctx); err != nil {
		e.lg.Warn("load promo failed, starting without one", zap.Error(err))
		e.applied = nil
	}
	return e
}

// Cart returns a copy of the cart lines in add order.
func (e *Engine) Cart() []cart.Line {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]cart.Line, len(e.lines))
	copy(out, e.lines)
	return out
}

// CartCount returns the total quantity across all cart lines.
func (e *Engine) CartCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cart.ItemCount(e.lines)
}

// Wishlist returns a copy of the wishlist entries in add order.
func (e *Engine) Wishlist() []cart.WishlistEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]cart.WishlistEntry, len(e.wishlist))
	copy(out, e.wishlist)
	return out
}

// WishlistCount returns the number of wishlist entries.
func (e *Engine) WishlistCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.wishlist)
}

// AppliedPromo returns a copy of the active promo, or nil.
func (e *Engine) AppliedPromo() *promo.Applied {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.applied == nil {
		return nil
	}
	cp := *e.applied
	return &cp
}

// Summary recomputes the full pricing breakdown for the current cart.
func (e *Engine) Summary() (cart.Summary, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.summaryLocked()
}

func (e *Engine) summaryLocked() (cart.Summary, error) {
	return cart.ComputeSummary(e.lines, e.applied, e.pricing)
}

// Orders returns the persisted order history, newest first.
func (e *Engine) Orders(ctx context.Context) ([]order.Order, error) {
	return e.history.List(ctx)
}

// persistCart writes the cart document, logging instead of failing when the
// store is unavailable. Durability outside order placement is best-effort.
func (e *Engine) persistCart(ctx context.Context) {
	if err := e.gateway.SaveCart(ctx, e.lines); err != nil {
		e.lg.Warn("persist cart failed", zap.Error(err))
	}
}

func (e *Engine) persistWishlist(ctx context.Context) {
	if err := e.gateway.SaveWishlist(ctx, e.wishlist); err != nil {
		e.lg.Warn("persist wishlist failed", zap.Error(err))
	}
}
