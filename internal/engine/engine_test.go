package engine

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/domain/promo"
	"github.com/xelkar/shopcart/internal/storage"
)

// --- Fixtures ---

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func headphones() product.Product {
	return product.Product{ID: 1, Name: "Wireless Bluetooth Headphones", Category: "electronics", Price: dec("2999"), OriginalPrice: dec("4999"), Stock: 15}
}

func watch() product.Product {
	return product.Product{ID: 2, Name: "Smart Watch Pro", Category: "electronics", Price: dec("5999"), OriginalPrice: dec("8999"), Stock: 8}
}

func wallet() product.Product {
	return product.Product{ID: 3, Name: "Leather Wallet", Category: "fashion", Price: dec("899"), OriginalPrice: dec("1499"), Stock: 25}
}

func scarce() product.Product {
	return product.Product{ID: 4, Name: "Limited Widget", Category: "home", Price: dec("100"), Stock: 2}
}

func testCatalog() *product.StaticCatalog {
	return product.NewStaticCatalog([]product.Product{headphones(), watch(), wallet(), scarce()})
}

func testPromos() *promo.TableRepository {
	return promo.NewTableRepository([]promo.Rule{
		{Code: "SAVE10", Type: promo.DiscountPercentage, Value: decimal.NewFromInt(10), Description: "10% off"},
		{Code: "FLAT500", Type: promo.DiscountFixed, Value: decimal.NewFromInt(500), Description: "500 off"},
	})
}

func newTestEngine(t *testing.T, store storage.Store, opts ...Option) *Engine {
	t.Helper()
	if store == nil {
		store = storage.NewMemory()
	}
	opts = append([]Option{
		WithProcessingDelay(0),
		WithClock(func() time.Time { return testTime }),
		WithOrderIDs(func() string { return "ORD-test" }),
	}, opts...)
	return New(context.Background(), testCatalog(), testPromos(), storage.NewGateway(store), opts...)
}

// --- Cart mutations ---

func TestAddToCart_NewLine(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.AddToCart(context.Background(), headphones(), 1)
	require.True(t, res.OK)
	assert.NoError(t, res.Err)

	lines := e.Cart()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(1), lines[0].ID)
	assert.Equal(t, 1, lines[0].Quantity)
	assert.Equal(t, testTime, lines[0].AddedAt)
}

func TestAddToCart_IncrementsExistingLine(t *testing.T) {
	e := newTestEngine(t, nil)

	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)
	require.True(t, e.AddToCart(context.Background(), headphones(), 2).OK)

	lines := e.Cart()
	require.Len(t, lines, 1, "same product must not duplicate lines")
	assert.Equal(t, 3, lines[0].Quantity)
	assert.Equal(t, 3, e.CartCount())
}

func TestAddToCart_ClampsAtStockAndCommits(t *testing.T) {
	store := storage.NewMemory()
	e := newTestEngine(t, store)

	require.True(t, e.AddToCart(context.Background(), scarce(), 1).OK)

	res := e.AddToCart(context.Background(), scarce(), 5)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrStockExceeded)

	lines := e.Cart()
	require.Len(t, lines, 1, "clamped line stays in the cart")
	assert.Equal(t, 2, lines[0].Quantity, "clamped to exactly the stock level")

	// The clamp is committed, not rolled back: a fresh engine on the same
	// store sees the clamped quantity.
	reloaded := newTestEngine(t, store)
	require.Len(t, reloaded.Cart(), 1)
	assert.Equal(t, 2, reloaded.Cart()[0].Quantity)
}

func TestAddToCart_NewLineClamped(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.AddToCart(context.Background(), scarce(), 10)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrStockExceeded)

	lines := e.Cart()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddToCart_OutOfStock(t *testing.T) {
	e := newTestEngine(t, nil)
	gone := product.Product{ID: 9, Name: "Gone", Price: dec("10"), Stock: 0}

	res := e.AddToCart(context.Background(), gone, 1)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrStockExceeded)
	assert.Empty(t, e.Cart())
}

func TestAddToCart_QuantityDefaultsToOne(t *testing.T) {
	e := newTestEngine(t, nil)

	require.True(t, e.AddToCart(context.Background(), headphones(), 0).OK)
	assert.Equal(t, 1, e.Cart()[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)

	res := e.RemoveFromCart(context.Background(), 1)
	require.True(t, res.OK)
	assert.Empty(t, e.Cart())

	// Removing an absent line still succeeds.
	res = e.RemoveFromCart(context.Background(), 42)
	assert.True(t, res.OK)
}

func TestUpdateQuantity_SetsQuantity(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)

	res := e.UpdateQuantity(context.Background(), 1, 5)
	require.True(t, res.OK)
	assert.Equal(t, 5, e.Cart()[0].Quantity)
}

func TestUpdateQuantity_RejectsBeyondStockWithoutMutating(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 3).OK)

	res := e.UpdateQuantity(context.Background(), 1, 100)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrStockExceeded)
	assert.Equal(t, 3, e.Cart()[0].Quantity, "failed update must not mutate the line")
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 2).OK)

	res := e.UpdateQuantity(context.Background(), 1, 0)
	require.True(t, res.OK)
	assert.Empty(t, e.Cart())
}

func TestUpdateQuantity_MissingLine(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.UpdateQuantity(context.Background(), 42, 1)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrNotFound)
}

func TestUpdateQuantity_ProductGoneFromCatalog(t *testing.T) {
	store := storage.NewMemory()
	e := newTestEngine(t, store)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)

	// Same persisted cart, but a catalog that no longer carries the product.
	empty := product.NewStaticCatalog(nil)
	orphaned := New(context.Background(), empty, testPromos(), storage.NewGateway(store),
		WithProcessingDelay(0))

	res := orphaned.UpdateQuantity(context.Background(), 1, 2)
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrNotFound)
}

func TestClearCart_DropsPromo(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)
	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)

	res := e.ClearCart(context.Background())
	require.True(t, res.OK)
	assert.Empty(t, e.Cart())
	assert.Nil(t, e.AppliedPromo())
}

func TestCart_ReturnsDefensiveCopy(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)

	lines := e.Cart()
	lines[0].Quantity = 999

	assert.Equal(t, 1, e.Cart()[0].Quantity, "callers must not reach internal state")
}

// --- Promo codes ---

func TestApplyPromoCode_CaseInsensitive(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.ApplyPromoCode(context.Background(), "save10")
	require.True(t, res.OK)

	applied := e.AppliedPromo()
	require.NotNil(t, applied)
	assert.Equal(t, "SAVE10", applied.Code, "code stored upper-cased")
	assert.Equal(t, promo.DiscountPercentage, applied.Type)
}

func TestApplyPromoCode_Invalid(t *testing.T) {
	e := newTestEngine(t, nil)

	res := e.ApplyPromoCode(context.Background(), "BOGUS")
	require.False(t, res.OK)
	assert.ErrorIs(t, res.Err, promo.ErrInvalidCode)
	assert.Nil(t, e.AppliedPromo(), "invalid code must not set a promo")
}

func TestApplyPromoCode_ReplacesPrevious(t *testing.T) {
	e := newTestEngine(t, nil)

	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)
	require.True(t, e.ApplyPromoCode(context.Background(), "FLAT500").OK)

	applied := e.AppliedPromo()
	require.NotNil(t, applied)
	assert.Equal(t, "FLAT500", applied.Code)
}

func TestRemovePromoCode(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)

	res := e.RemovePromoCode(context.Background())
	require.True(t, res.OK)
	assert.Nil(t, e.AppliedPromo())
}

// --- Summary ---

func TestSummary_WithPromo(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)
	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)

	s, err := e.Summary()
	require.NoError(t, err)
	assert.True(t, dec("2999").Equal(s.Subtotal), "subtotal %s", s.Subtotal)
	assert.True(t, dec("299.90").Equal(s.Discount), "discount %s", s.Discount)
	assert.True(t, dec("3283.94").Equal(s.Total), "total %s", s.Total)
}

func TestSummary_RecomputedAfterMutation(t *testing.T) {
	e := newTestEngine(t, nil)
	require.True(t, e.AddToCart(context.Background(), headphones(), 2).OK)

	before, err := e.Summary()
	require.NoError(t, err)

	require.True(t, e.UpdateQuantity(context.Background(), 1, 1).OK)

	after, err := e.Summary()
	require.NoError(t, err)
	assert.True(t, after.Subtotal.LessThan(before.Subtotal), "summary must track the cart")
}

// --- Persistence ---

func TestEngine_LoadsPersistedState(t *testing.T) {
	store := storage.NewMemory()
	e := newTestEngine(t, store)
	require.True(t, e.AddToCart(context.Background(), headphones(), 2).OK)
	require.True(t, e.AddToWishlist(context.Background(), wallet()).OK)
	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)

	reloaded := newTestEngine(t, store)

	require.Len(t, reloaded.Cart(), 1)
	assert.Equal(t, 2, reloaded.Cart()[0].Quantity)
	assert.True(t, reloaded.IsInWishlist(3))
	require.NotNil(t, reloaded.AppliedPromo())
	assert.Equal(t, "SAVE10", reloaded.AppliedPromo().Code)
}

func TestEngine_RunsWithoutStore(t *testing.T) {
	e := newTestEngine(t, storage.Discard{})

	require.True(t, e.AddToCart(context.Background(), headphones(), 1).OK)
	require.True(t, e.ApplyPromoCode(context.Background(), "SAVE10").OK)
	require.Len(t, e.Cart(), 1)

	s, err := e.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, s.ItemCount)
}
