package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/domain/promo"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func line(id int64, price string, qty int) Line {
	return Line{
		Product:  product.Product{ID: id, Name: "test", Price: dec(price), Stock: 99},
		Quantity: qty,
	}
}

func assertDecEqual(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "%s: want %s, got %s", field, want, got)
}

func TestComputeSummary_NoPromo(t *testing.T) {
	lines := []Line{line(1, "2999", 1)}

	s, err := ComputeSummary(lines, nil, DefaultPricing())
	require.NoError(t, err)

	assertDecEqual(t, "2999", s.Subtotal, "subtotal")
	assertDecEqual(t, "0", s.Discount, "discount")
	assertDecEqual(t, "99", s.Shipping, "shipping")
	assertDecEqual(t, "539.82", s.Tax, "tax")
	assertDecEqual(t, "3637.82", s.Total, "total")
	assert.Equal(t, 1, s.ItemCount)
	assert.Nil(t, s.AppliedPromo)
}

func TestComputeSummary_PercentagePromo(t *testing.T) {
	lines := []Line{line(1, "2999", 1)}
	applied := &promo.Applied{Code: "SAVE10", Type: promo.DiscountPercentage, Value: decimal.NewFromInt(10)}

	s, err := ComputeSummary(lines, applied, DefaultPricing())
	require.NoError(t, err)

	assertDecEqual(t, "2999", s.Subtotal, "subtotal")
	assertDecEqual(t, "299.90", s.Discount, "discount")
	assertDecEqual(t, "99", s.Shipping, "shipping")
	// tax = (2999 - 299.90) * 0.18
	assertDecEqual(t, "485.84", s.Tax, "tax")
	assertDecEqual(t, "3283.94", s.Total, "total")
	assert.Equal(t, applied, s.AppliedPromo)
}

func TestComputeSummary_FixedPromoCappedAtSubtotal(t *testing.T) {
	lines := []Line{line(1, "300", 1)}
	applied := &promo.Applied{Code: "FLAT500", Type: promo.DiscountFixed, Value: decimal.NewFromInt(500)}

	s, err := ComputeSummary(lines, applied, DefaultPricing())
	require.NoError(t, err)

	assertDecEqual(t, "300", s.Discount, "discount")
	assertDecEqual(t, "0", s.Tax, "tax")
	// Total floors at shipping only.
	assertDecEqual(t, "99", s.Total, "total")
}

func TestComputeSummary_FreeShippingThreshold(t *testing.T) {
	s, err := ComputeSummary([]Line{line(1, "5000", 1)}, nil, DefaultPricing())
	require.NoError(t, err)
	assertDecEqual(t, "0", s.Shipping, "shipping at threshold")

	s, err = ComputeSummary([]Line{line(1, "4999", 1)}, nil, DefaultPricing())
	require.NoError(t, err)
	assertDecEqual(t, "99", s.Shipping, "shipping below threshold")
}

func TestComputeSummary_EmptyCart(t *testing.T) {
	s, err := ComputeSummary(nil, nil, DefaultPricing())
	require.NoError(t, err)

	assertDecEqual(t, "0", s.Subtotal, "subtotal")
	assertDecEqual(t, "0", s.Shipping, "shipping")
	assertDecEqual(t, "0", s.Total, "total")
	assert.Equal(t, 0, s.ItemCount)
}

func TestComputeSummary_TotalIdentity(t *testing.T) {
	carts := [][]Line{
		{line(1, "2999", 1)},
		{line(1, "899", 3), line(2, "1999", 2)},
		{line(1, "5999", 1), line(2, "799", 4)},
	}
	promos := []*promo.Applied{
		nil,
		{Code: "SAVE20", Type: promo.DiscountPercentage, Value: decimal.NewFromInt(20)},
		{Code: "FLAT500", Type: promo.DiscountFixed, Value: decimal.NewFromInt(500)},
	}

	for _, lines := range carts {
		for _, applied := range promos {
			s, err := ComputeSummary(lines, applied, DefaultPricing())
			require.NoError(t, err)

			want := s.Subtotal.Sub(s.Discount).Add(s.Shipping).Add(s.Tax)
			assert.True(t, want.Equal(s.Total), "total identity: want %s, got %s", want, s.Total)
			assert.False(t, s.Discount.IsNegative(), "discount below zero")
			assert.True(t, s.Discount.LessThanOrEqual(s.Subtotal), "discount above subtotal")
		}
	}
}

func TestItemCountAndSubtotal(t *testing.T) {
	lines := []Line{line(1, "100", 2), line(2, "50.50", 3)}

	assert.Equal(t, 5, ItemCount(lines))
	assertDecEqual(t, "351.50", Subtotal(lines), "subtotal")
}
