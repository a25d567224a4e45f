package engine

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/order"
)

// PlaceOrder checks out the current cart.
//
// An empty cart is rejected immediately, without suspending. Otherwise the
// engine waits out the simulated payment round-trip (bounded by the
// processing timeout and the caller's context), freezes the cart and its
// summary into an immutable order, prepends it to the persisted history and
// only then clears the cart and promo. When the history write fails the
// placement aborts atomically: the cart is left untouched and the failure
// is classified as ErrPersistenceUnavailable.
//
// A single placement may be in flight at a time; concurrent calls fail with
// ErrOrderInFlight. In-flight placements cannot be cancelled other than
// through the context.
func (e *Engine) PlaceOrder(ctx context.Context, customer order.Customer) (Result, *order.Order) {
	if !e.placing.CompareAndSwap(false, true) {
		return fail(ErrOrderInFlight, "An order is already being placed!"), nil
	}
	defer e.placing.Store(false)

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.lines) == 0 {
		return fail(ErrEmptyCart, "Cart is empty!"), nil
	}

	if e.processingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.processingTimeout)
		defer cancel()
	}

	// Simulated payment round-trip. The cart is held locked for the
	// duration, so nothing can mutate it mid-placement.
	if e.processingDelay > 0 {
		timer := time.NewTimer(e.processingDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fail(errors.Wrap(ctx.Err(), "payment processing"), "Order processing timed out!"), nil
		case <-timer.C:
		}
	}

	summary, err := e.summaryLocked()
	if err != nil {
		return fail(err, "Could not price the order!"), nil
	}

	items := make([]cart.Line, len(e.lines))
	copy(items, e.lines)

	placedAt := e.now()
	o := order.Order{
		ID:                e.newOrderID(),
		Items:             items,
		Customer:          customer,
		Summary:           summary,
		Status:            order.StatusProcessing,
		PlacedAt:          placedAt,
		EstimatedDelivery: placedAt.Add(order.DeliveryEstimate),
	}

	if err := e.history.Prepend(ctx, o); err != nil {
		e.lg.Error("persist order failed, placement aborted",
			zap.String("order_id", o.ID), zap.Error(err))
		return fail(errors.Wrap(ErrPersistenceUnavailable, err.Error()), "Could not save your order, please try again!"), nil
	}

	e.clearLocked(ctx)

	e.lg.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("items", len(o.Items)),
		zap.String("total", summary.Total.String()))

	return ok("Order placed successfully!"), &o
}
