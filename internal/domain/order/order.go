// Package order defines the immutable order record created at checkout and
// the history store orders are appended to.
package order

import (
	"context"
	"time"

	"github.com/xelkar/shopcart/internal/domain/cart"
)

// Status is the lifecycle state of a placed order. This engine only ever
// creates orders in StatusProcessing; later transitions belong to an
// external fulfilment system.
type Status string

// StatusProcessing is the initial status of every placed order.
const StatusProcessing Status = "processing"

// DeliveryEstimate is the fixed lead time added to the placement time.
const DeliveryEstimate = 7 * 24 * time.Hour

// Customer holds the contact and payment details captured at checkout.
// The engine stores it verbatim; validation is the caller's concern.
type Customer struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Payment string `json:"payment,omitempty"`
}

// Order is a frozen copy of a cart at placement time. Once created it is
// never mutated or deleted by this engine.
type Order struct {
	ID                string       `json:"id"`
	Items             []cart.Line  `json:"items"`
	Customer          Customer     `json:"customer"`
	Summary           cart.Summary `json:"summary"`
	Status            Status       `json:"status"`
	PlacedAt          time.Time    `json:"placedAt"`
	EstimatedDelivery time.Time    `json:"estimatedDelivery"`
}

// History provides access to the persisted order history, newest first.
type History interface {
	List(ctx context.Context) ([]Order, error)
	// Prepend inserts an order at the front of the history.
	Prepend(ctx context.Context, o Order) error
}
