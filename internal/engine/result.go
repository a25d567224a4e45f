package engine

import "github.com/go-faster/errors"

// Sentinel errors classifying operation failures. Every failed Result
// carries exactly one of these (possibly wrapped), so callers can branch
// with errors.Is while rendering Result.Message verbatim.
var (
	// ErrNotFound: the product id is absent from the cart or wishlist.
	ErrNotFound = errors.New("item not found")
	// ErrStockExceeded: the requested quantity is beyond available stock.
	ErrStockExceeded = errors.New("stock exceeded")
	// ErrEmptyCart: order placement was attempted on an empty cart.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrAlreadyExists: the product is already on the wishlist.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPersistenceUnavailable: a write the operation depends on failed.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	// ErrOrderInFlight: another order placement is already running.
	ErrOrderInFlight = errors.New("order placement in flight")
)

// Result is the uniform outcome descriptor of every engine operation.
// Message is always safe to render to the shopper; Err is nil exactly when
// OK is true.
type Result struct {
	OK      bool
	Message string
	Err     error
}

func ok(message string) Result {
	return Result{OK: true, Message: message}
}

func fail(err error, message string) Result {
	return Result{Message: message, Err: err}
}
