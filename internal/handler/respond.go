package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xelkar/shopcart/internal/domain/cart"
	"github.com/xelkar/shopcart/internal/domain/order"
	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/domain/promo"
	"github.com/xelkar/shopcart/internal/engine"
)

func writeJSON(w http.ResponseWriter, status int, encode func(e *jx.Encoder)) {
	e := &jx.Encoder{}
	encode(e)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("success", func(e *jx.Encoder) { e.Bool(false) })
			e.Field("message", func(e *jx.Encoder) { e.Str(message) })
		})
	})
}

// writeResult maps an engine Result to an HTTP response. The extra callback,
// when non-nil, appends additional fields to the success body.
func writeResult(w http.ResponseWriter, res engine.Result, extra func(e *jx.Encoder)) {
	status := http.StatusOK
	if !res.OK {
		status = statusForError(res.Err)
	}
	writeJSON(w, status, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("success", func(e *jx.Encoder) { e.Bool(res.OK) })
			e.Field("message", func(e *jx.Encoder) { e.Str(res.Message) })
			if res.OK && extra != nil {
				extra(e)
			}
		})
	})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrStockExceeded),
		errors.Is(err, engine.ErrAlreadyExists),
		errors.Is(err, engine.ErrOrderInFlight):
		return http.StatusConflict
	case errors.Is(err, engine.ErrEmptyCart):
		return http.StatusBadRequest
	case errors.Is(err, promo.ErrInvalidCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrPersistenceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func encodeDecimal(e *jx.Encoder, d decimal.Decimal) {
	e.RawStr(d.String())
}

func encodeTime(e *jx.Encoder, t time.Time) {
	e.Str(t.Format(time.RFC3339Nano))
}

func encodeProduct(e *jx.Encoder, p product.Product) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(p.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(p.Name) })
		e.Field("category", func(e *jx.Encoder) { e.Str(p.Category) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, p.Price) })
		e.Field("originalPrice", func(e *jx.Encoder) { encodeDecimal(e, p.OriginalPrice) })
		if p.Image != "" {
			e.Field("image", func(e *jx.Encoder) { e.Str(p.Image) })
		}
		e.Field("rating", func(e *jx.Encoder) { e.Float64(p.Rating) })
		e.Field("reviews", func(e *jx.Encoder) { e.Int(p.Reviews) })
		e.Field("stock", func(e *jx.Encoder) { e.Int(p.Stock) })
		if p.Description != "" {
			e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
		}
	})
}

func encodeLine(e *jx.Encoder, l cart.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Int64(l.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(l.Name) })
		e.Field("price", func(e *jx.Encoder) { encodeDecimal(e, l.Price) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("lineTotal", func(e *jx.Encoder) { encodeDecimal(e, l.LineTotal()) })
		e.Field("addedAt", func(e *jx.Encoder) { encodeTime(e, l.AddedAt) })
	})
}

func encodePromo(e *jx.Encoder, p *promo.Applied) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Str(p.Code) })
		e.Field("type", func(e *jx.Encoder) { e.Str(string(p.Type)) })
		e.Field("discount", func(e *jx.Encoder) { encodeDecimal(e, p.Value) })
		e.Field("description", func(e *jx.Encoder) { e.Str(p.Description) })
	})
}

func encodeSummary(e *jx.Encoder, s cart.Summary) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("subtotal", func(e *jx.Encoder) { encodeDecimal(e, s.Subtotal) })
		e.Field("discount", func(e *jx.Encoder) { encodeDecimal(e, s.Discount) })
		e.Field("shipping", func(e *jx.Encoder) { encodeDecimal(e, s.Shipping) })
		e.Field("tax", func(e *jx.Encoder) { encodeDecimal(e, s.Tax) })
		e.Field("total", func(e *jx.Encoder) { encodeDecimal(e, s.Total) })
		e.Field("itemCount", func(e *jx.Encoder) { e.Int(s.ItemCount) })
		if s.AppliedPromo != nil {
			e.Field("appliedPromo", func(e *jx.Encoder) { encodePromo(e, s.AppliedPromo) })
		}
	})
}

func encodeOrder(e *jx.Encoder, o order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("status", func(e *jx.Encoder) { e.Str(string(o.Status)) })
		e.Field("items", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range o.Items {
					encodeLine(e, l)
				}
			})
		})
		e.Field("customer", func(e *jx.Encoder) {
			e.Obj(func(e *jx.Encoder) {
				e.Field("name", func(e *jx.Encoder) { e.Str(o.Customer.Name) })
				e.Field("email", func(e *jx.Encoder) { e.Str(o.Customer.Email) })
			})
		})
		e.Field("summary", func(e *jx.Encoder) { encodeSummary(e, o.Summary) })
		e.Field("placedAt", func(e *jx.Encoder) { encodeTime(e, o.PlacedAt) })
		e.Field("estimatedDelivery", func(e *jx.Encoder) { encodeTime(e, o.EstimatedDelivery) })
	})
}
