package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xelkar/shopcart/internal/domain/order"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.engine.Orders(r.Context())
	if err != nil {
		zctx.From(r.Context()).Error("list orders", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "order history unavailable")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, o := range orders {
				encodeOrder(e, o)
			}
		})
	})
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var customer order.Customer
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		var v string
		var derr error
		switch key {
		case "name":
			v, derr = d.Str()
			customer.Name = v
		case "email":
			v, derr = d.Str()
			customer.Email = v
		case "phone":
			v, derr = d.Str()
			customer.Phone = v
		case "address":
			v, derr = d.Str()
			customer.Address = v
		case "payment":
			v, derr = d.Str()
			customer.Payment = v
		default:
			return d.Skip()
		}
		return derr
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, placed := h.engine.PlaceOrder(r.Context(), customer)
	writeResult(w, res, func(e *jx.Encoder) {
		if placed != nil {
			e.Field("order", func(e *jx.Encoder) { encodeOrder(e, *placed) })
		}
	})
}
