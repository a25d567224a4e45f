package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xelkar/shopcart/internal/domain/product"
)

const maxBodySize = 1 << 20

func decodeBody(r *http.Request, decode func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	return d.Obj(decode)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	lines := h.engine.Cart()
	summary, err := h.engine.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not price cart")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Obj(func(e *jx.Encoder) {
			e.Field("items", func(e *jx.Encoder) {
				e.Arr(func(e *jx.Encoder) {
					for _, l := range lines {
						encodeLine(e, l)
					}
				})
			})
			e.Field("summary", func(e *jx.Encoder) { encodeSummary(e, summary) })
		})
	})
}

func (h *Handler) addToCart(w http.ResponseWriter, r *http.Request) {
	var (
		productID int64
		quantity  = 1
	)
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Int64()
			productID = v
			return err
		case "quantity":
			v, err := d.Int()
			quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.catalog.GetByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found!")
			return
		}
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
		return
	}

	res := h.engine.AddToCart(r.Context(), *p, quantity)
	writeResult(w, res, func(e *jx.Encoder) {
		e.Field("cartCount", func(e *jx.Encoder) { e.Int(h.engine.CartCount()) })
	})
}

func (h *Handler) updateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var quantity int
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key == "quantity" {
			v, err := d.Int()
			quantity = v
			return err
		}
		return d.Skip()
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res := h.engine.UpdateQuantity(r.Context(), id, quantity)
	writeResult(w, res, nil)
}

func (h *Handler) removeFromCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.engine.RemoveFromCart(r.Context(), id), nil)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.engine.ClearCart(r.Context()), nil)
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.engine.Summary()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not price cart")
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSummary(e, summary) })
}

func (h *Handler) applyPromo(w http.ResponseWriter, r *http.Request) {
	var code string
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key == "code" {
			v, err := d.Str()
			code = v
			return err
		}
		return d.Skip()
	})
	if err != nil || code == "" {
		writeError(w, http.StatusBadRequest, "promo code required")
		return
	}

	res := h.engine.ApplyPromoCode(r.Context(), code)
	writeResult(w, res, func(e *jx.Encoder) {
		if p := h.engine.AppliedPromo(); p != nil {
			e.Field("promo", func(e *jx.Encoder) { encodePromo(e, p) })
		}
	})
}

func (h *Handler) removePromo(w http.ResponseWriter, r *http.Request) {
	writeResult(w, h.engine.RemovePromoCode(r.Context()), nil)
}
