package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xelkar/shopcart/internal/domain/product"
)

func (h *Handler) getWishlist(w http.ResponseWriter, r *http.Request) {
	entries := h.engine.Wishlist()
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.Arr(func(e *jx.Encoder) {
			for _, entry := range entries {
				e.Obj(func(e *jx.Encoder) {
					e.Field("product", func(e *jx.Encoder) { encodeProduct(e, entry.Product) })
					e.Field("addedAt", func(e *jx.Encoder) { encodeTime(e, entry.AddedAt) })
				})
			}
		})
	})
}

func (h *Handler) addToWishlist(w http.ResponseWriter, r *http.Request) {
	var productID int64
	err := decodeBody(r, func(d *jx.Decoder, key string) error {
		if key == "productId" {
			v, err := d.Int64()
			productID = v
			return err
		}
		return d.Skip()
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

	writeResult(w, h.engine.AddToWishlist(r.Context(), *p), nil)
}

func (h *Handler) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.engine.RemoveFromWishlist(r.Context(), id), nil)
}

func (h *Handler) moveToCart(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	writeResult(w, h.engine.MoveToCart(r.Context(), id), nil)
}
