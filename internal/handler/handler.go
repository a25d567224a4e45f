// Package handler exposes the cart engine over HTTP. Responses are encoded
// with jx; routing uses net/http method patterns.
package handler

import (
	"net/http"

	"github.com/xelkar/shopcart/internal/domain/product"
	"github.com/xelkar/shopcart/internal/engine"
)

// Handler serves the cart API for a single engine instance.
type Handler struct {
	catalog product.Catalog
	engine  *engine.Engine
}

// New constructs a Handler.
func New(catalog product.Catalog, eng *engine.Engine) *Handler {
	return &Handler{catalog: catalog, engine: eng}
}

// Register attaches all API routes to the mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("GET /api/products/{id}", h.getProduct)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("POST /api/cart/items", h.addToCart)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.updateQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeFromCart)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("GET /api/cart/summary", h.getSummary)
	mux.HandleFunc("POST /api/cart/promo", h.applyPromo)
	mux.HandleFunc("DELETE /api/cart/promo", h.removePromo)

	mux.HandleFunc("GET /api/wishlist", h.getWishlist)
	mux.HandleFunc("POST /api/wishlist", h.addToWishlist)
	mux.HandleFunc("DELETE /api/wishlist/{id}", h.removeFromWishlist)
	mux.HandleFunc("POST /api/wishlist/{id}/move", h.moveToCart)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("POST /api/orders", h.placeOrder)
}
