//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var orderIDPattern = regexp.MustCompile(`^ORD-[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

type placeOrderRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
	Payment string `json:"payment,omitempty"`
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	resetSession(t)

	resp := do(t, http.MethodPost, "/api/orders", placeOrderRequest{Name: "Ada", Email: "ada@example.com"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_Success(t *testing.T) {
	resetSession(t)

	resp := do(t, http.MethodPost, "/api/cart/items", addItemRequest{ProductID: 1, Quantity: 1})
	resp.Body.Close()

	resp = do(t, http.MethodPost, "/api/orders", placeOrderRequest{
		Name:    "Ada",
		Email:   "ada@example.com",
		Address: "42 Loop Street",
		Payment: "card",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	res := decodeJSON[resultResponse](t, resp)
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Message)
	}
	if res.Order == nil {
		t.Fatal("expected order in response")
	}
	if !orderIDPattern.MatchString(res.Order.ID) {
		t.Errorf("order id %q does not match ORD-<uuid>", res.Order.ID)
	}
	if res.Order.Status != "processing" {
		t.Errorf("status: got %q, want processing", res.Order.Status)
	}
	if len(res.Order.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(res.Order.Items))
	}
	if res.Order.Summary.Total != 3637.82 {
		t.Errorf("total: got %v, want 3637.82", res.Order.Summary.Total)
	}

	// Placement clears the cart.
	cartResp := doGet(t, "/api/cart")
	defer cartResp.Body.Close()
	cart := decodeJSON[cartResponse](t, cartResp)
	if len(cart.Items) != 0 {
		t.Errorf("expected cleared cart, got %d items", len(cart.Items))
	}
}

func TestOrderHistory_NewestFirst(t *testing.T) {
	resetSession(t)

	place := func(productID int64) string {
		t.Helper()
		resp := do(t, http.MethodPost, "/api/cart/items", addItemRequest{ProductID: productID, Quantity: 1})
		resp.Body.Close()

		resp = do(t, http.MethodPost, "/api/orders", placeOrderRequest{Name: "Ada", Email: "ada@example.com"})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("place order: expected 200, got %d", resp.StatusCode)
		}
		res := decodeJSON[resultResponse](t, resp)
		if res.Order == nil {
			t.Fatal("expected order in response")
		}
		return res.Order.ID
	}

	first := place(1)
	second := place(3)

	resp := doGet(t, "/api/orders")
	defer resp.Body.Close()
	orders := decodeJSON[[]orderResponse](t, resp)

	if len(orders) < 2 {
		t.Fatalf("expected at least 2 orders, got %d", len(orders))
	}
	if orders[0].ID != second {
		t.Errorf("newest order: got %q, want %q", orders[0].ID, second)
	}
	if orders[1].ID != first {
		t.Errorf("second order: got %q, want %q", orders[1].ID, first)
	}
}
