package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
)

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single wrap", `{"data":{"title":"Diwali Sale"}}`, "Diwali Sale"},
		{"double wrap", `{"data":{"data":{"title":"Diwali Sale"}}}`, "Diwali Sale"},
		{"bare payload", `{"title":"Diwali Sale"}`, "Diwali Sale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out HeroContent
			if err := decodeEnvelope([]byte(tt.raw), &out); err != nil {
				t.Fatalf("decodeEnvelope failed: %v", err)
			}
			if out.Title != tt.want {
				t.Errorf("Title = %q, want %q", out.Title, tt.want)
			}
		})
	}
}

func TestDecodeEnvelope_ArrayPayload(t *testing.T) {
	raw := `{"data":[{"id":"p1","name":"Bath Towel"},{"id":"p2","name":"Bed Sheet"}]}`

	var out []Product
	if err := decodeEnvelope([]byte(raw), &out); err != nil {
		t.Fatalf("decodeEnvelope failed: %v", err)
	}
	if len(out) != 2 || out[0].ID != "p1" {
		t.Errorf("products = %+v", out)
	}
}

func TestGetCart_ForwardsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"data":{"id":"c1","currency":"INR","items":[],"subtotal":0}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := ContextWithToken(context.Background(), "tok-123")

	cart, err := c.GetCart(ctx)
	if err != nil {
		t.Fatalf("GetCart failed: %v", err)
	}
	if cart.ID != "c1" {
		t.Errorf("cart.ID = %q", cart.ID)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
}

func TestAddCartItem_SendsPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/items" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		w.Write([]byte(`{"data":{"id":"c1","currency":"INR","items":[{"itemId":"i1","productId":"p1","quantity":2,"unitPrice":49900}],"subtotal":99800}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	cart, err := c.AddCartItem(context.Background(), AddItemRequest{ProductID: "p1", Quantity: 2})
	if err != nil {
		t.Fatalf("AddCartItem failed: %v", err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 {
		t.Errorf("cart items = %+v", cart.Items)
	}
}

func TestGetGiftCard_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"no such card"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	_, err := c.GetGiftCard(context.Background(), "GC-MISSING")
	if !errors.Is(err, checkout.ErrGiftCardNotFound) {
		t.Errorf("expected ErrGiftCardNotFound, got %v", err)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{}`, checkout.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, `{}`, checkout.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{}`, checkout.ErrOrderNotFound},
		{"conflict", http.StatusConflict, `{}`, checkout.ErrConflict},
		{"insufficient stock", http.StatusConflict, `{"error":{"code":"INSUFFICIENT_STOCK"}}`, checkout.ErrInsufficientStock},
		{"server error", http.StatusInternalServerError, `{}`, checkout.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			_, err := c.GetOrder(context.Background(), "ord-1")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSaleProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/sale" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":[{"id":"p9","name":"Cotton Throw","price":159900,"salePrice":99900,"inStock":true}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	products, err := c.SaleProducts(context.Background())
	if err != nil {
		t.Fatalf("SaleProducts failed: %v", err)
	}
	if len(products) != 1 || products[0].SalePrice != 99900 {
		t.Errorf("products = %+v", products)
	}
}

func TestVerifyEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/email/verify" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"email":"a@b.in","verified":true}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	res, err := c.VerifyEmail(context.Background(), "a@b.in")
	if err != nil {
		t.Fatalf("VerifyEmail failed: %v", err)
	}
	if !res.Verified {
		t.Error("expected verified=true")
	}
}
