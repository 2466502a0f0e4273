package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/backend"
)

func newTestHandler() http.Handler {
	a := New(Deps{
		Client: backend.NewClient("http://upstream.invalid"),
		Config: checkout.DefaultConfig(),
		Logger: testLogger(),
	}, nil)
	return a.Handler()
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	return env
}

func TestAddCartItem_NonUUIDProductID(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h, "/v1/cart/items", `{"productId":"not-a-uuid","quantity":1}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Error("Success should be false")
	}
	if env.Error == nil {
		t.Fatal("Error body missing")
	}
	if env.Error.Code != CodeValidationError {
		t.Errorf("Error.Code = %q, want %q", env.Error.Code, CodeValidationError)
	}
	if !strings.Contains(env.Error.Message, "productId") {
		t.Errorf("Error.Message = %q, want mention of productId", env.Error.Message)
	}
	if env.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestAddCartItem_ZeroQuantity(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h, "/v1/cart/items",
		`{"productId":"7f9c24e5-2b31-4a2c-9db5-1f3a6f5b8a01","quantity":0}`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodeValidationError {
		t.Errorf("Error = %+v, want code %s", env.Error, CodeValidationError)
	}
}

func TestAddCartItem_MalformedJSON(t *testing.T) {
	h := newTestHandler()

	rec := postJSON(t, h, "/v1/cart/items", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodeInvalidJSON {
		t.Errorf("Error = %+v, want code %s", env.Error, CodeInvalidJSON)
	}
}

func TestUpdateCartItem_NonUUIDItemID(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodPatch, "/v1/cart/items/42", strings.NewReader(`{"quantity":2}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error == nil || env.Error.Code != CodeValidationError {
		t.Errorf("Error = %+v, want code %s", env.Error, CodeValidationError)
	}
}
