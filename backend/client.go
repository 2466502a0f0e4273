// Package backend is the typed HTTP client for the upstream commerce
// API. It is the single deserialization boundary for the upstream's
// inconsistent response envelope: responses arrive as either
// {"data": ...} or {"data": {"data": ...}}, and decodeEnvelope
// normalizes both shapes once, at the edge.
//
// The client performs no retries; failures surface directly to the
// caller.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
)

// DefaultTimeout bounds each upstream request.
const DefaultTimeout = 10 * time.Second

type tokenKey struct{}

// ContextWithToken returns a context carrying the caller's auth token.
// The token is forwarded upstream as a bearer header.
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext extracts the auth token placed by ContextWithToken.
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey{}).(string)
	return token, ok && token != ""
}

// Client talks to the upstream commerce API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for the upstream API at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Cart ────────────────────────────────────────────

// GetCart fetches the caller's cart.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &out, checkout.ErrCartNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddCartItem adds a line to the cart and returns the updated cart.
func (c *Client) AddCartItem(ctx context.Context, req AddItemRequest) (*Cart, error) {
	var out Cart
	if err := c.do(ctx, http.MethodPost, "/cart/items", req, &out, checkout.ErrCartNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCartItem changes a line's quantity and returns the updated cart.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, req UpdateItemRequest) (*Cart, error) {
	var out Cart
	path := "/cart/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodPatch, path, req, &out, checkout.ErrCartNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// RemoveCartItem deletes a line and returns the updated cart.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) (*Cart, error) {
	var out Cart
	path := "/cart/items/" + url.PathEscape(itemID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &out, checkout.ErrCartNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Orders ──────────────────────────────────────────

// GetOrder fetches an order by ID.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	var out Order
	path := "/orders/" + url.PathEscape(orderID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, checkout.ErrOrderNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Gift cards ──────────────────────────────────────

// GetGiftCard fetches a gift card by code.
func (c *Client) GetGiftCard(ctx context.Context, code string) (*GiftCard, error) {
	var out GiftCard
	path := "/giftcards/" + url.PathEscape(code)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, checkout.ErrGiftCardNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// RedeemGiftCard redeems a gift card and returns its remaining state.
func (c *Client) RedeemGiftCard(ctx context.Context, code string) (*GiftCard, error) {
	var out GiftCard
	if err := c.do(ctx, http.MethodPost, "/giftcards/redeem", RedeemRequest{Code: code}, &out, checkout.ErrGiftCardNotFound); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Content ─────────────────────────────────────────

// GetHero fetches the homepage hero block.
func (c *Client) GetHero(ctx context.Context) (*HeroContent, error) {
	var out HeroContent
	if err := c.do(ctx, http.MethodGet, "/content/hero", nil, &out, checkout.ErrUpstream); err != nil {
		return nil, err
	}
	return &out, nil
}

// FeaturedProducts fetches the featured listing.
func (c *Client) FeaturedProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/products/featured", nil, &out, checkout.ErrUpstream); err != nil {
		return nil, err
	}
	return out, nil
}

// SaleProducts fetches the flash-sale listing.
func (c *Client) SaleProducts(ctx context.Context) ([]Product, error) {
	var out []Product
	if err := c.do(ctx, http.MethodGet, "/products/sale", nil, &out, checkout.ErrUpstream); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Email ───────────────────────────────────────────

// VerifyEmail requests verification of the given address.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*EmailVerification, error) {
	var out EmailVerification
	if err := c.do(ctx, http.MethodPost, "/email/verify", VerifyEmailRequest{Email: email}, &out, checkout.ErrUpstream); err != nil {
		return nil, err
	}
	return &out, nil
}

// ── Transport ───────────────────────────────────────

// do executes one upstream request. notFound is the sentinel returned
// for an upstream 404.
func (c *Client) do(ctx context.Context, method, path string, body, out any, notFound error) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("backend: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := TokenFromContext(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return c.mapStatus(resp.StatusCode, method, path, raw, notFound)
	}

	if out == nil {
		return nil
	}
	if err := decodeEnvelope(raw, out); err != nil {
		return fmt.Errorf("backend: %s %s: %w", method, path, err)
	}
	return nil
}

// mapStatus converts an upstream error status into a sentinel error.
func (c *Client) mapStatus(status int, method, path string, raw []byte, notFound error) error {
	c.logger.Warn("upstream error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
	)

	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(raw, &env)
	msg := env.Error.Message
	if msg == "" {
		msg = env.Message
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return wrapMsg(checkout.ErrUnauthorized, msg)
	case status == http.StatusNotFound:
		return wrapMsg(notFound, msg)
	case status == http.StatusConflict:
		if env.Error.Code == "INSUFFICIENT_STOCK" {
			return wrapMsg(checkout.ErrInsufficientStock, msg)
		}
		return wrapMsg(checkout.ErrConflict, msg)
	default:
		return fmt.Errorf("%w: status %d", checkout.ErrUpstream, status)
	}
}

func wrapMsg(sentinel error, msg string) error {
	if msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// decodeEnvelope unmarshals an upstream response into out. The upstream
// wraps payloads as {"data": ...} and sometimes double-wraps as
// {"data": {"data": ...}}; a bare payload with no envelope also occurs.
func decodeEnvelope(raw []byte, out any) error {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		var inner struct {
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(env.Data, &inner); err == nil && len(inner.Data) > 0 && string(inner.Data) != "null" {
			return json.Unmarshal(inner.Data, out)
		}
		return json.Unmarshal(env.Data, out)
	}
	return json.Unmarshal(raw, out)
}
