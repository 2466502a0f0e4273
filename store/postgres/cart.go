package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// SaveCart upserts the guest cart mirror keyed by its session key.
func (s *Store) SaveCart(ctx context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now().UTC()

	lines, err := json.Marshal(c.Lines)
	if err != nil {
		return fmt.Errorf("checkout/postgres: marshal cart lines: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO checkout_carts (session_key, id, currency, lines, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_key)
		DO UPDATE SET currency = EXCLUDED.currency,
		              lines = EXCLUDED.lines,
		              updated_at = EXCLUDED.updated_at`,
		c.Key, c.ID.String(), c.Currency, lines, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: save cart: %w", err)
	}
	return nil
}

// GetCart retrieves the cart for a session key.
func (s *Store) GetCart(ctx context.Context, key string) (*cart.Cart, error) {
	var (
		cartID string
		lines  []byte
		c      cart.Cart
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, currency, lines, created_at, updated_at
		FROM checkout_carts WHERE session_key = $1`,
		key,
	).Scan(&cartID, &c.Currency, &lines, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrCartNotFound
		}
		return nil, fmt.Errorf("checkout/postgres: get cart: %w", err)
	}

	c.Key = key
	c.ID, err = id.ParseCartID(cartID)
	if err != nil {
		return nil, fmt.Errorf("checkout/postgres: parse cart id: %w", err)
	}
	if err := json.Unmarshal(lines, &c.Lines); err != nil {
		return nil, fmt.Errorf("checkout/postgres: unmarshal cart lines: %w", err)
	}
	return &c, nil
}

// DeleteCart removes the cart for a session key.
func (s *Store) DeleteCart(ctx context.Context, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM checkout_carts WHERE session_key = $1`,
		key,
	)
	if err != nil {
		return fmt.Errorf("checkout/postgres: delete cart: %w", err)
	}
	return nil
}
