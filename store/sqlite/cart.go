package sqlite

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
		return fmt.Errorf("checkout/sqlite: marshal cart lines: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO checkout_carts (session_key, id, currency, lines, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_key)
		DO UPDATE SET currency = excluded.currency,
		              lines = excluded.lines,
		              updated_at = excluded.updated_at`,
		c.Key, c.ID.String(), c.Currency, string(lines),
		formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: save cart: %w", err)
	}
	return nil
}

// GetCart retrieves the cart for a session key.
func (s *Store) GetCart(ctx context.Context, key string) (*cart.Cart, error) {
	var (
		cartID    string
		lines     string
		createdAt string
		updatedAt string
		c         cart.Cart
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, currency, lines, created_at, updated_at
		FROM checkout_carts WHERE session_key = ?`,
		key,
	).Scan(&cartID, &c.Currency, &lines, &createdAt, &updatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, checkout.ErrCartNotFound
		}
		return nil, fmt.Errorf("checkout/sqlite: get cart: %w", err)
	}

	c.Key = key
	if c.ID, err = id.ParseCartID(cartID); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: parse cart id: %w", err)
	}
	if err := json.Unmarshal([]byte(lines), &c.Lines); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: unmarshal cart lines: %w", err)
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: parse cart created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("checkout/sqlite: parse cart updated_at: %w", err)
	}
	return &c, nil
}

// DeleteCart removes the cart for a session key.
func (s *Store) DeleteCart(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM checkout_carts WHERE session_key = ?`,
		key,
	)
	if err != nil {
		return fmt.Errorf("checkout/sqlite: delete cart: %w", err)
	}
	return nil
}
