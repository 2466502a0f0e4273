package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
)

// SaveCart stores the guest cart mirror as a JSON string under its
// session key.
func (s *Store) SaveCart(ctx context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("checkout/redis: marshal cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(c.Key), data, s.sessionTTL).Err(); err != nil {
		return fmt.Errorf("checkout/redis: save cart: %w", err)
	}
	return nil
}

// GetCart retrieves the cart for a session key.
func (s *Store) GetCart(ctx context.Context, key string) (*cart.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, checkout.ErrCartNotFound
		}
		return nil, fmt.Errorf("checkout/redis: get cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("checkout/redis: unmarshal cart: %w", err)
	}
	return &c, nil
}

// DeleteCart removes the cart for a session key.
func (s *Store) DeleteCart(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, cartKey(key)).Err(); err != nil {
		return fmt.Errorf("checkout/redis: delete cart: %w", err)
	}
	return nil
}
