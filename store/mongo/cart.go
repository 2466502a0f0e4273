package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/cart"
)

// SaveCart upserts the guest cart mirror keyed by its session key.
func (s *Store) SaveCart(ctx context.Context, c *cart.Cart) error {
	c.UpdatedAt = time.Now().UTC()

	_, err := s.db.Collection(colCarts).ReplaceOne(ctx,
		bson.M{"_id": c.Key}, toCartModel(c),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("checkout/mongo: save cart: %w", err)
	}
	return nil
}

// GetCart retrieves the cart for a session key.
func (s *Store) GetCart(ctx context.Context, key string) (*cart.Cart, error) {
	var m cartModel
	err := s.db.Collection(colCarts).FindOne(ctx, bson.M{"_id": key}).Decode(&m)
	if err != nil {
		if isNoDocuments(err) {
			return nil, checkout.ErrCartNotFound
		}
		return nil, fmt.Errorf("checkout/mongo: get cart: %w", err)
	}

	c, err := fromCartModel(&m)
	if err != nil {
		return nil, fmt.Errorf("checkout/mongo: get cart: %w", err)
	}
	return c, nil
}

// DeleteCart removes the cart for a session key.
func (s *Store) DeleteCart(ctx context.Context, key string) error {
	_, err := s.db.Collection(colCarts).DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return fmt.Errorf("checkout/mongo: delete cart: %w", err)
	}
	return nil
}
