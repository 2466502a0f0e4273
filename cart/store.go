package cart

import "context"

// Store defines the persistence contract for guest cart mirrors.
type Store interface {
	// SaveCart persists a cart, replacing any previous cart for its key.
	SaveCart(ctx context.Context, c *Cart) error

	// GetCart retrieves the cart for a session key.
	// Returns checkout.ErrCartNotFound when no cart exists.
	GetCart(ctx context.Context, key string) (*Cart, error)

	// DeleteCart removes the cart for a session key. Deleting a missing
	// cart is not an error.
	DeleteCart(ctx context.Context, key string) error
}
