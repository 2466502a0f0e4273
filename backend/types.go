package backend

import "time"

// Cart is the authoritative upstream cart.
type Cart struct {
	ID       string     `json:"id"`
	Currency string     `json:"currency"`
	Items    []CartItem `json:"items"`
	Subtotal int64      `json:"subtotal"`
}

// CartItem is one line of the upstream cart.
type CartItem struct {
	ItemID    string `json:"itemId"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// Product is an upstream catalog product as exposed to listings.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     int64  `json:"price"`
	SalePrice int64  `json:"salePrice,omitempty"`
	ImageURL  string `json:"imageUrl,omitempty"`
	InStock   bool   `json:"inStock"`
}

// Order is an upstream order as returned by the order lookup.
type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency"`
	Items     []OrderItem `json:"items"`
	PlacedAt  time.Time   `json:"placedAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// GiftCard is an upstream gift card.
type GiftCard struct {
	Code     string     `json:"code"`
	Balance  int64      `json:"balance"`
	Currency string     `json:"currency"`
	Active   bool       `json:"active"`
	Expiry   *time.Time `json:"expiry,omitempty"`
}

// HeroContent is the homepage hero block.
type HeroContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Href     string `json:"href,omitempty"`
}

// EmailVerification is the result of an email verification request.
type EmailVerification struct {
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

// AddItemRequest is the payload for adding a cart line upstream.
type AddItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// UpdateItemRequest is the payload for changing a cart line's quantity.
type UpdateItemRequest struct {
	Quantity int `json:"quantity"`
}

// RedeemRequest is the payload for redeeming a gift card.
type RedeemRequest struct {
	Code string `json:"code"`
}

// VerifyEmailRequest is the payload for email verification.
type VerifyEmailRequest struct {
	Email string `json:"email"`
}

// HomeContent is the fanned-in homepage payload.
type HomeContent struct {
	Hero     *HeroContent `json:"hero"`
	Featured []Product    `json:"featured"`
	Sale     []Product    `json:"sale"`
}
