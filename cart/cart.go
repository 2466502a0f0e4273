// Package cart defines the cart model and its persistence contract.
//
// The upstream commerce API owns the authoritative cart. The local
// store holds a mirror used for guest sessions only; when a guest
// authenticates, the mirror is merged into the upstream cart with
// [Merge] and then discarded.
package cart

import (
	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
)

// Line is one cart entry. Prices are in minor currency units (paise).
type Line struct {
	ItemID    string `json:"itemId"`
	ProductID string `json:"productId"`
	VariantID string `json:"variantId,omitempty"`
	Name      string `json:"name,omitempty"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// Cart is a set of lines keyed by the owning session.
type Cart struct {
	checkout.Entity

	ID       id.CartID `json:"id"`
	Key      string    `json:"key"`
	Currency string    `json:"currency"`
	Lines    []Line    `json:"lines"`
}

// New creates an empty cart for a session key.
func New(key string) *Cart {
	return &Cart{
		Entity:   checkout.NewEntity(),
		ID:       id.NewCartID(),
		Key:      key,
		Currency: "INR",
	}
}

// Subtotal returns the sum of line quantities times unit prices.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, l := range c.Lines {
		total += int64(l.Quantity) * l.UnitPrice
	}
	return total
}

// ItemCount returns the total quantity across all lines.
func (c *Cart) ItemCount() int {
	var n int
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Find returns the line for a product/variant pair.
func (c *Cart) Find(productID, variantID string) (*Line, bool) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID && c.Lines[i].VariantID == variantID {
			return &c.Lines[i], true
		}
	}
	return nil, false
}

// Merge folds a guest cart into the authoritative cart. Lines for the
// same product/variant pair have their quantities summed; the
// authoritative line's price and name win. The result is a new cart
// carrying the authoritative cart's identity.
func Merge(authoritative, guest *Cart) *Cart {
	merged := &Cart{
		Entity:   authoritative.Entity,
		ID:       authoritative.ID,
		Key:      authoritative.Key,
		Currency: authoritative.Currency,
		Lines:    make([]Line, len(authoritative.Lines)),
	}
	copy(merged.Lines, authoritative.Lines)
	merged.Touch()

	for _, gl := range guest.Lines {
		if l, ok := merged.Find(gl.ProductID, gl.VariantID); ok {
			l.Quantity += gl.Quantity
			continue
		}
		merged.Lines = append(merged.Lines, gl)
	}
	return merged
}
