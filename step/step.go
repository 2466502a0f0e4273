// Package step defines the checkout step enumeration, ordered step
// sequences, per-step navigation labels, and the validator contract
// run before forward navigation.
package step

// Step identifies one stage of the checkout flow.
type Step string

const (
	// CartReview is the initial review of cart contents.
	CartReview Step = "cart_review"
	// ShippingAddress collects the delivery address.
	ShippingAddress Step = "shipping_address"
	// BillingAddress collects the billing address.
	BillingAddress Step = "billing_address"
	// ShippingMethod selects a delivery option.
	ShippingMethod Step = "shipping_method"
	// PaymentMethod selects a payment instrument.
	PaymentMethod Step = "payment_method"
	// OrderReview is the final confirmation before payment.
	OrderReview Step = "order_review"
	// PaymentProcessing waits for the payment gateway.
	PaymentProcessing Step = "payment_processing"
	// OrderConfirmation shows the placed order.
	OrderConfirmation Step = "order_confirmation"
)

// String returns the wire representation of the step.
func (s Step) String() string { return string(s) }

// IsTerminal reports whether the step ends the flow.
func (s Step) IsTerminal() bool { return s == OrderConfirmation }
