package step

// Labels holds the navigation button text shown on a step.
type Labels struct {
	Next string `json:"next"`
	Back string `json:"back"`
}

// defaultLabels applies when a step has no specific entry.
var defaultLabels = Labels{Next: "Continue", Back: "Back"}

var stepLabels = map[Step]Labels{
	CartReview:      {Next: "Proceed to Checkout", Back: "Back to Shopping"},
	ShippingAddress: {Next: "Continue to Billing", Back: "Back"},
	BillingAddress:  {Next: "Continue to Shipping Method", Back: "Back"},
	ShippingMethod:  {Next: "Continue to Payment", Back: "Back"},
	PaymentMethod:   {Next: "Review Order", Back: "Back"},
	OrderReview:     {Next: "Place Order", Back: "Back"},
}

// LabelsFor returns the navigation labels for a step, falling back to
// the defaults when the step has no specific entry.
func LabelsFor(s Step) Labels {
	if l, ok := stepLabels[s]; ok {
		return l
	}
	return defaultLabels
}

// DisplayName returns the human-readable title of a step.
func DisplayName(s Step) string {
	if name, ok := displayNames[s]; ok {
		return name
	}
	return string(s)
}

var displayNames = map[Step]string{
	CartReview:        "Review Cart",
	ShippingAddress:   "Shipping Address",
	BillingAddress:    "Billing Address",
	ShippingMethod:    "Shipping Method",
	PaymentMethod:     "Payment Method",
	OrderReview:       "Review Order",
	PaymentProcessing: "Processing Payment",
	OrderConfirmation: "Order Confirmed",
}
