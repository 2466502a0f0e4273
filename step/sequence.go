package step

import (
	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
)

// Sequence is an ordered list of steps. A valid sequence is non-empty
// and contains no duplicates.
type Sequence []Step

// DefaultSequence returns the standard checkout ordering.
func DefaultSequence() Sequence {
	return Sequence{
		CartReview,
		ShippingAddress,
		BillingAddress,
		ShippingMethod,
		PaymentMethod,
		OrderReview,
		PaymentProcessing,
		OrderConfirmation,
	}
}

// Validate checks that the sequence is non-empty and duplicate-free.
func (seq Sequence) Validate() error {
	if len(seq) == 0 {
		return checkout.ErrEmptySequence
	}
	seen := make(map[Step]struct{}, len(seq))
	for _, s := range seq {
		if _, ok := seen[s]; ok {
			return checkout.ErrDuplicateStep
		}
		seen[s] = struct{}{}
	}
	return nil
}

// Index returns the position of s in the sequence, or -1 if absent.
func (seq Sequence) Index(s Step) int {
	for i, cur := range seq {
		if cur == s {
			return i
		}
	}
	return -1
}

// Contains reports whether s appears in the sequence.
func (seq Sequence) Contains(s Step) bool { return seq.Index(s) >= 0 }

// First returns the first step of the sequence.
func (seq Sequence) First() Step { return seq[0] }

// Last returns the final step of the sequence.
func (seq Sequence) Last() Step { return seq[len(seq)-1] }

// IsLast reports whether s is the final step.
func (seq Sequence) IsLast(s Step) bool {
	return len(seq) > 0 && seq[len(seq)-1] == s
}
