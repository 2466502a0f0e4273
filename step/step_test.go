package step_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

func TestDefaultSequence(t *testing.T) {
	seq := step.DefaultSequence()
	if err := seq.Validate(); err != nil {
		t.Fatalf("default sequence invalid: %v", err)
	}
	if got, want := seq.First(), step.CartReview; got != want {
		t.Errorf("First() = %q, want %q", got, want)
	}
	if got, want := seq.Last(), step.OrderConfirmation; got != want {
		t.Errorf("Last() = %q, want %q", got, want)
	}
	if len(seq) != 8 {
		t.Errorf("len = %d, want 8", len(seq))
	}
}

func TestSequenceValidate(t *testing.T) {
	tests := []struct {
		name string
		seq  step.Sequence
		want error
	}{
		{"empty", step.Sequence{}, checkout.ErrEmptySequence},
		{"duplicate", step.Sequence{step.CartReview, step.CartReview}, checkout.ErrDuplicateStep},
		{"valid", step.Sequence{step.CartReview, step.OrderReview}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.seq.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSequenceIndex(t *testing.T) {
	seq := step.DefaultSequence()
	if got := seq.Index(step.PaymentMethod); got != 4 {
		t.Errorf("Index(payment_method) = %d, want 4", got)
	}
	if got := seq.Index(step.Step("nope")); got != -1 {
		t.Errorf("Index(unknown) = %d, want -1", got)
	}
}

func TestIsTerminal(t *testing.T) {
	if !step.OrderConfirmation.IsTerminal() {
		t.Error("order_confirmation should be terminal")
	}
	if step.CartReview.IsTerminal() {
		t.Error("cart_review should not be terminal")
	}
}

func TestLabelsFor(t *testing.T) {
	if got := step.LabelsFor(step.OrderReview).Next; got != "Place Order" {
		t.Errorf("Next label = %q, want %q", got, "Place Order")
	}
	// Steps without an entry fall back to defaults.
	if got := step.LabelsFor(step.PaymentProcessing).Next; got != "Continue" {
		t.Errorf("default Next label = %q, want %q", got, "Continue")
	}
	if got := step.LabelsFor(step.PaymentProcessing).Back; got != "Back" {
		t.Errorf("default Back label = %q, want %q", got, "Back")
	}
}

func TestRegistry(t *testing.T) {
	r := step.NewRegistry()
	if _, ok := r.Get(step.CartReview); ok {
		t.Fatal("empty registry should have no validators")
	}

	r.Register(step.CartReview, func(_ context.Context, _ json.RawMessage) (step.ValidationResult, error) {
		return step.Fail("cart is empty"), nil
	})

	v, ok := r.Get(step.CartReview)
	if !ok {
		t.Fatal("expected registered validator")
	}
	res, err := v(context.Background(), nil)
	if err != nil {
		t.Fatalf("validator error: %v", err)
	}
	if res.Valid {
		t.Error("expected failing result")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "cart is empty" {
		t.Errorf("Errors = %v, want [cart is empty]", res.Errors)
	}
}
