package flow_test

import (
	"context"
	"errors"
	"testing"

	checkout "github.com/chanderbhanswami/vardhman-mills-sub017"
	"github.com/chanderbhanswami/vardhman-mills-sub017/flow"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
	"github.com/chanderbhanswami/vardhman-mills-sub017/store/memory"
)

func TestManager_CreateAndGet(t *testing.T) {
	m := flow.NewManager(flow.WithLogger(testLogger()))
	ctx := context.Background()

	s, err := m.Create(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := s.Current(); got != step.CartReview {
		t.Errorf("Current() = %q", got)
	}

	got, ok := m.Get("sess-1")
	if !ok || got != s {
		t.Error("Get should return the created sequencer")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestManager_DuplicateKey(t *testing.T) {
	m := flow.NewManager(flow.WithLogger(testLogger()))
	ctx := context.Background()

	if _, err := m.Create(ctx, "sess-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := m.Create(ctx, "sess-1"); !errors.Is(err, checkout.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestManager_ResumesPersistedSession(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	first := newTestSequencer(t, flow.WithStore(store))
	first.Start(ctx)
	_ = first.GoToNext(ctx)

	m := flow.NewManager(flow.WithLogger(testLogger()), flow.WithStore(store))
	s, err := m.Create(ctx, "sess-test")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if got := s.Current(); got != step.ShippingAddress {
		t.Errorf("Current() = %q, want resumed position", got)
	}
}

func TestManager_Remove(t *testing.T) {
	m := flow.NewManager(flow.WithLogger(testLogger()))
	ctx := context.Background()

	if _, err := m.Create(ctx, "sess-1"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	m.Remove("sess-1")

	if _, ok := m.Get("sess-1"); ok {
		t.Error("session should be gone after Remove")
	}
	// The key is free for a new session.
	if _, err := m.Create(ctx, "sess-1"); err != nil {
		t.Errorf("Create after Remove failed: %v", err)
	}
}
