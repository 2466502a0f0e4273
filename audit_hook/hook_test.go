package audithook_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	ah "github.com/chanderbhanswami/vardhman-mills-sub017/audit_hook"
	"github.com/chanderbhanswami/vardhman-mills-sub017/hook"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// ── Mock recorder ────────────────────────────────────

// mockRecorder captures audit events for verification.
type mockRecorder struct {
	mu     sync.Mutex
	events []*ah.AuditEvent
}

func (m *mockRecorder) Record(_ context.Context, evt *ah.AuditEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
	return nil
}

func (m *mockRecorder) last() *ah.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.events) == 0 {
		return nil
	}
	return m.events[len(m.events)-1]
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

func (m *mockRecorder) findByAction(action string) *ah.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, evt := range m.events {
		if evt.Action == action {
			return evt
		}
	}
	return nil
}

// ── Tests ────────────────────────────────────────────

func TestHook_Name(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	if h.Name() != "audit-hook" {
		t.Errorf("expected name %q, got %q", "audit-hook", h.Name())
	}
}

// ── Session lifecycle tests ──────────────────────────

func TestHook_SessionStarted(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)

	if err := h.OnSessionStarted(context.Background(), "sess-1", step.CartReview); err != nil {
		t.Fatalf("OnSessionStarted: %v", err)
	}

	evt := rec.last()
	if evt == nil {
		t.Fatal("no event recorded")
	}
	if evt.Action != ah.ActionSessionStarted {
		t.Errorf("Action: want %q, got %q", ah.ActionSessionStarted, evt.Action)
	}
	if evt.Resource != ah.ResourceSession {
		t.Errorf("Resource: want %q, got %q", ah.ResourceSession, evt.Resource)
	}
	if evt.Category != ah.CategorySession {
		t.Errorf("Category: want %q, got %q", ah.CategorySession, evt.Category)
	}
	if evt.ResourceID != "sess-1" {
		t.Errorf("ResourceID: want %q, got %q", "sess-1", evt.ResourceID)
	}
	if evt.Severity != ah.SeverityInfo {
		t.Errorf("Severity: want %q, got %q", ah.SeverityInfo, evt.Severity)
	}
	if evt.Outcome != ah.OutcomeSuccess {
		t.Errorf("Outcome: want %q, got %q", ah.OutcomeSuccess, evt.Outcome)
	}
	if evt.Metadata["first_step"] != string(step.CartReview) {
		t.Errorf("Metadata[first_step]: want %q, got %v", step.CartReview, evt.Metadata["first_step"])
	}
}

func TestHook_SessionCompleted(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	elapsed := 3 * time.Minute

	if err := h.OnSessionCompleted(context.Background(), "sess-1", elapsed); err != nil {
		t.Fatalf("OnSessionCompleted: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionSessionCompleted {
		t.Errorf("Action: want %q, got %q", ah.ActionSessionCompleted, evt.Action)
	}
	if evt.Metadata["elapsed_ms"] != elapsed.Milliseconds() {
		t.Errorf("Metadata[elapsed_ms]: want %d, got %v", elapsed.Milliseconds(), evt.Metadata["elapsed_ms"])
	}
}

func TestHook_SessionAbandoned(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)

	if err := h.OnSessionAbandoned(context.Background(), "sess-1", step.PaymentMethod); err != nil {
		t.Fatalf("OnSessionAbandoned: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionSessionAbandoned {
		t.Errorf("Action: want %q, got %q", ah.ActionSessionAbandoned, evt.Action)
	}
	if evt.Severity != ah.SeverityCritical {
		t.Errorf("Severity: want %q, got %q", ah.SeverityCritical, evt.Severity)
	}
	if evt.Outcome != ah.OutcomeFailure {
		t.Errorf("Outcome: want %q, got %q", ah.OutcomeFailure, evt.Outcome)
	}
	if evt.Metadata["last_step"] != string(step.PaymentMethod) {
		t.Errorf("Metadata[last_step]: want %q, got %v", step.PaymentMethod, evt.Metadata["last_step"])
	}
}

// ── Step lifecycle tests ─────────────────────────────

func TestHook_StepEntered(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)

	if err := h.OnStepEntered(context.Background(), "sess-1", step.ShippingAddress); err != nil {
		t.Fatalf("OnStepEntered: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionStepEntered {
		t.Errorf("Action: want %q, got %q", ah.ActionStepEntered, evt.Action)
	}
	if evt.Resource != ah.ResourceStep {
		t.Errorf("Resource: want %q, got %q", ah.ResourceStep, evt.Resource)
	}
	if evt.ResourceID != string(step.ShippingAddress) {
		t.Errorf("ResourceID: want %q, got %q", step.ShippingAddress, evt.ResourceID)
	}
	if evt.Metadata["session_key"] != "sess-1" {
		t.Errorf("Metadata[session_key]: want %q, got %v", "sess-1", evt.Metadata["session_key"])
	}
}

func TestHook_StepCompleted(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	elapsed := 150 * time.Millisecond

	if err := h.OnStepCompleted(context.Background(), "sess-1", step.ShippingMethod, elapsed); err != nil {
		t.Fatalf("OnStepCompleted: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionStepCompleted {
		t.Errorf("Action: want %q, got %q", ah.ActionStepCompleted, evt.Action)
	}
	if evt.Severity != ah.SeverityInfo {
		t.Errorf("Severity: want %q, got %q", ah.SeverityInfo, evt.Severity)
	}
	if evt.Metadata["elapsed_ms"] != elapsed.Milliseconds() {
		t.Errorf("Metadata[elapsed_ms]: want %d, got %v", elapsed.Milliseconds(), evt.Metadata["elapsed_ms"])
	}
}

func TestHook_ValidationFailed(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	errs := []string{"postal code is required", "phone number is invalid"}

	if err := h.OnValidationFailed(context.Background(), "sess-1", step.BillingAddress, errs); err != nil {
		t.Fatalf("OnValidationFailed: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionValidationFailed {
		t.Errorf("Action: want %q, got %q", ah.ActionValidationFailed, evt.Action)
	}
	if evt.Severity != ah.SeverityWarning {
		t.Errorf("Severity: want %q, got %q", ah.SeverityWarning, evt.Severity)
	}
	if evt.Outcome != ah.OutcomeFailure {
		t.Errorf("Outcome: want %q, got %q", ah.OutcomeFailure, evt.Outcome)
	}
	got, ok := evt.Metadata["errors"].([]string)
	if !ok || len(got) != 2 {
		t.Errorf("Metadata[errors]: want 2 errors, got %v", evt.Metadata["errors"])
	}
}

// ── Announcement lifecycle tests ─────────────────────

func TestHook_AnnouncementPublished(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	annID := id.NewAnnouncementID()

	if err := h.OnAnnouncementPublished(context.Background(), annID, "Flat 40% off on bedsheets"); err != nil {
		t.Fatalf("OnAnnouncementPublished: %v", err)
	}

	evt := rec.last()
	if evt.Action != ah.ActionAnnouncementPublished {
		t.Errorf("Action: want %q, got %q", ah.ActionAnnouncementPublished, evt.Action)
	}
	if evt.Resource != ah.ResourceAnnouncement {
		t.Errorf("Resource: want %q, got %q", ah.ResourceAnnouncement, evt.Resource)
	}
	if evt.ResourceID != annID.String() {
		t.Errorf("ResourceID: want %q, got %q", annID.String(), evt.ResourceID)
	}
	if evt.Metadata["message"] != "Flat 40% off on bedsheets" {
		t.Errorf("Metadata[message]: want %q, got %v", "Flat 40% off on bedsheets", evt.Metadata["message"])
	}
}

// ── WithActions filter tests ─────────────────────────

func TestHook_WithActions_FiltersDisabled(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec, ah.WithActions(ah.ActionValidationFailed, ah.ActionSessionAbandoned))

	ctx := context.Background()

	// StepCompleted is NOT enabled — should be silently skipped.
	if err := h.OnStepCompleted(ctx, "sess-1", step.CartReview, time.Second); err != nil {
		t.Fatalf("OnStepCompleted: %v", err)
	}
	if rec.count() != 0 {
		t.Errorf("expected 0 events (step completed disabled), got %d", rec.count())
	}

	// ValidationFailed IS enabled — should be recorded.
	if err := h.OnValidationFailed(ctx, "sess-1", step.CartReview, []string{"cart is empty"}); err != nil {
		t.Fatalf("OnValidationFailed: %v", err)
	}
	if rec.count() != 1 {
		t.Errorf("expected 1 event (validation failed enabled), got %d", rec.count())
	}

	// SessionAbandoned IS enabled — should be recorded.
	if err := h.OnSessionAbandoned(ctx, "sess-1", step.CartReview); err != nil {
		t.Fatalf("OnSessionAbandoned: %v", err)
	}
	if rec.count() != 2 {
		t.Errorf("expected 2 events, got %d", rec.count())
	}
}

// ── RecorderFunc adapter test ────────────────────────

func TestRecorderFunc(t *testing.T) {
	var captured *ah.AuditEvent
	fn := ah.RecorderFunc(func(_ context.Context, evt *ah.AuditEvent) error {
		captured = evt
		return nil
	})

	h := ah.New(fn)

	if err := h.OnSessionStarted(context.Background(), "sess-1", step.CartReview); err != nil {
		t.Fatalf("OnSessionStarted: %v", err)
	}
	if captured == nil {
		t.Fatal("RecorderFunc was not called")
	}
	if captured.Action != ah.ActionSessionStarted {
		t.Errorf("Action: want %q, got %q", ah.ActionSessionStarted, captured.Action)
	}
}

// ── Recorder error handling test ─────────────────────

func TestHook_RecorderError_DoesNotPropagate(t *testing.T) {
	failingRecorder := ah.RecorderFunc(func(_ context.Context, _ *ah.AuditEvent) error {
		return context.DeadlineExceeded
	})

	h := ah.New(failingRecorder, ah.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))

	// Hook should NOT return an error — audit failures must not block
	// the checkout flow.
	if err := h.OnSessionStarted(context.Background(), "sess-1", step.CartReview); err != nil {
		t.Fatalf("expected no error (audit failure swallowed), got: %v", err)
	}
}

// ── Registry integration test ────────────────────────

func TestHook_ViaRegistry(t *testing.T) {
	rec := &mockRecorder{}
	h := ah.New(rec)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	reg := hook.NewRegistry(logger)
	reg.Register(h)

	ctx := context.Background()

	reg.EmitSessionStarted(ctx, "sess-1", step.CartReview)
	reg.EmitStepEntered(ctx, "sess-1", step.ShippingAddress)
	reg.EmitStepCompleted(ctx, "sess-1", step.ShippingAddress, time.Second)
	reg.EmitValidationFailed(ctx, "sess-1", step.BillingAddress, []string{"bad"})
	reg.EmitSessionCompleted(ctx, "sess-1", 2*time.Minute)
	reg.EmitSessionAbandoned(ctx, "sess-2", step.PaymentMethod)
	reg.EmitAnnouncementPublished(ctx, id.NewAnnouncementID(), "Monsoon sale is live")

	// Verify all 7 event types were recorded.
	allActions := ah.AllActions()
	if rec.count() != len(allActions) {
		t.Fatalf("expected %d events, got %d", len(allActions), rec.count())
	}

	for _, action := range allActions {
		evt := rec.findByAction(action)
		if evt == nil {
			t.Errorf("missing event for action %q", action)
		}
	}
}

// ── AllActions test ──────────────────────────────────

func TestAllActions(t *testing.T) {
	actions := ah.AllActions()
	if len(actions) != 7 {
		t.Errorf("expected 7 actions, got %d", len(actions))
	}
}
