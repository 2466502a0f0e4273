package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/hook"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Compile-time interface checks.
var (
	_ hook.Hook                  = (*Hook)(nil)
	_ hook.SessionStarted        = (*Hook)(nil)
	_ hook.StepEntered           = (*Hook)(nil)
	_ hook.StepCompleted         = (*Hook)(nil)
	_ hook.ValidationFailed      = (*Hook)(nil)
	_ hook.SessionCompleted      = (*Hook)(nil)
	_ hook.SessionAbandoned      = (*Hook)(nil)
	_ hook.AnnouncementPublished = (*Hook)(nil)
)

// Recorder is the interface that audit backends must implement.
// It is defined locally so that the audithook package does not import
// any particular audit product — callers inject their concrete backend
// at wiring time.
type Recorder interface {
	// Record persists a fully-formed audit event.
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a local representation of an audit event.
// Callers provide a RecorderFunc adapter that bridges to their audit backend.
type AuditEvent struct {
	// What happened
	Action   string `json:"action"`
	Resource string `json:"resource"`
	Category string `json:"category"`

	// Details
	ResourceID string         `json:"resource_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
//
// Example bridging to a custom trail:
//
//	audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
//	    return trail.Write(ctx, evt.Action, evt.Resource, evt.ResourceID, evt.Metadata)
//	})
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Severity constants.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome constants.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Hook bridges checkout lifecycle events to an audit trail backend.
// Each lifecycle hook emits a structured audit event through the [Recorder].
type Hook struct {
	recorder Recorder
	enabled  map[string]bool // nil = all enabled
	logger   *slog.Logger
}

// New creates a Hook that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Hook {
	h := &Hook{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Name implements hook.Hook.
func (h *Hook) Name() string { return "audit-hook" }

// ── Session lifecycle hooks ─────────────────────────

// OnSessionStarted implements hook.SessionStarted.
func (h *Hook) OnSessionStarted(ctx context.Context, sessionKey string, first step.Step) error {
	return h.record(ctx, ActionSessionStarted, SeverityInfo, OutcomeSuccess,
		ResourceSession, sessionKey, CategorySession, nil,
		"first_step", string(first),
	)
}

// OnSessionCompleted implements hook.SessionCompleted.
func (h *Hook) OnSessionCompleted(ctx context.Context, sessionKey string, elapsed time.Duration) error {
	return h.record(ctx, ActionSessionCompleted, SeverityInfo, OutcomeSuccess,
		ResourceSession, sessionKey, CategorySession, nil,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnSessionAbandoned implements hook.SessionAbandoned.
func (h *Hook) OnSessionAbandoned(ctx context.Context, sessionKey string, last step.Step) error {
	return h.record(ctx, ActionSessionAbandoned, SeverityCritical, OutcomeFailure,
		ResourceSession, sessionKey, CategorySession, nil,
		"last_step", string(last),
	)
}

// ── Step lifecycle hooks ────────────────────────────

// OnStepEntered implements hook.StepEntered.
func (h *Hook) OnStepEntered(ctx context.Context, sessionKey string, s step.Step) error {
	return h.record(ctx, ActionStepEntered, SeverityInfo, OutcomeSuccess,
		ResourceStep, string(s), CategoryStep, nil,
		"session_key", sessionKey,
	)
}

// OnStepCompleted implements hook.StepCompleted.
func (h *Hook) OnStepCompleted(ctx context.Context, sessionKey string, s step.Step, elapsed time.Duration) error {
	return h.record(ctx, ActionStepCompleted, SeverityInfo, OutcomeSuccess,
		ResourceStep, string(s), CategoryStep, nil,
		"session_key", sessionKey,
		"elapsed_ms", elapsed.Milliseconds(),
	)
}

// OnValidationFailed implements hook.ValidationFailed.
func (h *Hook) OnValidationFailed(ctx context.Context, sessionKey string, s step.Step, errs []string) error {
	return h.record(ctx, ActionValidationFailed, SeverityWarning, OutcomeFailure,
		ResourceStep, string(s), CategoryStep, nil,
		"session_key", sessionKey,
		"errors", errs,
	)
}

// ── Announcement lifecycle hooks ────────────────────

// OnAnnouncementPublished implements hook.AnnouncementPublished.
func (h *Hook) OnAnnouncementPublished(ctx context.Context, annID id.AnnouncementID, message string) error {
	return h.record(ctx, ActionAnnouncementPublished, SeverityInfo, OutcomeSuccess,
		ResourceAnnouncement, annID.String(), CategoryAnnouncement, nil,
		"message", message,
	)
}

// ── Internal helpers ────────────────────────────────

// record builds and sends an audit event if the action is enabled.
// The kvPairs argument is a list of key-value pairs added to Metadata.
func (h *Hook) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	err error,
	kvPairs ...any,
) error {
	if h.enabled != nil && !h.enabled[action] {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+1)
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	var reason string
	if err != nil {
		reason = err.Error()
		meta["error"] = err.Error()
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := h.recorder.Record(ctx, evt); recErr != nil {
		h.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
