package hook

import (
	"context"
	"log/slog"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Named entry types pair a hook implementation with the hook name
// captured at registration time. This avoids type-asserting back to
// Hook inside the emit methods.
type sessionStartedEntry struct {
	name string
	hook SessionStarted
}

type stepEnteredEntry struct {
	name string
	hook StepEntered
}

type stepCompletedEntry struct {
	name string
	hook StepCompleted
}

type validationFailedEntry struct {
	name string
	hook ValidationFailed
}

type sessionCompletedEntry struct {
	name string
	hook SessionCompleted
}

type sessionAbandonedEntry struct {
	name string
	hook SessionAbandoned
}

type announcementPublishedEntry struct {
	name string
	hook AnnouncementPublished
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered hooks and dispatches lifecycle events
// to them. It type-caches hooks at registration time so emit calls
// iterate only over hooks that implement the relevant event.
type Registry struct {
	hooks  []Hook
	logger *slog.Logger

	// Type-cached slices for each lifecycle event.
	sessionStarted        []sessionStartedEntry
	stepEntered           []stepEnteredEntry
	stepCompleted         []stepCompletedEntry
	validationFailed      []validationFailedEntry
	sessionCompleted      []sessionCompletedEntry
	sessionAbandoned      []sessionAbandonedEntry
	announcementPublished []announcementPublishedEntry
	shutdown              []shutdownEntry
}

// NewRegistry creates a hook registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds a hook and type-asserts it into all applicable
// event caches. Hooks are notified in registration order.
func (r *Registry) Register(h Hook) {
	r.hooks = append(r.hooks, h)
	name := h.Name()

	if e, ok := h.(SessionStarted); ok {
		r.sessionStarted = append(r.sessionStarted, sessionStartedEntry{name, e})
	}
	if e, ok := h.(StepEntered); ok {
		r.stepEntered = append(r.stepEntered, stepEnteredEntry{name, e})
	}
	if e, ok := h.(StepCompleted); ok {
		r.stepCompleted = append(r.stepCompleted, stepCompletedEntry{name, e})
	}
	if e, ok := h.(ValidationFailed); ok {
		r.validationFailed = append(r.validationFailed, validationFailedEntry{name, e})
	}
	if e, ok := h.(SessionCompleted); ok {
		r.sessionCompleted = append(r.sessionCompleted, sessionCompletedEntry{name, e})
	}
	if e, ok := h.(SessionAbandoned); ok {
		r.sessionAbandoned = append(r.sessionAbandoned, sessionAbandonedEntry{name, e})
	}
	if e, ok := h.(AnnouncementPublished); ok {
		r.announcementPublished = append(r.announcementPublished, announcementPublishedEntry{name, e})
	}
	if e, ok := h.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, e})
	}
}

// Hooks returns all registered hooks.
func (r *Registry) Hooks() []Hook { return r.hooks }

// ──────────────────────────────────────────────────
// Session event emitters
// ──────────────────────────────────────────────────

// EmitSessionStarted notifies all hooks that implement SessionStarted.
func (r *Registry) EmitSessionStarted(ctx context.Context, sessionKey string, first step.Step) {
	for _, e := range r.sessionStarted {
		if err := e.hook.OnSessionStarted(ctx, sessionKey, first); err != nil {
			r.logHookError("OnSessionStarted", e.name, err)
		}
	}
}

// EmitStepEntered notifies all hooks that implement StepEntered.
func (r *Registry) EmitStepEntered(ctx context.Context, sessionKey string, s step.Step) {
	for _, e := range r.stepEntered {
		if err := e.hook.OnStepEntered(ctx, sessionKey, s); err != nil {
			r.logHookError("OnStepEntered", e.name, err)
		}
	}
}

// EmitStepCompleted notifies all hooks that implement StepCompleted.
func (r *Registry) EmitStepCompleted(ctx context.Context, sessionKey string, s step.Step, elapsed time.Duration) {
	for _, e := range r.stepCompleted {
		if err := e.hook.OnStepCompleted(ctx, sessionKey, s, elapsed); err != nil {
			r.logHookError("OnStepCompleted", e.name, err)
		}
	}
}

// EmitValidationFailed notifies all hooks that implement ValidationFailed.
func (r *Registry) EmitValidationFailed(ctx context.Context, sessionKey string, s step.Step, errs []string) {
	for _, e := range r.validationFailed {
		if err := e.hook.OnValidationFailed(ctx, sessionKey, s, errs); err != nil {
			r.logHookError("OnValidationFailed", e.name, err)
		}
	}
}

// EmitSessionCompleted notifies all hooks that implement SessionCompleted.
func (r *Registry) EmitSessionCompleted(ctx context.Context, sessionKey string, elapsed time.Duration) {
	for _, e := range r.sessionCompleted {
		if err := e.hook.OnSessionCompleted(ctx, sessionKey, elapsed); err != nil {
			r.logHookError("OnSessionCompleted", e.name, err)
		}
	}
}

// EmitSessionAbandoned notifies all hooks that implement SessionAbandoned.
func (r *Registry) EmitSessionAbandoned(ctx context.Context, sessionKey string, last step.Step) {
	for _, e := range r.sessionAbandoned {
		if err := e.hook.OnSessionAbandoned(ctx, sessionKey, last); err != nil {
			r.logHookError("OnSessionAbandoned", e.name, err)
		}
	}
}

// ──────────────────────────────────────────────────
// Other event emitters
// ──────────────────────────────────────────────────

// EmitAnnouncementPublished notifies all hooks that implement
// AnnouncementPublished.
func (r *Registry) EmitAnnouncementPublished(ctx context.Context, annID id.AnnouncementID, message string) {
	for _, e := range r.announcementPublished {
		if err := e.hook.OnAnnouncementPublished(ctx, annID, message); err != nil {
			r.logHookError("OnAnnouncementPublished", e.name, err)
		}
	}
}

// EmitShutdown notifies all hooks that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated — they must not block the flow.
func (r *Registry) logHookError(event, hookName string, err error) {
	r.logger.Warn("hook error",
		slog.String("event", event),
		slog.String("hook", hookName),
		slog.String("error", err.Error()),
	)
}
