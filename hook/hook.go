// Package hook defines the lifecycle hook system for checkout.
// Hooks are notified of flow events (session started, step completed,
// validation failed, etc.) and can react to them — analytics, metrics,
// notifications, etc.
//
// Each lifecycle event is a separate interface so hooks opt in only
// to the events they care about.
package hook

import (
	"context"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Hook is the base interface all hooks must implement.
type Hook interface {
	// Name returns a unique human-readable name for the hook.
	Name() string
}

// ──────────────────────────────────────────────────
// Session lifecycle hooks
// ──────────────────────────────────────────────────

// SessionStarted is called when a checkout session begins.
type SessionStarted interface {
	OnSessionStarted(ctx context.Context, sessionKey string, first step.Step) error
}

// StepEntered is called after the flow moves onto a step.
type StepEntered interface {
	OnStepEntered(ctx context.Context, sessionKey string, s step.Step) error
}

// StepCompleted is called after a step is marked complete.
type StepCompleted interface {
	OnStepCompleted(ctx context.Context, sessionKey string, s step.Step, elapsed time.Duration) error
}

// ValidationFailed is called when a step's validator rejects its data.
type ValidationFailed interface {
	OnValidationFailed(ctx context.Context, sessionKey string, s step.Step, errs []string) error
}

// SessionCompleted is called exactly once when the final step completes.
type SessionCompleted interface {
	OnSessionCompleted(ctx context.Context, sessionKey string, elapsed time.Duration) error
}

// SessionAbandoned is called when a session is discarded before completion.
type SessionAbandoned interface {
	OnSessionAbandoned(ctx context.Context, sessionKey string, last step.Step) error
}

// ──────────────────────────────────────────────────
// Other lifecycle hooks
// ──────────────────────────────────────────────────

// AnnouncementPublished is called when the announcement feed publishes
// a new banner.
type AnnouncementPublished interface {
	OnAnnouncementPublished(ctx context.Context, annID id.AnnouncementID, message string) error
}

// Shutdown is called during graceful shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
