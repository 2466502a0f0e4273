// Package hook defines the lifecycle hook system for checkout.
//
// Hooks are notified of flow events and can react to them — recording
// analytics, sending notifications, writing audit logs, etc.
// Each lifecycle event is a separate interface so hooks opt in only
// to the events they care about.
//
// # Implementing a Hook
//
//	type Analytics struct{}
//
//	func (a *Analytics) Name() string { return "analytics" }
//
//	// Opt in to specific events by implementing their interfaces.
//	func (a *Analytics) OnStepCompleted(ctx context.Context, key string, s step.Step, elapsed time.Duration) error {
//	    track("checkout_step_completed", s.String(), elapsed)
//	    return nil
//	}
//
// # Session Lifecycle Events
//
//   - [SessionStarted] — a checkout session began
//   - [StepEntered] — the flow moved onto a step
//   - [StepCompleted] — a step was marked complete
//   - [ValidationFailed] — a step's validator rejected its data
//   - [SessionCompleted] — the final step completed (fired exactly once)
//   - [SessionAbandoned] — the session was discarded before completion
//
// # Other Events
//
//   - [AnnouncementPublished] — the announcement feed published a banner
//   - [Shutdown] — the coordinator is shutting down gracefully
//
// The [Registry] fans out each event to all registered hooks that
// implement the corresponding interface. Hook errors are logged and
// swallowed: side-effects like analytics must never block the flow.
package hook
