// Package audithook bridges checkout lifecycle events to an immutable
// audit trail backend.
//
// Every session, step, and announcement lifecycle hook emits a structured
// audit event through the [Recorder] interface. The hook assigns
// appropriate severity levels (info for normal progress, warning for
// validation failures, critical for abandonment) and rich metadata
// (session key, step, elapsed time, errors).
//
// # Usage
//
//	audithook.New(audithook.RecorderFunc(func(ctx context.Context, evt *audithook.AuditEvent) error {
//	    return trail.Write(ctx, evt.Action, evt.Resource, evt.ResourceID, evt.Metadata)
//	}))
//
// # Selective filtering
//
//	audithook.New(recorder,
//	    audithook.WithActions(
//	        audithook.ActionValidationFailed,
//	        audithook.ActionSessionAbandoned,
//	    ),
//	)
package audithook
