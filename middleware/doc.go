// Package middleware provides composable middleware for step validation.
//
// A [Middleware] is a function that wraps a step validator. Middleware are
// composed into a chain using [Chain] and applied before each validation
// runs. They are applied right-to-left: the first middleware in the slice
// is the outermost wrapper.
//
//	// logging → recover → validator
//	chain := middleware.Chain(middleware.Logging(logger), middleware.Recover(logger))
//
// # Built-in Middleware
//
//   - [Logging] — logs step, duration, and outcome at each validation
//   - [Recover] — catches panics and converts them to errors
//   - [Timeout] — cancels the validation context after a configured duration
//   - [Tracing] — wraps validation in an OpenTelemetry span
//   - [Metrics] — records per-step duration and outcome counters
//
// # Writing Custom Middleware
//
//	func MyMiddleware() middleware.Middleware {
//	    return func(ctx context.Context, c *step.Check, next middleware.Handler) error {
//	        // pre-processing
//	        err := next(ctx)
//	        // post-processing
//	        return err
//	    }
//	}
//
// Middleware MUST call next to continue the chain unless intentionally
// short-circuiting (e.g., circuit breaker, rate limiting).
package middleware
