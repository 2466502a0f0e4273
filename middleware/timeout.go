package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Timeout returns middleware that enforces a validation deadline.
// The sequencer installs no timeout by default; callers with validators
// that make network calls can opt in. If d is zero the middleware is a
// pass-through. When the deadline is exceeded the context is cancelled
// and the validator should return context.DeadlineExceeded.
func Timeout(logger *slog.Logger, d time.Duration) Middleware {
	return func(ctx context.Context, c *step.Check, next Handler) error {
		if d > 0 {
			logger.Debug("validation timeout set",
				slog.String("step", c.Step.String()),
				slog.Duration("timeout", d),
			)
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
		return next(ctx)
	}
}
