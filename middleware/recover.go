package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Recover returns middleware that recovers from panics in the validator chain.
// Panics are converted to errors and logged with a stack trace.
func Recover(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *step.Check, next Handler) (retErr error) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				logger.Error("step validator panicked",
					slog.String("step", c.Step.String()),
					slog.String("session", c.SessionKey),
					slog.Any("panic", r),
					slog.String("stack", stack),
				)
				retErr = fmt.Errorf("panic validating step %s: %v", c.Step, r)
			}
		}()
		return next(ctx)
	}
}
