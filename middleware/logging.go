package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// Logging returns middleware that logs validation start and completion.
func Logging(logger *slog.Logger) Middleware {
	return func(ctx context.Context, c *step.Check, next Handler) error {
		logger.Debug("step validation started",
			slog.String("step", c.Step.String()),
			slog.String("session", c.SessionKey),
		)

		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start)

		switch {
		case err != nil:
			logger.Error("step validation errored",
				slog.String("step", c.Step.String()),
				slog.String("session", c.SessionKey),
				slog.Duration("elapsed", elapsed),
				slog.String("error", err.Error()),
			)
		case !c.Result.Valid:
			logger.Info("step validation failed",
				slog.String("step", c.Step.String()),
				slog.String("session", c.SessionKey),
				slog.Duration("elapsed", elapsed),
				slog.Any("errors", c.Result.Errors),
			)
		default:
			logger.Debug("step validation passed",
				slog.String("step", c.Step.String()),
				slog.String("session", c.SessionKey),
				slog.Duration("elapsed", elapsed),
			)
		}

		return err
	}
}
