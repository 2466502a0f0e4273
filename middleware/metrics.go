package middleware

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// meterName is the instrumentation scope name for checkout metrics.
const meterName = "github.com/chanderbhanswami/vardhman-mills-sub017"

// Metrics returns middleware that records per-step validation metrics using
// the global OTel MeterProvider. If no MeterProvider is configured, noop
// instruments are used and this middleware becomes a pass-through.
//
// Instruments:
//   - checkout.validation.duration (Float64Histogram): validation time in
//     seconds, with attributes: step, status ("ok", "invalid" or "error")
//   - checkout.validation.runs (Int64Counter): total validations,
//     with attributes: step, status ("ok", "invalid" or "error")
func Metrics() Middleware {
	meter := otel.Meter(meterName)
	return MetricsWithMeter(meter)
}

// MetricsWithMeter returns metrics middleware using the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func MetricsWithMeter(meter metric.Meter) Middleware {
	// Create instruments once at middleware construction time.
	// OTel instruments are safe for concurrent use. On error, the API
	// returns noop instruments so the middleware degrades gracefully.
	duration, dErr := meter.Float64Histogram(
		"checkout.validation.duration",
		metric.WithDescription("Duration of step validation in seconds"),
		metric.WithUnit("s"),
	)
	_ = dErr // noop fallback guaranteed by OTel API contract

	runs, rErr := meter.Int64Counter(
		"checkout.validation.runs",
		metric.WithDescription("Total number of step validations"),
		metric.WithUnit("{validation}"),
	)
	_ = rErr // noop fallback guaranteed by OTel API contract

	return func(ctx context.Context, c *step.Check, next Handler) error {
		start := time.Now()
		err := next(ctx)
		elapsed := time.Since(start).Seconds()

		status := "ok"
		switch {
		case err != nil:
			status = "error"
		case !c.Result.Valid:
			status = "invalid"
		}

		attrs := metric.WithAttributes(
			attribute.String("step", c.Step.String()),
			attribute.String("status", status),
		)

		duration.Record(ctx, elapsed, attrs)
		runs.Add(ctx, 1, attrs)

		return err
	}
}
