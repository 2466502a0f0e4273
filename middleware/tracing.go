package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// tracerName is the instrumentation scope name for checkout tracing.
const tracerName = "github.com/chanderbhanswami/vardhman-mills-sub017"

// Tracing returns middleware that wraps step validation in an OpenTelemetry
// span. If no TracerProvider is configured globally, the default noop tracer
// is used and this middleware becomes a pass-through with zero overhead.
//
// Span attributes include: checkout.step, checkout.session_key, and
// checkout.valid. On error, the span status is set to codes.Error with
// the error message.
func Tracing() Middleware {
	tracer := otel.Tracer(tracerName)
	return TracingWithTracer(tracer)
}

// TracingWithTracer returns tracing middleware using the provided tracer.
// This variant allows injecting a specific TracerProvider for testing or
// when multiple providers are in use.
func TracingWithTracer(tracer trace.Tracer) Middleware {
	return func(ctx context.Context, c *step.Check, next Handler) error {
		ctx, span := tracer.Start(ctx, "checkout.step.validate",
			trace.WithAttributes(
				attribute.String("checkout.step", c.Step.String()),
				attribute.String("checkout.session_key", c.SessionKey),
			),
			trace.WithSpanKind(trace.SpanKindInternal),
		)
		defer span.End()

		err := next(ctx)
		span.SetAttributes(attribute.Bool("checkout.valid", c.Result.Valid))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		return err
	}
}
