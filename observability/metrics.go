package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/chanderbhanswami/vardhman-mills-sub017/hook"
	"github.com/chanderbhanswami/vardhman-mills-sub017/id"
	"github.com/chanderbhanswami/vardhman-mills-sub017/step"
)

// meterName is the instrumentation scope name for checkout lifecycle metrics.
const meterName = "github.com/chanderbhanswami/vardhman-mills-sub017/observability"

// Compile-time interface checks.
var (
	_ hook.Hook                  = (*MetricsHook)(nil)
	_ hook.SessionStarted        = (*MetricsHook)(nil)
	_ hook.StepEntered           = (*MetricsHook)(nil)
	_ hook.StepCompleted         = (*MetricsHook)(nil)
	_ hook.ValidationFailed      = (*MetricsHook)(nil)
	_ hook.SessionCompleted      = (*MetricsHook)(nil)
	_ hook.SessionAbandoned      = (*MetricsHook)(nil)
	_ hook.AnnouncementPublished = (*MetricsHook)(nil)
)

// MetricsHook records system-wide checkout lifecycle metrics. Register it
// on the hook registry to automatically track session starts, step
// completions, validation failures, completions, abandonments, and
// announcement publishes.
type MetricsHook struct {
	sessionStarted        metric.Int64Counter
	sessionCompleted      metric.Int64Counter
	sessionAbandoned      metric.Int64Counter
	sessionDuration       metric.Float64Histogram
	stepEntered           metric.Int64Counter
	stepCompleted         metric.Int64Counter
	validationFailed      metric.Int64Counter
	announcementPublished metric.Int64Counter
}

// NewMetricsHook creates a MetricsHook using the global OTel MeterProvider.
// If no MeterProvider is configured, noop instruments are used and the
// hook becomes a pass-through.
func NewMetricsHook() *MetricsHook {
	return NewMetricsHookWithMeter(otel.Meter(meterName))
}

// NewMetricsHookWithMeter creates a MetricsHook with the provided meter.
// This variant allows injecting a specific MeterProvider for testing.
func NewMetricsHookWithMeter(meter metric.Meter) *MetricsHook {
	h := &MetricsHook{}

	// On error, the OTel API returns noop instruments so the hook
	// degrades gracefully.
	h.sessionStarted, _ = meter.Int64Counter(
		"checkout.session.started",
		metric.WithDescription("Total checkout sessions started"),
		metric.WithUnit("{session}"),
	)
	h.sessionCompleted, _ = meter.Int64Counter(
		"checkout.session.completed",
		metric.WithDescription("Total checkout sessions completed"),
		metric.WithUnit("{session}"),
	)
	h.sessionAbandoned, _ = meter.Int64Counter(
		"checkout.session.abandoned",
		metric.WithDescription("Total checkout sessions abandoned"),
		metric.WithUnit("{session}"),
	)
	h.sessionDuration, _ = meter.Float64Histogram(
		"checkout.session.duration",
		metric.WithDescription("Time from session start to completion in seconds"),
		metric.WithUnit("s"),
	)
	h.stepEntered, _ = meter.Int64Counter(
		"checkout.step.entered",
		metric.WithDescription("Total step entries, by step"),
		metric.WithUnit("{step}"),
	)
	h.stepCompleted, _ = meter.Int64Counter(
		"checkout.step.completed",
		metric.WithDescription("Total step completions, by step"),
		metric.WithUnit("{step}"),
	)
	h.validationFailed, _ = meter.Int64Counter(
		"checkout.validation.failed",
		metric.WithDescription("Total step validation failures, by step"),
		metric.WithUnit("{failure}"),
	)
	h.announcementPublished, _ = meter.Int64Counter(
		"checkout.announcement.published",
		metric.WithDescription("Total announcements published"),
		metric.WithUnit("{announcement}"),
	)

	return h
}

// Name implements hook.Hook.
func (m *MetricsHook) Name() string { return "observability-metrics" }

// ── Session lifecycle hooks ─────────────────────────

// OnSessionStarted implements hook.SessionStarted.
func (m *MetricsHook) OnSessionStarted(ctx context.Context, _ string, _ step.Step) error {
	m.sessionStarted.Add(ctx, 1)
	return nil
}

// OnSessionCompleted implements hook.SessionCompleted.
func (m *MetricsHook) OnSessionCompleted(ctx context.Context, _ string, elapsed time.Duration) error {
	m.sessionCompleted.Add(ctx, 1)
	m.sessionDuration.Record(ctx, elapsed.Seconds())
	return nil
}

// OnSessionAbandoned implements hook.SessionAbandoned.
func (m *MetricsHook) OnSessionAbandoned(ctx context.Context, _ string, last step.Step) error {
	m.sessionAbandoned.Add(ctx, 1, metric.WithAttributes(
		attribute.String("last_step", last.String()),
	))
	return nil
}

// ── Step lifecycle hooks ────────────────────────────

// OnStepEntered implements hook.StepEntered.
func (m *MetricsHook) OnStepEntered(ctx context.Context, _ string, s step.Step) error {
	m.stepEntered.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", s.String()),
	))
	return nil
}

// OnStepCompleted implements hook.StepCompleted.
func (m *MetricsHook) OnStepCompleted(ctx context.Context, _ string, s step.Step, _ time.Duration) error {
	m.stepCompleted.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", s.String()),
	))
	return nil
}

// OnValidationFailed implements hook.ValidationFailed.
func (m *MetricsHook) OnValidationFailed(ctx context.Context, _ string, s step.Step, _ []string) error {
	m.validationFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("step", s.String()),
	))
	return nil
}

// ── Announcement lifecycle hooks ────────────────────

// OnAnnouncementPublished implements hook.AnnouncementPublished.
func (m *MetricsHook) OnAnnouncementPublished(ctx context.Context, _ id.AnnouncementID, _ string) error {
	m.announcementPublished.Add(ctx, 1)
	return nil
}
