// Package observability provides an OpenTelemetry-based metrics hook
// for the checkout flow. The MetricsHook implements lifecycle hooks to
// record system-wide counters for session starts, step completions,
// validation failures, completions, abandonments, and announcement
// publishes.
//
// For per-validation tracing and histograms, see the middleware package:
// middleware.Tracing() and middleware.Metrics().
package observability
