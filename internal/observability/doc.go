// Package observability groups the logging, metrics and tracing support used by
// the aggregator.
//
// Subpackages:
//   - logging: Structured logging utilities with slog
//   - metrics: Prometheus collectors and recorders for one aggregation run
//   - tracing: OpenTelemetry tracer access
package observability
