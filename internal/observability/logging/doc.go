// Package logging provides structured logging utilities with context propagation.
//
// This package wraps the standard library's log/slog package with helper functions
// for the logging patterns used throughout the aggregator.
//
// Key features:
//   - JSON and text output formats (LOG_FORMAT=text)
//   - Configurable log levels (LOG_LEVEL)
//   - Run ID propagation so every line of one pass can be correlated
//
// Example usage:
//
//	logger := logging.NewLogger()
//	ctx := logging.WithLogger(ctx, logging.WithRunID(logger, runID))
//	logging.FromContext(ctx).Info("source fetched", slog.String("url", src))
package logging
