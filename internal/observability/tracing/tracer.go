package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentationName identifies spans emitted by the aggregator.
const InstrumentationName = "combined-feed"

// GetTracer returns the aggregator tracer from the global provider.
// It is resolved on every call so a provider installed after package init
// (including test recorders) is honored.
func GetTracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}
