// Package tracing exposes the OpenTelemetry tracer used to span an aggregation run.
//
// No exporter is configured by the binary; without an installed TracerProvider the
// global no-op provider is used and spans cost nothing. Span layout:
//
//	aggregate.run
//	├── aggregate.source   (one per configured feed, attribute source.url)
//	└── aggregate.entry    (one per unique entry, attributes entry.link, content.tier)
package tracing
