// Package metrics provides the Prometheus collectors recorded during an aggregation run.
//
// All collectors are registered with the Prometheus default registry. The aggregator is a
// one-shot process, so instead of serving /metrics the binary can dump the default
// gatherer to a node-exporter textfile when the run ends (see WriteTextfile).
//
// Example usage:
//
//	metrics.RecordSourceFetch(true, time.Since(start))
//	metrics.RecordContentResolved(metrics.TierArticle)
//	if err := metrics.WriteTextfile(path); err != nil { ... }
package metrics
