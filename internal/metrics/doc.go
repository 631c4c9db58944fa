// Package metrics provides Prometheus instrumentation for the composition
// converter.
//
// All metrics are prefixed with "compconv_" and registered on the default
// registry. The serve command exposes them on /metrics; one-shot commands
// can dump a snapshot with WriteTextfile for node_exporter's textfile
// collector (the --metrics-file flag).
//
// # Metric Categories
//
// ## Conversion Metrics
//
//   - ConversionsTotal: Counter of conversions by outcome
//   - ConversionDuration: Histogram of conversion wall time
//   - ConversionsInFlight: Gauge of running conversions
//   - ElementsRewritten: Counter of rewritten elements by kind
//   - ConversionWarnings: Counter of non-fatal warnings by kind
//
// ## Batch Metrics
//
//   - BatchRunsTotal, BatchJobsTotal, BatchLastRunDuration
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal, HTTPRequestDuration
//
// ## History Metrics
//
//   - HistoryQueryTotal, HistoryQueryDuration
//   - HistoryConversionsRecorded: refreshed by Collector from the journal
//
// ## Filesystem Metrics
//
// Recorded through the filesystem.Observer installed by Initialize:
//   - FilesystemOperationDuration, FilesystemOperationErrors
//   - FilesystemRetryAttempts, FilesystemRetrySuccess, FilesystemRetryFailures
//   - FilesystemStaleErrors
package metrics
