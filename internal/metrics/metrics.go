package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_conversions_total",
			Help: "Total number of composition conversions by outcome",
		},
		[]string{"status"}, // "success", "read_error", "parse_error", "write_error", "invalid", "error"
	)

	ConversionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "compconv_conversion_duration_seconds",
			Help:    "Wall time of a single conversion in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ConversionsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_conversions_in_flight",
			Help: "Number of conversions currently running",
		},
	)

	ElementsRewritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_elements_rewritten_total",
			Help: "Total number of document elements rewritten by kind",
		},
		[]string{"kind"}, // "clip", "transform_param", "duration", "custom_duration", "path", "text_component"
	)

	ConversionWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_conversion_warnings_total",
			Help: "Total number of non-fatal conversion warnings by kind",
		},
		[]string{"kind"},
	)
)

// Batch metrics
var (
	BatchRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compconv_batch_runs_total",
			Help: "Total number of batch job files executed",
		},
	)

	BatchJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_batch_jobs_total",
			Help: "Total number of batch jobs by outcome",
		},
		[]string{"status"},
	)

	BatchLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_batch_last_run_duration_seconds",
			Help: "Duration of the last batch run in seconds",
		},
	)
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compconv_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// History journal metrics
var (
	HistoryQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_history_queries_total",
			Help: "Total number of history journal queries",
		},
		[]string{"operation", "status"},
	)

	HistoryQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compconv_history_query_duration_seconds",
			Help:    "History journal query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)

	HistoryConversionsRecorded = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "compconv_history_conversions",
			Help: "Number of conversions stored in the history journal by status",
		},
		[]string{"status"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "compconv_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"label", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"label", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_filesystem_retry_attempts_total",
			Help: "Total number of retries after NFS stale file handle errors",
		},
		[]string{"operation", "label"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_filesystem_retry_success_total",
			Help: "Total number of operations that succeeded after retrying",
		},
		[]string{"operation", "label"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_filesystem_retry_failures_total",
			Help: "Total number of operations that failed after exhausting retries",
		},
		[]string{"operation", "label"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "compconv_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors seen",
		},
		[]string{"operation", "label"},
	)
)

// Memory guard metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_memory_usage_ratio",
			Help: "Heap allocation as a ratio of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_memory_paused",
			Help: "Whether new conversions are held back by memory pressure (1 = paused)",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "compconv_memory_pauses_total",
			Help: "Total number of times memory pressure paused new conversions",
		},
	)

	MemoryLimitBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "compconv_memory_limit_bytes",
			Help: "Configured Go heap soft limit in bytes (0 = unlimited)",
		},
	)
)

// Application info
var AppInfo = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "compconv_app_info",
		Help: "Application build information",
	},
	[]string{"version", "commit", "go_version"},
)

// SetAppInfo publishes build information as a constant 1-valued gauge.
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}

// WriteTextfile gathers the default registry and writes it in the text
// exposition format, for node_exporter's textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
