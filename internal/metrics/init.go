package metrics

import "composition-converter/internal/filesystem"

// Initialize pre-populates expected label combinations so every metric is
// exported from the first scrape, and installs the filesystem observer.
// Call this once at startup.
func Initialize() {
	filesystem.SetObserver(NewFilesystemObserver())

	for _, status := range []string{"success", "read_error", "parse_error", "write_error", "invalid", "error"} {
		ConversionsTotal.WithLabelValues(status)
		BatchJobsTotal.WithLabelValues(status)
	}
	BatchJobsTotal.WithLabelValues("cancelled")

	for _, kind := range []string{"clip", "transform_param", "duration", "custom_duration", "path", "text_component"} {
		ElementsRewritten.WithLabelValues(kind)
	}

	for _, kind := range []string{"unparseable_number", "unknown_duration_unit", "no_fuzzy_match", "partial_match", "unmatched_media_root", "media_dir_unreadable"} {
		ConversionWarnings.WithLabelValues(kind)
	}

	labels := []string{"input", "output", "media", "unknown"}
	ops := []string{"stat", "read", "readdir", "write"}
	for _, label := range labels {
		for _, op := range ops {
			FilesystemOperationDuration.WithLabelValues(label, op)
			FilesystemOperationErrors.WithLabelValues(label, op)
			FilesystemRetryAttempts.WithLabelValues(op, label)
			FilesystemRetrySuccess.WithLabelValues(op, label)
			FilesystemRetryFailures.WithLabelValues(op, label)
			FilesystemStaleErrors.WithLabelValues(op, label)
		}
	}

	for _, op := range []string{"initialize_schema", "record", "list", "stats"} {
		HistoryQueryTotal.WithLabelValues(op, "success")
		HistoryQueryTotal.WithLabelValues(op, "error")
		HistoryQueryDuration.WithLabelValues(op)
	}
}
