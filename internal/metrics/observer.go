package metrics

import "composition-converter/internal/filesystem"

// filesystemObserver implements filesystem.Observer using the Prometheus
// metrics declared in this package.
type filesystemObserver struct{}

// NewFilesystemObserver creates an observer that records filesystem metrics
// into the Prometheus counters and histograms declared in metrics.go.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{}
}

func (o *filesystemObserver) ObserveOperation(label, operation string, durationSeconds float64, err error) {
	FilesystemOperationDuration.WithLabelValues(label, operation).Observe(durationSeconds)
	if err != nil {
		FilesystemOperationErrors.WithLabelValues(label, operation).Inc()
	}
}

func (o *filesystemObserver) ObserveRetryAttempt(operation, label string) {
	FilesystemRetryAttempts.WithLabelValues(operation, label).Inc()
}

func (o *filesystemObserver) ObserveRetrySuccess(operation, label string) {
	FilesystemRetrySuccess.WithLabelValues(operation, label).Inc()
}

func (o *filesystemObserver) ObserveRetryFailure(operation, label string) {
	FilesystemRetryFailures.WithLabelValues(operation, label).Inc()
}

func (o *filesystemObserver) ObserveStaleError(operation, label string) {
	FilesystemStaleErrors.WithLabelValues(operation, label).Inc()
}
