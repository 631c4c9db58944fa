// Package startup handles configuration loading and startup/shutdown logging.
//
// # Configuration
//
// Configuration is read from environment variables by [LoadConfig]; command
// line flags override it.
//
//   - PORT: HTTP server port (default: 8080)
//   - HISTORY_DB: SQLite history journal path (default: disabled)
//   - METRICS_FILE: Prometheus textfile written after CLI runs (default: disabled)
//   - CONVERT_WORKERS: Batch worker count (default: derived from GOMAXPROCS)
//   - FS_RETRIES: Retry budget for stale NFS handles (default: 3)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X composition-converter/internal/startup.Version=1.2.0"
package startup
