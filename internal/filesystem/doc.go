/*
Package filesystem provides resilient filesystem operations for the
composition converter.

# Purpose

Compositions and their media libraries frequently live on network shares.
This package wraps the handful of filesystem operations the converter needs
(stat, directory listing, reading the input document, writing the output
document) with retry logic for transient NFS failures, specifically ESTALE
(stale file handle) errors.

# Key Features

  - Automatic retry with exponential backoff for NFS ESTALE errors (errno 116)
  - Configurable retry attempts (default: 3) and backoff timings
  - Atomic output writes: data goes to a temp file in the target directory
    and is renamed into place, so a failed write never leaves partial output
  - Optional Observer hook for metrics, installed by the metrics package

# Usage

	entries, err := filesystem.ReadDirWithRetry("/nfs/media", filesystem.DefaultRetryConfig())

	cfg := filesystem.DefaultRetryConfig()
	cfg.Label = "output"
	err := filesystem.WriteFileAtomic("/nfs/shows/show_4k.avc", data, 0o644, cfg)

# Retry Behavior

Defaults:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

Only ESTALE triggers retries. All other errors fail immediately.
*/
package filesystem
