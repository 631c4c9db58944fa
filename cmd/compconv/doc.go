// Package main provides the entry point for compconv.
//
// compconv converts Resolume Arena/Avenue composition files (.avc) for a
// new output resolution and frame rate.
//
// # What a conversion changes
//
//   - The declared composition size, layer and clip track sizes, and the
//     position and anchor of every transform effect, scaled once each
//   - Text sizes and spacing of text generators and effects
//   - Beat-based clip durations, stretched by the frame rate factor;
//     duration set in seconds is left alone
//   - Optionally, media references moved from one media folder to another,
//     with an extension-agnostic mode for transcoded media
//
// # Commands
//
//   - convert: convert a single composition
//   - batch: run a YAML job file with many conversions in parallel
//   - serve: HTTP API with /api/convert, /api/history, /health and /metrics
//   - history: list entries from the SQLite history journal
//   - version: build information
//
// # Configuration
//
// Environment variables (flags take precedence):
//
//   - LOG_LEVEL / DEBUG: log verbosity
//   - PORT: HTTP listen port for serve (default 8080)
//   - HISTORY_DB: path of the history journal (empty disables it)
//   - METRICS_FILE: write a Prometheus textfile snapshot on exit
//   - CONVERT_WORKERS: parallel conversions for batch
//   - FS_RETRIES: retries for stale NFS file handles (default 3)
//   - LOG_HEALTH_CHECKS: include health probes in the access log
//   - MEMORY_LIMIT / MEMORY_RATIO: derive GOMEMLIMIT from the container limit;
//     batch and serve hold back new conversions when the heap nears it
package main
