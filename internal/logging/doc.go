// Package logging provides a simple leveled logging interface for the
// composition converter.
//
// It supports the following log levels:
//   - DEBUG: Per-parameter traces of every value the converter rewrites
//   - INFO: Conversion start/finish and summaries
//   - WARN: Non-fatal conversion warnings (unparseable values, unmatched media)
//   - ERROR: Failed conversions and I/O problems
//   - FATAL: Fatal errors that terminate the process
//
// The log level is configured via the LOG_LEVEL environment variable (or
// DEBUG=true) and can be overridden at runtime with SetLevel, which is what
// the --log-level flag does.
package logging
