// Package history keeps a SQLite journal of conversions.
//
// Every conversion run through the CLI, a batch job file or the HTTP API can
// be recorded with its options, summary counters and outcome. The journal
// uses WAL mode so the server can read while a batch run writes.
package history
