// Package cli implements the compconv command line.
//
// Commands:
//   - convert: rewrite one composition for a new resolution and frame rate
//   - batch: run a YAML job file
//   - serve: run the HTTP API
//   - history: list journaled conversions
//   - version: print build information
//
// Environment configuration is read by the startup package; flags given on
// the command line take precedence.
package cli
