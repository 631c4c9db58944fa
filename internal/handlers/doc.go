// Package handlers provides the HTTP API of the conversion service.
//
// It includes handlers for:
//   - Running a conversion from a JSON request
//   - Listing the conversion history journal
//   - Health checks and build information
//
// NewRouter wires the handlers together with the Prometheus scrape endpoint
// and the request middleware.
package handlers
