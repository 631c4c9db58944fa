// Package middleware provides HTTP middleware for the conversion API.
//
// It includes:
//   - Request logging in W3C Extended Log Format
//   - Request metrics labelled by route template
//   - gzip compression of JSON and text responses
package middleware
