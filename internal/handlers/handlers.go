package handlers

import (
	"time"

	"composition-converter/internal/history"
	"composition-converter/internal/memory"
)

// Handlers serves the HTTP API. journal may be nil when history is disabled
// and guard may be nil when memory backpressure is off.
type Handlers struct {
	journal   *history.Journal
	guard     *memory.Guard
	startTime time.Time
}

// New creates the API handlers.
func New(journal *history.Journal, guard *memory.Guard) *Handlers {
	return &Handlers{
		journal:   journal,
		guard:     guard,
		startTime: time.Now(),
	}
}
