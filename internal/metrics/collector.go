package metrics

import (
	"context"
	"time"

	"composition-converter/internal/logging"
)

// Stats holds the history journal totals.
type Stats struct {
	Succeeded int
	Failed    int
}

// StatsSource reports journal totals.
type StatsSource interface {
	JournalStats(ctx context.Context) (Stats, error)
}

// Collector keeps the journal gauges current while the server runs.
type Collector struct {
	source   StatsSource
	interval time.Duration
}

// NewCollector creates a collector polling source every interval.
func NewCollector(source StatsSource, interval time.Duration) *Collector {
	return &Collector{source: source, interval: interval}
}

// Run refreshes the gauges immediately and then on every tick until ctx ends.
func (c *Collector) Run(ctx context.Context) {
	c.collect(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// collect updates the gauges. A failed read keeps the previous values
// rather than reporting an empty journal.
func (c *Collector) collect(ctx context.Context) {
	if c.source == nil {
		return
	}

	stats, err := c.source.JournalStats(ctx)
	if err != nil {
		logging.Warn("Failed to read history stats: %v", err)
		return
	}

	HistoryConversionsRecorded.WithLabelValues("success").Set(float64(stats.Succeeded))
	HistoryConversionsRecorded.WithLabelValues("failed").Set(float64(stats.Failed))
	logging.Debug("History gauges refreshed: succeeded=%d, failed=%d", stats.Succeeded, stats.Failed)
}
