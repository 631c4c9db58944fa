package memory

import (
	"context"
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"composition-converter/internal/logging"
	"composition-converter/internal/metrics"
)

// GuardConfig controls when a Guard pauses and resumes work.
type GuardConfig struct {
	// Limit is the heap budget in bytes. 0 uses GOMEMLIMIT if one is set.
	Limit int64

	// ResumeMark is the usage ratio below which paused work resumes.
	ResumeMark float64

	// PauseMark is the usage ratio at which new work is held back.
	PauseMark float64

	// Interval between heap samples.
	Interval time.Duration
}

// DefaultGuardConfig returns the marks used by batch and serve.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		ResumeMark: 0.7,
		PauseMark:  0.85,
		Interval:   2 * time.Second,
	}
}

// Guard samples heap usage and holds back new conversions while it is high.
type Guard struct {
	cfg       GuardConfig
	limit     int64
	readAlloc func() uint64

	mu      sync.RWMutex
	alloc   uint64
	paused  bool
	resumed chan struct{}

	stop     chan struct{}
	stopOnce sync.Once
}

// NewGuard creates a guard. Without a limit it never pauses.
func NewGuard(cfg GuardConfig) *Guard {
	limit := cfg.Limit
	if limit == 0 {
		if current := debug.SetMemoryLimit(-1); current > 0 && current < math.MaxInt64 {
			limit = current
		}
	}
	if limit == 0 {
		logging.Debug("Memory guard disabled: no memory limit configured")
	} else {
		logging.Debug("Memory guard pausing at %.0f%% of %s", cfg.PauseMark*100, FormatBytes(limit))
	}

	return &Guard{
		cfg:       cfg,
		limit:     limit,
		readAlloc: heapAlloc,
		resumed:   make(chan struct{}),
		stop:      make(chan struct{}),
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// Start begins sampling in the background.
func (g *Guard) Start() {
	if g == nil || g.limit == 0 {
		return
	}
	go g.loop()
}

// Stop ends sampling and releases any waiters.
func (g *Guard) Stop() {
	if g == nil {
		return
	}
	g.stopOnce.Do(func() { close(g.stop) })
}

func (g *Guard) loop() {
	ticker := time.NewTicker(g.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			g.sample()
		case <-g.stop:
			return
		}
	}
}

func (g *Guard) sample() {
	alloc := g.readAlloc()
	usage := float64(alloc) / float64(g.limit)
	metrics.MemoryUsageRatio.Set(usage)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.alloc = alloc

	switch {
	case usage >= g.cfg.PauseMark && !g.paused:
		logging.Warn("Memory at %.1f%% of limit, pausing new conversions", usage*100)
		g.paused = true
		metrics.MemoryPaused.Set(1)
		metrics.MemoryPausesTotal.Inc()
		go runtime.GC()
	case usage < g.cfg.ResumeMark && g.paused:
		logging.Info("Memory at %.1f%% of limit, resuming conversions", usage*100)
		g.paused = false
		metrics.MemoryPaused.Set(0)
		close(g.resumed)
		g.resumed = make(chan struct{})
	}
}

// Paused reports whether new work is currently held back.
func (g *Guard) Paused() bool {
	if g == nil {
		return false
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.paused
}

// Usage returns the last sampled heap usage as a ratio of the limit.
func (g *Guard) Usage() float64 {
	if g == nil || g.limit == 0 {
		return 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return float64(g.alloc) / float64(g.limit)
}

// Wait blocks while the guard is paused. It returns ctx's error if ctx ends
// first and nil once work may proceed or the guard is stopped.
func (g *Guard) Wait(ctx context.Context) error {
	if g == nil {
		return ctx.Err()
	}
	g.mu.RLock()
	if !g.paused {
		g.mu.RUnlock()
		return ctx.Err()
	}
	resumed := g.resumed
	g.mu.RUnlock()

	select {
	case <-resumed:
		return nil
	case <-g.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
