package memory

import (
	"math"
	"os"
	"runtime/debug"
	"strconv"

	"composition-converter/internal/logging"
)

// DefaultRatio is the share of the container limit handed to the Go heap.
const DefaultRatio = 0.9

// Limit describes how GOMEMLIMIT was configured.
type Limit struct {
	// Source is "GOMEMLIMIT", "MEMORY_LIMIT" or "none".
	Source string

	// Container is the container limit in bytes, 0 when unknown.
	Container int64

	// Heap is the resulting soft heap limit in bytes, 0 when unset.
	Heap int64

	// Ratio applied to Container, 0 when not applicable.
	Ratio float64
}

// Configured reports whether a heap limit is in effect.
func (l Limit) Configured() bool {
	return l.Heap > 0
}

// ConfigureFromEnv sets GOMEMLIMIT from the process environment.
func ConfigureFromEnv() Limit {
	return apply(os.Getenv, debug.SetMemoryLimit)
}

// apply resolves the limit from getenv and installs it with set.
func apply(getenv func(string) string, set func(int64) int64) Limit {
	if v := getenv("GOMEMLIMIT"); v != "" {
		// The runtime already parsed it; read back what it settled on.
		limit := Limit{Source: "GOMEMLIMIT"}
		if current := set(-1); current > 0 && current < math.MaxInt64 {
			limit.Heap = current
		}
		logging.Info("GOMEMLIMIT set via environment: %s", v)
		return limit
	}

	raw := getenv("MEMORY_LIMIT")
	if raw == "" {
		logging.Debug("MEMORY_LIMIT not set, leaving GOMEMLIMIT unconfigured")
		return Limit{Source: "none"}
	}
	container, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || container <= 0 {
		logging.Warn("Ignoring invalid MEMORY_LIMIT %q", raw)
		return Limit{Source: "none"}
	}

	ratio := parseRatio(getenv("MEMORY_RATIO"))
	heap := int64(float64(container) * ratio)
	set(heap)

	logging.Info("Configured GOMEMLIMIT: %s (%.0f%% of %s container limit)",
		FormatBytes(heap), ratio*100, FormatBytes(container))

	return Limit{
		Source:    "MEMORY_LIMIT",
		Container: container,
		Heap:      heap,
		Ratio:     ratio,
	}
}

func parseRatio(raw string) float64 {
	if raw == "" {
		return DefaultRatio
	}
	ratio, err := strconv.ParseFloat(raw, 64)
	if err != nil || ratio <= 0 || ratio > 1 {
		logging.Warn("Ignoring invalid MEMORY_RATIO %q, using %.2f", raw, DefaultRatio)
		return DefaultRatio
	}
	return ratio
}

// FormatBytes renders b with binary units, e.g. "512.0 MiB".
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return strconv.FormatInt(b, 10) + " B"
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return strconv.FormatFloat(float64(b)/float64(div), 'f', 1, 64) + " " + string("KMGTPE"[exp]) + "iB"
}
