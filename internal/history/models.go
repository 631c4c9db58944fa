package history

import (
	"time"

	"composition-converter/internal/composition"
)

// Status values stored with each entry.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Entry is one recorded conversion.
type Entry struct {
	ID               int64     `json:"id"`
	InputPath        string    `json:"input"`
	OutputPath       string    `json:"output"`
	ResolutionFactor float64   `json:"resolutionFactor"`
	FramerateFactor  float64   `json:"framerateFactor"`
	Clips            int       `json:"clips"`
	Transforms       int       `json:"transforms"`
	Durations        int       `json:"durations"`
	CustomDurations  int       `json:"customDurations"`
	PathsUpdated     int       `json:"pathsUpdated"`
	TextComponents   int       `json:"textComponents"`
	Warnings         int       `json:"warnings"`
	Status           string    `json:"status"`
	Error            string    `json:"error,omitempty"`
	DurationMS       int64     `json:"durationMs"`
	CreatedAt        time.Time `json:"createdAt"`
}

// NewEntry builds an entry from the outcome of a conversion. summary may be
// nil when err is set.
func NewEntry(opts composition.Options, summary *composition.Summary, err error, elapsed time.Duration) Entry {
	e := Entry{
		InputPath:        opts.InputPath,
		OutputPath:       opts.OutputPath,
		ResolutionFactor: opts.ResolutionFactor,
		FramerateFactor:  opts.FramerateFactor,
		Status:           StatusSuccess,
		DurationMS:       elapsed.Milliseconds(),
	}
	if err != nil {
		e.Status = StatusFailed
		e.Error = err.Error()
	}
	if summary != nil {
		e.Clips = summary.ClipsModified
		e.Transforms = summary.TransformsAdjusted
		e.Durations = summary.DurationsAdjusted
		e.CustomDurations = summary.CustomDurationsPreserved
		e.PathsUpdated = summary.PathsUpdated
		e.TextComponents = summary.TextComponentsFound
		e.Warnings = len(summary.Warnings)
	}
	return e
}
