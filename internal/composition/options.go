package composition

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
)

// Default source and target formats, matching a 1080p25 to UHD60 upgrade.
const (
	DefaultOldWidth  = 1920
	DefaultOldHeight = 1080
	DefaultOldFPS    = 25
	DefaultNewWidth  = 3840
	DefaultNewHeight = 2160
	DefaultNewFPS    = 60
)

// Options describes one conversion.
type Options struct {
	InputPath  string `json:"input"`
	OutputPath string `json:"output"`

	// OldMediaRoot and NewMediaRoot are set together or not at all.
	OldMediaRoot string `json:"oldMediaRoot,omitempty"`
	NewMediaRoot string `json:"newMediaRoot,omitempty"`

	// ResolutionFactor is new_width/old_width.
	ResolutionFactor float64 `json:"resolutionFactor"`
	// FramerateFactor is new_fps/old_fps.
	FramerateFactor float64 `json:"framerateFactor"`

	// CompositionName replaces the composition name when non-empty.
	CompositionName string `json:"name,omitempty"`

	// IgnoreExtensions switches reference remapping to stem matching against
	// the listing of NewMediaRoot.
	IgnoreExtensions bool `json:"ignoreExtensions,omitempty"`
}

// remapsReferences reports whether media references should be rewritten.
func (o Options) remapsReferences() bool {
	return o.OldMediaRoot != "" && o.NewMediaRoot != ""
}

// Validate checks the options without touching the filesystem.
func (o Options) Validate() error {
	if strings.TrimSpace(o.InputPath) == "" {
		return fmt.Errorf("%w: input path is required", ErrInvalidOptions)
	}
	if strings.TrimSpace(o.OutputPath) == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidOptions)
	}
	if !positiveFinite(o.ResolutionFactor) {
		return fmt.Errorf("%w: resolution factor must be a positive number, got %v", ErrInvalidOptions, o.ResolutionFactor)
	}
	if !positiveFinite(o.FramerateFactor) {
		return fmt.Errorf("%w: frame rate factor must be a positive number, got %v", ErrInvalidOptions, o.FramerateFactor)
	}
	if (o.OldMediaRoot == "") != (o.NewMediaRoot == "") {
		return fmt.Errorf("%w: old and new media paths must be provided together", ErrInvalidOptions)
	}
	if o.IgnoreExtensions && !o.remapsReferences() {
		return fmt.Errorf("%w: ignoring extensions requires both old and new media paths", ErrInvalidOptions)
	}
	return nil
}

func positiveFinite(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Factors holds the two multipliers a conversion applies.
type Factors struct {
	Resolution float64
	Framerate  float64
}

// FactorsFromDimensions derives factors from old/new width and frame-rate
// pairs. Heights do not take part; the resolution factor is width based.
func FactorsFromDimensions(oldWidth, newWidth, oldFPS, newFPS float64) (Factors, error) {
	if !positiveFinite(oldWidth) || !positiveFinite(oldFPS) {
		return Factors{}, fmt.Errorf("%w: original resolution and frame rate must be non-zero", ErrInvalidOptions)
	}
	if !positiveFinite(newWidth) || !positiveFinite(newFPS) {
		return Factors{}, fmt.Errorf("%w: new resolution and frame rate must be positive", ErrInvalidOptions)
	}
	return Factors{
		Resolution: newWidth / oldWidth,
		Framerate:  newFPS / oldFPS,
	}, nil
}

// DefaultCompositionName returns the name a composition gets when the caller
// does not choose one: the output file name without its extension.
func DefaultCompositionName(outputPath string) string {
	base := filepath.Base(outputPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// SamePath reports whether two paths refer to the same file location after
// cleaning and resolving them against the working directory. Callers use it
// to refuse converting a document onto itself.
func SamePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
