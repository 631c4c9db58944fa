package jobs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"composition-converter/internal/composition"
	"composition-converter/internal/filesystem"
)

// ErrJobFile marks job files that cannot be read or decoded.
var ErrJobFile = errors.New("invalid job file")

// Settings are the conversion parameters shared between the defaults block
// and individual jobs. Nil means "inherit". Heights are accepted for
// readability only; the resolution factor is width based.
type Settings struct {
	OldWidth         *float64 `yaml:"old_width,omitempty"`
	OldHeight        *float64 `yaml:"old_height,omitempty"`
	NewWidth         *float64 `yaml:"new_width,omitempty"`
	NewHeight        *float64 `yaml:"new_height,omitempty"`
	OldFPS           *float64 `yaml:"old_fps,omitempty"`
	NewFPS           *float64 `yaml:"new_fps,omitempty"`
	ResolutionFactor *float64 `yaml:"resolution_factor,omitempty"`
	FramerateFactor  *float64 `yaml:"framerate_factor,omitempty"`
	IgnoreExtensions *bool    `yaml:"ignore_extensions,omitempty"`
	KeepName         *bool    `yaml:"keep_name,omitempty"`
	OldMedia         *string  `yaml:"old_media,omitempty"`
	NewMedia         *string  `yaml:"new_media,omitempty"`
}

// Job is one conversion in a batch file.
type Job struct {
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Name     string `yaml:"name,omitempty"`
	Settings `yaml:",inline"`
}

// File is a decoded batch file.
type File struct {
	Defaults Settings `yaml:"defaults"`
	Jobs     []Job    `yaml:"jobs"`

	// baseDir resolves relative paths; empty means the working directory.
	baseDir string
}

// Load reads and decodes a batch file.
func Load(path string) (*File, error) {
	cfg := filesystem.DefaultRetryConfig()
	cfg.Label = "input"
	data, err := filesystem.ReadFileWithRetry(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrJobFile, path, err)
	}
	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.baseDir = filepath.Dir(path)
	return f, nil
}

// Parse decodes a batch file. Unknown keys are rejected so typos do not
// silently fall back to defaults.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrJobFile)
		}
		return nil, fmt.Errorf("%w: %v", ErrJobFile, err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("%w: no jobs defined", ErrJobFile)
	}
	for i, job := range f.Jobs {
		if strings.TrimSpace(job.Input) == "" || strings.TrimSpace(job.Output) == "" {
			return nil, fmt.Errorf("%w: job %d: input and output are required", ErrJobFile, i+1)
		}
	}
	return &f, nil
}

// Options resolves the conversion options for job i.
func (f *File) Options(i int) (composition.Options, error) {
	job := f.Jobs[i]
	s := merge(f.Defaults, job.Settings)

	factors, err := s.factors()
	if err != nil {
		return composition.Options{}, err
	}

	opts := composition.Options{
		InputPath:        f.resolve(job.Input),
		OutputPath:       f.resolve(job.Output),
		ResolutionFactor: factors.Resolution,
		FramerateFactor:  factors.Framerate,
		CompositionName:  job.Name,
		IgnoreExtensions: boolValue(s.IgnoreExtensions),
	}
	if s.OldMedia != nil {
		opts.OldMediaRoot = *s.OldMedia
	}
	if s.NewMedia != nil {
		opts.NewMediaRoot = f.resolve(*s.NewMedia)
	}
	if opts.CompositionName == "" && !boolValue(s.KeepName) {
		opts.CompositionName = composition.DefaultCompositionName(opts.OutputPath)
	}

	if err := opts.Validate(); err != nil {
		return composition.Options{}, err
	}
	if composition.SamePath(opts.InputPath, opts.OutputPath) {
		return composition.Options{}, fmt.Errorf("%w: output path must differ from input path", composition.ErrInvalidOptions)
	}
	return opts, nil
}

// resolve makes p relative to the job file. The old media root is matched
// against paths stored inside documents and is left as written.
func (f *File) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || f.baseDir == "" {
		return p
	}
	return filepath.Join(f.baseDir, p)
}

// factors applies explicit factors over those derived from dimensions.
func (s Settings) factors() (composition.Factors, error) {
	derived, err := composition.FactorsFromDimensions(
		floatValue(s.OldWidth, composition.DefaultOldWidth),
		floatValue(s.NewWidth, composition.DefaultNewWidth),
		floatValue(s.OldFPS, composition.DefaultOldFPS),
		floatValue(s.NewFPS, composition.DefaultNewFPS),
	)
	if err != nil && (s.ResolutionFactor == nil || s.FramerateFactor == nil) {
		return composition.Factors{}, err
	}
	if s.ResolutionFactor != nil {
		derived.Resolution = *s.ResolutionFactor
	}
	if s.FramerateFactor != nil {
		derived.Framerate = *s.FramerateFactor
	}
	return derived, nil
}

// merge overlays the non-nil fields of override on base.
func merge(base, override Settings) Settings {
	out := base
	pick := func(dst **float64, src *float64) {
		if src != nil {
			*dst = src
		}
	}
	pick(&out.OldWidth, override.OldWidth)
	pick(&out.OldHeight, override.OldHeight)
	pick(&out.NewWidth, override.NewWidth)
	pick(&out.NewHeight, override.NewHeight)
	pick(&out.OldFPS, override.OldFPS)
	pick(&out.NewFPS, override.NewFPS)
	pick(&out.ResolutionFactor, override.ResolutionFactor)
	pick(&out.FramerateFactor, override.FramerateFactor)
	if override.IgnoreExtensions != nil {
		out.IgnoreExtensions = override.IgnoreExtensions
	}
	if override.KeepName != nil {
		out.KeepName = override.KeepName
	}
	if override.OldMedia != nil {
		out.OldMedia = override.OldMedia
	}
	if override.NewMedia != nil {
		out.NewMedia = override.NewMedia
	}
	return out
}

func floatValue(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func boolValue(p *bool) bool {
	return p != nil && *p
}
