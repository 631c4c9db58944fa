package composition

import (
	"errors"
	"time"

	"github.com/beevik/etree"

	"composition-converter/internal/logging"
	"composition-converter/internal/metrics"
)

// Convert rewrites the composition at opts.InputPath for the new resolution
// and frame rate and writes it to opts.OutputPath. The input file is only
// read. Nothing is written unless every rewrite succeeded.
func Convert(opts Options) (*Summary, error) {
	start := time.Now()
	metrics.ConversionsInFlight.Inc()
	defer metrics.ConversionsInFlight.Dec()

	summary, err := convert(opts)
	elapsed := time.Since(start)
	metrics.ConversionDuration.Observe(elapsed.Seconds())
	metrics.ConversionsTotal.WithLabelValues(Status(err)).Inc()
	if err != nil {
		logging.Error("Conversion of %s failed: %v", opts.InputPath, err)
		return nil, err
	}

	summary.Duration = elapsed
	recordSummary(summary)
	logging.Info("Converted %s -> %s in %v (%d clips, %d transform params, %d warnings)",
		opts.InputPath, opts.OutputPath, elapsed.Round(time.Millisecond),
		summary.ClipsModified, summary.TransformsAdjusted, len(summary.Warnings))
	return summary, nil
}

func convert(opts Options) (*Summary, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	doc, err := loadDocument(opts.InputPath)
	if err != nil {
		return nil, err
	}
	summary, err := Rewrite(doc, opts)
	if err != nil {
		return nil, err
	}
	if err := saveDocument(doc, opts.OutputPath); err != nil {
		return nil, err
	}
	return summary, nil
}

// Rewrite applies every conversion pass to an already parsed document in
// place. Options paths are only used for reference remapping and reporting.
func Rewrite(doc *etree.Document, opts Options) (*Summary, error) {
	if doc.Root() == nil {
		return nil, errorf(ErrParse, "document has no root element")
	}
	c := newConversion(doc, opts)
	if err := c.run(); err != nil {
		return nil, err
	}
	summary := c.summary
	return &summary, nil
}

func (c *conversion) run() error {
	if err := c.rescaleCompositionInfo(); err != nil {
		return err
	}
	c.rescaleComposition()
	c.rescaleLayers()
	c.rescaleTextComponents()
	c.processClips()
	c.sweepTransforms()
	if c.opts.IgnoreExtensions && c.opts.remapsReferences() {
		c.sweepReferences()
	}
	c.summary.PathsUpdated = len(c.updatedRefs)
	return nil
}

// Status classifies a conversion outcome for metrics and reports.
func Status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrInvalidOptions):
		return "invalid"
	case errors.Is(err, ErrRead):
		return "read_error"
	case errors.Is(err, ErrParse):
		return "parse_error"
	case errors.Is(err, ErrWrite):
		return "write_error"
	default:
		return "error"
	}
}

func recordSummary(s *Summary) {
	metrics.ElementsRewritten.WithLabelValues("clip").Add(float64(s.ClipsModified))
	metrics.ElementsRewritten.WithLabelValues("transform_param").Add(float64(s.TransformsAdjusted))
	metrics.ElementsRewritten.WithLabelValues("duration").Add(float64(s.DurationsAdjusted))
	metrics.ElementsRewritten.WithLabelValues("custom_duration").Add(float64(s.CustomDurationsPreserved))
	metrics.ElementsRewritten.WithLabelValues("path").Add(float64(s.PathsUpdated))
	metrics.ElementsRewritten.WithLabelValues("text_component").Add(float64(s.TextComponentsFound))
	for _, w := range s.Warnings {
		metrics.ConversionWarnings.WithLabelValues(string(w.Kind)).Inc()
	}
}
