package composition

import (
	"fmt"
	"strings"
	"time"
)

// Summary reports what a conversion changed.
type Summary struct {
	// ClipsModified counts every clip visited, generators and routers included.
	ClipsModified int `json:"clipsModified"`
	// TransformsAdjusted counts Position/Anchor parameters rewritten.
	TransformsAdjusted int `json:"transformsAdjusted"`
	// TransformsProcessed counts distinct transform nodes scaled.
	TransformsProcessed int `json:"transformsProcessed"`
	// DurationsAdjusted counts clips whose duration was handled: beat
	// durations that were scaled and second durations that were kept.
	DurationsAdjusted int `json:"durationsAdjusted"`
	// CustomDurationsPreserved counts user-edited second durations kept as is.
	CustomDurationsPreserved int `json:"customDurationsPreserved"`
	// PathsUpdated counts distinct reference elements whose path changed.
	PathsUpdated        int `json:"pathsUpdated"`
	TextComponentsFound int `json:"textComponentsFound"`

	IgnoredExtensions bool          `json:"ignoredExtensions,omitempty"`
	OutputPath        string        `json:"outputPath"`
	Warnings          []Warning     `json:"warnings,omitempty"`
	Duration          time.Duration `json:"durationNs"`
}

// WarningCount returns the number of warnings of the given kind.
func (s *Summary) WarningCount(kind WarningKind) int {
	n := 0
	for _, w := range s.Warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// String renders the summary the way it is shown to users.
func (s *Summary) String() string {
	var b strings.Builder
	b.WriteString("Modifications Summary:\n")
	fmt.Fprintf(&b, "Clips modified: %d\n", s.ClipsModified)
	fmt.Fprintf(&b, "Transforms adjusted: %d\n", s.TransformsAdjusted)
	fmt.Fprintf(&b, "Durations adjusted: %d\n", s.DurationsAdjusted)
	fmt.Fprintf(&b, "Custom durations preserved: %d\n", s.CustomDurationsPreserved)
	fmt.Fprintf(&b, "File paths updated: %d\n", s.PathsUpdated)
	fmt.Fprintf(&b, "Text components found: %d", s.TextComponentsFound)
	if s.IgnoredExtensions && s.PathsUpdated > 0 {
		b.WriteString("\nNote: File extensions were ignored during replacement, allowing format conversion.")
		b.WriteString("\nFiles with the same base name but a different extension were matched in the new media folder.")
	}
	fmt.Fprintf(&b, "\n\nAdjusted composition saved to: %s", s.OutputPath)
	return b.String()
}
