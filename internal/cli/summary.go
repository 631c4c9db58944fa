package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"composition-converter/internal/composition"
	"composition-converter/internal/jobs"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.Faint)
)

// printSummary renders a conversion summary followed by its warnings.
// Colours are dropped automatically when stdout is not a terminal.
func printSummary(w io.Writer, s *composition.Summary, elapsed time.Duration) {
	fmt.Fprintln(w, s.String())
	dimColor.Fprintf(w, "Completed in %v\n", elapsed.Round(time.Millisecond))
	printWarnings(w, s.Warnings)
}

func printWarnings(w io.Writer, warnings []composition.Warning) {
	if len(warnings) == 0 {
		return
	}
	warnColor.Fprintf(w, "\n%d warning(s):\n", len(warnings))
	for _, warning := range warnings {
		warnColor.Fprintf(w, "  - %s\n", warning)
	}
}

// printReport renders one line per batch job and a closing tally.
func printReport(w io.Writer, r *jobs.Report) {
	for _, res := range r.Results {
		if res.Err != nil {
			failColor.Fprint(w, "FAIL ")
			fmt.Fprintf(w, "%s: %v\n", res.Options.InputPath, res.Err)
			continue
		}
		okColor.Fprint(w, "OK   ")
		fmt.Fprintf(w, "%s -> %s (%d clips, %d paths", res.Options.InputPath, res.Options.OutputPath,
			res.Summary.ClipsModified, res.Summary.PathsUpdated)
		if n := len(res.Summary.Warnings); n > 0 {
			warnColor.Fprintf(w, ", %d warning(s)", n)
		}
		fmt.Fprintln(w, ")")
	}

	failed := r.Failed()
	tally := fmt.Sprintf("\n%d of %d jobs succeeded in %v\n", len(r.Results)-failed, len(r.Results), r.Elapsed.Round(time.Millisecond))
	if failed > 0 {
		failColor.Fprint(w, tally)
	} else {
		okColor.Fprint(w, tally)
	}
}
