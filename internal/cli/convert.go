package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"composition-converter/internal/composition"
)

// errAborted is returned when the user declines to overwrite the output.
var errAborted = errors.New("conversion aborted")

type convertFlags struct {
	oldWidth, oldHeight float64
	newWidth, newHeight float64
	oldFPS, newFPS      float64

	resolutionFactor float64
	framerateFactor  float64

	oldMedia, newMedia string
	ignoreExtensions   bool

	name     string
	keepName bool
	force    bool
}

func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert INPUT OUTPUT",
		Short: "Convert one composition",
		Example: `  compconv convert show.avc show_4k.avc
  compconv convert show.avc show_4k.avc --new-fps 50 --old-media ./MediaA --new-media ./MediaB
  compconv convert show.avc show_hap.avc --old-media ./MediaA --new-media /media/hap --ignore-extensions`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.options(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if err := a.confirmOverwrite(opts.OutputPath, f.force); err != nil {
				return err
			}

			journal := a.openJournal(cmd.Context())
			defer closeJournal(journal)

			start := time.Now()
			summary, err := composition.Convert(opts)
			elapsed := time.Since(start)
			journal.RecordConversion(cmd.Context(), opts, summary, err, elapsed)
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), summary, elapsed)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&f.oldWidth, "old-width", composition.DefaultOldWidth, "original composition width")
	flags.Float64Var(&f.oldHeight, "old-height", composition.DefaultOldHeight, "original composition height (informational)")
	flags.Float64Var(&f.newWidth, "new-width", composition.DefaultNewWidth, "target composition width")
	flags.Float64Var(&f.newHeight, "new-height", composition.DefaultNewHeight, "target composition height (informational)")
	flags.Float64Var(&f.oldFPS, "old-fps", composition.DefaultOldFPS, "original frame rate")
	flags.Float64Var(&f.newFPS, "new-fps", composition.DefaultNewFPS, "target frame rate")
	flags.Float64Var(&f.resolutionFactor, "resolution-factor", 0, "explicit resolution factor, overrides the width pair")
	flags.Float64Var(&f.framerateFactor, "framerate-factor", 0, "explicit frame rate factor, overrides the fps pair")
	flags.StringVar(&f.oldMedia, "old-media", "", "media folder referenced by the composition")
	flags.StringVar(&f.newMedia, "new-media", "", "media folder the references should point to")
	flags.BoolVar(&f.ignoreExtensions, "ignore-extensions", false, "match media in --new-media by base name, ignoring file extensions")
	flags.StringVar(&f.name, "name", "", "composition name (default: output file name)")
	flags.BoolVar(&f.keepName, "keep-name", false, "keep the composition name from the input")
	flags.BoolVarP(&f.force, "force", "f", false, "overwrite OUTPUT without asking")

	cmd.MarkFlagsMutuallyExclusive("name", "keep-name")
	cmd.MarkFlagsRequiredTogether("old-media", "new-media")
	return cmd
}

// options builds conversion options from the flags. Explicit factors win
// over the dimension pairs they replace.
func (f *convertFlags) options(cmd *cobra.Command, input, output string) (composition.Options, error) {
	if composition.SamePath(input, output) {
		return composition.Options{}, fmt.Errorf("%w: output path must differ from input path", composition.ErrInvalidOptions)
	}

	explicitRes := cmd.Flags().Changed("resolution-factor")
	explicitFPS := cmd.Flags().Changed("framerate-factor")

	var factors composition.Factors
	if !explicitRes || !explicitFPS {
		derived, err := composition.FactorsFromDimensions(f.oldWidth, f.newWidth, f.oldFPS, f.newFPS)
		if err != nil {
			return composition.Options{}, err
		}
		factors = derived
	}
	if explicitRes {
		factors.Resolution = f.resolutionFactor
	}
	if explicitFPS {
		factors.Framerate = f.framerateFactor
	}

	opts := composition.Options{
		InputPath:        input,
		OutputPath:       output,
		OldMediaRoot:     f.oldMedia,
		NewMediaRoot:     f.newMedia,
		ResolutionFactor: factors.Resolution,
		FramerateFactor:  factors.Framerate,
		CompositionName:  f.name,
		IgnoreExtensions: f.ignoreExtensions,
	}
	if opts.CompositionName == "" && !f.keepName {
		opts.CompositionName = composition.DefaultCompositionName(output)
	}
	return opts, opts.Validate()
}

// confirmOverwrite asks before replacing an existing output. Without a
// terminal it refuses unless force is set.
func (a *app) confirmOverwrite(path string, force bool) error {
	if force {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if !a.isTerminal() {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	fmt.Fprintf(a.out, "%s already exists. Overwrite? [y/N] ", path)
	answer, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && answer == "" {
		return errAborted
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	default:
		return errAborted
	}
}
