package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"composition-converter/internal/history"
	"composition-converter/internal/logging"
	"composition-converter/internal/memory"
	"composition-converter/internal/metrics"
	"composition-converter/internal/startup"
)

// app carries state shared by all commands.
type app struct {
	cfg *startup.Config

	logLevel    string
	historyDB   string
	metricsFile string

	in     io.Reader
	out    io.Writer
	errOut io.Writer

	// isTerminal reports whether interactive prompts may be shown.
	isTerminal func() bool
}

func newApp() *app {
	return &app{
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd()))
		},
	}
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	if err := newApp().run(os.Args[1:]); err != nil {
		logging.Error("%v", err)
		return 1
	}
	return 0
}

// run executes one command line. The metrics snapshot is written whether
// or not the command succeeded.
func (a *app) run(args []string) error {
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if flushErr := a.flushMetrics(); flushErr != nil {
		err = errors.Join(err, flushErr)
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "compconv",
		Short: "Convert Resolume compositions to a new resolution and frame rate",
		Long: `compconv rewrites a composition for a different output resolution and
frame rate: sizes and positions are scaled, beat-based clip durations follow the
new frame rate and media references can be moved to a new media folder.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.SetIn(a.in)
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (default from LOG_LEVEL)")
	flags.StringVar(&a.historyDB, "history-db", "", "SQLite conversion history journal (default from HISTORY_DB, empty disables)")
	flags.StringVar(&a.metricsFile, "metrics-file", "", "write a Prometheus textfile snapshot on exit (default from METRICS_FILE)")

	root.AddCommand(
		newConvertCmd(a),
		newBatchCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(a),
	)
	return root
}

// setup applies the log level, loads configuration, registers metrics and
// sizes the heap limit.
func (a *app) setup(cmd *cobra.Command) error {
	if a.logLevel != "" {
		level, ok := logging.ParseLevel(a.logLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", a.logLevel)
		}
		logging.SetLevel(level)
	}

	a.cfg = startup.LoadConfig()
	if cmd.Flags().Changed("history-db") {
		a.cfg.HistoryDB = a.historyDB
	}
	if cmd.Flags().Changed("metrics-file") {
		a.cfg.MetricsFile = a.metricsFile
	}

	metrics.Initialize()
	info := startup.GetBuildInfo()
	metrics.SetAppInfo(info.Version, info.Commit, info.GoVersion)

	limit := memory.ConfigureFromEnv()
	a.cfg.HeapLimit = limit.Heap
	metrics.MemoryLimitBytes.Set(float64(limit.Heap))
	return nil
}

// startGuard starts memory backpressure for long-running commands.
func startGuard() *memory.Guard {
	guard := memory.NewGuard(memory.DefaultGuardConfig())
	guard.Start()
	return guard
}

// openJournal opens the history journal, or returns nil when it is disabled.
// A journal that cannot be opened is logged and treated as disabled.
func (a *app) openJournal(ctx context.Context) *history.Journal {
	if a.cfg == nil || !a.cfg.HistoryEnabled() {
		return nil
	}
	if err := a.cfg.PrepareHistoryPath(); err != nil {
		logging.Warn("History disabled: %v", err)
		return nil
	}

	start := time.Now()
	journal, err := history.New(ctx, a.cfg.HistoryDB)
	if err != nil {
		logging.Warn("History disabled: %v", err)
		return nil
	}
	logging.Debug("History journal opened in %v", time.Since(start))
	return journal
}

func closeJournal(journal *history.Journal) {
	if journal == nil {
		return
	}
	if err := journal.Close(); err != nil {
		logging.Warn("Failed to close history journal: %v", err)
	}
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return err
	}
	logging.Debug("Metrics written to %s", a.cfg.MetricsFile)
	return nil
}
