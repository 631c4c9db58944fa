package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"composition-converter/internal/jobs"
)

func newBatchCmd(a *app) *cobra.Command {
	var workerCount int

	cmd := &cobra.Command{
		Use:   "batch JOBFILE",
		Short: "Run every conversion listed in a YAML job file",
		Long: `Run every conversion listed in a YAML job file. Jobs run in parallel and
a failing job does not stop the others; the command fails if any job failed.`,
		Example: `  compconv batch shows.yaml
  compconv batch shows.yaml --workers 2 --history-db ./history.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := jobs.Load(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			journal := a.openJournal(ctx)
			defer closeJournal(journal)

			if !cmd.Flags().Changed("workers") {
				workerCount = a.cfg.Workers
			}
			guard := startGuard()
			defer guard.Stop()

			report, err := jobs.Run(ctx, file, jobs.RunConfig{
				Workers: workerCount,
				Journal: journal,
				Gate:    guard,
			})
			printReport(cmd.OutOrStdout(), report)
			return err
		},
	}

	cmd.Flags().IntVarP(&workerCount, "workers", "w", 0, "parallel conversions (default from CONVERT_WORKERS, else 1.5 per CPU)")
	return cmd
}
