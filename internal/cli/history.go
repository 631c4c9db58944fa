package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"composition-converter/internal/history"
)

var historyHeader = []string{"ID", "WHEN", "STATUS", "INPUT", "OUTPUT", "CLIPS", "PATHS", "WARNINGS", "ERROR"}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent conversions from the history journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.cfg.HistoryEnabled() {
				return errors.New("history is disabled, set --history-db or HISTORY_DB")
			}
			journal := a.openJournal(cmd.Context())
			if journal == nil {
				return fmt.Errorf("cannot open history journal %s", a.cfg.HistoryDB)
			}
			defer closeJournal(journal)

			entries, err := journal.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			renderHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "number of entries to show")
	return cmd
}

// renderHistory prints entries as a borderless table that pastes cleanly
// into issues and chat.
func renderHistory(w io.Writer, entries []history.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(historyHeader)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetHeaderLine(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, e := range entries {
		table.Append([]string{
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Format(time.DateTime),
			statusLabel(e.Status),
			e.InputPath,
			e.OutputPath,
			strconv.Itoa(e.Clips),
			strconv.Itoa(e.PathsUpdated),
			strconv.Itoa(e.Warnings),
			e.Error,
		})
	}
	table.Render()
}

func statusLabel(status string) string {
	if status == history.StatusSuccess {
		return okColor.Sprint(status)
	}
	return failColor.Sprint(status)
}
