package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"slowbench/internal/benchmark"
	"slowbench/internal/config"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved benchmark sessions",
		Long: `Lists the sessions stored by "slowbench run --save", oldest first.
The store is selected with the history.driver and history.path settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}

			store, err := newStoreFunc(cfg.HistoryDriver, cfg.HistoryPath)
			if err != nil {
				return fmt.Errorf("failed to open history: %w", err)
			}
			defer store.Close()

			sessions, err := store.LoadAll()
			if err != nil {
				return fmt.Errorf("failed to load history: %w", err)
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No saved sessions.")
				return nil
			}
			if limit > 0 && len(sessions) > limit {
				sessions = sessions[len(sessions)-limit:]
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tBRANCH\tCOMMIT\tCASES\tFAILED\tBEST SPEEDUP\tARTIFACT")
			for _, s := range sessions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
					s.ID, s.Timestamp.Local().Format("2006-01-02 15:04:05"), orDash(s.Branch), orDash(s.Commit),
					len(s.Rows), failedRows(s), bestSpeedup(s), s.Artifact)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show only the most recent N sessions")
	return cmd
}

func failedRows(s benchmark.Session) int {
	n := 0
	for _, r := range s.Rows {
		if r.Speedup == nil {
			n++
		}
	}
	return n
}

func bestSpeedup(s benchmark.Session) string {
	var best *float64
	for _, r := range s.Rows {
		if r.Speedup != nil && (best == nil || *r.Speedup > *best) {
			best = r.Speedup
		}
	}
	if best == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2fx", *best)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
