package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"slowbench/internal/config"
)

func newCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the benchmark cases in run order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromViper()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "#\tWORKLOAD\tARGS")
			for i, c := range cfg.Catalog {
				fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, c.Workload, c.ArgString())
			}
			return w.Flush()
		},
	}
}
