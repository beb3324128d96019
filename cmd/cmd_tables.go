package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/okian/growup/internal/domain/growth"
)

func newTablesCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the loaded reference tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tables, err := c.loadTables(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TABLE\tREFERENCE\tROWS")
			for _, name := range tables.Names() {
				ref := growth.WHO
				if growth.CDCTable(name) {
					ref = growth.CDC
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\n", name, ref, tables.Rows(name))
			}
			return tw.Flush()
		},
	}
}
