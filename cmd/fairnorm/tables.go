package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "Print the loaded district and venue tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tbl, err := a.loadTables()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "DISTRICT\tALIASES\tENGLISH\n")
			for _, d := range tbl.Districts() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, strings.Join(d.Aliases, ", "), strings.Join(d.English, ", "))
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "VENUE\tPATTERNS\n")
			for _, v := range tbl.Venues() {
				pats := make([]string, len(v.Patterns))
				for i, p := range v.Patterns {
					pats[i] = p.String()
				}
				fmt.Fprintf(w, "%s\t%s\n", v.Canonical, strings.Join(pats, ", "))
			}
			return w.Flush()
		},
	}
}
