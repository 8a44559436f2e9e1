package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/lestrrat-go/deeplink"
	"github.com/spf13/cobra"
)

func routesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List every route of a catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, reg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			type row struct {
				pattern string
				route   *deeplink.Route
			}
			var rows []row
			reg.Walk(deeplink.RouteVisitFunc(func(pattern string, r *deeplink.Route) {
				rows = append(rows, row{pattern: pattern, route: r})
			}))
			sort.Slice(rows, func(i, j int) bool {
				return rows[i].pattern < rows[j].pattern
			})

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tKIND")
			for _, r := range rows {
				fmt.Fprintf(w, "%s\t%s\n", r.pattern, r.route.Kind())
			}
			return w.Flush()
		},
	}
}
