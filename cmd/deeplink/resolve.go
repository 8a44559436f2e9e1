package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/lestrrat-go/deeplink"
	"github.com/spf13/cobra"
)

var errNotHandled = errors.New("components are not handled")

func resolveCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <url | component...>",
		Short: "Show which routes a deep link resolves to",
		Long: `Resolve a deep link against a catalog without running anything.

A single argument containing "://" is decomposed as a URL, anything else
is taken as a list of components.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, reg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			components := args
			if len(args) == 1 && strings.Contains(args[0], "://") {
				components, err = deeplink.ParseComponents(args[0])
				if err != nil {
					return err
				}
			}

			m := reg.Resolve(components)
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tCOMPONENT\tROUTE\tKIND\tVARIABLE")
			for i, c := range m.Components {
				if i >= len(m.Routes) {
					fmt.Fprintf(w, "%d\t%s\t-\t-\t-\n", i, c)
					continue
				}
				r := m.Routes[i]
				v, ok := m.Variable(i)
				if !ok {
					v = "-"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i, c, r.Path(), r.Kind(), v)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "handled: %t\n", m.Handled())
			if !m.Handled() {
				return errNotHandled
			}
			return nil
		},
	}
}
