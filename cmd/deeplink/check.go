package main

import (
	"errors"
	"fmt"

	"github.com/lestrrat-go/deeplink"
	"github.com/spf13/cobra"
)

func checkCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a catalog and its example links",
		Long: `Validate a catalog: every path must install cleanly, and every
example link must resolve to the route that declares it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, reg, err := opts.load(cmd)
			if err != nil {
				return err
			}

			var errs []error
			for _, e := range c.Routes {
				if e.Example == "" {
					continue
				}
				if err := checkExample(reg, e); err != nil {
					errs = append(errs, err)
				}
			}
			if err := errors.Join(errs...); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d routes\n", len(c.Routes))
			return nil
		},
	}
}

func checkExample(reg *deeplink.Registry, e deeplink.CatalogEntry) error {
	components, err := deeplink.ParseComponents(e.Example)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Path, err)
	}
	m := reg.Resolve(components)
	if !m.Handled() {
		return fmt.Errorf("%s: example %q is not handled", e.Path, e.Example)
	}

	want, _ := reg.Lookup(e.Path)
	if last := m.Last(); last != want {
		got := "<nothing>"
		if last != nil {
			got = last.Path()
		}
		return fmt.Errorf("%s: example %q resolves to %s", e.Path, e.Example, got)
	}
	return nil
}
