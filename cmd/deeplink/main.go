package main

import (
	"fmt"
	"os"

	"github.com/lestrrat-go/deeplink"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	catalog string
	verbose bool
}

func rootCmd() *cobra.Command {
	var opts globalOptions

	cmd := &cobra.Command{
		Use:   "deeplink",
		Short: "Inspect deep-link route catalogs",
		Long: `deeplink loads a route catalog (TOML or YAML) into a registry
and lets you look at it the way an application would.

Examples:
  deeplink routes --catalog routes.toml
  deeplink resolve --catalog routes.toml "myapp://item/12345/edit"
  deeplink resolve --catalog routes.yaml item 12345 edit
  deeplink check --catalog routes.toml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.catalog, "catalog", "c", "", "Route catalog file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log registry activity to stderr")

	cmd.AddCommand(
		routesCmd(&opts),
		resolveCmd(&opts),
		checkCmd(&opts),
		versionCmd(),
	)
	return cmd
}

func (o *globalOptions) logger(cmd *cobra.Command) logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(cmd.ErrOrStderr())
	l.SetLevel(logrus.WarnLevel)
	if o.verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// load reads the catalog and installs it into a fresh registry.
func (o *globalOptions) load(cmd *cobra.Command) (*deeplink.Catalog, *deeplink.Registry, error) {
	if o.catalog == "" {
		return nil, nil, fmt.Errorf("no catalog given, use --catalog")
	}
	c, err := deeplink.LoadCatalog(o.catalog)
	if err != nil {
		return nil, nil, err
	}
	reg := deeplink.New(deeplink.WithLogger(o.logger(cmd)))
	if err := c.Install(reg, nil); err != nil {
		return nil, nil, err
	}
	return c, reg, nil
}
