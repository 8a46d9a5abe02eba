package main

import (
	"github.com/spf13/cobra"

	"github.com/jonwraymond/healthgate/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "healthgate",
		Short:         "Realm-gated health check aggregation",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "path to a YAML configuration file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override observe.logging.level (debug|info|warn|error)")

	root.AddCommand(
		newServeCommand(opts),
		newCheckCommand(opts),
		newConfigCommand(opts),
	)
	return root
}

// load reads, overrides and validates the configuration.
func (o *rootOptions) load() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.logLevel != "" {
		cfg.Observe.Logging.Level = o.logLevel
	}
	if cfg.Observe.Version == "" {
		cfg.Observe.Version = version
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
