package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fkhayef/legacyledger/internal/config"
	"github.com/fkhayef/legacyledger/internal/engine"
	"github.com/fkhayef/legacyledger/internal/logging"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	fixtures string
	logLevel string
	json     bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "ledgerctl",
		Short:         "Search legacy person records and their consolidated payment history",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.fixtures, "fixtures", "", "serve records from a YAML fixture file instead of the database (overrides FIXTURES_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level written to stderr (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&opts.json, "json", false, "output as JSON")

	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newPaymentsCmd(opts))
	rootCmd.AddCommand(newBrowseCmd(opts))

	return rootCmd
}

// open loads configuration the way the API server does and applies the
// command-line overrides.
func (o *rootOptions) open() (*engine.Engine, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if o.fixtures != "" {
		cfg.Engine.FixturesFile = o.fixtures
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	} else {
		cfg.Logging.Level = "warn"
	}

	logger := logging.NewWithWriter(os.Stderr, cfg.Logging)

	eng, err := engine.Open(cfg, logger, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open record source: %w", err)
	}
	return eng, nil
}
