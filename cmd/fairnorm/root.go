package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crimson-sun/fairnorm/internal/config"
	"github.com/crimson-sun/fairnorm/internal/engine"
	"github.com/crimson-sun/fairnorm/internal/engine/dedup"
	"github.com/crimson-sun/fairnorm/internal/engine/tables"
	"github.com/crimson-sun/fairnorm/internal/logging"

	// Register connector and store implementations.
	_ "github.com/crimson-sun/fairnorm/internal/connector/ndjson"
	_ "github.com/crimson-sun/fairnorm/internal/store/memory"
	_ "github.com/crimson-sun/fairnorm/internal/store/postgres"
)

// app carries the loaded configuration into subcommands.
type app struct {
	cfg *config.Config

	logLevel string
	logJSON  bool
}

func newRootCommand() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "fairnorm",
		Short:         "Normalize and deduplicate Hong Kong job fair records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = a.logLevel
			}
			if cmd.Flags().Changed("log-json") {
				cfg.Log.JSON = a.logJSON
			}
			a.cfg = cfg
			logging.Init(cmd.ErrOrStderr(), logging.ParseLevel(cfg.Log.Level), cfg.Log.JSON)
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.logJSON, "log-json", false, "log as JSON")

	cmd.AddCommand(newNormalizeCommand(a))
	cmd.AddCommand(newRunCommand(a))
	cmd.AddCommand(newIdentityCommand(a))
	cmd.AddCommand(newTablesCommand(a))
	return cmd
}

// loadTables returns the embedded tables or, when configured, the tables in
// engine.tables_dir.
func (a *app) loadTables() (*tables.Tables, error) {
	if dir := a.cfg.Engine.TablesDir; dir != "" {
		return tables.LoadDir(dir)
	}
	return tables.Default()
}

func (a *app) newEngine() (*engine.Engine, error) {
	tbl, err := a.loadTables()
	if err != nil {
		return nil, err
	}
	ec := a.cfg.Engine
	return engine.New(tbl, engine.Config{
		Dedup: dedup.Config{
			Threshold:  ec.Threshold,
			MaxDayDiff: ec.MaxDayDiff,
			PrefixLen:  ec.PrefixLen,
		},
		VenueCacheSize: ec.VenueCacheSize,
	})
}

// stdinOrFile resolves a positional input argument: none or "-" is stdin.
func stdinOrFile(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

func checkFile(path string) error {
	if path == "-" || path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}
