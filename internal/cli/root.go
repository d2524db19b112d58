// Package cli provides the command-line interface for leapmeta.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/leapmeta/internal/cli/commands"
	"github.com/leapstack-labs/leapmeta/internal/config"
	"github.com/leapstack-labs/leapmeta/pkg/dialect"
	"github.com/spf13/cobra"

	// Connection adapters register themselves with pkg/adapter.
	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/duckdb"
	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/leapmeta/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var (
		cfgFile string
		envName string
	)

	rootCmd := &cobra.Command{
		Use:   "leapmeta",
		Short: "leapmeta - record metadata registry and DDL renderer",
		Long: `leapmeta builds a registry of record types from YAML declarations.

Each type is a table with typed columns, inherited from at most one parent.
The registry renders CREATE TABLE statements for a dialect profile, applies
them to a database and describes the declared types.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}

			cfg, err := config.Load(cfgFile, envName, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)
			if cfg.File != "" {
				logger.Debug("using config file", slog.String("path", cfg.File))
			}
			if cfg.Environment != "" {
				logger.Debug("using environment", slog.String("env", cfg.Environment))
			}

			cmd.SetContext(commands.WithConfig(cmd.Context(), cfg, logger))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} {{.Version}} (built %s, commit %s)\n", BuildDate, GitCommit))

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./leapmeta.yaml)")
	flags.StringVarP(&envName, "env", "e", "", "Environment to use (e.g., dev, ci, prod)")
	flags.StringSlice("schema", nil, "Declaration files or directories")
	flags.StringP("profile", "p", "", "Dialect profile used to render DDL (default: "+dialect.DefaultProfile+")")
	flags.String("catalog", "", "Path to the code-object catalog database")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.StringP("output", "o", "", "Output format (auto|text|yaml)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{config.OutputAuto, config.OutputText, config.OutputYAML}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("profile", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewDescribeCommand())
	rootCmd.AddCommand(commands.NewProfilesCommand())
	rootCmd.AddCommand(commands.NewDepsCommand())
	rootCmd.AddCommand(commands.NewApplyCommand())
	rootCmd.AddCommand(commands.NewCatalogCommand())

	return rootCmd
}

// newLogger returns a text logger on the command's error stream. Verbose
// enables debug output; otherwise only warnings and errors are shown.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
