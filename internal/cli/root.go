// Package cli provides the command-line interface for nrdb snapshots.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jpl-au/nrdb"
	"github.com/jpl-au/nrdb/internal/config"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var Version = "0.1.0"

type configKey struct{}

type loggerKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "nrdb",
		Short: "Inspect, query and rewrite nrdb snapshots",
		Long: `nrdb works with snapshot files written by the nrdb document store.

A snapshot holds every table of a database as one JSON document, optionally
Zstd compressed. Commands load the whole snapshot into memory; commands that
modify it write the result back atomically.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			log := cfg.Logger(cmd.ErrOrStderr())
			if cfg.File != "" {
				log.Debug("config loaded", "file", cfg.File)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)
			ctx = context.WithValue(ctx, loggerKey{}, log)
			cmd.SetContext(ctx)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.String("log-format", "", "Log format (text|json)")
	pf.Bool("pretty", false, "Indent written snapshots")
	pf.Bool("compress", false, "Zstd compress written snapshots")
	pf.String("hash", "", "Fingerprint hash (xxh3|fnv1a|blake2b)")
	pf.Bool("skip-sync", false, "Do not fsync written snapshots")

	_ = rootCmd.RegisterFlagCompletionFunc("hash", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"xxh3", "fnv1a", "blake2b"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(NewVersionCommand(Version))
	rootCmd.AddCommand(NewInspectCommand())
	rootCmd.AddCommand(NewQueryCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewFormatCommand())

	return rootCmd
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

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	return &config.Config{
		LogLevel:  config.DefaultLogLevel,
		LogFormat: config.DefaultLogFormat,
		Hash:      config.DefaultHash,
		Convert:   true,
	}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// loadSnapshot loads path with the engine settings from cmd's config.
func loadSnapshot(cmd *cobra.Command, path string) (*nrdb.Database, error) {
	ctx := cmd.Context()
	return nrdb.Load(path, GetConfig(ctx).Database(GetLogger(ctx)))
}
