package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Stefan/ppm-saas-sub008/internal/config"
	"github.com/Stefan/ppm-saas-sub008/internal/output"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// cfg is the environment configuration loaded before every command runs.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "structcheck",
	Short: "Verify UI structure and accessibility against manifests",
	Long: `Verify that rendered pages and components expose the elements their
structure manifests declare, with the expected accessibility attributes.

Pages can be verified from a saved HTML file or live in a browser.`,
	SilenceUsage: true,
}

// Execute runs the root command. An interrupt cancels the command context so
// an open browser is closed before exit.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error (default from STRUCTCHECK_LOG_LEVEL)")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
			cfg.LogLevel = level
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		setupLogging(cfg.LogLevel)

		// Use the root persistent flag directly so subcommand flags can't shadow it.
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		output.PrettyOutput, _ = rootCmd.PersistentFlags().GetBool("pretty")
		return nil
	}
}

// setupLogging points the global logger at stderr so stdout carries only
// command output. The level was checked by cfg.Validate.
func setupLogging(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}
