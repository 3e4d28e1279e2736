package main

import (
	"fmt"
	"log/slog"

	"github.com/praetorian-inc/bylight/pkg/config"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	quiet   bool

	// cfg and logger are set before any subcommand runs.
	cfg    = &config.Config{LogFormat: config.LogFormatText, LogLevel: slog.LevelInfo}
	logger = slog.New(slog.DiscardHandler)
)

var rootCmd = &cobra.Command{
	Use:   "bylight",
	Short: "bylight - bracket-aware pattern highlighting",
	Long: `bylight finds code by pattern and highlights it.

Patterns are literal text with a bracket-aware "..." wildcard, so
"foo(...)" matches a whole call however its arguments nest, or regular
expressions written between slashes, e.g. /func\s+\w+/.

Settings are read from BYLIGHT_* environment variables; flags override them.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(highlightCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the environment config and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	switch {
	case verbose:
		c.LogLevel = slog.LevelDebug
	case quiet:
		c.LogLevel = slog.LevelError
	}

	cfg = c
	logger = c.NewLogger(cmd.ErrOrStderr())
	return nil
}

// matcherOptions returns the matcher options derived from the config.
func matcherOptions() matcher.Options {
	opts := matcher.DefaultOptions()
	opts.RegexTimeout = cfg.RegexTimeout
	opts.Logger = logger
	return opts
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
