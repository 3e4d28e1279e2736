package main

import (
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/spf13/cobra"
)

var (
	highlightPatterns []string
	highlightFormat   string
	highlightColor    string
)

var highlightCmd = &cobra.Command{
	Use:   "highlight <file|->",
	Short: "Highlight pattern matches in a file",
	Long: `Highlight the matches of pattern groups in a file.

Each --pattern value is one group: a comma-separated list of patterns that
share a color. Groups take successive colors of the scheme (BYLIGHT_COLORS).`,
	Args: cobra.ExactArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringArrayVarP(&highlightPatterns, "pattern", "p", nil, "Comma-separated pattern group (repeatable)")
	highlightCmd.Flags().StringVar(&highlightFormat, "format", "ansi", "Output format: ansi, html")
	highlightCmd.Flags().StringVar(&highlightColor, "color", "auto", "Color output for ansi: auto, always, never")
	_ = highlightCmd.MarkFlagRequired("pattern")
}

func runHighlight(cmd *cobra.Command, args []string) error {
	if highlightFormat != string(scanner.FormatANSI) && highlightFormat != string(scanner.FormatHTML) {
		return fmt.Errorf("unknown output format: %s", highlightFormat)
	}
	enabled, err := colorEnabled(cmd, highlightColor)
	if err != nil {
		return err
	}

	content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	text := string(content)

	core := scanner.NewCore(scanner.CoreOptions{
		Matcher: matcherOptions(),
		Colors:  cfg.Colors,
		Logger:  logger,
	})

	format := scanner.Format(highlightFormat)
	if format == scanner.FormatANSI && !enabled {
		format = scanner.FormatNone
	}
	out := core.Highlight(text, highlight.Groups(highlightPatterns...), format)

	logger.Debug("highlighted", "annotations", len(out.Annotations), "errors", len(out.Errors))

	rendered := out.Output
	if format == scanner.FormatNone {
		rendered = text
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), rendered); err != nil {
		return err
	}
	if len(out.Errors) > 0 {
		return fmt.Errorf("%d patterns failed", len(out.Errors))
	}
	return nil
}
