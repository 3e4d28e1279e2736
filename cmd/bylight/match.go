package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/spf13/cobra"
)

var (
	matchPatterns []string
	matchFormat   string
)

var matchCmd = &cobra.Command{
	Use:   "match <file|->",
	Short: "Print the spans matched by patterns",
	Long: `Match each --pattern against the input and print the byte spans found.

A pattern that fails to compile is reported and the other patterns still run;
the command then exits with an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	matchCmd.Flags().StringArrayVarP(&matchPatterns, "pattern", "p", nil, "Pattern to match (repeatable)")
	matchCmd.Flags().StringVar(&matchFormat, "format", "table", "Output format: table, json")
	_ = matchCmd.MarkFlagRequired("pattern")
}

func runMatch(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}
	text := string(content)

	core := scanner.NewCore(scanner.CoreOptions{Matcher: matcherOptions(), Logger: logger})
	out := core.Match(text, matchPatterns)

	switch matchFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(out); err != nil {
			return err
		}
	case "table":
		outputMatchTable(cmd, text, out)
	default:
		return fmt.Errorf("unknown output format: %s", matchFormat)
	}

	failed := 0
	for _, p := range out.Patterns {
		if p.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d patterns failed", failed, len(out.Patterns))
	}
	return nil
}

func outputMatchTable(cmd *cobra.Command, text string, out *scanner.MatchOutput) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Pattern\tStart\tEnd\tLine:Col\tText\n")
	fmt.Fprintf(w, "-------\t-----\t---\t--------\t----\n")

	content := []byte(text)
	for _, p := range out.Patterns {
		if p.Error != "" {
			fmt.Fprintf(w, "%s\t-\t-\t-\terror: %s\n", p.Pattern, p.Error)
			continue
		}
		for _, span := range p.Spans {
			loc := types.LocationOf(content, span)
			fmt.Fprintf(w, "%s\t%d\t%d\t%d:%d\t%q\n",
				p.Pattern, span.Start, span.End,
				loc.Source.Start.Line, loc.Source.Start.Column,
				span.Slice(text))
		}
	}
}
