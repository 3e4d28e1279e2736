package main

import (
	"fmt"

	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/spf13/cobra"
)

var (
	renderOutput   string
	renderAssets   bool
	renderFragment bool
)

var renderCmd = &cobra.Command{
	Use:   "render <in.html|->",
	Short: "Apply bylight links in an HTML document",
	Long: `Rewrite an HTML document so that every <a href="bylight?..."> link
highlights its matches in the code blocks it targets.

Link parameters:
  match  comma-separated patterns (default: the link text)
  in     "all" or comma-separated offsets in <pre> blocks (default: 1)
  dir    "up" or "down": every block in that direction
  color  color overriding the scheme`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: stdout)")
	renderCmd.Flags().BoolVar(&renderAssets, "assets", false, "Inject the stylesheet and hover script")
	renderCmd.Flags().BoolVar(&renderFragment, "fragment", false, "Treat the input as a body fragment")
}

func runRender(cmd *cobra.Command, args []string) error {
	content, err := readInput(cmd, args[0])
	if err != nil {
		return err
	}

	core := scanner.NewCore(scanner.CoreOptions{
		Matcher: matcherOptions(),
		Colors:  cfg.Colors,
		Logger:  logger,
	})
	out, err := core.Render(string(content), renderFragment, renderAssets)
	if err != nil {
		return fmt.Errorf("rendering: %w", err)
	}

	logger.Info("render complete",
		"blocks", out.Blocks,
		"links", out.Links,
		"highlighted", out.Highlighted,
		"matches", out.Matches,
	)
	return writeOutput(cmd, renderOutput, []byte(out.HTML))
}
