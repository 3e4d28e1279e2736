package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/praetorian-inc/bylight/pkg/explore"
	"github.com/spf13/cobra"
)

var (
	exploreDatastore string
)

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Interactively browse scan results",
	Long: `Launch an interactive TUI to browse the matches stored by "bylight scan".

Features:
  - Three-pane layout: filters, patterns table, match details
  - Facets by pattern set and file extension
  - Snippets highlighted in each group's color
  - Vi-style navigation (hjkl, Ctrl-f/b, g/G)
  - Source viewer for matched files`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().StringVar(&exploreDatastore, "datastore", explore.DefaultDatastore, "Path to the scan database or its directory")
}

func runExplore(cmd *cobra.Command, args []string) error {
	model, err := explore.New(exploreDatastore)
	if err != nil {
		return fmt.Errorf("loading datastore: %w", err)
	}
	defer model.Close()

	logger.Debug("starting explore", "datastore", exploreDatastore)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}

	return nil
}
