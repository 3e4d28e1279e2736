package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/praetorian-inc/bylight/pkg/patternset"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/spf13/cobra"
)

var (
	setsPath    string
	setsFormat  string
	setsInclude string
	setsExclude string
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Manage pattern sets",
	Long:  "Commands for listing and checking pattern sets",
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available pattern sets",
	RunE:  runSetsList,
}

var setsCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate pattern set files",
	Long:  "Load each file and check that every set is well-formed and its examples match.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSetsCheck,
}

func init() {
	setsCmd.AddCommand(setsListCmd)
	setsCmd.AddCommand(setsCheckCmd)
	setsListCmd.Flags().StringVar(&setsPath, "sets-file", "", "Path to a pattern set YAML file")
	setsListCmd.Flags().StringVar(&setsInclude, "sets-include", "", "Include sets whose ID matches regex (comma-separated)")
	setsListCmd.Flags().StringVar(&setsExclude, "sets-exclude", "", "Exclude sets whose ID matches regex (comma-separated)")
	setsListCmd.Flags().StringVar(&setsFormat, "format", "table", "Output format: table, json")
}

func runSetsList(cmd *cobra.Command, args []string) error {
	sets, err := loadSets(setsPath, setsInclude, setsExclude)
	if err != nil {
		return err
	}

	switch setsFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(sets)
	case "table":
		outputSetsTable(cmd, sets)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", setsFormat)
	}
}

func runSetsCheck(cmd *cobra.Command, args []string) error {
	loader := patternset.NewLoader()
	failed := 0
	for _, path := range args {
		sets, err := loader.LoadFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s: %v\n", path, err)
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok   %s (%d sets)\n", path, len(sets))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// loadSets loads the sets of path, or the builtin sets, and filters them by ID.
func loadSets(path, include, exclude string) ([]*types.PatternSet, error) {
	loader := patternset.NewLoader()

	var sets []*types.PatternSet
	var err error
	if path != "" {
		sets, err = loader.LoadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading sets from %s: %w", path, err)
		}
	} else {
		sets, err = loader.LoadBuiltin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin sets: %w", err)
		}
	}

	if include != "" || exclude != "" {
		sets, err = patternset.Filter(sets, patternset.FilterConfig{
			Include: patternset.ParsePatterns(include),
			Exclude: patternset.ParsePatterns(exclude),
		})
		if err != nil {
			return nil, fmt.Errorf("filtering sets: %w", err)
		}
	}
	return sets, nil
}

func outputSetsTable(cmd *cobra.Command, sets []*types.PatternSet) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID\tName\tGroups\tPatterns\n")
	fmt.Fprintf(w, "--\t----\t------\t--------\n")

	for _, s := range sets {
		var first []string
		for _, g := range s.Groups {
			if len(g.Patterns) > 0 {
				first = append(first, g.Patterns[0])
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d (%s)\n", s.ID, s.Name, len(s.Groups), s.PatternCount(), strings.Join(first, " | "))
	}
}
