package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/praetorian-inc/bylight/pkg/enum"
	"github.com/praetorian-inc/bylight/pkg/matcher"
	"github.com/praetorian-inc/bylight/pkg/sarif"
	"github.com/praetorian-inc/bylight/pkg/scanner"
	"github.com/praetorian-inc/bylight/pkg/store"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/spf13/cobra"
)

var (
	scanSetsPath      string
	scanSetsInclude   string
	scanSetsExclude   string
	scanOutputPath    string
	scanOutputFormat  string
	scanMaxFileSize   int64
	scanIncludeHidden bool
	scanContextLines  int
	scanIncremental   bool
	scanExtensions    []string
	scanWorkers       int
	scanDedupe        string
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Scan files for pattern set matches",
	Long:  "Scan a file or directory with pattern sets and store the matches in a database",
	Args:  cobra.ExactArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanSetsPath, "sets-file", "", "Path to a pattern set YAML file (default: builtin sets)")
	scanCmd.Flags().StringVar(&scanSetsInclude, "sets-include", "", "Include sets whose ID matches regex (comma-separated)")
	scanCmd.Flags().StringVar(&scanSetsExclude, "sets-exclude", "", "Exclude sets whose ID matches regex (comma-separated)")
	scanCmd.Flags().StringVar(&scanOutputPath, "output", "bylight.db", "Output database path (:memory: for none)")
	scanCmd.Flags().StringVar(&scanOutputFormat, "format", "human", "Output format: human, json, sarif")
	scanCmd.Flags().Int64Var(&scanMaxFileSize, "max-file-size", 10*1024*1024, "Maximum file size to scan (bytes)")
	scanCmd.Flags().BoolVar(&scanIncludeHidden, "include-hidden", false, "Include hidden files and directories")
	scanCmd.Flags().IntVar(&scanContextLines, "context-lines", 2, "Lines of context before/after matches (0 to disable)")
	scanCmd.Flags().BoolVar(&scanIncremental, "incremental", false, "Skip already-scanned blobs")
	scanCmd.Flags().StringSliceVar(&scanExtensions, "ext", nil, "Only scan files with these extensions")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "Parallel file readers (0 = one per CPU)")
	scanCmd.Flags().StringVar(&scanDedupe, "dedupe", "location", "Deduplicate matches by: location, content")
}

func runScan(cmd *cobra.Command, args []string) error {
	target := args[0]

	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("target does not exist: %s", target)
	}

	dedupe, err := parseDedupe(scanDedupe)
	if err != nil {
		return err
	}

	sets, err := loadSets(scanSetsPath, scanSetsInclude, scanSetsExclude)
	if err != nil {
		return fmt.Errorf("loading sets: %w", err)
	}

	s, err := store.New(store.Config{Path: scanOutputPath})
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}
	defer s.Close()

	sc, err := scanner.New(scanner.Config{
		Sets:         sets,
		Store:        s,
		Matcher:      matcherOptions(),
		Colors:       cfg.Colors,
		ContextLines: scanContextLines,
		Incremental:  scanIncremental,
		Dedupe:       dedupe,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("creating scanner: %w", err)
	}

	enumerator := enum.NewFilesystemEnumerator(enum.Config{
		Root:          target,
		IncludeHidden: scanIncludeHidden,
		MaxFileSize:   scanMaxFileSize,
		Extensions:    scanExtensions,
		Workers:       scanWorkers,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("scan starting", "target", target, "sets", len(sets))
	stats, err := sc.Run(ctx, enumerator)
	if err != nil {
		return err
	}

	// keep stdout pure JSON for json/sarif
	summary := cmd.OutOrStdout()
	if scanOutputFormat == "json" || scanOutputFormat == "sarif" {
		summary = cmd.ErrOrStderr()
	}
	if scanIncremental {
		fmt.Fprintf(summary, "Scan complete: %d blobs, %d matches (%d blobs skipped)\n", stats.Blobs, stats.Matches, stats.Skipped)
	} else {
		fmt.Fprintf(summary, "Scan complete: %d blobs, %d matches\n", stats.Blobs, stats.Matches)
	}
	if stats.Errors > 0 {
		fmt.Fprintf(summary, "Patterns failed: %d (see log)\n", stats.Errors)
	}
	if scanOutputPath != store.MemoryPath {
		fmt.Fprintf(summary, "Results stored in: %s\n", scanOutputPath)
	}

	matches, err := s.GetAllMatches()
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	switch scanOutputFormat {
	case "json":
		return outputMatchesJSON(cmd, matches)
	case "sarif":
		return outputSARIF(cmd, sets, matches)
	case "human":
		return outputSummary(cmd, sets, matches)
	default:
		return fmt.Errorf("unknown output format: %s", scanOutputFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDedupe(s string) (matcher.DedupeMode, error) {
	switch s {
	case "location":
		return matcher.DedupeByLocation, nil
	case "content":
		return matcher.DedupeByContent, nil
	default:
		return 0, fmt.Errorf("unknown dedupe mode: %s (want location or content)", s)
	}
}

func outputMatchesJSON(cmd *cobra.Command, matches []*types.Match) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(matches)
}

// outputSummary prints match counts per set.
func outputSummary(cmd *cobra.Command, sets []*types.PatternSet, matches []*types.Match) error {
	out := cmd.OutOrStdout()
	if len(matches) == 0 {
		fmt.Fprintf(out, "\nNo matches.\n")
		return nil
	}

	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.SetID]++
	}

	fmt.Fprintf(out, "\nMatches by set:\n")
	for _, s := range sets {
		if n := counts[s.ID]; n > 0 {
			fmt.Fprintf(out, "  %s (%s): %d\n", s.ID, s.Name, n)
		}
	}
	return nil
}

// outputSARIF writes matches in SARIF 2.1.0 format.
func outputSARIF(cmd *cobra.Command, sets []*types.PatternSet, matches []*types.Match) error {
	jsonBytes, err := sarif.Build(sets, matches).ToJSON()
	if err != nil {
		return fmt.Errorf("serializing SARIF: %w", err)
	}
	if _, err := cmd.OutOrStdout().Write(jsonBytes); err != nil {
		return fmt.Errorf("writing SARIF output: %w", err)
	}
	return nil
}
