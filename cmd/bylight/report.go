package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/praetorian-inc/bylight/pkg/highlight"
	"github.com/praetorian-inc/bylight/pkg/store"
	"github.com/praetorian-inc/bylight/pkg/types"
	"github.com/spf13/cobra"
)

var (
	reportDatastore  string
	reportFormat     string
	reportColor      string
	reportMaxPerSet  int
	reportSnippetLen int
)

// styles holds the color formatters of the human report.
type styles struct {
	setHeading *color.Color
	id         *color.Color
	heading    *color.Color
	metadata   *color.Color
}

// newStyles creates color formatters for report output.
func newStyles(enabled bool) *styles {
	s := &styles{
		setHeading: color.New(color.Bold, color.FgHiWhite),
		id:         color.New(color.FgHiGreen),
		heading:    color.New(color.Bold),
		metadata:   color.New(color.FgHiBlue),
	}

	if !enabled {
		s.setHeading.DisableColor()
		s.id.DisableColor()
		s.heading.DisableColor()
		s.metadata.DisableColor()
	}

	return s
}

// matchStyle colors matched text in the match's own color.
func matchStyle(m *types.Match, enabled bool) *color.Color {
	c := color.New(color.FgYellow)
	if r, g, b, err := highlight.HexToRGB(m.Color); err == nil {
		c = color.RGB(r, g, b).Add(color.Bold)
	}
	if !enabled {
		c.DisableColor()
	}
	return c
}

// snippetParts holds separated snippet components for colored output
type snippetParts struct {
	prefix   string // "..." if truncated at start
	before   string
	matching string
	after    string
	suffix   string // "..." if truncated at end
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report from scan results",
	Long:  "Read matches from a scan database and output a report",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportDatastore, "datastore", "bylight.db", "Path to the scan database")
	reportCmd.Flags().StringVar(&reportFormat, "format", "human", "Output format: human, json, sarif")
	reportCmd.Flags().StringVar(&reportColor, "color", "auto", "Color output: auto, always, never")
	reportCmd.Flags().IntVar(&reportMaxPerSet, "max-per-set", 3, "Matches shown per set in human output (0 = all)")
	reportCmd.Flags().IntVar(&reportSnippetLen, "snippet-length", 200, "Maximum snippet length in human output")
}

func runReport(cmd *cobra.Command, args []string) error {
	storePath := reportDatastore
	if storePath == store.MemoryPath {
		return fmt.Errorf("cannot report from in-memory store")
	}

	info, err := os.Stat(storePath)
	if err != nil {
		return fmt.Errorf("datastore not found: %s", storePath)
	}
	if info.IsDir() {
		storePath = filepath.Join(storePath, "bylight.db")
	}

	s, err := store.New(store.Config{Path: storePath})
	if err != nil {
		return fmt.Errorf("opening datastore: %w", err)
	}
	defer s.Close()

	sets, err := s.GetSets()
	if err != nil {
		return fmt.Errorf("retrieving sets: %w", err)
	}
	matches, err := s.GetAllMatches()
	if err != nil {
		return fmt.Errorf("retrieving matches: %w", err)
	}

	switch reportFormat {
	case "json":
		return outputMatchesJSON(cmd, matches)
	case "sarif":
		return outputSARIF(cmd, sets, matches)
	case "human":
		enabled, err := setColor(cmd, reportColor)
		if err != nil {
			return err
		}
		return outputReportHuman(cmd, s, sets, matches, storePath, enabled)
	default:
		return fmt.Errorf("unknown output format: %s", reportFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// formatSnippetWithParts cuts a snippet down to maxLen bytes, keeping the
// window centered on the matched text.
func formatSnippetWithParts(before, matching, after string, maxLen int) snippetParts {
	full := before + matching + after

	if len(full) <= maxLen {
		return snippetParts{before: before, matching: matching, after: after}
	}

	matchStart := len(before)
	matchEnd := matchStart + len(matching)
	matchLen := len(matching)

	if matchLen >= maxLen {
		return snippetParts{
			prefix:   "...",
			matching: matching[:max(maxLen-6, 0)],
			suffix:   "...",
		}
	}

	// reserve 6 for "..." on each side
	halfContext := (maxLen - matchLen - 6) / 2

	start := matchStart - halfContext
	end := matchEnd + halfContext
	if start < 0 {
		end -= start
		start = 0
	}
	if end > len(full) {
		start = max(start-(end-len(full)), 0)
		end = len(full)
	}
	start = min(start, matchStart)
	end = max(end, matchEnd)

	parts := snippetParts{
		before:   full[start:matchStart],
		matching: matching,
		after:    full[matchEnd:end],
	}
	if start > 0 {
		parts.prefix = "..."
	}
	if end < len(full) {
		parts.suffix = "..."
	}
	return parts
}

// matchPath returns the file a match was found in.
func matchPath(s store.Store, m *types.Match, cache map[types.BlobID]string) string {
	if m.Path != "" {
		return m.Path
	}
	if p, ok := cache[m.BlobID]; ok {
		return p
	}
	p := m.BlobID.Hex()
	if provs, err := s.GetProvenance(m.BlobID); err == nil && len(provs) > 0 {
		p = provs[0].Path()
	}
	cache[m.BlobID] = p
	return p
}

func outputReportHuman(cmd *cobra.Command, s store.Store, sets []*types.PatternSet, matches []*types.Match, datastorePath string, enabled bool) error {
	out := cmd.OutOrStdout()
	st := newStyles(enabled)

	fmt.Fprintf(out, "%s\n", st.heading.Sprint("=== bylight report ==="))
	fmt.Fprintf(out, "Datastore: %s\n", datastorePath)
	fmt.Fprintf(out, "Total matches: %d\n\n", len(matches))

	bySet := make(map[string][]*types.Match)
	for _, m := range matches {
		bySet[m.SetID] = append(bySet[m.SetID], m)
	}

	// stored sets first, then sets only known from their matches
	order := make([]string, 0, len(bySet))
	names := make(map[string]string)
	for _, set := range sets {
		names[set.ID] = set.Name
		if len(bySet[set.ID]) > 0 {
			order = append(order, set.ID)
		}
	}
	for _, m := range matches {
		if _, ok := names[m.SetID]; !ok {
			names[m.SetID] = m.SetName
			order = append(order, m.SetID)
		}
	}

	cache := make(map[types.BlobID]string)
	for i, id := range order {
		setMatches := bySet[id]
		fmt.Fprintf(out, "%s (%s %s)\n",
			st.setHeading.Sprintf("Set %d/%d", i+1, len(order)),
			st.heading.Sprint("id"),
			st.id.Sprint(id))
		fmt.Fprintf(out, "%s %s\n", st.heading.Sprint("Name:"), names[id])

		shown := setMatches
		if reportMaxPerSet > 0 && len(shown) > reportMaxPerSet {
			fmt.Fprintf(out, "Showing %d/%d matches:\n", reportMaxPerSet, len(setMatches))
			shown = shown[:reportMaxPerSet]
		}

		for k, m := range shown {
			fmt.Fprintf(out, "\n    %s (%s %s)\n",
				st.heading.Sprintf("Match %d/%d", k+1, len(setMatches)),
				st.heading.Sprint("id"),
				st.id.Sprint(m.StructuralID))
			fmt.Fprintf(out, "    %s %s\n", st.heading.Sprint("Pattern:"), m.Pattern)
			fmt.Fprintf(out, "    %s %s\n", st.heading.Sprint("File:"), st.metadata.Sprint(matchPath(s, m, cache)))
			if m.Location.Source.Start.Line > 0 {
				fmt.Fprintf(out, "    %s %d:%d-%d:%d\n",
					st.heading.Sprint("Lines:"),
					m.Location.Source.Start.Line, m.Location.Source.Start.Column,
					m.Location.Source.End.Line, m.Location.Source.End.Column)
			}

			parts := formatSnippetWithParts(m.Snippet.Before, m.Snippet.Matching, m.Snippet.After, reportSnippetLen)
			if parts.matching != "" {
				fmt.Fprintf(out, "\n        %s%s%s%s%s\n",
					parts.prefix,
					parts.before,
					matchStyle(m, enabled).Sprint(parts.matching),
					parts.after,
					parts.suffix)
			}
		}
		fmt.Fprintf(out, "\n\n")
	}

	return nil
}
