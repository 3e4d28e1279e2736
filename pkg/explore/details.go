package explore

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/praetorian-inc/bylight/pkg/types"
)

// detailsPane shows the matches of the selected pattern one at a time.
type detailsPane struct {
	row         *patternRow
	matchCursor int
	width       int
	height      int
	offset      int // scroll offset for content
	focused     bool
}

func (dp *detailsPane) setRow(r *patternRow) {
	dp.row = r
	dp.matchCursor = 0
	dp.offset = 0
}

func (dp detailsPane) selectedMatch() *matchRow {
	if dp.row == nil || dp.matchCursor < 0 || dp.matchCursor >= len(dp.row.Matches) {
		return nil
	}
	return dp.row.Matches[dp.matchCursor]
}

func (dp detailsPane) Update(msg tea.Msg) (detailsPane, tea.Cmd) {
	if !dp.focused {
		return dp, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if dp.offset > 0 {
				dp.offset--
			}
		case keyMatches(msg, defaultKeys.Down):
			dp.offset++
		case keyMatches(msg, defaultKeys.Left):
			if dp.matchCursor > 0 {
				dp.matchCursor--
				dp.offset = 0
			}
		case keyMatches(msg, defaultKeys.Right):
			if dp.row != nil && dp.matchCursor < len(dp.row.Matches)-1 {
				dp.matchCursor++
				dp.offset = 0
			}
		case keyMatches(msg, defaultKeys.Home):
			dp.offset = 0
		case keyMatches(msg, defaultKeys.PageDown):
			dp.offset += dp.visibleRows()
		case keyMatches(msg, defaultKeys.PageUp):
			dp.offset = max(0, dp.offset-dp.visibleRows())
		}
	}

	return dp, nil
}

// lines renders the pane content before scrolling.
func (dp detailsPane) lines(contentWidth int) []string {
	if dp.row == nil {
		return []string{"  No pattern selected"}
	}
	r := dp.row

	lines := []string{
		field("Set:", fmt.Sprintf("%s (%s)", r.SetName, r.SetID)),
		fmt.Sprintf("  %s %s %s", fieldLabelStyle.Render("Pattern:"), swatch(r.Color), matchStyle(r.Color).Render(r.Pattern)),
		field("Group:", fmt.Sprintf("%d", r.GroupIndex)),
		"",
	}

	if len(r.Matches) == 0 {
		return append(lines, "  No matches")
	}

	lines = append(lines,
		"  "+headerRowStyle.Render(fmt.Sprintf("Match %d/%d (h/l to navigate)", dp.matchCursor+1, len(r.Matches))),
		"  "+strings.Repeat("─", max(0, min(40, contentWidth-4))),
	)
	if m := dp.selectedMatch(); m != nil {
		lines = append(lines, renderMatchDetails(m, contentWidth)...)
	}
	return lines
}

func (dp detailsPane) View() string {
	if dp.width <= 0 || dp.height <= 0 {
		return ""
	}

	contentWidth := dp.width - 4
	lines := dp.lines(contentWidth)

	offset := min(dp.offset, max(0, len(lines)-1))
	visibleLines := lines[offset:]
	if len(visibleLines) > dp.visibleRows() {
		visibleLines = visibleLines[:dp.visibleRows()]
	}

	var b strings.Builder
	for i, line := range visibleLines {
		b.WriteString(padRight(line, contentWidth))
		if i < len(visibleLines)-1 {
			b.WriteString("\n")
		}
	}
	for i := len(visibleLines); i < dp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < dp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	borderStyle := inactiveBorderStyle
	if dp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(dp.width - 2).
		Height(dp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(" Details "), content)
}

func field(label, value string) string {
	return fmt.Sprintf("  %s %s", fieldLabelStyle.Render(label), fieldValueStyle.Render(value))
}

func renderMatchDetails(m *matchRow, maxWidth int) []string {
	var lines []string

	if m.Path != "" {
		lines = append(lines, field("File:", m.Path))
	}
	for _, prov := range m.Provenance {
		if p, ok := prov.(types.InlineProvenance); ok {
			lines = append(lines, field("Source:", p.Source))
		}
	}

	lines = append(lines, field("Blob:", m.BlobID.Short()))

	if m.Location.Source.Start.Line > 0 {
		lines = append(lines, fmt.Sprintf("  %s %d:%d - %d:%d (bytes %d-%d)",
			fieldLabelStyle.Render("Location:"),
			m.Location.Source.Start.Line, m.Location.Source.Start.Column,
			m.Location.Source.End.Line, m.Location.Source.End.Column,
			m.Location.Offset.Start, m.Location.Offset.End))
	}

	lines = append(lines, "", "  "+fieldLabelStyle.Render("Snippet:"))
	return append(lines, renderSnippet(m.Snippet, matchStyle(m.Color), maxWidth-6)...)
}

// renderSnippet renders snippet lines with the matched part styled. Context
// before and after the match shares its first and last lines.
func renderSnippet(s types.Snippet, style lipgloss.Style, width int) []string {
	var lines []string

	before := s.Before
	var prefix string
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		for _, line := range strings.Split(before[:i], "\n") {
			lines = append(lines, "    "+snippetContextStyle.Render(truncateString(line, width)))
		}
		prefix = before[i+1:]
	} else {
		prefix = before
	}

	after := s.After
	suffix := after
	rest := ""
	if i := strings.IndexByte(after, '\n'); i >= 0 {
		suffix = after[:i]
		rest = after[i+1:]
	}

	matching := strings.Split(s.Matching, "\n")
	for i, part := range matching {
		line := style.Render(part)
		if i == 0 {
			line = snippetContextStyle.Render(prefix) + line
		}
		if i == len(matching)-1 {
			line += snippetContextStyle.Render(suffix)
		}
		lines = append(lines, "    "+line)
	}

	if rest != "" {
		for _, line := range strings.Split(strings.TrimRight(rest, "\n"), "\n") {
			lines = append(lines, "    "+snippetContextStyle.Render(truncateString(line, width)))
		}
	}

	return lines
}

func (dp detailsPane) visibleRows() int {
	return max(1, dp.height-4)
}

func (dp *detailsPane) setSize(w, h int) {
	dp.width = w
	dp.height = h
}
