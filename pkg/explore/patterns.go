package explore

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// sortField defines which column to sort by.
type sortField int

const (
	sortBySet sortField = iota
	sortByPattern
	sortByMatches
	sortByFiles
	sortFieldCount // sentinel
)

var sortFieldNames = [sortFieldCount]string{
	"Set", "Pattern", "Matches", "Files",
}

// patternsPane is the top-right table of matched patterns.
type patternsPane struct {
	rows    []*patternRow // filtered rows
	allRows []*patternRow
	cursor  int
	offset  int
	width   int
	height  int
	focused bool
	sortBy  sortField
}

func newPatternsPane(rows []*patternRow) patternsPane {
	pp := patternsPane{
		allRows: rows,
		rows:    append([]*patternRow(nil), rows...),
	}
	pp.sort()
	return pp
}

func (pp *patternsPane) setFilteredRows(rows []*patternRow) {
	pp.rows = rows
	pp.sort()
	if pp.cursor >= len(pp.rows) {
		pp.cursor = max(0, len(pp.rows)-1)
	}
	pp.ensureVisible()
}

func (pp patternsPane) selectedRow() *patternRow {
	if pp.cursor < 0 || pp.cursor >= len(pp.rows) {
		return nil
	}
	return pp.rows[pp.cursor]
}

func (pp patternsPane) Update(msg tea.Msg) (patternsPane, tea.Cmd) {
	if !pp.focused {
		return pp, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keyMatches(msg, defaultKeys.Up):
			if pp.cursor > 0 {
				pp.cursor--
				pp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Down):
			if pp.cursor < len(pp.rows)-1 {
				pp.cursor++
				pp.ensureVisible()
			}
		case keyMatches(msg, defaultKeys.Home):
			pp.cursor = 0
			pp.offset = 0
		case keyMatches(msg, defaultKeys.End):
			pp.cursor = max(0, len(pp.rows)-1)
			pp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageDown):
			pp.cursor = max(0, min(pp.cursor+pp.visibleRows(), len(pp.rows)-1))
			pp.ensureVisible()
		case keyMatches(msg, defaultKeys.PageUp):
			pp.cursor = max(pp.cursor-pp.visibleRows(), 0)
			pp.ensureVisible()
		case keyMatches(msg, defaultKeys.SortNext):
			pp.sortBy = (pp.sortBy + 1) % sortFieldCount
			pp.sort()
		}
	}

	return pp, nil
}

// sort orders rows by the current field. Counts sort descending, names ascending.
func (pp *patternsPane) sort() {
	var less func(a, b *patternRow) int
	switch pp.sortBy {
	case sortBySet:
		less = func(a, b *patternRow) int {
			return cmp.Or(cmp.Compare(a.SetName, b.SetName), cmp.Compare(a.GroupIndex, b.GroupIndex))
		}
	case sortByPattern:
		less = func(a, b *patternRow) int { return cmp.Compare(a.Pattern, b.Pattern) }
	case sortByMatches:
		less = func(a, b *patternRow) int { return cmp.Compare(b.MatchCount, a.MatchCount) }
	case sortByFiles:
		less = func(a, b *patternRow) int { return cmp.Compare(len(b.Files), len(a.Files)) }
	}
	slices.SortStableFunc(pp.rows, less)
}

func (pp patternsPane) View() string {
	if pp.width <= 0 || pp.height <= 0 {
		return ""
	}

	contentWidth := pp.width - 4 // borders
	colMatches := 8
	colFiles := 6
	colSet := min(24, contentWidth/4)
	colPattern := max(10, contentWidth-colSet-colMatches-colFiles-6)

	var b strings.Builder

	header := fmt.Sprintf("   %-*s %-*s %*s %*s",
		colSet, "Set",
		colPattern, "Pattern",
		colMatches, "Matches",
		colFiles, "Files",
	)
	b.WriteString(headerRowStyle.Width(contentWidth).Render(truncateString(header, contentWidth)))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", contentWidth))
	b.WriteString("\n")

	visibleEnd := min(pp.offset+pp.visibleRows(), len(pp.rows))
	for i := pp.offset; i < visibleEnd; i++ {
		row := pp.rows[i]

		line := fmt.Sprintf(" %s %-*s %-*s %*d %*d",
			swatch(row.Color),
			colSet, truncateString(row.SetName, colSet),
			colPattern, truncateString(row.Pattern, colPattern),
			colMatches, row.MatchCount,
			colFiles, len(row.Files),
		)

		if i == pp.cursor && pp.focused {
			line = selectedRowStyle.Width(contentWidth).Render(stripAnsi(line))
		}

		b.WriteString(padRight(line, contentWidth))
		if i < visibleEnd-1 {
			b.WriteString("\n")
		}
	}

	for i := visibleEnd - pp.offset; i < pp.visibleRows(); i++ {
		b.WriteString(strings.Repeat(" ", contentWidth))
		if i < pp.visibleRows()-1 {
			b.WriteString("\n")
		}
	}

	title := titleStyle.Render(fmt.Sprintf(" Patterns (%d/%d) [sort: %s] ", len(pp.rows), len(pp.allRows), sortFieldNames[pp.sortBy]))

	borderStyle := inactiveBorderStyle
	if pp.focused {
		borderStyle = activeBorderStyle
	}

	content := borderStyle.
		Width(pp.width - 2).
		Height(pp.height - 3).
		Render(b.String())

	return lipgloss.JoinVertical(lipgloss.Left, title, content)
}

func (pp patternsPane) visibleRows() int {
	return max(1, pp.height-6) // title + border + header + separator
}

func (pp *patternsPane) ensureVisible() {
	if pp.cursor < pp.offset {
		pp.offset = pp.cursor
	}
	if pp.cursor >= pp.offset+pp.visibleRows() {
		pp.offset = pp.cursor - pp.visibleRows() + 1
	}
}

func (pp *patternsPane) setSize(w, h int) {
	pp.width = w
	pp.height = h
}
