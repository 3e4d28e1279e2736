// Package explore is an interactive terminal browser for scan results.
package explore

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/praetorian-inc/bylight/pkg/store"
)

// focusedPane tracks which pane has keyboard focus.
type focusedPane int

const (
	paneFilters focusedPane = iota
	panePatterns
	paneDetails
)

// overlay tracks which modal overlay is active.
type overlay int

const (
	overlayNone overlay = iota
	overlayHelp
	overlaySource
)

// pagerFinishedMsg is sent when an external pager process exits.
type pagerFinishedMsg struct{ err error }

// Model is the root Bubble Tea model for the explore TUI.
type Model struct {
	data     *exploreData
	filters  filterPane
	patterns patternsPane
	details  detailsPane

	focus         focusedPane
	activeOverlay overlay
	showFilters   bool

	helpContent string
	helpOffset  int

	sourceContent string
	sourceOffset  int

	width  int
	height int
}

// New creates a Model by loading the datastore at path.
func New(datastorePath string) (Model, error) {
	data, err := loadData(datastorePath)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

// NewFromStore creates a Model over an open store. Close closes the store.
func NewFromStore(s store.Store) (Model, error) {
	data, err := buildData(s)
	if err != nil {
		return Model{}, err
	}
	return newModel(data), nil
}

func newModel(data *exploreData) Model {
	m := Model{
		data:        data,
		filters:     newFilterPane(buildFacets(data.rows)),
		patterns:    newPatternsPane(data.rows),
		focus:       panePatterns,
		showFilters: true,
	}
	m.patterns.focused = true
	m.details.setRow(m.patterns.selectedRow())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("bylight explore")
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case pagerFinishedMsg:
		return m, nil

	case tea.MouseMsg:
		if m.activeOverlay != overlayNone {
			return m, nil
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		m.handleMouseClick(msg.X, msg.Y)
		return m, nil

	case tea.KeyMsg:
		if m.activeOverlay != overlayNone {
			return m.updateOverlay(msg)
		}

		switch {
		case keyMatches(msg, defaultKeys.ForceQuit), keyMatches(msg, defaultKeys.Quit):
			return m, tea.Quit
		case keyMatches(msg, defaultKeys.ToggleHelp):
			m.activeOverlay = overlayHelp
			m.helpOffset = 0
			m.helpContent = defaultKeys.renderHelp()
			return m, nil
		case keyMatches(msg, defaultKeys.ToggleFilters):
			m.showFilters = !m.showFilters
			if !m.showFilters && m.focus == paneFilters {
				m.setFocus(panePatterns)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusFilters):
			if m.showFilters {
				m.setFocus(paneFilters)
			}
			return m, nil
		case keyMatches(msg, defaultKeys.FocusPatterns):
			m.setFocus(panePatterns)
			return m, nil
		case keyMatches(msg, defaultKeys.FocusDetails):
			m.setFocus(paneDetails)
			return m, nil
		case keyMatches(msg, defaultKeys.OpenSource) && m.focus != paneFilters:
			return m, m.openSource()
		}

		switch m.focus {
		case paneFilters:
			var cmd tea.Cmd
			m.filters, cmd = m.filters.Update(msg)
			m.applyFilters()
			return m, cmd
		case panePatterns:
			prev := m.patterns.selectedRow()
			var cmd tea.Cmd
			m.patterns, cmd = m.patterns.Update(msg)
			if cur := m.patterns.selectedRow(); cur != prev {
				m.details.setRow(cur)
			}
			return m, cmd
		case paneDetails:
			var cmd tea.Cmd
			m.details, cmd = m.details.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m Model) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var offset *int
	closeKey := defaultKeys.ToggleHelp
	switch m.activeOverlay {
	case overlayHelp:
		offset = &m.helpOffset
	case overlaySource:
		offset = &m.sourceOffset
		closeKey = defaultKeys.OpenSource
	default:
		return m, nil
	}

	switch {
	case keyMatches(msg, defaultKeys.Quit),
		keyMatches(msg, defaultKeys.ForceQuit),
		keyMatches(msg, closeKey),
		msg.String() == "esc":
		m.activeOverlay = overlayNone
	case keyMatches(msg, defaultKeys.Down):
		*offset++
	case keyMatches(msg, defaultKeys.Up):
		*offset = max(0, *offset-1)
	case keyMatches(msg, defaultKeys.PageDown):
		*offset += m.height / 2
	case keyMatches(msg, defaultKeys.PageUp):
		*offset = max(0, *offset-m.height/2)
	}
	return m, nil
}

// layout returns the filter pane width and the patterns pane height.
func (m Model) layout() (filtersWidth, patternsHeight, contentHeight int) {
	contentHeight = m.height - 2 // status bar + padding
	if m.showFilters {
		filtersWidth = min(m.width*30/100, 40)
	}
	return filtersWidth, contentHeight * 40 / 100, contentHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.activeOverlay != overlayNone {
		return m.renderOverlay()
	}

	filtersWidth, patternsHeight, contentHeight := m.layout()
	dataWidth := m.width - filtersWidth

	m.patterns.setSize(dataWidth, patternsHeight)
	m.details.setSize(dataWidth, contentHeight-patternsHeight)
	dataColumn := lipgloss.JoinVertical(lipgloss.Left, m.patterns.View(), m.details.View())

	mainContent := dataColumn
	if m.showFilters {
		m.filters.setSize(filtersWidth, contentHeight)
		mainContent = lipgloss.JoinHorizontal(lipgloss.Top, m.filters.View(), dataColumn)
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, m.renderStatusBar())
}

func (m Model) renderStatusBar() string {
	left := statusBarStyle.Render(fmt.Sprintf(" %d patterns | %d shown | %d matches",
		len(m.data.rows), len(m.patterns.rows), m.matchCount()))

	right := renderLegend(statusLegend)

	gap := max(0, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	return left + strings.Repeat(" ", gap) + right
}

func (m Model) matchCount() int {
	n := 0
	for _, r := range m.patterns.rows {
		n += r.MatchCount
	}
	return n
}

func (m Model) renderOverlay() string {
	overlayWidth := m.width * 80 / 100
	overlayHeight := m.height * 80 / 100

	var title, content string
	switch m.activeOverlay {
	case overlayHelp:
		title = " Help (q to close) "
		content = scrollLines(m.helpContent, m.helpOffset, overlayHeight-4)
	case overlaySource:
		title = " Source (q to close) "
		content = "  No source available"
		if m.sourceContent != "" {
			content = scrollLines(m.sourceContent, m.sourceOffset, overlayHeight-4)
		}
	}

	box := modalStyle.
		Width(overlayWidth - 4).
		Height(overlayHeight - 2).
		Render(content)

	overlayView := lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), box)

	hPad := (m.width - lipgloss.Width(overlayView)) / 2
	vPad := (m.height - lipgloss.Height(overlayView)) / 2

	return strings.Repeat("\n", max(0, vPad)) +
		lipgloss.NewStyle().PaddingLeft(max(0, hPad)).Render(overlayView)
}

// scrollLines returns at most height lines of text starting at offset.
func scrollLines(text string, offset, height int) string {
	lines := strings.Split(text, "\n")
	offset = min(offset, max(0, len(lines)-1))
	end := min(offset+max(1, height), len(lines))
	return strings.Join(lines[offset:end], "\n")
}

func (m *Model) setFocus(p focusedPane) {
	m.filters.focused = p == paneFilters
	m.patterns.focused = p == panePatterns
	m.details.focused = p == paneDetails
	m.focus = p
}

func (m *Model) handleMouseClick(x, y int) {
	filtersWidth, patternsHeight, contentHeight := m.layout()
	if y >= contentHeight {
		return
	}

	switch {
	case x < filtersWidth:
		m.setFocus(paneFilters)
		if idx := y - 2 + m.filters.offset; y >= 2 && idx < len(m.filters.items) {
			m.filters.cursor = idx
			m.filters.toggleCurrent()
			m.applyFilters()
		}
	case y < patternsHeight:
		m.setFocus(panePatterns)
		// title + border top + header + separator
		if idx := y - 4 + m.patterns.offset; y >= 4 && idx < len(m.patterns.rows) {
			m.patterns.cursor = idx
			m.details.setRow(m.patterns.selectedRow())
		}
	default:
		m.setFocus(paneDetails)
	}
}

func (m *Model) applyFilters() {
	prev := m.patterns.selectedRow()

	if !m.filters.facets.hasActiveFilters() {
		m.patterns.setFilteredRows(append([]*patternRow(nil), m.data.rows...))
	} else {
		var filtered []*patternRow
		for _, r := range m.data.rows {
			if m.filters.facets.matchesRow(r) {
				filtered = append(filtered, r)
			}
		}
		m.patterns.setFilteredRows(filtered)
	}
	m.filters.facets.updateCounts(m.data.rows)

	if cur := m.patterns.selectedRow(); cur != prev {
		m.details.setRow(cur)
	}
}

func (m *Model) openSource() tea.Cmd {
	match := m.details.selectedMatch()
	if match == nil {
		return nil
	}

	if match.Path != "" {
		if _, err := os.Stat(match.Path); err == nil {
			return openInPager(match.Path, match.Location.Source.Start.Line)
		}
	}

	m.sourceContent = match.Snippet.String()
	m.sourceOffset = 0
	m.activeOverlay = overlaySource
	return nil
}

func openInPager(filePath string, line int) tea.Cmd {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	var args []string
	if line > 0 && pager == "less" {
		args = append(args, fmt.Sprintf("+%d", line))
	}
	args = append(args, filePath)

	c := exec.Command(pager, args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return pagerFinishedMsg{err: err}
	})
}

// Close releases resources held by the model.
func (m *Model) Close() error {
	if m.data != nil {
		return m.data.close()
	}
	return nil
}
