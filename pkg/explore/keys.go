package explore

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Up, Down, Left, Right       key.Binding
	PageUp, PageDown, Home, End key.Binding

	FocusFilters, FocusPatterns, FocusDetails key.Binding
	ToggleFilters                             key.Binding

	ToggleFilter, ResetFilter key.Binding

	SortNext, OpenSource, ToggleHelp key.Binding

	Quit, ForceQuit key.Binding
}

func bind(help, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, desc))
}

var defaultKeys = keyMap{
	Up:       bind("k/up", "move cursor up", "up", "k"),
	Down:     bind("j/down", "move cursor down", "down", "j"),
	Left:     bind("h/left", "previous match of the pattern", "left", "h"),
	Right:    bind("l/right", "next match of the pattern", "right", "l"),
	PageUp:   bind("ctrl+b", "page up", "pgup", "ctrl+b"),
	PageDown: bind("ctrl+f", "page down", "pgdown", "ctrl+f"),
	Home:     bind("g", "jump to top", "home", "g"),
	End:      bind("G", "jump to bottom", "end", "G"),

	FocusFilters:  bind("F1", "focus filters pane", "f1"),
	FocusPatterns: bind("p", "focus patterns pane", "p"),
	FocusDetails:  bind("d", "focus details pane", "d"),
	ToggleFilters: bind("F7", "show or hide the filters pane", "f7"),

	ToggleFilter: bind("x/space", "toggle a set or extension, collapse a facet", "x", " ", "enter"),
	ResetFilter:  bind("ctrl+r", "reset all filters", "ctrl+r"),

	SortNext:   bind("s", "cycle sort column", "s"),
	OpenSource: bind("o", "open source (pager for files, snippet otherwise)", "o"),
	ToggleHelp: bind("?", "toggle this help screen", "?"),

	Quit:      bind("q", "quit", "q"),
	ForceQuit: bind("ctrl+c", "force quit", "ctrl+c"),
}

// statusLegend is the abbreviated key list shown in the status bar.
var statusLegend = []key.Binding{
	key.NewBinding(key.WithHelp("j/k", "nav")),
	key.NewBinding(key.WithHelp("p/d", "focus")),
	key.NewBinding(key.WithHelp("s", "sort")),
	key.NewBinding(key.WithHelp("o", "source")),
	key.NewBinding(key.WithHelp("F7", "filters")),
	key.NewBinding(key.WithHelp("?", "help")),
}

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) sections() []helpSection {
	return []helpSection{
		{"NAVIGATION", []key.Binding{k.Up, k.Down, k.Left, k.Right, k.PageUp, k.PageDown, k.Home, k.End}},
		{"FOCUS", []key.Binding{k.FocusFilters, k.FocusPatterns, k.FocusDetails, k.ToggleFilters}},
		{"FILTERS", []key.Binding{k.ToggleFilter, k.ResetFilter}},
		{"VIEWS", []key.Binding{k.SortNext, k.OpenSource, k.ToggleHelp}},
		{"QUIT", []key.Binding{k.Quit, k.ForceQuit}},
	}
}

// renderHelp builds the help overlay from the key map.
func (k keyMap) renderHelp() string {
	var b strings.Builder
	b.WriteString("bylight explore - Interactive Match Browser\n")
	for _, s := range k.sections() {
		fmt.Fprintf(&b, "\n%s\n", s.title)
		for _, binding := range s.bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s%s\n", h.Key, h.Desc)
		}
	}
	return b.String()
}

func renderLegend(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		parts = append(parts, helpKeyStyle.Render(h.Key)+":"+helpDescStyle.Render(h.Desc))
	}
	return strings.Join(parts, "  ")
}
