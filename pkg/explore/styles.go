package explore

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("#e63948")
	colorSecondary = lipgloss.Color("10")
	colorMuted     = lipgloss.Color("8")
	colorAccent    = lipgloss.Color("#11C3DB")
	colorHighlight = lipgloss.Color("15")
	colorFallback  = lipgloss.Color("#D4AF37")
)

// Pane border styles
var (
	activeBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary)

	inactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorMuted)
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Background(colorPrimary).
	Padding(0, 1)

// Table row styles
var (
	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("17")).
				Foreground(colorHighlight)

	headerRowStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)
)

var snippetContextStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var statusBarStyle = lipgloss.NewStyle().
	Foreground(colorMuted)

var (
	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorAccent)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	facetLabelStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	facetSelectedStyle = lipgloss.NewStyle().Foreground(colorSecondary)
	facetCountStyle    = lipgloss.NewStyle().Foreground(colorMuted)
)

var (
	fieldLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	fieldValueStyle = lipgloss.NewStyle().Foreground(colorHighlight)
)

var modalStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// matchStyle renders matched text in the pattern group's color.
func matchStyle(hex string) lipgloss.Style {
	c := colorFallback
	if hex != "" {
		c = lipgloss.Color(hex)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// swatch returns a colored block for a pattern group color.
func swatch(hex string) string {
	return matchStyle(hex).Render("■")
}
