package display

import "github.com/charmbracelet/lipgloss"

// Styles contains styling for table and report output.
type Styles struct {
	Header    lipgloss.Style
	SubHeader lipgloss.Style
	Action    lipgloss.Style
	Winner    lipgloss.Style
	CardRed   lipgloss.Style
	CardBlack lipgloss.Style
	Pot       lipgloss.Style
	Separator lipgloss.Style
	Label     lipgloss.Style // seat markers such as BTN, SB, BB
	Muted     lipgloss.Style
	Error     lipgloss.Style
}

// NewStyles creates the default set of styles.
func NewStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true),
		SubHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Action: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF")),
		Winner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		CardRed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		CardBlack: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Pot: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
	}
}
