package render

import "github.com/charmbracelet/lipgloss"

type styles struct {
	bubble     lipgloss.Style
	card       lipgloss.Style
	cardHeader lipgloss.Style
	codeCard   lipgloss.Style
	codeHeader lipgloss.Style
	codeLabel  lipgloss.Style
	copyHint   lipgloss.Style
	codeBody   lipgloss.Style
}

func newStyles() styles {
	border := lipgloss.Color("238")
	return styles{
		bubble: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Background(lipgloss.Color("236")).
			Padding(0, 1),
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border),
		cardHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237")).
			Bold(true).
			Padding(0, 1),
		codeCard: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Margin(0, 1),
		codeHeader: lipgloss.NewStyle().
			Background(lipgloss.Color("237")).
			Padding(0, 1),
		codeLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")),
		copyHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")),
		codeBody: lipgloss.NewStyle().
			Padding(0, 1),
	}
}
