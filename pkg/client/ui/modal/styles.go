package modal

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor = lipgloss.Color("#00D0D0")
	ErrorColor   = lipgloss.Color("#FF5555")
	MutedColor   = lipgloss.Color("240")
	TextColor    = lipgloss.Color("252")
	FocusColor   = lipgloss.Color("170")

	HintStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Align(lipgloss.Center).
			MarginBottom(1)

	inputFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(FocusColor).
				Padding(0, 1).
				Width(50)

	inputBlurredStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(MutedColor).
				Padding(0, 1).
				Width(50)

	selectedStyle = lipgloss.NewStyle().
			Foreground(FocusColor).
			Bold(true)
)

// frame draws a modal body in a bordered box centred in the terminal.
func frame(width, height, boxWidth int, content string) string {
	return framed(width, height, boxWidth, PrimaryColor, content)
}

func framed(width, height, boxWidth int, border lipgloss.TerminalColor, content string) string {
	if width > 0 && boxWidth > width-2 {
		boxWidth = width - 2
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 3).
		Width(boxWidth).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
