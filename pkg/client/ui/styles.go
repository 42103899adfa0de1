package ui

import "github.com/charmbracelet/lipgloss"

var (
	PrimaryColor = lipgloss.Color("205")
	AccentColor  = lipgloss.Color("#00D0D0")
	MutedColor   = lipgloss.Color("240")
	TextColor    = lipgloss.Color("252")
	UnreadColor  = lipgloss.Color("#FFB86C")
	LinkColor    = lipgloss.Color("#8BE9FD")

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	FlashStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	TreePaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)

	ContentPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(PrimaryColor)

	NicklistPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(MutedColor).
				Padding(0, 1)

	TreeActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(PrimaryColor)

	TreeUnreadStyle = lipgloss.NewStyle().
			Foreground(UnreadColor).
			Bold(true)

	TreeServerStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	SeparatorStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	LinkStyle = lipgloss.NewStyle().
			Foreground(LinkColor).
			Underline(true)
)
