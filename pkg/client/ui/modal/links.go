package modal

import (
	"fmt"

	"github.com/aeolun/ircweb/pkg/markup"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxVisibleLinks bounds the rows drawn at once; the list scrolls with the
// cursor.
const maxVisibleLinks = 12

// LinksModal lists the links of the active window. Enter activates the
// selected one.
type LinksModal struct {
	links      []markup.Link
	cursor     int
	onActivate func(markup.Link) tea.Cmd
}

func NewLinksModal(links []markup.Link, onActivate func(markup.Link) tea.Cmd) *LinksModal {
	return &LinksModal{links: links, onActivate: onActivate}
}

func (m *LinksModal) Type() ModalType {
	return ModalLinks
}

// Selected returns the link under the cursor.
func (m *LinksModal) Selected() (markup.Link, bool) {
	if len(m.links) == 0 {
		return markup.Link{}, false
	}
	return m.links[m.cursor], true
}

func (m *LinksModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.links)-1 {
			m.cursor++
		}
	case "enter":
		l, ok := m.Selected()
		if !ok {
			return true, nil, nil
		}
		return true, nil, m.onActivate(l)
	case "esc":
		return true, nil, nil
	}
	return true, m, nil
}

func (m *LinksModal) Render(width, height int) string {
	kindStyle := lipgloss.NewStyle().Foreground(MutedColor).Width(10)

	var rows []string
	if len(m.links) == 0 {
		rows = append(rows, HintStyle.Render("No links in this window"))
	}
	start := 0
	if m.cursor >= maxVisibleLinks {
		start = m.cursor - maxVisibleLinks + 1
	}
	for i := start; i < len(m.links) && i < start+maxVisibleLinks; i++ {
		l := m.links[i]
		row := kindStyle.Render(l.Kind.String()) + l.Target
		if i == m.cursor {
			row = selectedStyle.Render("> " + row)
		} else {
			row = "  " + row
		}
		rows = append(rows, row)
	}

	title := "Links"
	if len(m.links) > 0 {
		title = fmt.Sprintf("Links (%d)", len(m.links))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		HintStyle.MarginTop(1).Render("[↑/↓] Select  [Enter] Open  [Esc] Close"),
	)

	return frame(width, height, 70, content)
}

func (m *LinksModal) IsBlockingInput() bool {
	return true
}
