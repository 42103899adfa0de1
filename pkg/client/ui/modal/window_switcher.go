package modal

import (
	"sort"
	"strings"

	"github.com/aeolun/ircweb/pkg/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// WindowSwitcher filters the open windows by a fuzzy query and shows the
// chosen one.
type WindowSwitcher struct {
	rows     []session.Row
	query    string
	matches  []session.Row
	cursor   int
	onSelect func(id string) tea.Cmd
}

func NewWindowSwitcher(rows []session.Row, onSelect func(id string) tea.Cmd) *WindowSwitcher {
	m := &WindowSwitcher{rows: rows, onSelect: onSelect}
	m.filter()
	return m
}

func (m *WindowSwitcher) Type() ModalType {
	return ModalWindowSwitcher
}

// Matches returns the rows matching the current query, best first.
func (m *WindowSwitcher) Matches() []session.Row {
	return m.matches
}

// filter ranks rows by edit distance to the query; ties keep tree order.
// An empty query lists every window in tree order.
func (m *WindowSwitcher) filter() {
	m.cursor = 0
	if m.query == "" {
		m.matches = append([]session.Row(nil), m.rows...)
		return
	}
	names := make([]string, len(m.rows))
	for i, r := range m.rows {
		names[i] = r.Name
	}
	ranks := fuzzy.RankFindFold(m.query, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})
	m.matches = m.matches[:0]
	for _, r := range ranks {
		m.matches = append(m.matches, m.rows[r.OriginalIndex])
	}
}

func (m *WindowSwitcher) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return true, nil, nil
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+n":
		if m.cursor < len(m.matches)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.matches) == 0 {
			return true, m, nil
		}
		return true, nil, m.onSelect(m.matches[m.cursor].ID)
	case "backspace":
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
			m.filter()
		}
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.query += string(msg.Runes)
			m.filter()
		}
	}
	return true, m, nil
}

func (m *WindowSwitcher) Render(width, height int) string {
	limit := 10
	if height > 0 && height < 24 {
		limit = 5
	}
	var rows []string
	for i, r := range m.matches {
		if i >= limit {
			rows = append(rows, HintStyle.Render("…"))
			break
		}
		label := strings.Repeat("  ", r.Depth) + r.Name
		if i == m.cursor {
			rows = append(rows, selectedStyle.Render("> "+label))
		} else {
			rows = append(rows, "  "+label)
		}
	}
	if len(rows) == 0 {
		rows = append(rows, HintStyle.Render("No matching window"))
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Go to window"),
		inputFocusedStyle.Render("> "+m.query+"█"),
		lipgloss.JoinVertical(lipgloss.Left, rows...),
		HintStyle.MarginTop(1).Render("[↑/↓] Select  [Enter] Show  [Esc] Cancel"),
	)

	return frame(width, height, 56, content)
}

func (m *WindowSwitcher) IsBlockingInput() bool {
	return true
}
