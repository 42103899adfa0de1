package ui

import (
	"fmt"
	"strings"

	"github.com/76creates/stickers/flexbox"
	"github.com/aeolun/ircweb/pkg/markup"
	"github.com/aeolun/ircweb/pkg/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const footerHints = "^N new server  ^S status  ^L links  ^W windows  alt+←/→ switch  ^C quit"

// layout holds the pane sizes derived from the terminal size and the
// visibility of the nick list and input area.
type layout struct {
	tree    int
	nick    int
	content int
	body    int
}

func (m Model) layout() layout {
	l := layout{body: max(m.height-2, 3)}
	l.tree = min(max(m.width/5, 16), 30)
	if m.screen.nicklist {
		l.nick = min(max(m.width/6, 12), 24)
	}
	l.content = max(m.width-l.tree-l.nick, 10)
	return l
}

// resize fits the widgets to the current layout.
func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	l := m.layout()
	innerW := max(l.content-2, 1)
	innerH := max(l.body-2, 1)
	if m.screen.inputArea {
		innerH -= 2 // separator and input line
	}
	m.content.Width = innerW
	m.content.Height = max(innerH, 1)
	m.input.SetWidth(innerW)
}

// refreshContent re-renders the content pane. Appends keep the scroll
// position unless the view was already at the bottom.
func (m *Model) refreshContent(appendOnly bool) {
	atBottom := m.content.AtBottom()
	m.content.SetContent(renderLines(m.screen.lines, m.content.Width))
	if !appendOnly || atBottom {
		m.content.GotoBottom()
	}
}

// View renders the current view
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if activeModal := m.modalStack.Top(); activeModal != nil {
		return activeModal.Render(m.width, m.height)
	}

	l := m.layout()
	box := flexbox.NewHorizontal(m.width, l.body)

	treeCol := box.NewColumn().AddCells(
		flexbox.NewCell(l.tree, 1).
			SetStyle(TreePaneStyle.Width(l.tree - 2).Height(l.body - 2)).
			SetContent(m.renderTree(l.tree-4, l.body-2)),
	)
	contentCol := box.NewColumn().AddCells(
		flexbox.NewCell(l.content, 1).
			SetStyle(ContentPaneStyle.Width(l.content - 2).Height(l.body - 2)).
			SetContent(m.renderContentPane(l.content - 2)),
	)
	columns := []*flexbox.Column{treeCol, contentCol}
	if m.screen.nicklist {
		nickCol := box.NewColumn().AddCells(
			flexbox.NewCell(l.nick, 1).
				SetStyle(NicklistPaneStyle.Width(l.nick - 2).Height(l.body - 2)).
				SetContent(m.renderNicklist(l.nick-4, l.body-2)),
		)
		columns = append(columns, nickCol)
	}
	box.AddColumns(columns)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		box.Render(),
		m.renderStatusBar(),
	)
}

func (m Model) renderHeader() string {
	title := m.sess.Title()
	if title == "" {
		title = strings.TrimPrefix(session.TitleSuffix, " - ")
	}
	return HeaderStyle.Width(m.width).Render(ansi.Truncate(title, m.width-2, "…"))
}

func (m Model) renderStatusBar() string {
	style, text := StatusBarStyle, m.sess.Status()
	if m.flash != "" {
		style, text = FlashStyle, m.flash
	}
	hints := FooterStyle.Render(footerHints)
	room := m.width - lipgloss.Width(hints) - 3
	if room < 20 {
		return style.Width(m.width).Render(ansi.Truncate(text, m.width-2, "…"))
	}
	left := style.Width(room + 2).Render(ansi.Truncate(text, room, "…"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", hints)
}

// renderTree draws the window tree, scrolled so the active row is visible.
func (m Model) renderTree(width, height int) string {
	rows := m.sess.Tree().Flatten()
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(MutedColor).Render("No windows")
	}

	start := 0
	for i, r := range rows {
		if r.Active && i >= height {
			start = i - height + 1
		}
	}

	var out []string
	for i := start; i < len(rows) && i < start+height; i++ {
		out = append(out, m.renderTreeRow(rows[i], width))
	}
	return strings.Join(out, "\n")
}

func (m Model) renderTreeRow(r session.Row, width int) string {
	label := strings.Repeat(" ", r.Depth*2) + markup.Sanitize(r.Name)
	unread := 0
	if w, err := m.sess.Registry().Get(r.ID); err == nil {
		unread = w.Unread
	}
	if unread > 0 && !r.Active {
		suffix := fmt.Sprintf(" %d", unread)
		label = ansi.Truncate(label, width-len(suffix), "…") + suffix
		return TreeUnreadStyle.Render(label)
	}
	label = ansi.Truncate(label, width, "…")
	switch {
	case r.Active:
		return TreeActiveStyle.Width(width).Render(label)
	case r.Type == session.TypeServer:
		return TreeServerStyle.Render(label)
	}
	return label
}

func (m Model) renderContentPane(width int) string {
	if !m.screen.inputArea {
		return m.content.View()
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.content.View(),
		SeparatorStyle.Render(strings.Repeat("─", max(width, 0))),
		m.input.View(),
	)
}

func (m Model) renderNicklist(width, height int) string {
	nicks := m.sess.Nicklist().Nicks()
	var out []string
	for i, n := range nicks {
		if i == height-1 && len(nicks) > height {
			out = append(out, lipgloss.NewStyle().Foreground(MutedColor).Render(fmt.Sprintf("+%d more", len(nicks)-i)))
			break
		}
		out = append(out, ansi.Truncate(markup.Sanitize(n), width, "…"))
	}
	return strings.Join(out, "\n")
}

// renderLines turns markup lines into wrapped terminal text.
func renderLines(lines []string, width int) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = renderLine(line, width)
	}
	return strings.Join(out, "\n")
}

// renderLine draws one markup line with its colours and emphasis.
func renderLine(line string, width int) string {
	var b strings.Builder
	for _, span := range markup.Parse(line) {
		style := spanStyle(span)
		for i, part := range strings.Split(span.Text, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if part = markup.Sanitize(part); part != "" {
				b.WriteString(style.Render(part))
			}
		}
	}
	if width <= 0 {
		return b.String()
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func spanStyle(span markup.Span) lipgloss.Style {
	st := lipgloss.NewStyle()
	if span.Link != nil {
		st = LinkStyle
	}
	s := span.Style
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}
	if s.Bold {
		st = st.Bold(true)
	}
	if s.Italic {
		st = st.Italic(true)
	}
	if s.Underline {
		st = st.Underline(true)
	}
	return st
}
