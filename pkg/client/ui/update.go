package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/aeolun/ircweb/pkg/client/ui/modal"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/markup"
	"github.com/aeolun/ircweb/pkg/session"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.refreshContent(false)
		return m, nil

	case batchMsg:
		m.sess.HandleBatch(feed.Batch(msg))
		return m, m.after(listenForBatches(m.source))

	case completionMsg:
		m.sess.Complete(session.Completion(msg))
		return m, m.after()

	case showErrorMsg:
		m.modalStack.Push(modal.NewErrorModal(msg.Title, msg.Message))
		return m, nil

	case ClearFlashMsg:
		// Only clear if version matches (prevents stale timeouts from clearing new messages)
		if msg.Version == m.flashVersion {
			m.flash = ""
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

		m.modalStack.ForEach(func(mod modal.Modal) {
			if updatable, ok := mod.(modal.UpdatableModal); ok {
				if modalCmd := updatable.Update(msg); modalCmd != nil {
					cmds = append(cmds, modalCmd)
				}
			}
		})
		return m, tea.Batch(cmds...)
	}
}

// after applies pending screen changes and releases queued requests.
func (m *Model) after(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.sync(), m.runner.flush())
	return tea.Batch(cmds...)
}

// sync copies the session's view changes into the widgets.
func (m *Model) sync() tea.Cmd {
	s := m.screen
	var cmd tea.Cmd

	if s.layoutDirty {
		s.layoutDirty = false
		m.resize()
		s.contentDirty = true
	}
	if s.inputArea {
		cmd = m.input.Focus()
	} else {
		m.input.Blur()
	}
	if s.contentDirty {
		m.refreshContent(!s.replaced)
		s.contentDirty = false
		s.replaced = false
	}
	if s.inputDirty {
		m.input.SetValue(s.inputText)
		m.input.CursorEnd()
		s.inputDirty = false
	}
	if s.caretDirty {
		m.input.SetCursor(s.caret)
		s.caretDirty = false
	}
	if s.titleDirty {
		s.titleDirty = false
		cmd = tea.Batch(cmd, tea.SetWindowTitle(s.title))
	}
	return cmd
}

// flashTimeout returns a command that clears the flash after 3 seconds
func flashTimeout(version uint64) tea.Cmd {
	return tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
		return ClearFlashMsg{Version: version}
	})
}

// setFlash sets the flash message and returns the timeout command
func (m *Model) setFlash(message string) tea.Cmd {
	m.flashVersion++
	m.flash = message
	return flashTimeout(m.flashVersion)
}

// handleKeyPress handles keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// ctrl+c always quits immediately
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	if activeModal := m.modalStack.Top(); activeModal != nil {
		handled, newModal, cmd := activeModal.HandleKey(msg)
		m.modalStack.Settle(newModal)
		if handled {
			return m, m.after(cmd)
		}
		if activeModal.IsBlockingInput() {
			return m, nil
		}
	}

	switch key {
	case "ctrl+n":
		return m, m.openNewServer()
	case "ctrl+s":
		return m, m.openStatus()
	case "ctrl+l":
		return m, m.openLinks()
	case "ctrl+w":
		return m, m.openWindowSwitcher()
	case "alt+left", "alt+up":
		return m, m.cycleWindow(-1)
	case "alt+right", "alt+down":
		return m, m.cycleWindow(1)
	case "pgup":
		m.content.HalfPageUp()
		return m, nil
	case "pgdown":
		m.content.HalfPageDown()
		return m, nil
	}

	if !m.screen.inputArea {
		var cmd tea.Cmd
		m.content, cmd = m.content.Update(msg)
		return m, cmd
	}

	if k, ok := translateKey(msg); ok {
		m.sess.HandleKey(k, m.inputState())
		return m, m.after()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// translateKey maps the terminal keys the input router cares about to their
// browser key codes. Ctrl+I and Ctrl+M cannot be told apart from Tab and
// Enter on a terminal, so they arrive as those keys.
func translateKey(msg tea.KeyMsg) (session.Key, bool) {
	key := msg.String()
	var k session.Key

	for {
		switch {
		case strings.HasPrefix(key, "ctrl+") && len(key) > len("ctrl+"):
			k.Ctrl = true
			key = strings.TrimPrefix(key, "ctrl+")
			continue
		case strings.HasPrefix(key, "shift+") && len(key) > len("shift+"):
			k.Shift = true
			key = strings.TrimPrefix(key, "shift+")
			continue
		case strings.HasPrefix(key, "alt+") && len(key) > len("alt+"):
			k.Alt = true
			key = strings.TrimPrefix(key, "alt+")
			continue
		}
		break
	}

	switch key {
	case "enter":
		k.Code = session.KeyEnter
	case "tab":
		k.Code = session.KeyTab
	case "up":
		k.Code = session.KeyUp
	case "down":
		k.Code = session.KeyDown
	default:
		if !k.Ctrl || len(key) != 1 {
			return session.Key{}, false
		}
		switch c := strings.ToUpper(key)[0]; c {
		case 'J':
			k.Code = session.KeyLineFeed
		case 'B', 'F', 'K', 'O', 'U':
			k.Code = int(c)
		default:
			return session.Key{}, false
		}
	}
	return k, true
}

// inputState reads the input box as the router sees it. The terminal has
// no selection, so the selection collapses to the caret.
func (m Model) inputState() session.InputState {
	li := m.input.LineInfo()
	pos := li.StartColumn + li.ColumnOffset
	return session.InputState{Text: m.input.Value(), SelStart: pos, SelEnd: pos}
}

func (m *Model) openNewServer() tea.Cmd {
	form := m.sess.OpenNewServer()
	sess := m.sess
	m.modalStack.Push(modal.NewNewServerModal(form, sess.Profiles, sess.SubmitNewServer))
	return m.after()
}

func (m *Model) openStatus() tea.Cmd {
	sm := modal.NewStatusModal(m.ctx, m.monitor)
	m.modalStack.Push(sm)
	return sm.Init()
}

func (m *Model) openLinks() tea.Cmd {
	links := m.sess.Links()
	if len(links) == 0 {
		return m.setFlash("No links in this window")
	}
	sess := m.sess
	m.modalStack.Push(modal.NewLinksModal(links, func(l markup.Link) tea.Cmd {
		if err := sess.ActivateLink(l); err != nil {
			return showError("Could not open link", err)
		}
		return nil
	}))
	return nil
}

func (m *Model) openWindowSwitcher() tea.Cmd {
	rows := m.sess.Tree().Flatten()
	if len(rows) == 0 {
		return m.setFlash("No windows open")
	}
	sess := m.sess
	m.modalStack.Push(modal.NewWindowSwitcher(rows, func(id string) tea.Cmd {
		if err := sess.ShowWindow(id); err != nil {
			return showError("Could not show window", err)
		}
		return nil
	}))
	return nil
}

// cycleWindow shows the window delta rows away from the active one in tree
// order, wrapping around.
func (m *Model) cycleWindow(delta int) tea.Cmd {
	rows := m.sess.Tree().Flatten()
	if len(rows) == 0 {
		return nil
	}
	idx := -1
	for i, r := range rows {
		if r.Active {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(rows) - 1
	default:
		idx = (idx + delta + len(rows)) % len(rows)
	}
	if err := m.sess.ShowWindow(rows[idx].ID); err != nil {
		return showError("Could not show window", err)
	}
	return m.after()
}

func showError(title string, err error) tea.Cmd {
	return func() tea.Msg {
		return showErrorMsg{Title: title, Message: fmt.Sprint(err)}
	}
}
