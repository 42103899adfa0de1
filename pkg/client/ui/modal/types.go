package modal

import (
	"slices"

	tea "github.com/charmbracelet/bubbletea"
)

// ModalType tells dialogs apart. The stack holds at most one of each.
type ModalType int

const (
	ModalNone ModalType = iota
	ModalNewServer
	ModalStatus
	ModalLinks
	ModalWindowSwitcher
	ModalError
)

var modalNames = map[ModalType]string{
	ModalNone:           "None",
	ModalNewServer:      "NewServer",
	ModalStatus:         "Status",
	ModalLinks:          "Links",
	ModalWindowSwitcher: "WindowSwitcher",
	ModalError:          "Error",
}

func (m ModalType) String() string {
	if name, ok := modalNames[m]; ok {
		return name
	}
	return "Unknown"
}

// Modal is a dialog drawn over the whole screen.
//
// HandleKey reports whether it consumed the key and what should be on top
// afterwards: nil closes the dialog, the receiver keeps it open and any
// other modal replaces it. Unconsumed keys reach the main view unless
// IsBlockingInput is true.
type Modal interface {
	Type() ModalType
	HandleKey(msg tea.KeyMsg) (handled bool, newModal Modal, cmd tea.Cmd)
	Render(width, height int) string
	IsBlockingInput() bool
}

// UpdatableModal receives every message that is not a key press, so a
// dialog can run its own timers and requests.
type UpdatableModal interface {
	Modal
	Update(msg tea.Msg) tea.Cmd
}

// ClosableModal is told when it leaves the stack.
type ClosableModal interface {
	Modal
	Close()
}

// ModalStack holds the open dialogs, topmost last.
type ModalStack struct {
	stack []Modal
}

// Push opens m on top, closing any open dialog of the same type.
func (ms *ModalStack) Push(m Modal) {
	ms.stack = slices.DeleteFunc(ms.stack, func(old Modal) bool {
		if old.Type() != m.Type() {
			return false
		}
		closeModal(old)
		return true
	})
	ms.stack = append(ms.stack, m)
}

// Pop closes and returns the top dialog, or nil.
func (ms *ModalStack) Pop() Modal {
	top := ms.Top()
	if top == nil {
		return nil
	}
	ms.stack = ms.stack[:len(ms.stack)-1]
	closeModal(top)
	return top
}

// Settle applies what the top dialog's HandleKey returned.
func (ms *ModalStack) Settle(next Modal) {
	top := ms.Top()
	switch {
	case top == nil:
	case next == nil:
		ms.Pop()
	case next.Type() != top.Type():
		ms.Pop()
		ms.Push(next)
	}
}

func (ms *ModalStack) Top() Modal {
	if len(ms.stack) == 0 {
		return nil
	}
	return ms.stack[len(ms.stack)-1]
}

// TopType is ModalNone when nothing is open.
func (ms *ModalStack) TopType() ModalType {
	if top := ms.Top(); top != nil {
		return top.Type()
	}
	return ModalNone
}

// Clear closes every dialog.
func (ms *ModalStack) Clear() {
	for _, m := range ms.stack {
		closeModal(m)
	}
	ms.stack = nil
}

func (ms *ModalStack) IsEmpty() bool { return len(ms.stack) == 0 }
func (ms *ModalStack) Size() int     { return len(ms.stack) }

// ForEach visits the dialogs bottom to top.
func (ms *ModalStack) ForEach(fn func(Modal)) {
	for _, m := range ms.stack {
		fn(m)
	}
}

func closeModal(m Modal) {
	if c, ok := m.(ClosableModal); ok {
		c.Close()
	}
}
