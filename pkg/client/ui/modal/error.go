package modal

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aeolun/ircweb/pkg/markup"
)

var (
	errorTitleStyle = titleStyle.Foreground(ErrorColor)
	errorTextStyle  = lipgloss.NewStyle().Foreground(TextColor).MarginBottom(1)
)

// ErrorModal reports a failed action until dismissed. Every key goes to it.
type ErrorModal struct {
	title   string
	message string
}

func NewErrorModal(title, message string) *ErrorModal {
	return &ErrorModal{title: markup.Sanitize(title), message: markup.Sanitize(message)}
}

func (m *ErrorModal) Type() ModalType       { return ModalError }
func (m *ErrorModal) IsBlockingInput() bool { return true }

func (m *ErrorModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyEsc, tea.KeySpace:
		return true, nil, nil
	}
	return true, m, nil
}

func (m *ErrorModal) Render(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		errorTitleStyle.Render(m.title),
		errorTextStyle.Render(m.message),
		HintStyle.Render("enter/esc dismiss"),
	)
	return framed(width, height, 46, ErrorColor, body)
}
