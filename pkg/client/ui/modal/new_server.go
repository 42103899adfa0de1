package modal

import (
	"strings"

	"github.com/aeolun/ircweb/pkg/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	fieldServer = iota
	fieldPort
	fieldPassword
	fieldProfile
	fieldCount
)

// NewServerModal asks for a server, port, optional password and profile.
type NewServerModal struct {
	server       string
	port         string
	password     string
	profile      string
	focusedField int
	errorMessage string
	profiles     func() []string
	onSubmit     func(session.NewServerForm) error
}

// NewNewServerModal creates the dialog prefilled with form. profiles is read
// on every render since the list arrives after the dialog opens.
func NewNewServerModal(form session.NewServerForm, profiles func() []string, onSubmit func(session.NewServerForm) error) *NewServerModal {
	return &NewServerModal{
		server:   form.Server,
		port:     form.Port,
		profile:  form.Profile,
		profiles: profiles,
		onSubmit: onSubmit,
	}
}

func (m *NewServerModal) Type() ModalType {
	return ModalNewServer
}

// Form returns the current field values.
func (m *NewServerModal) Form() session.NewServerForm {
	return session.NewServerForm{
		Server:   m.server,
		Port:     m.port,
		Password: m.password,
		Profile:  m.currentProfile(),
	}
}

// ErrorMessage returns the last validation error shown in the dialog.
func (m *NewServerModal) ErrorMessage() string {
	return m.errorMessage
}

func (m *NewServerModal) currentProfile() string {
	profiles := m.profiles()
	if len(profiles) == 0 {
		return m.profile
	}
	for _, p := range profiles {
		if p == m.profile {
			return p
		}
	}
	return profiles[0]
}

// cycleProfile moves the profile selection by delta, wrapping around.
func (m *NewServerModal) cycleProfile(delta int) {
	profiles := m.profiles()
	if len(profiles) == 0 {
		return
	}
	idx := 0
	for i, p := range profiles {
		if p == m.currentProfile() {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(profiles)) % len(profiles)
	m.profile = profiles[idx]
}

func (m *NewServerModal) field() *string {
	switch m.focusedField {
	case fieldServer:
		return &m.server
	case fieldPort:
		return &m.port
	case fieldPassword:
		return &m.password
	}
	return nil
}

func (m *NewServerModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusedField = (m.focusedField + 1) % fieldCount
		return true, m, nil

	case "shift+tab", "up":
		m.focusedField = (m.focusedField - 1 + fieldCount) % fieldCount
		return true, m, nil

	case "left":
		if m.focusedField == fieldProfile {
			m.cycleProfile(-1)
		}
		return true, m, nil

	case "right", " ":
		if m.focusedField == fieldProfile {
			m.cycleProfile(1)
			return true, m, nil
		}
		if msg.String() == " " {
			if f := m.field(); f != nil {
				*f += " "
			}
		}
		return true, m, nil

	case "enter":
		if err := m.onSubmit(m.Form()); err != nil {
			m.errorMessage = err.Error()
			return true, m, nil
		}
		return true, nil, nil

	case "esc":
		return true, nil, nil

	case "backspace":
		if f := m.field(); f != nil && len(*f) > 0 {
			r := []rune(*f)
			*f = string(r[:len(r)-1])
		}
		return true, m, nil

	default:
		if msg.Type == tea.KeyRunes {
			if f := m.field(); f != nil {
				*f += string(msg.Runes)
				m.errorMessage = ""
			}
		}
		return true, m, nil
	}
}

func (m *NewServerModal) Render(width, height int) string {
	render := func(field int, label, value string) string {
		if field == m.focusedField {
			value += "█"
			return inputFocusedStyle.Render(label + value)
		}
		return inputBlurredStyle.Render(label + value)
	}

	profile := m.currentProfile()
	if profile == "" {
		profile = "(loading profiles)"
	}
	if m.focusedField == fieldProfile {
		profile = "◀ " + profile + " ▶"
	}

	var errorMsg string
	if m.errorMessage != "" {
		errorMsg = "\n" + lipgloss.NewStyle().
			Foreground(ErrorColor).
			Align(lipgloss.Center).
			Render(m.errorMessage)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		titleStyle.Render("New server"),
		render(fieldServer, "Server:   ", m.server),
		render(fieldPort, "Port:     ", m.port),
		render(fieldPassword, "Password: ", strings.Repeat("•", len([]rune(m.password)))),
		render(fieldProfile, "Profile:  ", profile),
		errorMsg,
		HintStyle.MarginTop(1).Render("[Tab] Next field  [←/→] Profile  [Enter] Connect  [Esc] Cancel"),
	)

	return frame(width, height, 60, content)
}

func (m *NewServerModal) IsBlockingInput() bool {
	return true
}
