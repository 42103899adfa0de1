package modal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aeolun/ircweb/pkg/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// statusReportMsg carries one client-table refresh back to the dialog that
// asked for it.
type statusReportMsg struct {
	owner  *StatusModal
	report session.StatusReport
}

type statusTickMsg struct {
	owner *StatusModal
}

// StatusModal shows the server's client table, the requests issued while it
// is open and the refresh speed selector.
type StatusModal struct {
	ctx          context.Context
	monitor      *session.StatusMonitor
	report       session.StatusReport
	loaded       bool
	closed       bool
	errorMessage string
}

// NewStatusModal opens the monitor; the dialog's first refresh starts with
// Init.
func NewStatusModal(ctx context.Context, monitor *session.StatusMonitor) *StatusModal {
	monitor.Open()
	return &StatusModal{ctx: ctx, monitor: monitor}
}

func (m *StatusModal) Type() ModalType {
	return ModalStatus
}

// Init queries the client table immediately.
func (m *StatusModal) Init() tea.Cmd {
	return m.query()
}

func (m *StatusModal) query() tea.Cmd {
	ctx, monitor := m.ctx, m.monitor
	return func() tea.Msg {
		return statusReportMsg{owner: m, report: monitor.Query(ctx)}
	}
}

func (m *StatusModal) tick() tea.Cmd {
	return tea.Tick(m.monitor.Interval(), func(time.Time) tea.Msg {
		return statusTickMsg{owner: m}
	})
}

// Update applies refreshes addressed to this dialog and schedules the next
// one. Nothing is scheduled after Close.
func (m *StatusModal) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case statusReportMsg:
		if msg.owner != m || m.closed {
			return nil
		}
		m.report = msg.report
		m.loaded = true
		return m.tick()
	case statusTickMsg:
		if msg.owner != m || m.closed {
			return nil
		}
		return m.query()
	}
	return nil
}

// Close stops request recording.
func (m *StatusModal) Close() {
	if m.closed {
		return
	}
	m.closed = true
	m.monitor.Close()
}

// Report returns the last refresh.
func (m *StatusModal) Report() session.StatusReport {
	return m.report
}

func (m *StatusModal) cycleSpeed(delta int) {
	current := m.monitor.Interval()
	idx := -1
	for i, d := range session.SpeedChoices {
		if d == current {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
		if delta < 0 {
			delta = 0
		}
	}
	idx += delta
	if idx < 0 || idx >= len(session.SpeedChoices) {
		return
	}
	if err := m.monitor.SetInterval(session.SpeedChoices[idx]); err != nil {
		m.errorMessage = err.Error()
		return
	}
	m.errorMessage = ""
}

func (m *StatusModal) HandleKey(msg tea.KeyMsg) (bool, Modal, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		return true, nil, nil
	case "left", "-":
		m.cycleSpeed(-1)
	case "right", "+":
		m.cycleSpeed(1)
	}
	return true, m, nil
}

func (m *StatusModal) Render(width, height int) string {
	header := lipgloss.NewStyle().Bold(true).Foreground(TextColor)

	var clients string
	switch {
	case !m.loaded:
		clients = HintStyle.Render("Loading...")
	case m.report.Err != nil:
		clients = lipgloss.NewStyle().Foreground(ErrorColor).Render(session.StatusRemoteError)
	case len(m.report.Clients) == 0:
		clients = HintStyle.Render("No clients")
	default:
		rows := []string{header.Render(fmt.Sprintf("%-20s %-20s %s", "Client", "Last poll", "Events"))}
		for _, c := range m.report.Clients {
			rows = append(rows, fmt.Sprintf("%-20s %-20s %d", c.IP, session.FormatAge(c.Time), c.EventCount))
		}
		clients = strings.Join(rows, "\n")
	}

	updated := "never"
	if m.loaded {
		updated = m.report.Updated.Format("15:04:05")
	}

	logLines := 8
	if height > 0 && height < 30 {
		logLines = 3
	}
	requests := m.monitor.Requests()
	if len(requests) > logLines {
		requests = requests[len(requests)-logLines:]
	}
	var log []string
	for _, r := range requests {
		log = append(log, r.Time.Format("15:04:05.000")+" "+r.URL)
	}
	if len(log) == 0 {
		log = append(log, HintStyle.Render("No requests yet"))
	}

	var speeds []string
	current := m.monitor.Interval()
	for _, d := range session.SpeedChoices {
		label := d.String()
		if d == current {
			label = selectedStyle.Render("[" + label + "]")
		}
		speeds = append(speeds, label)
	}

	var errorMsg string
	if m.errorMessage != "" {
		errorMsg = lipgloss.NewStyle().Foreground(ErrorColor).Render(m.errorMessage)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("Status"),
		clients,
		"",
		"Last updated: "+updated,
		"",
		header.Render("Requests"),
		strings.Join(log, "\n"),
		"",
		"Refresh: "+strings.Join(speeds, " "),
		errorMsg,
		HintStyle.MarginTop(1).Render("[←/→] Refresh speed  [Esc] Close"),
	)

	return frame(width, height, 72, content)
}

func (m *StatusModal) IsBlockingInput() bool {
	return true
}
