package ui

import (
	"context"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/client/ui/modal"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/session"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"pkt.systems/pslog"
)

// Config wires a Model to its collaborators.
type Config struct {
	Ctx       context.Context
	ClientID  string
	Transport client.TransportInterface
	State     client.StateInterface
	// Source delivers feed batches; nil polls through Transport.
	Source     session.Source
	Logger     pslog.Logger
	Metrics    *client.Metrics
	Scrollback int
	Highlights []string
	// Notifier is used for highlights; nil disables notifications.
	Notifier session.Notifier
	Opener   session.URLOpener
}

// Model is the terminal front end. It owns the session: every session call
// happens inside Update.
type Model struct {
	ctx     context.Context
	sess    *session.Session
	screen  *screen
	runner  *teaRunner
	source  session.Source
	monitor *session.StatusMonitor
	logger  pslog.Logger

	modalStack modal.ModalStack
	content    viewport.Model
	input      textarea.Model

	width  int
	height int

	// flash is a short-lived UI message shown over the status bar
	flash        string
	flashVersion uint64
}

// NewModel creates the model and its session.
func NewModel(cfg Config) Model {
	ctx := cfg.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = pslog.Ctx(ctx)
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = client.NewClientID()
	}

	scr := &screen{}
	runner := &teaRunner{ctx: ctx}
	sess := session.New(session.Options{
		ClientID:   clientID,
		Transport:  cfg.Transport,
		State:      cfg.State,
		Renderer:   scr,
		Runner:     runner,
		Logger:     logger,
		Metrics:    cfg.Metrics,
		Scrollback: cfg.Scrollback,
		Highlights: cfg.Highlights,
		Notifier:   cfg.Notifier,
		Opener:     cfg.Opener,
	})

	source := cfg.Source
	if source == nil {
		source = session.NewPoller(cfg.Transport, clientID, logger)
	}

	ta := textarea.New()
	ta.Placeholder = "Type a message or /command..."
	ta.Prompt = "> "
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.KeyMap.InsertNewline.SetEnabled(false) // Enter submits

	return Model{
		ctx:     ctx,
		sess:    sess,
		screen:  scr,
		runner:  runner,
		source:  source,
		monitor: session.NewStatusMonitor(cfg.Transport, sess.Speeds()),
		logger:  logger,
		content: viewport.New(80, 20),
		input:   ta,
	}
}

// Session exposes the underlying session.
func (m Model) Session() *session.Session {
	return m.sess
}

// batchMsg is one delivery from the update loop or push transport
type batchMsg feed.Batch

// completionMsg is the outcome of a one-shot request
type completionMsg session.Completion

// showErrorMsg opens an error dialog
type showErrorMsg struct {
	Title   string
	Message string
}

// ClearFlashMsg clears the flash message after a timeout
type ClearFlashMsg struct {
	Version uint64 // Only clear if this matches current flashVersion
}

func (m Model) Init() tea.Cmd {
	m.source.Start(m.ctx)
	return tea.Batch(
		listenForBatches(m.source),
		textarea.Blink,
	)
}

// listenForBatches waits for the next feed delivery.
func listenForBatches(src session.Source) tea.Cmd {
	return func() tea.Msg {
		b, ok := <-src.Results()
		if !ok {
			return nil
		}
		return batchMsg(b)
	}
}

// teaRunner turns session calls into tea commands. Calls queue up during an
// Update and are released by flush.
type teaRunner struct {
	ctx     context.Context
	pending []session.Call
}

func (r *teaRunner) Go(c session.Call) {
	r.pending = append(r.pending, c)
}

func (r *teaRunner) flush() tea.Cmd {
	if len(r.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(r.pending))
	for i, c := range r.pending {
		cmds[i] = func() tea.Msg {
			return completionMsg(c(r.ctx))
		}
	}
	r.pending = nil
	return tea.Batch(cmds...)
}

// screen records what the session wants shown. The model applies the
// changes to its widgets after each session call.
type screen struct {
	status string
	title  string
	lines  []string

	contentDirty bool
	// replaced is set when the content was swapped rather than appended to
	replaced bool
	titleDirty bool

	inputText  string
	inputDirty bool
	caret      int
	caretDirty bool

	nicklist    bool
	inputArea   bool
	layoutDirty bool
}

var _ session.Renderer = (*screen)(nil)

func (s *screen) SetStatus(text string) { s.status = text }

func (s *screen) SetTitle(text string) {
	s.title = text
	s.titleDirty = true
}

func (s *screen) SetContent(lines []string) {
	s.lines = append([]string(nil), lines...)
	s.contentDirty = true
	s.replaced = true
}

func (s *screen) AppendContent(line string) {
	s.lines = append(s.lines, line)
	s.contentDirty = true
}

func (s *screen) ClearContent() {
	s.lines = nil
	s.contentDirty = true
	s.replaced = true
}

func (s *screen) SetInputText(text string) {
	s.inputText = text
	s.inputDirty = true
}

func (s *screen) SetCaret(pos int) {
	s.caret = pos
	s.caretDirty = true
}

func (s *screen) ShowNicklist(visible bool) {
	if s.nicklist != visible {
		s.nicklist = visible
		s.layoutDirty = true
	}
}

func (s *screen) ShowInputArea(visible bool) {
	if s.inputArea != visible {
		s.inputArea = visible
		s.layoutDirty = true
	}
}
