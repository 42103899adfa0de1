// Package session mirrors the window tree, nick list and input box of a web
// IRC client and keeps the mirror in sync with the server's event feed. It
// is independent of any UI toolkit: the view is a Renderer and network
// calls go through a Runner.
package session

import (
	"context"
	"errors"
	"strings"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/markup"
	"pkt.systems/pslog"
)

// TitleSuffix is appended to the active window's title.
const TitleSuffix = " - IRC web interface"

// Status texts for failed requests.
const (
	StatusRemoteError   = "Error while perfoming remote call..."
	StatusUpdateFailure = "An exception occured while updating. Perhaps the client shutdown?"
	statusUnknownPrefix = "Unknown event type: "
	statusOpeningPrefix = "Opening "
	statusOpeningSuffix = "..."
)

// Options configures a Session.
type Options struct {
	ClientID  string
	Transport client.TransportInterface
	State     client.StateInterface
	Renderer  Renderer
	Runner    Runner
	Logger    pslog.Logger
	Metrics   *client.Metrics

	// Scrollback caps buffered lines per window; 0 keeps everything.
	Scrollback int
	// Highlights are words that trigger a notification when they appear in
	// a non-active window.
	Highlights []string
	Notifier   Notifier
	Opener     URLOpener
}

// Session is the client-side state object. It is not safe for concurrent
// use: the owner serialises key handling, dispatch and completions.
type Session struct {
	clientID  string
	transport client.TransportInterface
	state     client.StateInterface
	renderer  Renderer
	runner    Runner
	logger    pslog.Logger
	metrics   *client.Metrics

	registry *Registry
	tree     *Tree
	nicklist *Nicklist
	profiles []string
	speeds   *Speeds

	active string
	// mru holds previously active windows, most recent last.
	mru []string

	highlights []string
	notifier   Notifier
	opener     URLOpener
	status     string
	title      string
}

// New creates a session. Transport, Renderer and Runner are required.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	clientID := opts.ClientID
	if clientID == "" {
		clientID = client.NewClientID()
	}
	var highlights []string
	for _, h := range opts.Highlights {
		if h = strings.TrimSpace(h); h != "" {
			highlights = append(highlights, strings.ToLower(h))
		}
	}
	return &Session{
		clientID:   clientID,
		transport:  opts.Transport,
		state:      opts.State,
		renderer:   opts.Renderer,
		runner:     opts.Runner,
		logger:     logger.With("client", clientID),
		metrics:    opts.Metrics,
		registry:   NewRegistry(opts.Scrollback),
		tree:       NewTree(logger),
		nicklist:   &Nicklist{},
		speeds:     LoadSpeeds(opts.State),
		highlights: highlights,
		notifier:   opts.Notifier,
		opener:     opts.Opener,
	}
}

func (s *Session) ClientID() string     { return s.clientID }
func (s *Session) Tree() *Tree          { return s.tree }
func (s *Session) Nicklist() *Nicklist  { return s.nicklist }
func (s *Session) Registry() *Registry  { return s.registry }
func (s *Session) Speeds() *Speeds      { return s.speeds }
func (s *Session) Active() string       { return s.active }
func (s *Session) Status() string       { return s.status }
func (s *Session) Title() string        { return s.title }
func (s *Session) Logger() pslog.Logger { return s.logger }

// Profiles returns the profile names offered by the new-server dialog.
func (s *Session) Profiles() []string {
	return append([]string(nil), s.profiles...)
}

// ActiveWindow returns the active window, if any.
func (s *Session) ActiveWindow() (*Window, bool) {
	if s.active == "" {
		return nil, false
	}
	w, err := s.registry.Get(s.active)
	return w, err == nil
}

// SetStatus shows plain text in the status bar.
func (s *Session) SetStatus(text string) {
	s.status = markup.Sanitize(text)
	s.renderer.SetStatus(s.status)
}

func (s *Session) setTitle(text string) {
	s.title = markup.Sanitize(text)
	s.renderer.SetTitle(s.title)
}

// issue sends req through the runner; the response batch is dispatched when
// the completion is handed back.
func (s *Session) issue(req feed.Request) {
	transport := s.transport
	s.runner.Go(func(ctx context.Context) Completion {
		events, err := transport.Call(ctx, req)
		return Completion{Path: req.Path, Events: events, Err: err}
	})
}

// Complete applies the outcome of a one-shot request.
func (s *Session) Complete(c Completion) {
	if len(c.Events) > 0 {
		s.Dispatch(c.Events)
	}
	if c.Err != nil {
		s.logger.Warn("request failed", "path", c.Path, "err", c.Err)
		s.reportError(c.Err)
	}
}

// HandleBatch applies one delivery from the update loop or push transport.
func (s *Session) HandleBatch(b feed.Batch) {
	if len(b.Events) > 0 {
		s.Dispatch(b.Events)
	}
	if b.Err != nil {
		s.logger.Warn("update failed", "err", b.Err)
		s.reportError(b.Err)
	}
}

func (s *Session) reportError(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	if errors.Is(err, client.ErrDecode) {
		s.SetStatus(StatusUpdateFailure)
		return
	}
	s.SetStatus(StatusRemoteError)
}
