package ui

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	tea "github.com/charmbracelet/bubbletea"
	"pkt.systems/pslog"
)

// fakeSource is a feed source driven by the test.
type fakeSource struct {
	ch      chan feed.Batch
	started int
	stopped int
}

func newFakeSource() *fakeSource {
	return &fakeSource{ch: make(chan feed.Batch)}
}

func (f *fakeSource) Start(ctx context.Context)     { f.started++ }
func (f *fakeSource) Stop()                         { f.stopped++ }
func (f *fakeSource) Results() <-chan feed.Batch    { return f.ch }

type recordingNotifier struct {
	titles []string
}

func (n *recordingNotifier) Notify(title, body string) error {
	n.titles = append(n.titles, title)
	return nil
}

type recordingOpener struct {
	urls []string
}

func (o *recordingOpener) OpenURL(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type testDeps struct {
	transport *client.MockTransport
	state     *client.MockState
	source    *fakeSource
	notifier  *recordingNotifier
	opener    *recordingOpener
}

// NewTestModel creates a Model with mock dependencies for testing
func NewTestModel() (Model, *testDeps) {
	deps := &testDeps{
		transport: client.NewMockTransport(),
		state:     client.NewMockState(),
		source:    newFakeSource(),
		notifier:  &recordingNotifier{},
		opener:    &recordingOpener{},
	}
	m := NewModel(Config{
		ClientID:  "client-1",
		Transport: deps.transport,
		State:     deps.state,
		Source:    deps.source,
		Logger: pslog.NewWithOptions(io.Discard, pslog.Options{
			Mode:    pslog.ModeStructured,
			NoColor: true,
		}),
		Highlights: []string{"alice"},
		Notifier:   deps.notifier,
		Opener:     deps.opener,
	})
	return m, deps
}

// SetupTestModelWithDimensions creates a test model with window dimensions set
func SetupTestModelWithDimensions(width, height int) (Model, *testDeps) {
	m, deps := NewTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model), deps
}

// collect runs cmd and returns the messages it produced within wait.
// Commands that block longer (blink timers, feed listeners) are abandoned.
func collect(cmd tea.Cmd, wait time.Duration) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(wait):
		return nil
	}

	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var (
		mu  sync.Mutex
		out []tea.Msg
		wg  sync.WaitGroup
	)
	for _, c := range batch {
		wg.Add(1)
		go func(c tea.Cmd) {
			defer wg.Done()
			msgs := collect(c, wait)
			mu.Lock()
			out = append(out, msgs...)
			mu.Unlock()
		}(c)
	}
	wg.Wait()
	return out
}

// settle feeds request completions produced by cmd back into the model
// until no requests are outstanding.
func settle(m Model, cmd tea.Cmd) Model {
	for cmd != nil {
		var next []tea.Cmd
		for _, msg := range collect(cmd, 50*time.Millisecond) {
			switch msg.(type) {
			case completionMsg, showErrorMsg:
				updated, c := m.Update(msg)
				m = updated.(Model)
				next = append(next, c)
			}
		}
		if len(next) == 0 {
			break
		}
		cmd = tea.Batch(next...)
	}
	return m
}

// send applies msg and settles the resulting requests.
func send(m Model, msg tea.Msg) Model {
	updated, cmd := m.Update(msg)
	return settle(updated.(Model), cmd)
}

func serverWindow(id, name string) feed.NewWindow {
	return feed.NewWindow{Window: feed.WindowInfo{ID: id, Name: name, Type: "server"}}
}
