package session

import (
	"context"
	"io"
	"testing"

	"github.com/aeolun/ircweb/pkg/client"
	"pkt.systems/pslog"
)

func testLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:    pslog.ModeStructured,
		NoColor: true,
	})
}

// fakeRenderer records the last value of every view element.
type fakeRenderer struct {
	status       string
	title        string
	content      []string
	inputText    string
	caret        int
	nicklist     bool
	inputArea    bool
	setInputs    int
	contentSets  int
	clearContent int
}

func (r *fakeRenderer) SetStatus(text string) { r.status = text }
func (r *fakeRenderer) SetTitle(text string)  { r.title = text }
func (r *fakeRenderer) SetContent(lines []string) {
	r.content = append([]string(nil), lines...)
	r.contentSets++
}
func (r *fakeRenderer) AppendContent(line string) { r.content = append(r.content, line) }
func (r *fakeRenderer) ClearContent() {
	r.content = nil
	r.clearContent++
}
func (r *fakeRenderer) SetInputText(text string) {
	r.inputText = text
	r.setInputs++
}
func (r *fakeRenderer) SetCaret(pos int)           { r.caret = pos }
func (r *fakeRenderer) ShowNicklist(visible bool)  { r.nicklist = visible }
func (r *fakeRenderer) ShowInputArea(visible bool) { r.inputArea = visible }

// queueRunner holds calls until drained.
type queueRunner struct {
	calls []Call
}

func (q *queueRunner) Go(c Call) { q.calls = append(q.calls, c) }

// drain runs queued calls, including ones queued while draining, and hands
// each completion to s.
func (q *queueRunner) drain(s *Session) {
	for len(q.calls) > 0 {
		c := q.calls[0]
		q.calls = q.calls[1:]
		s.Complete(c(context.Background()))
	}
}

type fakeNotifier struct {
	titles []string
	bodies []string
}

func (n *fakeNotifier) Notify(title, body string) error {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
	return nil
}

type fakeOpener struct {
	urls []string
}

func (o *fakeOpener) OpenURL(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

type testEnv struct {
	session   *Session
	transport *client.MockTransport
	state     *client.MockState
	renderer  *fakeRenderer
	runner    *queueRunner
	notifier  *fakeNotifier
	opener    *fakeOpener
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()
	env := &testEnv{
		transport: client.NewMockTransport(),
		state:     client.NewMockState(),
		renderer:  &fakeRenderer{},
		runner:    &queueRunner{},
		notifier:  &fakeNotifier{},
		opener:    &fakeOpener{},
	}
	opts := Options{
		ClientID:  "client-1",
		Transport: env.transport,
		State:     env.state,
		Renderer:  env.renderer,
		Runner:    env.runner,
		Logger:    testLogger(),
		Notifier:  env.notifier,
		Opener:    env.opener,
	}
	for _, m := range mutate {
		m(&opts)
	}
	env.session = New(opts)
	return env
}
