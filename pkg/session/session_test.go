package session

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/aeolun/ircweb/pkg/markup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serverWindow(id, name string) feed.NewWindow {
	return feed.NewWindow{Window: feed.WindowInfo{ID: id, Name: name, Type: TypeServer, Title: name}}
}

func channelWindow(parent, id, name string) feed.NewWindow {
	return feed.NewWindow{ParentID: parent, Window: feed.WindowInfo{ID: id, Name: name, Type: TypeChannel, Title: name}}
}

func TestNewWindowThenLine(t *testing.T) {
	env := newTestEnv(t)
	s := env.session

	s.Dispatch([]feed.Event{
		serverWindow("s1", "irc.example.net"),
		feed.LineAdded{WindowID: "s1", Message: "<b>hi</b>"},
	})

	assert.Equal(t, "s1", s.Active())
	w, err := s.Registry().Get("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"<b>hi</b>"}, w.Lines)

	assert.Equal(t, []string{"<b>hi</b>"}, env.renderer.content)
	assert.Equal(t, "irc.example.net"+TitleSuffix, env.renderer.title)
	assert.True(t, env.renderer.inputArea)
	assert.False(t, env.renderer.nicklist)

	refresh := env.transport.SentTo(feed.PathWindowRefresh)
	assert.Empty(t, refresh, "nothing sent before the runner executes")
	env.runner.drain(s)
	refresh = env.transport.SentTo(feed.PathWindowRefresh)
	require.Len(t, refresh, 1)
	assert.Equal(t, "s1", refresh[0].Params.Get("window"))
}

func TestWindowRefreshResponseIsDispatched(t *testing.T) {
	env := newTestEnv(t)
	env.transport.SetResponse(feed.PathWindowRefresh,
		feed.ClearWindow{WindowID: "s1"},
		feed.LineAdded{WindowID: "s1", Message: "backlog 1"},
		feed.LineAdded{WindowID: "s1", Message: "backlog 2"},
	)

	env.session.Dispatch([]feed.Event{serverWindow("s1", "srv")})
	env.runner.drain(env.session)

	w, err := env.session.Registry().Get("s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"backlog 1", "backlog 2"}, w.Lines)
	assert.Equal(t, []string{"backlog 1", "backlog 2"}, env.renderer.content)
}

func TestChannelShowsNicklist(t *testing.T) {
	env := newTestEnv(t)
	env.transport.SetResponse(feed.PathNicklistRefresh,
		feed.ClearNicklist{},
		feed.AddNicklist{Nick: "zed"},
		feed.AddNicklist{Nick: "amy"},
	)
	s := env.session

	s.Dispatch([]feed.Event{serverWindow("s1", "srv"), channelWindow("s1", "c1", "#go")})
	env.runner.drain(s)

	assert.Equal(t, "c1", s.Active())
	assert.True(t, env.renderer.nicklist)
	assert.True(t, s.Nicklist().Visible())
	assert.Equal(t, []string{"zed", "amy"}, s.Nicklist().Nicks())

	sent := env.transport.SentTo(feed.PathNicklistRefresh)
	require.Len(t, sent, 1)
	assert.Equal(t, "c1", sent[0].Params.Get("window"))

	require.NoError(t, s.ShowWindow("s1"))
	assert.False(t, env.renderer.nicklist)
	assert.False(t, s.Nicklist().Visible())
}

func TestInputAreaVisibility(t *testing.T) {
	tests := []struct {
		typ  string
		want bool
	}{
		{TypeServer, true},
		{TypeChannel, true},
		{TypeQuery, true},
		{TypeInput, true},
		{TypeRaw, false},
		{TypeGlobal, false},
		{"window", false},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			env := newTestEnv(t)
			env.session.Dispatch([]feed.Event{feed.NewWindow{Window: feed.WindowInfo{ID: "w", Name: "w", Type: tt.typ}}})
			assert.Equal(t, tt.want, env.renderer.inputArea)
		})
	}
}

func TestLineForInactiveWindow(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{serverWindow("s1", "a"), serverWindow("s2", "b")})
	require.Equal(t, "s2", s.Active())

	sets := env.renderer.contentSets
	s.Dispatch([]feed.Event{
		feed.LineAdded{WindowID: "s1", Message: "quiet"},
		feed.ClearWindow{WindowID: "s1"},
	})
	assert.Equal(t, sets, env.renderer.contentSets)
	assert.Equal(t, 0, env.renderer.clearContent)
	assert.Empty(t, env.renderer.content)

	w, _ := s.Registry().Get("s1")
	assert.Empty(t, w.Lines)
	assert.Equal(t, 1, w.Unread)

	require.NoError(t, s.ShowWindow("s1"))
	assert.Equal(t, 0, w.Unread)
}

func TestClearActiveWindow(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		serverWindow("s1", "a"),
		feed.LineAdded{WindowID: "s1", Message: "x"},
		feed.ClearWindow{WindowID: "s1"},
	})
	assert.Equal(t, 1, env.renderer.clearContent)
	assert.Empty(t, env.renderer.content)
}

func TestScrollbackTrim(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.Scrollback = 2 })
	s := env.session
	s.Dispatch([]feed.Event{serverWindow("s1", "a")})
	for i := 0; i < 4; i++ {
		s.Dispatch([]feed.Event{feed.LineAdded{WindowID: "s1", Message: fmt.Sprint(i)}})
	}
	w, _ := s.Registry().Get("s1")
	assert.Equal(t, []string{"2", "3"}, w.Lines)
	assert.Equal(t, []string{"2", "3"}, env.renderer.content)
}

func TestSimpleEvents(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		feed.StatusBar{Text: "\x1b[1mconnected\x1b[0m"},
		feed.SetText{Text: "/join"},
		feed.SetCaret{Position: 3},
		feed.ClearProfiles{},
		feed.AddProfile{Name: "Default"},
		feed.AddProfile{Name: "Work"},
	})
	assert.Equal(t, "connected", env.renderer.status)
	assert.Equal(t, "/join", env.renderer.inputText)
	assert.Equal(t, 3, env.renderer.caret)
	assert.Equal(t, []string{"Default", "Work"}, s.Profiles())

	s.Dispatch([]feed.Event{feed.ClearProfiles{}})
	assert.Empty(t, s.Profiles())
}

func TestUnknownEventSetsStatus(t *testing.T) {
	env := newTestEnv(t)
	env.session.Dispatch([]feed.Event{feed.Unknown{Type: "bogus"}, feed.StatusBar{Text: "after"}})
	assert.Equal(t, "after", env.renderer.status)

	env.session.Dispatch([]feed.Event{feed.Unknown{Type: "bogus"}})
	assert.Equal(t, "Unknown event type: bogus", env.renderer.status)
}

func TestEventsForMissingWindowAreSkipped(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		feed.LineAdded{WindowID: "ghost", Message: "boo"},
		feed.ClearWindow{WindowID: "ghost"},
		feed.CloseWindow{WindowID: "ghost"},
		feed.StatusBar{Text: "still running"},
	})
	assert.Equal(t, 0, s.Registry().Len())
	assert.Equal(t, "still running", env.renderer.status)
}

func TestCloseWindowDoesNotResurrect(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{serverWindow("s1", "a"), feed.CloseWindow{WindowID: "s1"}})

	_, err := s.Registry().Get("s1")
	assert.True(t, errors.Is(err, ErrWindowNotFound))

	s.Dispatch([]feed.Event{
		feed.ClearWindow{WindowID: "s1"},
		feed.LineAdded{WindowID: "s1", Message: "late"},
	})
	assert.False(t, s.Registry().Has("s1"))
	assert.False(t, s.Tree().Contains("s1"))
}

func TestCloseFallsBackToParent(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		serverWindow("s1", "srv"),
		serverWindow("s2", "other"),
		channelWindow("s1", "c1", "#go"),
	})
	require.Equal(t, "c1", s.Active())

	require.NoError(t, s.CloseWindow("c1"))
	assert.Equal(t, "s1", s.Active())
	assert.Equal(t, "srv"+TitleSuffix, env.renderer.title)
}

func TestCloseFallsBackToMostRecent(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		serverWindow("s1", "a"),
		serverWindow("s2", "b"),
		serverWindow("s3", "c"),
	})
	require.NoError(t, s.ShowWindow("s1"))
	require.NoError(t, s.ShowWindow("s3"))

	// focus history is now s2, s1
	require.NoError(t, s.CloseWindow("s3"))
	assert.Equal(t, "s1", s.Active())
}

func TestCloseLastWindowResetsView(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		serverWindow("s1", "srv"),
		channelWindow("s1", "c1", "#go"),
		feed.LineAdded{WindowID: "c1", Message: "x"},
	})
	require.NoError(t, s.CloseWindow("s1"))

	assert.Equal(t, "", s.Active())
	assert.Equal(t, 0, s.Registry().Len())
	assert.Empty(t, env.renderer.content)
	assert.Equal(t, "", env.renderer.title)
	assert.False(t, env.renderer.nicklist)
	assert.False(t, env.renderer.inputArea)
	_, ok := s.ActiveWindow()
	assert.False(t, ok)
}

func TestCloseInactiveKeepsFocus(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{serverWindow("s1", "a"), serverWindow("s2", "b")})
	require.NoError(t, s.CloseWindow("s1"))
	assert.Equal(t, "s2", s.Active())
	assert.True(t, errors.Is(s.CloseWindow("s1"), ErrWindowNotFound))
}

func TestCompletionErrors(t *testing.T) {
	env := newTestEnv(t)
	s := env.session

	s.Complete(Completion{Path: feed.PathInput, Err: &feed.StatusError{Path: feed.PathInput, Code: 500}})
	assert.Equal(t, StatusRemoteError, env.renderer.status)

	s.HandleBatch(feed.Batch{Err: fmt.Errorf("%w: bad json", client.ErrDecode)})
	assert.Equal(t, StatusUpdateFailure, env.renderer.status)

	s.HandleBatch(feed.Batch{Events: []feed.Event{feed.StatusBar{Text: "ok"}}})
	assert.Equal(t, "ok", env.renderer.status)
}

func TestHighlightNotification(t *testing.T) {
	env := newTestEnv(t, func(o *Options) { o.Highlights = []string{" Alice ", ""} })
	s := env.session
	s.Dispatch([]feed.Event{serverWindow("s1", "srv"), channelWindow("s1", "c1", "#go")})
	require.NoError(t, s.ShowWindow("s1"))

	s.Dispatch([]feed.Event{
		feed.LineAdded{WindowID: "c1", Message: "<b>bob</b> hey ALICE"},
		feed.LineAdded{WindowID: "c1", Message: "nothing here"},
		feed.LineAdded{WindowID: "s1", Message: "alice in active window"},
	})
	assert.Equal(t, []string{"#go"}, env.notifier.titles)
	assert.Equal(t, []string{"bob hey ALICE"}, env.notifier.bodies)
}

func TestLinks(t *testing.T) {
	env := newTestEnv(t)
	s := env.session
	s.Dispatch([]feed.Event{
		serverWindow("s1", "srv"),
		feed.LineAdded{WindowID: "s1", Message: `<span onClick="link_hyperlink('http://a');">a</span>`},
		feed.LineAdded{WindowID: "s1", Message: `<span onClick="link_channel('#go');">#go</span> <span onClick="link_hyperlink('http://a');">a</span>`},
	})

	links := s.Links()
	assert.Equal(t, []markup.Link{
		{Kind: markup.LinkChannel, Target: "#go"},
		{Kind: markup.LinkHyperlink, Target: "http://a"},
	}, links)

	require.NoError(t, s.ActivateLink(markup.Link{Kind: markup.LinkHyperlink, Target: "http://a"}))
	assert.Equal(t, "Opening http://a...", env.renderer.status)
	assert.Equal(t, []string{"http://a"}, env.opener.urls)

	require.NoError(t, s.ActivateLink(markup.Link{Kind: markup.LinkChannel, Target: "#go"}))
	require.NoError(t, s.ActivateLink(markup.Link{Kind: markup.LinkQuery, Target: "bob"}))
	env.runner.drain(s)

	join := env.transport.SentTo(feed.PathJoinChannel)
	require.Len(t, join, 1)
	assert.Equal(t, "#go", join[0].Params.Get("channel"))
	assert.Equal(t, "s1", join[0].Params.Get("source"))
	assert.Equal(t, "client-1", join[0].Params.Get("clientID"))

	query := env.transport.SentTo(feed.PathOpenQuery)
	require.Len(t, query, 1)
	assert.Equal(t, "bob", query[0].Params.Get("target"))
}

func TestRepeatedNewWindowKeepsBuffer(t *testing.T) {
	env := newTestEnv(t)
	s := env.session

	s.Dispatch([]feed.Event{
		serverWindow("s1", "old.example.net"),
		feed.LineAdded{WindowID: "s1", Message: "kept"},
		serverWindow("s1", "new.example.net"),
	})

	w, err := s.Registry().Get("s1")
	require.NoError(t, err)
	assert.Equal(t, "new.example.net", w.Name)
	assert.Equal(t, []string{"kept"}, w.Lines)
	assert.Equal(t, 1, s.Registry().Len())
	assert.Len(t, s.Tree().Flatten(), 1)
	assert.Equal(t, "new.example.net"+TitleSuffix, env.renderer.title)
}
