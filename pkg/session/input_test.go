package session

import (
	"testing"

	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeEnv(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.session.Dispatch([]feed.Event{serverWindow("s1", "srv")})
	env.runner.drain(env.session)
	env.transport.ClearSent()
	return env
}

func TestEnterSubmitsInput(t *testing.T) {
	env := activeEnv(t)
	s := env.session

	allow := s.HandleKey(Key{Code: KeyEnter}, InputState{Text: "hello"})
	assert.True(t, allow)
	assert.Equal(t, "", env.renderer.inputText)
	assert.Equal(t, 1, env.renderer.setInputs)

	env.runner.drain(s)
	require.Len(t, env.transport.Sent, 1)
	req := env.transport.Sent[0]
	assert.Equal(t, feed.PathInput, req.Path)
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "hello", req.Params.Get("input"))
	assert.Equal(t, "client-1", req.Params.Get("clientID"))
	assert.Equal(t, "s1", req.Params.Get("window"))
}

func TestTabRequestsCompletion(t *testing.T) {
	env := activeEnv(t)
	s := env.session

	allow := s.HandleKey(Key{Code: KeyTab}, InputState{Text: "/jo", SelStart: 3, SelEnd: 3})
	assert.False(t, allow)
	assert.Equal(t, 0, env.renderer.setInputs)

	env.runner.drain(s)
	require.Len(t, env.transport.Sent, 1)
	req := env.transport.Sent[0]
	assert.Equal(t, feed.PathTab, req.Path)
	assert.Equal(t, "/jo", req.Params.Get("input"))
	assert.Equal(t, "3", req.Params.Get("selstart"))
	assert.Equal(t, "3", req.Params.Get("selend"))
	assert.Equal(t, "s1", req.Params.Get("window"))
}

func TestKeyRouting(t *testing.T) {
	tests := []struct {
		name     string
		key      Key
		wantPath string
		allow    bool
	}{
		{"up", Key{Code: KeyUp}, feed.PathKeyUp, false},
		{"down", Key{Code: KeyDown}, feed.PathKeyDown, false},
		{"ctrl up still history", Key{Code: KeyUp, Ctrl: true}, feed.PathKeyUp, false},
		{"shift down still history", Key{Code: KeyDown, Shift: true}, feed.PathKeyDown, false},
		{"ctrl enter", Key{Code: KeyEnter, Ctrl: true}, feed.PathKey, false},
		{"ctrl linefeed", Key{Code: KeyLineFeed, Ctrl: true}, feed.PathKey, false},
		{"ctrl b", Key{Code: 'B', Ctrl: true}, feed.PathKey, false},
		{"ctrl f", Key{Code: 'F', Ctrl: true}, feed.PathKey, false},
		{"ctrl i", Key{Code: 'I', Ctrl: true}, feed.PathKey, false},
		{"ctrl k", Key{Code: 'K', Ctrl: true}, feed.PathKey, false},
		{"ctrl o", Key{Code: 'O', Ctrl: true}, feed.PathKey, false},
		{"ctrl u", Key{Code: 'U', Ctrl: true}, feed.PathKey, false},
		{"ctrl tab", Key{Code: KeyTab, Ctrl: true}, "", true},
		{"ctrl a", Key{Code: 'A', Ctrl: true}, "", true},
		{"plain b", Key{Code: 'B'}, "", true},
		{"letter", Key{Code: 'x'}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := activeEnv(t)
			allow := env.session.HandleKey(tt.key, InputState{Text: "abc", SelStart: 1, SelEnd: 2})
			assert.Equal(t, tt.allow, allow)

			env.runner.drain(env.session)
			if tt.wantPath == "" {
				assert.Empty(t, env.transport.Sent)
				return
			}
			require.Len(t, env.transport.Sent, 1)
			assert.Equal(t, tt.wantPath, env.transport.Sent[0].Path)
		})
	}
}

func TestCtrlKeyParams(t *testing.T) {
	env := activeEnv(t)
	env.session.HandleKey(Key{Code: KeyEnter, Ctrl: true, Shift: true}, InputState{Text: "t", SelStart: 0, SelEnd: 1})
	env.runner.drain(env.session)

	require.Len(t, env.transport.Sent, 1)
	p := env.transport.Sent[0].Params
	assert.Equal(t, "10", p.Get("key"))
	assert.Equal(t, "true", p.Get("ctrl"))
	assert.Equal(t, "true", p.Get("shift"))
	assert.Equal(t, "false", p.Get("alt"))
	assert.Equal(t, "t", p.Get("input"))
	assert.Equal(t, "1", p.Get("selend"))
}

func TestNewServerDialog(t *testing.T) {
	tests := []struct {
		name    string
		form    NewServerForm
		wantErr error
	}{
		{"space in server", NewServerForm{Server: "my server", Port: "6667"}, feed.ErrInvalidServer},
		{"port too large", NewServerForm{Server: "irc.example.net", Port: "70000"}, feed.ErrInvalidPort},
		{"valid", NewServerForm{Server: "irc.example.net", Port: "6667", Password: "pw", Profile: "Default"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			err := env.session.SubmitNewServer(tt.form)
			env.runner.drain(env.session)

			sent := env.transport.SentTo(feed.PathNewServer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, sent)
				return
			}
			require.NoError(t, err)
			require.Len(t, sent, 1)
			assert.Equal(t, "irc.example.net", sent[0].Params.Get("server"))
			assert.Equal(t, "6667", sent[0].Params.Get("port"))
			assert.Equal(t, "pw", sent[0].Params.Get("password"))
			assert.Equal(t, "Default", sent[0].Params.Get("profile"))
		})
	}
}

func TestNewServerRemembersForm(t *testing.T) {
	env := newTestEnv(t)
	env.transport.SetResponse(feed.PathGetProfiles, feed.ClearProfiles{}, feed.AddProfile{Name: "Default"})

	form := env.session.OpenNewServer()
	assert.Equal(t, NewServerForm{}, form)
	env.runner.drain(env.session)
	assert.Equal(t, []string{"Default"}, env.session.Profiles())

	require.NoError(t, env.session.SubmitNewServer(NewServerForm{Server: "irc.example.net", Port: "6697", Password: "secret", Profile: "Default"}))

	form = env.session.OpenNewServer()
	assert.Equal(t, NewServerForm{Server: "irc.example.net", Port: "6697", Profile: "Default"}, form)
	for key, v := range env.state.GetAllConfig() {
		assert.NotEqual(t, "secret", v, key)
	}
}
