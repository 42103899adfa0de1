package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestState(t *testing.T) (*State, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state", "ircweb.db")
	s, err := OpenState(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestStateConfig(t *testing.T) {
	s, path := openTestState(t)
	assert.Equal(t, filepath.Dir(path), s.GetStateDir())

	v, err := s.GetConfig("missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.SetConfig("k", "v1"))
	require.NoError(t, s.SetConfig("k", "v2"))
	v, err = s.GetConfig("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestStateSpeedsAndServerForm(t *testing.T) {
	s, path := openTestState(t)

	_, ok := s.GetSpeed("status")
	assert.False(t, ok)

	require.NoError(t, s.SetSpeed("status", 2*time.Second))
	require.NoError(t, s.SetLastServerForm(ServerForm{Server: "irc.example.net", Port: "6697", Profile: "Default"}))
	require.NoError(t, s.Close())

	// survives reopen, migrations are not re-applied
	s2, err := OpenState(path)
	require.NoError(t, err)
	defer s2.Close()

	d, ok := s2.GetSpeed("status")
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, d)
	assert.Equal(t, ServerForm{Server: "irc.example.net", Port: "6697", Profile: "Default"}, s2.GetLastServerForm())

	version, err := s2.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, len(migrations), version)
}

func TestMockStateImplementsInterface(t *testing.T) {
	var _ StateInterface = (*State)(nil)
	var _ StateInterface = NewMockState()
	var _ TransportInterface = (*HTTPTransport)(nil)
	var _ TransportInterface = NewMockTransport()
}
