package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPTransportCall(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []*http.Request
		form []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		mu.Lock()
		seen = append(seen, r)
		form = append(form, r.PostForm.Get("input"))
		mu.Unlock()
		switch r.URL.Path {
		case feed.PathWindowRefresh:
			w.Write([]byte(`[{"type":"clearwindow","arg1":"` + r.URL.Query().Get("window") + `"}]`))
		case feed.PathInput:
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	metrics := NewMetrics()
	tr, err := NewHTTPTransport(srv.URL+"/", WithMetrics(metrics))
	require.NoError(t, err)
	assert.Equal(t, srv.URL, tr.BaseURL())

	var urls []string
	remove := tr.OnRequest(func(u string) { urls = append(urls, u) })

	events, err := tr.Call(context.Background(), feed.WindowRefresh("w1"))
	require.NoError(t, err)
	assert.Equal(t, []feed.Event{feed.ClearWindow{WindowID: "w1"}}, events)

	_, err = tr.Call(context.Background(), feed.InputRequest{Input: "hello", ClientID: "c", Window: "w1"}.Request())
	require.NoError(t, err)

	remove()
	_, err = tr.Call(context.Background(), feed.GetProfiles())
	var statusErr *feed.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.False(t, errors.Is(err, ErrDecode))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 3)
	assert.Equal(t, http.MethodGet, seen[0].Method)
	assert.Equal(t, http.MethodPost, seen[1].Method)
	assert.Equal(t, "hello", form[1])

	assert.Len(t, urls, 2, "hook removed before third request")
	assert.Contains(t, urls[0], "/dynamic/windowrefresh?window=w1")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(feed.PathGetProfiles, "404")))
}

func TestHTTPTransportDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"type":"statusbar","arg1":"ok"},{"type":"newchildwindow","arg1":[]}]`))
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)

	events, err := tr.Call(context.Background(), feed.FeedRequest("c"))
	assert.True(t, errors.Is(err, ErrDecode))
	assert.Equal(t, []feed.Event{feed.StatusBar{Text: "ok"}}, events)
}

func TestHTTPTransportClients(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, feed.PathClients, r.URL.Path)
		w.Write([]byte(`[{"ip":"127.0.0.1","time":1700000000000,"eventCount":3}]`))
	}))
	defer srv.Close()

	tr, err := NewHTTPTransport(srv.URL)
	require.NoError(t, err)

	clients, err := tr.Clients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []feed.ClientInfo{{IP: "127.0.0.1", Time: 1700000000000, EventCount: 3}}, clients)
}

func TestHTTPTransportConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	tr, err := NewHTTPTransport(url)
	require.NoError(t, err)

	_, err = tr.Call(context.Background(), feed.FeedRequest("c"))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDecode))
}

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "localhost:8080", want: "http://localhost:8080"},
		{in: "https://irc.example.net/ui/", want: "https://irc.example.net/ui"},
		{in: "ftp://example.net", wantErr: true},
		{in: "", wantErr: true},
		{in: "http://", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := parseBaseURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}
}

func TestNewClientIDUnique(t *testing.T) {
	a, b := NewClientID(), NewClientID()
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}
