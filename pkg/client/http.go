package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/aeolun/ircweb/pkg/feed"
	"pkt.systems/pslog"
)

// ErrDecode wraps failures to interpret a response that arrived intact.
var ErrDecode = errors.New("decode response")

// maxBodySize bounds a single response body.
const maxBodySize = 8 << 20

// HTTPTransport issues requests against the /dynamic endpoints.
type HTTPTransport struct {
	base    *url.URL
	http    *http.Client
	logger  pslog.Logger
	metrics *Metrics

	mu       sync.RWMutex
	hooks    map[int]func(string)
	nextHook int
}

// HTTPOption configures an HTTPTransport.
type HTTPOption func(*HTTPTransport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(t *HTTPTransport) { t.http = c }
}

// WithLogger sets the logger for request tracing.
func WithLogger(l pslog.Logger) HTTPOption {
	return func(t *HTTPTransport) { t.logger = l }
}

// WithMetrics records request metrics.
func WithMetrics(m *Metrics) HTTPOption {
	return func(t *HTTPTransport) { t.metrics = m }
}

// NewHTTPTransport creates a transport for the web interface at baseURL.
func NewHTTPTransport(baseURL string, opts ...HTTPOption) (*HTTPTransport, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	t := &HTTPTransport{
		base:  u,
		http:  &http.Client{},
		hooks: make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = pslog.Ctx(context.Background())
	}
	return t, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty server url")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url scheme %q (want http or https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func (t *HTTPTransport) BaseURL() string {
	return t.base.String()
}

func (t *HTTPTransport) OnRequest(fn func(url string)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := t.nextHook
	t.nextHook++
	t.hooks[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.hooks, id)
	}
}

func (t *HTTPTransport) notify(u string) {
	t.mu.RLock()
	hooks := make([]func(string), 0, len(t.hooks))
	for _, fn := range t.hooks {
		hooks = append(hooks, fn)
	}
	t.mu.RUnlock()
	for _, fn := range hooks {
		fn(u)
	}
}

// Call issues req and decodes the response as an event batch. Transport
// failures and non-2xx responses are returned as is (the latter as
// *feed.StatusError); body decoding failures wrap ErrDecode and may be
// accompanied by the records that did decode.
func (t *HTTPTransport) Call(ctx context.Context, req feed.Request) ([]feed.Event, error) {
	body, err := t.do(ctx, req)
	if err != nil {
		return nil, err
	}
	events, err := feed.DecodeBatch(body)
	if err != nil {
		return events, fmt.Errorf("%w: %s: %w", ErrDecode, req.Path, err)
	}
	return events, nil
}

// Clients fetches the connected-clients table.
func (t *HTTPTransport) Clients(ctx context.Context) ([]feed.ClientInfo, error) {
	body, err := t.do(ctx, feed.Clients())
	if err != nil {
		return nil, err
	}
	var clients []feed.ClientInfo
	if err := json.Unmarshal(body, &clients); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecode, feed.PathClients, err)
	}
	return clients, nil
}

func (t *HTTPTransport) do(ctx context.Context, req feed.Request) ([]byte, error) {
	u := *t.base
	u.Path = t.base.Path + req.Path

	var (
		httpReq *http.Request
		err     error
	)
	if req.Method == http.MethodPost {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, u.String(), strings.NewReader(req.Params.Encode()))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		u.RawQuery = req.Params.Encode()
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", req.Path, err)
	}
	httpReq.Header.Set("Accept", "application/json")

	t.notify(u.String())
	if req.Path == feed.PathFeed {
		t.metrics.FeedStarted()
		defer t.metrics.FeedDone()
	}

	start := time.Now()
	resp, err := t.http.Do(httpReq)
	if err != nil {
		t.metrics.ObserveRequest(req.Path, 0, time.Since(start))
		t.logger.Debug("request failed", "path", req.Path, "err", err)
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	t.metrics.ObserveRequest(req.Path, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.logger.Warn("request rejected", "path", req.Path, "status", resp.StatusCode)
		return nil, &feed.StatusError{Path: req.Path, Code: resp.StatusCode, Body: string(body)}
	}
	t.logger.Debug("request done", "path", req.Path, "status", resp.StatusCode, "bytes", len(body))
	return body, nil
}
