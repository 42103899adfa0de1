package client

import (
	"context"
	"sync"

	"github.com/aeolun/ircweb/pkg/feed"
)

// MockTransport is a test implementation of TransportInterface. Responses are
// keyed by endpoint path; every call is recorded in Sent.
type MockTransport struct {
	mu sync.RWMutex

	responses map[string][]feed.Event
	errs      map[string]error
	clients   []feed.ClientInfo
	hooks     map[int]func(string)
	nextHook  int

	// Sent requests for verification
	Sent []feed.Request
}

// NewMockTransport creates a new mock transport
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string][]feed.Event),
		errs:      make(map[string]error),
		hooks:     make(map[int]func(string)),
	}
}

// Call records req and returns the canned response for its path
func (m *MockTransport) Call(ctx context.Context, req feed.Request) ([]feed.Event, error) {
	m.mu.Lock()
	m.Sent = append(m.Sent, req)
	hooks := make([]func(string), 0, len(m.hooks))
	for _, fn := range m.hooks {
		hooks = append(hooks, fn)
	}
	events, err := m.responses[req.Path], m.errs[req.Path]
	m.mu.Unlock()

	for _, fn := range hooks {
		fn(m.BaseURL() + req.Path)
	}
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Clients returns the canned client table
func (m *MockTransport) Clients(ctx context.Context) ([]feed.ClientInfo, error) {
	_, err := m.Call(ctx, feed.Clients())
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]feed.ClientInfo(nil), m.clients...), nil
}

func (m *MockTransport) OnRequest(fn func(url string)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextHook
	m.nextHook++
	m.hooks[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.hooks, id)
	}
}

func (m *MockTransport) BaseURL() string {
	return "http://mock"
}

// Test helper methods

// SetResponse sets the events returned for calls to path
func (m *MockTransport) SetResponse(path string, events ...feed.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = events
}

// SetError sets an error to return for calls to path
func (m *MockTransport) SetError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[path] = err
}

// SetClients sets the client table
func (m *MockTransport) SetClients(clients []feed.ClientInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients = clients
}

// SentTo returns the recorded requests for path
func (m *MockTransport) SentTo(path string) []feed.Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []feed.Request
	for _, r := range m.Sent {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// ClearSent clears the recorded requests
func (m *MockTransport) ClearSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = nil
}
