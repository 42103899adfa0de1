package client

import (
	"context"
	"time"

	"github.com/aeolun/ircweb/pkg/feed"
)

// TransportInterface defines the one-shot calls the session makes against the
// web interface. This allows for mocking in tests while HTTPTransport
// implements all these methods.
type TransportInterface interface {
	// Call issues req and decodes the response body as an event batch.
	Call(ctx context.Context, req feed.Request) ([]feed.Event, error)

	// Clients fetches the connected-clients table.
	Clients(ctx context.Context) ([]feed.ClientInfo, error)

	// OnRequest registers a hook that receives the URL of every request
	// issued from now on. The returned func unregisters it.
	OnRequest(fn func(url string)) (remove func())

	// BaseURL returns the server base URL without a trailing slash.
	BaseURL() string
}

// StateInterface defines the interface for client state persistence
// This allows for mocking in tests while the real State implements all these methods
type StateInterface interface {
	// Configuration
	GetConfig(key string) (string, error)
	SetConfig(key, value string) error

	// Update loop speeds, by subsystem name
	GetSpeed(name string) (time.Duration, bool)
	SetSpeed(name string, d time.Duration) error

	// New-server dialog values
	GetLastServerForm() ServerForm
	SetLastServerForm(form ServerForm) error

	// State directory
	GetStateDir() string

	// Close the state
	Close() error
}

// ServerForm holds the remembered new-server dialog fields. The password
// is never stored.
type ServerForm struct {
	Server  string
	Port    string
	Profile string
}
