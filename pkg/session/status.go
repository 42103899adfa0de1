package session

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
)

// maxRequestLog bounds the request log kept while the status dialog is open.
const maxRequestLog = 200

// FormatAge renders an idle time in milliseconds as "N minute(s) ago" once
// it reaches a minute, else "N second(s) ago".
func FormatAge(ms int64) string {
	secs := ms / 1000
	mins := ms / 60000
	if mins > 0 {
		return strconv.FormatInt(mins, 10) + " minute" + plural(mins) + " ago"
	}
	return strconv.FormatInt(secs, 10) + " second" + plural(secs) + " ago"
}

func plural(n int64) string {
	if n != 1 {
		return "s"
	}
	return ""
}

// RequestLogEntry is one request observed while the status dialog is open.
type RequestLogEntry struct {
	URL  string
	Time time.Time
}

// StatusReport is one refresh of the status dialog.
type StatusReport struct {
	Clients []feed.ClientInfo
	Updated time.Time
	Err     error
}

// StatusMonitor backs the status dialog: it queries the client table and,
// while open, records every request URL the transport issues.
type StatusMonitor struct {
	transport client.TransportInterface
	speeds    *Speeds
	now       func() time.Time

	mu       sync.Mutex
	open     bool
	remove   func()
	requests []RequestLogEntry
}

func NewStatusMonitor(t client.TransportInterface, speeds *Speeds) *StatusMonitor {
	return &StatusMonitor{transport: t, speeds: speeds, now: time.Now}
}

// Open starts recording requests. Opening twice is a no-op.
func (m *StatusMonitor) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open {
		return
	}
	m.open = true
	m.requests = nil
	m.remove = m.transport.OnRequest(m.record)
}

// Close stops recording. Reports delivered after Close should be dropped
// by the caller.
func (m *StatusMonitor) Close() {
	m.mu.Lock()
	remove := m.remove
	m.open = false
	m.remove = nil
	m.mu.Unlock()
	if remove != nil {
		remove()
	}
}

func (m *StatusMonitor) IsOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.open
}

func (m *StatusMonitor) record(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.open {
		return
	}
	m.requests = append(m.requests, RequestLogEntry{URL: url, Time: m.now()})
	if len(m.requests) > maxRequestLog {
		m.requests = m.requests[len(m.requests)-maxRequestLog:]
	}
}

// Requests returns the recorded request log, oldest first.
func (m *StatusMonitor) Requests() []RequestLogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RequestLogEntry(nil), m.requests...)
}

// Interval is the delay between refreshes.
func (m *StatusMonitor) Interval() time.Duration {
	return m.speeds.Get(SpeedStatus)
}

// SetInterval changes the refresh delay.
func (m *StatusMonitor) SetInterval(d time.Duration) error {
	return m.speeds.Set(SpeedStatus, d)
}

// Query fetches the client table once.
func (m *StatusMonitor) Query(ctx context.Context) StatusReport {
	clients, err := m.transport.Clients(ctx)
	return StatusReport{Clients: clients, Updated: m.now(), Err: err}
}
