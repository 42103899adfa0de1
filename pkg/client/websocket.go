package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aeolun/ircweb/pkg/feed"
	"github.com/gorilla/websocket"
	"pkt.systems/pslog"
)

// WSTransport subscribes to the event feed over a WebSocket. Inbound
// messages are event batches; outbound messages are JSON objects.
type WSTransport struct {
	url      string
	clientID string
	dialer   *websocket.Dialer
	logger   pslog.Logger

	reconnectDelay    time.Duration
	maxReconnectDelay time.Duration

	results chan feed.Batch

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	writeMu sync.Mutex
	conn    *websocket.Conn
}

// WSOption configures a WSTransport.
type WSOption func(*WSTransport)

// WithWSLogger sets the logger.
func WithWSLogger(l pslog.Logger) WSOption {
	return func(w *WSTransport) { w.logger = l }
}

// WithInsecureTLS disables certificate verification for wss:// URLs.
func WithInsecureTLS() WSOption {
	return func(w *WSTransport) {
		w.dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
}

// WithReconnectDelay sets the initial and maximum reconnect backoff.
func WithReconnectDelay(initial, max time.Duration) WSOption {
	return func(w *WSTransport) {
		w.reconnectDelay = initial
		w.maxReconnectDelay = max
	}
}

// NewWSTransport creates a push transport for the web interface at baseURL
// (http:// or https://; the matching ws:// or wss:// URL is derived).
func NewWSTransport(baseURL, clientID string, opts ...WSOption) (*WSTransport, error) {
	u, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "https" {
		u.Scheme = "wss"
	} else {
		u.Scheme = "ws"
	}
	u.Path += feed.PathWebSocket

	w := &WSTransport{
		url:      u.String(),
		clientID: clientID,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 5 * time.Second,
			Proxy:            http.ProxyFromEnvironment,
		},
		reconnectDelay:    1 * time.Second,
		maxReconnectDelay: 30 * time.Second,
		results:           make(chan feed.Batch),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = pslog.Ctx(context.Background())
	}
	return w, nil
}

// URL returns the WebSocket URL this transport dials.
func (w *WSTransport) URL() string {
	return w.url
}

// Results delivers inbound batches and connection errors.
func (w *WSTransport) Results() <-chan feed.Batch {
	return w.results
}

// Start connects and keeps the subscription alive until ctx is cancelled or
// Stop is called. A running subscription is stopped first.
func (w *WSTransport) Start(ctx context.Context) {
	w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	w.mu.Lock()
	w.cancel = cancel
	w.done = done
	w.mu.Unlock()

	go w.run(ctx, done)
}

// Stop cancels the subscription and waits for it to exit.
func (w *WSTransport) Stop() {
	w.mu.Lock()
	cancel, done := w.cancel, w.done
	w.cancel, w.done = nil, nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Send writes v as a JSON text message on the current connection.
func (w *WSTransport) Send(v any) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	if w.conn == nil {
		return fmt.Errorf("websocket not connected")
	}
	w.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.conn.WriteJSON(v)
}

func (w *WSTransport) setConn(c *websocket.Conn) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	w.conn = c
}

func (w *WSTransport) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	delay := w.reconnectDelay
	for {
		w.logger.Debug("websocket dialing", "url", w.url)
		conn, _, err := w.dialer.DialContext(ctx, w.url, nil)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Warn("websocket dial failed", "url", w.url, "err", err, "retry_in", delay)
			if !w.deliver(ctx, feed.Batch{Err: fmt.Errorf("dial %s: %w", w.url, err)}) {
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
			delay *= 2
			if delay > w.maxReconnectDelay {
				delay = w.maxReconnectDelay
			}
			continue
		}

		delay = w.reconnectDelay
		w.setConn(conn)
		w.logger.Info("websocket connected", "url", w.url)

		err = w.Send(map[string]string{"type": "subscribe", "clientID": w.clientID})
		if err == nil {
			err = w.readLoop(ctx, conn)
		}
		w.setConn(nil)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		w.logger.Warn("websocket lost", "err", err)
		if !w.deliver(ctx, feed.Batch{Err: err}) {
			return
		}
	}
}

func (w *WSTransport) readLoop(ctx context.Context, conn *websocket.Conn) error {
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		events, err := feed.DecodeBatch(data)
		if err != nil {
			w.logger.Warn("websocket message skipped", "err", err, "preview", preview(data))
			if len(events) == 0 {
				continue
			}
		}
		if !w.deliver(ctx, feed.Batch{Events: events}) {
			return ctx.Err()
		}
	}
}

func (w *WSTransport) deliver(ctx context.Context, b feed.Batch) bool {
	select {
	case w.results <- b:
		return true
	case <-ctx.Done():
		return false
	}
}

func preview(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 80 {
		s = s[:80] + "..."
	}
	return s
}
