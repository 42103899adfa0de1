package session

import (
	"context"
	"sync"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/feed"
	"pkt.systems/pslog"
)

// Source delivers event batches until stopped. The long-poll Poller and the
// WebSocket transport both implement it.
type Source interface {
	Start(ctx context.Context)
	Stop()
	Results() <-chan feed.Batch
}

var (
	_ Source = (*Poller)(nil)
	_ Source = (*client.WSTransport)(nil)
)

// Poller is the update loop: it requests the feed, delivers the result and
// immediately requests again, whether the previous request succeeded or
// not. At most one feed request is outstanding.
type Poller struct {
	transport client.TransportInterface
	clientID  string
	logger    pslog.Logger

	results chan feed.Batch

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(t client.TransportInterface, clientID string, logger pslog.Logger) *Poller {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Poller{
		transport: t,
		clientID:  clientID,
		logger:    logger,
		results:   make(chan feed.Batch),
	}
}

// Results delivers one batch per completed feed request. The next request
// is only issued after the batch has been received.
func (p *Poller) Results() <-chan feed.Batch {
	return p.results
}

// Start begins polling. A loop that is already running is cancelled and
// waited for first, so restarting never overlaps two requests.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done
	go p.loop(ctx, done)
}

// Stop cancels the loop and waits for it to exit.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
	p.cancel, p.done = nil, nil
}

// Running reports whether a loop is active.
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancel != nil
}

func (p *Poller) loop(ctx context.Context, done chan struct{}) {
	defer close(done)
	p.logger.Debug("update loop started")
	defer p.logger.Debug("update loop stopped")

	req := feed.FeedRequest(p.clientID)
	for {
		events, err := p.transport.Call(ctx, req)
		if ctx.Err() != nil {
			return
		}
		select {
		case p.results <- feed.Batch{Events: events, Err: err}:
		case <-ctx.Done():
			return
		}
	}
}
