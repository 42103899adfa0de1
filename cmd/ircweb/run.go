package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aeolun/ircweb/pkg/client"
	"github.com/aeolun/ircweb/pkg/client/ui"
	"github.com/aeolun/ircweb/pkg/config"
	"github.com/aeolun/ircweb/pkg/session"
	"pkt.systems/pslog"
)

// runTUI runs the terminal client until the user quits.
func runTUI(ctx context.Context, cfg config.Config) error {
	logFile, err := openLogFile(cfg.Client.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	// the terminal belongs to the UI from here on
	logger := pslog.LoggerFromEnv(
		pslog.WithEnvWriter(logFile),
		pslog.WithEnvOptions(pslog.Options{Mode: pslog.ModeStructured, NoColor: true}),
	)
	ctx = pslog.ContextWithLogger(ctx, logger)
	log.SetOutput(pslog.LogLogger(logger).Writer())

	statePath, err := config.ExpandPath(cfg.Client.StatePath)
	if err != nil {
		return err
	}
	state, err := client.OpenState(statePath)
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer state.Close()

	metrics := client.NewMetrics()
	if cfg.Metrics.Addr != "" {
		stop := serveMetrics(ctx, cfg.Metrics.Addr, metrics)
		defer stop()
	}

	clientID := client.NewClientID()
	transport, source, err := newTransports(ctx, cfg, clientID, metrics)
	if err != nil {
		return err
	}
	defer source.Stop()

	var notifier session.Notifier
	if cfg.Client.Notify {
		notifier = ui.DesktopNotifier{}
	}

	logger.Info("client starting",
		"version", Version,
		"server", cfg.Server.URL,
		"transport", cfg.Server.Transport,
		"client_id", clientID,
	)

	model := ui.NewModel(ui.Config{
		Ctx:        ctx,
		ClientID:   clientID,
		Transport:  transport,
		State:      state,
		Source:     source,
		Logger:     logger,
		Metrics:    metrics,
		Scrollback: cfg.Client.Scrollback,
		Highlights: cfg.Client.Highlight,
		Notifier:   notifier,
		Opener:     ui.BrowserOpener{},
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// a cancelled context (SIGINT/SIGTERM via psi) is a normal exit
	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("ui: %w", err)
	}
	logger.Info("client stopped")
	return nil
}

// newTransports builds the request transport and the feed source. Requests
// always go over HTTP; the feed is long-polled or pushed over a WebSocket.
func newTransports(ctx context.Context, cfg config.Config, clientID string, metrics *client.Metrics) (*client.HTTPTransport, session.Source, error) {
	logger := pslog.Ctx(ctx)
	transport, err := client.NewHTTPTransport(cfg.Server.URL,
		client.WithLogger(logger.With("component", "http")),
		client.WithMetrics(metrics),
	)
	if err != nil {
		return nil, nil, err
	}

	if cfg.Server.Transport != config.TransportWS {
		return transport, session.NewPoller(transport, clientID, logger.With("component", "poller")), nil
	}

	opts := []client.WSOption{client.WithWSLogger(logger.With("component", "ws"))}
	if cfg.Server.InsecureWS {
		logger.Warn("certificate verification disabled for the WebSocket feed")
		opts = append(opts, client.WithInsecureTLS())
	}
	ws, err := client.NewWSTransport(cfg.Server.URL, clientID, opts...)
	if err != nil {
		return nil, nil, err
	}
	return transport, ws, nil
}

// serveMetrics exposes metrics on addr and returns a function that shuts
// the listener down.
func serveMetrics(ctx context.Context, addr string, metrics *client.Metrics) func() {
	logger := pslog.Ctx(ctx)
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info("metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "err", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
}

func openLogFile(path string) (*os.File, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}
