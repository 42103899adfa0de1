package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Transport kinds accepted by server.transport.
const (
	TransportPoll = "poll"
	TransportWS   = "ws"
)

// DefaultPath is where the client looks for its config file.
const DefaultPath = "~/.config/ircweb/config.toml"

var ErrInvalidConfig = errors.New("invalid config")

// Config represents the structure of the client config file
type Config struct {
	Server  ServerSection  `toml:"server"`
	Client  ClientSection  `toml:"client"`
	Metrics MetricsSection `toml:"metrics"`
}

type ServerSection struct {
	URL        string `toml:"url"`
	Transport  string `toml:"transport"`
	InsecureWS bool   `toml:"insecure_ws"`
}

type ClientSection struct {
	StatePath  string   `toml:"state_path"`
	LogPath    string   `toml:"log_path"`
	Notify     bool     `toml:"notify"`
	Highlight  []string `toml:"highlight"`
	Scrollback int      `toml:"scrollback"`
}

type MetricsSection struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Server: ServerSection{
			URL:       "http://localhost:8080",
			Transport: TransportPoll,
		},
		Client: ClientSection{
			StatePath:  "~/.local/state/ircweb/state.db",
			LogPath:    "~/.local/state/ircweb/ircweb.log",
			Notify:     true,
			Scrollback: 1000,
		},
	}
}

// Load reads configuration from a TOML file, creates a default one if none
// exists, and applies environment variable overrides.
func Load(path string) (Config, error) {
	path, err := ExpandPath(path)
	if err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		// an unwritable config dir is not fatal; run on defaults
		_ = writeDefault(path)
		cfg = applyEnvOverrides(cfg)
		return cfg, cfg.Validate()
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg = applyEnvOverrides(cfg)
	return cfg, cfg.Validate()
}

// Validate checks values that the rest of the client relies on.
func (c Config) Validate() error {
	switch c.Server.Transport {
	case TransportPoll, TransportWS:
	default:
		return fmt.Errorf("%w: server.transport must be %q or %q, got %q", ErrInvalidConfig, TransportPoll, TransportWS, c.Server.Transport)
	}
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("%w: server.url is empty", ErrInvalidConfig)
	}
	if _, err := url.Parse(c.Server.URL); err != nil {
		return fmt.Errorf("%w: server.url: %v", ErrInvalidConfig, err)
	}
	if c.Client.Scrollback < 0 {
		return fmt.Errorf("%w: client.scrollback must not be negative", ErrInvalidConfig)
	}
	return nil
}

// ExpandPath replaces a leading ~/ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, path[2:]), nil
}

// applyEnvOverrides applies environment variable overrides to the config
// Environment variables follow the pattern: IRCWEB_SECTION_KEY
// Example: IRCWEB_SERVER_URL=https://irc.example.net
func applyEnvOverrides(cfg Config) Config {
	if val := os.Getenv("IRCWEB_SERVER_URL"); val != "" {
		cfg.Server.URL = val
	}
	if val := os.Getenv("IRCWEB_SERVER_TRANSPORT"); val != "" {
		cfg.Server.Transport = strings.ToLower(val)
	}
	if val := os.Getenv("IRCWEB_SERVER_INSECURE_WS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Server.InsecureWS = b
		}
	}

	if val := os.Getenv("IRCWEB_CLIENT_STATE_PATH"); val != "" {
		cfg.Client.StatePath = val
	}
	if val := os.Getenv("IRCWEB_CLIENT_LOG_PATH"); val != "" {
		cfg.Client.LogPath = val
	}
	if val := os.Getenv("IRCWEB_CLIENT_NOTIFY"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Client.Notify = b
		}
	}
	if val := os.Getenv("IRCWEB_CLIENT_HIGHLIGHT"); val != "" {
		// comma-separated words
		words := strings.Split(val, ",")
		cfg.Client.Highlight = nil
		for _, w := range words {
			if w = strings.TrimSpace(w); w != "" {
				cfg.Client.Highlight = append(cfg.Client.Highlight, w)
			}
		}
	}
	if val := os.Getenv("IRCWEB_CLIENT_SCROLLBACK"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Client.Scrollback = n
		}
	}

	if val := os.Getenv("IRCWEB_METRICS_ADDR"); val != "" {
		cfg.Metrics.Addr = val
	}

	return cfg
}

// writeDefault writes the default config to a file with all options documented
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	content := `# ircweb client configuration
# This file was auto-generated with default values
# Commented settings show available options
#
# Environment variables can override these settings:
# IRCWEB_SECTION_KEY (e.g., IRCWEB_SERVER_URL=https://irc.example.net)

[server]
# Base URL of the IRC web backend
url = "http://localhost:8080"

# How to receive events: "poll" (long-poll /dynamic/feed) or "ws" (WebSocket /ws)
transport = "poll"

# Skip TLS certificate verification for wss:// connections
# insecure_ws = false

[client]
# SQLite file holding update speeds and the last new-server form
state_path = "~/.local/state/ircweb/state.db"

# Log file (the terminal is owned by the UI)
log_path = "~/.local/state/ircweb/ircweb.log"

# Desktop notification when a highlight word shows up in a background window
notify = true

# Words that trigger a notification (case-insensitive)
# highlight = ["mynick"]

# Maximum lines kept per window (0 = unlimited)
scrollback = 1000

[metrics]
# Serve Prometheus metrics on this address, e.g. "127.0.0.1:9464"
# addr = ""
`

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
