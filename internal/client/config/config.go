package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the jobfit client.
//
// Fields:
//   - ServerURL: base URL of the REST API.
//   - WebSocketURL: URL of the realtime updates endpoint; derived from
//     ServerURL when empty.
//   - DatabasePath: SQLite file holding the persisted credentials.
//   - RequestTimeout: per-request timeout of the REST client.
//   - ReconnectDelay / MaxReconnectDelay: backoff bounds of the event channel.
//   - PingInterval: keepalive period of the event channel.
//   - LogLevel / LogFormat: slog level name and "text" or "json".
type Config struct {
	ServerURL         string
	WebSocketURL      string
	DatabasePath      string
	RequestTimeout    time.Duration
	ReconnectDelay    time.Duration
	MaxReconnectDelay time.Duration
	PingInterval      time.Duration
	LogLevel          string
	LogFormat         string
}

const websocketPath = "/ws/updates"

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.WebSocketURL = ""
	c.DatabasePath = "jobfit.db"
	c.RequestTimeout = 10 * time.Second
	c.ReconnectDelay = 2 * time.Second
	c.MaxReconnectDelay = 30 * time.Second
	c.PingInterval = 25 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// LoadConfig builds a Config from os.Args.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load constructs a Config, applies defaults, then overlays values from JSON
// (if -c/-config is present in args) and command-line flags. Later sources
// take precedence over earlier ones. WebSocketURL is derived last so that a
// ServerURL given on any layer is honoured.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) finalize() error {
	c.ServerURL = strings.TrimRight(c.ServerURL, "/")
	if _, err := url.ParseRequestURI(c.ServerURL); err != nil {
		return fmt.Errorf("invalid server url %q: %w", c.ServerURL, err)
	}

	if c.WebSocketURL == "" {
		ws, err := DeriveWebSocketURL(c.ServerURL)
		if err != nil {
			return err
		}
		c.WebSocketURL = ws
	}

	if c.MaxReconnectDelay < c.ReconnectDelay {
		c.MaxReconnectDelay = c.ReconnectDelay
	}
	return nil
}

// DeriveWebSocketURL maps http(s)://host/base to ws(s)://host/base/ws/updates.
func DeriveWebSocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server url %q: %w", serverURL, err)
	}

	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported server url scheme %q", u.Scheme)
	}

	u.Path = strings.TrimRight(u.Path, "/") + websocketPath
	u.RawQuery = ""
	return u.String(), nil
}
