package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/jobfit/internal/flagx"
	"github.com/dmitrijs2005/jobfit/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Durations use
// timex.Duration so the file may hold either "3s" strings or nanoseconds.
// Pointer and zero-value fields are only copied when present.
type JSONConfig struct {
	ServerURL         string          `json:"server_url"`
	WebSocketURL      string          `json:"websocket_url"`
	DatabasePath      string          `json:"database_path"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	ReconnectDelay    *timex.Duration `json:"reconnect_delay"`
	MaxReconnectDelay *timex.Duration `json:"max_reconnect_delay"`
	PingInterval      *timex.Duration `json:"ping_interval"`
	LogLevel          string          `json:"log_level"`
	LogFormat         string          `json:"log_format"`
}

// parseJSON overlays cfg with values from the file named by -c/-config.
// Without the flag it is a no-op.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.WebSocketURL, jc.WebSocketURL)
	setString(&cfg.DatabasePath, jc.DatabasePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ReconnectDelay != nil {
		cfg.ReconnectDelay = jc.ReconnectDelay.Duration
	}
	if jc.MaxReconnectDelay != nil {
		cfg.MaxReconnectDelay = jc.MaxReconnectDelay.Duration
	}
	if jc.PingInterval != nil {
		cfg.PingInterval = jc.PingInterval.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
