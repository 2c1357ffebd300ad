// Package config loads runtime configuration for the jobfit client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   REST API base URL
//	-w string   realtime updates URL
//	-d string   local SQLite database path
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "websocket_url": "ws://127.0.0.1:8000/ws/updates",
//	  "database_path": "jobfit.db",
//	  "request_timeout": "10s",
//	  "reconnect_delay": "2s",
//	  "max_reconnect_delay": "30s",
//	  "ping_interval": "25s",
//	  "log_level": "info",
//	  "log_format": "text"
//	}
//
// When websocket_url is not set anywhere it is derived from server_url
// (http -> ws, https -> wss, path /ws/updates).
package config
