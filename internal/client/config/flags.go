package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/jobfit/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST API base URL
//	-w string   realtime updates URL (ws:// or wss://)
//	-d string   path of the local SQLite database
//	-l string   log level (debug, info, warn, error)
//
// Only these flags are parsed; anything else in args is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-w", "-d", "-l"})

	fs := flag.NewFlagSet("jobfit", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "REST API base URL")
	fs.StringVar(&cfg.WebSocketURL, "w", cfg.WebSocketURL, "realtime updates URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	return fs.Parse(args)
}
