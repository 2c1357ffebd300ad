package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/jobfit/internal/client/cli"
	"github.com/dmitrijs2005/jobfit/internal/client/client"
	"github.com/dmitrijs2005/jobfit/internal/client/config"
	"github.com/dmitrijs2005/jobfit/internal/client/realtime"
	"github.com/dmitrijs2005/jobfit/internal/client/repositories/credentials"
	"github.com/dmitrijs2005/jobfit/internal/client/session"
	"github.com/dmitrijs2005/jobfit/internal/client/storage"
	"github.com/dmitrijs2005/jobfit/internal/logging"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Fatalf("error initializing database: %v", err)
	}
	defer db.Close()

	api, err := client.NewHTTPClient(cfg.ServerURL, cfg.RequestTimeout, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	channel := realtime.NewChannel(cfg.WebSocketURL, realtime.WebSocketDialer{}, realtime.Options{
		ReconnectDelay:    cfg.ReconnectDelay,
		MaxReconnectDelay: cfg.MaxReconnectDelay,
		PingInterval:      cfg.PingInterval,
	}, logger)

	manager := session.NewManager(api, credentials.NewStore(db), channel, logger)
	defer manager.Close()

	cli.NewApp(manager, api, channel, logger).Run(ctx)
}
