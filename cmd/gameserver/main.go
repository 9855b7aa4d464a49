// Package main runs the battle gameserver: a gRPC service that resolves
// Trinity Tactics battles.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	app, cleanup, err := initializeApp(context.Background(), &cfg)
	if err != nil {
		log.Fatalf("initializing gameserver: %v", err)
	}
	defer cleanup()

	app.logger.Info("gameserver initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("grpc_addr", cfg.GameServer.Addr()),
	)

	if err := app.Run(context.Background()); err != nil {
		app.logger.Error("gameserver stopped with error", zap.Error(err))
		cleanup()
		log.Fatalf("gameserver: %v", err)
	}
}
