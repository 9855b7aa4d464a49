package main

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/gameserver"
	"github.com/cory-johannsen/trinity/internal/server"
	"github.com/cory-johannsen/trinity/internal/storage/postgres"
)

// App is the assembled gameserver.
type App struct {
	cfg    config.GameServerConfig
	grpc   *grpc.Server
	health *health.Server
	pool   *postgres.Pool
	logger *zap.Logger
}

func newApp(cfg config.GameServerConfig, svc *gameserver.GRPCService, pool *postgres.Pool, logger *zap.Logger) *App {
	srv, hs := gameserver.NewServer(svc, logger)
	return &App{cfg: cfg, grpc: srv, health: hs, pool: pool, logger: logger}
}

// Run serves until ctx is cancelled, a signal arrives, or a service fails.
func (a *App) Run(ctx context.Context) error {
	lifecycle := server.NewLifecycle(a.logger)

	lifecycle.Add("grpc", &server.FuncService{
		StartFn: func() error {
			lis, err := net.Listen("tcp", a.cfg.Addr())
			if err != nil {
				return fmt.Errorf("listening on %s: %w", a.cfg.Addr(), err)
			}
			a.logger.Info("gRPC server listening", zap.String("addr", lis.Addr().String()))
			return a.grpc.Serve(lis)
		},
		StopFn: func() {
			a.health.Shutdown()
			a.grpc.GracefulStop()
		},
	})

	if a.pool != nil {
		lifecycle.Add("postgres-health", server.NewPeriodic(a.pool.HealthInterval(), a.pool.CheckHealth))
	}

	return lifecycle.Run(ctx)
}
