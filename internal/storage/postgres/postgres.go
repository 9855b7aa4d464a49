// Package postgres stores wallet-owned monsters in PostgreSQL using pgx v5.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
)

// Pool is the monster store's connection pool. It hands out the monster
// repository and runs the periodic liveness probe.
type Pool struct {
	pool          *pgxpool.Pool
	monsters       *MonsterRepository
	healthInterval time.Duration
	healthTimeout  time.Duration
	logger         *zap.Logger
}

// NewPool connects to the database described by cfg and verifies it answers.
//
// Precondition: cfg must pass config validation with Enabled set; logger must be non-nil.
// Postcondition: Returns a connected Pool or a non-nil error.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	db, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	start := time.Now()
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	logger.Info("monster store connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Name),
		zap.Int32("max_conns", cfg.MaxConns),
		zap.Duration("ping", time.Since(start)),
	)

	return &Pool{
		pool:           db,
		monsters:       NewMonsterRepository(db),
		healthInterval: cfg.HealthInterval,
		healthTimeout:  cfg.HealthTimeout,
		logger:         logger,
	}, nil
}

// Monsters returns the repository of wallet-owned monsters.
func (p *Pool) Monsters() *MonsterRepository {
	return p.monsters
}

// HealthInterval is how often CheckHealth should run.
func (p *Pool) HealthInterval() time.Duration {
	return p.healthInterval
}

// CheckHealth pings the database within the configured health timeout and
// logs a warning with pool statistics when it does not answer. Its signature
// fits server.NewPeriodic.
//
// Precondition: The pool must not be closed.
func (p *Pool) CheckHealth(ctx context.Context) {
	if err := p.Ping(ctx); err != nil {
		stat := p.pool.Stat()
		p.logger.Warn("monster store health check failed",
			zap.Error(err),
			zap.Int32("total_conns", stat.TotalConns()),
			zap.Int32("idle_conns", stat.IdleConns()),
		)
	}
}

// Ping reports whether the database answers within the configured health
// timeout. A zero timeout waits on ctx alone.
func (p *Pool) Ping(ctx context.Context) error {
	if p.healthTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.healthTimeout)
		defer cancel()
	}
	return p.pool.Ping(ctx)
}

// Close releases all pool resources.
//
// Postcondition: The pool and its repository are unusable after Close.
func (p *Pool) Close() {
	p.pool.Close()
}
