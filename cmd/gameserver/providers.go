package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/dice"
	"github.com/cory-johannsen/trinity/internal/game/roster"
	"github.com/cory-johannsen/trinity/internal/gameserver"
	"github.com/cory-johannsen/trinity/internal/narration"
	"github.com/cory-johannsen/trinity/internal/observability"
	"github.com/cory-johannsen/trinity/internal/scripting"
	"github.com/cory-johannsen/trinity/internal/storage/postgres"
)

const serviceName = "gameserver"

func provideLogger(cfg config.LoggingConfig) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg, serviceName)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

// provideDatabase returns a nil pool when the database is disabled.
func provideDatabase(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*postgres.Pool, func(), error) {
	if !cfg.Enabled {
		logger.Info("database disabled, serving demo roster only")
		return nil, func() {}, nil
	}
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	return pool, pool.Close, nil
}

func provideMonsterSource(pool *postgres.Pool) gameserver.MonsterSource {
	if pool == nil {
		return nil
	}
	return pool.Monsters()
}

func provideRoster(cfg config.RosterConfig, logger *zap.Logger) (*roster.Roster, error) {
	if cfg.Dir == "" {
		logger.Info("no roster directory configured, using demo roster")
		return roster.Demo(), nil
	}
	r, err := roster.LoadDir(cfg.Dir)
	if err != nil {
		return nil, err
	}
	logger.Info("roster loaded",
		zap.String("dir", cfg.Dir),
		zap.Int("players", len(r.Players())),
		zap.Int("opponents", len(r.Opponents())),
	)
	return r, nil
}

func provideScripts(cfg config.ScriptingConfig, logger *zap.Logger) (*scripting.Manager, func(), error) {
	mgr := scripting.NewManager(cfg.InstructionLimit, logger)
	if cfg.StrategyDir != "" {
		n, err := mgr.LoadDir(cfg.StrategyDir)
		if err != nil {
			mgr.Close()
			return nil, nil, fmt.Errorf("loading strategies: %w", err)
		}
		logger.Info("strategies loaded", zap.String("dir", cfg.StrategyDir), zap.Int("count", n))
	}
	return mgr, mgr.Close, nil
}

func provideResolver(cfg config.ScriptingConfig, scripts *scripting.Manager, logger *zap.Logger) (*battle.Resolver, error) {
	opponent := battle.Policy(battle.ScriptedPolicy)
	if cfg.OpponentStrategy != "" {
		p, err := scripts.Policy(cfg.OpponentStrategy, battle.ScriptedPolicy)
		if err != nil {
			return nil, err
		}
		opponent = p
		logger.Info("opponent strategy selected", zap.String("strategy", cfg.OpponentStrategy))
	}
	return battle.NewResolver(
		battle.WithOpponentPolicy(opponent),
		battle.WithLogger(logger),
	), nil
}

func provideNarrator(cfg config.NarrationConfig, logger *zap.Logger) narration.Narrator {
	return narration.New(cfg, logger)
}

func provideRoller(logger *zap.Logger) *dice.Roller {
	return dice.NewLoggedRoller(dice.NewCryptoSource(), logger)
}

func provideLuck(cfg config.ScoreConfig) (dice.Expression, error) {
	return dice.Parse(cfg.Luck)
}
