//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/gameserver"
)

func initializeApp(ctx context.Context, cfg *config.Config) (*App, func(), error) {
	wire.Build(
		wire.FieldsOf(new(*config.Config), "Database", "Logging", "GameServer", "Roster", "Scripting", "Narration", "Score"),
		provideLogger,
		provideDatabase,
		provideMonsterSource,
		provideRoster,
		provideScripts,
		provideResolver,
		provideNarrator,
		provideRoller,
		provideLuck,
		gameserver.NewBattleService,
		gameserver.NewGRPCService,
		newApp,
	)
	return nil, nil, nil
}
