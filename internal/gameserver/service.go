// Package gameserver exposes battle resolution over gRPC.
package gameserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/config"
	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/dice"
	"github.com/cory-johannsen/trinity/internal/game/roster"
	"github.com/cory-johannsen/trinity/internal/game/score"
	"github.com/cory-johannsen/trinity/internal/narration"
	"github.com/cory-johannsen/trinity/internal/observability"
)

// ErrInvalidRequest is returned when a request names combatants that fail validation.
var ErrInvalidRequest = errors.New("invalid battle request")

// MonsterSource lists the combatants held by a wallet owner.
type MonsterSource interface {
	Combatants(ctx context.Context, owner string) ([]battle.Combatant, error)
}

// ResolveRequest selects the two sides of a battle.
type ResolveRequest struct {
	PlayerID   string
	OpponentID string
	// OwnerID selects the owner's stored monsters instead of the demo roster.
	OwnerID string
	// Seed makes the battle replayable when set.
	Seed *uint64
}

// Outcome is a resolved battle plus its narrated recap.
type Outcome struct {
	battle.Result
	Player   battle.Combatant `json:"player"`
	Opponent battle.Combatant `json:"opponent"`
	Recap    string           `json:"recap"`
}

// BattleService selects combatants, resolves battles, and narrates them.
type BattleService struct {
	roster   *roster.Roster
	cursor   *roster.OpponentCursor
	monsters MonsterSource
	resolver *battle.Resolver
	narrator narration.Narrator
	roller   *dice.Roller
	luck     dice.Expression
	logDraws bool
	logger   *zap.Logger
}

// NewBattleService creates a BattleService.
//
// Precondition: r, resolver, narrator, roller and logger must be non-nil.
// monsters may be nil, in which case owner lookups use the roster.
// Postcondition: The opponent cursor starts at the first opponent of r.
func NewBattleService(
	cfg config.GameServerConfig,
	r *roster.Roster,
	monsters MonsterSource,
	resolver *battle.Resolver,
	narrator narration.Narrator,
	roller *dice.Roller,
	luck dice.Expression,
	logger *zap.Logger,
) *BattleService {
	return &BattleService{
		roster:   r,
		cursor:   roster.NewOpponentCursor(r),
		monsters: monsters,
		resolver: resolver,
		narrator: narrator,
		roller:   roller,
		luck:     luck,
		logDraws: cfg.LogDraws,
		logger:   logger,
	}
}

// Roster returns the selectable player combatants for ownerID. An empty
// owner, a missing store, or an owner without monsters yields the roster's
// players.
//
// Postcondition: Returns a non-empty slice or a storage error.
func (s *BattleService) Roster(ctx context.Context, ownerID string) ([]battle.Combatant, error) {
	if ownerID == "" || s.monsters == nil {
		return s.roster.Players(), nil
	}
	owned, err := s.monsters.Combatants(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading monsters for %s: %w", ownerID, err)
	}
	if len(owned) == 0 {
		s.logger.Warn("owner has no monsters, offering demo roster", zap.String("owner", ownerID))
		return s.roster.Players(), nil
	}
	return owned, nil
}

// Opponents returns the opponent line-up.
func (s *BattleService) Opponents() []battle.Combatant {
	return s.roster.Opponents()
}

// CurrentOpponent returns the opponent used when a request names none.
func (s *BattleService) CurrentOpponent() battle.Combatant {
	return s.cursor.Current()
}

// NextOpponent advances the opponent rotation and returns the new opponent.
func (s *BattleService) NextOpponent() battle.Combatant {
	return s.cursor.Next()
}

// Resolve runs one battle.
//
// Precondition: ctx must be non-nil.
// Postcondition: Returns an Outcome, or an error wrapping
// roster.ErrUnknownCombatant or ErrInvalidRequest.
func (s *BattleService) Resolve(ctx context.Context, req ResolveRequest) (Outcome, error) {
	start := time.Now()
	player, opponent, err := s.pair(ctx, req.OwnerID, req.PlayerID, req.OpponentID)
	if err != nil {
		return Outcome{}, err
	}

	res := s.resolver.Resolve(player, opponent, s.source(req.Seed))
	recap := s.narrator.Recap(ctx, res, player, opponent)

	s.logger.Info("battle served",
		zap.String("battle_id", res.ID),
		observability.Combatant("player", player),
		observability.Combatant("opponent", opponent),
		zap.Bool("seeded", req.Seed != nil),
		zap.Duration("elapsed", time.Since(start)),
	)
	return Outcome{Result: res, Player: player, Opponent: opponent, Recap: recap}, nil
}

// Duel settles a battle in one step with the score formula.
//
// Postcondition: Returns a Verdict, or an error wrapping
// roster.ErrUnknownCombatant or ErrInvalidRequest.
func (s *BattleService) Duel(ctx context.Context, ownerID, playerID, opponentID string) (score.Verdict, error) {
	player, opponent, err := s.pair(ctx, ownerID, playerID, opponentID)
	if err != nil {
		return score.Verdict{}, err
	}
	v := score.Duel(player, opponent, s.roller, s.luck)
	s.logger.Info("duel scored",
		zap.String("winner_id", v.WinnerID),
		zap.Float64("player_score", v.First.Score),
		zap.Float64("opponent_score", v.Second.Score),
	)
	return v, nil
}

func (s *BattleService) pair(ctx context.Context, ownerID, playerID, opponentID string) (battle.Combatant, battle.Combatant, error) {
	candidates, err := s.Roster(ctx, ownerID)
	if err != nil {
		return battle.Combatant{}, battle.Combatant{}, err
	}
	player, ok := roster.Select(candidates, playerID)
	if !ok {
		return battle.Combatant{}, battle.Combatant{}, fmt.Errorf("%w: no player combatants available", ErrInvalidRequest)
	}
	if playerID != "" && player.ID != playerID {
		s.logger.Warn("unknown player, using first roster entry",
			zap.String("requested", playerID),
			zap.String("selected", player.ID),
		)
	}

	opponent := s.cursor.Current()
	if opponentID != "" {
		if opponent, err = s.roster.Opponent(opponentID); err != nil {
			return battle.Combatant{}, battle.Combatant{}, err
		}
	}

	if err := player.Validate(); err != nil {
		return battle.Combatant{}, battle.Combatant{}, fmt.Errorf("%w: player: %w", ErrInvalidRequest, err)
	}
	if err := opponent.Validate(); err != nil {
		return battle.Combatant{}, battle.Combatant{}, fmt.Errorf("%w: opponent: %w", ErrInvalidRequest, err)
	}
	if player.ID == opponent.ID {
		return battle.Combatant{}, battle.Combatant{}, fmt.Errorf("%w: combatant %q cannot fight itself", ErrInvalidRequest, player.ID)
	}
	return player, opponent, nil
}

func (s *BattleService) source(seed *uint64) battle.Source {
	var src dice.Source
	if seed != nil {
		src = dice.NewSeededSource(*seed)
	} else {
		src = dice.NewCryptoSource()
	}
	if s.logDraws {
		src = dice.NewLoggedSource(src, s.logger)
	}
	return src
}
