package battle

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	// InitialHP is the hit-point pool each side starts a battle with.
	InitialHP = 100
	// MaxTurns is the turn cap after which remaining hit points decide the winner.
	MaxTurns = 15

	baseXP     = 20
	xpPerLevel = 5
)

// Resolver runs battles. A Resolver holds configuration only; every call to
// Resolve owns its own hit points, so one Resolver may serve concurrent calls.
type Resolver struct {
	ids      IDGenerator
	player   Policy
	opponent Policy
	logger   *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithIDGenerator replaces the default CryptoIDs strategy.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Resolver) { r.ids = g }
}

// WithPlayerPolicy replaces the player-side AgentPolicy.
func WithPlayerPolicy(p Policy) Option {
	return func(r *Resolver) { r.player = p }
}

// WithOpponentPolicy replaces the opponent-side ScriptedPolicy.
func WithOpponentPolicy(p Policy) Option {
	return func(r *Resolver) { r.opponent = p }
}

// WithLogger enables per-turn debug logging.
func WithLogger(l *zap.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// NewResolver returns a Resolver with the agent heuristic on the player side,
// the scripted heuristic on the opponent side and crypto-sourced ids, modified
// by opts.
//
// Postcondition: every field of the returned Resolver is non-nil.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		ids:      CryptoIDs,
		player:   AgentPolicy,
		opponent: ScriptedPolicy,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve runs a battle with the default Resolver.
func Resolve(player, opponent Combatant, src Source) Result {
	return defaultResolver.Resolve(player, opponent, src)
}

// Resolve simulates player against opponent, drawing all randomness from src.
// A nil src uses the math/rand/v2 global generator.
//
// Each turn the player picks first, then the opponent; both attacks resolve
// against the hit points as they stood before the turn. The loop stops after
// the turn in which either side reaches 0 hit points, or after MaxTurns.
// The player wins only with strictly more hit points; ties go to the opponent.
//
// Postcondition: The result is fully determined by player, opponent and the
// sequence of values src returns (plus the id strategy's own entropy).
func (r *Resolver) Resolve(player, opponent Combatant, src Source) Result {
	if src == nil {
		src = defaultSource
	}

	p := &fighter{Combatant: player, hp: InitialHP}
	o := &fighter{Combatant: opponent, hp: InitialHP}
	turns := make([]TurnLog, 0, MaxTurns)

	for turn := 1; turn <= MaxTurns; turn++ {
		entry := r.resolveTurn(turn, p, o, src)
		turns = append(turns, entry)
		r.logger.Debug("battle turn",
			zap.Int("turn", entry.Turn),
			zap.Stringer("player_action", entry.PlayerAction),
			zap.Stringer("opponent_action", entry.OpponentAction),
			zap.Int("damage_to_opponent", entry.DamageToOpponent),
			zap.Int("damage_to_player", entry.DamageToPlayer),
			zap.Int("player_hp", entry.PlayerHP),
			zap.Int("opponent_hp", entry.OpponentHP),
		)
		if p.hp <= 0 || o.hp <= 0 {
			break
		}
	}

	res := r.outcome(p, o, turns)
	res.ID = r.ids.NewID(src)

	r.logger.Info("battle resolved",
		zap.String("battle_id", res.ID),
		zap.String("winner", res.WinnerID),
		zap.String("loser", res.LoserID),
		zap.Int("turns", res.TotalTurns),
		zap.Int("xp", res.XPGain),
	)
	return res
}

// resolveTurn chooses both actions, applies simultaneous damage and returns
// the log entry for the turn.
func (r *Resolver) resolveTurn(turn int, p, o *fighter, src Source) TurnLog {
	playerAction := r.player.Choose(p.Combatant, o.Combatant, src)
	opponentAction := r.opponent.Choose(o.Combatant, p.Combatant, src)

	playerCountered := Counters(playerAction, opponentAction)
	opponentCountered := Counters(opponentAction, playerAction)

	toOpponent := Damage(p.Combatant, o.Combatant, playerAction, playerCountered)
	toPlayer := Damage(o.Combatant, p.Combatant, opponentAction, opponentCountered)

	o.applyDamage(toOpponent)
	p.applyDamage(toPlayer)

	return TurnLog{
		Turn:              turn,
		PlayerAction:      playerAction,
		OpponentAction:    opponentAction,
		DamageToOpponent:  toOpponent,
		DamageToPlayer:    toPlayer,
		PlayerHP:          p.hp,
		OpponentHP:        o.hp,
		PlayerCountered:   playerCountered,
		OpponentCountered: opponentCountered,
	}
}

// outcome decides winner and loser and fills every Result field except ID.
func (r *Resolver) outcome(p, o *fighter, turns []TurnLog) Result {
	winner, loser := o, p
	if p.hp > o.hp {
		winner, loser = p, o
	}
	return Result{
		WinnerID:        winner.ID,
		LoserID:         loser.ID,
		XPGain:          baseXP + xpPerLevel*loser.Level,
		Turns:           turns,
		WinnerFinalHP:   max(p.hp, o.hp),
		TotalTurns:      len(turns),
		PlayerFinalHP:   p.hp,
		OpponentFinalHP: o.hp,
		StrategyNote:    StrategyNote(o.Combatant),
	}
}

// StrategyNote describes which stat the agent read from opponent.
func StrategyNote(opponent Combatant) string {
	return fmt.Sprintf("Trinity Tactics AI predicted %s's %s focus to counter.", opponent.Name, opponent.DominantStat())
}
