package battle

import (
	"math"
	"math/rand/v2"
)

// Source is the randomness provider for a battle.
//
// Float64 returns a fresh uniform value in [0, 1) on each call. Implementations
// need not be safe for concurrent use; do not share one across concurrent
// resolver calls unless it is.
type Source interface {
	Float64() float64
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() float64

// Float64 calls f.
func (f SourceFunc) Float64() float64 { return f() }

// defaultSource is used when Resolve is handed a nil Source.
var defaultSource Source = SourceFunc(rand.Float64)

// Policy selects the action a combatant plays this turn.
//
// Implementations must draw from src in the same order every turn so a replayed
// source reproduces the battle.
type Policy interface {
	Choose(self, enemy Combatant, src Source) Action
}

// DisciplinedPolicy plays the perfect counter to the enemy's predicted action
// with probability min(self.Intelligence/Divisor, Cap), and a uniformly random
// action otherwise.
//
// Draw order per call: one draw for the probability check, then one more draw
// only when the random fallback is taken.
type DisciplinedPolicy struct {
	Divisor float64
	Cap     float64
}

// AgentPolicy is the player-side heuristic: factor min(intelligence/100, 0.95).
var AgentPolicy = DisciplinedPolicy{Divisor: 100, Cap: 0.95}

// ScriptedPolicy is the opponent-side heuristic: factor min(intelligence/120, 0.8).
var ScriptedPolicy = DisciplinedPolicy{Divisor: 120, Cap: 0.8}

// Probability returns the chance that self plays the perfect counter.
//
// Precondition: p.Divisor != 0.
func (p DisciplinedPolicy) Probability(self Combatant) float64 {
	return math.Min(float64(self.Intelligence)/p.Divisor, p.Cap)
}

// Choose implements Policy.
func (p DisciplinedPolicy) Choose(self, enemy Combatant, src Source) Action {
	perfect := CounterOf(enemy.PredictAction())
	if src.Float64() < p.Probability(self) {
		return perfect
	}
	return RandomAction(src)
}

// RandomAction picks Actions[floor(draw*3)] using one draw from src. A draw
// outside [0, 1) falls back to ActionForce.
func RandomAction(src Source) Action {
	idx := int(math.Floor(src.Float64() * float64(len(Actions))))
	if idx < 0 || idx >= len(Actions) {
		return ActionForce
	}
	return Actions[idx]
}
