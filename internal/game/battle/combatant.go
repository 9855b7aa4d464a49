// Package battle resolves a turn-based duel between two combatants using the
// Trinity Tactics counter system.
package battle

import (
	"errors"
	"fmt"
	"strings"
)

// Stat names one of the three base stats of a combatant.
type Stat int

const (
	StatStrength Stat = iota
	StatAgility
	StatIntelligence
)

// statPriority is the tie-break order for DominantStat: first listed wins.
var statPriority = [...]Stat{StatStrength, StatAgility, StatIntelligence}

// String returns the lower-case stat name.
func (s Stat) String() string {
	switch s {
	case StatStrength:
		return "strength"
	case StatAgility:
		return "agility"
	case StatIntelligence:
		return "intelligence"
	default:
		return "unknown"
	}
}

// Origin is a cosmetic tag recording where a combatant came from.
type Origin string

const (
	OriginWallet Origin = "wallet"
	OriginDemo   Origin = "demo"
)

// Combatant is the immutable input record for one side of a battle.
type Combatant struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Strength     int    `json:"strength"`
	Agility      int    `json:"agility"`
	Intelligence int    `json:"intelligence"`
	Level        int    `json:"level"`
	Origin       Origin `json:"origin,omitempty"`
}

// Stat returns the value of s for c.
func (c Combatant) Stat(s Stat) int {
	switch s {
	case StatStrength:
		return c.Strength
	case StatAgility:
		return c.Agility
	case StatIntelligence:
		return c.Intelligence
	default:
		return 0
	}
}

// DominantStat returns the numerically largest stat of c. Ties resolve in the
// order strength, agility, intelligence.
//
// Postcondition: c.Stat(result) >= c.Stat(s) for every s.
func (c Combatant) DominantStat() Stat {
	best := statPriority[0]
	for _, s := range statPriority[1:] {
		if c.Stat(s) > c.Stat(best) {
			best = s
		}
	}
	return best
}

// PredictAction returns the action c is expected to play, derived from its
// dominant stat.
func (c Combatant) PredictAction() Action {
	switch c.DominantStat() {
	case StatAgility:
		return ActionAgility
	case StatIntelligence:
		return ActionIntelligence
	default:
		return ActionForce
	}
}

// Validate checks the caller-side contract for a combatant. Resolve never calls
// it; callers that source combatants from untrusted data should.
//
// Postcondition: Returns nil iff ID is non-empty, all stats are >= 0 and Level >= 1.
func (c Combatant) Validate() error {
	var errs []string
	if c.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if c.Strength < 0 {
		errs = append(errs, fmt.Sprintf("strength must be >= 0, got %d", c.Strength))
	}
	if c.Agility < 0 {
		errs = append(errs, fmt.Sprintf("agility must be >= 0, got %d", c.Agility))
	}
	if c.Intelligence < 0 {
		errs = append(errs, fmt.Sprintf("intelligence must be >= 0, got %d", c.Intelligence))
	}
	if c.Level < 1 {
		errs = append(errs, fmt.Sprintf("level must be >= 1, got %d", c.Level))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidCombatant, c.ID, strings.Join(errs, "; "))
	}
	return nil
}

// ErrInvalidCombatant is wrapped by Validate failures.
var ErrInvalidCombatant = errors.New("battle: invalid combatant")

// fighter is a combatant plus the hit points owned by a single resolver run.
type fighter struct {
	Combatant
	hp int
}

// applyDamage reduces hp by amount, flooring at zero.
//
// Postcondition: hp >= 0.
func (f *fighter) applyDamage(amount int) {
	f.hp -= amount
	if f.hp < 0 {
		f.hp = 0
	}
}
