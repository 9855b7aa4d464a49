// Package score settles a duel in one step from weighted stats plus a luck roll.
package score

import (
	"math"

	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/dice"
)

// DefaultLuck is the luck roll: 0 to 40 inclusive.
const DefaultLuck = "1d41-1"

// XPAward is the fixed experience granted to the winner of a score duel.
const XPAward = 50

// Stat weights.
const (
	strengthWeight     = 1.5
	agilityWeight      = 1.2
	intelligenceWeight = 1.1
)

// Side is one combatant's part of a duel verdict.
type Side struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Luck  int     `json:"luck"`
	Score float64 `json:"score"`
}

// Verdict is the outcome of a score duel.
type Verdict struct {
	First    Side   `json:"first"`
	Second   Side   `json:"second"`
	WinnerID string `json:"winnerId"`
	LoserID  string `json:"loserId"`
	XPGain   int    `json:"xpGain"`
}

// Base returns the weighted stat total before luck, rounded to two decimals.
// The weights keep every exact total on a tenth, so the rounding only strips
// float noise and never changes how two totals compare.
func Base(c battle.Combatant) float64 {
	raw := float64(c.Strength)*strengthWeight +
		float64(c.Agility)*agilityWeight +
		float64(c.Intelligence)*intelligenceWeight
	return math.Round(raw*100) / 100
}

// Duel scores first then second, each with one luck roll from roller.
// The first combatant wins ties.
//
// Precondition: roller is non-nil.
// Postcondition: WinnerID and LoserID are distinct members of {first.ID, second.ID}
// when the ids differ.
func Duel(first, second battle.Combatant, roller *dice.Roller, luck dice.Expression) Verdict {
	a := side(first, roller.Roll(luck).Total())
	b := side(second, roller.Roll(luck).Total())

	v := Verdict{First: a, Second: b, XPGain: XPAward}
	if a.Score >= b.Score {
		v.WinnerID, v.LoserID = a.ID, b.ID
	} else {
		v.WinnerID, v.LoserID = b.ID, a.ID
	}
	return v
}

func side(c battle.Combatant, luck int) Side {
	return Side{ID: c.ID, Name: c.Name, Luck: luck, Score: Base(c) + float64(luck)}
}
