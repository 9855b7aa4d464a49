package roster

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// ErrUnknownCombatant is returned by strict lookups.
var ErrUnknownCombatant = errors.New("unknown combatant")

const (
	playersFile   = "roster.yaml"
	opponentsFile = "opponents.yaml"
)

// Roster holds the selectable player monsters and the opponent line-up.
// A Roster is immutable after construction.
type Roster struct {
	players   []battle.Combatant
	opponents []battle.Combatant
}

// New builds a Roster from already validated combatants.
//
// Precondition: opponents must be non-empty.
func New(players, opponents []battle.Combatant) (*Roster, error) {
	if len(opponents) == 0 {
		return nil, fmt.Errorf("roster: at least one opponent is required")
	}
	return &Roster{
		players:   append([]battle.Combatant(nil), players...),
		opponents: append([]battle.Combatant(nil), opponents...),
	}, nil
}

// LoadDir loads roster.yaml and opponents.yaml from dir.
//
// Postcondition: Returns a Roster or an error naming the failing file.
func LoadDir(dir string) (*Roster, error) {
	players, err := LoadTemplatesFromFile(filepath.Join(dir, playersFile))
	if err != nil {
		return nil, err
	}
	opponents, err := LoadTemplatesFromFile(filepath.Join(dir, opponentsFile))
	if err != nil {
		return nil, err
	}
	return New(toCombatants(players), toCombatants(opponents))
}

func toCombatants(tmpls []Template) []battle.Combatant {
	out := make([]battle.Combatant, len(tmpls))
	for i, t := range tmpls {
		out[i] = t.Combatant()
	}
	return out
}

// Players returns a copy of the player-side line-up.
func (r *Roster) Players() []battle.Combatant {
	return append([]battle.Combatant(nil), r.players...)
}

// Opponents returns a copy of the opponent line-up.
func (r *Roster) Opponents() []battle.Combatant {
	return append([]battle.Combatant(nil), r.opponents...)
}

// Player looks up a player-side combatant by id.
func (r *Roster) Player(id string) (battle.Combatant, error) {
	return lookup(r.players, id)
}

// Opponent looks up an opponent by id.
func (r *Roster) Opponent(id string) (battle.Combatant, error) {
	return lookup(r.opponents, id)
}

func lookup(list []battle.Combatant, id string) (battle.Combatant, error) {
	for _, c := range list {
		if c.ID == id {
			return c, nil
		}
	}
	return battle.Combatant{}, fmt.Errorf("%w: %q", ErrUnknownCombatant, id)
}

// Select returns the candidate with the given id, or the first candidate when
// none matches. The bool is false only when candidates is empty.
func Select(candidates []battle.Combatant, id string) (battle.Combatant, bool) {
	if len(candidates) == 0 {
		return battle.Combatant{}, false
	}
	for _, c := range candidates {
		if c.ID == id {
			return c, true
		}
	}
	return candidates[0], true
}

// OpponentCursor rotates through the opponent line-up. Safe for concurrent use.
type OpponentCursor struct {
	mu        sync.Mutex
	pos       int
	opponents []battle.Combatant
}

// NewOpponentCursor starts a rotation at the first opponent of r.
func NewOpponentCursor(r *Roster) *OpponentCursor {
	return &OpponentCursor{opponents: r.Opponents()}
}

// Current returns the opponent the cursor points at.
func (c *OpponentCursor) Current() battle.Combatant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opponents[c.pos]
}

// Next advances the cursor, wrapping around, and returns the new opponent.
func (c *OpponentCursor) Next() battle.Combatant {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pos = (c.pos + 1) % len(c.opponents)
	return c.opponents[c.pos]
}
