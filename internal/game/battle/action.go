package battle

import "fmt"

// Action is the move a combatant commits to for one turn.
// The set is closed: force, intelligence and agility.
type Action int

const (
	ActionForce Action = iota
	ActionIntelligence
	ActionAgility
)

// Actions lists every Action in enumeration order. Random fallback picks index
// floor(draw*3) from this slice, so the order is part of the replay contract.
var Actions = [...]Action{ActionForce, ActionIntelligence, ActionAgility}

// String returns the upper-case action label used in logs and on the wire.
func (a Action) String() string {
	switch a {
	case ActionForce:
		return "FORCE"
	case ActionIntelligence:
		return "INTELLIGENCE"
	case ActionAgility:
		return "AGILITY"
	default:
		return "UNKNOWN"
	}
}

// ParseAction converts a label produced by String back into an Action.
//
// Postcondition: Returns the Action or an error for any other label.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("battle: unknown action %q", s)
}

// CounterOf returns the action that beats a.
//
//	FORCE        is countered by AGILITY
//	INTELLIGENCE is countered by FORCE
//	AGILITY      is countered by INTELLIGENCE
func CounterOf(a Action) Action {
	switch a {
	case ActionForce:
		return ActionAgility
	case ActionIntelligence:
		return ActionForce
	default:
		return ActionIntelligence
	}
}

// Counters reports whether attack beats defense in the same turn.
//
// Postcondition: Returns true iff CounterOf(defense) == attack.
func Counters(attack, defense Action) bool {
	return CounterOf(defense) == attack
}

// AttackStat is the attacker stat that an action scales with.
func (a Action) AttackStat() Stat {
	switch a {
	case ActionForce:
		return StatStrength
	case ActionIntelligence:
		return StatIntelligence
	default:
		return StatAgility
	}
}

// DefenseStat is the defender stat that reduces damage from an action.
func (a Action) DefenseStat() Stat {
	switch a {
	case ActionForce:
		return StatIntelligence
	case ActionIntelligence:
		return StatAgility
	default:
		return StatStrength
	}
}

// MarshalText encodes the action as its label.
func (a Action) MarshalText() ([]byte, error) {
	if a < ActionForce || a > ActionAgility {
		return nil, fmt.Errorf("battle: cannot marshal action %d", int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
