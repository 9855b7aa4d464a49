package battle_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

func TestDominantStat_PicksLargest(t *testing.T) {
	c := battle.Combatant{Strength: 24, Agility: 32, Intelligence: 56}
	assert.Equal(t, battle.StatIntelligence, c.DominantStat())
	assert.Equal(t, battle.ActionIntelligence, c.PredictAction())

	c = battle.Combatant{Strength: 30, Agility: 52, Intelligence: 28}
	assert.Equal(t, battle.StatAgility, c.DominantStat())
	assert.Equal(t, battle.ActionAgility, c.PredictAction())
}

func TestDominantStat_TieBreakOrder(t *testing.T) {
	assert.Equal(t, battle.StatStrength, battle.Combatant{Strength: 10, Agility: 10, Intelligence: 10}.DominantStat())
	assert.Equal(t, battle.StatStrength, battle.Combatant{Strength: 10, Agility: 10, Intelligence: 3}.DominantStat())
	assert.Equal(t, battle.StatStrength, battle.Combatant{Strength: 10, Agility: 3, Intelligence: 10}.DominantStat())
	assert.Equal(t, battle.StatAgility, battle.Combatant{Strength: 3, Agility: 10, Intelligence: 10}.DominantStat())
	assert.Equal(t, battle.StatStrength, battle.Combatant{}.DominantStat())
}

func TestValidate(t *testing.T) {
	ok := battle.Combatant{ID: "a", Level: 1}
	assert.NoError(t, ok.Validate())

	bad := battle.Combatant{Strength: -1, Level: 0}
	err := bad.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, battle.ErrInvalidCombatant)
	assert.Contains(t, err.Error(), "id must not be empty")
	assert.Contains(t, err.Error(), "strength must be >= 0")
	assert.Contains(t, err.Error(), "level must be >= 1")
}

func TestProperty_DominantStat_IsMaximal(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := battle.Combatant{
			Strength:     rapid.IntRange(0, 100).Draw(rt, "str"),
			Agility:      rapid.IntRange(0, 100).Draw(rt, "agi"),
			Intelligence: rapid.IntRange(0, 100).Draw(rt, "int"),
		}
		d := c.DominantStat()
		for _, s := range []battle.Stat{battle.StatStrength, battle.StatAgility, battle.StatIntelligence} {
			if c.Stat(s) > c.Stat(d) {
				rt.Fatalf("dominant %s=%d smaller than %s=%d", d, c.Stat(d), s, c.Stat(s))
			}
		}
	})
}

func TestCombatant_JSONFieldNames(t *testing.T) {
	c := battle.Combatant{ID: "x", Name: "n", Strength: 1, Agility: 2, Intelligence: 3, Level: 4, Origin: battle.OriginDemo}
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","name":"n","strength":1,"agility":2,"intelligence":3,"level":4,"origin":"demo"}`, string(raw))

	raw, err = json.Marshal(battle.Combatant{ID: "y", Name: "m", Level: 1})
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "origin")

	var back battle.Combatant
	require.NoError(t, json.Unmarshal([]byte(`{"id":"x","name":"n","strength":1,"agility":2,"intelligence":3,"level":4,"origin":"demo"}`), &back))
	assert.Equal(t, c, back)
}
