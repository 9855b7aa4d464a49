package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// registerModule installs the trinity.* table into L. random draws from the
// source returned by src at call time.
func registerModule(L *lua.LState, src func() battle.Source) {
	mod := L.NewTable()

	actions := L.NewTable()
	for _, a := range battle.Actions {
		actions.Append(lua.LString(a.String()))
	}
	mod.RawSetString("actions", actions)

	mod.RawSetString("random", L.NewFunction(func(L *lua.LState) int {
		s := src()
		if s == nil {
			L.RaiseError("trinity.random called outside a battle")
			return 0
		}
		L.Push(lua.LNumber(s.Float64()))
		return 1
	}))

	mod.RawSetString("counter", L.NewFunction(func(L *lua.LState) int {
		a, err := battle.ParseAction(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		L.Push(lua.LString(battle.CounterOf(a).String()))
		return 1
	}))

	mod.RawSetString("predict", L.NewFunction(func(L *lua.LState) int {
		c := fromTable(L.CheckTable(1))
		L.Push(lua.LString(c.PredictAction().String()))
		return 1
	}))

	L.SetGlobal("trinity", mod)
}

// toTable snapshots a combatant for a script.
func toTable(L *lua.LState, c battle.Combatant) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("id", lua.LString(c.ID))
	t.RawSetString("name", lua.LString(c.Name))
	t.RawSetString("strength", lua.LNumber(c.Strength))
	t.RawSetString("agility", lua.LNumber(c.Agility))
	t.RawSetString("intelligence", lua.LNumber(c.Intelligence))
	t.RawSetString("level", lua.LNumber(c.Level))
	return t
}

// fromTable reads the stat fields back; missing fields are zero.
func fromTable(t *lua.LTable) battle.Combatant {
	num := func(key string) int {
		if n, ok := t.RawGetString(key).(lua.LNumber); ok {
			return int(n)
		}
		return 0
	}
	return battle.Combatant{
		ID:           lua.LVAsString(t.RawGetString("id")),
		Name:         lua.LVAsString(t.RawGetString("name")),
		Strength:     num("strength"),
		Agility:      num("agility"),
		Intelligence: num("intelligence"),
		Level:        num("level"),
	}
}
