package scripting_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/trinity/internal/game/battle"
	"github.com/cory-johannsen/trinity/internal/game/dice"
	"github.com/cory-johannsen/trinity/internal/scripting"
)

var (
	seer = battle.Combatant{ID: "seer", Name: "Psi Seer", Strength: 24, Agility: 32, Intelligence: 56, Level: 4}
	wisp = battle.Combatant{ID: "wisp", Name: "Neon Wisp", Strength: 32, Agility: 55, Intelligence: 26, Level: 2}
)

func newManager(t *testing.T) (*scripting.Manager, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	m := scripting.NewManager(0, zap.New(core))
	t.Cleanup(m.Close)
	return m, logs
}

// constPolicy always plays one action; it marks fallback use in tests.
type constPolicy battle.Action

func (c constPolicy) Choose(battle.Combatant, battle.Combatant, battle.Source) battle.Action {
	return battle.Action(c)
}

func TestManager_LoadRejectsMissingChoose(t *testing.T) {
	m, _ := newManager(t)
	err := m.Load("empty", `local x = 1`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "choose")
}

func TestManager_LoadRejectsSyntaxError(t *testing.T) {
	m, _ := newManager(t)
	assert.Error(t, m.Load("broken", `function choose(`))
}

func TestManager_UnknownStrategy(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.Policy("nope", battle.ScriptedPolicy)
	assert.Error(t, err)
}

func TestPolicy_UsesModuleHelpers(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("counter", `
		function choose(self, enemy)
			return trinity.counter(trinity.predict(enemy))
		end
	`))
	p, err := m.Policy("counter", constPolicy(battle.ActionForce))
	require.NoError(t, err)

	// wisp favours agility; intelligence counters agility.
	assert.Equal(t, battle.ActionIntelligence, p.Choose(seer, wisp, dice.NewReplaySource(0.5)))
}

func TestPolicy_RandomDrawsFromBattleSource(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("roulette", `
		function choose(self, enemy)
			local i = math.floor(trinity.random() * #trinity.actions) + 1
			return trinity.actions[i]
		end
	`))
	p, err := m.Policy("roulette", constPolicy(battle.ActionForce))
	require.NoError(t, err)

	src := dice.NewReplaySource(0.1, 0.5, 0.9)
	assert.Equal(t, battle.ActionForce, p.Choose(seer, wisp, src))
	assert.Equal(t, battle.ActionIntelligence, p.Choose(seer, wisp, src))
	assert.Equal(t, battle.ActionAgility, p.Choose(seer, wisp, src))
}

func TestPolicy_FallbackOnBadReturn(t *testing.T) {
	m, logs := newManager(t)
	require.NoError(t, m.Load("bad", `function choose(self, enemy) return "SPEED" end`))
	p, err := m.Policy("bad", constPolicy(battle.ActionAgility))
	require.NoError(t, err)

	assert.Equal(t, battle.ActionAgility, p.Choose(seer, wisp, dice.NewReplaySource(0)))
	assert.Equal(t, 1, logs.FilterMessage("strategy failed, using fallback").Len())
}

func TestPolicy_FallbackOnRuntimeErrorAndRunaway(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Load("boom", `function choose(self, enemy) error("boom") end`))
	require.NoError(t, m.Load("spin", `function choose(self, enemy) while true do end end`))

	for _, name := range []string{"boom", "spin"} {
		p, err := m.Policy(name, constPolicy(battle.ActionIntelligence))
		require.NoError(t, err)
		assert.Equal(t, battle.ActionIntelligence, p.Choose(seer, wisp, dice.NewReplaySource(0)), name)
	}
}

func TestPolicy_DrivesResolverDeterministically(t *testing.T) {
	m, _ := newManager(t)
	n, err := m.LoadDir(filepath.Join("..", "..", "content", "scripts", "strategies"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"grudge", "roulette"}, m.Names())

	p, err := m.Policy("grudge", battle.ScriptedPolicy)
	require.NoError(t, err)
	r := battle.NewResolver(battle.WithOpponentPolicy(p), battle.WithIDGenerator(battle.SourceIDs))

	first := r.Resolve(wisp, seer, dice.NewSeededSource(7))
	second := r.Resolve(wisp, seer, dice.NewSeededSource(7))
	assert.Equal(t, first, second)
	assert.Equal(t, first.TotalTurns, len(first.Turns))
}

func TestManager_LoadDirErrors(t *testing.T) {
	m, _ := newManager(t)
	_, err := m.LoadDir(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte(`x = `), 0o644))
	_, err = m.LoadDir(dir)
	assert.Error(t, err)
}
