package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/trinity/internal/game/dice"
)

func TestRollResult_TotalAndString(t *testing.T) {
	r := dice.RollResult{Expression: "1d41-1", Dice: []int{17}, Modifier: -1}
	assert.Equal(t, 16, r.Total())
	assert.Equal(t, "1d41-1 → [17] -1 = 16", r.String())
}

func TestParse_Forms(t *testing.T) {
	cases := []struct {
		in                   string
		count, sides, modifi int
	}{
		{"d20", 1, 20, 0},
		{"2d6", 2, 6, 0},
		{"2d6+3", 2, 6, 3},
		{"1d41-1", 1, 41, -1},
		{" 3D8-2 ", 3, 8, -2},
	}
	for _, tc := range cases {
		e, err := dice.Parse(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.count, e.Count, tc.in)
		assert.Equal(t, tc.sides, e.Sides, tc.in)
		assert.Equal(t, tc.modifi, e.Modifier, tc.in)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "20", "0d6", "1d1", "d", "2d6+", "2x6"} {
		_, err := dice.Parse(in)
		assert.Error(t, err, in)
	}
	assert.Panics(t, func() { dice.MustParse("nope") })
}

func TestReplaySource_Cycles(t *testing.T) {
	src := dice.NewReplaySource(0.1, 0.9)
	assert.Equal(t, 0.1, src.Float64())
	assert.Equal(t, 0.9, src.Float64())
	assert.Equal(t, 0.1, src.Float64())
	// floor(0.9*10) = 9
	assert.Equal(t, 9, src.Intn(10))
	assert.Panics(t, func() { dice.NewReplaySource() })
}

func TestSeededSource_Reproducible(t *testing.T) {
	a := dice.NewSeededSource(42)
	b := dice.NewSeededSource(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Float64(), b.Float64())
	}
}

func TestCryptoSource_InRange(t *testing.T) {
	src := dice.NewCryptoSource()
	for i := 0; i < 1000; i++ {
		f := src.Float64()
		assert.GreaterOrEqual(t, f, 0.0)
		assert.Less(t, f, 1.0)
		v := src.Intn(6)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 6)
	}
	assert.Panics(t, func() { src.Intn(0) })
}

func TestLoggedRoller_LogsRoll(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	roller := dice.NewLoggedRoller(dice.NewReplaySource(0.5), zap.New(core))

	res, err := roller.RollExpr("1d41-1")
	require.NoError(t, err)

	// floor(0.5*41)+1-1 = 20
	assert.Equal(t, 20, res.Total())
	entries := logs.FilterMessage("dice roll").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(20), entries[0].ContextMap()["total"])
}

func TestLoggedSource_LogsDraws(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	src := dice.NewLoggedSource(dice.NewReplaySource(0.25), zap.New(core))

	assert.Equal(t, 0.25, src.Float64())
	assert.Equal(t, 1, src.Intn(4))
	assert.Equal(t, 1, logs.FilterMessage("random draw").Len())
	assert.Equal(t, 1, logs.FilterMessage("random int").Len())
}

func TestProperty_Roll_WithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := dice.Expression{
			Raw:      "NdS+M",
			Count:    rapid.IntRange(1, 10).Draw(rt, "count"),
			Sides:    rapid.IntRange(2, 100).Draw(rt, "sides"),
			Modifier: rapid.IntRange(-20, 20).Draw(rt, "mod"),
		}
		res := dice.Roll(e, dice.NewSeededSource(rapid.Uint64().Draw(rt, "seed")))
		if len(res.Dice) != e.Count {
			rt.Fatalf("rolled %d dice, want %d", len(res.Dice), e.Count)
		}
		if res.Total() < e.Min() || res.Total() > e.Max() {
			rt.Fatalf("total %d outside [%d, %d]", res.Total(), e.Min(), e.Max())
		}
	})
}
