package scripting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"pgregory.net/rapid"
)

func TestNewSandboxedState_UnsafeGlobalsNil(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	for _, name := range []string{"os", "io", "debug", "dofile", "loadfile", "load", "collectgarbage", "require"} {
		assert.Equal(t, lua.LNil, L.GetGlobal(name), "expected %s to be nil", name)
	}
	require.NoError(t, L.DoString(`assert(math.random == nil, "math.random must be removed")`))
}

func TestNewSandboxedState_SafeLibsAvailable(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	assert.NoError(t, L.DoString(`
		assert(math.floor(2.5) == 2)
		assert(string.upper("force") == "FORCE")
		local t = {}
		table.insert(t, 1)
		assert(#t == 1)
	`))
}

func TestRunLimited_StopsInfiniteLoop(t *testing.T) {
	L := NewSandboxedState()
	defer L.Close()
	err := runLimited(L, 50, func() error { return L.DoString(`while true do end`) })
	assert.Error(t, err)

	// the VM stays usable with a fresh budget.
	assert.NoError(t, runLimited(L, 0, func() error { return L.DoString(`local x = 1 + 1`) }))
}

func TestProperty_RunLimited_AlwaysStopsLoops(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(1, 5000).Draw(rt, "limit")
		L := NewSandboxedState()
		defer L.Close()
		if err := runLimited(L, limit, func() error { return L.DoString(`while true do end`) }); err == nil {
			rt.Fatalf("limit %d did not stop the loop", limit)
		}
	})
}
