package scripting

import (
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// Policy is a loaded strategy script.
type Policy struct {
	mu        sync.Mutex
	name      string
	state     *lua.LState
	src       battle.Source
	instLimit int
	logger    *zap.Logger
}

// call runs choose(self, enemy) with src bound to trinity.random.
//
// Postcondition: Returns a valid Action or an error; the VM is left usable.
func (p *Policy) call(self, enemy battle.Combatant, src battle.Source) (battle.Action, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == nil {
		return 0, fmt.Errorf("strategy %q is closed", p.name)
	}

	p.src = src
	defer func() { p.src = nil }()

	L := p.state
	err := runLimited(L, p.instLimit, func() error {
		return L.CallByParam(lua.P{
			Fn:      L.GetGlobal(chooseHook),
			NRet:    1,
			Protect: true,
		}, toTable(L, self), toTable(L, enemy))
	})
	if err != nil {
		return 0, err
	}
	ret := L.Get(-1)
	L.Pop(1)

	s, ok := ret.(lua.LString)
	if !ok {
		return 0, fmt.Errorf("choose returned %s, want an action string", ret.Type())
	}
	return battle.ParseAction(string(s))
}

func (p *Policy) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != nil {
		p.state.Close()
		p.state = nil
	}
}

// boundPolicy pairs a script with the policy used when it misbehaves.
type boundPolicy struct {
	*Policy
	fallback battle.Policy
}

// Choose implements battle.Policy.
func (b *boundPolicy) Choose(self, enemy battle.Combatant, src battle.Source) battle.Action {
	a, err := b.call(self, enemy, src)
	if err != nil {
		b.logger.Warn("strategy failed, using fallback",
			zap.String("strategy", b.name),
			zap.String("combatant", self.ID),
			zap.Error(err),
		)
		return b.fallback.Choose(self, enemy, src)
	}
	return a
}
