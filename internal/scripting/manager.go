package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/trinity/internal/game/battle"
)

// chooseHook is the global function a strategy script must define.
const chooseHook = "choose"

// Manager owns one sandboxed LState per loaded strategy.
//
// Manager is safe for concurrent use. Each strategy VM is single-threaded and
// its Policy serializes calls with a mutex.
type Manager struct {
	mu         sync.RWMutex
	strategies map[string]*Policy
	instLimit  int
	logger     *zap.Logger
}

// NewManager creates an empty Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: instLimit <= 0 means DefaultInstructionLimit per call.
func NewManager(instLimit int, logger *zap.Logger) *Manager {
	return &Manager{
		strategies: make(map[string]*Policy),
		instLimit:  instLimit,
		logger:     logger,
	}
}

// LoadDir loads every *.lua file in dir as a strategy named after the file
// stem, in lexicographic order.
//
// Postcondition: Returns the number of strategies loaded or the first error.
func (m *Manager) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("scripting: reading strategy dir %q: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		src, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return 0, fmt.Errorf("scripting: reading %q: %w", name, err)
		}
		if err := m.Load(strings.TrimSuffix(name, ".lua"), string(src)); err != nil {
			return 0, err
		}
	}
	return len(files), nil
}

// Load compiles source into a new VM registered as name, replacing any
// strategy previously loaded under that name.
//
// Precondition: name must be non-empty.
// Postcondition: The strategy defines a global choose function, or an error is returned.
func (m *Manager) Load(name, source string) error {
	p := &Policy{name: name, instLimit: m.instLimit, logger: m.logger}
	L := NewSandboxedState()
	registerModule(L, func() battle.Source { return p.src })

	err := runLimited(L, m.instLimit, func() error { return L.DoString(source) })
	if err != nil {
		L.Close()
		return fmt.Errorf("scripting: loading strategy %q: %w", name, err)
	}
	if _, ok := L.GetGlobal(chooseHook).(*lua.LFunction); !ok {
		L.Close()
		return fmt.Errorf("scripting: strategy %q does not define %s(self, enemy)", name, chooseHook)
	}
	p.state = L

	m.mu.Lock()
	if old, ok := m.strategies[name]; ok {
		old.close()
	}
	m.strategies[name] = p
	m.mu.Unlock()

	m.logger.Info("strategy loaded", zap.String("strategy", name))
	return nil
}

// Names returns the loaded strategy names, sorted.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.strategies))
	for n := range m.strategies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Policy returns the named strategy as a battle.Policy. Whenever the script
// fails or returns something other than an action label, fallback decides.
//
// Precondition: fallback must be non-nil.
func (m *Manager) Policy(name string, fallback battle.Policy) (battle.Policy, error) {
	m.mu.RLock()
	p, ok := m.strategies[name]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("scripting: unknown strategy %q", name)
	}
	return &boundPolicy{Policy: p, fallback: fallback}, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, p := range m.strategies {
		p.close()
		delete(m.strategies, name)
	}
}
