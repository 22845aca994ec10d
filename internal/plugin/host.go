// Package plugin hosts Lua scripts as child-context factories.
//
// A script is one child component: the host runs it in a sandboxed Lua
// state and calls its global setup(ctx) with a table wrapping a freshly
// constructed child context. Whatever the script registers during setup
// (event listeners, settings) is its construction side effect, exactly as
// with a Go ChildFactory.
package plugin

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/appshell/internal/app"
	"github.com/dshills/appshell/internal/store"
)

// Sentinel errors for the plugin host.
var (
	// ErrHostClosed is returned when a factory runs after Close.
	ErrHostClosed = errors.New("plugin host is closed")

	// ErrNoSetup is returned when a script defines no setup function.
	ErrNoSetup = errors.New("script does not define setup(ctx)")
)

// Host manages the Lua states behind script factories. States stay open
// for the life of the host because scripts register bus callbacks that
// call back into Lua; Close releases them.
type Host struct {
	mu     sync.Mutex
	states []*scriptState
	closed bool
}

// scriptState is one loaded script's runtime. The mutex serializes entry
// into the LState, which is not goroutine-safe.
type scriptState struct {
	mu sync.Mutex
	L  *lua.LState
}

// NewHost creates an empty host.
func NewHost() *Host {
	return &Host{}
}

// Factory returns a ChildFactory that runs the script at path under the
// parent it is invoked with. Script load or setup errors propagate out of
// the factory, and thus out of LoadChildren.
func (h *Host) Factory(path string) app.ChildFactory {
	return func(parent *app.Context) error {
		return h.run(path, parent)
	}
}

// Factories returns a factory per .lua file in dir, keyed by the script
// name without extension. A missing directory yields an empty map.
func (h *Host) Factories(dir string) (map[string]app.ChildFactory, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]app.ChildFactory{}, nil
		}
		return nil, fmt.Errorf("reading plugin dir %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	factories := make(map[string]app.ChildFactory, len(names))
	for _, name := range names {
		key := name[:len(name)-len(".lua")]
		factories[key] = h.Factory(filepath.Join(dir, name))
	}
	return factories, nil
}

// Close releases every script state. Callbacks registered by scripts must
// not be invoked afterwards.
func (h *Host) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for _, s := range h.states {
		s.mu.Lock()
		s.L.Close()
		s.mu.Unlock()
	}
	h.states = nil
}

// run loads and executes the script, then calls its setup(ctx).
func (h *Host) run(path string, parent *app.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return ErrHostClosed
	}
	h.mu.Unlock()

	L := lua.NewState()
	sandbox(L)

	state := &scriptState{L: L}
	child := app.NewChild(parent)

	if err := L.DoFile(path); err != nil {
		L.Close()
		return fmt.Errorf("running script %s: %w", path, err)
	}

	setup := L.GetGlobal("setup")
	fn, ok := setup.(*lua.LFunction)
	if !ok {
		L.Close()
		return fmt.Errorf("script %s: %w", path, ErrNoSetup)
	}

	ctxTable := buildContextTable(state, child)
	if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, ctxTable); err != nil {
		L.Close()
		return fmt.Errorf("script %s setup: %w", path, err)
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		L.Close()
		return ErrHostClosed
	}
	h.states = append(h.states, state)
	h.mu.Unlock()

	return nil
}

// sandbox removes the script escape hatches: file loading, the os and io
// modules.
func sandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "os", "io"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// buildContextTable wraps child in a table of Lua-callable functions.
func buildContextTable(s *scriptState, child *app.Context) *lua.LTable {
	L := s.L
	t := L.NewTable()

	L.SetField(t, "id", lua.LString(child.ID()))

	L.SetField(t, "listen", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		fn := L.CheckFunction(2)

		err := child.Listen(name, func(payload any) error {
			s.mu.Lock()
			defer s.mu.Unlock()

			return L.CallByParam(
				lua.P{Fn: fn, NRet: 0, Protect: true},
				goToLua(L, payload),
			)
		})
		if err != nil {
			L.RaiseError("listen: %v", err)
		}
		return 0
	}))

	L.SetField(t, "notify", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		payload := luaToGo(L.Get(2))

		if err := child.Notify(name, payload); err != nil {
			L.RaiseError("notify: %v", err)
		}
		return 0
	}))

	L.SetField(t, "settings", L.NewFunction(func(L *lua.LState) int {
		L.Push(goToLua(L, child.Settings()))
		return 1
	}))

	L.SetField(t, "add_settings", L.NewFunction(func(L *lua.LState) int {
		entries, ok := luaToGo(L.CheckTable(1)).(map[string]any)
		if !ok {
			L.RaiseError("add_settings: expected a table of entries")
			return 0
		}
		child.AddSettings(entries)
		return 0
	}))

	L.SetField(t, "persist", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		value := luaToGo(L.Get(2))

		if err := child.PersistObject(key, value); err != nil {
			L.RaiseError("persist: %v", err)
		}
		return 0
	}))

	L.SetField(t, "retrieve", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)

		value, err := child.RetrieveObject(key)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				L.Push(lua.LNil)
				return 1
			}
			L.RaiseError("retrieve: %v", err)
			return 0
		}
		L.Push(goToLua(L, value))
		return 1
	}))

	L.SetField(t, "remove", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)

		if err := child.RemoveObject(key); err != nil {
			L.RaiseError("remove: %v", err)
		}
		return 0
	}))

	L.SetField(t, "log", L.NewFunction(func(L *lua.LState) int {
		child.Logger().Info("%s", L.CheckString(1))
		return 0
	}))

	return t
}
