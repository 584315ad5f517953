package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/simcore/server/internal/core/ecs"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Host is the slice of the simulation scripts can reach. Removals requested
// by scripts are queued; they run between steps like any other removal.
type Host interface {
	WorldByName(name string) ecs.Identity
	ModelCount(world ecs.Identity) int
	ModelByName(world ecs.Identity, name string) ecs.Identity
	RequestRemoval(model ecs.Identity) bool
}

// Engine wraps a single gopher-lua VM. Single-goroutine access only (tick loop).
type Engine struct {
	vm   *lua.LState
	host Host
	log  *zap.Logger
}

// NewEngine creates a Lua engine, installs the host API and loads every
// script in dir. A missing dir loads nothing.
func NewEngine(dir string, host Host, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, host: host, log: log}
	e.install()

	if err := e.loadDir(dir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) install() {
	e.vm.SetGlobal("remove_model", e.vm.NewFunction(e.luaRemoveModel))
	e.vm.SetGlobal("model_count", e.vm.NewFunction(e.luaModelCount))
	e.vm.SetGlobal("model_exists", e.vm.NewFunction(e.luaModelExists))
}

// loadDir loads all .lua files in dir in name order.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// LoadString runs a chunk of Lua source.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// Tick calls the global on_tick(n) when a script defines it.
func (e *Engine) Tick(n uint64) {
	fn := e.vm.GetGlobal("on_tick")
	if fn == lua.LNil {
		return
	}
	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, lua.LNumber(n)); err != nil {
		e.log.Error("lua on_tick error", zap.Uint64("tick", n), zap.Error(err))
	}
}

// remove_model(world, model) -> bool
func (e *Engine) luaRemoveModel(L *lua.LState) int {
	world := e.host.WorldByName(L.CheckString(1))
	model := e.host.ModelByName(world, L.CheckString(2))
	ok := model.Valid() && e.host.RequestRemoval(model)
	L.Push(lua.LBool(ok))
	return 1
}

// model_count(world) -> number
func (e *Engine) luaModelCount(L *lua.LState) int {
	world := e.host.WorldByName(L.CheckString(1))
	n := 0
	if world.Valid() {
		n = e.host.ModelCount(world)
	}
	L.Push(lua.LNumber(n))
	return 1
}

// model_exists(world, model) -> bool
func (e *Engine) luaModelExists(L *lua.LState) int {
	world := e.host.WorldByName(L.CheckString(1))
	L.Push(lua.LBool(e.host.ModelByName(world, L.CheckString(2)).Valid()))
	return 1
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
