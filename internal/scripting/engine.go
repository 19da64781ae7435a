package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for entity behavior scripts.
// Single-goroutine access only (game loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory: lib/ first, then controllers/.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})

	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}

	if err := e.loadDir(filepath.Join(scriptsDir, "lib")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load lib scripts: %w", err)
	}
	if err := e.loadDir(filepath.Join(scriptsDir, "controllers")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load controller scripts: %w", err)
	}

	return e, nil
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // skip missing dirs
		}
		return err
	}
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

// Close shuts down the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// HasHook reports whether a global Lua function with this name exists.
func (e *Engine) HasHook(name string) bool {
	return e.vm.GetGlobal(name).Type() == lua.LTFunction
}

// TickContext is the entity state handed to a controller tick hook.
type TickContext struct {
	ID           int32
	X, Y, Z      float64
	ViewDistance int
	Age          int // completed controller ticks
}

// TickResult is what a tick hook may hand back. Zero fields mean "leave
// unchanged".
type TickResult struct {
	Moved        bool
	X, Y, Z      float64
	Die          bool
	ViewDistance int // 0 = unchanged
}

// CallTick calls the named Lua tick hook with ctx. Script errors are
// logged and yield a no-op result so one broken script cannot stall the
// tick.
func (e *Engine) CallTick(hook string, ctx TickContext) TickResult {
	fn := e.vm.GetGlobal(hook)
	if fn == lua.LNil {
		e.log.Error("lua tick hook not found", zap.String("hook", hook))
		return TickResult{}
	}

	t := e.vm.NewTable()
	t.RawSetString("id", lua.LNumber(ctx.ID))
	t.RawSetString("x", lua.LNumber(ctx.X))
	t.RawSetString("y", lua.LNumber(ctx.Y))
	t.RawSetString("z", lua.LNumber(ctx.Z))
	t.RawSetString("view_distance", lua.LNumber(ctx.ViewDistance))
	t.RawSetString("age", lua.LNumber(ctx.Age))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua tick hook error", zap.String("hook", hook), zap.Error(err))
		return TickResult{}
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	rt, ok := result.(*lua.LTable)
	if !ok {
		// nil return = nothing to do this tick
		if result != lua.LNil {
			e.log.Error("lua tick hook returned non-table", zap.String("hook", hook))
		}
		return TickResult{}
	}

	var res TickResult
	if x := rt.RawGetString("x"); x != lua.LNil {
		res.Moved = true
		res.X = float64(lua.LVAsNumber(x))
		res.Y = float64(lua.LVAsNumber(rt.RawGetString("y")))
		res.Z = float64(lua.LVAsNumber(rt.RawGetString("z")))
	}
	res.Die = rt.RawGetString("die") == lua.LTrue
	res.ViewDistance = int(lua.LVAsNumber(rt.RawGetString("view_distance")))
	return res
}
