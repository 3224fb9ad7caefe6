package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/journeygo/client/internal/physics"
)

// Engine wraps a single gopher-lua VM that steers the player object.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua VM and loads path, which may be a single .lua file
// or a directory of them. An empty path yields an engine with no controller.
func NewEngine(path string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	e := &Engine{vm: vm, log: log}
	if path == "" {
		return e, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		vm.Close()
		return nil, fmt.Errorf("stat script %s: %w", path, err)
	}
	if info.IsDir() {
		err = e.loadDir(path)
	} else {
		err = e.loadFile(path)
	}
	if err != nil {
		vm.Close()
		return nil, err
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// LoadString runs src in the VM, typically to define or replace control.
func (e *Engine) LoadString(src string) error {
	return e.vm.DoString(src)
}

// HasController reports whether a global control function is defined.
func (e *Engine) HasController() bool {
	_, ok := e.vm.GetGlobal("control").(*lua.LFunction)
	return ok
}

// Control calls control(obj) and returns the forces it asks for. The table
// passed in is a read-only view of the object; the function returns
// hforce, vforce. A missing function or a script error yields zero forces.
func (e *Engine) Control(o *physics.Object, mapID int32, tick uint64) (hforce, vforce float64) {
	fn, ok := e.vm.GetGlobal("control").(*lua.LFunction)
	if !ok {
		return 0, 0
	}

	t := e.vm.NewTable()
	t.RawSetString("x", lua.LNumber(o.X))
	t.RawSetString("y", lua.LNumber(o.Y))
	t.RawSetString("hspeed", lua.LNumber(o.HSpeed))
	t.RawSetString("vspeed", lua.LNumber(o.VSpeed))
	t.RawSetString("fh", lua.LNumber(o.FhID))
	t.RawSetString("layer", lua.LNumber(o.FhLayer))
	t.RawSetString("on_ground", lua.LBool(o.OnGround))
	t.RawSetString("type", lua.LString(o.Type.String()))
	t.RawSetString("map_id", lua.LNumber(mapID))
	t.RawSetString("tick", lua.LNumber(tick))

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    2,
		Protect: true,
	}, t); err != nil {
		e.log.Error("lua control error", zap.Error(err), zap.Uint64("tick", tick))
		return 0, 0
	}

	h := float64(lua.LVAsNumber(e.vm.Get(-2)))
	v := float64(lua.LVAsNumber(e.vm.Get(-1)))
	e.vm.Pop(2)
	if !finite(h) || !finite(v) {
		e.log.Warn("lua control returned a non-finite force",
			zap.Float64("hforce", h),
			zap.Float64("vforce", v),
			zap.Uint64("tick", tick),
		)
		return 0, 0
	}
	return h, v
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
