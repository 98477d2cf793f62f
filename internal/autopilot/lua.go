package autopilot

import (
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/snake3d/internal/world"
)

// BuiltinScript is a small wall-avoiding pilot written in Lua. It is used
// when a script path of "builtin" is given.
//
//go:embed scripts/wander.lua
var BuiltinScript string

// entryPoint is the global function a script must define.
const entryPoint = "next_direction"

// ErrNoEntryPoint is returned when a script does not define next_direction.
var ErrNoEntryPoint = errors.New("autopilot: script does not define " + entryPoint)

// Lua runs a pilot script on its own VM. Not safe for concurrent use;
// parallel games each need their own Lua pilot.
type Lua struct {
	name   string
	vm     *lua.LState
	bound  int
	logger *log.Logger
}

// NewLuaFile loads a pilot script from disk.
func NewLuaFile(path string, rules world.Rules, logger *log.Logger) (*Lua, error) {
	return newLua(path, rules, logger, func(vm *lua.LState) error { return vm.DoFile(path) })
}

// NewLuaString loads a pilot script from source.
func NewLuaString(name, source string, rules world.Rules, logger *log.Logger) (*Lua, error) {
	return newLua(name, rules, logger, func(vm *lua.LState) error { return vm.DoString(source) })
}

func newLua(name string, rules world.Rules, logger *log.Logger, load func(*lua.LState) error) (*Lua, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if rules.WallBound == 0 {
		rules = world.DefaultRules()
	}

	vm := lua.NewState()
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if err := load(vm); err != nil {
		vm.Close()
		return nil, fmt.Errorf("autopilot: load %s: %w", name, err)
	}
	if vm.GetGlobal(entryPoint).Type() != lua.LTFunction {
		vm.Close()
		return nil, fmt.Errorf("%w (%s)", ErrNoEntryPoint, name)
	}

	logger.Debug("loaded lua pilot", "script", name)
	return &Lua{name: name, vm: vm, bound: rules.WallBound, logger: logger}, nil
}

func (l *Lua) Name() string { return "lua:" + l.name }

// Next calls next_direction(state) and parses the returned heading name.
func (l *Lua) Next(snap world.Snapshot) (world.Direction, error) {
	if err := l.vm.CallByParam(lua.P{
		Fn:      l.vm.GetGlobal(entryPoint),
		NRet:    1,
		Protect: true,
	}, l.stateTable(snap)); err != nil {
		return snap.Direction, fmt.Errorf("call %s: %w", entryPoint, err)
	}

	ret := l.vm.Get(-1)
	l.vm.Pop(1)

	name, ok := ret.(lua.LString)
	if !ok {
		return snap.Direction, fmt.Errorf("%s returned %s, want a string", entryPoint, ret.Type())
	}
	dir, ok := world.ParseDirection(string(name))
	if !ok {
		return snap.Direction, fmt.Errorf("%s returned unknown direction %q", entryPoint, string(name))
	}
	return dir, nil
}

// stateTable packs a snapshot for the script. Coordinates are in cells.
func (l *Lua) stateTable(snap world.Snapshot) *lua.LTable {
	vm := l.vm
	t := vm.NewTable()

	point := func(p world.Pos) *lua.LTable {
		x, z := p.Coords()
		pt := vm.NewTable()
		pt.RawSetString("x", lua.LNumber(x))
		pt.RawSetString("z", lua.LNumber(z))
		return pt
	}

	snake := vm.NewTable()
	for _, seg := range snap.Snake {
		snake.Append(point(seg))
	}
	apples := vm.NewTable()
	for _, a := range snap.Apples {
		apples.Append(point(a))
	}

	t.RawSetString("head", point(snap.Head()))
	t.RawSetString("snake", snake)
	t.RawSetString("apples", apples)
	t.RawSetString("direction", lua.LString(snap.Direction.String()))
	t.RawSetString("score", lua.LNumber(snap.Score))
	t.RawSetString("tick", lua.LNumber(snap.Tick))
	t.RawSetString("bound", lua.LNumber(l.bound))
	return t
}

// Close releases the Lua VM.
func (l *Lua) Close() {
	l.vm.Close()
}
