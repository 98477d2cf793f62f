package autopilot

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake3d/internal/world"
)

// Options are passed to a Factory.
type Options struct {
	Rules  world.Rules
	Script string // Lua source path, or "builtin"
	Logger *log.Logger
}

// Factory builds a fresh pilot.
type Factory func(opts Options) (Pilot, error)

// Info describes a registered pilot.
type Info struct {
	Name        string
	Description string
}

type entry struct {
	info    Info
	factory Factory
}

var (
	registry = make(map[string]entry)
	mu       sync.RWMutex
)

func init() {
	Register(Info{Name: "greedy", Description: "Heads for the nearest apple, avoiding walls and its body"},
		func(opts Options) (Pilot, error) { return NewGreedy(opts.Rules), nil })
	Register(Info{Name: "lua", Description: "Runs next_direction(state) from a Lua script"},
		func(opts Options) (Pilot, error) {
			if opts.Script == "" || opts.Script == "builtin" {
				return NewLuaString("builtin", BuiltinScript, opts.Rules, opts.Logger)
			}
			return NewLuaFile(opts.Script, opts.Rules, opts.Logger)
		})
}

// Register adds a pilot factory.
// Panics if a pilot with the same name is already registered.
func Register(info Info, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := registry[info.Name]; exists {
		panic(fmt.Sprintf("autopilot: pilot %q already registered", info.Name))
	}
	registry[info.Name] = entry{info: info, factory: f}
}

// List returns all registered pilots, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(registry))
	for _, e := range registry {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create builds the pilot registered under name.
func Create(name string, opts Options) (Pilot, error) {
	mu.RLock()
	e, ok := registry[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("autopilot: unknown pilot %q", name)
	}
	return e.factory(opts)
}

// Release frees whatever p holds. Pilots without resources are ignored.
func Release(p Pilot) {
	if c, ok := p.(interface{ Close() }); ok {
		c.Close()
	}
}
