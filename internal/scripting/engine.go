package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM shared by every Script component.
// Single-goroutine access only (the frame loop).
//
// A behaviour is a global Lua table whose optional fields init, update,
// render and release are functions called as f(self, entity[, dt]):
//
//	bullet = {}
//	function bullet.update(self, entity, dt)
//	  self.ttl = (self.ttl or 2) - dt
//	  if self.ttl <= 0 then entity.destroy() end
//	end
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads every .lua file in scriptsDir.
// A missing directory yields an empty engine. log may be nil.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{vm: vm, log: log}
	if scriptsDir == "" {
		return e, nil
	}
	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

// loadDir loads all .lua files in a directory in name order.
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

// LoadString runs a chunk of Lua source, typically defining behaviours.
func (e *Engine) LoadString(src string) error {
	if err := e.vm.DoString(src); err != nil {
		return fmt.Errorf("load lua chunk: %w", err)
	}
	return nil
}

// DefineConstants exposes values as a read-only-by-convention global
// table, e.g. DefineConstants("groups", ...) lets behaviours write
// entity.add_group(groups.enemy).
func (e *Engine) DefineConstants(name string, values map[string]int) {
	t := e.vm.NewTable()
	for k, v := range values {
		t.RawSetString(k, lua.LNumber(v))
	}
	e.vm.SetGlobal(name, t)
}

// HasBehaviour reports whether a behaviour table named name is defined.
func (e *Engine) HasBehaviour(name string) bool {
	_, ok := e.vm.GetGlobal(name).(*lua.LTable)
	return ok
}

func (e *Engine) behaviour(name string) (*lua.LTable, error) {
	def, ok := e.vm.GetGlobal(name).(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("behaviour %q is not defined", name)
	}
	return def, nil
}

// call invokes def[hook](args...) if it is a function.
func (e *Engine) call(def *lua.LTable, hook string, args ...lua.LValue) error {
	fn, ok := def.RawGetString(hook).(*lua.LFunction)
	if !ok {
		return nil
	}
	return e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    0,
		Protect: true,
	}, args...)
}

// Close shuts down the Lua VM.
func (e *Engine) Close() {
	e.vm.Close()
}
