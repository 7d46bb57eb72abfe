package scripting

import (
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/framecs/runtime/internal/core/ecs"
)

// Script is a component whose hooks are implemented by a Lua behaviour.
// Each instance gets its own self table, so one behaviour can drive many
// entities.
type Script struct {
	ecs.Base
	engine    *Engine
	behaviour string

	def    *lua.LTable
	self   *lua.LTable
	handle *lua.LTable
}

func NewScript(engine *Engine, behaviour string) *Script {
	return &Script{engine: engine, behaviour: behaviour}
}

func (s *Script) Behaviour() string { return s.behaviour }

// Field reads a value from the instance's self table.
func (s *Script) Field(name string) lua.LValue {
	if s.self == nil {
		return lua.LNil
	}
	return s.self.RawGetString(name)
}

// SetField writes a value into the instance's self table.
func (s *Script) SetField(name string, v lua.LValue) {
	if s.self != nil {
		s.self.RawSetString(name, v)
	}
}

func (s *Script) Init() error {
	def, err := s.engine.behaviour(s.behaviour)
	if err != nil {
		return err
	}
	s.def = def
	s.self = s.engine.vm.NewTable()
	s.handle = s.engine.entityHandle(s)
	if err := s.engine.call(def, "init", s.self, s.handle); err != nil {
		s.def, s.self, s.handle = nil, nil, nil
		return fmt.Errorf("%s.init: %w", s.behaviour, err)
	}
	return nil
}

func (s *Script) Update(dt time.Duration) {
	s.invoke("update", lua.LNumber(dt.Seconds()))
}

func (s *Script) Render() {
	s.invoke("render")
}

// Release runs the behaviour's release hook and drops the Lua references.
func (s *Script) Release() {
	s.invoke("release")
	s.def, s.self, s.handle = nil, nil, nil
}

func (s *Script) invoke(hook string, extra ...lua.LValue) {
	if s.def == nil {
		return
	}
	args := append([]lua.LValue{s.self, s.handle}, extra...)
	if err := s.engine.call(s.def, hook, args...); err != nil {
		s.engine.log.Error("lua hook error",
			zap.String("behaviour", s.behaviour),
			zap.String("hook", hook),
			zap.Stringer("entity", s.Owner()),
			zap.Error(err),
		)
	}
}

// entityHandle builds the table a behaviour uses to reach its entity.
// Functions are called with a dot, e.g. entity.add_group(2).
func (e *Engine) entityHandle(s *Script) *lua.LTable {
	owner := func(L *lua.LState) *ecs.Entity {
		ent, ok := s.Entity()
		if !ok {
			L.RaiseError("entity %s has been released", s.Owner())
		}
		return ent
	}
	check := func(L *lua.LState, err error) {
		if err != nil {
			L.RaiseError("%v", err)
		}
	}

	fns := map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			L.Push(lua.LString(s.Owner().String()))
			return 1
		},
		"is_active": func(L *lua.LState) int {
			L.Push(lua.LBool(owner(L).IsActive()))
			return 1
		},
		"set_active": func(L *lua.LState) int {
			owner(L).SetActive(L.CheckBool(1))
			return 0
		},
		"destroy": func(L *lua.LState) int {
			owner(L).Destroy()
			return 0
		},
		"add_group": func(L *lua.LState) int {
			check(L, owner(L).AddGroup(ecs.Group(L.CheckInt(1))))
			return 0
		},
		"del_group": func(L *lua.LState) int {
			check(L, owner(L).DelGroup(ecs.Group(L.CheckInt(1))))
			return 0
		},
		"has_group": func(L *lua.LState) int {
			L.Push(lua.LBool(owner(L).HasGroup(ecs.Group(L.CheckInt(1)))))
			return 1
		},
		"add_layer": func(L *lua.LState) int {
			check(L, owner(L).AddLayer(ecs.Layer(L.CheckInt(1))))
			return 0
		},
		"del_layer": func(L *lua.LState) int {
			check(L, owner(L).DelLayer(ecs.Layer(L.CheckInt(1))))
			return 0
		},
		"has_layer": func(L *lua.LState) int {
			L.Push(lua.LBool(owner(L).HasLayer(ecs.Layer(L.CheckInt(1)))))
			return 1
		},
	}

	t := e.vm.NewTable()
	for name, fn := range fns {
		t.RawSetString(name, e.vm.NewFunction(fn))
	}
	return t
}
