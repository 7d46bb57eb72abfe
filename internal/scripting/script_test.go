package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap/zaptest"

	"github.com/framecs/runtime/internal/core/ecs"
)

const bulletSrc = `
bullet = {}

function bullet.init(self, entity)
  self.ttl = 0.05
  self.ticks = 0
  entity.add_group(5)
  entity.add_layer(2)
end

function bullet.update(self, entity, dt)
  self.ticks = self.ticks + 1
  self.ttl = self.ttl - dt
  if self.ttl <= 0 then
    entity.destroy()
  end
end

function bullet.release(self, entity)
  released = (released or 0) + 1
end
`

func newEngine(t *testing.T, src string) *Engine {
	t.Helper()
	e, err := NewEngine("", zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(e.Close)
	require.NoError(t, e.LoadString(src))
	return e
}

func TestScriptDrivesEntity(t *testing.T) {
	engine := newEngine(t, bulletSrc)
	m := ecs.NewManager()
	ent := m.AddEntity()

	s, err := ecs.AddComponent(ent, NewScript(engine, "bullet"))
	require.NoError(t, err)
	assert.True(t, ent.HasGroup(5))
	assert.True(t, ent.HasLayer(2))
	group, err := m.Group(5)
	require.NoError(t, err)
	assert.Equal(t, []*ecs.Entity{ent}, group)

	m.Update(30 * time.Millisecond)
	assert.True(t, ent.IsActive())
	m.Update(30 * time.Millisecond)
	assert.False(t, ent.IsActive())
	assert.Equal(t, lua.LNumber(2), s.Field("ticks"))

	stats, err := m.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Destroyed)
	assert.Equal(t, lua.LNumber(1), engine.vm.GetGlobal("released"))
	assert.Equal(t, lua.LNil, s.Field("ticks"), "self table dropped on release")
}

func TestScriptInstancesHaveSeparateState(t *testing.T) {
	engine := newEngine(t, bulletSrc)
	m := ecs.NewManager()
	a, err := ecs.AddComponent(m.AddEntity(), NewScript(engine, "bullet"))
	require.NoError(t, err)
	b, err := ecs.AddComponent(m.AddEntity(), NewScript(engine, "bullet"))
	require.NoError(t, err)

	a.SetField("ticks", lua.LNumber(10))
	m.Update(time.Millisecond)
	assert.Equal(t, lua.LNumber(11), a.Field("ticks"))
	assert.Equal(t, lua.LNumber(1), b.Field("ticks"))
	assert.Equal(t, "bullet", b.Behaviour())
}

func TestScriptUnknownBehaviour(t *testing.T) {
	engine := newEngine(t, "")
	m := ecs.NewManager()
	ent := m.AddEntity()

	_, err := ecs.AddComponent(ent, NewScript(engine, "missing"))
	require.ErrorContains(t, err, `behaviour "missing" is not defined`)
	assert.False(t, ecs.HasComponent[*Script](ent))
}

func TestScriptInitErrorAbortsAttach(t *testing.T) {
	engine := newEngine(t, `
bad = {}
function bad.init(self, entity)
  entity.add_group(99)
end
`)
	m := ecs.NewManager()
	ent := m.AddEntity()

	_, err := ecs.AddComponent(ent, NewScript(engine, "bad"))
	require.ErrorContains(t, err, "bad.init")
	assert.Equal(t, 0, ent.ComponentCount())
}

func TestScriptRuntimeErrorIsLoggedNotFatal(t *testing.T) {
	engine := newEngine(t, `
noisy = {}
function noisy.update(self, entity, dt)
  error("boom")
end
`)
	m := ecs.NewManager()
	ent := m.AddEntity()
	_, err := ecs.AddComponent(ent, NewScript(engine, "noisy"))
	require.NoError(t, err)

	assert.NotPanics(t, func() { m.Update(time.Millisecond) })
	assert.True(t, ent.IsActive())
}

func TestScriptHandleQueries(t *testing.T) {
	engine := newEngine(t, `
inspector = {}
function inspector.init(self, entity)
  entity.add_group(1)
  entity.del_group(1)
  self.in_group = entity.has_group(1)
  entity.add_layer(0)
  entity.del_layer(0)
  self.in_layer = entity.has_layer(0)
  self.active = entity.is_active()
  self.id = entity.id()
end
function inspector.render(self, entity)
  entity.set_active(false)
end
`)
	m := ecs.NewManager()
	ent := m.AddEntity()
	s, err := ecs.AddComponent(ent, NewScript(engine, "inspector"))
	require.NoError(t, err)

	assert.Equal(t, lua.LFalse, s.Field("in_group"))
	assert.Equal(t, lua.LFalse, s.Field("in_layer"))
	assert.Equal(t, lua.LTrue, s.Field("active"))
	assert.Equal(t, lua.LString(ent.ID().String()), s.Field("id"))

	m.Render()
	assert.False(t, ent.IsActive())
}

func TestNewEngineLoadsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("spin = {}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not lua"), 0o644))

	engine, err := NewEngine(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer engine.Close()
	assert.True(t, engine.HasBehaviour("spin"))
	assert.False(t, engine.HasBehaviour("notes"))

	missing, err := NewEngine(filepath.Join(dir, "nope"), zaptest.NewLogger(t))
	require.NoError(t, err)
	missing.Close()
}

func TestNewEngineReportsSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.lua"), []byte("function ("), 0o644))

	_, err := NewEngine(dir, zaptest.NewLogger(t))
	require.ErrorContains(t, err, "broken.lua")
}

func TestDefineConstants(t *testing.T) {
	engine := newEngine(t, "")
	engine.DefineConstants("groups", map[string]int{"enemy": 1})
	require.NoError(t, engine.LoadString(`
tagged = {}
function tagged.init(self, entity)
  entity.add_group(groups.enemy)
end
`))
	m := ecs.NewManager()
	ent := m.AddEntity()
	_, err := ecs.AddComponent(ent, NewScript(engine, "tagged"))
	require.NoError(t, err)
	assert.True(t, ent.HasGroup(1))
}

func TestScriptReleaseHookCannotRejoinGroups(t *testing.T) {
	engine := newEngine(t, `
ghost = {}
function ghost.release(self, entity)
  entity.add_group(4)
end
`)
	m := ecs.NewManager()
	ent := m.AddEntity()
	_, err := ecs.AddComponent(ent, NewScript(engine, "ghost"))
	require.NoError(t, err)
	ent.Destroy()

	_, err = m.Refresh()
	require.NoError(t, err)
	group, err := m.Group(4)
	require.NoError(t, err)
	assert.Empty(t, group)
	assert.True(t, ent.Released())
}

func TestNewEngineWithoutLogger(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.lua"), []byte("spin = {}"), 0o644))

	engine, err := NewEngine(dir, nil)
	require.NoError(t, err)
	defer engine.Close()
	assert.True(t, engine.HasBehaviour("spin"))
}
