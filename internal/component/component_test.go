package component

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/framecs/runtime/internal/core/ecs"
	"github.com/framecs/runtime/internal/render"
)

func TestVelocityMovesPosition(t *testing.T) {
	m := ecs.NewManager()
	e := m.AddEntity()
	pos, err := ecs.AddComponent(e, &Position{X: 1, Y: 1})
	require.NoError(t, err)
	_, err = ecs.AddComponent(e, &Velocity{DX: 4, DY: -2})
	require.NoError(t, err)

	m.Update(500 * time.Millisecond)

	assert.InDelta(t, 3.0, pos.X, 1e-9)
	assert.InDelta(t, 0.0, pos.Y, 1e-9)
}

func TestPositionCellFloors(t *testing.T) {
	cases := []struct {
		x, y   float64
		cx, cy int
	}{
		{2.7, 1.0, 2, 1},
		{-0.5, -0.01, -1, -1},
		{-2.0, 0.99, -2, 0},
	}
	for _, c := range cases {
		x, y := (&Position{X: c.x, Y: c.y}).Cell()
		assert.Equal(t, c.cx, x, "x=%v", c.x)
		assert.Equal(t, c.cy, y, "y=%v", c.y)
	}
}

func TestVelocityRequiresPosition(t *testing.T) {
	m := ecs.NewManager()
	e := m.AddEntity()
	_, err := ecs.AddComponent(e, &Velocity{DX: 1})
	require.ErrorIs(t, err, ecs.ErrComponentNotFound)
	assert.Equal(t, 0, e.ComponentCount())
}

func TestInitWithoutOwnerFails(t *testing.T) {
	require.ErrorIs(t, (&Velocity{}).Init(), ErrDetached)
	require.ErrorIs(t, (&Bounds{}).Init(), ErrDetached)
	require.ErrorIs(t, (&Sprite{}).Init(), ErrDetached)
}

func TestBoundsDestroysOutsideArea(t *testing.T) {
	m := ecs.NewManager()
	e := m.AddEntity()
	_, err := ecs.AddComponent(e, &Position{X: 9.5})
	require.NoError(t, err)
	_, err = ecs.AddComponent(e, &Velocity{DX: 1})
	require.NoError(t, err)
	_, err = ecs.AddComponent(e, &Bounds{W: 10, H: 10})
	require.NoError(t, err)

	m.Update(100 * time.Millisecond)
	assert.True(t, e.IsActive())
	m.Update(time.Second)
	assert.False(t, e.IsActive())

	stats, err := m.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Destroyed)
}

func TestHealthDamageAndHeal(t *testing.T) {
	m := ecs.NewManager()
	e := m.AddEntity()
	require.NoError(t, e.AddGroup(EnemyGroup))
	hp, err := ecs.AddComponent(e, NewHealth(10))
	require.NoError(t, err)

	assert.False(t, hp.Damage(4))
	hp.Heal(100)
	assert.Equal(t, 10, hp.Current)

	assert.True(t, hp.Damage(25))
	assert.Equal(t, 0, hp.Current)
	assert.False(t, hp.Alive())
	assert.False(t, e.IsActive())

	_, err = m.Refresh()
	require.NoError(t, err)
	enemies, err := m.Group(EnemyGroup)
	require.NoError(t, err)
	assert.Empty(t, enemies)
}

func TestLifetimeExpires(t *testing.T) {
	m := ecs.NewManager()
	e := m.AddEntity()
	lt, err := ecs.AddComponent(e, &Lifetime{TTL: 100 * time.Millisecond})
	require.NoError(t, err)

	m.Update(60 * time.Millisecond)
	assert.True(t, e.IsActive())
	assert.Equal(t, 40*time.Millisecond, lt.Remaining())

	m.Update(60 * time.Millisecond)
	assert.False(t, e.IsActive())
	assert.Equal(t, time.Duration(0), lt.Remaining())
}

func TestSpriteJoinsLayerAndDraws(t *testing.T) {
	canvas, err := render.NewSimulationCanvas(10, 4)
	require.NoError(t, err)
	defer canvas.Screen().Fini()

	m := ecs.NewManager()
	e := m.AddEntity()
	_, err = ecs.AddComponent(e, &Position{X: 2.7, Y: 1})
	require.NoError(t, err)
	_, err = ecs.AddComponent(e, NewSprite(canvas, "@", tcell.ColorYellow, Foreground))
	require.NoError(t, err)

	assert.True(t, e.HasLayer(Foreground))
	fg, err := m.Layer(Foreground)
	require.NoError(t, err)
	assert.Equal(t, []*ecs.Entity{e}, fg)

	m.Render()
	r, _, _, _ := canvas.Screen().GetContent(2, 1)
	assert.Equal(t, '@', r)
}

func TestGroupIndicesMatchLabelCatalogue(t *testing.T) {
	assert.Equal(t, ecs.Group(0), PlayerGroup)
	assert.Equal(t, ecs.Group(5), PlayerBulletGroup)
	assert.Equal(t, ecs.Group(8), TileGroup)
	assert.Equal(t, []ecs.Layer{0, 1, 2}, DrawOrder)
}
