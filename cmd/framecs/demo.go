package main

import (
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/framecs/runtime/internal/component"
	"github.com/framecs/runtime/internal/core/ecs"
	coresys "github.com/framecs/runtime/internal/core/system"
	"github.com/framecs/runtime/internal/render"
	"github.com/framecs/runtime/internal/scripting"
	"github.com/framecs/runtime/internal/spatial"
)

const (
	spawnEvery   = 6 // frames between bullets
	enemyCount   = 4
	bulletSpeed  = 20.0
	bulletDamage = 1
)

// demo is a small shooter: a player fires bullets to the right, enemies
// drift left and lose health on contact. It runs in the Update phase
// before the manager's own update pass.
type demo struct {
	log    *zap.Logger
	mgr    *ecs.Manager
	canvas *render.Canvas
	lua    *scripting.Engine
	w, h   int
	rng    *rand.Rand
	frame  int
	player *component.Position
	grid   *spatial.Grid
}

func newDemo(mgr *ecs.Manager, canvas *render.Canvas, lua *scripting.Engine, w, h int, log *zap.Logger) *demo {
	return &demo{
		log:    log,
		mgr:    mgr,
		canvas: canvas,
		lua:    lua,
		w:      w,
		h:      h,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		grid:   spatial.NewGrid(1),
	}
}

func (d *demo) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (d *demo) setup() error {
	p := d.mgr.AddEntity()
	pos, err := ecs.AddComponent(p, &component.Position{X: 2, Y: float64(d.h / 2)})
	if err != nil {
		return err
	}
	d.player = pos
	if _, err := ecs.AddComponent(p, component.NewSprite(d.canvas, "@", tcell.ColorYellow, component.Foreground)); err != nil {
		return err
	}
	if err := p.AddGroup(component.PlayerGroup); err != nil {
		return err
	}
	for range enemyCount {
		if err := d.spawn(d.buildEnemy); err != nil {
			return err
		}
	}
	return nil
}

func (d *demo) Update(dt time.Duration) {
	d.frame++
	if d.frame%spawnEvery == 0 {
		if err := d.spawn(d.buildBullet); err != nil {
			d.log.Error("spawn bullet", zap.Error(err))
		}
	}
	if err := d.collide(); err != nil {
		d.log.Error("collide", zap.Error(err))
	}

	live := 0
	if err := ecs.EachInGroup(d.mgr, component.EnemyGroup, func(*ecs.Entity) { live++ }); err != nil {
		d.log.Error("count enemies", zap.Error(err))
		return
	}
	for ; live < enemyCount; live++ {
		if err := d.spawn(d.buildEnemy); err != nil {
			d.log.Error("spawn enemy", zap.Error(err))
			return
		}
	}
}

// spawn creates an entity and runs build on it. A failed build destroys
// the partial entity so the next Refresh removes it.
func (d *demo) spawn(build func(*ecs.Entity) error) error {
	e := d.mgr.AddEntity()
	if err := build(e); err != nil {
		e.Destroy()
		return err
	}
	return nil
}

func (d *demo) buildBullet(b *ecs.Entity) error {
	if _, err := ecs.AddComponent(b, &component.Position{X: d.player.X + 1, Y: d.player.Y}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(b, &component.Velocity{DX: bulletSpeed}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(b, &component.Bounds{W: float64(d.w), H: float64(d.h)}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(b, component.NewSprite(d.canvas, "-", tcell.ColorWhite, component.Middleground)); err != nil {
		return err
	}
	if d.lua.HasBehaviour("bullet") {
		if _, err := ecs.AddComponent(b, scripting.NewScript(d.lua, "bullet")); err != nil {
			return err
		}
	}
	return b.AddGroup(component.PlayerBulletGroup)
}

func (d *demo) buildEnemy(e *ecs.Entity) error {
	y := float64(d.rng.Intn(max(d.h, 1)))
	if _, err := ecs.AddComponent(e, &component.Position{X: float64(d.w - 1), Y: y}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(e, &component.Velocity{DX: -2 - 3*d.rng.Float64()}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(e, &component.Bounds{W: float64(d.w), H: float64(d.h)}); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(e, component.NewHealth(3)); err != nil {
		return err
	}
	if _, err := ecs.AddComponent(e, component.NewSprite(d.canvas, "👾", tcell.ColorRed, component.Foreground)); err != nil {
		return err
	}
	return e.AddGroup(component.EnemyGroup)
}

// collide damages the first live enemy within one column of a player
// bullet on the same row. One column of slack keeps fast bullets from
// skipping over an enemy between ticks.
func (d *demo) collide() error {
	d.grid.Reset()
	var lookupErr error
	err := ecs.EachInGroup(d.mgr, component.EnemyGroup, func(enemy *ecs.Entity) {
		pos, err := ecs.GetComponent[*component.Position](enemy)
		if err != nil {
			lookupErr = err
			return
		}
		x, y := pos.Cell()
		d.grid.Insert(enemy.ID(), x, y)
	})
	if err != nil {
		return err
	}

	err = ecs.EachInGroup(d.mgr, component.PlayerBulletGroup, func(b *ecs.Entity) {
		bp, err := ecs.GetComponent[*component.Position](b)
		if err != nil {
			lookupErr = err
			return
		}
		bx, by := bp.Cell()
		for _, id := range d.grid.Nearby(bx, by) {
			enemy, ok := d.mgr.Lookup(id)
			if !ok || !enemy.IsActive() {
				continue
			}
			ep, hp := ecs.MustGetComponent[*component.Position](enemy), ecs.MustGetComponent[*component.Health](enemy)
			ex, ey := ep.Cell()
			if ey != by || ex < bx-1 || ex > bx+1 {
				continue
			}
			hp.Damage(bulletDamage)
			b.Destroy()
			return
		}
	})
	if err != nil {
		return err
	}
	return lookupErr
}
