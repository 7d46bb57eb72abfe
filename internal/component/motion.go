package component

import (
	"math"
	"time"

	"github.com/framecs/runtime/internal/core/ecs"
)

// Position is a cell on the canvas, kept as floats so Velocity can move
// entities by fractions of a cell per tick.
type Position struct {
	ecs.Base
	X, Y float64
}

// Cell returns the position rounded down to a canvas cell.
func (p *Position) Cell() (int, int) {
	return int(math.Floor(p.X)), int(math.Floor(p.Y))
}

// Velocity moves the entity's Position by DX, DY cells per second. It
// requires a Position attached before it.
type Velocity struct {
	ecs.Base
	DX, DY float64

	pos *Position
}

func (v *Velocity) Init() error {
	e, err := owner(&v.Base)
	if err != nil {
		return err
	}
	pos, err := ecs.GetComponent[*Position](e)
	if err != nil {
		return err
	}
	v.pos = pos
	return nil
}

func (v *Velocity) Update(dt time.Duration) {
	s := dt.Seconds()
	v.pos.X += v.DX * s
	v.pos.Y += v.DY * s
}

// Bounds destroys its entity once Position leaves [0,W)x[0,H).
type Bounds struct {
	ecs.Base
	W, H float64

	pos *Position
}

func (b *Bounds) Init() error {
	e, err := owner(&b.Base)
	if err != nil {
		return err
	}
	pos, err := ecs.GetComponent[*Position](e)
	if err != nil {
		return err
	}
	b.pos = pos
	return nil
}

func (b *Bounds) Update(time.Duration) {
	if b.pos.X < 0 || b.pos.Y < 0 || b.pos.X >= b.W || b.pos.Y >= b.H {
		if e, ok := b.Entity(); ok {
			e.Destroy()
		}
	}
}
