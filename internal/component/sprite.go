package component

import (
	"github.com/gdamore/tcell/v2"

	"github.com/framecs/runtime/internal/core/ecs"
	"github.com/framecs/runtime/internal/render"
)

// Sprite draws a glyph at the entity's Position. Init joins Layer, so a
// sprite is drawn by the layer pass without further setup.
type Sprite struct {
	ecs.Base
	Glyph string
	Color tcell.Color
	Layer ecs.Layer

	canvas *render.Canvas
	pos    *Position
}

func NewSprite(canvas *render.Canvas, glyph string, color tcell.Color, layer ecs.Layer) *Sprite {
	return &Sprite{Glyph: glyph, Color: color, Layer: layer, canvas: canvas}
}

func (s *Sprite) Init() error {
	e, err := owner(&s.Base)
	if err != nil {
		return err
	}
	pos, err := ecs.GetComponent[*Position](e)
	if err != nil {
		return err
	}
	s.pos = pos
	return e.AddLayer(s.Layer)
}

func (s *Sprite) Render() {
	x, y := s.pos.Cell()
	s.canvas.PutGlyph(x, y, s.Glyph, s.Color)
}
