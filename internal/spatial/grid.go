package spatial

import "github.com/framecs/runtime/internal/core/ecs"

// Grid buckets entity handles by cell so a caller can find entities near
// a point without scanning every entity. Frame-loop goroutine only.
type Grid struct {
	cellSize int
	cells    map[cellKey][]ecs.EntityID
}

type cellKey struct {
	cx, cy int
}

// NewGrid creates a grid whose cells are cellSize units square.
// A cellSize below 1 is treated as 1.
func NewGrid(cellSize int) *Grid {
	return &Grid{
		cellSize: max(cellSize, 1),
		cells:    make(map[cellKey][]ecs.EntityID),
	}
}

func (g *Grid) toCell(v int) int {
	if v < 0 {
		return (v - g.cellSize + 1) / g.cellSize
	}
	return v / g.cellSize
}

func (g *Grid) key(x, y int) cellKey {
	return cellKey{cx: g.toCell(x), cy: g.toCell(y)}
}

// Insert places id in the cell containing (x, y).
func (g *Grid) Insert(id ecs.EntityID, x, y int) {
	k := g.key(x, y)
	g.cells[k] = append(g.cells[k], id)
}

// Nearby returns the ids in the 3x3 block of cells around (x, y). Callers
// do their own exact distance test.
func (g *Grid) Nearby(x, y int) []ecs.EntityID {
	cx, cy := g.toCell(x), g.toCell(y)
	var out []ecs.EntityID
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			out = append(out, g.cells[cellKey{cx: cx + dx, cy: cy + dy}]...)
		}
	}
	return out
}

// Reset empties the grid, keeping its allocated buckets for reuse.
func (g *Grid) Reset() {
	for k, ids := range g.cells {
		g.cells[k] = ids[:0]
	}
}
