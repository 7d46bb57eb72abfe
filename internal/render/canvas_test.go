package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCanvas(t *testing.T) *Canvas {
	t.Helper()
	c, err := NewSimulationCanvas(20, 5)
	require.NoError(t, err)
	t.Cleanup(c.Screen().Fini)
	return c
}

func cell(c *Canvas, x, y int) rune {
	r, _, _, _ := c.Screen().GetContent(x, y)
	return r
}

func TestPutGlyphNarrow(t *testing.T) {
	c := newCanvas(t)
	assert.Equal(t, 1, c.PutGlyph(3, 1, "@", tcell.ColorWhite))
	assert.Equal(t, '@', cell(c, 3, 1))
}

func TestPutGlyphWideFillsSecondColumn(t *testing.T) {
	c := newCanvas(t)
	c.PutGlyph(5, 2, "x", tcell.ColorWhite)
	c.PutGlyph(6, 2, "x", tcell.ColorWhite)

	assert.Equal(t, 2, c.PutGlyph(5, 2, "🐉", tcell.ColorRed))
	assert.Equal(t, '🐉', cell(c, 5, 2))
	assert.NotEqual(t, 'x', cell(c, 6, 2))
}

func TestPutGlyphOutOfBounds(t *testing.T) {
	c := newCanvas(t)
	assert.Equal(t, 0, c.PutGlyph(-1, 0, "@", tcell.ColorWhite))
	assert.Equal(t, 0, c.PutGlyph(0, 5, "@", tcell.ColorWhite))
	assert.Equal(t, 0, c.PutGlyph(0, 0, "", tcell.ColorWhite))
}

func TestPutTextClips(t *testing.T) {
	c := newCanvas(t)
	c.PutText(17, 0, "hello", tcell.ColorWhite)
	assert.Equal(t, 'h', cell(c, 17, 0))
	assert.Equal(t, 'l', cell(c, 19, 0))
}

func TestClearResetsCells(t *testing.T) {
	c := newCanvas(t)
	c.PutGlyph(0, 0, "#", tcell.ColorWhite)
	c.Clear()
	c.Show()
	assert.NotEqual(t, '#', cell(c, 0, 0))
}
