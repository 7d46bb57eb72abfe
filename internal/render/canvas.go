package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Canvas is the drawing surface render components write to. It wraps a
// tcell screen and satisfies the frame loop's Surface.
type Canvas struct {
	screen tcell.Screen
	style  tcell.Style
}

func NewCanvas(screen tcell.Screen) *Canvas {
	return &Canvas{
		screen: screen,
		style:  tcell.StyleDefault.Background(tcell.ColorBlack),
	}
}

// NewSimulationCanvas returns a canvas over an initialised in-memory screen.
func NewSimulationCanvas(width, height int) (*Canvas, error) {
	ss := tcell.NewSimulationScreen("UTF-8")
	if err := ss.Init(); err != nil {
		return nil, err
	}
	ss.SetSize(width, height)
	return NewCanvas(ss), nil
}

func (c *Canvas) Screen() tcell.Screen { return c.screen }

func (c *Canvas) Size() (int, int) { return c.screen.Size() }

func (c *Canvas) Clear() { c.screen.Clear() }

func (c *Canvas) Show() { c.screen.Show() }

// InBounds reports whether (x, y) is a visible cell.
func (c *Canvas) InBounds(x, y int) bool {
	w, h := c.screen.Size()
	return x >= 0 && y >= 0 && x < w && y < h
}

// PutGlyph draws glyph at (x, y) with the given foreground colour and
// returns the number of columns it occupies.
func (c *Canvas) PutGlyph(x, y int, glyph string, fg tcell.Color) int {
	runes := []rune(glyph)
	if len(runes) == 0 || !c.InBounds(x, y) {
		return 0
	}
	style := c.style.Foreground(fg)
	var combc []rune
	if len(runes) > 1 {
		combc = runes[1:]
	}
	c.screen.SetContent(x, y, runes[0], combc, style)
	if runewidth.StringWidth(glyph) == 2 {
		// Fill the second column to avoid rendering artifacts.
		c.screen.SetContent(x+1, y, ' ', nil, style)
		return 2
	}
	return 1
}

// PutText draws s left to right from (x, y), clipping at the right edge.
func (c *Canvas) PutText(x, y int, s string, fg tcell.Color) {
	for _, r := range s {
		if !c.InBounds(x, y) {
			return
		}
		x += c.PutGlyph(x, y, string(r), fg)
	}
}
