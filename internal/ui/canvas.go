package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// canvas is a grid of colored runes.
type canvas struct {
	w, h   int
	cells  [][]rune
	colors [][]lipgloss.Color
}

// newCanvas initializes a canvas with empty space (very dark background).
func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h), colors: make([][]lipgloss.Color, h)}
	for y := 0; y < h; y++ {
		c.cells[y] = make([]rune, w)
		c.colors[y] = make([]lipgloss.Color, w)
		for x := 0; x < w; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorBackground
		}
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.w && y >= 0 && y < c.h
}

func (c *canvas) set(x, y int, r rune, color lipgloss.Color) {
	if c.inside(x, y) {
		c.cells[y][x] = r
		c.colors[y][x] = color
	}
}

func (c *canvas) blank(x, y int) bool {
	return c.inside(x, y) && c.cells[y][x] == ' '
}

func (c *canvas) setIfBlank(x, y int, r rune, color lipgloss.Color) {
	if c.blank(x, y) {
		c.set(x, y, r, color)
	}
}

// text writes s starting at x, clipped to the canvas.
func (c *canvas) text(x, y int, s string, color lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, color)
	}
}

// textIfBlank writes s only if every cell it needs is blank.
func (c *canvas) textIfBlank(x, y int, s string, color lipgloss.Color) {
	runes := []rune(s)
	for i := range runes {
		if !c.blank(x+i, y) {
			return
		}
	}
	c.text(x, y, s, color)
}

// line draws a Bresenham segment over blank cells only. Endpoints may lie
// outside the canvas.
func (c *canvas) line(x0, y0, x1, y1 int, r rune, color lipgloss.Color) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		c.setIfBlank(x0, y0, r, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// String renders the canvas, one styled rune per cell.
func (c *canvas) String() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.cells[y][x])))
		}
		if y < c.h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// plain returns the canvas runes without styling.
func (c *canvas) plain() string {
	var b strings.Builder
	for y := 0; y < c.h; y++ {
		b.WriteString(string(c.cells[y]))
		if y < c.h-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// disk fills an ellipse of horizontal radius r cells around (x, y), squashed
// vertically by aspect. Radii under one cell draw a single rune.
func (c *canvas) disk(x, y int, r, aspect float64, glyph rune, color lipgloss.Color) {
	if r < 1 {
		c.set(x, y, glyph, color)
		return
	}
	ry := r * aspect
	for dy := -int(ry); dy <= int(ry); dy++ {
		for dx := -int(r); dx <= int(r); dx++ {
			nx, ny := float64(dx)/r, float64(dy)/math.Max(ry, 1)
			if nx*nx+ny*ny <= 1 {
				c.set(x+dx, y+dy, glyph, color)
			}
		}
	}
}
