package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/fluidsim/internal/rigid"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	// Tint holds the foreground color of each cell, empty for the default.
	Tint          [][]lipgloss.Color

	view rigid.AABB
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tint:   make([][]lipgloss.Color, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tint[i] = make([]lipgloss.Color, w)
	}
	c.Clear()
	return c
}

// Set turns on the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels with y pointing down.
func (c *Canvas) Set(x, y int) {
	c.SetTint(x, y, "")
}

// SetTint sets a dot and colors its cell. An empty color keeps the cell's
// current tint.
func (c *Canvas) SetTint(x, y int, color lipgloss.Color) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if color != "" {
		c.Tint[row][col] = color
	}
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Tint[i][j] = ""
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// SetView fixes the world region mapped onto the canvas.
func (c *Canvas) SetView(view rigid.AABB) { c.view = view }

// Project maps a world point to sub-pixel coordinates. The view is scaled
// uniformly so shapes keep their aspect ratio.
func (c *Canvas) Project(p mgl64.Vec2) (int, int) {
	size := c.view.Upper.Sub(c.view.Lower)
	if size[0] <= 0 || size[1] <= 0 {
		return -1, -1
	}
	// Terminal cells are about twice as tall as wide, so one braille dot is
	// square.
	pw, ph := float64(c.Width*2), float64(c.Height*4)
	scale := min(pw/size[0], ph/size[1])
	ox := (pw - size[0]*scale) / 2
	oy := (ph - size[1]*scale) / 2

	x := ox + (p[0]-c.view.Lower[0])*scale
	y := ph - oy - (p[1]-c.view.Lower[1])*scale
	return int(math.Floor(x)), int(math.Floor(y))
}

func (c *Canvas) Plot(p mgl64.Vec2, color lipgloss.Color) {
	x, y := c.Project(p)
	c.SetTint(x, y, color)
}

func (c *Canvas) Line(a, b mgl64.Vec2) {
	x0, y0 := c.Project(a)
	x1, y1 := c.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			if tint := c.Tint[i][j]; tint != "" && r != blank {
				b.WriteString(lipgloss.NewStyle().Foreground(tint).Render(string(r)))
				continue
			}
			b.WriteRune(r)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
