// Package voronoi labels a regular grid with the nearest of a set of
// generator points and walks the labelled grid for triangles whose corners
// belong to three distinct generators.
package voronoi

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const empty = -1

type generator struct {
	center mgl64.Vec2
	tag    int
}

type task struct {
	x, y int
	i    int
	gen  int
}

// worklist is a FIFO of pending cell claims.
type worklist struct {
	items []task
	head  int
}

func (w *worklist) push(t task) { w.items = append(w.items, t) }

func (w *worklist) pop() task {
	t := w.items[w.head]
	w.head++
	if w.head == len(w.items) {
		w.items = w.items[:0]
		w.head = 0
	}
	return t
}

func (w *worklist) empty() bool { return w.head == len(w.items) }

type Diagram struct {
	generators []generator
	countX     int
	countY     int
	cells      []int
	queue      worklist
}

func New(capacity int) *Diagram {
	return &Diagram{generators: make([]generator, 0, capacity)}
}

func (d *Diagram) AddGenerator(center mgl64.Vec2, tag int) {
	d.generators = append(d.generators, generator{center: center, tag: tag})
}

func (d *Diagram) Size() (int, int) { return d.countX, d.countY }

// Generate labels every cell of a grid with spacing radius covering the
// generators' bounding box. Calling it twice rebuilds the grid.
func (d *Diagram) Generate(radius float64) {
	d.cells = nil
	d.countX, d.countY = 0, 0
	if len(d.generators) == 0 {
		return
	}

	inv := 1 / radius
	lower := mgl64.Vec2{math.MaxFloat64, math.MaxFloat64}
	upper := mgl64.Vec2{-math.MaxFloat64, -math.MaxFloat64}
	for _, g := range d.generators {
		lower = mgl64.Vec2{math.Min(lower[0], g.center[0]), math.Min(lower[1], g.center[1])}
		upper = mgl64.Vec2{math.Max(upper[0], g.center[0]), math.Max(upper[1], g.center[1])}
	}

	d.countX = 1 + int(inv*(upper[0]-lower[0]))
	d.countY = 1 + int(inv*(upper[1]-lower[1]))
	d.cells = make([]int, d.countX*d.countY)
	for i := range d.cells {
		d.cells[i] = empty
	}

	for k := range d.generators {
		g := &d.generators[k]
		g.center = g.center.Sub(lower).Mul(inv)
		x := max(0, min(int(g.center[0]), d.countX-1))
		y := max(0, min(int(g.center[1]), d.countY-1))
		d.queue.push(task{x: x, y: y, i: x + y*d.countX, gen: k})
	}

	for !d.queue.empty() {
		t := d.queue.pop()
		if d.cells[t.i] == empty {
			d.cells[t.i] = t.gen
			d.pushNeighbors(t.x, t.y, t.i, t.gen)
		}
	}

	maxIteration := d.countX + d.countY
	for iteration := 0; iteration < maxIteration; iteration++ {
		for y := 0; y < d.countY; y++ {
			for x := 0; x < d.countX-1; x++ {
				i := x + y*d.countX
				a, b := d.cells[i], d.cells[i+1]
				if a != b {
					d.queue.push(task{x: x, y: y, i: i, gen: b})
					d.queue.push(task{x: x + 1, y: y, i: i + 1, gen: a})
				}
			}
		}
		for y := 0; y < d.countY-1; y++ {
			for x := 0; x < d.countX; x++ {
				i := x + y*d.countX
				a, b := d.cells[i], d.cells[i+d.countX]
				if a != b {
					d.queue.push(task{x: x, y: y, i: i, gen: b})
					d.queue.push(task{x: x, y: y + 1, i: i + d.countX, gen: a})
				}
			}
		}

		updated := false
		for !d.queue.empty() {
			t := d.queue.pop()
			a := d.cells[t.i]
			if a == t.gen {
				continue
			}
			if d.dist2(a, t.x, t.y) > d.dist2(t.gen, t.x, t.y) {
				d.cells[t.i] = t.gen
				d.pushNeighbors(t.x, t.y, t.i, t.gen)
				updated = true
			}
		}
		if !updated {
			break
		}
	}
}

func (d *Diagram) dist2(gen, x, y int) float64 {
	c := d.generators[gen].center
	dx := c[0] - float64(x)
	dy := c[1] - float64(y)
	return dx*dx + dy*dy
}

func (d *Diagram) pushNeighbors(x, y, i, gen int) {
	if x > 0 {
		d.queue.push(task{x: x - 1, y: y, i: i - 1, gen: gen})
	}
	if y > 0 {
		d.queue.push(task{x: x, y: y - 1, i: i - d.countX, gen: gen})
	}
	if x < d.countX-1 {
		d.queue.push(task{x: x + 1, y: y, i: i + 1, gen: gen})
	}
	if y < d.countY-1 {
		d.queue.push(task{x: x, y: y + 1, i: i + d.countX, gen: gen})
	}
}

// Label returns the tag of the generator owning cell (x, y).
func (d *Diagram) Label(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= d.countX || y >= d.countY {
		return 0, false
	}
	g := d.cells[x+y*d.countX]
	if g == empty {
		return 0, false
	}
	return d.generators[g].tag, true
}

// Nodes calls fn with the generator tags of every triangle in the dual of
// the labelled grid. Each 2x2 block yields at most two triangles.
func (d *Diagram) Nodes(fn func(a, b, c int)) {
	for y := 0; y < d.countY-1; y++ {
		for x := 0; x < d.countX-1; x++ {
			i := x + y*d.countX
			a := d.cells[i]
			b := d.cells[i+1]
			c := d.cells[i+d.countX]
			e := d.cells[i+1+d.countX]
			if b == c {
				continue
			}
			if a != b && a != c {
				fn(d.generators[a].tag, d.generators[b].tag, d.generators[c].tag)
			}
			if e != b && e != c {
				fn(d.generators[b].tag, d.generators[e].tag, d.generators[c].tag)
			}
		}
	}
}
