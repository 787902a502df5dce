package world

import (
	"math"

	"github.com/udisondev/navspawn/internal/model"
)

// maxScannedCells caps the cell window of one query. Wider queries fall
// back to a linear scan.
const maxScannedCells = 1024

type cellKey struct {
	cx, cy int64
}

// Grid is a planar bucket index over a fixed set of points.
// Weighted distance is never shorter than planar distance, so a planar
// query with radius r returns a superset of the weighted neighborhood.
// Immutable after NewGrid; safe for concurrent reads.
type Grid struct {
	cellSize float64
	points   []model.Point3
	cells    map[cellKey][]int
}

// NewGrid indexes points into square cells of cellSize game units.
func NewGrid(points []model.Point3, cellSize float64) *Grid {
	if cellSize <= 0 || math.IsInf(cellSize, 0) || math.IsNaN(cellSize) {
		cellSize = 1
	}
	g := &Grid{
		cellSize: cellSize,
		points:   points,
		cells:    make(map[cellKey][]int),
	}
	for i, p := range points {
		k := g.coordToCell(p.X, p.Y)
		g.cells[k] = append(g.cells[k], i)
	}
	return g
}

// coordToCell converts world coordinates to a cell index.
func (g *Grid) coordToCell(x, y float64) cellKey {
	return cellKey{
		cx: int64(math.Floor(x / g.cellSize)),
		cy: int64(math.Floor(y / g.cellSize)),
	}
}

// Len returns the number of indexed points.
func (g *Grid) Len() int {
	return len(g.points)
}

// Candidates calls fn with the index of every point whose planar distance to
// center may be <= radius. Callers apply the exact distance test.
// Visiting order is unspecified.
func (g *Grid) Candidates(center model.Point3, radius float64, fn func(i int)) {
	if len(g.points) == 0 || radius < 0 {
		return
	}

	lo := g.coordToCell(center.X-radius, center.Y-radius)
	hi := g.coordToCell(center.X+radius, center.Y+radius)
	w := float64(hi.cx-lo.cx+1) * float64(hi.cy-lo.cy+1)
	if w > maxScannedCells || w > float64(len(g.points)) || math.IsInf(radius, 1) {
		for i := range g.points {
			fn(i)
		}
		return
	}

	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for _, i := range g.cells[cellKey{cx, cy}] {
				fn(i)
			}
		}
	}
}
