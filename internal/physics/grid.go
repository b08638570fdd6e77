package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection over an
// origin-centred square. Objects are inserted by position and index, then
// nearby objects can be queried by radius.
//
// Positions outside the covered square are clamped into the edge cells, and so
// are queries, so a query always returns a superset of the items within range.
type SpatialGrid struct {
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	origin      float64 // coordinate of the grid's left/top edge
	cols        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a grid covering [-extent/2, extent/2] on both axes.
func NewSpatialGrid(extent, cellSize float64) *SpatialGrid {
	cols := int(math.Ceil(extent / cellSize))
	if cols < 1 {
		cols = 1
	}
	return &SpatialGrid{
		cellSize:    cellSize,
		invCellSize: 1.0 / cellSize,
		origin:      -extent / 2,
		cols:        cols,
		cells:       make([]gridCell, cols*cols),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(p Vec2, index int) {
	col := g.toCell(p.X)
	row := g.toCell(p.Y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryRadius calls fn for each item in the cells overlapping the square of
// half-side radius around p. If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryRadius(p Vec2, radius float64, fn func(index int) bool) {
	minCol, maxCol := g.toCell(p.X-radius), g.toCell(p.X+radius)
	minRow, maxRow := g.toCell(p.Y-radius), g.toCell(p.Y+radius)

	for row := minRow; row <= maxRow; row++ {
		rowOffset := row * g.cols
		for col := minCol; col <= maxCol; col++ {
			for _, itemIdx := range g.cells[rowOffset+col].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// toCell converts a coordinate to a cell index, clamped to the grid.
func (g *SpatialGrid) toCell(v float64) int {
	c := int(math.Floor((v - g.origin) * g.invCellSize))
	if c < 0 {
		return 0
	}
	if c >= g.cols {
		return g.cols - 1
	}
	return c
}
