package main

import "math"

const SpatialCellSize = 100.0 // ~2x largest enemy radius (boss = 40) plus projectile

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 'e'=enemy, 'p'=powerup
	Idx  int  // index into the corresponding flat list
}

// SpatialGrid is a uniform grid for broad-phase collision queries
type SpatialGrid struct {
	cols, rows int
	cells      [][]EntityRef
}

// NewSpatialGrid sizes a grid to cover a world of the given bounds
func NewSpatialGrid(worldW, worldH float64) *SpatialGrid {
	cols := int(math.Ceil(worldW/SpatialCellSize)) + 1
	rows := int(math.Ceil(worldH/SpatialCellSize)) + 1
	return &SpatialGrid{
		cols:  cols,
		rows:  rows,
		cells: make([][]EntityRef, cols*rows),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) clampCell(cx, cy int) (int, int) {
	if cx < 0 {
		cx = 0
	} else if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy < 0 {
		cy = 0
	} else if cy >= g.rows {
		cy = g.rows - 1
	}
	return cx, cy
}

// span returns the clamped cell rectangle covering a bounding box
func (g *SpatialGrid) span(x, y, radius float64) (minCX, minCY, maxCX, maxCY int) {
	minCX, minCY = g.clampCell(int(math.Floor((x-radius)/SpatialCellSize)), int(math.Floor((y-radius)/SpatialCellSize)))
	maxCX, maxCY = g.clampCell(int(math.Floor((x+radius)/SpatialCellSize)), int(math.Floor((y+radius)/SpatialCellSize)))
	return
}

// Insert adds an entity reference at the given position
func (g *SpatialGrid) Insert(x, y float64, ref EntityRef) {
	cx, cy := g.clampCell(int(math.Floor(x/SpatialCellSize)), int(math.Floor(y/SpatialCellSize)))
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], ref)
}

// InsertCircle adds an entity reference to all cells overlapping its bounding box
func (g *SpatialGrid) InsertCircle(x, y, radius float64, ref EntityRef) {
	minCX, minCY, maxCX, maxCY := g.span(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			idx := cy*g.cols + cx
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// Query returns all entity refs in cells that overlap the given bounding box
func (g *SpatialGrid) Query(x, y, radius float64) []EntityRef {
	return g.QueryBuf(x, y, radius, nil)
}

// QueryBuf appends results to buf and returns the extended slice, avoiding per-call allocation.
// A ref spanning several cells may appear more than once.
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	minCX, minCY, maxCX, maxCY := g.span(x, y, radius)
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			buf = append(buf, g.cells[cy*g.cols+cx]...)
		}
	}
	return buf
}

// FirstHit returns the lowest index of kind among the candidates near (x, y)
// for which hit reports true, or -1. Taking the minimum index keeps the
// result identical to a linear scan over the collection.
func (g *SpatialGrid) FirstHit(x, y, radius float64, kind byte, buf []EntityRef, hit func(idx int) bool) (int, []EntityRef) {
	buf = g.QueryBuf(x, y, radius, buf[:0])
	best := -1
	for _, ref := range buf {
		if ref.Kind != kind {
			continue
		}
		if best != -1 && ref.Idx >= best {
			continue
		}
		if hit(ref.Idx) {
			best = ref.Idx
		}
	}
	return best, buf
}
