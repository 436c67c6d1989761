// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import "math"

// DefaultTileSize is the spatial hash cell edge in render pixels.
const DefaultTileSize = 64

type cell struct {
	x, y int32
}

// SpatialHashGrid buckets primitive indices by the tiles their bounding
// boxes touch. Boxes are given in normalized coordinates and mapped onto a
// Width×Height pixel grid of TileSize cells.
type SpatialHashGrid struct {
	TileSize      float32
	Width, Height uint32

	cells      map[cell][]int
	cols, rows int32
}

// NewSpatialHashGrid creates an empty grid. A non-positive tileSize uses
// DefaultTileSize; zero dimensions become 1.
func NewSpatialHashGrid(width, height uint32, tileSize float32) *SpatialHashGrid {
	if !(tileSize > 0) {
		tileSize = DefaultTileSize
	}
	width, height = max(width, 1), max(height, 1)
	return &SpatialHashGrid{
		TileSize: tileSize,
		Width:    width,
		Height:   height,
		cells:    make(map[cell][]int),
		cols:     int32(math.Ceil(float64(width) / float64(tileSize))),
		rows:     int32(math.Ceil(float64(height) / float64(tileSize))),
	}
}

// Insert adds idx to every cell overlapped by box. Cell ranges are clamped
// to the grid so off-screen boxes land in the border cells. Empty boxes are
// ignored.
func (g *SpatialHashGrid) Insert(idx int, box BoundingBox) {
	if box.Empty() {
		return
	}
	x0 := g.clampCol(math.Floor(float64(box.MinX) * float64(g.Width) / float64(g.TileSize)))
	x1 := g.clampCol(math.Ceil(float64(box.MaxX) * float64(g.Width) / float64(g.TileSize)))
	y0 := g.clampRow(math.Floor(float64(box.MinY) * float64(g.Height) / float64(g.TileSize)))
	y1 := g.clampRow(math.Ceil(float64(box.MaxY) * float64(g.Height) / float64(g.TileSize)))
	for tx := x0; tx <= x1; tx++ {
		for ty := y0; ty <= y1; ty++ {
			c := cell{tx, ty}
			g.cells[c] = append(g.cells[c], idx)
		}
	}
}

// Query returns the indices stored in the cell containing (x, y), in
// insertion order. The slice is owned by the grid.
func (g *SpatialHashGrid) Query(x, y float32) []int {
	if math.IsNaN(float64(x)) || math.IsNaN(float64(y)) {
		return nil
	}
	tx := g.clampCol(math.Floor(float64(x) * float64(g.Width) / float64(g.TileSize)))
	ty := g.clampRow(math.Floor(float64(y) * float64(g.Height) / float64(g.TileSize)))
	return g.cells[cell{tx, ty}]
}

// Cells returns the number of occupied cells.
func (g *SpatialHashGrid) Cells() int { return len(g.cells) }

// Clear removes every entry.
func (g *SpatialHashGrid) Clear() { clear(g.cells) }

func (g *SpatialHashGrid) clampCol(v float64) int32 { return clampCell(v, g.cols) }
func (g *SpatialHashGrid) clampRow(v float64) int32 { return clampCell(v, g.rows) }

// clampCell limits a tile coordinate to [0, n]; n is the exclusive edge
// reached by ceil on the far side.
func clampCell(v float64, n int32) int32 {
	if !(v > 0) {
		return 0
	}
	if v > float64(n) {
		return n
	}
	return int32(v)
}
