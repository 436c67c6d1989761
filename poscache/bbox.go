// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import "math"

// BoundingBox is an axis-aligned box in normalized coordinates.
// Edges are inclusive.
type BoundingBox struct {
	MinX, MinY, MaxX, MaxY float32
}

// emptyBox contains no point.
var emptyBox = BoundingBox{MinX: 1, MinY: 1, MaxX: 0, MaxY: 0}

// FromCircle returns the box of a circle centered at (x, y).
func FromCircle(x, y, radius float32) BoundingBox {
	r := abs32(radius)
	return BoundingBox{MinX: x - r, MinY: y - r, MaxX: x + r, MaxY: y + r}
}

// FromRect returns the box of a w×h rectangle centered at (x, y).
func FromRect(x, y, w, h float32) BoundingBox {
	hw, hh := abs32(w)/2, abs32(h)/2
	return BoundingBox{MinX: x - hw, MinY: y - hh, MaxX: x + hw, MaxY: y + hh}
}

// Contains reports whether (x, y) lies inside b, edges included.
func (b BoundingBox) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Empty reports whether b contains no point. Boxes with NaN edges are empty.
func (b BoundingBox) Empty() bool {
	return !(b.MinX <= b.MaxX && b.MinY <= b.MaxY)
}

// Center returns the midpoint of b.
func (b BoundingBox) Center() (x, y float32) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

func abs32(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return 0
	}
	return float32(math.Abs(float64(v)))
}
