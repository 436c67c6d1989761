// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import "github.com/gogpu/motion/scene"

// candidates returns the frame row and the primitive indices whose boxes
// contain (u, v), topmost first. Primitive 0 is topmost.
func (c *PositionCache) candidates(u, v float32, seconds float64) (int, []int) {
	if c == nil || len(c.Frames) == 0 {
		return 0, nil
	}
	fi := c.FrameIndex(seconds)
	var hits []int
	for _, idx := range c.Grids[fi].Query(u, v) {
		if c.covers(fi, idx, u, v) {
			hits = append(hits, idx)
		}
	}
	return fi, hits
}

// covers tests (u, v) against the primitive's exact shape. Circles use the
// inscribed disc of their box; other kinds use the box itself.
func (c *PositionCache) covers(fi, idx int, u, v float32) bool {
	box := c.Boxes[fi][idx]
	if !box.Contains(u, v) {
		return false
	}
	if c.Kinds[idx] != scene.Circle {
		return true
	}
	cx, cy := box.Center()
	r := (box.MaxX - box.MinX) / 2
	dx, dy := u-cx, v-cy
	return dx*dx+dy*dy <= r*r
}

// HitTest returns the topmost primitive covering (u, v) at seconds.
func (c *PositionCache) HitTest(u, v float32, seconds float64) (idx int, ok bool) {
	_, hits := c.candidates(u, v, seconds)
	if len(hits) == 0 {
		return -1, false
	}
	return hits[0], true
}

// SampleColorAt returns the composited color at normalized (u, v).
//
// Covering primitives are blended front to back with the "under" operator,
// which is equivalent to painting them back to front, and blending stops
// once the accumulated alpha is opaque. The remainder is filled with the
// background color.
func (c *PositionCache) SampleColorAt(u, v float32, seconds float64) [4]uint8 {
	if c == nil {
		return [4]uint8{}
	}
	fi, hits := c.candidates(u, v, seconds)

	var acc [4]float32 // premultiplied
	for _, idx := range hits {
		if acc[3] >= 1 {
			break
		}
		src := c.Colors[fi][idx]
		blendUnder(&acc, src)
	}
	if acc[3] < 1 {
		blendUnder(&acc, c.background)
	}
	return unpremultiply(acc)
}

func blendUnder(acc *[4]float32, src [4]uint8) {
	a := float32(src[3]) / 255
	k := (1 - acc[3]) * a
	acc[0] += k * float32(src[0]) / 255
	acc[1] += k * float32(src[1]) / 255
	acc[2] += k * float32(src[2]) / 255
	acc[3] += k
	if acc[3] > 1-1.0/512 {
		acc[3] = 1
	}
}

func unpremultiply(acc [4]float32) [4]uint8 {
	if acc[3] <= 0 {
		return [4]uint8{}
	}
	var out [4]uint8
	for i := range 3 {
		out[i] = toByte(acc[i] / acc[3])
	}
	out[3] = toByte(acc[3])
	return out
}

func toByte(v float32) uint8 {
	switch {
	case !(v > 0):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
