// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"math"

	"github.com/gogpu/motion/easing"
	"github.com/gogpu/motion/keyframe"
)

// FlatScene is the upload form of a scene: every track of every element
// packed into one keyframe array, with one descriptor per element.
// Descriptors are in painter order: element 0 of the input is last.
type FlatScene struct {
	Keyframes []GpuKeyframe
	Descs     []GpuElementDesc

	// Approximated counts keyframes whose easing the shader cannot
	// evaluate and that were uploaded as linear.
	Approximated map[easing.Kind]int
}

// Flatten packs elems for upload. Nil entries are skipped.
func Flatten(elems []*keyframe.ElementKeyframes) FlatScene {
	fs := FlatScene{
		Descs:        make([]GpuElementDesc, 0, len(elems)),
		Approximated: make(map[easing.Kind]int),
	}
	for i := len(elems) - 1; i >= 0; i-- {
		e := elems[i]
		if e == nil {
			continue
		}
		fs.Descs = append(fs.Descs, fs.element(e))
	}
	return fs
}

func (fs *FlatScene) element(e *keyframe.ElementKeyframes) GpuElementDesc {
	d := GpuElementDesc{
		ShapeType:  shapeType(e.Kind),
		SpawnFrame: e.SpawnFrame,
		KillFrame:  NoKill,
	}
	if e.HasKill {
		d.KillFrame = e.KillFrame
	}

	fs.scalar(&d, TrackX, e.X)
	fs.scalar(&d, TrackY, e.Y)
	fs.scalar(&d, TrackW, e.W)
	fs.scalar(&d, TrackH, e.H)
	fs.scalar(&d, TrackRadius, e.Radius)
	fs.scalar(&d, TrackSize, e.Size)
	for c := range 4 {
		addTrack(fs, &d, TrackColorR+c, e.Color, func(v [4]uint8) float32 { return float32(v[c]) / 255 })
	}
	addTrack(fs, &d, TrackVisible, e.Visible, func(v bool) float32 {
		if v {
			return 1
		}
		return 0
	})
	return d
}

func (fs *FlatScene) scalar(d *GpuElementDesc, slot int, tr keyframe.Track[float32]) {
	addTrack(fs, d, slot, tr, func(v float32) float32 { return v })
}

func addTrack[V any](fs *FlatScene, d *GpuElementDesc, slot int, tr keyframe.Track[V], value func(V) float32) {
	d.Offsets[slot] = uint32(len(fs.Keyframes))
	d.Lens[slot] = uint32(len(tr))
	for _, k := range tr {
		code, param, ok := easing.GPUCode(k.Easing)
		if !ok {
			fs.Approximated[k.Easing.Kind]++
		}
		fs.Keyframes = append(fs.Keyframes, GpuKeyframe{
			Frame:  k.Frame,
			Value:  sanitize(value(k.Value)),
			Easing: code,
			Param:  param,
		})
	}
}

// sanitize replaces non-finite values, which the shader cannot propagate
// consistently, with 0.
func sanitize(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}

func shapeType(k keyframe.Kind) uint32 {
	switch k {
	case keyframe.Rect:
		return ShapeRect
	case keyframe.Text:
		return ShapeText
	default:
		return ShapeCircle
	}
}
