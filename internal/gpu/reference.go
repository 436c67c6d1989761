// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"math"

	"github.com/gogpu/motion/easing"
)

// EvaluateCPU computes on the CPU what the keyframes compute shader writes
// for fs at u.Frame. It is the fallback when no device is available and
// the reference the shader is tested against.
func EvaluateCPU(fs FlatScene, u Uniforms) []GpuShape {
	n := min(int(u.Count), len(fs.Descs))
	out := make([]GpuShape, n)
	for i := range out {
		out[i] = evaluateDesc(fs.Keyframes, &fs.Descs[i], u)
	}
	return out
}

func evaluateDesc(keys []GpuKeyframe, d *GpuElementDesc, u Uniforms) GpuShape {
	frame := u.Frame
	sample := func(slot int, fallback float32, step bool) float32 {
		return sampleTrack(keys, d.Offsets[slot], d.Lens[slot], frame, fallback, step)
	}
	x := sample(TrackX, 0, false)
	y := sample(TrackY, 0, false)
	w := sample(TrackW, 0, false)
	h := sample(TrackH, 0, false)
	r := sample(TrackRadius, 0, false)
	size := sample(TrackSize, 0, false)
	color := [4]float32{
		sample(TrackColorR, 0, false),
		sample(TrackColorG, 0, false),
		sample(TrackColorB, 0, false),
		sample(TrackColorA, 1, false),
	}
	visible := sample(TrackVisible, 1, true)

	fi := uint32(max(math.Floor(float64(frame)+0.5), 0))
	live := fi >= d.SpawnFrame && visible >= 0.5
	if d.KillFrame != NoKill && fi >= d.KillFrame {
		live = false
	}

	s := GpuShape{
		Pos:       [2]float32{x, y},
		Color:     color,
		ShapeType: d.ShapeType,
	}
	if u.FPS > 0 {
		s.SpawnTime = float32(d.SpawnFrame) / u.FPS
	}
	if live {
		s.Live = 1
	}

	var hx, hy float32
	switch d.ShapeType {
	case ShapeCircle:
		s.Size = [2]float32{r, r}
		hx, hy = abs32(r), abs32(r)
	case ShapeRect:
		s.Size = [2]float32{w, h}
		hx, hy = abs32(w)/2, abs32(h)/2
	default:
		s.Size = [2]float32{size, size}
	}
	s.UV0 = [2]float32{x - hx, y - hy}
	s.UV1 = [2]float32{x + hx, y + hy}
	return s
}

func sampleTrack(keys []GpuKeyframe, off, n uint32, frame, fallback float32, step bool) float32 {
	if n == 0 || int(off+n) > len(keys) {
		return fallback
	}
	tr := keys[off : off+n]
	if n == 1 || frame <= float32(tr[0].Frame) {
		return tr[0].Value
	}
	if frame >= float32(tr[n-1].Frame) {
		return tr[n-1].Value
	}
	i := segment(tr, frame)
	a, b := tr[i], tr[i+1]
	if step {
		return a.Value
	}
	t := (frame - float32(a.Frame)) / float32(b.Frame-a.Frame)
	return a.Value + (b.Value-a.Value)*easing.Evaluate(easing.FromGPU(a.Easing, a.Param), t)
}

// segment returns i with tr[i].Frame <= frame < tr[i+1].Frame. frame must
// lie strictly between the first and last keyframe.
func segment(tr []GpuKeyframe, frame float32) int {
	lo, hi := 0, len(tr)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if float32(tr[mid].Frame) <= frame {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

func abs32(v float32) float32 { return float32(math.Abs(float64(v))) }
