// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package poscache

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"

	"github.com/gogpu/motion/easing"
	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/scene"
)

// Fingerprint hashes every input that affects sampled positions and
// colors: each element's name, numeric fields by bit pattern, color,
// lifetime, Moves, keyframe tracks and children, followed by the name and
// body of every handler.
func Fingerprint(s scene.Scene, handlers []scene.Handler) uint64 {
	h := hasher{h: fnv.New64a()}
	h.u32(uint32(len(s)))
	for i := range s {
		h.element(&s[i])
	}
	h.u32(uint32(len(handlers)))
	for _, hd := range handlers {
		h.str(hd.Name)
		h.str(hd.Body)
	}
	return h.h.Sum64()
}

type hasher struct {
	h   hash.Hash64
	buf [8]byte
}

func (h *hasher) u32(v uint32) {
	binary.LittleEndian.PutUint32(h.buf[:4], v)
	h.h.Write(h.buf[:4])
}

func (h *hasher) f32(v float32) { h.u32(math.Float32bits(v)) }

func (h *hasher) flag(v bool) {
	if v {
		h.u32(1)
	} else {
		h.u32(0)
	}
}

// str writes a length prefix so adjacent strings cannot alias.
func (h *hasher) str(s string) {
	h.u32(uint32(len(s)))
	h.h.Write([]byte(s))
}

func (h *hasher) color(c [4]uint8) { h.h.Write(c[:]) }

func (h *hasher) element(e *scene.Element) {
	h.str(e.Name)
	h.u32(uint32(e.Kind))
	h.f32(e.X)
	h.f32(e.Y)
	h.f32(e.Radius)
	h.f32(e.W)
	h.f32(e.H)
	h.f32(e.Size)
	h.str(e.Value)
	h.color(e.Color)
	h.f32(e.SpawnTime)
	h.f32(e.KillTime)
	h.flag(e.HasKill)
	h.flag(e.Hidden)
	h.u32(uint32(e.ZIndex))
	h.flag(e.Ephemeral)

	h.u32(uint32(len(e.Moves)))
	for _, m := range e.Moves {
		h.f32(m.ToX)
		h.f32(m.ToY)
		h.f32(m.Start)
		h.f32(m.End)
		h.curve(m.Easing)
	}

	h.flag(e.Keyframes != nil)
	if e.Keyframes != nil {
		h.tracks(e.Keyframes)
	}

	h.u32(uint32(len(e.Children)))
	for i := range e.Children {
		h.element(&e.Children[i])
	}
}

func (h *hasher) tracks(k *keyframe.ElementKeyframes) {
	h.str(k.Name)
	h.u32(uint32(k.Kind))
	h.u32(k.SpawnFrame)
	h.u32(k.KillFrame)
	h.flag(k.HasKill)
	h.flag(k.Ephemeral)
	for _, tr := range []keyframe.Track[float32]{k.X, k.Y, k.W, k.H, k.Radius, k.Size} {
		track(h, tr, h.f32)
	}
	track(h, k.Color, h.color)
	track(h, k.Value, h.str)
	track(h, k.Visible, h.flag)
	track(h, k.ZIndex, func(v int32) { h.u32(uint32(v)) })
}

func track[V any](h *hasher, tr keyframe.Track[V], value func(V)) {
	h.u32(uint32(len(tr)))
	for _, k := range tr {
		h.u32(k.Frame)
		value(k.Value)
		h.curve(k.Easing)
	}
}

func (h *hasher) curve(c easing.Curve) {
	h.u32(uint32(c.Kind))
	h.f32(c.Power)
	h.f32(c.P1.X)
	h.f32(c.P1.Y)
	h.f32(c.P2.X)
	h.f32(c.P2.Y)
	h.f32(c.Damping)
	h.f32(c.Stiffness)
	h.f32(c.Mass)
	h.f32(c.Amplitude)
	h.f32(c.Period)
	h.f32(c.Bounciness)
	h.u32(uint32(len(c.Points)))
	for _, p := range c.Points {
		h.f32(p.T)
		h.f32(p.V)
	}
	h.u32(uint32(len(c.Controls)))
	for _, p := range c.Controls {
		for _, v := range []easing.Vec2{p.Position, p.HandleLeft, p.HandleRight} {
			h.f32(v.X)
			h.f32(v.Y)
		}
	}
}
