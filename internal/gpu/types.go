// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"math"
)

// Track slots in a GpuElementDesc. Color is split into four normalized
// channels. Visible is sampled with step semantics.
const (
	TrackX = iota
	TrackY
	TrackW
	TrackH
	TrackRadius
	TrackSize
	TrackColorR
	TrackColorG
	TrackColorB
	TrackColorA
	TrackVisible

	TrackCount
)

// Shape types written to GpuShape.ShapeType.
const (
	ShapeCircle uint32 = 0
	ShapeRect   uint32 = 1
	ShapeText   uint32 = 2
)

// NoKill marks a descriptor whose element is never killed.
const NoKill = math.MaxUint32

// WorkgroupSize is the compute shader's @workgroup_size.
const WorkgroupSize = 64

// Byte sizes of the shader-visible structs.
const (
	KeyframeSize    = 16
	ElementDescSize = TrackCount*8 + 16
	ShapeSize       = 64
	UniformsSize    = 32
)

// GpuKeyframe is one keyframe of one scalar track.
//
// Param carries the exponent for the power curves so the shader and the
// CPU evaluator use the same sanitized value.
type GpuKeyframe struct {
	Frame  uint32  // offset 0
	Value  float32 // offset 4
	Easing uint32  // offset 8: easing.GPU* code
	Param  float32 // offset 12
}

// GpuElementDesc locates an element's tracks in the keyframe buffer.
type GpuElementDesc struct {
	Offsets    [TrackCount]uint32 // offset 0
	Lens       [TrackCount]uint32 // offset 44
	ShapeType  uint32             // offset 88
	SpawnFrame uint32             // offset 92
	KillFrame  uint32             // offset 96: NoKill when absent
	_pad       uint32             // offset 100
}

// GpuShape is the evaluated state of one element, in painter order.
type GpuShape struct {
	Pos       [2]float32 // offset 0
	Size      [2]float32 // offset 8: (w, h) for rects, (r, r) for circles, (size, size) for text
	Color     [4]float32 // offset 16: normalized RGBA
	ShapeType uint32     // offset 32
	SpawnTime float32    // offset 36: seconds
	Live      uint32     // offset 40: 1 when live and visible
	_pad      uint32     // offset 44
	UV0       [2]float32 // offset 48: bounding box min
	UV1       [2]float32 // offset 56: bounding box max
}

// Uniforms is the per-dispatch parameter block.
type Uniforms struct {
	Frame        float32 // offset 0
	FPS          float32 // offset 4
	Count        uint32  // offset 8
	_pad         uint32  // offset 12
	RenderWidth  uint32  // offset 16
	RenderHeight uint32  // offset 20
	_pad1        uint32  // offset 24
	_pad2        uint32  // offset 28
}

func putF32(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) }
func getF32(b []byte) float32    { return math.Float32frombits(binary.LittleEndian.Uint32(b)) }

// Marshal serializes the keyframe for upload.
func (k *GpuKeyframe) Marshal(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], k.Frame)
	putF32(buf[4:8], k.Value)
	binary.LittleEndian.PutUint32(buf[8:12], k.Easing)
	putF32(buf[12:16], k.Param)
}

// Marshal serializes the descriptor for upload.
func (d *GpuElementDesc) Marshal(buf []byte) {
	for i := range TrackCount {
		binary.LittleEndian.PutUint32(buf[i*4:], d.Offsets[i])
		binary.LittleEndian.PutUint32(buf[(TrackCount+i)*4:], d.Lens[i])
	}
	o := TrackCount * 8
	binary.LittleEndian.PutUint32(buf[o:], d.ShapeType)
	binary.LittleEndian.PutUint32(buf[o+4:], d.SpawnFrame)
	binary.LittleEndian.PutUint32(buf[o+8:], d.KillFrame)
	binary.LittleEndian.PutUint32(buf[o+12:], 0)
}

// Unmarshal decodes a shape read back from the GPU.
func (s *GpuShape) Unmarshal(buf []byte) {
	s.Pos = [2]float32{getF32(buf[0:]), getF32(buf[4:])}
	s.Size = [2]float32{getF32(buf[8:]), getF32(buf[12:])}
	for i := range 4 {
		s.Color[i] = getF32(buf[16+i*4:])
	}
	s.ShapeType = binary.LittleEndian.Uint32(buf[32:])
	s.SpawnTime = getF32(buf[36:])
	s.Live = binary.LittleEndian.Uint32(buf[40:])
	s.UV0 = [2]float32{getF32(buf[48:]), getF32(buf[52:])}
	s.UV1 = [2]float32{getF32(buf[56:]), getF32(buf[60:])}
}

func (u *Uniforms) toBytes() []byte {
	buf := make([]byte, UniformsSize)
	putF32(buf[0:], u.Frame)
	putF32(buf[4:], u.FPS)
	binary.LittleEndian.PutUint32(buf[8:], u.Count)
	binary.LittleEndian.PutUint32(buf[16:], u.RenderWidth)
	binary.LittleEndian.PutUint32(buf[20:], u.RenderHeight)
	return buf
}

func marshalKeyframes(keys []GpuKeyframe) []byte {
	buf := make([]byte, len(keys)*KeyframeSize)
	for i := range keys {
		keys[i].Marshal(buf[i*KeyframeSize:])
	}
	return buf
}

func marshalDescs(descs []GpuElementDesc) []byte {
	buf := make([]byte, len(descs)*ElementDescSize)
	for i := range descs {
		descs[i].Marshal(buf[i*ElementDescSize:])
	}
	return buf
}

// DecodeShapes decodes n shapes from a readback buffer.
func DecodeShapes(buf []byte, n int) []GpuShape {
	n = min(n, len(buf)/ShapeSize)
	out := make([]GpuShape, n)
	for i := range out {
		out[i].Unmarshal(buf[i*ShapeSize:])
	}
	return out
}
