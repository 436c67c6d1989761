// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu exposes the keyframe compute mirror: a copy of a scene's
// keyframe tracks on the GPU, evaluated for every element in one dispatch.
//
// A Mirror either opens its own device (Vulkan) or shares one from a host
// application through a gpucontext.DeviceProvider. When neither is
// available, EvaluateCPU produces the same shapes on the CPU.
//
// Usage:
//
//	m := gpu.NewMirror()
//	if err := m.Init(); err != nil {
//		// fall back to gpu.EvaluateCPU
//	}
//	defer m.Close()
//	_ = m.Dispatch(tracks, frame, fps, width, height, true)
//	shapes, err := m.ReadShapes(ctx)
//
// A host that draws the shapes on the GPU records the evaluation into its
// own frame encoder with DispatchInto and binds ShapeBuffer as a storage or
// vertex buffer. No readback happens on that path.
package gpu

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/gpucontext"

	gpuimpl "github.com/gogpu/motion/internal/gpu"
	"github.com/gogpu/motion/keyframe"
)

// Mirror holds an uploaded scene and evaluates it on the GPU.
type Mirror = gpuimpl.Mirror

// Shape is the evaluated state of one element, as written by the shader.
// Shapes are returned in painter order: the topmost element is last.
type Shape = gpuimpl.GpuShape

// Shape types reported in Shape.ShapeType.
const (
	ShapeCircle = gpuimpl.ShapeCircle
	ShapeRect   = gpuimpl.ShapeRect
	ShapeText   = gpuimpl.ShapeText
)

// Errors returned by Mirror.
var (
	ErrNotInitialized  = gpuimpl.ErrNotInitialized
	ErrReadbackTimeout = gpuimpl.ErrReadbackTimeout
)

// NewMirror returns a mirror that opens its own device on Init.
func NewMirror() *Mirror {
	return gpuimpl.NewMirror()
}

// NewSharedMirror returns a mirror running on the provider's device. The
// provider must also expose its HAL device and queue (HalDevice/HalQueue),
// as gogpu's application context does.
func NewSharedMirror(provider gpucontext.DeviceProvider) (*Mirror, error) {
	if provider == nil {
		return nil, fmt.Errorf("gpu: nil device provider")
	}
	m := gpuimpl.NewMirror()
	if err := m.SetDeviceProvider(provider); err != nil {
		return nil, err
	}
	return m, nil
}

// SetLogger sets the logger for GPU diagnostics. Pass nil to disable.
func SetLogger(l *slog.Logger) {
	gpuimpl.SetLogger(l)
}

// EvaluateCPU computes the shapes the mirror would produce for elems at
// frame, without a device.
func EvaluateCPU(elems []*keyframe.ElementKeyframes, frame float32, fps float64) []Shape {
	fs := gpuimpl.Flatten(elems)
	return gpuimpl.EvaluateCPU(fs, gpuimpl.Uniforms{
		Frame: frame,
		FPS:   float32(fps),
		Count: uint32(len(fs.Descs)),
	})
}
