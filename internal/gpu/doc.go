// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu evaluates keyframe tracks in a WebGPU compute shader.
//
// The scene is flattened into three storage buffers:
//
//	keyframes  []GpuKeyframe     every track of every element, back to back
//	descs      []GpuElementDesc  per element (offset, len) for each track slot
//	shapes     []GpuShape        one evaluated shape per element (output)
//
// plus a 32-byte uniform block holding the current frame, fps, element
// count and render size. One invocation samples one element, so the
// dispatch is ceil(count / 64) workgroups.
//
// Descriptors and shapes are in painter order: the first authored element
// is stored last, so it is drawn on top.
//
// The shader evaluates Linear, EaseIn, EaseOut, EaseInOut, Sine, Expo and
// Circ. Keyframes using any other curve are uploaded as linear and counted
// in [Mirror.Approximations].
//
// [EvaluateCPU] is a line-by-line CPU port of the shader used when no
// device is available and as the reference in tests.
//
// The package uses gogpu/wgpu's HAL directly (Vulkan by default, or any
// device handed over through SetDeviceProvider).
package gpu
