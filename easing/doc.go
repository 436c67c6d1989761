// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package easing implements the easing curves used to shape interpolation
// between two keyframes.
//
// A [Curve] is a closed sum type: its [Kind] selects the variant and the
// remaining fields carry that variant's parameters. All variants are
// evaluated by the single function [Evaluate], which clamps its input to
// [0, 1] and always returns a finite value:
//
//	c := easing.Bezier(easing.Vec2{X: 0.25, Y: 0.1}, easing.Vec2{X: 0.25, Y: 1})
//	y := easing.Evaluate(c, 0.5)
//
// The zero Curve is Linear.
//
// GPU evaluation supports a subset of the curves (see [GPUSupported]).
// [GPUCode] encodes a curve for upload and [FromGPU] decodes it again, so
// the GPU reference implementation shares this package's evaluation code.
package easing
