// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

import "math"

const (
	newtonIterations = 8
	newtonMinSlope   = 1e-6
)

// cubicAxis evaluates one axis of a cubic Bezier anchored at 0 and 1.
func cubicAxis(u, p1, p2 float64) float64 {
	v := 1 - u
	return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
}

// cubicAxisSlope is the derivative of cubicAxis with respect to u.
func cubicAxisSlope(u, p1, p2 float64) float64 {
	v := 1 - u
	return 3*v*v*p1 + 6*v*u*(p2-p1) + 3*u*u*(1-p2)
}

// bezier solves x(u) = t by Newton-Raphson starting from u = t and returns y(u).
func bezier(t float64, p1, p2 Vec2) float64 {
	x1 := clamp01(float64(p1.X))
	x2 := clamp01(float64(p2.X))
	y1 := float64(p1.Y)
	y2 := float64(p2.Y)
	if !finite(p1.Y) {
		y1 = x1
	}
	if !finite(p2.Y) {
		y2 = x2
	}

	u := t
	for range newtonIterations {
		dx := cubicAxis(u, x1, x2) - t
		slope := cubicAxisSlope(u, x1, x2)
		if math.Abs(slope) < newtonMinSlope {
			break
		}
		u = clamp01(u - dx/slope)
	}
	return cubicAxis(u, y1, y2)
}

// cubic evaluates a full four-point cubic on one axis.
func cubic(u, c0, c1, c2, c3 float64) float64 {
	v := 1 - u
	return v*v*v*c0 + 3*v*v*u*c1 + 3*v*u*u*c2 + u*u*u*c3
}

// cubicSlope is the derivative of cubic with respect to u.
func cubicSlope(u, c0, c1, c2, c3 float64) float64 {
	v := 1 - u
	return 3*v*v*(c1-c0) + 6*v*u*(c2-c1) + 3*u*u*(c3-c2)
}

// customBezier selects the segment bracketing t and solves it like bezier.
func customBezier(t float64, controls []ControlPoint) float64 {
	n := len(controls)
	if n == 0 {
		return t
	}
	first := controls[0].Position
	last := controls[n-1].Position
	if n == 1 || t <= float64(first.X) || t >= float64(last.X) {
		return extendPoints(t, float64(first.X), float64(first.Y), float64(last.X), float64(last.Y))
	}

	i := 0
	for i < n-2 && t >= float64(controls[i+1].Position.X) {
		i++
	}
	a, b := controls[i], controls[i+1]

	x0 := float64(a.Position.X)
	x3 := float64(b.Position.X)
	y0 := float64(a.Position.Y)
	y3 := float64(b.Position.Y)
	if x3-x0 < 1e-9 {
		return y3
	}
	// Handles are kept inside the segment so x(u) stays a function.
	x1 := clamp(x0+float64(a.HandleRight.X), x0, x3)
	x2 := clamp(x3+float64(b.HandleLeft.X), x0, x3)
	y1 := y0 + float64(a.HandleRight.Y)
	y2 := y3 + float64(b.HandleLeft.Y)

	u := clamp01((t - x0) / (x3 - x0))
	for range newtonIterations {
		dx := cubic(u, x0, x1, x2, x3) - t
		slope := cubicSlope(u, x0, x1, x2, x3)
		if math.Abs(slope) < newtonMinSlope {
			break
		}
		u = clamp01(u - dx/slope)
	}
	return cubic(u, y0, y1, y2, y3)
}
