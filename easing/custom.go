// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

// custom interpolates linearly between the points bracketing t.
func custom(t float64, points []Point) float64 {
	n := len(points)
	if n == 0 {
		return t
	}
	first, last := points[0], points[n-1]
	if n == 1 || t <= float64(first.T) || t >= float64(last.T) {
		return extendPoints(t, float64(first.T), float64(first.V), float64(last.T), float64(last.V))
	}

	for i := 0; i < n-1; i++ {
		a, b := points[i], points[i+1]
		if t < float64(a.T) || t > float64(b.T) {
			continue
		}
		span := float64(b.T - a.T)
		if span < 1e-9 {
			return float64(b.V)
		}
		f := (t - float64(a.T)) / span
		return float64(a.V) + (float64(b.V)-float64(a.V))*f
	}
	return float64(last.V)
}

// extendPoints handles t outside [firstT, lastT]: before the first point the
// curve rises from the origin, after the last it runs toward (1, 1).
func extendPoints(t, firstT, firstV, lastT, lastV float64) float64 {
	if t <= firstT {
		if firstT < 1e-9 {
			return firstV
		}
		return firstV * t / firstT
	}
	if t >= lastT {
		if 1-lastT < 1e-9 {
			return lastV
		}
		return lastV + (1-lastV)*(t-lastT)/(1-lastT)
	}
	return t
}
