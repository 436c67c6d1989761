// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

import (
	"math"
	"testing"
)

func allCurves() []Curve {
	return []Curve{
		Linear(),
		EaseIn(2),
		EaseIn(3.5),
		EaseOut(2),
		EaseInOut(3),
		Sine(),
		Expo(),
		Circ(),
		Bezier(Vec2{0.25, 0.1}, Vec2{0.25, 1}),
		Bezier(Vec2{0.42, 0}, Vec2{0.58, 1}),
		DefaultSpring(),
		Spring(0.7, 120, 1),
		Spring(40, 100, 1),
		Spring(20, 100, 1),
		Elastic(1, 0.3),
		Elastic(0.5, 0),
		Bounce(1),
		Bounce(3),
		Custom(Point{0.25, 0.5}, Point{0.75, 0.6}),
		CustomBezier(
			ControlPoint{Position: Vec2{0, 0}, HandleRight: Vec2{0.2, 0}},
			ControlPoint{Position: Vec2{0.5, 0.7}, HandleLeft: Vec2{-0.1, 0}, HandleRight: Vec2{0.1, 0}},
			ControlPoint{Position: Vec2{1, 1}, HandleLeft: Vec2{-0.2, 0}},
		),
	}
}

func TestEvaluateEndpoints(t *testing.T) {
	for _, c := range allCurves() {
		t.Run(c.String(), func(t *testing.T) {
			if got := Evaluate(c, 0); math.Abs(float64(got)) > 1e-3 {
				t.Errorf("Evaluate(%s, 0) = %v, want 0", c, got)
			}
			if got := Evaluate(c, 1); math.Abs(float64(got)-1) > 1e-3 {
				t.Errorf("Evaluate(%s, 1) = %v, want 1", c, got)
			}
		})
	}
}

func TestEvaluateTotal(t *testing.T) {
	inputs := []float32{
		-1, -0.0001, 0.1, 0.5, 0.9, 1.0001, 7,
		float32(math.NaN()), float32(math.Inf(1)), float32(math.Inf(-1)),
	}
	degenerate := []Curve{
		EaseIn(0), EaseOut(-3), EaseInOut(float32(math.NaN())),
		Spring(0, 0, 0), Spring(-1, -1, -1), Spring(float32(math.Inf(1)), 1, 1),
		Elastic(float32(math.NaN()), float32(math.NaN())),
		Bounce(float32(math.NaN())),
		Bezier(Vec2{-5, float32(math.Inf(1))}, Vec2{9, 0}),
		Custom(), Custom(Point{0.5, 0.5}),
		CustomBezier(), CustomBezier(ControlPoint{Position: Vec2{0.5, 0.2}}),
		{Kind: Kind(200)},
	}
	for _, c := range append(allCurves(), degenerate...) {
		for _, in := range inputs {
			got := Evaluate(c, in)
			if math.IsNaN(float64(got)) || math.IsInf(float64(got), 0) {
				t.Errorf("Evaluate(%s, %v) = %v, want finite", c, in, got)
			}
		}
	}
}

func TestEvaluateClampsInput(t *testing.T) {
	c := EaseInOut(2)
	if got, want := Evaluate(c, -3), Evaluate(c, 0); got != want {
		t.Errorf("Evaluate(-3) = %v, want %v", got, want)
	}
	if got, want := Evaluate(c, 4), Evaluate(c, 1); got != want {
		t.Errorf("Evaluate(4) = %v, want %v", got, want)
	}
}

func TestPowerCurves(t *testing.T) {
	tests := []struct {
		name string
		c    Curve
		t    float32
		want float32
	}{
		{"in quad", EaseIn(2), 0.5, 0.25},
		{"out quad", EaseOut(2), 0.5, 0.75},
		{"in out quad low", EaseInOut(2), 0.25, 0.125},
		{"in out quad high", EaseInOut(2), 0.75, 0.875},
		{"in out midpoint", EaseInOut(5), 0.5, 0.5},
		{"power one is linear", EaseIn(1), 0.3, 0.3},
		{"zero power is linear", EaseOut(0), 0.3, 0.3},
		{"sine midpoint", Sine(), 0.5, 0.5},
		{"expo midpoint", Expo(), 0.5, 0.5},
		{"circ midpoint", Circ(), 0.5, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.c, tt.t)
			if math.Abs(float64(got-tt.want)) > 1e-5 {
				t.Errorf("Evaluate(%s, %v) = %v, want %v", tt.c, tt.t, got, tt.want)
			}
		})
	}
}

func TestBezierConvergence(t *testing.T) {
	c := Bezier(Vec2{0.25, 0.1}, Vec2{0.25, 1})

	mid := Evaluate(c, 0.5)
	if mid < 0.3 || mid > 0.7 {
		t.Errorf("Evaluate(0.5) = %v, want within [0.3, 0.7]", mid)
	}

	prev := Evaluate(c, 0)
	for i := 1; i <= 100; i++ {
		cur := Evaluate(c, float32(i)/100)
		if cur < prev-1e-6 {
			t.Fatalf("not monotonic at sample %d: %v < %v", i, cur, prev)
		}
		prev = cur
	}
}

func TestBezierLinearControls(t *testing.T) {
	c := Bezier(Vec2{1.0 / 3, 1.0 / 3}, Vec2{2.0 / 3, 2.0 / 3})
	for i := 0; i <= 10; i++ {
		x := float32(i) / 10
		if got := Evaluate(c, x); math.Abs(float64(got-x)) > 1e-4 {
			t.Errorf("Evaluate(%v) = %v, want %v", x, got, x)
		}
	}
}

func TestSpringRegimes(t *testing.T) {
	tests := []struct {
		name      string
		c         Curve
		overshoot bool
	}{
		{"underdamped", Spring(4, 100, 1), true},
		{"critical", Spring(20, 100, 1), false},
		{"overdamped", Spring(60, 100, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxV := float32(0)
			for i := 0; i <= 200; i++ {
				v := Evaluate(tt.c, float32(i)/200)
				maxV = max(maxV, v)
			}
			if got := maxV > 1.01; got != tt.overshoot {
				t.Errorf("overshoot = %v (max %v), want %v", got, maxV, tt.overshoot)
			}
		})
	}
}

func TestSpringParams(t *testing.T) {
	omega0, zeta := springParams(20, 100, 1)
	if math.Abs(omega0-10) > 1e-9 {
		t.Errorf("omega0 = %v, want 10", omega0)
	}
	if math.Abs(zeta-1) > 1e-9 {
		t.Errorf("zeta = %v, want 1", zeta)
	}
}

func TestElasticOvershoots(t *testing.T) {
	c := Elastic(1, 0.3)
	var lo, hi float32
	for i := 0; i <= 200; i++ {
		v := Evaluate(c, float32(i)/200)
		lo, hi = min(lo, v), max(hi, v)
	}
	if lo >= 0 || hi <= 1 {
		t.Errorf("range [%v, %v], want overshoot on both sides", lo, hi)
	}
}

func TestBounceBlend(t *testing.T) {
	if got := Evaluate(Bounce(0), 0.3); math.Abs(float64(got)-0.3) > 1e-6 {
		t.Errorf("Bounce(0) = %v, want identity", got)
	}
	full := Evaluate(Bounce(3), 0.3)
	if want := float32(bounceOut(0.3)); math.Abs(float64(full-want)) > 1e-6 {
		t.Errorf("Bounce(3) = %v, want %v", full, want)
	}
	if got := Evaluate(Bounce(9), 0.3); got != full {
		t.Errorf("Bounce(9) = %v, want clamped to %v", got, full)
	}
}

func TestCustom(t *testing.T) {
	c := Custom(Point{0.75, 0.6}, Point{0.25, 0.5})
	tests := []struct {
		t, want float32
	}{
		{0.125, 0.25}, // from origin toward the first point
		{0.5, 0.55},
		{0.875, 0.8}, // toward (1, 1)
	}
	for _, tt := range tests {
		if got := Evaluate(c, tt.t); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Evaluate(%v) = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestCustomBezierPassesKnots(t *testing.T) {
	c := CustomBezier(
		ControlPoint{Position: Vec2{1, 1}, HandleLeft: Vec2{-0.2, 0}},
		ControlPoint{Position: Vec2{0, 0}, HandleRight: Vec2{0.2, 0}},
		ControlPoint{Position: Vec2{0.5, 0.7}, HandleLeft: Vec2{-0.1, 0}, HandleRight: Vec2{0.1, 0}},
	)
	if got := Evaluate(c, 0.5); math.Abs(float64(got)-0.7) > 1e-4 {
		t.Errorf("Evaluate(0.5) = %v, want 0.7", got)
	}
}

func TestGPUCodeRoundTrip(t *testing.T) {
	for _, c := range allCurves() {
		code, param, ok := GPUCode(c)
		if ok != GPUSupported(c) {
			t.Errorf("%s: ok = %v, GPUSupported = %v", c, ok, GPUSupported(c))
		}
		if !ok {
			if code != GPULinear {
				t.Errorf("%s: unsupported code = %d, want linear", c, code)
			}
			continue
		}
		back := FromGPU(code, param)
		for i := 0; i <= 10; i++ {
			x := float32(i) / 10
			if a, b := Evaluate(c, x), Evaluate(back, x); a != b {
				t.Errorf("%s: Evaluate(%v) = %v, decoded %v", c, x, a, b)
			}
		}
	}
}

func TestKindString(t *testing.T) {
	if got := KindCustomBezier.String(); got != "custom_bezier" {
		t.Errorf("String() = %q", got)
	}
	if got := Kind(99).String(); got != "Kind(99)" {
		t.Errorf("String() = %q", got)
	}
}

func TestCurveCloneIndependent(t *testing.T) {
	c := Custom(Point{0.5, 0.5})
	d := c.Clone()
	d.Points[0].V = 0.9
	if c.Points[0].V != 0.5 {
		t.Error("Clone shares Points")
	}
	if c.Equal(d) {
		t.Error("Equal after mutation")
	}
}
