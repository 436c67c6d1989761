// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

import "math"

// Evaluate returns the eased progress of c at local progress t.
//
// t is clamped to [0, 1]; NaN is treated as 0. The result is always finite.
// Spring, Elastic and Bounce may leave [0, 1] between the endpoints but
// return 0 at t=0 and 1 at t=1.
func Evaluate(c Curve, t float32) float32 {
	x := clamp01(float64(t))

	var y float64
	switch c.Kind {
	case KindLinear:
		y = x
	case KindEaseIn:
		y = easeIn(x, power(c.Power))
	case KindEaseOut:
		y = easeOut(x, power(c.Power))
	case KindEaseInOut:
		y = easeInOut(x, power(c.Power))
	case KindSine:
		y = sineInOut(x)
	case KindExpo:
		y = expoInOut(x)
	case KindCirc:
		y = circInOut(x)
	case KindBezier:
		y = bezier(x, c.P1, c.P2)
	case KindSpring:
		y = spring(x, c.Damping, c.Stiffness, c.Mass)
	case KindElastic:
		y = elastic(x, c.Amplitude, c.Period)
	case KindBounce:
		y = bounce(x, c.Bounciness)
	case KindCustom:
		y = custom(x, c.Points)
	case KindCustomBezier:
		y = customBezier(x, c.Controls)
	default:
		y = x
	}

	if math.IsNaN(y) || math.IsInf(y, 0) {
		return float32(x)
	}
	return float32(y)
}

// Lerp interpolates a toward b by the eased progress of c at t.
func Lerp(c Curve, a, b, t float32) float32 {
	e := Evaluate(c, t)
	return a + (b-a)*e
}

func clamp01(x float64) float64 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clamp(x, lo, hi float64) float64 {
	if !(x > lo) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// power sanitizes an ease exponent. Non-positive or non-finite powers
// degenerate to linear.
func power(p float32) float64 {
	if !finite(p) || p <= 0 {
		return 1
	}
	return float64(p)
}

func easeIn(t, p float64) float64 {
	if t <= 0 {
		return 0
	}
	return math.Pow(t, p)
}

func easeOut(t, p float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(1-t, p)
}

func easeInOut(t, p float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	if t < 0.5 {
		return 0.5 * math.Pow(2*t, p)
	}
	return 1 - 0.5*math.Pow(2*(1-t), p)
}

func sineInOut(t float64) float64 {
	return 0.5 * (1 - math.Cos(math.Pi*t))
}

func expoInOut(t float64) float64 {
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	case t < 0.5:
		return 0.5 * math.Exp2(20*t-10)
	default:
		return 1 - 0.5*math.Exp2(10-20*t)
	}
}

func circInOut(t float64) float64 {
	if t < 0.5 {
		u := 2 * t
		return 0.5 * (1 - math.Sqrt(math.Max(0, 1-u*u)))
	}
	u := 2*t - 2
	return 0.5 * (math.Sqrt(math.Max(0, 1-u*u)) + 1)
}

func elastic(t float64, amplitude, period float32) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}

	p := float64(period)
	if !finite(period) || p < 1e-4 {
		p = DefaultPeriod
	}
	a := float64(amplitude)
	var s float64
	if !finite(amplitude) || a < 1 {
		a = DefaultAmplitude
		s = p / 4
	} else {
		s = p / (2 * math.Pi) * math.Asin(1/a)
	}

	u := 2*t - 1
	wave := math.Sin((u - s) * 2 * math.Pi / p)
	if u < 0 {
		return -0.5 * a * math.Exp2(10*u) * wave
	}
	return 0.5*a*math.Exp2(-10*u)*wave + 1
}

func bounceOut(t float64) float64 {
	const (
		n1 = 7.5625
		d1 = 2.75
	)
	switch {
	case t < 1/d1:
		return n1 * t * t
	case t < 2/d1:
		t -= 1.5 / d1
		return n1*t*t + 0.75
	case t < 2.5/d1:
		t -= 2.25 / d1
		return n1*t*t + 0.9375
	default:
		t -= 2.625 / d1
		return n1*t*t + 0.984375
	}
}

func bounce(t float64, bounciness float32) float64 {
	w := clamp(float64(bounciness)/3, 0, 1)
	return (1-w)*t + w*bounceOut(t)
}
