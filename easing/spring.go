// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// springSettleLog is ln(1000): the envelope has decayed to 0.1% at the
// settle time, which is mapped to t=1.
var springSettleLog = math.Log(1000)

// springParams sanitizes spring inputs and returns the natural frequency ω₀
// and the damping ratio ζ = damping / (2·√(stiffness·mass)).
func springParams(damping, stiffness, mass float32) (omega0, zeta float64) {
	d, k, m := float64(damping), float64(stiffness), float64(mass)
	if !finite(stiffness) || k <= 0 {
		k = DefaultStiffness
	}
	if !finite(mass) || m <= 0 {
		m = DefaultMass
	}
	if !finite(damping) || d < 0 {
		d = DefaultDamping
	}
	omega0 = math.Sqrt(k / m)
	zeta = d / (2 * math.Sqrt(k*m))
	// An undamped spring never settles.
	zeta = clamp(zeta, 0.01, 100)
	return omega0, zeta
}

// springSettleTime returns the time after which the response stays within
// 0.1% of rest, using the slowest decay rate of each damping regime.
func springSettleTime(omega0, zeta float64) float64 {
	var rate float64
	switch {
	case zeta < 1:
		// Underdamped: envelope e^(-ζω₀t), oscillating at ω_d = ω₀√(1-ζ²).
		rate = zeta * omega0
	case zeta == 1:
		// Critically damped: (1 + ω₀t)e^(-ω₀t); the linear term costs roughly
		// one extra time constant.
		return (springSettleLog + 2) / omega0
	default:
		// Overdamped: the slower real pole dominates.
		rate = omega0 * (zeta - math.Sqrt(zeta*zeta-1))
	}
	return springSettleLog / rate
}

// spring evaluates the unit step response of a damped oscillator, starting
// at rest at 0 with equilibrium 1. Time is scaled so t=1 is the settle time.
// The residual at t=1 is distributed linearly so the endpoint is exactly 1.
func spring(t float64, damping, stiffness, mass float32) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	omega0, zeta := springParams(damping, stiffness, mass)
	settle := springSettleTime(omega0, zeta)

	end := springResponse(settle, omega0, zeta)
	return springResponse(t*settle, omega0, zeta) + t*(1-end)
}

// springResponse returns x(τ) for x(0)=0, x'(0)=0 and target 1.
func springResponse(tau, omega0, zeta float64) float64 {
	s := harmonica.NewSpring(tau, omega0, zeta)
	x, _ := s.Update(0, 0, 1)
	return x
}
