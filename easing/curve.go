// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package easing

import (
	"fmt"
	"slices"
)

// Kind identifies an easing variant.
type Kind uint8

const (
	// KindLinear is the identity curve.
	KindLinear Kind = iota

	// KindEaseIn is t^power.
	KindEaseIn

	// KindEaseOut is 1-(1-t)^power.
	KindEaseOut

	// KindEaseInOut splits EaseIn and EaseOut symmetrically at t=0.5.
	KindEaseInOut

	// KindSine is the cosine ease-in-out.
	KindSine

	// KindExpo is the exponential ease-in-out.
	KindExpo

	// KindCirc is the circular ease-in-out.
	KindCirc

	// KindBezier is a two-control-point cubic timing curve.
	KindBezier

	// KindSpring is a damped harmonic oscillator step response.
	KindSpring

	// KindElastic is the Penner elastic ease-in-out.
	KindElastic

	// KindBounce blends identity with a bounce-out curve.
	KindBounce

	// KindCustom is piecewise-linear through user points.
	KindCustom

	// KindCustomBezier is a chain of cubic segments through user control points.
	KindCustomBezier

	kindCount
)

var kindNames = [kindCount]string{
	KindLinear:       "linear",
	KindEaseIn:       "ease_in",
	KindEaseOut:      "ease_out",
	KindEaseInOut:    "ease_in_out",
	KindSine:         "sine",
	KindExpo:         "expo",
	KindCirc:         "circ",
	KindBezier:       "bezier",
	KindSpring:       "spring",
	KindElastic:      "elastic",
	KindBounce:       "bounce",
	KindCustom:       "custom",
	KindCustomBezier: "custom_bezier",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Vec2 is a 2D point in curve space (x = progress, y = eased value).
type Vec2 struct {
	X, Y float32
}

// Point is one sample of a Custom curve.
type Point struct {
	T, V float32
}

// ControlPoint is one knot of a CustomBezier curve. Handles are offsets
// relative to Position.
type ControlPoint struct {
	Position    Vec2
	HandleLeft  Vec2
	HandleRight Vec2
}

// Default parameters substituted for missing or degenerate inputs.
const (
	DefaultPower      = 2
	DefaultDamping    = 12
	DefaultStiffness  = 120
	DefaultMass       = 1
	DefaultAmplitude  = 1
	DefaultPeriod     = 0.3
	DefaultBounciness = 1
)

// Curve is an easing curve. Only the fields belonging to Kind are read.
type Curve struct {
	Kind Kind

	// Power is used by EaseIn, EaseOut and EaseInOut.
	Power float32

	// P1 and P2 are the Bezier control points.
	P1, P2 Vec2

	// Spring parameters.
	Damping, Stiffness, Mass float32

	// Elastic parameters.
	Amplitude, Period float32

	// Bounciness is used by Bounce.
	Bounciness float32

	// Points holds Custom samples ordered by T.
	Points []Point

	// Controls holds CustomBezier knots ordered by Position.X.
	Controls []ControlPoint
}

// Linear returns the identity curve.
func Linear() Curve { return Curve{Kind: KindLinear} }

// EaseIn returns t^power.
func EaseIn(power float32) Curve { return Curve{Kind: KindEaseIn, Power: power} }

// EaseOut returns 1-(1-t)^power.
func EaseOut(power float32) Curve { return Curve{Kind: KindEaseOut, Power: power} }

// EaseInOut returns the symmetric power curve.
func EaseInOut(power float32) Curve { return Curve{Kind: KindEaseInOut, Power: power} }

// Sine returns the cosine ease-in-out preset.
func Sine() Curve { return Curve{Kind: KindSine} }

// Expo returns the exponential ease-in-out preset.
func Expo() Curve { return Curve{Kind: KindExpo} }

// Circ returns the circular ease-in-out preset.
func Circ() Curve { return Curve{Kind: KindCirc} }

// Bezier returns a cubic timing curve with control points p1 and p2.
// The X coordinates are clamped to [0, 1] at evaluation time.
func Bezier(p1, p2 Vec2) Curve { return Curve{Kind: KindBezier, P1: p1, P2: p2} }

// Spring returns a damped spring curve.
func Spring(damping, stiffness, mass float32) Curve {
	return Curve{Kind: KindSpring, Damping: damping, Stiffness: stiffness, Mass: mass}
}

// DefaultSpring returns a lightly underdamped spring.
func DefaultSpring() Curve { return Spring(DefaultDamping, DefaultStiffness, DefaultMass) }

// Elastic returns an elastic curve.
func Elastic(amplitude, period float32) Curve {
	return Curve{Kind: KindElastic, Amplitude: amplitude, Period: period}
}

// Bounce returns a bounce curve. bounciness/3 is the blend toward full bounce.
func Bounce(bounciness float32) Curve { return Curve{Kind: KindBounce, Bounciness: bounciness} }

// Custom returns a piecewise-linear curve through points.
// The points are copied and sorted by T.
func Custom(points ...Point) Curve {
	p := slices.Clone(points)
	slices.SortStableFunc(p, func(a, b Point) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return Curve{Kind: KindCustom, Points: p}
}

// CustomBezier returns a chain of cubic segments through controls.
// The controls are copied and sorted by Position.X.
func CustomBezier(controls ...ControlPoint) Curve {
	c := slices.Clone(controls)
	slices.SortStableFunc(c, func(a, b ControlPoint) int {
		switch {
		case a.Position.X < b.Position.X:
			return -1
		case a.Position.X > b.Position.X:
			return 1
		}
		return 0
	})
	return Curve{Kind: KindCustomBezier, Controls: c}
}

// Clone returns a deep copy of c.
func (c Curve) Clone() Curve {
	c.Points = slices.Clone(c.Points)
	c.Controls = slices.Clone(c.Controls)
	return c
}

// Equal reports whether two curves evaluate identically.
func (c Curve) Equal(o Curve) bool {
	return c.Kind == o.Kind &&
		c.Power == o.Power &&
		c.P1 == o.P1 && c.P2 == o.P2 &&
		c.Damping == o.Damping && c.Stiffness == o.Stiffness && c.Mass == o.Mass &&
		c.Amplitude == o.Amplitude && c.Period == o.Period &&
		c.Bounciness == o.Bounciness &&
		slices.Equal(c.Points, o.Points) &&
		slices.Equal(c.Controls, o.Controls)
}

// String returns a compact description of the curve.
func (c Curve) String() string {
	switch c.Kind {
	case KindEaseIn, KindEaseOut, KindEaseInOut:
		return fmt.Sprintf("%s(%g)", c.Kind, c.Power)
	case KindBezier:
		return fmt.Sprintf("bezier(%g,%g,%g,%g)", c.P1.X, c.P1.Y, c.P2.X, c.P2.Y)
	case KindSpring:
		return fmt.Sprintf("spring(%g,%g,%g)", c.Damping, c.Stiffness, c.Mass)
	case KindElastic:
		return fmt.Sprintf("elastic(%g,%g)", c.Amplitude, c.Period)
	case KindBounce:
		return fmt.Sprintf("bounce(%g)", c.Bounciness)
	case KindCustom:
		return fmt.Sprintf("custom(%d points)", len(c.Points))
	case KindCustomBezier:
		return fmt.Sprintf("custom_bezier(%d points)", len(c.Controls))
	default:
		return c.Kind.String()
	}
}
