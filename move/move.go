// Package move resolves chained multi-segment Move animations.
//
// A Move segment carries an element toward a target over a time window.
// Segments are resolved in start order and each one starts from wherever
// the previous ones left the element, so chains compose without the
// author repeating intermediate positions.
package move

import (
	"math"
	"slices"

	"github.com/gogpu/motion/easing"
)

// segmentEpsilon is the shortest span that is interpolated; shorter
// segments jump straight to their target.
const segmentEpsilon = 1e-6

// Segment moves an element to (ToX, ToY) between Start and End seconds.
type Segment struct {
	ToX, ToY   float32
	Start, End float32
	Easing     easing.Curve
}

// Sorted returns a copy of segs ordered by Start. Equal starts keep their
// authored order.
func Sorted(segs []Segment) []Segment {
	out := slices.Clone(segs)
	slices.SortStableFunc(out, func(a, b Segment) int {
		switch {
		case a.Start < b.Start:
			return -1
		case a.Start > b.Start:
			return 1
		}
		return 0
	})
	return out
}

// AnimatedXY returns the position at time for an element whose resting
// position is (baseX, baseY). segs may be in any order.
func AnimatedXY(baseX, baseY float32, segs []Segment, time float32) (x, y float32) {
	if len(segs) == 0 {
		return baseX, baseY
	}
	if !slices.IsSortedFunc(segs, func(a, b Segment) int {
		if a.Start < b.Start {
			return -1
		}
		if a.Start > b.Start {
			return 1
		}
		return 0
	}) {
		segs = Sorted(segs)
	}
	return resolve(baseX, baseY, segs, time)
}

func resolve(x, y float32, segs []Segment, time float32) (float32, float32) {
	if math.IsNaN(float64(time)) {
		return x, y
	}
	for _, s := range segs {
		if time < s.Start {
			return x, y
		}
		if time >= s.End {
			x, y = s.ToX, s.ToY
			continue
		}
		t := float32(1)
		if span := s.End - s.Start; span > segmentEpsilon {
			t = (time - s.Start) / span
		}
		e := easing.Evaluate(s.Easing, t)
		return x + (s.ToX-x)*e, y + (s.ToY-y)*e
	}
	return x, y
}

// End returns the time at which the last segment finishes, or 0.
func End(segs []Segment) float32 {
	var end float32
	for _, s := range segs {
		end = max(end, s.End)
	}
	return end
}
