package move

import (
	"math"
	"testing"

	"github.com/gogpu/motion/easing"
)

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-5 }

func TestAnimatedXYHalfway(t *testing.T) {
	segs := []Segment{{Start: 0, End: 5, ToX: 0.7, ToY: 0.5}}
	x, y := AnimatedXY(0.5, 0.5, segs, 2.5)
	if !near(x, 0.6) || !near(y, 0.5) {
		t.Errorf("AnimatedXY = (%v, %v), want (0.6, 0.5)", x, y)
	}
}

func TestAnimatedXYChaining(t *testing.T) {
	// Authored out of order on purpose.
	segs := []Segment{
		{Start: 2, End: 4, ToX: 1, ToY: 1},
		{Start: 0, End: 2, ToX: 0.5, ToY: 0},
	}
	tests := []struct {
		name   string
		time   float32
		wx, wy float32
	}{
		{"before any segment", -1, 0, 0},
		{"inside first", 1, 0.25, 0},
		{"first committed", 2, 0.5, 0},
		{"second starts from first target", 3, 0.75, 0.5},
		{"all committed", 10, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := AnimatedXY(0, 0, segs, tt.time)
			if !near(x, tt.wx) || !near(y, tt.wy) {
				t.Errorf("AnimatedXY(%v) = (%v, %v), want (%v, %v)", tt.time, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestAnimatedXYGapHoldsPosition(t *testing.T) {
	segs := []Segment{
		{Start: 0, End: 1, ToX: 1, ToY: 0},
		{Start: 3, End: 4, ToX: 1, ToY: 1},
	}
	x, y := AnimatedXY(0, 0, segs, 2)
	if !near(x, 1) || !near(y, 0) {
		t.Errorf("AnimatedXY = (%v, %v), want (1, 0)", x, y)
	}
}

func TestAnimatedXYInterruptedChain(t *testing.T) {
	// The second segment starts while the first is still running: it
	// interpolates from the first segment's committed target once the
	// first one has ended.
	segs := []Segment{
		{Start: 0, End: 4, ToX: 1, ToY: 0},
		{Start: 2, End: 6, ToX: 1, ToY: 1, Easing: easing.EaseIn(2)},
	}
	x, y := AnimatedXY(0, 0, segs, 3)
	if !near(x, 0.75) || !near(y, 0) {
		t.Errorf("AnimatedXY(3) = (%v, %v), want (0.75, 0)", x, y)
	}
	x, y = AnimatedXY(0, 0, segs, 5)
	if !near(x, 1) || !near(y, 0.5625) {
		t.Errorf("AnimatedXY(5) = (%v, %v), want (1, 0.5625)", x, y)
	}
}

func TestAnimatedXYZeroLength(t *testing.T) {
	segs := []Segment{{Start: 1, End: 1, ToX: 3, ToY: 4}}
	x, y := AnimatedXY(0, 0, segs, 1)
	if x != 3 || y != 4 {
		t.Errorf("zero-length segment = (%v, %v), want (3, 4)", x, y)
	}
	x, y = AnimatedXY(0, 0, segs, 0.5)
	if x != 0 || y != 0 {
		t.Errorf("before zero-length segment = (%v, %v), want base", x, y)
	}
}

func TestAnimatedXYNoSegments(t *testing.T) {
	x, y := AnimatedXY(0.3, 0.4, nil, 9)
	if x != 0.3 || y != 0.4 {
		t.Errorf("AnimatedXY = (%v, %v), want base", x, y)
	}
}

func TestEnd(t *testing.T) {
	if got := End([]Segment{{End: 2}, {End: 7}, {End: 3}}); got != 7 {
		t.Errorf("End = %v, want 7", got)
	}
}
