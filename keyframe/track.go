// Package keyframe models per-property keyframe tracks and samples them.
//
// A [Track] is an ordered list of [Keyframe] values for one property. The
// easing stored on a keyframe shapes the interpolation toward the next
// keyframe in the same track. Sampling holds the first value before the
// first keyframe and the last value after the last keyframe.
package keyframe

import (
	"math"
	"sort"

	"github.com/gogpu/motion/easing"
)

// Keyframe anchors a property value at a frame.
type Keyframe[V any] struct {
	Frame  uint32
	Value  V
	Easing easing.Curve
}

// Track is a list of keyframes sorted by ascending Frame with no duplicate frames.
type Track[V any] []Keyframe[V]

// Lerper interpolates between two values by eased progress e.
type Lerper[V any] func(a, b V, e float32) V

// Insert adds k to the track, replacing any keyframe at the same frame.
// The returned track stays sorted.
func (tr Track[V]) Insert(k Keyframe[V]) Track[V] {
	i := sort.Search(len(tr), func(j int) bool { return tr[j].Frame >= k.Frame })
	if i < len(tr) && tr[i].Frame == k.Frame {
		tr[i] = k
		return tr
	}
	tr = append(tr, Keyframe[V]{})
	copy(tr[i+1:], tr[i:])
	tr[i] = k
	return tr
}

// Set writes value at frame. An existing keyframe at that frame keeps its
// easing; a new one is linear.
func (tr Track[V]) Set(frame uint32, value V) Track[V] {
	i := sort.Search(len(tr), func(j int) bool { return tr[j].Frame >= frame })
	if i < len(tr) && tr[i].Frame == frame {
		tr[i].Value = value
		return tr
	}
	return tr.Insert(Keyframe[V]{Frame: frame, Value: value})
}

// Remove deletes the keyframe at frame and reports whether one existed.
func (tr Track[V]) Remove(frame uint32) (Track[V], bool) {
	i := sort.Search(len(tr), func(j int) bool { return tr[j].Frame >= frame })
	if i == len(tr) || tr[i].Frame != frame {
		return tr, false
	}
	return append(tr[:i], tr[i+1:]...), true
}

// Clone returns a deep copy of the track.
func (tr Track[V]) Clone() Track[V] {
	if tr == nil {
		return nil
	}
	out := make(Track[V], len(tr))
	for i, k := range tr {
		k.Easing = k.Easing.Clone()
		out[i] = k
	}
	return out
}

// Bracket locates the keyframes around frame. It returns the index of the
// left keyframe and the local progress toward the next one. hold is true
// when frame lies outside the keyframed range (or the track has a single
// keyframe), in which case i is the keyframe to hold and t is 0.
// The track must not be empty.
func (tr Track[V]) Bracket(frame float32) (i int, t float32, hold bool) {
	n := len(tr)
	if math.IsNaN(float64(frame)) || n == 1 || frame <= float32(tr[0].Frame) {
		return 0, 0, true
	}
	if frame >= float32(tr[n-1].Frame) {
		return n - 1, 0, true
	}
	i = sort.Search(n, func(j int) bool { return float32(tr[j].Frame) > frame }) - 1
	a, b := tr[i], tr[i+1]
	t = (frame - float32(a.Frame)) / float32(b.Frame-a.Frame)
	return i, t, false
}

// Sample evaluates the track at frame. ok is false for an empty track.
func Sample[V any](tr Track[V], frame float32, lerp Lerper[V]) (v V, ok bool) {
	if len(tr) == 0 {
		return v, false
	}
	i, t, hold := tr.Bracket(frame)
	if hold {
		return tr[i].Value, true
	}
	a, b := tr[i], tr[i+1]
	return lerp(a.Value, b.Value, easing.Evaluate(a.Easing, t)), true
}

// LerpFloat interpolates linearly.
func LerpFloat(a, b, e float32) float32 {
	return a + (b-a)*e
}

// LerpColor interpolates each channel and rounds to the nearest integer.
func LerpColor(a, b [4]uint8, e float32) [4]uint8 {
	var out [4]uint8
	for c := range out {
		v := float32(a[c]) + (float32(b[c])-float32(a[c]))*e
		out[c] = uint8(math.Round(float64(min(max(v, 0), 255))))
	}
	return out
}

// LerpColorF interpolates channels normalized to [0, 1] without rounding.
func LerpColorF(a, b [4]float32, e float32) [4]float32 {
	var out [4]float32
	for c := range out {
		out[c] = a[c] + (b[c]-a[c])*e
	}
	return out
}

// Step holds a until the next keyframe.
func Step[V any](a, _ V, _ float32) V {
	return a
}
