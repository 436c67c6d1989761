package scene

import (
	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/move"
)

// Tracks returns per-property tracks equivalent to a flattened element.
//
// Authored tracks are cloned and any empty track is filled with the static
// value. Moves are baked into X and Y keyframes at the segment boundaries
// rounded to whole frames, so segments that overlap in time are
// approximated by their committed targets. Groups return nil.
func (e *Element) Tracks(fps float64) *keyframe.ElementKeyframes {
	kind, ok := e.Kind.Primitive()
	if !ok {
		return nil
	}

	var k *keyframe.ElementKeyframes
	if e.Keyframes != nil {
		k = e.Keyframes.Clone()
	} else {
		k = &keyframe.ElementKeyframes{}
		k.X, k.Y = bakeMoves(e.X, e.Y, e.Moves, fps)
	}
	k.Name = e.Name
	k.Kind = kind
	k.Ephemeral = e.Ephemeral
	k.SpawnFrame = max(k.SpawnFrame, keyframe.SecondsToFrame(float64(e.SpawnTime), fps))
	if e.HasKill {
		kill := keyframe.SecondsToFrame(float64(e.KillTime), fps)
		if !k.HasKill || kill < k.KillFrame {
			k.SetKill(kill)
		}
	}

	spawn := k.SpawnFrame
	k.X = orStatic(k.X, spawn, e.X)
	k.Y = orStatic(k.Y, spawn, e.Y)
	k.W = orStatic(k.W, spawn, e.W)
	k.H = orStatic(k.H, spawn, e.H)
	k.Radius = orStatic(k.Radius, spawn, e.Radius)
	k.Size = orStatic(k.Size, spawn, e.Size)
	k.Color = orStatic(k.Color, spawn, e.Color)
	k.Value = orStatic(k.Value, spawn, e.Value)
	k.Visible = orStatic(k.Visible, spawn, !e.Hidden)
	k.ZIndex = orStatic(k.ZIndex, spawn, e.ZIndex)
	return k
}

func orStatic[V any](tr keyframe.Track[V], frame uint32, v V) keyframe.Track[V] {
	if len(tr) > 0 {
		return tr
	}
	return keyframe.Track[V]{{Frame: frame, Value: v}}
}

// bakeMoves converts Move segments into X and Y tracks. Each segment
// contributes a keyframe at its start, carrying its easing, and one at its
// end. Empty input yields empty tracks.
func bakeMoves(baseX, baseY float32, segs []move.Segment, fps float64) (xs, ys keyframe.Track[float32]) {
	if len(segs) == 0 {
		return nil, nil
	}
	xs = xs.Insert(keyframe.Keyframe[float32]{Frame: 0, Value: baseX})
	ys = ys.Insert(keyframe.Keyframe[float32]{Frame: 0, Value: baseY})

	for _, s := range move.Sorted(segs) {
		start := keyframe.SecondsToFrame(float64(s.Start), fps)
		end := keyframe.SecondsToFrame(float64(s.End), fps)
		x0, y0 := move.AnimatedXY(baseX, baseY, segs, s.Start)

		if end > start {
			xs = xs.Insert(keyframe.Keyframe[float32]{Frame: start, Value: x0, Easing: s.Easing})
			ys = ys.Insert(keyframe.Keyframe[float32]{Frame: start, Value: y0, Easing: s.Easing})
		}
		xs = xs.Insert(keyframe.Keyframe[float32]{Frame: end, Value: s.ToX})
		ys = ys.Insert(keyframe.Keyframe[float32]{Frame: end, Value: s.ToY})
	}
	return xs, ys
}
