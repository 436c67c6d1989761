// Package preview renders animation frames in the background.
//
// A Worker owns a Renderer and, through it, an optional GPU mirror. Callers
// hand it RenderSnapshots, which are deep copies of the scene and render
// settings, and receive finished frames on a channel. Only the latest
// request is rendered; a superseded result is dropped.
package preview

import (
	"context"
	"slices"

	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/scene"
)

// RenderSnapshot is everything needed to render one frame, detached from
// the authoring state.
type RenderSnapshot struct {
	Scene    scene.Scene
	Handlers []scene.Handler

	Width, Height uint32
	FPS           float64
	Duration      float64
	Background    [4]uint8

	// SceneVersion changes whenever Scene or Handlers change. Equal
	// versions let the renderer reuse uploaded keyframes.
	SceneVersion uint64
}

// Clone returns a deep copy of s.
func (s RenderSnapshot) Clone() RenderSnapshot {
	s.Scene = s.Scene.Clone()
	s.Handlers = slices.Clone(s.Handlers)
	return s
}

// Frame converts seconds to a fractional frame index.
func (s *RenderSnapshot) Frame(seconds float64) float32 {
	if !(s.FPS > 0) || !(seconds > 0) {
		return 0
	}
	if s.Duration > 0 {
		seconds = min(seconds, s.Duration)
	}
	return float32(seconds * s.FPS)
}

// elements returns the flattened primitives at seconds, after time
// handlers have run against a working copy. ran reports whether any
// handler ran, in which case the result is specific to this instant.
func (s *RenderSnapshot) elements(ctx context.Context, runner scene.HandlerRunner, seconds float64) (elems []scene.Element, ran bool, err error) {
	elems = s.Scene.Flatten()
	if runner == nil || !scene.HasTimeHandlers(s.Handlers) {
		return elems, false, nil
	}
	for i := range elems {
		elems[i] = elems[i].Clone()
	}
	vars := scene.TimeVars{
		Seconds: float32(seconds),
		Frame:   keyframe.SecondsToFrame(seconds, s.FPS),
	}
	if err := scene.ApplyTimeHandlers(ctx, runner, s.Handlers, vars, elems); err != nil {
		return elems, true, err
	}
	return elems, true, nil
}

// tracks bakes elems into keyframe tracks, skipping groups.
func tracks(elems []scene.Element, fps float64) []*keyframe.ElementKeyframes {
	out := make([]*keyframe.ElementKeyframes, 0, len(elems))
	for i := range elems {
		if k := elems[i].Tracks(fps); k != nil {
			out = append(out, k)
		}
	}
	return out
}
