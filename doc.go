// Package motion is a keyframe animation engine for 2D scenes.
//
// # Overview
//
// A scene is a list of circles, rects, text and groups. Each element either
// rests at its authored position, follows legacy Move segments, or is driven
// per property by keyframe tracks with easing curves. motion answers three
// questions about such a scene at any point on the timeline: where every
// primitive is, which primitive is under a point, and what color a point is.
//
// # Quick Start
//
//	sc := scene.Scene{{
//	    Name: "ball", Kind: scene.Circle,
//	    X: 0.1, Y: 0.5, Radius: 0.05, Color: [4]uint8{255, 0, 0, 255},
//	    Moves: []move.Segment{{ToX: 0.9, ToY: 0.5, End: 2, Easing: easing.Linear()}},
//	}}
//
//	s, err := motion.NewSession(sc)
//	if err != nil { ... }
//	defer s.Close()
//
//	name, ok, err := s.HitTest(ctx, 0.5, 0.5, 1.0)
//
// # Architecture
//
// The module is organized into:
//   - easing: easing curves (named, cubic bezier, spring, custom)
//   - move: legacy multi-segment Move resolution
//   - keyframe: typed property tracks and sampling
//   - scene: elements, flattening, time handlers and track baking
//   - poscache: per-frame positions, bounding boxes and a spatial hash
//     for hit tests and color sampling
//   - gpu: compute shader evaluation of every track in one dispatch
//   - preview: latest-wins background frame rendering with a frame cache
//
// Session ties these together and rebuilds derived state when the scene,
// handlers or settings change.
//
// # Coordinates
//
// Positions and sizes are normalized to [0, 1] of the render target. Scene
// index 0 is the topmost element; GPU shapes are returned in painter order,
// topmost last.
//
// # Logging
//
// motion is silent by default. Use [SetLogger] to enable structured logging
// through log/slog for this package and the GPU mirror.
package motion
