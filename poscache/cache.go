// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package poscache precomputes per-frame primitive positions for hit
// testing and color sampling.
//
// A [PositionCache] holds, for every output frame, the evaluated position,
// bounding box and color of every flattened primitive, plus a
// [SpatialHashGrid] per frame. The cache carries a [Key] (scene
// fingerprint, fps, duration); callers compare it with the live key before
// trusting cached rows and rebuild on mismatch.
//
// Building is refused (nil cache, nil error) when frames×primitives exceeds
// the sample budget; callers then sample the scene live.
package poscache

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/scene"
)

// Default render grid the normalized coordinates are hashed onto.
const (
	DefaultGridWidth  = 1280
	DefaultGridHeight = 720
)

// minDuration is the shortest timeline a cache covers.
const minDuration = 0.001

// durationTolerance is the largest duration difference still treated as equal.
const durationTolerance = 1e-6

// Point is an evaluated primitive position.
type Point struct {
	X, Y float32
}

// Key identifies the inputs a cache was built from.
type Key struct {
	Hash     uint64
	FPS      float64
	Duration float64
}

// NewKey computes the key of a live scene.
func NewKey(s scene.Scene, handlers []scene.Handler, fps, duration float64) Key {
	return Key{Hash: Fingerprint(s, handlers), FPS: fps, Duration: math.Max(duration, minDuration)}
}

// Matches reports whether k and o describe the same inputs.
func (k Key) Matches(o Key) bool {
	return k.Hash == o.Hash && k.FPS == o.FPS && math.Abs(k.Duration-o.Duration) < durationTolerance
}

// PositionCache holds precomputed rows indexed [frame][primitive].
// It is not safe for concurrent mutation; reads after Build are safe.
type PositionCache struct {
	key Key

	// Names and Kinds describe the flattened primitives in scene order.
	Names []string
	Kinds []scene.Kind

	// Frames, Boxes and Colors are indexed [frame][primitive].
	Frames [][]Point
	Boxes  [][]BoundingBox
	Colors [][][4]uint8

	// Grids holds one spatial hash per frame.
	Grids []*SpatialHashGrid

	background [4]uint8
}

type config struct {
	budget     int
	gridW      uint32
	gridH      uint32
	tileSize   float32
	workers    int
	runner     scene.HandlerRunner
	measurer   TextMeasurer
	background [4]uint8
	logger     *slog.Logger
}

// Option configures Build.
type Option func(*config)

// WithBudget sets the sample budget. Non-positive values keep the default.
func WithBudget(samples int) Option {
	return func(c *config) {
		if samples > 0 {
			c.budget = samples
		}
	}
}

// WithGrid sets the pixel grid the spatial hash maps normalized coordinates
// onto, and its tile size.
func WithGrid(width, height uint32, tileSize float32) Option {
	return func(c *config) {
		c.gridW, c.gridH, c.tileSize = width, height, tileSize
	}
}

// WithWorkers bounds the number of frames evaluated in parallel.
// The handler runner must be safe for concurrent use when n > 1.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithRunner sets the runner for time handlers. Without a runner handlers
// still contribute to the fingerprint but are not executed.
func WithRunner(r scene.HandlerRunner) Option {
	return func(c *config) { c.runner = r }
}

// WithMeasurer sets the text measurer for text bounding boxes.
func WithMeasurer(m TextMeasurer) Option {
	return func(c *config) { c.measurer = m }
}

// WithBackground sets the color SampleColorAt composites onto. The default
// is opaque white.
func WithBackground(c [4]uint8) Option {
	return func(cfg *config) { cfg.background = c }
}

// WithLogger sets the logger for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts []Option) config {
	c := config{
		budget:     DefaultSampleBudget,
		gridW:      DefaultGridWidth,
		gridH:      DefaultGridHeight,
		tileSize:   DefaultTileSize,
		workers:    runtime.GOMAXPROCS(0),
		background: [4]uint8{255, 255, 255, 255},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(&c)
	}
	if c.measurer == nil {
		c.measurer = DefaultMeasurer()
	}
	return c
}

// FrameCount returns the number of cached frames for fps and duration.
func FrameCount(fps, duration float64) int {
	if !(fps > 0) || math.IsInf(fps, 0) {
		return 0
	}
	n := math.Ceil(fps * math.Max(duration, minDuration))
	if !(n > 0) || n > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Build evaluates s at every frame of the timeline.
//
// It returns a nil cache and nil error when the scene is empty, fps is not
// positive, or frames×primitives exceeds the budget. Handler failures are
// logged and the frame is evaluated without that handler's changes. The
// only errors returned come from ctx.
func Build(ctx context.Context, s scene.Scene, fps, duration float64, handlers []scene.Handler, opts ...Option) (*PositionCache, error) {
	cfg := newConfig(opts)
	key := NewKey(s, handlers, fps, duration)

	flat := s.Flatten()
	frames := FrameCount(fps, duration)
	prims := len(flat)
	if frames == 0 || prims == 0 {
		return nil, nil
	}
	if frames > cfg.budget/prims {
		cfg.logger.Debug("poscache: over sample budget",
			"frames", frames, "primitives", prims, "budget", cfg.budget)
		return nil, nil
	}

	c := &PositionCache{
		key:        key,
		Names:      make([]string, prims),
		Kinds:      make([]scene.Kind, prims),
		Frames:     make([][]Point, frames),
		Boxes:      make([][]BoundingBox, frames),
		Colors:     make([][][4]uint8, frames),
		Grids:      make([]*SpatialHashGrid, frames),
		background: cfg.background,
	}
	for i, e := range flat {
		c.Names[i] = e.Name
		c.Kinds[i] = e.Kind
	}

	start := time.Now()
	runHandlers := cfg.runner != nil && scene.HasTimeHandlers(handlers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for fi := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			elems := flat
			t := float32(float64(fi) / fps)
			if runHandlers {
				elems = cloneElements(flat)
				vars := scene.TimeVars{Seconds: t, Frame: uint32(fi)}
				if err := scene.ApplyTimeHandlers(gctx, cfg.runner, handlers, vars, elems); err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					cfg.logger.Warn("poscache: time handler failed", "frame", fi, "err", err)
				}
			}
			c.buildFrame(&cfg, fi, t, fps, elems)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("poscache: build: %w", err)
	}

	cfg.logger.Debug("poscache: built",
		"frames", frames,
		"primitives", prims,
		"bytes", c.Bytes(),
		"elapsed", time.Since(start))
	return c, nil
}

// BuildAt evaluates s at one instant into a single-frame cache, for hit
// tests and color samples when Build refused the timeline. The budget does
// not apply. The result is never Valid for a timeline key.
func BuildAt(ctx context.Context, s scene.Scene, fps, seconds float64, handlers []scene.Handler, opts ...Option) (*PositionCache, error) {
	cfg := newConfig(opts)
	flat := s.Flatten()
	c := &PositionCache{
		key:        Key{Hash: Fingerprint(s, handlers), FPS: fps},
		Names:      make([]string, len(flat)),
		Kinds:      make([]scene.Kind, len(flat)),
		Frames:     make([][]Point, 1),
		Boxes:      make([][]BoundingBox, 1),
		Colors:     make([][][4]uint8, 1),
		Grids:      make([]*SpatialHashGrid, 1),
		background: cfg.background,
	}
	for i, e := range flat {
		c.Names[i] = e.Name
		c.Kinds[i] = e.Kind
	}

	elems := flat
	t := float32(seconds)
	if cfg.runner != nil && scene.HasTimeHandlers(handlers) {
		elems = cloneElements(flat)
		vars := scene.TimeVars{Seconds: t, Frame: keyframe.SecondsToFrame(seconds, fps)}
		if err := scene.ApplyTimeHandlers(ctx, cfg.runner, handlers, vars, elems); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("poscache: build at %v: %w", seconds, ctx.Err())
			}
			cfg.logger.Warn("poscache: time handler failed", "seconds", seconds, "err", err)
		}
	}
	c.buildFrame(&cfg, 0, t, fps, elems)
	return c, nil
}

func cloneElements(elems []scene.Element) []scene.Element {
	out := make([]scene.Element, len(elems))
	for i := range elems {
		out[i] = elems[i].Clone()
	}
	return out
}

func (c *PositionCache) buildFrame(cfg *config, fi int, t float32, fps float64, prims []scene.Element) {
	n := len(c.Names)
	row := make([]Point, n)
	boxes := make([]BoundingBox, n)
	colors := make([][4]uint8, n)
	grid := NewSpatialHashGrid(cfg.gridW, cfg.gridH, cfg.tileSize)

	// Handlers may not add or remove primitives; extra entries are ignored.
	for idx := range min(n, len(prims)) {
		st := prims[idx].Evaluate(t, fps)
		row[idx] = Point{st.X, st.Y}
		colors[idx] = st.Color
		if !st.Live || !st.Visible {
			boxes[idx] = emptyBox
			continue
		}
		box := primitiveBox(cfg, prims[idx].Kind, st)
		boxes[idx] = box
		grid.Insert(idx, box)
	}
	for idx := len(prims); idx < n; idx++ {
		boxes[idx] = emptyBox
	}

	c.Frames[fi] = row
	c.Boxes[fi] = boxes
	c.Colors[fi] = colors
	c.Grids[fi] = grid
}

func primitiveBox(cfg *config, kind scene.Kind, st scene.State) BoundingBox {
	switch kind {
	case scene.Circle:
		return FromCircle(st.X, st.Y, st.Radius)
	case scene.Rect:
		return FromRect(st.X, st.Y, st.W, st.H)
	case scene.Text:
		w, h := cfg.measurer.MeasureText(st.Value, st.Size)
		return FromRect(st.X, st.Y, w/float32(cfg.gridW), h/float32(cfg.gridH))
	default:
		return BoundingBox{MinX: st.X, MinY: st.Y, MaxX: st.X, MaxY: st.Y}
	}
}

// Key returns the inputs the cache was built from.
func (c *PositionCache) Key() Key { return c.key }

// SceneHash returns the scene fingerprint the cache was built from.
func (c *PositionCache) SceneHash() uint64 { return c.key.Hash }

// FPS returns the frame rate the cache was built for.
func (c *PositionCache) FPS() float64 { return c.key.FPS }

// Duration returns the covered timeline length in seconds.
func (c *PositionCache) Duration() float64 { return c.key.Duration }

// Len returns the number of cached frames.
func (c *PositionCache) Len() int { return len(c.Frames) }

// Primitives returns the number of flattened primitives per frame.
func (c *PositionCache) Primitives() int { return len(c.Names) }

// Valid reports whether the cache was built from the inputs described by live.
func (c *PositionCache) Valid(live Key) bool {
	return c != nil && c.key.Matches(live)
}

// FrameIndex maps a time in seconds to the nearest cached frame, clamped
// to the cached range.
func (c *PositionCache) FrameIndex(seconds float64) int {
	fi := math.Round(seconds * c.key.FPS)
	last := float64(len(c.Frames) - 1)
	if !(fi > 0) {
		return 0
	}
	if fi > last {
		return int(last)
	}
	return int(fi)
}

// CachedFrameFor returns the cached positions nearest to seconds. ok is
// false when c is nil or was built from inputs other than live; the caller
// must then rebuild or sample live.
func (c *PositionCache) CachedFrameFor(seconds float64, live Key) (row []Point, ok bool) {
	if !c.Valid(live) || len(c.Frames) == 0 {
		return nil, false
	}
	return c.Frames[c.FrameIndex(seconds)], true
}

// Bytes returns the memory held by cached rows, excluding grid cells.
func (c *PositionCache) Bytes() int {
	if c == nil {
		return 0
	}
	return len(c.Frames) * len(c.Names) * BytesPerSample
}
