package motion

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/motion/gpu"
	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/poscache"
	"github.com/gogpu/motion/preview"
	"github.com/gogpu/motion/scene"
)

// Session owns a scene and everything derived from it: the position cache,
// baked keyframe tracks and the GPU mirror upload. Derived state is rebuilt
// lazily after the scene, handlers or settings change.
//
// Session is safe for concurrent use; calls are serialized.
type Session struct {
	mu sync.Mutex

	settings Settings
	scene    scene.Scene
	handlers []scene.Handler
	runner   scene.HandlerRunner

	// version increments on every change to scene, handlers or settings.
	version uint64

	key      poscache.Key
	keyReady bool

	cache      *poscache.PositionCache
	cacheTried bool

	tracks []*keyframe.ElementKeyframes

	mirror      *gpu.Mirror
	ownsMirror  bool
	mirrorTried bool
}

// NewSession creates a session for sc. The scene is copied.
func NewSession(sc scene.Scene, opts ...SessionOption) (*Session, error) {
	o := defaultSessionOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		settings:    o.settings,
		scene:       sc.Clone(),
		handlers:    slices.Clone(o.handlers),
		runner:      o.runner,
		version:     1,
		mirror:      o.mirror,
		mirrorTried: o.mirror != nil,
	}, nil
}

// Settings returns the session settings.
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings replaces the settings after validating them.
func (s *Session) SetSettings(st Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !st.GPU {
		s.closeMirrorLocked()
	}
	s.settings = st
	s.invalidateLocked()
	return nil
}

// Scene returns a copy of the scene.
func (s *Session) Scene() scene.Scene {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scene.Clone()
}

// SetScene replaces the scene. sc is copied.
func (s *Session) SetScene(sc scene.Scene) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scene = sc.Clone()
	s.invalidateLocked()
}

// SetHandlers replaces the event handlers.
func (s *Session) SetHandlers(h []scene.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = slices.Clone(h)
	s.invalidateLocked()
}

// Version returns the scene version. It changes whenever derived state
// must be rebuilt.
func (s *Session) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Session) invalidateLocked() {
	s.version++
	s.keyReady = false
	s.cache = nil
	s.cacheTried = false
	s.tracks = nil
}

// Frame converts seconds to the nearest frame index.
func (s *Session) Frame(seconds float64) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keyframe.SecondsToFrame(seconds, s.settings.FPS)
}

// Key returns the live key the position cache is validated against.
func (s *Session) Key() poscache.Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyLocked()
}

func (s *Session) keyLocked() poscache.Key {
	if !s.keyReady {
		s.key = poscache.NewKey(s.scene, s.handlers, s.settings.FPS, s.settings.Duration)
		s.keyReady = true
	}
	return s.key
}

func (s *Session) cacheOptions() []poscache.Option {
	return []poscache.Option{
		poscache.WithBudget(s.settings.Budget()),
		poscache.WithGrid(s.settings.RenderWidth, s.settings.RenderHeight, poscache.DefaultTileSize),
		poscache.WithRunner(s.runner),
		poscache.WithBackground(s.settings.Background),
		poscache.WithLogger(Logger()),
	}
}

// Cache returns the position cache, building it if the scene changed.
// It returns nil when the scene exceeds the sample budget.
func (s *Session) Cache(ctx context.Context) (*poscache.PositionCache, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cacheLocked(ctx)
}

func (s *Session) cacheLocked(ctx context.Context) (*poscache.PositionCache, error) {
	key := s.keyLocked()
	if s.cache.Valid(key) || s.cacheTried {
		return s.cache, nil
	}
	c, err := poscache.Build(ctx, s.scene, s.settings.FPS, s.settings.Duration, s.handlers, s.cacheOptions()...)
	if err != nil {
		return nil, err
	}
	s.cache = c
	s.cacheTried = true
	return c, nil
}

// frameLocked returns a cache covering seconds: the timeline cache when it
// is available, otherwise a single frame evaluated live.
func (s *Session) frameLocked(ctx context.Context, seconds float64) (*poscache.PositionCache, error) {
	c, err := s.cacheLocked(ctx)
	if err != nil {
		return nil, err
	}
	if c.Valid(s.keyLocked()) {
		return c, nil
	}
	return poscache.BuildAt(ctx, s.scene, s.settings.FPS, seconds, s.handlers, s.cacheOptions()...)
}

// PositionsAt returns the position of every flattened primitive at
// seconds, in scene order.
func (s *Session) PositionsAt(ctx context.Context, seconds float64) ([]poscache.Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.cacheLocked(ctx)
	if err != nil {
		return nil, err
	}
	if row, ok := c.CachedFrameFor(seconds, s.keyLocked()); ok {
		return slices.Clone(row), nil
	}
	live, err := poscache.BuildAt(ctx, s.scene, s.settings.FPS, seconds, s.handlers, s.cacheOptions()...)
	if err != nil {
		return nil, err
	}
	return live.Frames[0], nil
}

// SampleColorAt returns the composited color at normalized (u, v).
func (s *Session) SampleColorAt(ctx context.Context, u, v float32, seconds float64) ([4]uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.frameLocked(ctx, seconds)
	if err != nil {
		return [4]uint8{}, err
	}
	return c.SampleColorAt(u, v, seconds), nil
}

// HitTest returns the name of the topmost primitive covering (u, v).
func (s *Session) HitTest(ctx context.Context, u, v float32, seconds float64) (name string, ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.frameLocked(ctx, seconds)
	if err != nil {
		return "", false, err
	}
	idx, ok := c.HitTest(u, v, seconds)
	if !ok {
		return "", false, nil
	}
	return c.Names[idx], true, nil
}

// Tracks returns the keyframe tracks of every flattened primitive, in
// scene order. Moves and static properties are baked into tracks.
func (s *Session) Tracks() []*keyframe.ElementKeyframes {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks := s.tracksLocked()
	out := make([]*keyframe.ElementKeyframes, len(ks))
	for i, k := range ks {
		out[i] = k.Clone()
	}
	return out
}

func (s *Session) tracksLocked() []*keyframe.ElementKeyframes {
	if s.tracks != nil {
		return s.tracks
	}
	flat := s.scene.Flatten()
	ks := make([]*keyframe.ElementKeyframes, 0, len(flat))
	for i := range flat {
		if k := flat[i].Tracks(s.settings.FPS); k != nil {
			ks = append(ks, k)
		}
	}
	s.tracks = ks
	return ks
}

// Render evaluates every primitive at seconds and returns the shapes in
// painter order (topmost last).
//
// Tracks are uploaded to the GPU mirror only when the scene version
// changed. Any GPU failure is logged and the shapes are evaluated on the
// CPU. Time handlers are not applied; use a preview worker for frames
// that depend on them.
func (s *Session) Render(ctx context.Context, seconds float64) ([]gpu.Shape, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ks := s.tracksLocked()
	fps := s.settings.FPS
	frame := float32(max(seconds, 0) * fps)

	if m := s.mirrorLocked(); m != nil {
		shapes, err := s.dispatchLocked(ctx, m, ks, frame)
		if err == nil {
			return shapes, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		Logger().Warn("motion: GPU evaluation failed, using CPU", "err", err)
	}
	return gpu.EvaluateCPU(ks, frame, fps), nil
}

func (s *Session) dispatchLocked(ctx context.Context, m *gpu.Mirror, ks []*keyframe.ElementKeyframes, frame float32) ([]gpu.Shape, error) {
	st := &s.settings
	if err := m.DispatchVersion(ks, s.version, frame, st.FPS, st.RenderWidth, st.RenderHeight); err != nil {
		return nil, err
	}
	shapes, err := m.ReadShapes(ctx)
	if err != nil {
		return nil, err
	}
	if len(shapes) != len(ks) {
		return nil, fmt.Errorf("motion: readback has %d shapes, want %d", len(shapes), len(ks))
	}
	return shapes, nil
}

// mirrorLocked returns the GPU mirror, opening one on first use when GPU
// evaluation is enabled and none was supplied.
func (s *Session) mirrorLocked() *gpu.Mirror {
	if s.mirror != nil {
		return s.mirror
	}
	if !s.settings.GPU || s.mirrorTried {
		return nil
	}
	s.mirrorTried = true
	m := gpu.NewMirror()
	if err := m.Init(); err != nil {
		Logger().Warn("motion: GPU unavailable, using CPU", "err", err)
		m.Close()
		return nil
	}
	s.mirror = m
	s.ownsMirror = true
	return m
}

func (s *Session) closeMirrorLocked() {
	if s.ownsMirror && s.mirror != nil {
		s.mirror.Close()
		s.mirror = nil
	}
	s.ownsMirror = false
	s.mirrorTried = s.mirror != nil
}

// Snapshot returns a deep copy of the scene and render settings for a
// preview worker.
func (s *Session) Snapshot() preview.RenderSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return preview.RenderSnapshot{
		Scene:        s.scene.Clone(),
		Handlers:     slices.Clone(s.handlers),
		Width:        s.settings.RenderWidth,
		Height:       s.settings.RenderHeight,
		FPS:          s.settings.FPS,
		Duration:     s.settings.Duration,
		Background:   s.settings.Background,
		SceneVersion: s.version,
	}
}

// NewPreviewWorker starts a preview worker configured from the session's
// settings. With GPU enabled the worker opens its own device and falls
// back to the CPU if that fails. The caller must Close the worker.
func (s *Session) NewPreviewWorker() *preview.Worker {
	s.mu.Lock()
	st := s.settings
	runner := s.runner
	s.mu.Unlock()

	opts := []preview.Option{
		preview.WithRunner(runner),
		preview.WithLogger(Logger()),
	}
	if st.GPU {
		m := gpu.NewMirror()
		if err := m.Init(); err != nil {
			Logger().Warn("motion: GPU preview unavailable, using CPU", "err", err)
			m.Close()
		} else {
			opts = append(opts, preview.WithMirror(m))
		}
	}
	return preview.NewWorker(preview.NewRenderer(opts...), preview.NewFrameCache(st.PreviewCacheMB))
}

// Close releases a mirror the session opened itself.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeMirrorLocked()
	s.mirrorTried = true
}
