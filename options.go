package motion

import (
	"github.com/gogpu/motion/gpu"
	"github.com/gogpu/motion/scene"
)

// SessionOption configures a Session during creation.
//
// Example:
//
//	s, err := motion.NewSession(sc,
//	    motion.WithSettings(settings),
//	    motion.WithHandlers(handlers),
//	    motion.WithRunner(runner))
type SessionOption func(*sessionOptions)

// sessionOptions holds optional configuration for Session creation.
type sessionOptions struct {
	settings Settings
	handlers []scene.Handler
	runner   scene.HandlerRunner
	mirror   *gpu.Mirror
}

// defaultSessionOptions returns the default session options.
func defaultSessionOptions() sessionOptions {
	return sessionOptions{
		settings: DefaultSettings(),
	}
}

// WithSettings sets the timeline and render settings.
func WithSettings(s Settings) SessionOption {
	return func(o *sessionOptions) {
		o.settings = s
	}
}

// WithHandlers sets the scene's event handlers. Time handlers run on every
// sampled frame when a runner is also configured.
func WithHandlers(h []scene.Handler) SessionOption {
	return func(o *sessionOptions) {
		o.handlers = h
	}
}

// WithRunner sets the runner that executes handler bodies.
func WithRunner(r scene.HandlerRunner) SessionOption {
	return func(o *sessionOptions) {
		o.runner = r
	}
}

// WithMirror sets an initialized GPU mirror for Render. The caller keeps
// ownership, and the mirror is used even when GPU evaluation is disabled
// in the settings. Without it, a session with GPU enabled opens its own
// mirror on first Render.
//
// Example:
//
//	m, err := gpu.NewSharedMirror(provider)
//	if err != nil { ... }
//	s, err := motion.NewSession(sc, motion.WithMirror(m))
func WithMirror(m *gpu.Mirror) SessionOption {
	return func(o *sessionOptions) {
		o.mirror = m
	}
}
