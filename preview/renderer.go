package preview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/motion/gpu"
	"github.com/gogpu/motion/keyframe"
	"github.com/gogpu/motion/scene"
)

// ErrEmptyTarget is returned when a snapshot has a zero render size.
var ErrEmptyTarget = errors.New("preview: render target has zero width or height")

type config struct {
	mirror   *gpu.Mirror
	runner   scene.HandlerRunner
	pool     *BufferPool
	fontData []byte
	logger   *slog.Logger
}

// Option configures a Renderer.
type Option func(*config)

// WithMirror evaluates shapes on the GPU. The renderer takes ownership of
// m and closes it on Close. m must be initialized.
func WithMirror(m *gpu.Mirror) Option {
	return func(c *config) {
		c.mirror = m
	}
}

// WithRunner sets the runner for time handlers.
func WithRunner(r scene.HandlerRunner) Option {
	return func(c *config) {
		c.runner = r
	}
}

// WithPool sets the pool frame pixels are drawn from.
func WithPool(p *BufferPool) Option {
	return func(c *config) {
		c.pool = p
	}
}

// WithFont sets the TrueType/OpenType font used for text elements.
// Go Regular is used by default.
func WithFont(data []byte) Option {
	return func(c *config) {
		c.fontData = data
	}
}

// WithLogger sets the logger for fallbacks and handler failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Renderer turns snapshots into frames. Shapes are evaluated by the GPU
// mirror when one is configured and by the CPU otherwise; any GPU failure
// falls back to the CPU for that frame.
//
// Renderer is not safe for concurrent use. A Worker serializes access.
type Renderer struct {
	cfg config

	// dc is reused across frames and resized when the target changes.
	dc *gg.Context

	fontOnce sync.Once
	font     *text.FontSource
	faces    map[float64]text.Face
}

// NewRenderer creates a renderer.
func NewRenderer(opts ...Option) *Renderer {
	cfg := config{
		fontData: goregular.TTF,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.pool == nil {
		cfg.pool = NewBufferPool(DefaultPoolSize)
	}
	return &Renderer{cfg: cfg, faces: make(map[float64]text.Face)}
}

// Pool returns the pool frames are allocated from.
func (r *Renderer) Pool() *BufferPool {
	return r.cfg.pool
}

// HasMirror reports whether a GPU mirror is configured.
func (r *Renderer) HasMirror() bool {
	return r.cfg.mirror != nil
}

// Shapes evaluates snap at seconds. The tracks the shapes were evaluated
// from are returned alongside, in scene order; shapes are in painter order.
// onGPU reports whether the mirror produced them.
func (r *Renderer) Shapes(ctx context.Context, snap *RenderSnapshot, seconds float64) (shapes []gpu.Shape, ks []*keyframe.ElementKeyframes, onGPU bool, err error) {
	elems, ran, err := snap.elements(ctx, r.cfg.runner, seconds)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, false, ctxErr
		}
		r.cfg.logger.Warn("preview: time handler failed", "seconds", seconds, "err", err)
	}
	ks = tracks(elems, snap.FPS)
	frame := snap.Frame(seconds)

	if r.cfg.mirror != nil {
		shapes, err := r.dispatch(ctx, snap, ks, frame, ran)
		if err == nil {
			return shapes, ks, true, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, false, ctxErr
		}
		r.cfg.logger.Warn("preview: GPU evaluation failed, using CPU", "err", err)
	}
	return gpu.EvaluateCPU(ks, frame, snap.FPS), ks, false, nil
}

func (r *Renderer) dispatch(ctx context.Context, snap *RenderSnapshot, ks []*keyframe.ElementKeyframes, frame float32, ran bool) ([]gpu.Shape, error) {
	var err error
	if ran {
		// Tracks produced by handlers are only valid for this instant.
		err = r.cfg.mirror.Dispatch(ks, frame, snap.FPS, snap.Width, snap.Height, true)
	} else {
		err = r.cfg.mirror.DispatchVersion(ks, snap.SceneVersion, frame, snap.FPS, snap.Width, snap.Height)
	}
	if err != nil {
		return nil, err
	}

	shapes, err := r.cfg.mirror.ReadShapes(ctx)
	if err != nil {
		return nil, err
	}
	if len(shapes) != len(ks) {
		return nil, fmt.Errorf("preview: readback has %d shapes, want %d", len(shapes), len(ks))
	}
	return shapes, nil
}

// Render draws snap at seconds into a new frame.
//
// Shapes are drawn in normalized coordinates scaled independently on each
// axis, so a circle covers the same pixels the position cache reports for it.
func (r *Renderer) Render(ctx context.Context, snap *RenderSnapshot, seconds float64) (*Frame, error) {
	if snap.Width == 0 || snap.Height == 0 {
		return nil, ErrEmptyTarget
	}
	shapes, ks, onGPU, err := r.Shapes(ctx, snap, seconds)
	if err != nil {
		return nil, err
	}

	w, h := int(snap.Width), int(snap.Height)
	dc, err := r.context(w, h)
	if err != nil {
		return nil, err
	}

	bg := snap.Background
	dc.ClearWithColor(gg.RGBA2(
		float64(bg[0])/255, float64(bg[1])/255, float64(bg[2])/255, float64(bg[3])/255))

	frame := snap.Frame(seconds)
	if err := r.draw(dc, shapes, ks, frame, float64(w), float64(h)); err != nil {
		return nil, err
	}

	if err := dc.FlushGPU(); err != nil {
		return nil, fmt.Errorf("preview: flush: %w", err)
	}
	data := dc.ResizeTarget().Data()
	pix := r.cfg.pool.Acquire(len(data))
	pix = append(pix, data...)

	return &Frame{
		Time:         seconds,
		Index:        int(keyframe.SecondsToFrame(seconds, snap.FPS)),
		SceneVersion: snap.SceneVersion,
		Width:        w,
		Height:       h,
		Pix:          pix,
		GPU:          onGPU,
	}, nil
}

// context returns the drawing context for a w×h target with no path.
func (r *Renderer) context(w, h int) (*gg.Context, error) {
	if r.dc == nil {
		r.dc = gg.NewContext(w, h)
		return r.dc, nil
	}
	if err := r.dc.Resize(w, h); err != nil {
		return nil, fmt.Errorf("preview: resize: %w", err)
	}
	r.dc.ClearPath()
	return r.dc, nil
}

func (r *Renderer) draw(dc *gg.Context, shapes []gpu.Shape, ks []*keyframe.ElementKeyframes, frame float32, w, h float64) error {
	n := len(shapes)
	for i := range shapes {
		s := &shapes[i]
		if s.Live == 0 || !(s.Color[3] > 0) {
			continue
		}
		dc.SetRGBA(unit(s.Color[0]), unit(s.Color[1]), unit(s.Color[2]), unit(s.Color[3]))
		x, y := float64(s.Pos[0])*w, float64(s.Pos[1])*h

		switch s.ShapeType {
		case gpu.ShapeCircle:
			radius := math.Abs(float64(s.Size[0]))
			dc.DrawEllipse(x, y, radius*w, radius*h)
		case gpu.ShapeRect:
			x0, y0 := float64(s.UV0[0])*w, float64(s.UV0[1])*h
			dc.DrawRectangle(x0, y0, float64(s.UV1[0])*w-x0, float64(s.UV1[1])*h-y0)
		case gpu.ShapeText:
			// Painter order is the reverse of scene order.
			if n-1-i < len(ks) {
				r.drawText(dc, ks[n-1-i], frame, float64(s.Size[0]), x, y)
			}
			continue
		default:
			continue
		}
		if err := dc.Fill(); err != nil {
			return fmt.Errorf("preview: fill: %w", err)
		}
	}
	return nil
}

func (r *Renderer) drawText(dc *gg.Context, k *keyframe.ElementKeyframes, frame float32, size, x, y float64) {
	value, ok := keyframe.Sample(k.Value, frame, keyframe.Step[string])
	if !ok || value == "" || !(size > 0) {
		return
	}
	face := r.face(size)
	if face == nil {
		return
	}
	dc.SetFont(face)
	dc.DrawStringAnchored(value, x, y, 0.5, 0.5)
}

func (r *Renderer) face(size float64) text.Face {
	r.fontOnce.Do(func() {
		src, err := text.NewFontSource(r.cfg.fontData)
		if err != nil {
			r.cfg.logger.Warn("preview: load font, text disabled", "err", err)
			return
		}
		r.font = src
	})
	if r.font == nil {
		return nil
	}
	face, ok := r.faces[size]
	if !ok {
		face = r.font.Face(size)
		r.faces[size] = face
	}
	return face
}

// Release returns a frame's pixels to the pool. f must not be used after.
func (r *Renderer) Release(f *Frame) {
	if f == nil {
		return
	}
	r.cfg.pool.Release(f.Pix)
	f.Pix = nil
}

// Close releases the mirror, the drawing context and the font.
func (r *Renderer) Close() {
	if r.dc != nil {
		_ = r.dc.Close()
		r.dc = nil
	}
	if r.cfg.mirror != nil {
		r.cfg.mirror.Close()
		r.cfg.mirror = nil
	}
	if r.font != nil {
		_ = r.font.Close()
		r.font = nil
		clear(r.faces)
	}
}

func unit(v float32) float64 {
	return math.Min(math.Max(float64(v), 0), 1)
}
