package preview

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/gogpu/motion/easing"
	"github.com/gogpu/motion/gpu"
	"github.com/gogpu/motion/move"
	"github.com/gogpu/motion/scene"
)

var (
	red   = [4]uint8{255, 0, 0, 255}
	green = [4]uint8{0, 255, 0, 255}
	blue  = [4]uint8{0, 0, 255, 255}
	white = [4]uint8{255, 255, 255, 255}
)

func snapshot(s scene.Scene, w, h uint32) RenderSnapshot {
	return RenderSnapshot{
		Scene:        s,
		Width:        w,
		Height:       h,
		FPS:          30,
		Duration:     2,
		Background:   white,
		SceneVersion: 1,
	}
}

func pixel(f *Frame, x, y int) [4]uint8 {
	i := (y*f.Width + x) * 4
	return [4]uint8{f.Pix[i], f.Pix[i+1], f.Pix[i+2], f.Pix[i+3]}
}

func TestBufferPool(t *testing.T) {
	p := NewBufferPool(2)

	a := p.Acquire(16)
	if len(a) != 0 || cap(a) < 16 {
		t.Fatalf("Acquire(16) = len %d cap %d", len(a), cap(a))
	}
	a = append(a, 1, 2, 3)
	p.Release(a)
	p.Release(make([]byte, 8))
	p.Release(make([]byte, 8))
	if p.Len() != 2 {
		t.Errorf("Len = %d, want 2 (pool is bounded)", p.Len())
	}

	b := p.Acquire(4)
	if len(b) != 0 {
		t.Errorf("reused buffer has len %d, want 0", len(b))
	}
	if c := p.Acquire(1 << 20); cap(c) < 1<<20 {
		t.Errorf("Acquire(1MB) cap = %d", cap(c))
	}

	if NewBufferPool(0).size != DefaultPoolSize {
		t.Errorf("default size != %d", DefaultPoolSize)
	}
}

func TestFrameCacheEviction(t *testing.T) {
	c := NewFrameCache(1)
	c.SetPlayhead(1)

	const size = 400 * 1024
	frame := func(seconds float64, index int) *Frame {
		return &Frame{Time: seconds, Index: index, SceneVersion: 1, Pix: make([]byte, size)}
	}
	c.Put(frame(0, 0))
	c.Put(frame(1, 30))
	c.Put(frame(5, 150))

	if c.Len() != 2 || c.Bytes() != 2*size {
		t.Fatalf("Len, Bytes = %d, %d; want 2, %d", c.Len(), c.Bytes(), 2*size)
	}
	if _, ok := c.Get(1, 0); ok {
		t.Error("frame farthest from the playhead should be evicted")
	}
	if _, ok := c.Get(1, 30); !ok {
		t.Error("frame at the playhead was evicted")
	}
	if _, ok := c.Get(1, 150); !ok {
		t.Error("newest frame was evicted")
	}

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Evictions != 1 || st.Limit != 1024*1024 {
		t.Errorf("Stats = %+v", st)
	}
	if st.HitRate < 0.66 || st.HitRate > 0.67 {
		t.Errorf("HitRate = %v", st.HitRate)
	}

	c.ResetStats()
	if st := c.Stats(); st.Hits != 0 || st.Misses != 0 || st.Evictions != 0 {
		t.Errorf("Stats after reset = %+v", st)
	}
}

func TestFrameCacheReleasesToPool(t *testing.T) {
	pool := NewBufferPool(4)
	r := NewRenderer(WithPool(pool))
	c := NewFrameCache(1)
	c.OnRelease(r.Release)
	c.SetPlayhead(0)

	const size = 600 * 1024
	frame := func(seconds float64, index int) *Frame {
		pix := pool.Acquire(size)
		return &Frame{Time: seconds, Index: index, SceneVersion: 1, Pix: pix[:size]}
	}
	near := frame(0, 0)
	far := frame(3, 90)
	c.Put(near)
	c.Put(far)
	c.Put(frame(0.1, 3))

	if c.Stats().Evictions == 0 {
		t.Fatal("expected an eviction over the limit")
	}
	if pool.Len() == 0 {
		t.Error("evicted frame pixels were not returned to the pool")
	}
	if far.Pix != nil && near.Pix != nil {
		t.Error("no evicted frame was released")
	}
	if got := pool.Acquire(size); cap(got) < size {
		t.Errorf("pooled buffer cap = %d, want >= %d", cap(got), size)
	}

	before := pool.Len()
	c.Clear()
	if pool.Len() <= before {
		t.Errorf("Clear returned %d buffers, want more than %d", pool.Len(), before)
	}
}

func TestFrameCacheReplaceAndPurge(t *testing.T) {
	c := NewFrameCache(0)
	c.Put(&Frame{SceneVersion: 1, Index: 3, Pix: make([]byte, 10)})
	c.Put(&Frame{SceneVersion: 1, Index: 3, Pix: make([]byte, 20)})
	c.Put(&Frame{SceneVersion: 2, Index: 3, Pix: make([]byte, 5)})
	if c.Len() != 2 || c.Bytes() != 25 {
		t.Fatalf("Len, Bytes = %d, %d; want 2, 25", c.Len(), c.Bytes())
	}

	c.Purge(2)
	if c.Len() != 1 || c.Bytes() != 5 {
		t.Errorf("after Purge: Len, Bytes = %d, %d; want 1, 5", c.Len(), c.Bytes())
	}
	c.Clear()
	if c.Len() != 0 || c.Bytes() != 0 {
		t.Errorf("after Clear: Len, Bytes = %d, %d", c.Len(), c.Bytes())
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := snapshot(scene.Scene{{
		Name: "c", Kind: scene.Circle,
		Moves: []move.Segment{{ToX: 1, ToY: 1, Start: 0, End: 1, Easing: easing.Linear()}},
		Children: []scene.Element{{Name: "child"}},
	}}, 8, 8)
	orig.Handlers = []scene.Handler{{Name: scene.HandlerOnTime, Body: "x"}}

	c := orig.Clone()
	c.Scene[0].Moves[0].ToX = 9
	c.Scene[0].Children[0].Name = "changed"
	c.Handlers[0].Body = "y"

	if orig.Scene[0].Moves[0].ToX != 1 || orig.Scene[0].Children[0].Name != "child" || orig.Handlers[0].Body != "x" {
		t.Error("Clone shares state with the original")
	}
}

func TestSnapshotFrame(t *testing.T) {
	s := snapshot(nil, 8, 8)
	tests := []struct {
		seconds float64
		want    float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 15},
		{5, 60}, // clamped to Duration
	}
	for _, tt := range tests {
		if got := s.Frame(tt.seconds); got != tt.want {
			t.Errorf("Frame(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}

func TestRenderCPU(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "r", Kind: scene.Rect, X: 0.25, Y: 0.5, W: 0.5, H: 1, Color: red},
	}, 64, 32)

	r := NewRenderer()
	defer r.Close()

	f, err := r.Render(context.Background(), &s, 0.5)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if f.GPU {
		t.Error("frame reports GPU without a mirror")
	}
	if f.Width != 64 || f.Height != 32 || len(f.Pix) != 64*32*4 {
		t.Fatalf("frame is %dx%d with %d bytes", f.Width, f.Height, len(f.Pix))
	}
	if f.Index != 15 || f.SceneVersion != 1 {
		t.Errorf("Index, SceneVersion = %d, %d", f.Index, f.SceneVersion)
	}
	if got := pixel(f, 8, 16); got != red {
		t.Errorf("inside rect = %v, want red", got)
	}
	if got := pixel(f, 56, 16); got != white {
		t.Errorf("background = %v, want white", got)
	}
}

func TestRenderPainterOrder(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "top", Kind: scene.Circle, X: 0.5, Y: 0.5, Radius: 0.25, Color: blue},
		{Name: "bottom", Kind: scene.Rect, X: 0.5, Y: 0.5, W: 1, H: 1, Color: green},
	}, 64, 64)

	r := NewRenderer()
	defer r.Close()

	f, err := r.Render(context.Background(), &s, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pixel(f, 32, 32); got != blue {
		t.Errorf("center = %v, want blue (topmost)", got)
	}
	if got := pixel(f, 2, 2); got != green {
		t.Errorf("corner = %v, want green", got)
	}
}

func TestRenderLifetime(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "late", Kind: scene.Rect, X: 0.5, Y: 0.5, W: 1, H: 1, Color: red, SpawnTime: 1},
	}, 16, 16)

	r := NewRenderer()
	defer r.Close()

	before, err := r.Render(context.Background(), &s, 0.5)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	after, err := r.Render(context.Background(), &s, 1.5)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pixel(before, 8, 8); got != white {
		t.Errorf("before spawn = %v, want background", got)
	}
	if got := pixel(after, 8, 8); got != red {
		t.Errorf("after spawn = %v, want red", got)
	}
}

func TestRenderText(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "t", Kind: scene.Text, X: 0.5, Y: 0.5, Size: 12, Value: "Hi", Color: red},
	}, 64, 32)

	r := NewRenderer()
	defer r.Close()
	if _, err := r.Render(context.Background(), &s, 0); err != nil {
		t.Fatalf("Render with text failed: %v", err)
	}
}

func TestRenderReusesContext(t *testing.T) {
	r := NewRenderer()
	defer r.Close()
	ctx := context.Background()

	s := snapshot(scene.Scene{{Name: "r", Kind: scene.Rect, X: 0.25, Y: 0.5, W: 0.5, H: 1, Color: red}}, 8, 8)
	first, err := r.Render(ctx, &s, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	dc := r.dc

	// A frame without the rect must not keep the previous frame's pixels.
	empty := snapshot(nil, 8, 8)
	second, err := r.Render(ctx, &empty, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if r.dc != dc {
		t.Error("same-size render allocated a new context")
	}
	if got := pixel(first, 1, 4); got != red {
		t.Errorf("first frame pixel = %v, want red", got)
	}
	if got := pixel(second, 1, 4); got != white {
		t.Errorf("second frame pixel = %v, want the white background", got)
	}

	bigger := snapshot(nil, 16, 4)
	f, err := r.Render(ctx, &bigger, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if f.Width != 16 || f.Height != 4 || len(f.Pix) != 16*4*4 {
		t.Errorf("resized frame = %dx%d with %d bytes", f.Width, f.Height, len(f.Pix))
	}
	if r.dc.Width() != 16 || r.dc.Height() != 4 {
		t.Errorf("context size = %dx%d, want 16x4", r.dc.Width(), r.dc.Height())
	}
}

func TestRenderEmptyTarget(t *testing.T) {
	s := snapshot(nil, 0, 10)
	r := NewRenderer()
	defer r.Close()
	if _, err := r.Render(context.Background(), &s, 0); !errors.Is(err, ErrEmptyTarget) {
		t.Errorf("Render = %v, want ErrEmptyTarget", err)
	}
}

func TestRenderGPUFallback(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "r", Kind: scene.Rect, X: 0.5, Y: 0.5, W: 1, H: 1, Color: red},
	}, 8, 8)

	// An uninitialized mirror fails every dispatch.
	r := NewRenderer(WithMirror(gpu.NewMirror()))
	defer r.Close()

	f, err := r.Render(context.Background(), &s, 0)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if f.GPU {
		t.Error("frame reports GPU after a failed dispatch")
	}
	if got := pixel(f, 4, 4); got != red {
		t.Errorf("CPU fallback pixel = %v, want red", got)
	}
}

func TestRenderTimeHandlers(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "r", Kind: scene.Rect, X: 0.5, Y: 0.5, W: 1, H: 1, Color: red},
	}, 8, 8)
	s.Handlers = []scene.Handler{{Name: scene.HandlerOnTime}}

	runner := scene.FuncRunner(func(_ context.Context, _ scene.Handler, vars scene.TimeVars, elems []scene.Element) error {
		if vars.Seconds >= 1 {
			elems[0].Color = blue
		}
		return nil
	})
	r := NewRenderer(WithRunner(runner))
	defer r.Close()

	f, err := r.Render(context.Background(), &s, 1)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := pixel(f, 4, 4); got != blue {
		t.Errorf("handler color = %v, want blue", got)
	}
	if s.Scene[0].Color != red {
		t.Error("handler mutated the snapshot")
	}
}

func TestFrameEncodePNG(t *testing.T) {
	f := &Frame{Width: 2, Height: 1, Pix: []byte{255, 0, 0, 255, 0, 0, 255, 255}}
	var buf bytes.Buffer
	if err := f.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 1 {
		t.Errorf("bounds = %v", b)
	}
}

func receive(t *testing.T, w *Worker) Result {
	t.Helper()
	select {
	case res, ok := <-w.Results():
		if !ok {
			t.Fatal("results closed")
		}
		return res
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for a result")
	}
	return Result{}
}

func TestWorkerRender(t *testing.T) {
	s := snapshot(scene.Scene{
		{Name: "r", Kind: scene.Rect, X: 0.5, Y: 0.5, W: 1, H: 1, Color: red},
	}, 8, 8)
	cache := NewFrameCache(DefaultCacheMB)
	w := NewWorker(NewRenderer(), cache)
	defer w.Close()

	seq, err := w.Request(s, 0.5)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	// Mutating the caller's scene after Request must not affect the frame.
	s.Scene[0].Color = blue

	res := receive(t, w)
	if res.Err != nil || res.Seq != seq {
		t.Fatalf("result seq=%d err=%v, want seq=%d", res.Seq, res.Err, seq)
	}
	if got := pixel(res.Frame, 4, 4); got != red {
		t.Errorf("pixel = %v, want red from the snapshot", got)
	}

	// Same version and frame: answered from the cache.
	if _, err := w.Request(s, 0.5); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	again := receive(t, w)
	if again.Frame != res.Frame {
		t.Error("second request was not served from the cache")
	}
	if st := cache.Stats(); st.Hits != 1 || st.Len != 1 {
		t.Errorf("cache stats = %+v", st)
	}
}

func TestWorkerDropsSuperseded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	first := true

	runner := scene.FuncRunner(func(ctx context.Context, _ scene.Handler, _ scene.TimeVars, _ []scene.Element) error {
		if !first {
			return nil
		}
		first = false
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})

	s := snapshot(scene.Scene{{Name: "r", Kind: scene.Rect, W: 1, H: 1, Color: red}}, 4, 4)
	s.Handlers = []scene.Handler{{Name: scene.HandlerTimeChanged}}

	w := NewWorker(NewRenderer(WithRunner(runner)), nil)
	defer w.Close()

	if _, err := w.Request(s, 0); err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	<-started
	latest, err := w.Request(s, 1)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	close(release)

	res := receive(t, w)
	if res.Seq != latest || res.Time != 1 {
		t.Errorf("delivered seq=%d time=%v, want seq=%d time=1", res.Seq, res.Time, latest)
	}
	if w.Latest() != latest {
		t.Errorf("Latest = %d, want %d", w.Latest(), latest)
	}
}

func TestWorkerClose(t *testing.T) {
	w := NewWorker(NewRenderer(), nil)
	w.Close()
	w.Close()

	if _, err := w.Request(snapshot(nil, 4, 4), 0); !errors.Is(err, ErrWorkerClosed) {
		t.Errorf("Request after Close = %v, want ErrWorkerClosed", err)
	}
	if _, ok := <-w.Results(); ok {
		t.Error("results channel still open after Close")
	}
}
