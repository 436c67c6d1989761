package preview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gogpu/motion/keyframe"
)

// ErrWorkerClosed is returned by Request after Close.
var ErrWorkerClosed = errors.New("preview: worker closed")

// Result is the outcome of one preview request.
type Result struct {
	// Seq identifies the request, as returned by Request.
	Seq uint64

	Time  float64
	Frame *Frame
	Err   error
}

type job struct {
	seq  uint64
	time float64
	snap RenderSnapshot
}

// Worker renders preview frames on a background goroutine.
//
// Requests replace each other: a request still queued when a newer one
// arrives is discarded, and the result of a request that was superseded
// while it rendered is dropped. Only the latest result is delivered.
//
// The worker owns its Renderer, and with it the GPU mirror.
type Worker struct {
	renderer *Renderer
	cache    *FrameCache

	jobs    chan job
	results chan Result

	mu     sync.Mutex
	closed bool

	seq    atomic.Uint64
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker starts a worker around r. If cache is non-nil, finished frames
// are stored in it and requests it already holds are answered from it.
// Frames leaving the cache return their pixels to r's pool, so a delivered
// frame is only valid until the cache evicts it.
func NewWorker(r *Renderer, cache *FrameCache) *Worker {
	if cache != nil {
		cache.OnRelease(r.Release)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		renderer: r,
		cache:    cache,
		jobs:     make(chan job, 1),
		results:  make(chan Result, 1),
		ctx:      ctx,
		cancel:   cancel,
	}
	w.wg.Add(1)
	go w.run()
	return w
}

// Request asks for a frame of snap at seconds and returns the request's
// sequence number. snap is deep-copied before Request returns.
func (w *Worker) Request(snap RenderSnapshot, seconds float64) (uint64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, ErrWorkerClosed
	}

	j := job{
		seq:  w.seq.Add(1),
		time: seconds,
		snap: snap.Clone(),
	}
	for {
		select {
		case w.jobs <- j:
			return j.seq, nil
		default:
		}
		// Drop the queued request it replaces.
		select {
		case <-w.jobs:
		default:
		}
	}
}

// Results delivers finished frames. It is closed by Close.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Latest returns the sequence number of the newest request.
func (w *Worker) Latest() uint64 {
	return w.seq.Load()
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case j := <-w.jobs:
			if j.seq != w.seq.Load() {
				continue
			}
			res := w.render(j)
			if j.seq != w.seq.Load() {
				if res.Frame != nil && w.cache == nil {
					w.renderer.Release(res.Frame)
				}
				continue
			}
			w.deliver(res)
		}
	}
}

func (w *Worker) render(j job) Result {
	res := Result{Seq: j.seq, Time: j.time}
	if w.cache != nil {
		w.cache.SetPlayhead(j.time)
		index := int(keyframe.SecondsToFrame(j.time, j.snap.FPS))
		if f, ok := w.cache.Get(j.snap.SceneVersion, index); ok {
			res.Frame = f
			return res
		}
	}
	f, err := w.renderer.Render(w.ctx, &j.snap, j.time)
	if err != nil {
		res.Err = err
		return res
	}
	if w.cache != nil {
		w.cache.Put(f)
	}
	res.Frame = f
	return res
}

// deliver sends res, replacing an undelivered older result.
func (w *Worker) deliver(res Result) {
	for {
		select {
		case w.results <- res:
			return
		case <-w.ctx.Done():
			return
		default:
		}
		select {
		case old := <-w.results:
			if old.Frame != nil && w.cache == nil {
				w.renderer.Release(old.Frame)
			}
		default:
		}
	}
}

// Close stops the worker, waits for the frame in progress, closes the
// results channel and releases the renderer. It is safe to call twice.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.cancel()
	w.wg.Wait()
	close(w.results)
	w.renderer.Close()
}
