package preview

import "sync"

// DefaultPoolSize is the number of buffers a BufferPool retains.
const DefaultPoolSize = 8

// BufferPool recycles RGBA pixel buffers between frames.
//
// At most its size buffers are retained; extra releases are dropped for
// the garbage collector.
type BufferPool struct {
	mu   sync.Mutex
	bufs [][]byte
	size int
}

// NewBufferPool creates a pool retaining at most size buffers.
// If size <= 0, DefaultPoolSize is used.
func NewBufferPool(size int) *BufferPool {
	if size <= 0 {
		size = DefaultPoolSize
	}
	return &BufferPool{
		bufs: make([][]byte, 0, size),
		size: size,
	}
}

// Acquire returns a zero-length buffer with at least capacity bytes.
func (p *BufferPool) Acquire(capacity int) []byte {
	p.mu.Lock()
	n := len(p.bufs)
	if n == 0 {
		p.mu.Unlock()
		return make([]byte, 0, capacity)
	}
	buf := p.bufs[n-1]
	p.bufs[n-1] = nil
	p.bufs = p.bufs[:n-1]
	p.mu.Unlock()

	if cap(buf) < capacity {
		return make([]byte, 0, capacity)
	}
	return buf[:0]
}

// Release returns buf to the pool.
func (p *BufferPool) Release(buf []byte) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.bufs) < p.size {
		p.bufs = append(p.bufs, buf[:0])
	}
}

// Len returns the number of idle buffers.
func (p *BufferPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.bufs)
}
