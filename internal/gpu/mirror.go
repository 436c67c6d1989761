// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/motion/easing"
	"github.com/gogpu/motion/keyframe"
)

//go:embed shaders/keyframes.wgsl
var keyframesShaderSource string

// KeyframesShaderSource returns the WGSL source of the sampling shader.
func KeyframesShaderSource() string { return keyframesShaderSource }

// DefaultReadbackTimeout bounds the fence wait in ReadShapes.
const DefaultReadbackTimeout = 5 * time.Second

var (
	// ErrNotInitialized is returned when the mirror has no pipeline.
	ErrNotInitialized = errors.New("keyframe mirror: not initialized")

	// ErrReadbackTimeout is returned when the GPU does not finish in time
	// and no earlier readback is available.
	ErrReadbackTimeout = errors.New("keyframe mirror: readback timed out")
)

// Mirror evaluates keyframe tracks on the GPU.
//
// Track data is uploaded only when the scene changes; per-frame dispatches
// rewrite the 32-byte uniform block. Buffers only grow. The evaluated
// shapes stay in a GPU buffer (ShapeBuffer) and are copied to the CPU only
// by ReadShapes. Mirror is safe for concurrent use, but dispatches are
// serialized.
type Mirror struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	externalDevice bool // true when using a shared device (don't destroy on Close)
	initialized    bool

	shader     hal.ShaderModule
	bgLayout   hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	uniforms  hal.Buffer
	keyframes gpuBuffer
	descs     gpuBuffer
	shapes    gpuBuffer
	staging   gpuBuffer
	bindGroup hal.BindGroup

	flat         FlatScene
	count        uint32
	uploaded     bool
	sceneVersion uint64
	versioned    bool // uploaded data corresponds to sceneVersion

	pending  *pendingDispatch
	last     []GpuShape
	readback []byte

	warned map[easing.Kind]bool
	approx map[easing.Kind]int

	timeout time.Duration
}

// gpuBuffer is a grow-only buffer. capacity is in bytes.
type gpuBuffer struct {
	buf      hal.Buffer
	capacity uint64
}

// pendingDispatch tracks a submitted dispatch until its readback.
type pendingDispatch struct {
	cmdBuf hal.CommandBuffer
	fence  hal.Fence
	count  uint32
}

// NewMirror returns a mirror that opens its own device on Init.
func NewMirror() *Mirror {
	return &Mirror{
		warned:  make(map[easing.Kind]bool),
		approx:  make(map[easing.Kind]int),
		timeout: DefaultReadbackTimeout,
	}
}

// NewMirrorWithDevice returns a mirror on a caller-owned device.
// Close does not destroy the device.
func NewMirrorWithDevice(device hal.Device, queue hal.Queue) *Mirror {
	m := NewMirror()
	m.device = device
	m.queue = queue
	m.externalDevice = true
	return m
}

// SetTimeout sets the readback fence timeout. Non-positive values restore
// DefaultReadbackTimeout.
func (m *Mirror) SetTimeout(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d <= 0 {
		d = DefaultReadbackTimeout
	}
	m.timeout = d
}

// Init opens a device if none was provided and creates the pipeline.
// It is safe to call Init multiple times.
func (m *Mirror) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if m.device == nil {
		if err := m.initGPU(); err != nil {
			return fmt.Errorf("keyframe mirror: %w", err)
		}
	}
	if err := m.createPipeline(); err != nil {
		return err
	}
	m.initialized = true
	slogger().Info("keyframe mirror: pipeline initialized", "shader_bytes", len(keyframesShaderSource))
	return nil
}

// SetDeviceProvider switches the mirror to a shared GPU device from an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (m *Mirror) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("keyframe mirror: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("keyframe mirror: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("keyframe mirror: provider HalQueue is not hal.Queue")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	m.device = device
	m.queue = queue
	m.externalDevice = true

	if err := m.createPipeline(); err != nil {
		return fmt.Errorf("keyframe mirror: create pipeline with shared device: %w", err)
	}
	m.initialized = true
	slogger().Info("keyframe mirror: switched to shared GPU device")
	return nil
}

func (m *Mirror) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device: %w", err)
	}
	m.instance = instance
	m.device = openDev.Device
	m.queue = openDev.Queue
	slogger().Debug("keyframe mirror: device opened", "adapter", selected.Info.Name)
	return nil
}

func (m *Mirror) createPipeline() error {
	shader, err := m.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "keyframes",
		Source: hal.ShaderSource{WGSL: keyframesShaderSource},
	})
	if err != nil {
		return fmt.Errorf("keyframe mirror: create shader module: %w", err)
	}
	m.shader = shader

	bgLayout, err := m.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label:   "keyframes_bgl",
		Entries: bindGroupLayoutEntries(),
	})
	if err != nil {
		m.destroyPipeline()
		return fmt.Errorf("keyframe mirror: create bind group layout: %w", err)
	}
	m.bgLayout = bgLayout

	pipeLayout, err := m.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "keyframes_pl",
		BindGroupLayouts: []hal.BindGroupLayout{bgLayout},
	})
	if err != nil {
		m.destroyPipeline()
		return fmt.Errorf("keyframe mirror: create pipeline layout: %w", err)
	}
	m.pipeLayout = pipeLayout

	pipeline, err := m.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "keyframes",
		Layout: pipeLayout,
		Compute: hal.ComputeState{
			Module:     shader,
			EntryPoint: "main",
		},
	})
	if err != nil {
		m.destroyPipeline()
		return fmt.Errorf("keyframe mirror: create compute pipeline: %w", err)
	}
	m.pipeline = pipeline

	uniforms, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "keyframes_uniforms",
		Size:  UniformsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		m.destroyPipeline()
		return fmt.Errorf("keyframe mirror: create uniform buffer: %w", err)
	}
	m.uniforms = uniforms
	return nil
}

func bindGroupLayoutEntries() []gputypes.BindGroupLayoutEntry {
	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: t},
		}
	}
	return []gputypes.BindGroupLayoutEntry{
		storage(0, gputypes.BufferBindingTypeUniform),
		storage(1, gputypes.BufferBindingTypeReadOnlyStorage),
		storage(2, gputypes.BufferBindingTypeReadOnlyStorage),
		storage(3, gputypes.BufferBindingTypeStorage),
	}
}

// SceneVersion returns the version of the last uploaded scene.
func (m *Mirror) SceneVersion() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sceneVersion
}

// Approximations returns, per easing kind, how many uploaded keyframes
// were evaluated as linear because the shader does not implement the curve.
func (m *Mirror) Approximations() map[easing.Kind]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.approx)
}

// DispatchVersion dispatches elems at frame, uploading track data only when
// version differs from the last uploaded scene version.
func (m *Mirror) DispatchVersion(elems []*keyframe.ElementKeyframes, version uint64, frame float32, fps float64, width, height uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dispatchLocked(elems, frame, fps, width, height, m.needsUploadLocked(version)); err != nil {
		return err
	}
	m.sceneVersion = version
	m.versioned = true
	return nil
}

// DispatchInto records the evaluation of elems at frame into encoder,
// which must be encoding. Upload follows the same version rule as
// DispatchVersion. Nothing is submitted and nothing is read back: the
// shapes land in ShapeBuffer once the caller submits encoder, for a render
// pass recorded after it to draw. The encoder must be submitted before the
// next dispatch rewrites the uniform block.
func (m *Mirror) DispatchInto(encoder hal.CommandEncoder, elems []*keyframe.ElementKeyframes, version uint64, frame float32, fps float64, width, height uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.prepareLocked(elems, frame, fps, width, height, m.needsUploadLocked(version)); err != nil {
		return err
	}
	if m.count > 0 {
		m.recordLocked(encoder)
	}
	m.sceneVersion = version
	m.versioned = true
	return nil
}

func (m *Mirror) needsUploadLocked(version uint64) bool {
	return !m.uploaded || !m.versioned || version != m.sceneVersion
}

// ShapeBuffer returns the GPU buffer the shader writes shapes into and the
// number of shapes of the current upload. Each shape is ShapeSize bytes,
// in painter order. The buffer is replaced when a larger scene is
// uploaded, so fetch it again after every upload.
func (m *Mirror) ShapeBuffer() (hal.Buffer, uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shapes.buf, m.count
}

// Dispatch evaluates every element at frame on the GPU.
//
// When upload is true, or nothing has been uploaded yet, elems are
// flattened and uploaded; otherwise elems is ignored and the previous
// upload is reused. An upload here is not tied to a scene version, so the
// next DispatchVersion uploads again. The results are fetched with
// ReadShapes.
func (m *Mirror) Dispatch(elems []*keyframe.ElementKeyframes, frame float32, fps float64, width, height uint32, upload bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.dispatchLocked(elems, frame, fps, width, height, upload); err != nil {
		return err
	}
	if upload {
		m.versioned = false
	}
	return nil
}

func (m *Mirror) dispatchLocked(elems []*keyframe.ElementKeyframes, frame float32, fps float64, width, height uint32, upload bool) error {
	if err := m.prepareLocked(elems, frame, fps, width, height, upload); err != nil {
		return err
	}
	if m.count == 0 {
		return nil
	}
	return m.encodeAndSubmitLocked()
}

// prepareLocked uploads track data when needed and writes the uniforms.
func (m *Mirror) prepareLocked(elems []*keyframe.ElementKeyframes, frame float32, fps float64, width, height uint32, upload bool) error {
	if !m.initialized {
		return ErrNotInitialized
	}

	// A dispatch still in flight must finish before its buffers are reused.
	if m.pending != nil {
		if _, err := m.waitPendingLocked(m.timeout); err != nil {
			return err
		}
	}

	if upload || !m.uploaded {
		if err := m.uploadLocked(Flatten(elems)); err != nil {
			return err
		}
	}

	u := Uniforms{
		Frame:        frame,
		FPS:          float32(fps),
		Count:        m.count,
		RenderWidth:  width,
		RenderHeight: height,
	}
	m.queue.WriteBuffer(m.uniforms, 0, u.toBytes())

	if m.count == 0 {
		// Nothing to evaluate; an empty scene reads back as no shapes.
		m.last = []GpuShape{}
	}
	return nil
}

func (m *Mirror) uploadLocked(fs FlatScene) error {
	m.flat = fs
	m.count = uint32(len(fs.Descs))
	m.uploaded = true

	for kind, n := range fs.Approximated {
		m.approx[kind] += n
		if !m.warned[kind] {
			m.warned[kind] = true
			slogger().Warn("keyframe mirror: easing not supported on GPU, using linear",
				"easing", kind.String(), "keyframes", n)
		}
	}

	grown := false
	for _, g := range []struct {
		b     *gpuBuffer
		label string
		size  uint64
		elem  uint64
		usage gputypes.BufferUsage
	}{
		{&m.keyframes, "keyframes_data", uint64(len(fs.Keyframes)), KeyframeSize, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{&m.descs, "keyframes_descs", uint64(len(fs.Descs)), ElementDescSize, gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst},
		{&m.shapes, "keyframes_shapes", uint64(len(fs.Descs)), ShapeSize, gputypes.BufferUsageStorage | gputypes.BufferUsageVertex | gputypes.BufferUsageCopySrc},
		{&m.staging, "keyframes_staging", uint64(len(fs.Descs)), ShapeSize, gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst},
	} {
		ok, err := m.ensure(g.b, g.label, g.size, g.elem, g.usage)
		if err != nil {
			return err
		}
		grown = grown || ok
	}

	if grown || m.bindGroup == nil {
		if err := m.rebuildBindGroup(); err != nil {
			return err
		}
	}

	if len(fs.Keyframes) > 0 {
		m.queue.WriteBuffer(m.keyframes.buf, 0, marshalKeyframes(fs.Keyframes))
	}
	if len(fs.Descs) > 0 {
		m.queue.WriteBuffer(m.descs.buf, 0, marshalDescs(fs.Descs))
	}

	slogger().Debug("keyframe mirror: scene uploaded",
		"elements", len(fs.Descs),
		"keyframes", len(fs.Keyframes),
		"rebind", grown)
	return nil
}

// ensure grows b to hold n elements of elemSize bytes, with headroom.
// It reports whether the buffer was recreated.
func (m *Mirror) ensure(b *gpuBuffer, label string, n, elemSize uint64, usage gputypes.BufferUsage) (bool, error) {
	need := n * elemSize
	if b.buf != nil && need <= b.capacity {
		return false, nil
	}
	size := growCapacity(n) * elemSize
	buf, err := m.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: usage,
	})
	if err != nil {
		return false, fmt.Errorf("keyframe mirror: create %s buffer (%d bytes): %w", label, size, err)
	}
	if b.buf != nil {
		m.device.DestroyBuffer(b.buf)
	}
	b.buf = buf
	b.capacity = size
	return true, nil
}

// growCapacity returns the element capacity allocated for n elements.
func growCapacity(n uint64) uint64 { return n*2 + 64 }

func (m *Mirror) rebuildBindGroup() error {
	entry := func(binding uint32, buf hal.Buffer) gputypes.BindGroupEntry {
		return gputypes.BindGroupEntry{
			Binding: binding,
			Resource: gputypes.BufferBinding{
				Buffer: buf.NativeHandle(),
				Offset: 0,
				Size:   0, // whole buffer
			},
		}
	}
	bg, err := m.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "keyframes_bg",
		Layout: m.bgLayout,
		Entries: []gputypes.BindGroupEntry{
			entry(0, m.uniforms),
			entry(1, m.keyframes.buf),
			entry(2, m.descs.buf),
			entry(3, m.shapes.buf),
		},
	})
	if err != nil {
		return fmt.Errorf("keyframe mirror: create bind group: %w", err)
	}
	if m.bindGroup != nil {
		m.device.DestroyBindGroup(m.bindGroup)
	}
	m.bindGroup = bg
	return nil
}

// WorkgroupCount returns the number of workgroups for n elements.
func WorkgroupCount(n uint32) uint32 {
	return (n + WorkgroupSize - 1) / WorkgroupSize
}

// recordLocked records the compute pass into encoder.
func (m *Mirror) recordLocked(encoder hal.CommandEncoder) {
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "keyframes"})
	pass.SetPipeline(m.pipeline)
	pass.SetBindGroup(0, m.bindGroup, nil)
	pass.Dispatch(WorkgroupCount(m.count), 1, 1)
	pass.End()

	slogger().Debug("keyframe mirror: dispatched",
		"elements", m.count,
		"workgroups", WorkgroupCount(m.count))
}

func (m *Mirror) encodeAndSubmitLocked() error {
	encoder, err := m.beginLocked("keyframes")
	if err != nil {
		return err
	}
	m.recordLocked(encoder)
	return m.submitLocked(encoder, m.count)
}

// copyToStagingLocked copies the first n shapes into the staging buffer.
func (m *Mirror) copyToStagingLocked(n uint32) error {
	encoder, err := m.beginLocked("keyframes_readback")
	if err != nil {
		return err
	}
	encoder.CopyBufferToBuffer(m.shapes.buf, m.staging.buf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: uint64(n) * ShapeSize},
	})
	return m.submitLocked(encoder, n)
}

func (m *Mirror) beginLocked(label string) (hal.CommandEncoder, error) {
	encoder, err := m.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, fmt.Errorf("keyframe mirror: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return nil, fmt.Errorf("keyframe mirror: begin encoding: %w", err)
	}
	return encoder, nil
}

// submitLocked ends encoder and submits it. The submission stays pending
// until waitPendingLocked.
func (m *Mirror) submitLocked(encoder hal.CommandEncoder, count uint32) error {
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("keyframe mirror: end encoding: %w", err)
	}
	fence, err := m.device.CreateFence()
	if err != nil {
		m.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("keyframe mirror: create fence: %w", err)
	}
	if err := m.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		m.device.DestroyFence(fence)
		m.device.FreeCommandBuffer(cmdBuf)
		return fmt.Errorf("keyframe mirror: submit: %w", err)
	}
	m.pending = &pendingDispatch{cmdBuf: cmdBuf, fence: fence, count: count}
	return nil
}

// waitPendingLocked waits for the in-flight dispatch and releases its
// command buffer and fence. It reports the element count of the dispatch.
func (m *Mirror) waitPendingLocked(timeout time.Duration) (uint32, error) {
	p := m.pending
	ok, err := m.device.Wait(p.fence, 1, timeout)
	if err != nil {
		return 0, fmt.Errorf("keyframe mirror: wait for GPU: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%w after %v", ErrReadbackTimeout, timeout)
	}
	m.device.DestroyFence(p.fence)
	m.device.FreeCommandBuffer(p.cmdBuf)
	m.pending = nil
	return p.count, nil
}

// ReadShapes returns the shapes written by the last Dispatch, in painter
// order. The shape buffer is copied to a staging buffer only here. The
// waits are bounded by the mirror timeout and ctx. If the GPU does not
// finish in time, the last successful readback is returned instead;
// without one the error is returned.
func (m *Mirror) ReadShapes(ctx context.Context) ([]GpuShape, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil, ErrNotInitialized
	}
	if m.pending == nil {
		return m.last, nil
	}
	if err := ctx.Err(); err != nil {
		return m.fallbackLocked(err)
	}

	timeout := m.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = min(timeout, time.Until(deadline))
	}
	deadline := time.Now().Add(max(timeout, 0))

	n, err := m.waitPendingLocked(max(timeout, 0))
	if err != nil {
		return m.fallbackLocked(err)
	}
	if err := m.copyToStagingLocked(n); err != nil {
		return m.fallbackLocked(err)
	}
	if _, err := m.waitPendingLocked(max(time.Until(deadline), 0)); err != nil {
		return m.fallbackLocked(err)
	}

	size := int(uint64(n) * ShapeSize)
	if cap(m.readback) < size {
		m.readback = make([]byte, size)
	}
	buf := m.readback[:size]
	if err := m.queue.ReadBuffer(m.staging.buf, 0, buf); err != nil {
		return m.fallbackLocked(fmt.Errorf("keyframe mirror: readback: %w", err))
	}
	m.last = DecodeShapes(buf, int(n))
	return m.last, nil
}

func (m *Mirror) fallbackLocked(err error) ([]GpuShape, error) {
	if m.last != nil {
		slogger().Warn("keyframe mirror: readback failed, using previous frame", "err", err)
		return m.last, nil
	}
	return nil, err
}

// EvaluateCPU evaluates the last uploaded scene on the CPU at frame.
func (m *Mirror) EvaluateCPU(frame float32, fps float64) []GpuShape {
	m.mu.Lock()
	defer m.mu.Unlock()
	return EvaluateCPU(m.flat, Uniforms{Frame: frame, FPS: float32(fps), Count: m.count})
}

// Close releases all GPU resources held by the mirror. A device opened by
// Init is destroyed; a shared device is not.
func (m *Mirror) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
	m.queue = nil
	m.device = nil
}

func (m *Mirror) releaseLocked() {
	if m.device == nil {
		return
	}
	if m.pending != nil {
		if _, err := m.waitPendingLocked(m.timeout); err != nil {
			slogger().Warn("keyframe mirror: pending dispatch did not finish", "err", err)
		}
		m.pending = nil
	}
	if m.bindGroup != nil {
		m.device.DestroyBindGroup(m.bindGroup)
		m.bindGroup = nil
	}
	for _, b := range []*gpuBuffer{&m.keyframes, &m.descs, &m.shapes, &m.staging} {
		if b.buf != nil {
			m.device.DestroyBuffer(b.buf)
		}
		*b = gpuBuffer{}
	}
	m.destroyPipeline()
	m.initialized = false
	m.uploaded = false

	if !m.externalDevice {
		m.device.Destroy()
		if m.instance != nil {
			m.instance.Destroy()
			m.instance = nil
		}
	}
	m.device = nil
	m.queue = nil
	m.externalDevice = false
}

// destroyPipeline releases whatever createPipeline managed to create.
func (m *Mirror) destroyPipeline() {
	if m.uniforms != nil {
		m.device.DestroyBuffer(m.uniforms)
		m.uniforms = nil
	}
	if m.pipeline != nil {
		m.device.DestroyComputePipeline(m.pipeline)
		m.pipeline = nil
	}
	if m.pipeLayout != nil {
		m.device.DestroyPipelineLayout(m.pipeLayout)
		m.pipeLayout = nil
	}
	if m.bgLayout != nil {
		m.device.DestroyBindGroupLayout(m.bgLayout)
		m.bgLayout = nil
	}
	if m.shader != nil {
		m.device.DestroyShaderModule(m.shader)
		m.shader = nil
	}
}
