package resource

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	graphite "github.com/Carmen-Shannon/graphite-go"
	"github.com/Carmen-Shannon/graphite-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// copyBytesPerRowAlignment is wgpu's required row alignment for buffer-to-texture copies.
const copyBytesPerRowAlignment uint64 = 256

// textureEntry pairs a texture with its default view so removal can release both.
type textureEntry struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// registry is the implementation of the Registry interface.
type registry struct {
	mu     *sync.RWMutex
	device *wgpu.Device
	queue  *wgpu.Queue

	buffers  map[Handle]*wgpu.Buffer
	textures map[Handle]*textureEntry
	samplers map[Handle]*wgpu.Sampler
	infos    map[Handle]Info
	named    map[string]Handle
	dynamic  map[Handle]*DynamicUniformBufferInfo

	// encoder is the executor's currently open command encoder, installed for
	// the duration of each frame phase. Operations that record copy commands
	// panic when no encoder is installed.
	encoder *wgpu.CommandEncoder

	// staging holds temporary copy-source buffers recorded into the current
	// encoder. They are released after the executor submits the commands.
	staging []*wgpu.Buffer

	// stagePool runs per-entity uniform packing in parallel. Workers persist
	// across frames, avoiding per-frame goroutine spawn/teardown overhead.
	stagePool worker.DynamicWorkerPool
}

// Registry owns and tracks every GPU resource the renderer creates: buffers,
// instance buffers, and textures, each identified by an opaque Handle. It also
// maintains the named-resource table that binds shader variable names to handles,
// and the per-entity offset bookkeeping for shared dynamic uniform buffers.
//
// Creation and removal methods panic on device errors and unknown handles;
// lookups return their "found" state and leave recovery to the caller.
type Registry interface {
	// CreateBuffer creates a GPU buffer of the given size and tracks it under a
	// new handle with a BufferInfo record.
	//
	// Parameters:
	//   - usage: the buffer usage flags
	//   - size: the buffer byte size
	//
	// Returns:
	//   - Handle: the handle tracking the new buffer
	CreateBuffer(usage wgpu.BufferUsage, size uint64) Handle

	// CreateBufferWithData creates a GPU buffer initialized with the given data
	// and tracks it under a new handle with a BufferInfo record.
	//
	// Parameters:
	//   - usage: the buffer usage flags
	//   - data: the initial buffer contents; the buffer size is len(data)
	//
	// Returns:
	//   - Handle: the handle tracking the new buffer
	CreateBufferWithData(usage wgpu.BufferUsage, data []byte) Handle

	// CreateBufferMapped creates a GPU buffer mapped at creation, invokes setup
	// with the mapped byte range so callers can fill it in place, unmaps, and
	// tracks the buffer under a new handle with a BufferInfo record.
	//
	// Parameters:
	//   - usage: the buffer usage flags
	//   - size: the buffer byte size
	//   - setup: called once with the writable mapped range of length size
	//
	// Returns:
	//   - Handle: the handle tracking the new buffer
	CreateBufferMapped(usage wgpu.BufferUsage, size uint64, setup func(data []byte)) Handle

	// CreateInstanceBuffer creates a GPU buffer holding per-instance data and
	// tracks it under a new handle with an InstanceBufferInfo record, so the
	// draw path can recover the instance count from the handle alone.
	//
	// Parameters:
	//   - usage: the buffer usage flags
	//   - size: the buffer byte size
	//   - count: the number of instances the buffer holds
	//   - meshID: the mesh asset the instances belong to
	//
	// Returns:
	//   - Handle: the handle tracking the new instance buffer
	CreateInstanceBuffer(usage wgpu.BufferUsage, size uint64, count uint64, meshID uint64) Handle

	// CreateInstanceBufferWithData creates a GPU buffer initialized with the
	// given per-instance data and tracks it under a new handle with an
	// InstanceBufferInfo record.
	//
	// Parameters:
	//   - usage: the buffer usage flags
	//   - data: the initial buffer contents; the buffer size is len(data)
	//   - count: the number of instances the buffer holds
	//   - meshID: the mesh asset the instances belong to
	//
	// Returns:
	//   - Handle: the handle tracking the new instance buffer
	CreateInstanceBufferWithData(usage wgpu.BufferUsage, data []byte, count uint64, meshID uint64) Handle

	// CreateTexture creates a texture and its default view from the given
	// descriptor and tracks both under a new handle with a TextureInfo record.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//
	// Returns:
	//   - Handle: the handle tracking the new texture
	CreateTexture(desc *wgpu.TextureDescriptor) Handle

	// CreateTextureWithData creates a texture like CreateTexture and stages the
	// given texel data into it through a temporary copy-source buffer recorded
	// into the currently open command encoder. Rows are re-padded to wgpu's
	// 256-byte copy alignment when needed. Panics if no encoder is open; the
	// upload must land in the same submission order as the commands around it.
	//
	// Parameters:
	//   - desc: the texture descriptor
	//   - data: tightly packed texel rows for the full texture extent
	//
	// Returns:
	//   - Handle: the handle tracking the new texture
	CreateTextureWithData(desc *wgpu.TextureDescriptor, data []byte) Handle

	// CopyBufferToBuffer records a buffer-to-buffer copy into the currently open
	// command encoder. Panics if either handle is unknown or no encoder is open.
	//
	// Parameters:
	//   - src: the source buffer handle
	//   - srcOffset: the source byte offset
	//   - dst: the destination buffer handle
	//   - dstOffset: the destination byte offset
	//   - size: the number of bytes to copy
	CopyBufferToBuffer(src Handle, srcOffset uint64, dst Handle, dstOffset uint64, size uint64)

	// RemoveBuffer releases the buffer tracked by the handle and forgets its
	// info and dynamic uniform records. The handle is retired, never reused, and
	// named-resource entries still pointing at it are left to fail lookups.
	//
	// Parameters:
	//   - h: the buffer handle to remove
	RemoveBuffer(h Handle)

	// CreateSampler creates a sampler from the given descriptor and tracks it
	// under a new handle with a SamplerInfo record.
	//
	// Parameters:
	//   - desc: the sampler descriptor
	//
	// Returns:
	//   - Handle: the handle tracking the new sampler
	CreateSampler(desc *wgpu.SamplerDescriptor) Handle

	// RemoveTexture releases the texture and view tracked by the handle and
	// forgets its info record.
	//
	// Parameters:
	//   - h: the texture handle to remove
	RemoveTexture(h Handle)

	// WriteBuffer writes data to the tracked buffer at the given offset via the
	// queue. Panics if the handle is unknown.
	//
	// Parameters:
	//   - h: the buffer handle to write
	//   - offset: the destination byte offset
	//   - data: the bytes to write
	//
	// Returns:
	//   - error: an error if the queue write fails
	WriteBuffer(h Handle, offset uint64, data []byte) error

	// WriteBuffers writes all staged buffer writes to the GPU queue. Writes
	// whose target buffer is gone are skipped.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []BufferWrite)

	// ResourceInfo retrieves the descriptive record for a handle.
	//
	// Parameters:
	//   - h: the handle to look up
	//
	// Returns:
	//   - Info: the resource's info record
	//   - bool: true if the handle is tracked
	ResourceInfo(h Handle) (Info, bool)

	// BufferFor retrieves the wgpu buffer tracked by a handle.
	//
	// Parameters:
	//   - h: the handle to look up
	//
	// Returns:
	//   - *wgpu.Buffer: the buffer, or nil if the handle does not track a buffer
	BufferFor(h Handle) *wgpu.Buffer

	// TextureViewFor retrieves the default texture view tracked by a handle.
	//
	// Parameters:
	//   - h: the handle to look up
	//
	// Returns:
	//   - *wgpu.TextureView: the view, or nil if the handle does not track a texture
	TextureViewFor(h Handle) *wgpu.TextureView

	// SamplerFor retrieves the sampler tracked by a handle.
	//
	// Parameters:
	//   - h: the handle to look up
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler, or nil if the handle does not track a sampler
	SamplerFor(h Handle) *wgpu.Sampler

	// SetNamedResource binds a name to a handle in the named-resource table.
	// Rebinding an existing name replaces the previous handle; the table holds
	// whatever was assigned last.
	//
	// Parameters:
	//   - name: the shader-visible resource name
	//   - h: the handle to bind
	SetNamedResource(name string, h Handle)

	// NamedResource retrieves the handle bound to a name.
	//
	// Parameters:
	//   - name: the shader-visible resource name
	//
	// Returns:
	//   - Handle: the bound handle
	//   - bool: true if the name is bound
	NamedResource(name string) (Handle, bool)

	// SetDynamicUniformInfo records dynamic uniform bookkeeping for a buffer handle.
	//
	// Parameters:
	//   - h: the buffer handle
	//   - info: the partition bookkeeping for the shared buffer
	SetDynamicUniformInfo(h Handle, info *DynamicUniformBufferInfo)

	// DynamicUniformInfo retrieves the dynamic uniform bookkeeping for a handle.
	//
	// Parameters:
	//   - h: the buffer handle
	//
	// Returns:
	//   - *DynamicUniformBufferInfo: the partition bookkeeping
	//   - bool: true if the handle has dynamic uniform records
	DynamicUniformInfo(h Handle) (*DynamicUniformBufferInfo, bool)

	// IsDynamicUniform reports whether the named resource is currently bound to
	// a buffer with dynamic uniform records. Pipeline layout resolution consults
	// this to decide which uniform bindings take dynamic offsets.
	//
	// Parameters:
	//   - name: the shader-visible resource name
	//
	// Returns:
	//   - bool: true if the name resolves to a dynamic uniform buffer
	IsDynamicUniform(name string) bool

	// DynamicOffset retrieves the byte offset of an entity's slice within the
	// named dynamic uniform buffer.
	//
	// Parameters:
	//   - name: the shader-visible resource name
	//   - entity: the entity whose slice to locate
	//
	// Returns:
	//   - uint32: the byte offset of the entity's slice
	//   - bool: true if the name resolves to a dynamic uniform buffer holding the entity
	DynamicOffset(name string, entity EntityID) (uint32, bool)

	// StageDynamicUniforms packs one aligned slice per entity into the dynamic
	// uniform buffer bound to name, creating or growing the buffer as needed,
	// rebinding the name, and refreshing the offset table. The fill callbacks
	// run in parallel on the registry's worker pool; the packed bytes go to the
	// GPU in a single queue write.
	//
	// Parameters:
	//   - name: the shader-visible resource name to (re)bind
	//   - size: the unaligned byte size of one entity's data
	//   - entities: the entities to pack, in offset order
	//   - fill: called once per entity with that entity's writable slice of length size
	//
	// Returns:
	//   - Handle: the handle of the buffer now bound to name
	//   - error: an error if the queue write fails
	StageDynamicUniforms(name string, size uint64, entities []EntityID, fill func(entity EntityID, out []byte)) (Handle, error)

	// SetEncoder installs or clears the executor's open command encoder for
	// copy-recording operations. Passing nil clears it.
	//
	// Parameters:
	//   - encoder: the encoder now open, or nil at phase end
	SetEncoder(encoder *wgpu.CommandEncoder)

	// Encoder retrieves the currently installed command encoder.
	//
	// Returns:
	//   - *wgpu.CommandEncoder: the open encoder, or nil outside frame phases
	Encoder() *wgpu.CommandEncoder

	// ReleaseStagingBuffers releases the temporary copy-source buffers recorded
	// into the most recent encoder. The executor calls this after submitting.
	ReleaseStagingBuffers()

	// Release frees every tracked GPU object and clears all tables. The registry
	// is unusable afterwards.
	Release()
}

var _ Registry = &registry{}

// NewRegistry creates a Registry tracking resources on the given device and queue.
//
// Parameters:
//   - device: the wgpu device used to create resources
//   - queue: the wgpu queue used for writes
//
// Returns:
//   - Registry: a ready-to-use registry
func NewRegistry(device *wgpu.Device, queue *wgpu.Queue) Registry {
	if device == nil || queue == nil {
		panic("resource: NewRegistry requires a non-nil device and queue")
	}
	workers := max(runtime.NumCPU()-1, 1)
	return &registry{
		mu:        &sync.RWMutex{},
		device:    device,
		queue:     queue,
		buffers:   make(map[Handle]*wgpu.Buffer),
		textures:  make(map[Handle]*textureEntry),
		samplers:  make(map[Handle]*wgpu.Sampler),
		infos:     make(map[Handle]Info),
		named:     make(map[string]Handle),
		dynamic:   make(map[Handle]*DynamicUniformBufferInfo),
		stagePool: worker.NewDynamicWorkerPool(workers, 256, 1*time.Second),
	}
}

func (r *registry) CreateBuffer(usage wgpu.BufferUsage, size uint64) Handle {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create buffer: %v", err))
	}
	return r.trackBuffer(buf, BufferInfo{Usage: usage, Size: size})
}

func (r *registry) CreateBufferWithData(usage wgpu.BufferUsage, data []byte) Handle {
	buf, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: data,
		Usage:    usage,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create buffer with data: %v", err))
	}
	return r.trackBuffer(buf, BufferInfo{Usage: usage, Size: uint64(len(data))})
}

func (r *registry) CreateBufferMapped(usage wgpu.BufferUsage, size uint64, setup func(data []byte)) Handle {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             size,
		Usage:            usage,
		MappedAtCreation: true,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create mapped buffer: %v", err))
	}
	setup(buf.GetMappedRange(0, uint(size)))
	buf.Unmap()
	return r.trackBuffer(buf, BufferInfo{Usage: usage, Size: size})
}

func (r *registry) CreateInstanceBuffer(usage wgpu.BufferUsage, size uint64, count uint64, meshID uint64) Handle {
	buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Size:             size,
		Usage:            usage,
		MappedAtCreation: false,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create instance buffer: %v", err))
	}
	return r.trackBuffer(buf, InstanceBufferInfo{Usage: usage, Size: size, Count: count, MeshID: meshID})
}

func (r *registry) CreateInstanceBufferWithData(usage wgpu.BufferUsage, data []byte, count uint64, meshID uint64) Handle {
	buf, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: data,
		Usage:    usage,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create instance buffer with data: %v", err))
	}
	return r.trackBuffer(buf, InstanceBufferInfo{Usage: usage, Size: uint64(len(data)), Count: count, MeshID: meshID})
}

// trackBuffer stores a created buffer under a fresh handle.
func (r *registry) trackBuffer(buf *wgpu.Buffer, info Info) Handle {
	h := NewHandle()
	r.mu.Lock()
	r.buffers[h] = buf
	r.infos[h] = info
	r.mu.Unlock()
	return h
}

func (r *registry) CreateTexture(desc *wgpu.TextureDescriptor) Handle {
	tex, err := r.device.CreateTexture(desc)
	if err != nil {
		panic(fmt.Sprintf("resource: create texture: %v", err))
	}
	view, err := tex.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("resource: create texture view: %v", err))
	}

	h := NewHandle()
	r.mu.Lock()
	r.textures[h] = &textureEntry{texture: tex, view: view}
	r.infos[h] = TextureInfo{}
	r.mu.Unlock()
	return h
}

func (r *registry) CreateTextureWithData(desc *wgpu.TextureDescriptor, data []byte) Handle {
	h := r.CreateTexture(desc)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.encoder == nil {
		panic("resource: CreateTextureWithData requires an open command encoder")
	}
	entry := r.textures[h]

	bpp, ok := textureFormatTexelSize(desc.Format)
	if !ok {
		panic(fmt.Sprintf("resource: cannot stage data for texture format %v", desc.Format))
	}

	width := uint64(desc.Size.Width)
	height := uint64(desc.Size.Height)
	layers := uint64(max(desc.Size.DepthOrArrayLayers, 1))
	unpaddedRow := width * bpp
	paddedRow := common.AlignUp(unpaddedRow, copyBytesPerRowAlignment)

	staged := data
	if paddedRow != unpaddedRow {
		// Re-lay tightly packed rows at the copy alignment wgpu requires.
		rows := height * layers
		staged = make([]byte, paddedRow*rows)
		for row := uint64(0); row < rows; row++ {
			copy(staged[row*paddedRow:], data[row*unpaddedRow:(row+1)*unpaddedRow])
		}
	}

	temp, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Contents: staged,
		Usage:    wgpu.BufferUsageCopySrc,
	})
	if err != nil {
		panic(fmt.Sprintf("resource: create staging buffer: %v", err))
	}
	r.staging = append(r.staging, temp)

	err = r.encoder.CopyBufferToTexture(
		&wgpu.ImageCopyBuffer{
			Buffer: temp,
			Layout: wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  uint32(paddedRow),
				RowsPerImage: uint32(height),
			},
		},
		&wgpu.ImageCopyTexture{
			Texture:  entry.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&desc.Size,
	)
	if err != nil {
		panic(fmt.Sprintf("resource: copy staging buffer to texture: %v", err))
	}

	return h
}

func (r *registry) CreateSampler(desc *wgpu.SamplerDescriptor) Handle {
	samp, err := r.device.CreateSampler(desc)
	if err != nil {
		panic(fmt.Sprintf("resource: create sampler: %v", err))
	}

	h := NewHandle()
	r.mu.Lock()
	r.samplers[h] = samp
	r.infos[h] = SamplerInfo{}
	r.mu.Unlock()
	return h
}

func (r *registry) CopyBufferToBuffer(src Handle, srcOffset uint64, dst Handle, dstOffset uint64, size uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.encoder == nil {
		panic("resource: CopyBufferToBuffer requires an open command encoder")
	}
	srcBuf, ok := r.buffers[src]
	if !ok {
		panic(fmt.Sprintf("resource: CopyBufferToBuffer: unknown source handle %d", src))
	}
	dstBuf, ok := r.buffers[dst]
	if !ok {
		panic(fmt.Sprintf("resource: CopyBufferToBuffer: unknown destination handle %d", dst))
	}

	if err := r.encoder.CopyBufferToBuffer(srcBuf, srcOffset, dstBuf, dstOffset, size); err != nil {
		panic(fmt.Sprintf("resource: copy buffer to buffer: %v", err))
	}
}

func (r *registry) RemoveBuffer(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	buf, ok := r.buffers[h]
	if !ok {
		panic(fmt.Sprintf("resource: RemoveBuffer: unknown handle %d", h))
	}
	buf.Release()
	delete(r.buffers, h)
	delete(r.infos, h)
	delete(r.dynamic, h)
}

func (r *registry) RemoveTexture(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.textures[h]
	if !ok {
		panic(fmt.Sprintf("resource: RemoveTexture: unknown handle %d", h))
	}
	entry.view.Release()
	entry.texture.Release()
	delete(r.textures, h)
	delete(r.infos, h)
}

func (r *registry) WriteBuffer(h Handle, offset uint64, data []byte) error {
	r.mu.RLock()
	buf, ok := r.buffers[h]
	r.mu.RUnlock()
	if !ok {
		panic(fmt.Sprintf("resource: WriteBuffer: unknown handle %d", h))
	}
	return r.queue.WriteBuffer(buf, offset, data)
}

func (r *registry) WriteBuffers(writes []BufferWrite) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, w := range writes {
		buf, ok := r.buffers[w.Target]
		if !ok {
			continue
		}
		r.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (r *registry) ResourceInfo(h Handle) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.infos[h]
	return info, ok
}

func (r *registry) BufferFor(h Handle) *wgpu.Buffer {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.buffers[h]
}

func (r *registry) TextureViewFor(h Handle) *wgpu.TextureView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.textures[h]
	if !ok {
		return nil
	}
	return entry.view
}

func (r *registry) SamplerFor(h Handle) *wgpu.Sampler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.samplers[h]
}

func (r *registry) SetNamedResource(name string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.named[name] = h
}

func (r *registry) NamedResource(name string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.named[name]
	return h, ok
}

func (r *registry) SetDynamicUniformInfo(h Handle, info *DynamicUniformBufferInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dynamic[h] = info
}

func (r *registry) DynamicUniformInfo(h Handle) (*DynamicUniformBufferInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.dynamic[h]
	return info, ok
}

func (r *registry) IsDynamicUniform(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.named[name]
	if !ok {
		return false
	}
	_, ok = r.dynamic[h]
	return ok
}

func (r *registry) DynamicOffset(name string, entity EntityID) (uint32, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, ok := r.named[name]
	if !ok {
		return 0, false
	}
	info, ok := r.dynamic[h]
	if !ok {
		return 0, false
	}
	offset, ok := info.Offsets[entity]
	return uint32(offset), ok
}

func (r *registry) SetEncoder(encoder *wgpu.CommandEncoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.encoder = encoder
}

func (r *registry) Encoder() *wgpu.CommandEncoder {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.encoder
}

func (r *registry) ReleaseStagingBuffers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, buf := range r.staging {
		buf.Release()
	}
	r.staging = r.staging[:0]
}

func (r *registry) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, buf := range r.staging {
		buf.Release()
	}
	r.staging = nil
	for h, buf := range r.buffers {
		buf.Release()
		delete(r.buffers, h)
	}
	for h, entry := range r.textures {
		entry.view.Release()
		entry.texture.Release()
		delete(r.textures, h)
	}
	for h, samp := range r.samplers {
		samp.Release()
		delete(r.samplers, h)
	}
	r.infos = make(map[Handle]Info)
	r.named = make(map[string]Handle)
	r.dynamic = make(map[Handle]*DynamicUniformBufferInfo)

	graphite.Logger().Debug("released resource registry")
}

// textureFormatTexelSize returns the byte size of one texel for formats the
// staging path supports.
func textureFormatTexelSize(format wgpu.TextureFormat) (uint64, bool) {
	switch format {
	case wgpu.TextureFormatR8Unorm, wgpu.TextureFormatR8Snorm, wgpu.TextureFormatR8Uint, wgpu.TextureFormatR8Sint:
		return 1, true
	case wgpu.TextureFormatR16Float, wgpu.TextureFormatR16Uint, wgpu.TextureFormatR16Sint,
		wgpu.TextureFormatRG8Unorm, wgpu.TextureFormatRG8Snorm, wgpu.TextureFormatRG8Uint, wgpu.TextureFormatRG8Sint:
		return 2, true
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatR32Uint, wgpu.TextureFormatR32Sint,
		wgpu.TextureFormatRG16Float, wgpu.TextureFormatRG16Uint, wgpu.TextureFormatRG16Sint,
		wgpu.TextureFormatRGBA8Unorm, wgpu.TextureFormatRGBA8UnormSrgb, wgpu.TextureFormatRGBA8Snorm,
		wgpu.TextureFormatRGBA8Uint, wgpu.TextureFormatRGBA8Sint,
		wgpu.TextureFormatBGRA8Unorm, wgpu.TextureFormatBGRA8UnormSrgb,
		wgpu.TextureFormatDepth32Float:
		return 4, true
	case wgpu.TextureFormatRG32Float, wgpu.TextureFormatRG32Uint, wgpu.TextureFormatRG32Sint,
		wgpu.TextureFormatRGBA16Float, wgpu.TextureFormatRGBA16Uint, wgpu.TextureFormatRGBA16Sint:
		return 8, true
	case wgpu.TextureFormatRGBA32Float, wgpu.TextureFormatRGBA32Uint, wgpu.TextureFormatRGBA32Sint:
		return 16, true
	default:
		return 0, false
	}
}
