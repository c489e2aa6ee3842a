package renderer

import (
	"fmt"
	"runtime"
	"time"

	graphite "github.com/Carmen-Shannon/graphite-go"
	"github.com/Carmen-Shannon/graphite-go/render/cache"
	"github.com/Carmen-Shannon/graphite-go/render/graph"
	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// acquireRetryLimit bounds how many times AcquireRetry re-attempts frame
// acquisition before surfacing the error.
const acquireRetryLimit = 3

// acquireRetryBackoff is the base delay between acquisition retries; attempt n
// waits n times this long.
const acquireRetryBackoff = 2 * time.Millisecond

// builtPipeline is one realized pipeline: the GPU object, the resolved layout
// it was built from, and the structural hash of each bind group in group
// order. The hashes key both the layout and bind group caches.
type builtPipeline struct {
	pipeline  *wgpu.RenderPipeline
	layout    *pipeline.PipelineLayout
	groupKeys []uint64
}

type wgpuRendererBackendImpl struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	registry resource.Registry

	// One cache per GPU object class, all owned here: pipelines by descriptor
	// key, bind group layouts and bind groups by structural hash.
	pipelines  *cache.Cache[string, *builtPipeline]
	layouts    *cache.Cache[uint64, *wgpu.BindGroupLayout]
	bindGroups *cache.Cache[uint64, *BindGroupInfo]

	colorFormat   wgpu.TextureFormat
	depthFormat   wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount
	acquirePolicy AcquirePolicy

	surfaceWidth  uint32
	surfaceHeight uint32

	msaaTexture *wgpu.Texture
	msaaView    *wgpu.TextureView

	// encoder is the one command encoder open for the current phase
	// (initialize, resize, or frame). Opening a second one is a logic error.
	encoder *wgpu.CommandEncoder

	// Frame state between acquisition and Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

type wgpuRendererBackend interface {
	Device() *wgpu.Device
	Queue() *wgpu.Queue
	Instance() *wgpu.Instance
	Adapter() *wgpu.Adapter
	Surface() *wgpu.Surface

	// Registry returns the resource registry owned by this backend. All
	// resources the executor realizes live here.
	//
	// Returns:
	//   - resource.Registry: the backend's registry
	Registry() resource.Registry

	// ConfigureSurface reconfigures the presentation surface at the given
	// extents and rebuilds the swap-chain-sized textures (the MSAA color
	// target when multisampling is on). Without a surface only the tracked
	// extents and MSAA target change.
	//
	// Parameters:
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	ConfigureSurface(width, height uint32)

	// SurfaceExtents returns the extents the surface was last configured at.
	//
	// Returns:
	//   - uint32: the configured width in pixels
	//   - uint32: the configured height in pixels
	SurfaceExtents() (uint32, uint32)

	// SetPresentMode sets the surface present mode which controls how frames are delivered
	// to the display. A call to ConfigureSurface is required for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// InitializeResourceProviders opens the initialization command encoder,
	// invokes every resource provider's Initialize hook in registration order,
	// and submits the one command buffer.
	//
	// Parameters:
	//   - g: the render graph whose providers to initialize
	InitializeResourceProviders(g graph.RenderGraph)

	// Resize opens a fresh command encoder, reconfigures the surface at the
	// new extents, invokes every resource provider's Resize hook in
	// registration order, and submits.
	//
	// Parameters:
	//   - g: the render graph whose providers to notify
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(g graph.RenderGraph, width, height uint32)

	// ProcessRenderGraph executes one frame: opens the frame encoder, runs
	// provider Update hooks and shader-assignment hooks, realizes queued
	// textures, acquires the presentation frame, builds every referenced
	// pipeline and its bind groups, iterates the declared passes invoking
	// draw targets, and finishes and submits the single command buffer.
	//
	// Parameters:
	//   - g: the render graph to execute
	//
	// Returns:
	//   - error: ErrFrameSkipped under AcquireSkip, or the first fatal error
	ProcessRenderGraph(g graph.RenderGraph) error

	// Present presents the acquired frame to the display and releases it.
	// Must be called once per successful ProcessRenderGraph.
	Present()

	// EnsurePipeline lazily builds and caches the GPU pipeline for a
	// descriptor. On a cache hit the cached object is returned unchanged;
	// descriptor edits after the first build are ignored.
	//
	// Parameters:
	//   - desc: the pipeline descriptor to realize
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the cached or newly built pipeline
	//   - error: an error if layout resolution or pipeline creation fails
	EnsurePipeline(desc pipeline.Descriptor) (*wgpu.RenderPipeline, error)

	// SetupBindGroup lazily builds and caches the GPU bind group for a bind
	// group descriptor, auto-allocating placeholder buffers for unresolved
	// uniform bindings.
	//
	// Parameters:
	//   - desc: the bind group descriptor to realize
	//
	// Returns:
	//   - uint64: the structural hash keying the cached bind group
	//   - error: an UnsupportedBindTypeError or resource resolution error
	SetupBindGroup(desc pipeline.BindGroupDescriptor) (uint64, error)

	// BindGroupInfoFor retrieves a cached bind group by its structural hash.
	//
	// Parameters:
	//   - key: the structural hash returned by SetupBindGroup
	//
	// Returns:
	//   - *BindGroupInfo: the cached bind group and its diagnostics
	//   - bool: true if the key is cached
	BindGroupInfoFor(key uint64) (*BindGroupInfo, bool)

	// Release frees every cached GPU object, the registry, and the device
	// resources. The backend is unusable afterwards.
	Release()
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(cfg backendConfig) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		instance:      wgpu.CreateInstance(nil),
		pipelines:     cache.New[string, *builtPipeline](),
		layouts:       cache.New[uint64, *wgpu.BindGroupLayout](),
		bindGroups:    cache.New[uint64, *BindGroupInfo](),
		colorFormat:   cfg.colorFormat,
		depthFormat:   cfg.depthFormat,
		presentMode:   wgpu.PresentModeFifo,
		sampleCount:   cfg.sampleCount,
		acquirePolicy: cfg.acquirePolicy,
		surfaceWidth:  cfg.width,
		surfaceHeight: cfg.height,
	}
	if cfg.presentMode == PresentModeUncapped {
		b.presentMode = wgpu.PresentModeImmediate
	}

	if cfg.surfaceDescriptor != nil {
		b.surface = b.instance.CreateSurface(cfg.surfaceDescriptor)
	}

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: request adapter: %v", err))
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: request device: %v", err))
	}
	b.device = device
	b.queue = device.GetQueue()
	b.registry = resource.NewRegistry(b.device, b.queue)

	graphite.Logger().Info("acquired wgpu device",
		"surface", b.surface != nil,
		"samples", uint32(b.sampleCount))

	return b
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device     { return b.device }
func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue       { return b.queue }
func (b *wgpuRendererBackendImpl) Instance() *wgpu.Instance { return b.instance }
func (b *wgpuRendererBackendImpl) Adapter() *wgpu.Adapter   { return b.adapter }
func (b *wgpuRendererBackendImpl) Surface() *wgpu.Surface   { return b.surface }

func (b *wgpuRendererBackendImpl) Registry() resource.Registry { return b.registry }

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height uint32) {
	b.surfaceWidth = width
	b.surfaceHeight = height

	if b.surface != nil {
		capabilities := b.surface.GetCapabilities(b.adapter)
		b.colorFormat = capabilities.Formats[0]

		b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
			Usage:       wgpu.TextureUsageRenderAttachment,
			Format:      b.colorFormat,
			Width:       width,
			Height:      height,
			PresentMode: b.presentMode,
			AlphaMode:   capabilities.AlphaModes[0],
		})
	}

	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaTexture.Release()
		b.msaaView = nil
		b.msaaTexture = nil
	}

	if b.sampleCount > 1 && width > 0 && height > 0 {
		// The multisampled color target the passes draw into; each frame's
		// resolved result lands in the swap-chain view as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              width,
				Height:             height,
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   uint32(b.sampleCount),
			Dimension:     wgpu.TextureDimension2D,
			Format:        b.colorFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(fmt.Sprintf("renderer: create MSAA texture: %v", err))
		}
		view, err := msaaTexture.CreateView(nil)
		if err != nil {
			panic(fmt.Sprintf("renderer: create MSAA texture view: %v", err))
		}
		b.msaaTexture = msaaTexture
		b.msaaView = view
	}

	graphite.Logger().Info("configured surface",
		"width", width,
		"height", height,
		"format", b.colorFormat)
}

func (b *wgpuRendererBackendImpl) SurfaceExtents() (uint32, uint32) {
	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	switch mode {
	case PresentModeUncapped:
		b.presentMode = wgpu.PresentModeImmediate
	case PresentModeVSync:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeFifo
	}
}

// beginEncoder opens the phase's command encoder and installs it on the
// registry so resource creation can record copy commands. One encoder is open
// at a time; a second open is a logic error.
func (b *wgpuRendererBackendImpl) beginEncoder() *wgpu.CommandEncoder {
	if b.encoder != nil {
		panic("renderer: command encoder already open for this phase")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: create command encoder: %v", err))
	}
	b.encoder = encoder
	b.registry.SetEncoder(encoder)
	return encoder
}

// submitEncoder finishes the open encoder, submits the single command buffer
// for the phase, and releases the copy-source staging buffers it referenced.
func (b *wgpuRendererBackendImpl) submitEncoder() {
	if b.encoder == nil {
		panic("renderer: no command encoder open for this phase")
	}
	encoder := b.encoder
	b.encoder = nil
	b.registry.SetEncoder(nil)

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		b.registry.ReleaseStagingBuffers()
		panic(fmt.Sprintf("renderer: finish command encoder: %v", err))
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	b.registry.ReleaseStagingBuffers()
}

// discardEncoder abandons the open encoder without submitting, used when a
// frame aborts mid-recording.
func (b *wgpuRendererBackendImpl) discardEncoder() {
	if b.encoder == nil {
		return
	}
	b.encoder.Release()
	b.encoder = nil
	b.registry.SetEncoder(nil)
	b.registry.ReleaseStagingBuffers()
}

func (b *wgpuRendererBackendImpl) InitializeResourceProviders(g graph.RenderGraph) {
	b.beginEncoder()
	for _, provider := range g.ResourceProviders() {
		provider.Initialize(b.registry)
	}
	b.submitEncoder()
}

func (b *wgpuRendererBackendImpl) Resize(g graph.RenderGraph, width, height uint32) {
	b.beginEncoder()
	b.ConfigureSurface(width, height)
	for _, provider := range g.ResourceProviders() {
		provider.Resize(b.registry, width, height)
	}
	b.submitEncoder()
}

func (b *wgpuRendererBackendImpl) ProcessRenderGraph(g graph.RenderGraph) error {
	encoder := b.beginEncoder()

	for _, provider := range g.ResourceProviders() {
		provider.Update(b.registry)
	}
	for _, hook := range g.ShaderAssignmentHooks() {
		hook(g)
	}

	for _, queued := range g.TakeQueuedTextures() {
		var h resource.Handle
		if queued.Data.Specified {
			h = b.registry.CreateTextureWithData(queued.Descriptor, queued.Data.Value)
		} else {
			h = b.registry.CreateTexture(queued.Descriptor)
		}
		b.registry.SetNamedResource(queued.Name, h)
	}

	if err := b.acquireFrame(); err != nil {
		b.discardEncoder()
		return err
	}

	for _, desc := range g.Pipelines() {
		built, err := b.ensurePipeline(desc)
		if err != nil {
			b.abortFrame()
			return err
		}
		for _, bg := range built.layout.BindGroups {
			if _, err := b.SetupBindGroup(bg); err != nil {
				b.abortFrame()
				return fmt.Errorf("renderer: set up bind groups for pipeline %q: %w", desc.Key(), err)
			}
		}
	}

	for _, passDesc := range g.Passes() {
		rpDesc, err := b.renderPassDescriptor(passDesc)
		if err != nil {
			b.abortFrame()
			return err
		}

		pass := encoder.BeginRenderPass(rpDesc)
		for _, desc := range g.PipelinesForPass(passDesc.Name) {
			built, ok := b.pipelines.Get(desc.Key())
			if !ok {
				// Every graph pipeline was built above; a miss here means the
				// pipeline was assigned to the pass but never to the graph.
				pass.End()
				b.abortFrame()
				return fmt.Errorf("renderer: pass %q references unbuilt pipeline %q", passDesc.Name, desc.Key())
			}
			pass.SetPipeline(built.pipeline)

			active := &wgpuRenderPass{pass: pass, backend: b, bound: built}
			for _, targetName := range desc.DrawTargets() {
				target, ok := g.DrawTarget(targetName)
				if !ok {
					graphite.Logger().Warn("pipeline references unregistered draw target",
						"pipeline", desc.Key(),
						"target", targetName)
					continue
				}
				if err := target(active, desc.Key()); err != nil {
					pass.End()
					b.abortFrame()
					return fmt.Errorf("renderer: draw target %q for pipeline %q: %w", targetName, desc.Key(), err)
				}
			}
		}
		pass.End()
	}

	b.submitEncoder()
	return nil
}

// abortFrame abandons the open encoder and the acquired presentation frame.
func (b *wgpuRendererBackendImpl) abortFrame() {
	b.discardEncoder()
	b.releaseFrame()
}

// acquireFrame acquires the next presentation image per the configured policy.
// Without a surface this is a no-op and swap-chain attachment references fail
// at resolution instead.
func (b *wgpuRendererBackendImpl) acquireFrame() error {
	if b.surface == nil {
		return nil
	}
	if b.frameSurface != nil {
		panic("renderer: previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		switch b.acquirePolicy {
		case AcquireSkip:
			graphite.Logger().Warn("skipping frame, presentation surface unavailable", "err", err)
			return ErrFrameSkipped
		case AcquireRetry:
			for attempt := 1; attempt <= acquireRetryLimit && err != nil; attempt++ {
				time.Sleep(time.Duration(attempt) * acquireRetryBackoff)
				graphite.Logger().Warn("retrying presentation frame acquisition",
					"attempt", attempt,
					"err", err)
				surfaceTexture, err = b.surface.GetCurrentTexture()
			}
			if err != nil {
				return fmt.Errorf("renderer: acquire presentation frame: %w", err)
			}
		default:
			return fmt.Errorf("renderer: acquire presentation frame: %w", err)
		}
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("renderer: create presentation frame view: %w", err)
	}
	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

// releaseFrame drops the acquired presentation image without presenting it.
func (b *wgpuRendererBackendImpl) releaseFrame() {
	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	if b.frameSurface != nil {
		b.frameSurface.Release()
		b.frameSurface = nil
	}
}

func (b *wgpuRendererBackendImpl) Present() {
	if b.frameSurface == nil {
		return
	}
	b.surface.Present()
	b.releaseFrame()
}

// renderPassDescriptor realizes a pass descriptor's named attachments into a
// wgpu render pass descriptor. "swap_chain" resolves to the acquired
// presentation view (through the MSAA target when multisampling); every other
// name resolves through the registry.
func (b *wgpuRendererBackendImpl) renderPassDescriptor(passDesc graph.PassDescriptor) (*wgpu.RenderPassDescriptor, error) {
	colorAttachments := make([]wgpu.RenderPassColorAttachment, 0, len(passDesc.ColorAttachments))
	for _, att := range passDesc.ColorAttachments {
		view, err := b.resolveAttachment(passDesc.Name, att.Name)
		if err != nil {
			return nil, err
		}

		clear := wgpu.Color{R: 0, G: 0, B: 0, A: 1}
		if att.ClearColor.Specified {
			clear = att.ClearColor.Value
		}
		attachment := wgpu.RenderPassColorAttachment{
			View:       view,
			LoadOp:     att.LoadOp,
			StoreOp:    att.StoreOp,
			ClearValue: clear,
		}
		if att.Name == graph.SwapChainAttachment && b.sampleCount > 1 {
			// Draw into the MSAA target and resolve into the swap chain; the
			// multisampled contents have no use after the resolve.
			attachment.View = b.msaaView
			attachment.ResolveTarget = view
			attachment.StoreOp = wgpu.StoreOpDiscard
		}
		colorAttachments = append(colorAttachments, attachment)
	}

	rpDesc := &wgpu.RenderPassDescriptor{
		Label:            passDesc.Name,
		ColorAttachments: colorAttachments,
	}

	if passDesc.DepthStencil.Specified {
		depth := passDesc.DepthStencil.Value
		view, err := b.resolveAttachment(passDesc.Name, depth.Name)
		if err != nil {
			return nil, err
		}
		rpDesc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            view,
			DepthLoadOp:     depth.DepthLoadOp,
			DepthStoreOp:    depth.DepthStoreOp,
			DepthClearValue: depth.ClearDepth,
		}
	}

	return rpDesc, nil
}

// resolveAttachment maps an attachment name to a texture view.
func (b *wgpuRendererBackendImpl) resolveAttachment(passName, name string) (*wgpu.TextureView, error) {
	if name == graph.SwapChainAttachment {
		if b.frameView == nil {
			return nil, MissingAttachmentError{Pass: passName, Attachment: name}
		}
		return b.frameView, nil
	}

	h, ok := b.registry.NamedResource(name)
	if !ok {
		return nil, MissingAttachmentError{Pass: passName, Attachment: name}
	}
	view := b.registry.TextureViewFor(h)
	if view == nil {
		return nil, MissingAttachmentError{Pass: passName, Attachment: name}
	}
	return view, nil
}

func (b *wgpuRendererBackendImpl) EnsurePipeline(desc pipeline.Descriptor) (*wgpu.RenderPipeline, error) {
	built, err := b.ensurePipeline(desc)
	if err != nil {
		return nil, err
	}
	return built.pipeline, nil
}

func (b *wgpuRendererBackendImpl) ensurePipeline(desc pipeline.Descriptor) (*builtPipeline, error) {
	return b.pipelines.GetOrCreate(desc.Key(), func() (*builtPipeline, error) {
		return b.buildPipeline(desc)
	})
}

func (b *wgpuRendererBackendImpl) buildPipeline(desc pipeline.Descriptor) (*builtPipeline, error) {
	layout, err := desc.ResolveLayout(b.registry)
	if err != nil {
		return nil, err
	}

	vertexVariant, err := desc.VertexShader().Variant(desc.ShaderDefines()...)
	if err != nil {
		return nil, err
	}
	vs, err := b.device.CreateShaderModule(vertexVariant.Module())
	if err != nil {
		return nil, fmt.Errorf("renderer: create vertex shader module for %q: %w", desc.Key(), err)
	}

	groupKeys := make([]uint64, 0, len(layout.BindGroups))
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, 0, len(layout.BindGroups))
	for _, bg := range layout.BindGroups {
		key := bg.Hash()
		layoutObj, err := b.layouts.GetOrCreate(key, func() (*wgpu.BindGroupLayout, error) {
			return b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
				Label:   fmt.Sprintf("%s Group %d", desc.Key(), bg.Index),
				Entries: bindGroupLayoutEntries(bg),
			})
		})
		if err != nil {
			return nil, fmt.Errorf("renderer: create bind group layout %d for %q: %w", bg.Index, desc.Key(), err)
		}
		groupKeys = append(groupKeys, key)
		bindGroupLayouts = append(bindGroupLayouts, layoutObj)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Key(),
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: create pipeline layout for %q: %w", desc.Key(), err)
	}

	descriptor := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Key() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexVariant.EntryPoint(),
			Buffers:    vertexVariant.VertexLayouts(),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  desc.Topology(),
			FrontFace: desc.FrontFace(),
			CullMode:  desc.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(b.sampleCount),
			Mask:  0xFFFFFFFF,
		},
	}

	if fragment := desc.FragmentShader(); fragment.Specified {
		fragmentVariant, err := fragment.Value.Variant(desc.ShaderDefines()...)
		if err != nil {
			return nil, err
		}
		fs, err := b.device.CreateShaderModule(fragmentVariant.Module())
		if err != nil {
			return nil, fmt.Errorf("renderer: create fragment shader module for %q: %w", desc.Key(), err)
		}

		target := wgpu.ColorTargetState{
			Format:    b.colorFormat,
			WriteMask: desc.WriteMask(),
		}
		if desc.BlendEnabled() {
			target.Blend = desc.BlendState()
		}
		descriptor.Fragment = &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentVariant.EntryPoint(),
			Targets:    []wgpu.ColorTargetState{target},
		}
	}

	// Pipelines bound in passes without a depth attachment must disable both
	// depth test and depth write.
	if desc.DepthTestEnabled() || desc.DepthWriteEnabled() {
		depthCompare := wgpu.CompareFunctionLess
		if !desc.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		descriptor.DepthStencil = &wgpu.DepthStencilState{
			Format:              b.depthFormat,
			DepthWriteEnabled:   desc.DepthWriteEnabled(),
			DepthCompare:        depthCompare,
			DepthBias:           desc.DepthBias(),
			DepthBiasSlopeScale: desc.DepthBiasSlopeScale(),
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(descriptor)
	if err != nil {
		return nil, fmt.Errorf("renderer: create render pipeline %q: %w", desc.Key(), err)
	}

	graphite.Logger().Debug("built render pipeline",
		"pipeline", desc.Key(),
		"bindGroups", len(layout.BindGroups))

	return &builtPipeline{
		pipeline:  created,
		layout:    layout,
		groupKeys: groupKeys,
	}, nil
}

func (b *wgpuRendererBackendImpl) SetupBindGroup(desc pipeline.BindGroupDescriptor) (uint64, error) {
	key := desc.Hash()
	_, err := b.bindGroups.GetOrCreate(key, func() (*BindGroupInfo, error) {
		return b.buildBindGroup(key, desc)
	})
	return key, err
}

func (b *wgpuRendererBackendImpl) buildBindGroup(key uint64, desc pipeline.BindGroupDescriptor) (*BindGroupInfo, error) {
	layoutObj, err := b.layouts.GetOrCreate(key, func() (*wgpu.BindGroupLayout, error) {
		return b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
			Label:   fmt.Sprintf("Group %d", desc.Index),
			Entries: bindGroupLayoutEntries(desc),
		})
	})
	if err != nil {
		return nil, err
	}

	entries := make([]wgpu.BindGroupEntry, 0, len(desc.Bindings))
	var unset []string
	for _, binding := range desc.Bindings {
		h, ok := b.registry.NamedResource(binding.Name)
		if !ok {
			if binding.Type.Kind != pipeline.BindKindUniform {
				return nil, UnsupportedBindTypeError{Binding: binding.Name, Kind: binding.Type.Kind}
			}
			// Let rendering proceed with zeroed defaults while surfacing the
			// gap; the binding stays usable once the application writes real
			// data under this name.
			h = b.registry.CreateBuffer(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, binding.Type.Size)
			b.registry.SetNamedResource(binding.Name, h)
			unset = append(unset, binding.Name)
			graphite.Logger().Warn("auto-allocated placeholder uniform buffer",
				"binding", binding.Name,
				"size", binding.Type.Size)
		}

		switch binding.Type.Kind {
		case pipeline.BindKindUniform:
			buf := b.registry.BufferFor(h)
			if buf == nil {
				return nil, resource.MissingResourceError{Name: binding.Name}
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: binding.Index,
				Buffer:  buf,
				Offset:  0,
				Size:    binding.Type.Size,
			})
		case pipeline.BindKindBuffer:
			buf := b.registry.BufferFor(h)
			if buf == nil {
				return nil, resource.MissingResourceError{Name: binding.Name}
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: binding.Index,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			})
		case pipeline.BindKindSampledTexture, pipeline.BindKindStorageTexture:
			view := b.registry.TextureViewFor(h)
			if view == nil {
				return nil, resource.MissingResourceError{Name: binding.Name}
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding:     binding.Index,
				TextureView: view,
			})
		case pipeline.BindKindSampler:
			samp := b.registry.SamplerFor(h)
			if samp == nil {
				return nil, resource.MissingResourceError{Name: binding.Name}
			}
			entries = append(entries, wgpu.BindGroupEntry{
				Binding: binding.Index,
				Sampler: samp,
			})
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   fmt.Sprintf("Group %d Bind Group", desc.Index),
		Layout:  layoutObj,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("renderer: create bind group %d: %w", desc.Index, err)
	}

	graphite.Logger().Debug("built bind group",
		"group", desc.Index,
		"bindings", len(desc.Bindings),
		"unsetUniforms", len(unset))

	return &BindGroupInfo{BindGroup: bindGroup, UnsetUniforms: unset}, nil
}

func (b *wgpuRendererBackendImpl) BindGroupInfoFor(key uint64) (*BindGroupInfo, bool) {
	return b.bindGroups.Get(key)
}

func (b *wgpuRendererBackendImpl) Release() {
	b.discardEncoder()
	b.releaseFrame()

	b.bindGroups.Range(func(key uint64, info *BindGroupInfo) bool {
		info.BindGroup.Release()
		b.bindGroups.Remove(key)
		return true
	})
	b.pipelines.Range(func(key string, built *builtPipeline) bool {
		built.pipeline.Release()
		b.pipelines.Remove(key)
		return true
	})
	b.layouts.Range(func(key uint64, layout *wgpu.BindGroupLayout) bool {
		layout.Release()
		b.layouts.Remove(key)
		return true
	})

	if b.msaaView != nil {
		b.msaaView.Release()
		b.msaaTexture.Release()
		b.msaaView = nil
		b.msaaTexture = nil
	}
	b.registry.Release()
	b.device.Release()
	if b.surface != nil {
		b.surface.Release()
	}
	b.adapter.Release()
	b.instance.Release()
}

// bindGroupLayoutEntries converts a bind group descriptor into wgpu layout
// entries. Every entry is visible to both the vertex and fragment stages; the
// merged layout does not track per-stage usage.
func bindGroupLayoutEntries(desc pipeline.BindGroupDescriptor) []wgpu.BindGroupLayoutEntry {
	entries := make([]wgpu.BindGroupLayoutEntry, 0, len(desc.Bindings))
	for _, binding := range desc.Bindings {
		entry := wgpu.BindGroupLayoutEntry{
			Binding:    binding.Index,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
		}
		switch binding.Type.Kind {
		case pipeline.BindKindUniform:
			entry.Buffer = wgpu.BufferBindingLayout{
				Type:             wgpu.BufferBindingTypeUniform,
				HasDynamicOffset: binding.Type.Dynamic,
				MinBindingSize:   binding.Type.Size,
			}
		case pipeline.BindKindBuffer:
			bufferType := wgpu.BufferBindingTypeStorage
			if binding.Type.ReadOnly {
				bufferType = wgpu.BufferBindingTypeReadOnlyStorage
			}
			entry.Buffer = wgpu.BufferBindingLayout{
				Type:             bufferType,
				HasDynamicOffset: binding.Type.Dynamic,
			}
		case pipeline.BindKindSampledTexture:
			entry.Texture = wgpu.TextureBindingLayout{
				SampleType:    binding.Type.SampleType,
				ViewDimension: binding.Type.Dimension,
				Multisampled:  binding.Type.Multisampled,
			}
		case pipeline.BindKindSampler:
			samplerType := wgpu.SamplerBindingTypeFiltering
			if binding.Type.Comparison {
				samplerType = wgpu.SamplerBindingTypeComparison
			}
			entry.Sampler = wgpu.SamplerBindingLayout{Type: samplerType}
		case pipeline.BindKindStorageTexture:
			entry.StorageTexture = wgpu.StorageTextureBindingLayout{
				Access:        binding.Type.Access,
				Format:        binding.Type.Format,
				ViewDimension: binding.Type.Dimension,
			}
		}
		entries = append(entries, entry)
	}
	return entries
}
