package renderer

import (
	"github.com/Carmen-Shannon/graphite-go/render/graph"
	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	backendType RendererBackendType
	backend     RendererBackend

	initialized bool
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to execute a declarative render graph.
// Callers describe passes, pipelines, and draw targets on a graph.RenderGraph;
// the Renderer owns the GPU device, the resource registry, and the pipeline and
// bind-group caches, and turns the graph into submitted GPU work one frame at a
// time. The Renderer also implements a backend which allows for multiple
// backend API implementations to exist.
type Renderer interface {
	// Initialize prepares the renderer for a graph: it runs every resource
	// provider's Initialize hook inside a dedicated command submission, then
	// performs an initial resize at the current surface extents so providers
	// create their size-dependent resources. Must be called once before the
	// first ProcessRenderGraph.
	//
	// Parameters:
	//   - g: the render graph to initialize against
	Initialize(g graph.RenderGraph)

	// Resize reconfigures the presentation surface to new extents and runs
	// every resource provider's Resize hook inside a dedicated command
	// submission.
	//
	// Parameters:
	//   - g: the render graph whose providers to notify
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(g graph.RenderGraph, width, height uint32)

	// ProcessRenderGraph executes one frame of the graph: provider updates,
	// shader-assignment hooks, queued texture realization, frame acquisition,
	// lazy pipeline and bind-group construction, and pass iteration, all
	// recorded into one command buffer and submitted. Call Present afterwards
	// to display the frame.
	//
	// Parameters:
	//   - g: the render graph to execute
	//
	// Returns:
	//   - error: ErrFrameSkipped when the acquire policy skipped the frame, or
	//     the first fatal error encountered
	ProcessRenderGraph(g graph.RenderGraph) error

	// Present presents the rendered frame to the display and releases the
	// swapchain texture. Must be called once per successful ProcessRenderGraph.
	Present()

	// SetPresentMode sets the surface present mode which controls how frames are delivered
	// to the display. A call to Resize is required after changing this for the new mode to
	// take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// EnsurePipeline builds and caches the GPU pipeline for a descriptor
	// without executing a frame, useful for warming the cache up front.
	//
	// Parameters:
	//   - desc: the pipeline descriptor to realize
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the cached or newly built pipeline
	//   - error: an error if layout resolution or pipeline creation fails
	EnsurePipeline(desc pipeline.Descriptor) (*wgpu.RenderPipeline, error)

	// Registry returns the resource registry owned by the renderer's backend.
	//
	// Returns:
	//   - resource.Registry: the registry holding every tracked GPU resource
	Registry() resource.Registry

	// Release frees every GPU object owned by the renderer. The renderer is
	// unusable afterwards.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type.
// Without WithSurface the renderer runs headless: frames execute against
// registry textures only and any "swap_chain" attachment reference fails.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	cfg := backendConfig{
		colorFormat:   wgpu.TextureFormatBGRA8Unorm,
		depthFormat:   wgpu.TextureFormatDepth24Plus,
		sampleCount:   MSAAOff,
		presentMode:   PresentModeVSync,
		acquirePolicy: AcquireFatal,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	r := &renderer{backendType: backendType}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(cfg)
	}

	return r
}

func (r *renderer) Initialize(g graph.RenderGraph) {
	if r.initialized {
		panic("renderer: already initialized")
	}
	r.backend.InitializeResourceProviders(g)

	width, height := r.backend.SurfaceExtents()
	r.backend.Resize(g, width, height)
	r.initialized = true
}

func (r *renderer) Resize(g graph.RenderGraph, width, height uint32) {
	r.backend.Resize(g, width, height)
}

func (r *renderer) ProcessRenderGraph(g graph.RenderGraph) error {
	if !r.initialized {
		panic("renderer: ProcessRenderGraph called before Initialize")
	}
	return r.backend.ProcessRenderGraph(g)
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) EnsurePipeline(desc pipeline.Descriptor) (*wgpu.RenderPipeline, error) {
	return r.backend.EnsurePipeline(desc)
}

func (r *renderer) Registry() resource.Registry {
	return r.backend.Registry()
}

func (r *renderer) Release() {
	r.backend.Release()
}
