package graph

import (
	"sync"

	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
)

// QueuedTexture is a texture creation request waiting to be realized into a
// registry handle under its declared name at the start of a frame.
type QueuedTexture struct {
	// Name is the registry name the realized texture is bound under.
	Name string
	// Descriptor describes the texture to create.
	Descriptor *wgpu.TextureDescriptor
	// Data is the optional initial payload, staged through the frame encoder.
	Data opt.T[[]byte]
}

// ShaderAssignmentHook runs at the start of every frame, before pipelines are
// built, letting an external material or entity system adjust pipeline-to-pass
// assignments and queue resources for the coming frame.
type ShaderAssignmentHook func(g RenderGraph)

// renderGraph is the implementation of the RenderGraph interface.
type renderGraph struct {
	mu *sync.Mutex

	passes        []PassDescriptor
	pipelines     []pipeline.Descriptor
	passPipelines map[string][]pipeline.Descriptor

	queuedTextures []QueuedTexture
	providers      []ResourceProvider
	drawTargets    map[string]DrawTarget
	hooks          []ShaderAssignmentHook
}

// RenderGraph is the declarative description the frame executor consumes:
// ordered passes, pipeline-to-pass assignments, queued texture requests,
// resource providers, draw targets, and shader-assignment hooks. A graph is
// authored up front and then owned by the render thread; hooks may keep
// mutating it between frames.
type RenderGraph interface {
	// AddPass appends a pass to the graph. Passes execute in the order they
	// were added.
	//
	// Parameters:
	//   - desc: the pass descriptor to append
	AddPass(desc PassDescriptor)

	// Passes returns the declared passes in execution order.
	//
	// Returns:
	//   - []PassDescriptor: the declared passes
	Passes() []PassDescriptor

	// AddPipeline assigns a pipeline to a pass. A pipeline may be assigned to
	// several passes; it is built once regardless.
	//
	// Parameters:
	//   - passName: the name of the pass the pipeline renders in
	//   - desc: the pipeline descriptor
	AddPipeline(passName string, desc pipeline.Descriptor)

	// Pipelines returns every pipeline referenced by the graph, in first
	// registration order with duplicates removed by key.
	//
	// Returns:
	//   - []pipeline.Descriptor: the referenced pipelines
	Pipelines() []pipeline.Descriptor

	// PipelinesForPass returns the pipelines assigned to a pass, in
	// assignment order.
	//
	// Parameters:
	//   - passName: the pass name to look up
	//
	// Returns:
	//   - []pipeline.Descriptor: the pipelines assigned to the pass
	PipelinesForPass(passName string) []pipeline.Descriptor

	// QueueTexture queues a texture for realization at the start of the next
	// frame. The realized texture is registered under the given name.
	//
	// Parameters:
	//   - name: the registry name to bind the texture under
	//   - desc: the texture descriptor
	//   - data: the optional initial payload
	QueueTexture(name string, desc *wgpu.TextureDescriptor, data opt.T[[]byte])

	// TakeQueuedTextures drains and returns the queued texture requests, so
	// each request is realized exactly once.
	//
	// Returns:
	//   - []QueuedTexture: the drained requests
	TakeQueuedTextures() []QueuedTexture

	// AddResourceProvider registers a resource provider. Providers are
	// invoked in registration order each phase.
	//
	// Parameters:
	//   - p: the provider to register
	AddResourceProvider(p ResourceProvider)

	// ResourceProviders returns the registered providers in registration
	// order.
	//
	// Returns:
	//   - []ResourceProvider: the registered providers
	ResourceProviders() []ResourceProvider

	// SetDrawTarget registers a draw target under a name, replacing any
	// previous registration of that name.
	//
	// Parameters:
	//   - name: the name pipeline descriptors reference the target by
	//   - target: the draw callback
	SetDrawTarget(name string, target DrawTarget)

	// DrawTarget looks up a registered draw target by name.
	//
	// Parameters:
	//   - name: the target name to look up
	//
	// Returns:
	//   - DrawTarget: the registered callback
	//   - bool: false when no target is registered under the name
	DrawTarget(name string) (DrawTarget, bool)

	// AddShaderAssignmentHook registers a hook run at the start of every
	// frame before pipelines are built.
	//
	// Parameters:
	//   - hook: the hook to register
	AddShaderAssignmentHook(hook ShaderAssignmentHook)

	// ShaderAssignmentHooks returns the registered hooks in registration
	// order.
	//
	// Returns:
	//   - []ShaderAssignmentHook: the registered hooks
	ShaderAssignmentHooks() []ShaderAssignmentHook
}

var _ RenderGraph = &renderGraph{}

// NewRenderGraph creates an empty render graph.
//
// Returns:
//   - RenderGraph: a new graph with no passes, pipelines, or providers
func NewRenderGraph() RenderGraph {
	return &renderGraph{
		mu:            &sync.Mutex{},
		passPipelines: make(map[string][]pipeline.Descriptor),
		drawTargets:   make(map[string]DrawTarget),
	}
}

func (g *renderGraph) AddPass(desc PassDescriptor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.passes = append(g.passes, desc)
}

func (g *renderGraph) Passes() []PassDescriptor {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]PassDescriptor, len(g.passes))
	copy(out, g.passes)
	return out
}

func (g *renderGraph) AddPipeline(passName string, desc pipeline.Descriptor) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.passPipelines[passName] = append(g.passPipelines[passName], desc)
	for _, existing := range g.pipelines {
		if existing.Key() == desc.Key() {
			return
		}
	}
	g.pipelines = append(g.pipelines, desc)
}

func (g *renderGraph) Pipelines() []pipeline.Descriptor {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]pipeline.Descriptor, len(g.pipelines))
	copy(out, g.pipelines)
	return out
}

func (g *renderGraph) PipelinesForPass(passName string) []pipeline.Descriptor {
	g.mu.Lock()
	defer g.mu.Unlock()
	assigned := g.passPipelines[passName]
	out := make([]pipeline.Descriptor, len(assigned))
	copy(out, assigned)
	return out
}

func (g *renderGraph) QueueTexture(name string, desc *wgpu.TextureDescriptor, data opt.T[[]byte]) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queuedTextures = append(g.queuedTextures, QueuedTexture{
		Name:       name,
		Descriptor: desc,
		Data:       data,
	})
}

func (g *renderGraph) TakeQueuedTextures() []QueuedTexture {
	g.mu.Lock()
	defer g.mu.Unlock()
	taken := g.queuedTextures
	g.queuedTextures = nil
	return taken
}

func (g *renderGraph) AddResourceProvider(p ResourceProvider) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers = append(g.providers, p)
}

func (g *renderGraph) ResourceProviders() []ResourceProvider {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ResourceProvider, len(g.providers))
	copy(out, g.providers)
	return out
}

func (g *renderGraph) SetDrawTarget(name string, target DrawTarget) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.drawTargets[name] = target
}

func (g *renderGraph) DrawTarget(name string) (DrawTarget, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	target, ok := g.drawTargets[name]
	return target, ok
}

func (g *renderGraph) AddShaderAssignmentHook(hook ShaderAssignmentHook) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.hooks = append(g.hooks, hook)
}

func (g *renderGraph) ShaderAssignmentHooks() []ShaderAssignmentHook {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]ShaderAssignmentHook, len(g.hooks))
	copy(out, g.hooks)
	return out
}
