package pipeline

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
)

// DynamicUniformLookup reports whether a named resource is currently backed by
// a dynamically indexed uniform buffer. The resource registry satisfies it.
type DynamicUniformLookup interface {
	// IsDynamicUniform returns true when the named resource is registered as a
	// dynamic uniform buffer.
	//
	// Parameters:
	//   - name: the resource name to check
	//
	// Returns:
	//   - bool: true if the name resolves to a dynamic uniform buffer
	IsDynamicUniform(name string) bool
}

// descriptor is the implementation of the Descriptor interface.
// It holds the shader references, fixed-function state, and the lazily
// resolved pipeline layout for one render pipeline.
type descriptor struct {
	// pipelineKey is the unique identifier for this pipeline, used for caching and lookups
	pipelineKey string

	// vertexShader is required; fragmentShader is optional for depth-only pipelines
	vertexShader   shader.Shader
	fragmentShader opt.T[shader.Shader]

	// shaderDefines select the macro variant compiled for both stages
	shaderDefines []string

	// drawTargets names the draw-target callbacks invoked when this pipeline is bound
	drawTargets []string

	// mu guards the one-time layout write so concurrent resolution cannot
	// double-initialize; layout is nil until resolved or explicitly set
	mu     *sync.Mutex
	layout *PipelineLayout

	// The following properties configure the fixed-function pipeline state and
	// can be toggled/set with the builder options.

	depthTestEnabled    bool
	depthWriteEnabled   bool
	depthBias           int32
	depthBiasSlopeScale float32
	blendEnabled        bool
	cullMode            wgpu.CullMode
	topology            wgpu.PrimitiveTopology
	frontFace           wgpu.FrontFace
	writeMask           wgpu.ColorWriteMask
	blendState          *wgpu.BlendState
}

// Descriptor defines the interface for a render pipeline description: shader
// stages, fixed-function state, draw-target assignment, and the bind-group
// layout derived from shader reflection (or set explicitly).
type Descriptor interface {
	// Key returns the unique key associated with this pipeline, used for caching and lookups.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	Key() string

	// VertexShader returns the pipeline's vertex shader.
	//
	// Returns:
	//   - shader.Shader: the vertex shader for this pipeline
	VertexShader() shader.Shader

	// FragmentShader returns the pipeline's optional fragment shader.
	//
	// Returns:
	//   - opt.T[shader.Shader]: the fragment shader, unspecified for depth-only pipelines
	FragmentShader() opt.T[shader.Shader]

	// ShaderDefines returns the macro definitions used to select the shader
	// variant for both stages.
	//
	// Returns:
	//   - []string: the macro definitions for this pipeline
	ShaderDefines() []string

	// DrawTargets returns the names of the draw-target callbacks invoked when
	// this pipeline is bound during a pass.
	//
	// Returns:
	//   - []string: the draw-target names for this pipeline
	DrawTargets() []string

	// ResolveLayout returns the pipeline's bind-group layout, reflecting it
	// from the shader stages on first call. An explicit layout set at
	// construction skips reflection entirely. After the stage layouts are
	// merged, every uniform binding whose name matches a registered dynamic
	// uniform resource has its Dynamic flag set; this check runs only during
	// resolution, so resources registered afterwards do not retroactively mark
	// bindings. The result is computed exactly once and every later call
	// returns the same layout.
	//
	// Parameters:
	//   - lookup: resolves binding names to dynamic uniform resources, may be nil
	//
	// Returns:
	//   - *PipelineLayout: the resolved layout
	//   - error: an error if shader reflection fails
	ResolveLayout(lookup DynamicUniformLookup) (*PipelineLayout, error)

	// Layout returns the already-resolved layout without triggering
	// resolution.
	//
	// Returns:
	//   - *PipelineLayout: the resolved layout, or nil
	//   - bool: true if the layout has been resolved or explicitly set
	Layout() (*PipelineLayout, bool)

	// DepthTestEnabled returns whether depth testing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth testing is enabled, false otherwise
	DepthTestEnabled() bool

	// DepthWriteEnabled returns whether depth writing is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if depth writing is enabled, false otherwise
	DepthWriteEnabled() bool

	// DepthBias returns the depth bias value configured for this pipeline.
	//
	// Returns:
	//   - int32: the depth bias value for this pipeline
	DepthBias() int32

	// DepthBiasSlopeScale returns the depth bias slope scale configured for this pipeline.
	//
	// Returns:
	//   - float32: the depth bias slope scale for this pipeline
	DepthBiasSlopeScale() float32

	// BlendEnabled returns whether blending is enabled for this pipeline.
	//
	// Returns:
	//   - bool: true if blending is enabled, false otherwise
	BlendEnabled() bool

	// CullMode returns the cull mode configured for this pipeline.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology configured for this pipeline.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the primitive topology for this pipeline (e.g., wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order configured for this pipeline.
	//
	// Returns:
	//   - wgpu.FrontFace: the front face winding order for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask configured for this pipeline.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the color write mask for this pipeline (e.g., wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state configured for this pipeline.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state for this pipeline
	BlendState() *wgpu.BlendState
}

var _ Descriptor = &descriptor{}

// NewDescriptor is the entry point to create a new pipeline Descriptor. A
// vertex shader must be provided via WithVertexShader.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of DescriptorBuilderOption functions to configure the pipeline
//
// Returns:
//   - Descriptor: a new Descriptor instance with the specified configuration
func NewDescriptor(pipelineKey string, opts ...DescriptorBuilderOption) Descriptor {
	d := &descriptor{
		pipelineKey:       pipelineKey,
		mu:                &sync.Mutex{},
		depthTestEnabled:  true,
		depthWriteEnabled: true,
		blendEnabled:      false,
		cullMode:          wgpu.CullModeNone,
		topology:          wgpu.PrimitiveTopologyTriangleList,
		frontFace:         wgpu.FrontFaceCCW,
		writeMask:         wgpu.ColorWriteMaskAll,
		blendState: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
	}
	for _, o := range opts {
		o(d)
	}
	if d.vertexShader == nil {
		panic(fmt.Sprintf("pipeline: %s must have a vertex shader", pipelineKey))
	}
	return d
}

func (d *descriptor) Key() string {
	return d.pipelineKey
}

func (d *descriptor) VertexShader() shader.Shader {
	return d.vertexShader
}

func (d *descriptor) FragmentShader() opt.T[shader.Shader] {
	return d.fragmentShader
}

func (d *descriptor) ShaderDefines() []string {
	return d.shaderDefines
}

func (d *descriptor) DrawTargets() []string {
	return d.drawTargets
}

func (d *descriptor) ResolveLayout(lookup DynamicUniformLookup) (*PipelineLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.layout != nil {
		return d.layout, nil
	}

	vertexVariant, err := d.vertexShader.Variant(d.shaderDefines...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: resolve layout for %q: %w", d.pipelineKey, err)
	}
	stages := [][]shader.BindingDecl{vertexVariant.Bindings()}

	if d.fragmentShader.Specified {
		fragmentVariant, err := d.fragmentShader.Value.Variant(d.shaderDefines...)
		if err != nil {
			return nil, fmt.Errorf("pipeline: resolve layout for %q: %w", d.pipelineKey, err)
		}
		stages = append(stages, fragmentVariant.Bindings())
	}

	layout := MergeShaderLayouts(stages...)
	if lookup != nil {
		for g := range layout.BindGroups {
			for b := range layout.BindGroups[g].Bindings {
				binding := &layout.BindGroups[g].Bindings[b]
				if binding.Type.Kind == BindKindUniform && lookup.IsDynamicUniform(binding.Name) {
					binding.Type.Dynamic = true
				}
			}
		}
	}

	d.layout = &layout
	return d.layout, nil
}

func (d *descriptor) Layout() (*PipelineLayout, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.layout, d.layout != nil
}

func (d *descriptor) DepthTestEnabled() bool {
	return d.depthTestEnabled
}

func (d *descriptor) DepthWriteEnabled() bool {
	return d.depthWriteEnabled
}

func (d *descriptor) DepthBias() int32 {
	return d.depthBias
}

func (d *descriptor) DepthBiasSlopeScale() float32 {
	return d.depthBiasSlopeScale
}

func (d *descriptor) BlendEnabled() bool {
	return d.blendEnabled
}

func (d *descriptor) CullMode() wgpu.CullMode {
	return d.cullMode
}

func (d *descriptor) Topology() wgpu.PrimitiveTopology {
	return d.topology
}

func (d *descriptor) FrontFace() wgpu.FrontFace {
	return d.frontFace
}

func (d *descriptor) WriteMask() wgpu.ColorWriteMask {
	return d.writeMask
}

func (d *descriptor) BlendState() *wgpu.BlendState {
	return d.blendState
}
