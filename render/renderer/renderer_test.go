package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/graphite-go/render/graph"
	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forwardVertexSource = `
struct Transform {
    mvp: mat4x4<f32>,
};
@group(0) @binding(0) var<uniform> transform: Transform;

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> @builtin(position) vec4<f32> {
    let x = f32(i32(index) - 1);
    let y = f32(i32(index & 1u) * 2 - 1);
    return transform.mvp * vec4<f32>(x, y, 0.0, 1.0);
}
`

const forwardFragmentSource = `
@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return vec4<f32>(1.0, 0.0, 0.0, 1.0);
}
`

// newHeadlessRenderer acquires a real device without a presentation surface,
// skipping the test when no adapter is available in the environment.
func newHeadlessRenderer(t *testing.T, options ...RendererBuilderOption) Renderer {
	t.Helper()

	var r Renderer
	func() {
		defer func() {
			if recovered := recover(); recovered != nil {
				t.Skipf("no wgpu adapter available: %v", recovered)
			}
		}()
		r = NewRenderer(BackendTypeWGPU, options...)
	}()
	t.Cleanup(r.Release)
	return r
}

func forwardPipeline(key string) pipeline.Descriptor {
	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, forwardVertexSource)
	fs := shader.NewShader(key+"_fs", shader.ShaderTypeFragment, forwardFragmentSource)
	return pipeline.NewDescriptor(key,
		pipeline.WithVertexShader(vs),
		pipeline.WithFragmentShader(fs),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
	)
}

func TestMissingAttachmentErrorMessage(t *testing.T) {
	err := MissingAttachmentError{Pass: "main", Attachment: "gbuffer_albedo"}
	assert.Contains(t, err.Error(), "main")
	assert.Contains(t, err.Error(), "gbuffer_albedo")
}

func TestUnsupportedBindTypeErrorMessage(t *testing.T) {
	err := UnsupportedBindTypeError{Binding: "shadow_map", Kind: pipeline.BindKindSampledTexture}
	assert.Contains(t, err.Error(), "shadow_map")
}

func TestErrFrameSkippedIsSentinel(t *testing.T) {
	wrapped := errors.Join(ErrFrameSkipped)
	assert.True(t, errors.Is(wrapped, ErrFrameSkipped))
}

func TestHeadlessFrameAutoAllocatesUniform(t *testing.T) {
	r := newHeadlessRenderer(t)

	g := graph.NewRenderGraph()
	g.AddPass(graph.PassDescriptor{
		Name: "main",
		ColorAttachments: []graph.ColorAttachment{{
			Name:    "offscreen",
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	// The "Transform" uniform is never registered; the executor must allocate
	// a zeroed placeholder and render anyway.
	g.AddPipeline("main", forwardPipeline("forward"))
	g.QueueTexture("offscreen", &wgpu.TextureDescriptor{
		Label:         "offscreen",
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatBGRA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	}, opt.Unspecified[[]byte]())

	r.Initialize(g)
	require.NoError(t, r.ProcessRenderGraph(g))

	h, ok := r.Registry().NamedResource("transform")
	require.True(t, ok, "placeholder uniform registered under the binding name")
	info, ok := r.Registry().ResourceInfo(h)
	require.True(t, ok)
	bufInfo, ok := info.(resource.BufferInfo)
	require.True(t, ok)
	assert.EqualValues(t, 64, bufInfo.Size, "mat4x4<f32> placeholder")
}

func TestHeadlessFrameMissingSwapChainFails(t *testing.T) {
	r := newHeadlessRenderer(t)

	g := graph.NewRenderGraph()
	g.AddPass(graph.PassDescriptor{
		Name:             "main",
		ColorAttachments: []graph.ColorAttachment{graph.DefaultColorAttachment(wgpu.Color{A: 1})},
	})

	r.Initialize(g)
	err := r.ProcessRenderGraph(g)
	require.Error(t, err)

	var missing MissingAttachmentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "main", missing.Pass)
	assert.Equal(t, graph.SwapChainAttachment, missing.Attachment)
}

func TestResizeRunsProviderHooks(t *testing.T) {
	r := newHeadlessRenderer(t)

	g := graph.NewRenderGraph()
	p := &countingProvider{}
	g.AddResourceProvider(p)

	r.Initialize(g)
	assert.Equal(t, 1, p.initCalls)
	assert.Equal(t, 1, p.resizeCalls, "initialize performs the initial resize")

	r.Resize(g, 640, 480)
	assert.Equal(t, 2, p.resizeCalls)
	assert.EqualValues(t, 640, p.lastWidth)
	assert.EqualValues(t, 480, p.lastHeight)
}

func TestProcessRenderGraphRunsHooksBeforePipelines(t *testing.T) {
	r := newHeadlessRenderer(t)

	g := graph.NewRenderGraph()
	g.AddShaderAssignmentHook(func(g graph.RenderGraph) {
		g.QueueTexture("hook_texture", &wgpu.TextureDescriptor{
			Label:         "hook_texture",
			Usage:         wgpu.TextureUsageTextureBinding,
			Dimension:     wgpu.TextureDimension2D,
			Size:          wgpu.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
			Format:        wgpu.TextureFormatRGBA8Unorm,
			MipLevelCount: 1,
			SampleCount:   1,
		}, opt.Unspecified[[]byte]())
	})

	r.Initialize(g)
	require.NoError(t, r.ProcessRenderGraph(g))

	_, ok := r.Registry().NamedResource("hook_texture")
	assert.True(t, ok, "textures queued by hooks are realized within the same frame")
}

func TestProcessRenderGraphBeforeInitializePanics(t *testing.T) {
	r := newHeadlessRenderer(t)

	assert.Panics(t, func() {
		_ = r.ProcessRenderGraph(graph.NewRenderGraph())
	})
}

func TestDrawTargetErrorAbortsFrame(t *testing.T) {
	r := newHeadlessRenderer(t)
	boom := errors.New("draw target failed")

	g := graph.NewRenderGraph()
	g.AddPass(graph.PassDescriptor{
		Name: "main",
		ColorAttachments: []graph.ColorAttachment{{
			Name:    "offscreen",
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
		}},
	})
	desc := pipeline.NewDescriptor("forward",
		pipeline.WithVertexShader(shader.NewShader("forward_vs", shader.ShaderTypeVertex, forwardVertexSource)),
		pipeline.WithFragmentShader(shader.NewShader("forward_fs", shader.ShaderTypeFragment, forwardFragmentSource)),
		pipeline.WithDepthTestEnabled(false),
		pipeline.WithDepthWriteEnabled(false),
		pipeline.WithDrawTargets("meshes"),
	)
	g.AddPipeline("main", desc)
	g.SetDrawTarget("meshes", func(pass graph.RenderPass, pipelineKey string) error {
		return boom
	})
	g.QueueTexture("offscreen", &wgpu.TextureDescriptor{
		Label:         "offscreen",
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: 16, Height: 16, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatBGRA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	}, opt.Unspecified[[]byte]())

	r.Initialize(g)
	err := r.ProcessRenderGraph(g)
	require.ErrorIs(t, err, boom)
}

// countingProvider records provider hook invocations for phase-order tests.
type countingProvider struct {
	initCalls   int
	resizeCalls int
	updateCalls int
	lastWidth   uint32
	lastHeight  uint32
}

func (p *countingProvider) Initialize(ctx resource.Registry) {
	p.initCalls++
}

func (p *countingProvider) Resize(ctx resource.Registry, width, height uint32) {
	p.resizeCalls++
	p.lastWidth = width
	p.lastHeight = height
}

func (p *countingProvider) Update(ctx resource.Registry) {
	p.updateCalls++
}
