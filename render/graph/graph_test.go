package graph

import (
	"testing"

	"github.com/Carmen-Shannon/graphite-go/render/pipeline"
	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stubVertexSource = `
@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`

func stubPipeline(key string) pipeline.Descriptor {
	vs := shader.NewShader(key+"_vs", shader.ShaderTypeVertex, stubVertexSource)
	return pipeline.NewDescriptor(key, pipeline.WithVertexShader(vs))
}

func TestPassesKeepDeclarationOrder(t *testing.T) {
	g := NewRenderGraph()
	g.AddPass(PassDescriptor{Name: "shadow"})
	g.AddPass(PassDescriptor{Name: "main"})
	g.AddPass(PassDescriptor{Name: "ui"})

	var names []string
	for _, p := range g.Passes() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"shadow", "main", "ui"}, names)
}

func TestAddPipelineDeduplicatesByKey(t *testing.T) {
	g := NewRenderGraph()
	mesh := stubPipeline("mesh")
	ui := stubPipeline("ui")

	g.AddPipeline("shadow", mesh)
	g.AddPipeline("main", mesh)
	g.AddPipeline("main", ui)

	require.Len(t, g.Pipelines(), 2)
	assert.Equal(t, "mesh", g.Pipelines()[0].Key())
	assert.Equal(t, "ui", g.Pipelines()[1].Key())

	shadow := g.PipelinesForPass("shadow")
	require.Len(t, shadow, 1)
	assert.Equal(t, "mesh", shadow[0].Key())

	main := g.PipelinesForPass("main")
	require.Len(t, main, 2)

	assert.Empty(t, g.PipelinesForPass("unknown"))
}

func TestTakeQueuedTexturesDrains(t *testing.T) {
	g := NewRenderGraph()
	desc := &wgpu.TextureDescriptor{
		Usage:     wgpu.TextureUsageTextureBinding,
		Dimension: wgpu.TextureDimension2D,
		Size:      wgpu.Extent3D{Width: 4, Height: 4, DepthOrArrayLayers: 1},
		Format:    wgpu.TextureFormatRGBA8Unorm,
	}

	g.QueueTexture("noise", desc, opt.Unspecified[[]byte]())
	g.QueueTexture("splat", desc, opt.V(make([]byte, 64)))

	taken := g.TakeQueuedTextures()
	require.Len(t, taken, 2)
	assert.Equal(t, "noise", taken[0].Name)
	assert.False(t, taken[0].Data.Specified)
	assert.Equal(t, "splat", taken[1].Name)
	assert.True(t, taken[1].Data.Specified)

	assert.Empty(t, g.TakeQueuedTextures(), "queued textures are realized exactly once")
}

func TestDrawTargetRegistrationLastWriterWins(t *testing.T) {
	g := NewRenderGraph()

	var called string
	g.SetDrawTarget("meshes", func(pass RenderPass, pipelineKey string) error {
		called = "first"
		return nil
	})
	g.SetDrawTarget("meshes", func(pass RenderPass, pipelineKey string) error {
		called = "second"
		return nil
	})

	target, ok := g.DrawTarget("meshes")
	require.True(t, ok)
	require.NoError(t, target(nil, "mesh"))
	assert.Equal(t, "second", called)

	_, ok = g.DrawTarget("missing")
	assert.False(t, ok)
}

func TestResourceProvidersKeepRegistrationOrder(t *testing.T) {
	g := NewRenderGraph()
	first := NewDepthTextureProvider("depth_a", wgpu.TextureFormatDepth24Plus, 1)
	second := NewDepthTextureProvider("depth_b", wgpu.TextureFormatDepth24Plus, 1)

	g.AddResourceProvider(first)
	g.AddResourceProvider(second)

	providers := g.ResourceProviders()
	require.Len(t, providers, 2)
	assert.Same(t, first, providers[0])
	assert.Same(t, second, providers[1])
}

func TestShaderAssignmentHooksKeepRegistrationOrder(t *testing.T) {
	g := NewRenderGraph()

	var order []int
	g.AddShaderAssignmentHook(func(RenderGraph) { order = append(order, 1) })
	g.AddShaderAssignmentHook(func(RenderGraph) { order = append(order, 2) })

	for _, hook := range g.ShaderAssignmentHooks() {
		hook(g)
	}
	assert.Equal(t, []int{1, 2}, order)
}

func TestDepthTextureProviderIgnoresZeroExtents(t *testing.T) {
	p := NewDepthTextureProvider("depth", wgpu.TextureFormatDepth24Plus, 1)

	// A minimized surface reports zero extents; the provider must not touch
	// the registry at all.
	assert.NotPanics(t, func() {
		p.Resize(nil, 0, 600)
		p.Resize(nil, 800, 0)
	})
}

func TestNewDepthTextureProviderRequiresName(t *testing.T) {
	assert.Panics(t, func() {
		NewDepthTextureProvider("", wgpu.TextureFormatDepth24Plus, 1)
	})
}

func TestDefaultColorAttachmentTargetsSwapChain(t *testing.T) {
	clear := wgpu.Color{R: 0.1, G: 0.2, B: 0.3, A: 1.0}
	att := DefaultColorAttachment(clear)

	assert.Equal(t, SwapChainAttachment, att.Name)
	assert.Equal(t, wgpu.LoadOpClear, att.LoadOp)
	assert.Equal(t, wgpu.StoreOpStore, att.StoreOp)
	require.True(t, att.ClearColor.Specified)
	assert.Equal(t, clear, att.ClearColor.Value)
}
