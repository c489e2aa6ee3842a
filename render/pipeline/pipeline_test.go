package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const descriptorVertexSource = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Object {
    transform: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
@group(1) @binding(0) var<uniform> object: Object;

struct VertexInput {
    @location(0) position: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * object.transform * vec4<f32>(in.position, 1.0);
    return out;
}
`

const descriptorFragmentSource = `
struct Material {
    tint: vec4<f32>,
};

@group(2) @binding(0) var<uniform> material: Material;
@group(2) @binding(1) var base_color_texture: texture_2d<f32>;
@group(2) @binding(2) var base_color_sampler: sampler;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return material.tint;
}
`

// dynamicSet satisfies DynamicUniformLookup for tests.
type dynamicSet map[string]bool

func (s dynamicSet) IsDynamicUniform(name string) bool {
	return s[name]
}

func TestNewDescriptorRequiresVertexShader(t *testing.T) {
	assert.Panics(t, func() {
		NewDescriptor("no_vertex")
	})
}

func TestDescriptorDefaults(t *testing.T) {
	vs := shader.NewShader("defaults_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	d := NewDescriptor("defaults", WithVertexShader(vs))

	assert.True(t, d.DepthTestEnabled())
	assert.True(t, d.DepthWriteEnabled())
	assert.False(t, d.BlendEnabled())
	assert.Equal(t, wgpu.CullModeNone, d.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, d.Topology())
	assert.Equal(t, wgpu.FrontFaceCCW, d.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskAll, d.WriteMask())
	assert.NotNil(t, d.BlendState())
	assert.False(t, d.FragmentShader().Specified)
}

func TestResolveLayoutMergesVertexAndFragmentStages(t *testing.T) {
	vs := shader.NewShader("merge_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	fs := shader.NewShader("merge_fs", shader.ShaderTypeFragment, descriptorFragmentSource)
	d := NewDescriptor("merge",
		WithVertexShader(vs),
		WithFragmentShader(fs),
	)

	layout, err := d.ResolveLayout(nil)
	require.NoError(t, err)

	require.Len(t, layout.BindGroups, 3)
	assert.Equal(t, "camera", layout.BindGroups[0].Bindings[0].Name)
	assert.Equal(t, "object", layout.BindGroups[1].Bindings[0].Name)

	materialGroup := layout.BindGroups[2]
	require.Len(t, materialGroup.Bindings, 3)
	assert.Equal(t, BindKindUniform, materialGroup.Bindings[0].Type.Kind)
	assert.Equal(t, BindKindSampledTexture, materialGroup.Bindings[1].Type.Kind)
	assert.Equal(t, BindKindSampler, materialGroup.Bindings[2].Type.Kind)
}

func TestResolveLayoutIsIdempotent(t *testing.T) {
	vs := shader.NewShader("idempotent_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	d := NewDescriptor("idempotent", WithVertexShader(vs))

	first, err := d.ResolveLayout(nil)
	require.NoError(t, err)
	second, err := d.ResolveLayout(nil)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestResolveLayoutMarksDynamicUniforms(t *testing.T) {
	vs := shader.NewShader("dynamic_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	d := NewDescriptor("dynamic", WithVertexShader(vs))

	layout, err := d.ResolveLayout(dynamicSet{"object": true})
	require.NoError(t, err)

	assert.False(t, layout.BindGroups[0].Bindings[0].Type.Dynamic, "camera is not registered as dynamic")
	assert.True(t, layout.BindGroups[1].Bindings[0].Type.Dynamic, "object is registered as dynamic")
}

func TestResolveLayoutChecksDynamicOnlyAtResolutionTime(t *testing.T) {
	vs := shader.NewShader("late_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	d := NewDescriptor("late", WithVertexShader(vs))

	lookup := dynamicSet{}
	first, err := d.ResolveLayout(lookup)
	require.NoError(t, err)
	assert.False(t, first.BindGroups[1].Bindings[0].Type.Dynamic)

	// Registering the dynamic resource after resolution does not retroactively
	// mark the binding.
	lookup["object"] = true
	second, err := d.ResolveLayout(lookup)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.False(t, second.BindGroups[1].Bindings[0].Type.Dynamic)
}

func TestExplicitLayoutSkipsReflection(t *testing.T) {
	explicit := PipelineLayout{
		BindGroups: []BindGroupDescriptor{
			{
				Index: 0,
				Bindings: []Binding{
					{Name: "camera", Index: 0, Type: BindType{Kind: BindKindUniform, Size: 64}},
				},
			},
		},
	}

	// The source is not parseable WGSL; resolution must never touch it.
	vs := shader.NewShader("never_reflected", shader.ShaderTypeVertex, "not a shader")
	d := NewDescriptor("explicit",
		WithVertexShader(vs),
		WithLayout(explicit),
	)

	layout, err := d.ResolveLayout(dynamicSet{"camera": true})
	require.NoError(t, err)

	if diff := cmp.Diff(explicit, *layout); diff != "" {
		t.Errorf("explicit layout mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveLayoutPropagatesReflectionFailure(t *testing.T) {
	const badSource = `
@group(0) @binding(0) var<uniform> bad: Missing;

@vertex
fn vs_main() -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0);
}
`
	vs := shader.NewShader("bad_vs", shader.ShaderTypeVertex, badSource)
	d := NewDescriptor("bad", WithVertexShader(vs))

	_, err := d.ResolveLayout(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad")

	_, resolved := d.Layout()
	assert.False(t, resolved, "failed resolution must not memoize a layout")
}

func TestLayoutPeeksWithoutResolving(t *testing.T) {
	vs := shader.NewShader("peek_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	d := NewDescriptor("peek", WithVertexShader(vs))

	_, resolved := d.Layout()
	assert.False(t, resolved)

	want, err := d.ResolveLayout(nil)
	require.NoError(t, err)

	got, resolved := d.Layout()
	assert.True(t, resolved)
	assert.Same(t, want, got)
}

func TestDescriptorBuilderOptions(t *testing.T) {
	vs := shader.NewShader("options_vs", shader.ShaderTypeVertex, descriptorVertexSource)
	blend := &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOne,
			Operation: wgpu.BlendOperationAdd,
		},
	}

	d := NewDescriptor("options",
		WithVertexShader(vs),
		WithShaderDefines("SKINNED", "SHADOWS"),
		WithDrawTargets("meshes", "ui"),
		WithDepthTestEnabled(false),
		WithDepthWriteEnabled(false),
		WithDepthBias(2, 1.5),
		WithBlendEnabled(true),
		WithBlendState(blend),
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyLineList),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
	)

	assert.Equal(t, "options", d.Key())
	assert.Equal(t, []string{"SKINNED", "SHADOWS"}, d.ShaderDefines())
	assert.Equal(t, []string{"meshes", "ui"}, d.DrawTargets())
	assert.False(t, d.DepthTestEnabled())
	assert.False(t, d.DepthWriteEnabled())
	assert.Equal(t, int32(2), d.DepthBias())
	assert.Equal(t, float32(1.5), d.DepthBiasSlopeScale())
	assert.True(t, d.BlendEnabled())
	assert.Same(t, blend, d.BlendState())
	assert.Equal(t, wgpu.CullModeBack, d.CullMode())
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, d.Topology())
	assert.Equal(t, wgpu.FrontFaceCW, d.FrontFace())
	assert.Equal(t, wgpu.ColorWriteMaskRed, d.WriteMask())
}
