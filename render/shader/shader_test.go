package shader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicVertexSource = `
struct Camera {
    view_proj: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;

struct VertexInput {
    @location(0) position: vec3<f32>,
};

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(in.position, 1.0);
    return out;
}
`

const conditionalVertexSource = `
struct Camera {
    view_proj: mat4x4<f32>,
};

struct Skin {
    joint: mat4x4<f32>,
};

@group(0) @binding(0) var<uniform> camera: Camera;
#ifdef SKINNED
@group(0) @binding(1) var<uniform> skin: Skin;
#endif

@vertex
fn vs_main(@location(0) position: vec3<f32>) -> @builtin(position) vec4<f32> {
    return camera.view_proj * vec4<f32>(position, 1.0);
}
`

func TestNewShaderPanicsOnEmptySource(t *testing.T) {
	assert.Panics(t, func() {
		NewShader("empty", ShaderTypeVertex, "")
	})
}

func TestVariantReflectsAndCompiles(t *testing.T) {
	s := NewShader("basic_vertex", ShaderTypeVertex, basicVertexSource)

	v, err := s.Variant()
	require.NoError(t, err)

	assert.Equal(t, "vs_main", v.EntryPoint())
	require.Len(t, v.Bindings(), 1)
	assert.Equal(t, "camera", v.Bindings()[0].Name)
	assert.Equal(t, BindingKindUniform, v.Bindings()[0].Kind)
	require.Len(t, v.VertexLayouts(), 1)
	assert.Equal(t, uint64(12), v.VertexLayouts()[0].ArrayStride)
	assert.NotEmpty(t, v.Bytecode())
	require.NotNil(t, v.Module())
	assert.Equal(t, "basic_vertex", v.Module().Label)
	assert.NotContains(t, v.Source(), "#")
}

func TestVariantCachedAcrossDefOrderings(t *testing.T) {
	s := NewShader("conditional", ShaderTypeVertex, conditionalVertexSource)

	first, err := s.Variant("SKINNED", "FOO")
	require.NoError(t, err)
	second, err := s.Variant("FOO", "SKINNED")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestVariantConditionalBindings(t *testing.T) {
	s := NewShader("conditional", ShaderTypeVertex, conditionalVertexSource)

	plain, err := s.Variant()
	require.NoError(t, err)
	require.Len(t, plain.Bindings(), 1)

	skinned, err := s.Variant("SKINNED")
	require.NoError(t, err)
	require.Len(t, skinned.Bindings(), 2)
	assert.Equal(t, "skin", skinned.Bindings()[1].Name)

	assert.NotSame(t, plain, skinned)
}

func TestVariantMissingEntryPointFails(t *testing.T) {
	s := NewShader("wrong_stage", ShaderTypeFragment, basicVertexSource)

	_, err := s.Variant()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no fragment entry point")
}

func TestVariantUnbalancedDirectiveFails(t *testing.T) {
	s := NewShader("broken", ShaderTypeVertex, "#ifdef A\n"+basicVertexSource)

	_, err := s.Variant()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unterminated conditional")
}

func TestNewShaderFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "basic.wgsl")
	require.NoError(t, os.WriteFile(path, []byte(basicVertexSource), 0o644))

	s := NewShaderFromPath("from_path", ShaderTypeVertex, path)

	assert.Equal(t, basicVertexSource, s.RawSource())
	v, err := s.Variant()
	require.NoError(t, err)
	assert.Equal(t, "vs_main", v.EntryPoint())
}

func TestNewShaderFromPathPanicsOnMissingFile(t *testing.T) {
	assert.Panics(t, func() {
		NewShaderFromPath("missing", ShaderTypeVertex, filepath.Join(t.TempDir(), "nope.wgsl"))
	})
}
