package pipeline

import (
	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
)

// DescriptorBuilderOption is a functional option used to configure a Descriptor during construction.
type DescriptorBuilderOption func(*descriptor)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader to use for this pipeline
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the vertex shader for this pipeline
func WithVertexShader(s shader.Shader) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline. Pipelines
// without a fragment shader render depth only.
//
// Parameters:
//   - s: the fragment shader to use for this pipeline
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the fragment shader for this pipeline
func WithFragmentShader(s shader.Shader) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.fragmentShader = opt.V(s)
	}
}

// WithShaderDefines sets the macro definitions used to select the shader
// variant compiled for both stages of this pipeline.
//
// Parameters:
//   - defines: the macro definitions to enable
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the shader definitions for this pipeline
func WithShaderDefines(defines ...string) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.shaderDefines = defines
	}
}

// WithDrawTargets sets the names of the draw-target callbacks invoked when
// this pipeline is bound during a pass.
//
// Parameters:
//   - names: the draw-target names to assign to this pipeline
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the draw targets for this pipeline
func WithDrawTargets(names ...string) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.drawTargets = names
	}
}

// WithLayout sets an explicit bind-group layout for this pipeline, skipping
// shader reflection entirely.
//
// Parameters:
//   - layout: the layout to use for this pipeline
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the explicit layout for this pipeline
func WithLayout(layout PipelineLayout) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.layout = &layout
	}
}

// WithDepthTestEnabled sets whether depth testing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth testing should be enabled
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the depth test enabled state for this pipeline
func WithDepthTestEnabled(enabled bool) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.depthTestEnabled = enabled
	}
}

// WithDepthWriteEnabled sets whether depth writing is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether depth writing should be enabled
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the depth write enabled state for this pipeline
func WithDepthWriteEnabled(enabled bool) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.depthWriteEnabled = enabled
	}
}

// WithDepthBias sets the depth bias parameters for this pipeline.
//
// Parameters:
//   - bias: the constant depth bias to apply
//   - slopeScale: the slope scale depth bias to apply
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the depth bias parameters for this pipeline
func WithDepthBias(bias int32, slopeScale float32) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.depthBias = bias
		d.depthBiasSlopeScale = slopeScale
	}
}

// WithBlendEnabled sets whether blending is enabled for this pipeline.
//
// Parameters:
//   - enabled: a boolean indicating whether blending should be enabled
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the blend enabled state for this pipeline
func WithBlendEnabled(enabled bool) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.blendEnabled = enabled
	}
}

// WithCullMode sets the cull mode for this pipeline.
//
// Parameters:
//   - mode: the cull mode to use for this pipeline (e.g., wgpu.CullModeNone, wgpu.CullModeFront, wgpu.CullModeBack)
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the cull mode for this pipeline
func WithCullMode(mode wgpu.CullMode) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.cullMode = mode
	}
}

// WithTopology sets the primitive topology for this pipeline.
//
// Parameters:
//   - topology: the primitive topology to use for this pipeline (e.g., wgpu.PrimitiveTopologyPointList, wgpu.PrimitiveTopologyLineList, wgpu.PrimitiveTopologyTriangleList)
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the primitive topology for this pipeline
func WithTopology(topology wgpu.PrimitiveTopology) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.topology = topology
	}
}

// WithFrontFace sets the front face winding order for this pipeline.
//
// Parameters:
//   - frontFace: the front face to use for this pipeline (e.g., wgpu.FrontFaceCCW, wgpu.FrontFaceCW)
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the front face for this pipeline
func WithFrontFace(frontFace wgpu.FrontFace) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask for this pipeline.
//
// Parameters:
//   - writeMask: the color write mask to use for this pipeline (e.g., wgpu.ColorWriteMaskAll, wgpu.ColorWriteMaskRed, wgpu.ColorWriteMaskGreen, wgpu.ColorWriteMaskBlue, wgpu.ColorWriteMaskAlpha)
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the color write mask for this pipeline
func WithWriteMask(writeMask wgpu.ColorWriteMask) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.writeMask = writeMask
	}
}

// WithBlendState sets the blend state for this pipeline.
//
// Parameters:
//   - blendState: the blend state to use for this pipeline
//
// Returns:
//   - DescriptorBuilderOption: a function that sets the blend state for this pipeline
func WithBlendState(blendState *wgpu.BlendState) DescriptorBuilderOption {
	return func(d *descriptor) {
		d.blendState = blendState
	}
}
