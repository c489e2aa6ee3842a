package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// backendConfig is the pre-creation configuration collected from builder
// options before the backend requests a GPU adapter.
type backendConfig struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	width                uint32
	height               uint32
	forceFallbackAdapter bool

	colorFormat   wgpu.TextureFormat
	depthFormat   wgpu.TextureFormat
	sampleCount   MSAASampleCount
	presentMode   PresentMode
	acquirePolicy AcquirePolicy
}

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*backendConfig)

// WithSurface attaches a presentation surface to the renderer. The surface
// descriptor is platform-specific and is typically obtained from
// window.Window.SurfaceDescriptor(). Without this option the renderer runs
// headless.
//
// Parameters:
//   - desc: the platform-specific surface descriptor for WebGPU surface creation
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the surface option to a renderer
func WithSurface(desc *wgpu.SurfaceDescriptor, width, height uint32) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.surfaceDescriptor = desc
		cfg.width = width
		cfg.height = height
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the renderer.
// When not specified, the default is MSAAOff. Higher values (MSAA8x) are
// adapter-dependent and may not be supported by all hardware.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff, MSAA4x, or MSAA8x)
//
// Returns:
//   - RendererBuilderOption: a function that applies the MSAA option to a renderer
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe). Useful for CI environments without a GPU.
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - RendererBuilderOption: a function that applies the force software renderer option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.forceFallbackAdapter = force
	}
}

// WithAcquirePolicy sets how the renderer reacts when acquiring the next
// presentation frame fails. The default is AcquireFatal.
//
// Parameters:
//   - policy: the AcquirePolicy to use (AcquireFatal, AcquireSkip, or AcquireRetry)
//
// Returns:
//   - RendererBuilderOption: a function that applies the acquire policy option to a renderer
func WithAcquirePolicy(policy AcquirePolicy) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.acquirePolicy = policy
	}
}

// WithColorFormat sets the color target format used for pipelines when the
// renderer runs headless. With a surface attached the surface's preferred
// format always wins.
//
// Parameters:
//   - format: the texture format for color targets (default BGRA8Unorm)
//
// Returns:
//   - RendererBuilderOption: a function that applies the color format option to a renderer
func WithColorFormat(format wgpu.TextureFormat) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.colorFormat = format
	}
}

// WithDepthFormat sets the depth format used for pipeline depth-stencil state.
//
// Parameters:
//   - format: the texture format for depth attachments (default Depth24Plus)
//
// Returns:
//   - RendererBuilderOption: a function that applies the depth format option to a renderer
func WithDepthFormat(format wgpu.TextureFormat) RendererBuilderOption {
	return func(cfg *backendConfig) {
		cfg.depthFormat = format
	}
}
