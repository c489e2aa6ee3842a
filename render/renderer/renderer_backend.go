package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBackendType identifies the GPU backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values (8, 16) are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1). This is the default.
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing.
	MSAA4x MSAASampleCount = 4

	// MSAA8x enables 8× multisample anti-aliasing. Adapter-dependent; not all hardware supports this.
	MSAA8x MSAASampleCount = 8
)

// AcquirePolicy selects how the executor reacts when acquiring the next
// presentation frame fails, typically on a driver timeout.
type AcquirePolicy int

const (
	// AcquireFatal aborts the frame with the acquisition error. This is the default.
	AcquireFatal AcquirePolicy = iota

	// AcquireSkip abandons the frame and returns ErrFrameSkipped, so the caller
	// can carry on to the next tick.
	AcquireSkip

	// AcquireRetry retries acquisition a bounded number of times with a short
	// backoff before giving up with the acquisition error.
	AcquireRetry
)

// BindGroupInfo is a realized GPU bind group plus the names of uniform
// bindings that were auto-filled with placeholder buffers because no resource
// was registered under their name. UnsetUniforms is diagnostic only.
type BindGroupInfo struct {
	BindGroup     *wgpu.BindGroup
	UnsetUniforms []string
}

// RendererBackend is the top-level backend interface for the Renderer.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}
