package graph

import (
	graphite "github.com/Carmen-Shannon/graphite-go"
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/cogentcore/webgpu/wgpu"
)

// ResourceProvider creates and maintains GPU resources outside the pass
// execution loop. The executor invokes every registered provider, in
// registration order, once per phase: Initialize during renderer
// initialization, Resize on every extent change, and Update at the start of
// every frame. Each hook runs with the phase's command encoder open on the
// registry, so providers may stage texture data and record copies.
type ResourceProvider interface {
	// Initialize creates the provider's long-lived resources.
	//
	// Parameters:
	//   - ctx: the resource registry with the initialization encoder open
	Initialize(ctx resource.Registry)

	// Resize recreates any resources sized by the surface extents.
	//
	// Parameters:
	//   - ctx: the resource registry with the resize encoder open
	//   - width: the new surface width in pixels
	//   - height: the new surface height in pixels
	Resize(ctx resource.Registry, width, height uint32)

	// Update refreshes per-frame resource contents.
	//
	// Parameters:
	//   - ctx: the resource registry with the frame encoder open
	Update(ctx resource.Registry)
}

// depthTextureProvider maintains a named depth texture sized to the surface.
type depthTextureProvider struct {
	name        string
	format      wgpu.TextureFormat
	sampleCount uint32

	handle resource.Handle
	bound  bool
}

var _ ResourceProvider = &depthTextureProvider{}

// NewDepthTextureProvider returns a ResourceProvider that keeps a depth
// texture registered under the given name, recreating it at the surface
// extents on every resize. Passes reference it through their depth attachment
// name.
//
// Parameters:
//   - name: the registry name to bind the texture under
//   - format: the depth texture format, e.g. wgpu.TextureFormatDepth24Plus
//   - sampleCount: the sample count, matching the renderer's MSAA setting
//
// Returns:
//   - ResourceProvider: the depth texture provider
func NewDepthTextureProvider(name string, format wgpu.TextureFormat, sampleCount uint32) ResourceProvider {
	if name == "" {
		panic("graph: depth texture provider must have a name")
	}
	if sampleCount == 0 {
		sampleCount = 1
	}
	return &depthTextureProvider{
		name:        name,
		format:      format,
		sampleCount: sampleCount,
	}
}

func (p *depthTextureProvider) Initialize(ctx resource.Registry) {
	// Extents are unknown until the first resize, which initialization always
	// triggers.
}

func (p *depthTextureProvider) Resize(ctx resource.Registry, width, height uint32) {
	if width == 0 || height == 0 {
		return
	}
	if p.bound {
		ctx.RemoveTexture(p.handle)
	}
	p.handle = ctx.CreateTexture(&wgpu.TextureDescriptor{
		Label:         p.name,
		Usage:         wgpu.TextureUsageRenderAttachment,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: 1},
		Format:        p.format,
		MipLevelCount: 1,
		SampleCount:   p.sampleCount,
	})
	p.bound = true
	ctx.SetNamedResource(p.name, p.handle)
	graphite.Logger().Debug("recreated depth texture",
		"name", p.name,
		"width", width,
		"height", height,
		"samples", p.sampleCount)
}

func (p *depthTextureProvider) Update(ctx resource.Registry) {}
