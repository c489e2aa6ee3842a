package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/graphite-go/render/graph"
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
)

// wgpuRenderPass adapts an open wgpu render pass encoder to the graph's
// RenderPass contract for the duration of one pipeline's draw targets.
type wgpuRenderPass struct {
	pass    *wgpu.RenderPassEncoder
	backend *wgpuRendererBackendImpl

	// bound is the pipeline currently set on the pass; its resolved layout
	// drives bind group binding and dynamic offset collection.
	bound *builtPipeline
}

var _ graph.RenderPass = &wgpuRenderPass{}

func (p *wgpuRenderPass) SetVertexBuffer(slot uint32, h resource.Handle, offset uint64) {
	buf := p.backend.registry.BufferFor(h)
	if buf == nil {
		panic(fmt.Sprintf("renderer: vertex buffer handle %d is not a registered buffer", h))
	}
	p.pass.SetVertexBuffer(slot, buf, offset, wgpu.WholeSize)
}

func (p *wgpuRenderPass) SetIndexBuffer(h resource.Handle, offset uint64) {
	buf := p.backend.registry.BufferFor(h)
	if buf == nil {
		panic(fmt.Sprintf("renderer: index buffer handle %d is not a registered buffer", h))
	}
	p.pass.SetIndexBuffer(buf, wgpu.IndexFormatUint16, offset, wgpu.WholeSize)
}

func (p *wgpuRenderPass) DrawIndexed(firstIndex, indexCount uint32, baseVertex int32, firstInstance, instanceCount uint32) {
	p.pass.DrawIndexed(indexCount, instanceCount, firstIndex, baseVertex, firstInstance)
}

func (p *wgpuRenderPass) SetBindGroups(entity opt.T[resource.EntityID]) error {
	for i, bg := range p.bound.layout.BindGroups {
		info, ok := p.backend.BindGroupInfoFor(p.bound.groupKeys[i])
		if !ok {
			panic(fmt.Sprintf("renderer: bind group %d of the bound pipeline was never set up", bg.Index))
		}

		// Dynamic offsets are supplied in binding declaration order, matching
		// the order the layout entries were emitted in.
		var offsets []uint32
		for _, binding := range bg.Bindings {
			if !binding.Type.Dynamic {
				continue
			}
			if !entity.Specified {
				return resource.MissingOffsetError{Entity: 0, Resource: binding.Name}
			}
			offset, ok := p.backend.registry.DynamicOffset(binding.Name, entity.Value)
			if !ok {
				return resource.MissingOffsetError{Entity: entity.Value, Resource: binding.Name}
			}
			offsets = append(offsets, offset)
		}
		p.pass.SetBindGroup(bg.Index, info.BindGroup, offsets)
	}
	return nil
}

func (p *wgpuRenderPass) Registry() resource.Registry {
	return p.backend.registry
}
