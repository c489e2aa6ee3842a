package graph

import (
	"github.com/Carmen-Shannon/graphite-go/render/resource"
	"github.com/mokiat/gog/opt"
)

// RenderPass is the contract the executor exposes to draw targets while a
// pass is open. All methods must be called on the render thread, between the
// pass being begun and ended by the executor.
type RenderPass interface {
	// SetVertexBuffer binds a registry buffer to a vertex buffer slot.
	//
	// Parameters:
	//   - slot: the vertex buffer slot index
	//   - h: the handle of the buffer to bind
	//   - offset: the byte offset into the buffer
	SetVertexBuffer(slot uint32, h resource.Handle, offset uint64)

	// SetIndexBuffer binds a registry buffer as the index buffer. Indices are
	// 16-bit unsigned.
	//
	// Parameters:
	//   - h: the handle of the buffer to bind
	//   - offset: the byte offset into the buffer
	SetIndexBuffer(h resource.Handle, offset uint64)

	// DrawIndexed issues an indexed draw over the currently bound buffers.
	//
	// Parameters:
	//   - firstIndex: the first index to read from the index buffer
	//   - indexCount: the number of indices to draw
	//   - baseVertex: the value added to each index before indexing the vertex buffers
	//   - firstInstance: the first instance to draw
	//   - instanceCount: the number of instances to draw
	DrawIndexed(firstIndex, indexCount uint32, baseVertex int32, firstInstance, instanceCount uint32)

	// SetBindGroups binds every bind group of the currently bound pipeline.
	// For each binding flagged dynamic, the per-entity byte offset is looked
	// up in the dynamic uniform index and passed to the bind call, in binding
	// declaration order.
	//
	// Parameters:
	//   - entity: the draw entity whose dynamic offsets apply, unspecified for draws without dynamic bindings
	//
	// Returns:
	//   - error: a resource.MissingOffsetError if a dynamic binding has no offset for the entity
	SetBindGroups(entity opt.T[resource.EntityID]) error

	// Registry returns the resource registry, letting draw targets consult
	// resource metadata such as instance counts.
	//
	// Returns:
	//   - resource.Registry: the registry owned by the executor
	Registry() resource.Registry
}

// DrawTarget issues draw calls for one pipeline within an open pass. Targets
// are registered on the graph by name and referenced by pipeline descriptors;
// the executor invokes each of a pipeline's targets once per pass the
// pipeline is assigned to. A returned error aborts the frame.
type DrawTarget func(pass RenderPass, pipelineKey string) error
