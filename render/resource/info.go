package resource

import "github.com/cogentcore/webgpu/wgpu"

// Info describes a tracked GPU resource. It is a closed union: exactly
// BufferInfo, InstanceBufferInfo, and TextureInfo implement it. Callers
// recover the concrete variant with a type switch.
type Info interface {
	isInfo()
}

// BufferInfo describes a plain GPU buffer.
type BufferInfo struct {
	// Usage records the buffer's declared usage flags.
	Usage wgpu.BufferUsage

	// Size is the buffer's byte size.
	Size uint64
}

// InstanceBufferInfo describes a buffer holding per-instance data for a mesh.
// The draw path reads Count to issue instanced draws without touching the
// buffer contents.
type InstanceBufferInfo struct {
	// Usage records the buffer's declared usage flags.
	Usage wgpu.BufferUsage

	// Size is the buffer's byte size.
	Size uint64

	// Count is the number of instances the buffer holds.
	Count uint64

	// MeshID identifies the mesh asset these instances belong to.
	MeshID uint64
}

// TextureInfo describes a texture resource. The descriptor used to create the
// texture carries the interesting detail; the info only marks the handle as a
// texture so removal and diagnostics can tell the classes apart.
type TextureInfo struct{}

// SamplerInfo describes a sampler resource. Like TextureInfo it only marks the
// handle's class.
type SamplerInfo struct{}

func (BufferInfo) isInfo()         {}
func (InstanceBufferInfo) isInfo() {}
func (TextureInfo) isInfo()       {}
func (SamplerInfo) isInfo()       {}

// DynamicUniformAlignment is the byte alignment of each entity's slice within a
// shared dynamic uniform buffer, matching wgpu's min_uniform_buffer_offset_alignment.
const DynamicUniformAlignment uint64 = 256

// DynamicUniformBufferInfo records how a shared dynamic uniform buffer is
// partitioned: one aligned slice per entity, addressed at bind time through
// a dynamic offset rather than a separate buffer per entity.
type DynamicUniformBufferInfo struct {
	// Size is the unaligned byte size of one entity's data.
	Size uint64

	// Count is the number of entity slices currently packed in the buffer.
	Count uint64

	// Capacity is the allocated byte size of the underlying buffer. The buffer
	// is only reallocated when the packed size would exceed it.
	Capacity uint64

	// Offsets maps each entity to the byte offset of its slice. Every offset is
	// a multiple of DynamicUniformAlignment.
	Offsets map[EntityID]uint64
}

// NewDynamicUniformBufferInfo creates an empty DynamicUniformBufferInfo.
//
// Returns:
//   - *DynamicUniformBufferInfo: info with an initialized offset table
func NewDynamicUniformBufferInfo() *DynamicUniformBufferInfo {
	return &DynamicUniformBufferInfo{
		Offsets: make(map[EntityID]uint64),
	}
}
