package shader

import "github.com/cogentcore/webgpu/wgpu"

// BindingKind classifies a reflected resource declaration.
type BindingKind uint8

const (
	// BindingKindUniform is a var<uniform> buffer binding.
	BindingKindUniform BindingKind = iota

	// BindingKindStorageBuffer is a var<storage> buffer binding, read-only or read-write.
	BindingKindStorageBuffer

	// BindingKindSampledTexture is a texture_* handle binding sampled in shaders.
	BindingKindSampledTexture

	// BindingKindSampler is a sampler or sampler_comparison handle binding.
	BindingKindSampler

	// BindingKindStorageTexture is a texture_storage_* handle binding.
	BindingKindStorageTexture
)

// StructField describes one member of a reflected WGSL struct, with its
// resolved byte offset and size per WGSL layout rules.
type StructField struct {
	// Name is the member name as written in the struct body.
	Name string

	// Offset is the member's byte offset within the struct.
	Offset uint64

	// Size is the member's byte size.
	Size uint64
}

// BindingDecl is one reflected @group(N) @binding(M) declaration from WGSL
// source. It carries everything the layout resolver needs to build a binding
// description without re-reading the source.
type BindingDecl struct {
	// Group is the bind group index from @group(N).
	Group uint32

	// Binding is the binding index from @binding(M).
	Binding uint32

	// Name is the declared variable name, used to match named resources.
	Name string

	// Kind classifies the resource category.
	Kind BindingKind

	// ReadOnly reports whether a storage buffer binding was declared
	// var<storage, read>. Only meaningful for BindingKindStorageBuffer.
	ReadOnly bool

	// Size is the resolved byte size of the bound type for buffer bindings.
	// For runtime-sized arrays this is the element stride.
	Size uint64

	// Fields lists the bound struct's members for uniform bindings, in
	// declaration order. Nil for non-struct and non-buffer bindings.
	Fields []StructField

	// Dimension is the texture view dimension for texture bindings.
	Dimension wgpu.TextureViewDimension

	// Multisampled reports whether a sampled texture binding is multisampled.
	Multisampled bool

	// SampleType is the sample type for sampled texture bindings.
	SampleType wgpu.TextureSampleType

	// Format is the texel format for storage texture bindings.
	Format wgpu.TextureFormat

	// Access is the access mode for storage texture bindings.
	Access wgpu.StorageTextureAccess

	// Comparison reports whether a sampler binding is a comparison sampler.
	Comparison bool
}

// vertexFormatInfo holds the wgpu vertex format and its byte size for offset calculation
type vertexFormatInfo struct {
	format wgpu.VertexFormat
	size   uint64
}

// sampledTextureInfo holds the view dimension and multisampled flag for a sampled texture type
type sampledTextureInfo struct {
	viewDimension wgpu.TextureViewDimension
	multisampled  bool
}

// wgslTypeLayout holds the byte size and alignment for a WGSL type per the WGSL specification.
// Used to size buffer bindings from their bound struct types.
type wgslTypeLayout struct {
	size  uint64
	align uint64
}

// parsedField represents a single field extracted from a WGSL struct during parsing
type parsedField struct {
	name      string
	typeName  string
	location  int
	isBuiltin bool
}

// parsedStruct represents a WGSL struct block extracted during parsing
type parsedStruct struct {
	name   string
	fields []parsedField
}
