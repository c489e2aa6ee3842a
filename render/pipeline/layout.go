package pipeline

import (
	"encoding/binary"
	"hash/fnv"
	"sort"

	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BindKind identifies which variant of a BindType is in effect.
type BindKind int

const (
	// BindKindUniform is a uniform buffer binding.
	BindKindUniform BindKind = iota

	// BindKindBuffer is a storage buffer binding.
	BindKindBuffer

	// BindKindSampledTexture is a sampled texture binding.
	BindKindSampledTexture

	// BindKindSampler is a sampler binding.
	BindKindSampler

	// BindKindStorageTexture is a storage texture binding.
	BindKindStorageTexture
)

// UniformProperty describes a single member of a uniform block, with its byte
// placement inside the block.
type UniformProperty struct {
	// Name is the member name as declared in the shader.
	Name string
	// Offset is the member's byte offset within the block.
	Offset uint64
	// Size is the member's byte size.
	Size uint64
}

// BindType describes the GPU-facing shape of a single binding. Kind selects
// the variant; only that variant's fields carry meaning.
type BindType struct {
	// Kind selects the variant.
	Kind BindKind

	// Dynamic marks uniform and storage buffer bindings that take a per-draw
	// dynamic offset.
	Dynamic bool
	// Size is the declared byte size of uniform and storage buffer bindings.
	Size uint64
	// Properties lists the members of a uniform block.
	Properties []UniformProperty
	// ReadOnly marks storage buffers declared without write access.
	ReadOnly bool

	// Dimension is the view dimension of sampled and storage textures.
	Dimension wgpu.TextureViewDimension
	// Multisampled marks multisampled sampled textures.
	Multisampled bool
	// SampleType is the sample type of sampled textures.
	SampleType wgpu.TextureSampleType

	// Comparison marks comparison samplers.
	Comparison bool

	// Format is the texel format of storage textures.
	Format wgpu.TextureFormat
	// Access is the access mode of storage textures.
	Access wgpu.StorageTextureAccess
}

// UniformSize returns the declared byte size of a uniform binding.
//
// Returns:
//   - uint64: the uniform block's byte size
//   - bool: false when the bind type is not a uniform
func (t BindType) UniformSize() (uint64, bool) {
	if t.Kind != BindKindUniform {
		return 0, false
	}
	return t.Size, true
}

// Binding is one named slot within a bind group.
type Binding struct {
	// Name is the resource name the binding resolves through at draw time.
	Name string
	// Index is the @binding index within the group.
	Index uint32
	// Type is the binding's GPU-facing shape.
	Type BindType
}

// BindGroupDescriptor is the layout of one bind group: its group index and the
// ordered set of bindings it holds.
type BindGroupDescriptor struct {
	// Index is the @group index.
	Index uint32
	// Bindings is ordered by binding index.
	Bindings []Binding
}

// Hash returns a structural FNV-1a hash of the descriptor. Two descriptors
// with identical group index and binding sets (names, indices, bind types,
// dynamic flags) hash equal; differing sets differ. The hash keys the
// bind-group-layout and bind-group caches.
//
// Returns:
//   - uint64: the structural hash
func (d BindGroupDescriptor) Hash() uint64 {
	h := fnv.New64a()
	var scratch [8]byte
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(scratch[:], v)
		h.Write(scratch[:])
	}
	writeString := func(s string) {
		writeUint(uint64(len(s)))
		h.Write([]byte(s))
	}
	writeBool := func(b bool) {
		if b {
			writeUint(1)
		} else {
			writeUint(0)
		}
	}

	writeUint(uint64(d.Index))
	for _, b := range d.Bindings {
		writeString(b.Name)
		writeUint(uint64(b.Index))
		writeUint(uint64(b.Type.Kind))
		writeBool(b.Type.Dynamic)
		writeUint(b.Type.Size)
		writeUint(uint64(len(b.Type.Properties)))
		for _, p := range b.Type.Properties {
			writeString(p.Name)
			writeUint(p.Offset)
			writeUint(p.Size)
		}
		writeBool(b.Type.ReadOnly)
		writeUint(uint64(b.Type.Dimension))
		writeBool(b.Type.Multisampled)
		writeUint(uint64(b.Type.SampleType))
		writeBool(b.Type.Comparison)
		writeUint(uint64(b.Type.Format))
		writeUint(uint64(b.Type.Access))
	}
	return h.Sum64()
}

// PipelineLayout is the ordered list of bind groups a pipeline binds, lowest
// group index first.
type PipelineLayout struct {
	BindGroups []BindGroupDescriptor
}

// MergeShaderLayouts folds the reflected binding declarations of one or more
// shader stages into a unified pipeline layout. A binding referenced by
// multiple stages appears once; groups and the bindings inside each group are
// ordered by index. Stage visibility is not tracked per binding because every
// merged binding is exposed to both the vertex and fragment stages.
//
// Parameters:
//   - stages: the reflected declarations of each stage, vertex first
//
// Returns:
//   - PipelineLayout: the merged layout
func MergeShaderLayouts(stages ...[]shader.BindingDecl) PipelineLayout {
	groups := make(map[uint32]map[uint32]Binding)
	for _, decls := range stages {
		for _, decl := range decls {
			bindings, ok := groups[decl.Group]
			if !ok {
				bindings = make(map[uint32]Binding)
				groups[decl.Group] = bindings
			}
			if _, exists := bindings[decl.Binding]; exists {
				continue
			}
			bindings[decl.Binding] = bindingFromDecl(decl)
		}
	}

	groupIndices := make([]uint32, 0, len(groups))
	for idx := range groups {
		groupIndices = append(groupIndices, idx)
	}
	sort.Slice(groupIndices, func(i, j int) bool { return groupIndices[i] < groupIndices[j] })

	layout := PipelineLayout{BindGroups: make([]BindGroupDescriptor, 0, len(groupIndices))}
	for _, groupIdx := range groupIndices {
		bindings := groups[groupIdx]
		ordered := make([]Binding, 0, len(bindings))
		for _, b := range bindings {
			ordered = append(ordered, b)
		}
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].Index < ordered[j].Index })
		layout.BindGroups = append(layout.BindGroups, BindGroupDescriptor{
			Index:    groupIdx,
			Bindings: ordered,
		})
	}
	return layout
}

// bindingFromDecl converts one reflected declaration into a layout binding.
func bindingFromDecl(decl shader.BindingDecl) Binding {
	var t BindType
	switch decl.Kind {
	case shader.BindingKindUniform:
		t.Kind = BindKindUniform
		t.Size = decl.Size
		if len(decl.Fields) > 0 {
			t.Properties = make([]UniformProperty, 0, len(decl.Fields))
			for _, f := range decl.Fields {
				t.Properties = append(t.Properties, UniformProperty{
					Name:   f.Name,
					Offset: f.Offset,
					Size:   f.Size,
				})
			}
		}
	case shader.BindingKindStorageBuffer:
		t.Kind = BindKindBuffer
		t.Size = decl.Size
		t.ReadOnly = decl.ReadOnly
	case shader.BindingKindSampledTexture:
		t.Kind = BindKindSampledTexture
		t.Dimension = decl.Dimension
		t.Multisampled = decl.Multisampled
		t.SampleType = decl.SampleType
	case shader.BindingKindSampler:
		t.Kind = BindKindSampler
		t.Comparison = decl.Comparison
	case shader.BindingKindStorageTexture:
		t.Kind = BindKindStorageTexture
		t.Dimension = decl.Dimension
		t.Format = decl.Format
		t.Access = decl.Access
	}
	return Binding{Name: decl.Name, Index: decl.Binding, Type: t}
}
