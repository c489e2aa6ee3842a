package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/graphite-go/render/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func baseBindGroup() BindGroupDescriptor {
	return BindGroupDescriptor{
		Index: 0,
		Bindings: []Binding{
			{
				Name:  "camera",
				Index: 0,
				Type: BindType{
					Kind: BindKindUniform,
					Size: 64,
					Properties: []UniformProperty{
						{Name: "view_proj", Offset: 0, Size: 64},
					},
				},
			},
			{
				Name:  "base_color_texture",
				Index: 1,
				Type: BindType{
					Kind:       BindKindSampledTexture,
					Dimension:  wgpu.TextureViewDimension2D,
					SampleType: wgpu.TextureSampleTypeFloat,
				},
			},
			{
				Name:  "base_color_sampler",
				Index: 2,
				Type:  BindType{Kind: BindKindSampler},
			},
		},
	}
}

func TestHashEqualForStructurallyIdenticalGroups(t *testing.T) {
	a := baseBindGroup()
	b := baseBindGroup()

	assert.Equal(t, a.Hash(), b.Hash())
}

func TestHashDiffersWhenStructureDiffers(t *testing.T) {
	base := baseBindGroup()

	tests := []struct {
		name   string
		mutate func(*BindGroupDescriptor)
	}{
		{"group index", func(d *BindGroupDescriptor) { d.Index = 1 }},
		{"binding name", func(d *BindGroupDescriptor) { d.Bindings[0].Name = "lights" }},
		{"binding index", func(d *BindGroupDescriptor) { d.Bindings[0].Index = 7 }},
		{"bind kind", func(d *BindGroupDescriptor) { d.Bindings[0].Type.Kind = BindKindBuffer }},
		{"dynamic flag", func(d *BindGroupDescriptor) { d.Bindings[0].Type.Dynamic = true }},
		{"uniform size", func(d *BindGroupDescriptor) { d.Bindings[0].Type.Size = 128 }},
		{"uniform properties", func(d *BindGroupDescriptor) {
			d.Bindings[0].Type.Properties[0].Name = "model"
		}},
		{"texture dimension", func(d *BindGroupDescriptor) {
			d.Bindings[1].Type.Dimension = wgpu.TextureViewDimensionCube
		}},
		{"multisampled flag", func(d *BindGroupDescriptor) {
			d.Bindings[1].Type.Multisampled = true
		}},
		{"sampler comparison", func(d *BindGroupDescriptor) {
			d.Bindings[2].Type.Comparison = true
		}},
		{"binding removed", func(d *BindGroupDescriptor) {
			d.Bindings = d.Bindings[:2]
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mutated := baseBindGroup()
			tt.mutate(&mutated)
			assert.NotEqual(t, base.Hash(), mutated.Hash())
		})
	}
}

func TestHashSensitiveToStorageBufferAccess(t *testing.T) {
	readWrite := BindGroupDescriptor{
		Index: 0,
		Bindings: []Binding{
			{Name: "particles", Index: 0, Type: BindType{Kind: BindKindBuffer, Size: 16}},
		},
	}
	readOnly := BindGroupDescriptor{
		Index: 0,
		Bindings: []Binding{
			{Name: "particles", Index: 0, Type: BindType{Kind: BindKindBuffer, Size: 16, ReadOnly: true}},
		},
	}

	assert.NotEqual(t, readWrite.Hash(), readOnly.Hash())
}

func TestMergeShaderLayoutsUnionsStages(t *testing.T) {
	vertexDecls := []shader.BindingDecl{
		{
			Group:   0,
			Binding: 0,
			Name:    "camera",
			Kind:    shader.BindingKindUniform,
			Size:    64,
			Fields:  []shader.StructField{{Name: "view_proj", Offset: 0, Size: 64}},
		},
		{
			Group:   1,
			Binding: 0,
			Name:    "model",
			Kind:    shader.BindingKindUniform,
			Size:    64,
			Fields:  []shader.StructField{{Name: "transform", Offset: 0, Size: 64}},
		},
	}
	fragmentDecls := []shader.BindingDecl{
		// camera is shared with the vertex stage and must appear once.
		{
			Group:   0,
			Binding: 0,
			Name:    "camera",
			Kind:    shader.BindingKindUniform,
			Size:    64,
			Fields:  []shader.StructField{{Name: "view_proj", Offset: 0, Size: 64}},
		},
		{
			Group:        0,
			Binding:      1,
			Name:         "base_color_texture",
			Kind:         shader.BindingKindSampledTexture,
			Dimension:    wgpu.TextureViewDimension2D,
			SampleType:   wgpu.TextureSampleTypeFloat,
			Multisampled: false,
		},
		{
			Group:   0,
			Binding: 2,
			Name:    "base_color_sampler",
			Kind:    shader.BindingKindSampler,
		},
	}

	got := MergeShaderLayouts(vertexDecls, fragmentDecls)

	want := PipelineLayout{
		BindGroups: []BindGroupDescriptor{
			{
				Index: 0,
				Bindings: []Binding{
					{
						Name:  "camera",
						Index: 0,
						Type: BindType{
							Kind:       BindKindUniform,
							Size:       64,
							Properties: []UniformProperty{{Name: "view_proj", Offset: 0, Size: 64}},
						},
					},
					{
						Name:  "base_color_texture",
						Index: 1,
						Type: BindType{
							Kind:       BindKindSampledTexture,
							Dimension:  wgpu.TextureViewDimension2D,
							SampleType: wgpu.TextureSampleTypeFloat,
						},
					},
					{
						Name:  "base_color_sampler",
						Index: 2,
						Type:  BindType{Kind: BindKindSampler},
					},
				},
			},
			{
				Index: 1,
				Bindings: []Binding{
					{
						Name:  "model",
						Index: 0,
						Type: BindType{
							Kind:       BindKindUniform,
							Size:       64,
							Properties: []UniformProperty{{Name: "transform", Offset: 0, Size: 64}},
						},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merged layout mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeShaderLayoutsOrdersGroupsByIndex(t *testing.T) {
	decls := []shader.BindingDecl{
		{Group: 2, Binding: 0, Name: "c", Kind: shader.BindingKindSampler},
		{Group: 0, Binding: 0, Name: "a", Kind: shader.BindingKindSampler},
		{Group: 1, Binding: 0, Name: "b", Kind: shader.BindingKindSampler},
	}

	layout := MergeShaderLayouts(decls)

	var indices []uint32
	var names []string
	for _, g := range layout.BindGroups {
		indices = append(indices, g.Index)
		names = append(names, g.Bindings[0].Name)
	}
	assert.Equal(t, []uint32{0, 1, 2}, indices)
	assert.Equal(t, []string{"a", "b", "c"}, names)
}

func TestMergeShaderLayoutsCarriesStorageTextureShape(t *testing.T) {
	decls := []shader.BindingDecl{
		{
			Group:     0,
			Binding:   0,
			Name:      "output_image",
			Kind:      shader.BindingKindStorageTexture,
			Dimension: wgpu.TextureViewDimension2D,
			Format:    wgpu.TextureFormatRGBA8Unorm,
			Access:    wgpu.StorageTextureAccessWriteOnly,
		},
	}

	layout := MergeShaderLayouts(decls)

	binding := layout.BindGroups[0].Bindings[0]
	assert.Equal(t, BindKindStorageTexture, binding.Type.Kind)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, binding.Type.Format)
	assert.Equal(t, wgpu.StorageTextureAccessWriteOnly, binding.Type.Access)
}

func TestUniformSize(t *testing.T) {
	uniform := BindType{Kind: BindKindUniform, Size: 80}
	size, ok := uniform.UniformSize()
	assert.True(t, ok)
	assert.Equal(t, uint64(80), size)

	sampler := BindType{Kind: BindKindSampler}
	_, ok = sampler.UniformSize()
	assert.False(t, ok)
}
