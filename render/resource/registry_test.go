package resource

import (
	"encoding/binary"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRegistry acquires a real device, skipping when the host has no usable
// GPU (headless CI without Vulkan/Metal).
func newTestRegistry(t *testing.T) Registry {
	t.Helper()

	instance := wgpu.CreateInstance(nil)
	if instance == nil {
		t.Skip("webgpu instance unavailable")
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		t.Skipf("no GPU adapter available: %v", err)
	}
	device, err := adapter.RequestDevice(nil)
	if err != nil {
		t.Skipf("no GPU device available: %v", err)
	}

	reg := NewRegistry(device, device.GetQueue())
	t.Cleanup(reg.Release)
	return reg
}

// testDevice recovers the registry's device for tests that need an encoder.
func testDevice(reg Registry) *wgpu.Device {
	return reg.(*registry).device
}

func TestCreateBufferTracksInfo(t *testing.T) {
	reg := newTestRegistry(t)

	h := reg.CreateBuffer(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, 256)

	info, ok := reg.ResourceInfo(h)
	require.True(t, ok)
	bufInfo, ok := info.(BufferInfo)
	require.True(t, ok)
	assert.Equal(t, uint64(256), bufInfo.Size)
	assert.Equal(t, wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, bufInfo.Usage)
	assert.NotNil(t, reg.BufferFor(h))
}

func TestCreateBufferWithDataSizesFromData(t *testing.T) {
	reg := newTestRegistry(t)

	data := make([]byte, 48)
	h := reg.CreateBufferWithData(wgpu.BufferUsageVertex, data)

	info, ok := reg.ResourceInfo(h)
	require.True(t, ok)
	assert.Equal(t, uint64(48), info.(BufferInfo).Size)
}

func TestCreateBufferMappedRunsSetup(t *testing.T) {
	reg := newTestRegistry(t)

	var sawLen int
	h := reg.CreateBufferMapped(wgpu.BufferUsageStorage, 128, func(data []byte) {
		sawLen = len(data)
		for i := range data {
			data[i] = byte(i)
		}
	})

	assert.Equal(t, 128, sawLen)
	assert.NotNil(t, reg.BufferFor(h))
}

func TestInstanceBufferInfoRoundTrip(t *testing.T) {
	reg := newTestRegistry(t)

	h := reg.CreateInstanceBuffer(wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst, 1024, 16, 3)

	info, ok := reg.ResourceInfo(h)
	require.True(t, ok)
	instInfo, ok := info.(InstanceBufferInfo)
	require.True(t, ok)
	assert.Equal(t, uint64(16), instInfo.Count)
	assert.Equal(t, uint64(3), instInfo.MeshID)
	assert.Equal(t, uint64(1024), instInfo.Size)
}

func TestRemoveBufferRetiresHandle(t *testing.T) {
	reg := newTestRegistry(t)

	h := reg.CreateBuffer(wgpu.BufferUsageUniform, 64)
	reg.SetNamedResource("Camera", h)
	reg.RemoveBuffer(h)

	_, ok := reg.ResourceInfo(h)
	assert.False(t, ok)
	assert.Nil(t, reg.BufferFor(h))

	// The named table still holds the stale binding; lookups surface the gap.
	stale, ok := reg.NamedResource("Camera")
	require.True(t, ok)
	assert.Equal(t, h, stale)
	assert.Nil(t, reg.BufferFor(stale))

	// The handle is retired: a new resource gets a different one.
	h2 := reg.CreateBuffer(wgpu.BufferUsageUniform, 64)
	assert.NotEqual(t, h, h2)
}

func TestRemoveBufferUnknownHandlePanics(t *testing.T) {
	reg := newTestRegistry(t)

	assert.Panics(t, func() {
		reg.RemoveBuffer(Handle(99999999))
	})
}

func TestNamedResourceLastWriterWins(t *testing.T) {
	reg := newTestRegistry(t)

	first := reg.CreateBuffer(wgpu.BufferUsageUniform, 64)
	second := reg.CreateBuffer(wgpu.BufferUsageUniform, 64)

	reg.SetNamedResource("Lights", first)
	reg.SetNamedResource("Lights", second)

	h, ok := reg.NamedResource("Lights")
	require.True(t, ok)
	assert.Equal(t, second, h)

	_, ok = reg.NamedResource("Missing")
	assert.False(t, ok)
}

func TestCopyBufferToBufferRequiresEncoder(t *testing.T) {
	reg := newTestRegistry(t)

	src := reg.CreateBufferWithData(wgpu.BufferUsageCopySrc, make([]byte, 32))
	dst := reg.CreateBuffer(wgpu.BufferUsageCopyDst, 32)

	assert.Panics(t, func() {
		reg.CopyBufferToBuffer(src, 0, dst, 0, 32)
	})
}

func TestCopyBufferToBufferRecordsIntoEncoder(t *testing.T) {
	reg := newTestRegistry(t)

	src := reg.CreateBufferWithData(wgpu.BufferUsageCopySrc, make([]byte, 32))
	dst := reg.CreateBuffer(wgpu.BufferUsageCopyDst, 32)

	encoder, err := testDevice(reg).CreateCommandEncoder(nil)
	require.NoError(t, err)
	reg.SetEncoder(encoder)
	defer reg.SetEncoder(nil)

	assert.NotPanics(t, func() {
		reg.CopyBufferToBuffer(src, 0, dst, 0, 32)
	})

	cmd, err := encoder.Finish(nil)
	require.NoError(t, err)
	reg.(*registry).queue.Submit(cmd)
}

func TestCreateTextureWithDataRequiresEncoder(t *testing.T) {
	reg := newTestRegistry(t)

	desc := &wgpu.TextureDescriptor{
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: 2, Height: 2, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	}

	assert.Panics(t, func() {
		reg.CreateTextureWithData(desc, make([]byte, 16))
	})
}

func TestCreateTextureWithDataStagesThroughEncoder(t *testing.T) {
	reg := newTestRegistry(t)

	encoder, err := testDevice(reg).CreateCommandEncoder(nil)
	require.NoError(t, err)
	reg.SetEncoder(encoder)

	desc := &wgpu.TextureDescriptor{
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension:     wgpu.TextureDimension2D,
		Size:          wgpu.Extent3D{Width: 2, Height: 2, DepthOrArrayLayers: 1},
		Format:        wgpu.TextureFormatRGBA8Unorm,
		MipLevelCount: 1,
		SampleCount:   1,
	}
	h := reg.CreateTextureWithData(desc, make([]byte, 16))

	info, ok := reg.ResourceInfo(h)
	require.True(t, ok)
	assert.IsType(t, TextureInfo{}, info)
	assert.NotNil(t, reg.TextureViewFor(h))

	cmd, err := encoder.Finish(nil)
	require.NoError(t, err)
	reg.(*registry).queue.Submit(cmd)
	reg.SetEncoder(nil)
	reg.ReleaseStagingBuffers()
}

func TestStageDynamicUniformsBookkeeping(t *testing.T) {
	reg := newTestRegistry(t)

	entities := []EntityID{10, 20, 30}
	h, err := reg.StageDynamicUniforms("Transform", 68, entities, func(e EntityID, out []byte) {
		require.Len(t, out, 68)
		binary.LittleEndian.PutUint32(out, uint32(e))
	})
	require.NoError(t, err)

	assert.True(t, reg.IsDynamicUniform("Transform"))

	bound, ok := reg.NamedResource("Transform")
	require.True(t, ok)
	assert.Equal(t, h, bound)

	info, ok := reg.DynamicUniformInfo(h)
	require.True(t, ok)
	assert.Equal(t, uint64(68), info.Size)
	assert.Equal(t, uint64(3), info.Count)
	assert.Equal(t, uint64(768), info.Capacity)

	for i, e := range entities {
		offset, ok := reg.DynamicOffset("Transform", e)
		require.True(t, ok)
		assert.Equal(t, uint32(i)*256, offset)
	}

	_, ok = reg.DynamicOffset("Transform", EntityID(999))
	assert.False(t, ok)
}

func TestStageDynamicUniformsReusesBufferWhenItFits(t *testing.T) {
	reg := newTestRegistry(t)

	first, err := reg.StageDynamicUniforms("Transform", 64, []EntityID{1, 2, 3}, func(EntityID, []byte) {})
	require.NoError(t, err)

	// Fewer entities fit in the existing allocation; the handle survives.
	second, err := reg.StageDynamicUniforms("Transform", 64, []EntityID{1}, func(EntityID, []byte) {})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	info, ok := reg.DynamicUniformInfo(second)
	require.True(t, ok)
	assert.Equal(t, uint64(1), info.Count)
	_, ok = reg.DynamicOffset("Transform", EntityID(3))
	assert.False(t, ok, "offsets from the previous frame should be dropped")
}

func TestStageDynamicUniformsGrowsBuffer(t *testing.T) {
	reg := newTestRegistry(t)

	first, err := reg.StageDynamicUniforms("Transform", 64, []EntityID{1}, func(EntityID, []byte) {})
	require.NoError(t, err)

	entities := make([]EntityID, 16)
	for i := range entities {
		entities[i] = EntityID(i + 1)
	}
	second, err := reg.StageDynamicUniforms("Transform", 64, entities, func(EntityID, []byte) {})
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "growth allocates a fresh buffer and handle")
	_, ok := reg.ResourceInfo(first)
	assert.False(t, ok, "the outgrown buffer is removed")

	bound, ok := reg.NamedResource("Transform")
	require.True(t, ok)
	assert.Equal(t, second, bound)
}

func TestIsDynamicUniformFalseForPlainBuffers(t *testing.T) {
	reg := newTestRegistry(t)

	h := reg.CreateBuffer(wgpu.BufferUsageUniform, 64)
	reg.SetNamedResource("Material", h)

	assert.False(t, reg.IsDynamicUniform("Material"))
	assert.False(t, reg.IsDynamicUniform("Unbound"))
}

func TestWriteBuffersSkipsMissingTargets(t *testing.T) {
	reg := newTestRegistry(t)

	h := reg.CreateBuffer(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, 64)

	assert.NotPanics(t, func() {
		reg.WriteBuffers([]BufferWrite{
			{Target: h, Offset: 0, Data: make([]byte, 64)},
			{Target: Handle(424242), Offset: 0, Data: make([]byte, 4)},
		})
	})
}
