package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlesAreMonotonic(t *testing.T) {
	prev := NewHandle()
	for range 100 {
		next := NewHandle()
		assert.Greater(t, next, prev)
		prev = next
	}
}

func TestHandlesNeverRepeatUnderConcurrency(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 1000

	results := make([][]Handle, goroutines)
	var wg sync.WaitGroup
	for g := range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := make([]Handle, 0, perGoroutine)
			for range perGoroutine {
				out = append(out, NewHandle())
			}
			results[g] = out
		}()
	}
	wg.Wait()

	seen := make(map[Handle]bool, goroutines*perGoroutine)
	for _, out := range results {
		for _, h := range out {
			require.False(t, seen[h], "handle %d issued twice", h)
			seen[h] = true
		}
	}
}

func TestZeroHandleIsNeverIssued(t *testing.T) {
	for range 100 {
		assert.NotZero(t, NewHandle())
	}
}

func TestInfoUnionVariants(t *testing.T) {
	infos := []Info{
		BufferInfo{Size: 64},
		InstanceBufferInfo{Size: 128, Count: 4, MeshID: 7},
		TextureInfo{},
	}

	var buffers, instances, textures int
	for _, info := range infos {
		switch v := info.(type) {
		case BufferInfo:
			buffers++
			assert.Equal(t, uint64(64), v.Size)
		case InstanceBufferInfo:
			instances++
			assert.Equal(t, uint64(4), v.Count)
			assert.Equal(t, uint64(7), v.MeshID)
		case TextureInfo:
			textures++
		}
	}
	assert.Equal(t, 1, buffers)
	assert.Equal(t, 1, instances)
	assert.Equal(t, 1, textures)
}

func TestNewDynamicUniformBufferInfo(t *testing.T) {
	info := NewDynamicUniformBufferInfo()
	require.NotNil(t, info.Offsets)
	assert.Zero(t, info.Size)
	assert.Zero(t, info.Count)
}
