package resource

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/automation/tools/worker"
	graphite "github.com/Carmen-Shannon/graphite-go"
	"github.com/Carmen-Shannon/graphite-go/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// BufferWrite describes a single GPU buffer write operation targeting a tracked
// buffer at a given byte offset. Callers collect writes across a frame and
// submit them together through Registry.WriteBuffers.
type BufferWrite struct {
	Target Handle
	Offset uint64
	Data   []byte
}

func (r *registry) StageDynamicUniforms(name string, size uint64, entities []EntityID, fill func(entity EntityID, out []byte)) (Handle, error) {
	if size == 0 {
		panic("resource: StageDynamicUniforms requires size > 0")
	}

	aligned := common.AlignUp(size, DynamicUniformAlignment)
	count := uint64(len(entities))
	needed := aligned * count

	r.mu.RLock()
	h, bound := r.named[name]
	var capacity uint64
	if bound {
		info, isDynamic := r.dynamic[h]
		if isDynamic {
			capacity = info.Capacity
		} else {
			// The name points at an ordinary resource; replace the binding
			// rather than adopt a buffer with unknown usage flags.
			bound = false
		}
	}
	r.mu.RUnlock()

	if !bound || capacity < needed {
		if bound {
			r.RemoveBuffer(h)
		}
		capacity = max(needed, aligned)
		h = r.CreateBuffer(wgpu.BufferUsageUniform|wgpu.BufferUsageCopyDst, capacity)
		r.SetNamedResource(name, h)
		graphite.Logger().Debug("allocated dynamic uniform buffer",
			"name", name,
			"capacity", capacity,
			"entities", count)
	}

	// Phase 1: parallel CPU pack — each entity's fill runs on the worker pool,
	// writing into its disjoint slice of the slab. A WaitGroup provides the
	// frame barrier since the pool itself only idles workers out.
	slab := make([]byte, needed)
	var wg sync.WaitGroup
	for i, e := range entities {
		wg.Add(1)
		entity := e
		out := slab[uint64(i)*aligned : uint64(i)*aligned+size]
		r.stagePool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				fill(entity, out)
				return nil, nil
			},
		})
	}
	wg.Wait()

	info := NewDynamicUniformBufferInfo()
	info.Size = size
	info.Count = count
	info.Capacity = capacity
	for i, e := range entities {
		info.Offsets[e] = uint64(i) * aligned
	}
	r.SetDynamicUniformInfo(h, info)

	// Phase 2: single coalesced GPU write for the whole slab.
	if count > 0 {
		if err := r.WriteBuffer(h, 0, slab); err != nil {
			return h, fmt.Errorf("resource: stage dynamic uniforms %q: %w", name, err)
		}
	}

	return h, nil
}
