// Package resource tracks every GPU object the renderer owns. A Registry maps
// opaque handles to wgpu buffers and texture views alongside descriptive metadata,
// maintains the name to handle table that shaders bind against, and owns the
// per-entity offset bookkeeping for shared dynamic uniform buffers.
package resource

import "sync/atomic"

var handleCounter atomic.Uint64

// Handle identifies one GPU resource tracked by a Registry. Handles are opaque,
// allocated from a process-wide monotonic counter, and never reused: removing a
// resource retires its handle permanently, so a stale handle can never silently
// alias a newer resource. The zero Handle is never allocated and can be used as
// a sentinel.
type Handle uint64

// NewHandle allocates the next Handle. Safe for concurrent use.
//
// Returns:
//   - Handle: a unique, never-before-issued handle
func NewHandle() Handle {
	return Handle(handleCounter.Add(1))
}

// EntityID identifies one drawable entity for per-entity uniform indexing.
// The renderer does not interpret these beyond map keys; applications assign them.
type EntityID uint32
