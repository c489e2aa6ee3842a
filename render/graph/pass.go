package graph

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/mokiat/gog/opt"
)

// SwapChainAttachment is the reserved attachment name that resolves to the
// view of the presentation frame acquired for the current tick. Every other
// attachment name resolves through the resource registry's named table.
const SwapChainAttachment = "swap_chain"

// ColorAttachment declares one color target of a pass by resource name.
type ColorAttachment struct {
	// Name is SwapChainAttachment or the name of a registered texture.
	Name string
	// LoadOp selects whether the attachment is cleared or loaded at pass start.
	LoadOp wgpu.LoadOp
	// StoreOp selects whether results are stored at pass end.
	StoreOp wgpu.StoreOp
	// ClearColor is the clear value used with wgpu.LoadOpClear; unspecified
	// clears to opaque black.
	ClearColor opt.T[wgpu.Color]
}

// DepthStencilAttachment declares the depth target of a pass by resource name.
type DepthStencilAttachment struct {
	// Name is the name of a registered depth texture.
	Name string
	// DepthLoadOp selects whether depth is cleared or loaded at pass start.
	DepthLoadOp wgpu.LoadOp
	// DepthStoreOp selects whether depth is stored at pass end.
	DepthStoreOp wgpu.StoreOp
	// ClearDepth is the clear value used with wgpu.LoadOpClear.
	ClearDepth float32
}

// PassDescriptor declares one render pass: its attachments by name, in the
// order the executor runs them.
type PassDescriptor struct {
	// Name identifies the pass in errors and labels.
	Name string
	// ColorAttachments are bound in declaration order.
	ColorAttachments []ColorAttachment
	// DepthStencil is the optional depth attachment.
	DepthStencil opt.T[DepthStencilAttachment]
}

// DefaultColorAttachment returns a ColorAttachment that clears the
// presentation frame to the given color and stores the result.
//
// Parameters:
//   - clear: the clear color for the attachment
//
// Returns:
//   - ColorAttachment: an attachment targeting the swap chain
func DefaultColorAttachment(clear wgpu.Color) ColorAttachment {
	return ColorAttachment{
		Name:       SwapChainAttachment,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearColor: opt.V(clear),
	}
}
