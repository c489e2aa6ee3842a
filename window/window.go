package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window is the presentation surface host for the renderer. It wraps a
// platform window behind a common interface: the renderer takes its surface
// descriptor and extents at construction, and the application drives the
// frame loop from the window's message loop.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	// The frame loop (ProcessRenderGraph + Present) usually lives here.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is
	// resized. The callback receives pixel extents suitable for surface
	// reconfiguration.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current framebuffer width in pixels.
	//
	// Returns:
	//   - uint32: width in pixels
	Width() uint32

	// Height returns the current framebuffer height in pixels.
	//
	// Returns:
	//   - uint32: height in pixels
	Height() uint32
}

// presentationWindow is the implementation of the Window interface.
type presentationWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width and height are the current framebuffer extents in pixels.
	width  uint32
	height uint32

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the framebuffer is resized.
	onResize func(width, height uint32)
}

var _ Window = &presentationWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window, already spawned
func NewWindow(options ...WindowBuilderOption) Window {
	w := &presentationWindow{
		title:  "graphite",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("window: failed to create platform window: %v", err))
	}
	return w
}

func (w *presentationWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *presentationWindow) SetResizeCallback(callback func(width, height uint32)) {
	w.onResize = callback
}

func (w *presentationWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *presentationWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *presentationWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *presentationWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *presentationWindow) Width() uint32 {
	return w.width
}

func (w *presentationWindow) Height() uint32 {
	return w.height
}
