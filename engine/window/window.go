package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects which graphics API the window prepares its surface for.
type ClientAPI int

const (
	// ClientAPIOpenGL creates an OpenGL 4.1 core context with a depth buffer.
	ClientAPIOpenGL ClientAPI = iota

	// ClientAPINone creates no context; the surface is handed to WebGPU.
	ClientAPINone
)

// Window is the platform window the viewer draws into. It owns the event loop and forwards
// input to the registered callbacks.
type Window interface {
	// SetUpdateCallback sets the function called once per iteration of the event loop,
	// after pending events have been processed.
	//
	// Parameters:
	//   - callback: the per-frame function
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer size changes.
	//
	// Parameters:
	//   - callback: receives the new framebuffer width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the function called on key press and repeat.
	//
	// Parameters:
	//   - callback: receives the key code (see common/key_codes.go)
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the function called on key release.
	//
	// Parameters:
	//   - callback: receives the key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// SetDropCallback sets the function called when files are dropped onto the window.
	//
	// Parameters:
	//   - callback: receives the dropped paths
	SetDropCallback(callback func(paths []string))

	// SetTitle changes the window title.
	//
	// Parameters:
	//   - title: the new title
	SetTitle(title string)

	// ClientAPI returns the graphics API the window was created for.
	//
	// Returns:
	//   - ClientAPI: the client API
	ClientAPI() ClientAPI

	// SurfaceDescriptor returns the descriptor WebGPU needs to create a surface for this window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// MakeContextCurrent binds the window's OpenGL context to the calling thread.
	// It does nothing for a window without a context.
	//
	// Returns:
	//   - error: an error if the window has been closed
	MakeContextCurrent() error

	// DetachContext unbinds whatever OpenGL context is current on the calling thread.
	DetachContext()

	// SwapBuffers presents the back buffer of the OpenGL context.
	SwapBuffers()

	// SetSwapInterval sets the number of vertical blanks to wait before swapping.
	// The context must be current.
	//
	// Parameters:
	//   - interval: 1 for vsync, 0 for uncapped
	SetSwapInterval(interval int)

	// IsRunning reports whether the window is still open.
	//
	// Returns:
	//   - bool: false once the window was asked to close
	IsRunning() bool

	// RequestClose asks the event loop to stop after the current iteration. The window stays
	// alive, with its context, until Close.
	RequestClose()

	// Close destroys the window and terminates the platform layer.
	//
	// Returns:
	//   - error: an error if the window was never initialized
	Close() error

	// ProcessMessages runs the event loop until the window closes.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

type engineWindow struct {
	title string

	width  int
	height int

	clientAPI ClientAPI
	samples   int

	internalWindow any

	onUpdate  func()
	onResize  func(width, height int)
	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
	onDrop    func(paths []string)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a platform window.
//
// Parameters:
//   - options: a variadic list of WindowBuilderOption functions
//
// Returns:
//   - Window: the new window
//   - error: an error if the platform layer or the window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-view",
		width:     800,
		height:    800,
		clientAPI: ClientAPIOpenGL,
		samples:   4,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetDropCallback(callback func(paths []string)) {
	w.onDrop = callback
}

func (w *engineWindow) SetTitle(title string) {
	w.title = title
	platformSetTitle(w, title)
}

func (w *engineWindow) ClientAPI() ClientAPI {
	return w.clientAPI
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) MakeContextCurrent() error {
	return platformMakeContextCurrent(w)
}

func (w *engineWindow) DetachContext() {
	platformDetachContext(w)
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) SetSwapInterval(interval int) {
	platformSetSwapInterval(w, interval)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
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

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}
