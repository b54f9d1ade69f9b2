package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/log"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/viewer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
)

// engine implements the Engine interface.
// Everything runs on the thread that created the window, which also owns the rendering context.
type engine struct {
	window window.Window
	viewer viewer.Viewer

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	onDemand         bool
	dirty            atomic.Bool

	reloads <-chan string

	quitOnce     sync.Once
	shutdownOnce sync.Once
}

// Engine drives a Viewer from a Window's event loop. Each iteration polls window events,
// reloads files reported as changed, and renders a frame. Keys 1 to 5 select shading variants,
// R reloads the current file, P toggles the profiler and dropped files are loaded.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Viewer returns the viewer the engine drives.
	//
	// Returns:
	//   - viewer.Viewer: the viewer instance
	Viewer() viewer.Viewer

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// RequestRedraw marks the next iteration as needing a frame. It only matters with
	// on-demand rendering; otherwise every iteration renders.
	RequestRedraw()

	// HandleKey performs the action bound to a key code.
	//
	// Parameters:
	//   - keyCode: the pressed key
	HandleKey(keyCode uint32)

	// HandleDrop loads the first dropped file.
	//
	// Parameters:
	//   - paths: the dropped files
	HandleDrop(paths []string)

	// Frame runs one loop iteration after events were polled: it drains pending reloads and
	// renders if a frame is due.
	Frame()

	// Run starts the main loop and blocks until the window closes. GPU resources, the viewer and
	// the window are released before it returns.
	Run()

	// Quit asks the main loop to stop. Safe to call multiple times.
	Quit()
}

// NewEngine creates a new Engine around a window and the viewer that draws into it, and wires
// the window's resize, key and drop callbacks to the viewer.
//
// Parameters:
//   - w: the window (must not be nil)
//   - v: the viewer (must not be nil)
//   - options: functional options for engine configuration (profiling, frame limit, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w window.Window, v viewer.Viewer, options ...EngineBuilderOption) Engine {
	if w == nil || v == nil {
		panic("engine: NewEngine requires a Window and a Viewer")
	}

	e := &engine{
		window:   w,
		viewer:   v,
		profiler: profiler.NewProfiler(time.Second),
	}
	e.dirty.Store(true)

	for _, opt := range options {
		opt(e)
	}

	w.SetResizeCallback(func(width, height int) {
		e.viewer.OnResize(width, height)
		e.RequestRedraw()
	})
	w.SetKeyDownCallback(e.HandleKey)
	w.SetDropCallback(e.HandleDrop)
	w.SetUpdateCallback(e.Frame)

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Viewer() viewer.Viewer {
	return e.viewer
}

func (e *engine) Run() {
	defer e.shutdown()
	e.window.ProcessMessages()
}

// Quit signals the window loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		e.window.RequestClose()
	})
}

// shutdown releases the viewer's GPU resources while the context still exists, then the
// renderer, then the window.
func (e *engine) shutdown() {
	e.shutdownOnce.Do(func() {
		e.viewer.Close()
		e.viewer.Scene().Renderer().Release()
		if err := e.window.Close(); err != nil {
			log.Warnf("failed to close window: %v", err)
		}
	})
}

func (e *engine) Frame() {
	e.drainReloads()

	if e.onDemand && !e.dirty.Swap(false) {
		return
	}

	start := time.Now()
	if err := e.viewer.OnFrame(); err != nil {
		log.Debugf("frame: %v", err)
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick(time.Since(start))
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - time.Since(start); remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// drainReloads loads every file the watcher reported since the last iteration.
func (e *engine) drainReloads() {
	for e.reloads != nil {
		select {
		case path, ok := <-e.reloads:
			if !ok {
				e.reloads = nil
				return
			}
			log.Infof("%s changed, reloading", path)
			if _, err := e.viewer.LoadMesh(path); err == nil {
				e.RequestRedraw()
			}
		default:
			return
		}
	}
}

func (e *engine) HandleKey(keyCode uint32) {
	if index, ok := common.VariantKeys[keyCode]; ok {
		e.viewer.SelectShadingVariant(index)
		e.RequestRedraw()
		return
	}

	switch keyCode {
	case common.KeyR:
		if _, err := e.viewer.Reload(); err != nil {
			log.Warnf("reload: %v", err)
			return
		}
		e.RequestRedraw()
	case common.KeyP:
		if e.profilingEnabled {
			e.DisableProfiler()
		} else {
			e.EnableProfiler()
		}
	case common.KeyEsc:
		e.Quit()
	}
}

func (e *engine) HandleDrop(paths []string) {
	if len(paths) == 0 {
		return
	}
	if len(paths) > 1 {
		log.Infof("%d files dropped, loading %s", len(paths), paths[0])
	}
	if _, err := e.viewer.LoadMesh(paths[0]); err != nil {
		return
	}
	e.RequestRedraw()
}

func (e *engine) RequestRedraw() {
	e.dirty.Store(true)
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
	log.Infof("profiler enabled")
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}
