package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithProfilerInterval sets how often profiling stats are logged.
//
// Parameters:
//   - interval: the reporting interval (default 1s)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfilerInterval(interval time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.profiler = profiler.NewProfiler(interval)
	}
}

// WithRenderFrameLimit sets an optional render frame rate cap in frames per second.
// Pass 0 to uncap the render loop (default).
//
// Parameters:
//   - fps: maximum render frames per second (0 = uncapped)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.SetRenderFrameLimit(fps)
	}
}

// WithOnDemandRendering renders a frame only after something changed (a load, a variant
// switch, a resize) instead of on every loop iteration.
//
// Parameters:
//   - enabled: true for on-demand rendering
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithOnDemandRendering(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.onDemand = enabled
	}
}

// WithReloadEvents sets the channel of changed file paths the engine reloads on the render
// thread, typically watcher.Watcher.Events().
//
// Parameters:
//   - events: the change notifications
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithReloadEvents(events <-chan string) EngineBuilderOption {
	return func(e *engine) {
		e.reloads = events
	}
}
