package watcher

import "time"

// WatcherBuilderOption is a functional option for configuring a Watcher via NewWatcher.
type WatcherBuilderOption func(*watcher)

// WithDebounce sets how long the watcher waits after the last change before it reports one.
// Zero reports every change as soon as the timer can fire.
//
// Parameters:
//   - d: the debounce window
//
// Returns:
//   - WatcherBuilderOption: a function that applies the debounce option to a watcher
func WithDebounce(d time.Duration) WatcherBuilderOption {
	return func(w *watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithBufferSize sets how many change notifications may wait in Events before new ones are dropped.
//
// Parameters:
//   - n: the channel capacity, at least 1
//
// Returns:
//   - WatcherBuilderOption: a function that applies the buffer size option to a watcher
func WithBufferSize(n int) WatcherBuilderOption {
	return func(w *watcher) {
		if n > 0 {
			w.buffer = n
		}
	}
}
