// Package watcher reports changes to the mesh file on display so the viewer can reload it.
package watcher

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fortio.org/log"
	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	mu sync.Mutex

	fsw      *fsnotify.Watcher
	events   chan string
	done     chan struct{}
	wg       sync.WaitGroup
	debounce time.Duration
	buffer   int

	path string
	dir  string
}

// Watcher watches a single file. The containing directory is watched rather than the file so
// that editors which save by writing a new file and renaming it over the old one are seen.
// Change notifications are produced on a background goroutine and delivered over Events;
// the receiver decides which thread acts on them.
type Watcher interface {
	// Watch starts watching path, replacing the previously watched file.
	//
	// Parameters:
	//   - path: the file to watch
	//
	// Returns:
	//   - error: error if the containing directory cannot be watched
	Watch(path string) error

	// Path returns the watched file, or an empty string.
	//
	// Returns:
	//   - string: the absolute path being watched
	Path() string

	// Events delivers the path of the watched file after it was written or replaced. Bursts of
	// events within the debounce window are coalesced into one.
	//
	// Returns:
	//   - <-chan string: the change notifications
	Events() <-chan string

	// Close stops watching and closes the Events channel.
	//
	// Returns:
	//   - error: error from the underlying fsnotify watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher creates a Watcher with no file watched yet.
//
// Parameters:
//   - options: a variadic list of WatcherBuilderOption functions
//
// Returns:
//   - Watcher: the new watcher
//   - error: error if fsnotify cannot create a watcher
func NewWatcher(options ...WatcherBuilderOption) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &watcher{
		fsw:      fsw,
		done:     make(chan struct{}),
		debounce: 100 * time.Millisecond,
		buffer:   1,
	}
	for _, opt := range options {
		opt(w)
	}
	w.events = make(chan string, w.buffer)

	w.wg.Add(1)
	go w.run()
	return w, nil
}

func (w *watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		if w.dir != "" {
			if err := w.fsw.Remove(w.dir); err != nil {
				log.Debugf("file watcher: failed to stop watching %s: %v", w.dir, err)
			}
		}
		w.dir = dir
	}
	w.path = abs
	log.Debugf("watching %s", abs)
	return nil
}

func (w *watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *watcher) Events() <-chan string {
	return w.events
}

func (w *watcher) Close() error {
	select {
	case <-w.done:
		return nil
	default:
	}
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	close(w.events)
	return err
}

// run forwards matching fsnotify events until Close.
func (w *watcher) run() {
	defer w.wg.Done()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := ""

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			target := w.Path()
			if target == "" || filepath.Clean(event.Name) != target {
				continue
			}
			pending = target
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.events <- pending:
			default:
				// A reload is already queued.
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Warnf("file watcher: %v", err)
		}
	}
}
