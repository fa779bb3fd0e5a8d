// Package watch rebuilds a Cobra64 program whenever one of its source
// files changes on disk. It wraps fsnotify the same way the teacher
// compiler's virtual filesystem does (see vfs.FSNotifyWatcher): a
// single watcher goroutine normalizes raw fsnotify events onto a
// buffered channel, with a debounce timer collapsing the burst of
// events a single editor save typically produces (write, then chmod,
// then sometimes a rename-into-place) into one rebuild.
package watch

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow matches the 50ms the original watcher coalesced
// rapid-fire filesystem events within.
const debounceWindow = 50 * time.Millisecond

// BuildFunc recompiles the program; the watcher calls it once per
// debounced change and once immediately when Run starts, for the first
// build.
type BuildFunc func()

// Watcher watches a fixed set of source files and invokes a build
// function after each settled change.
type Watcher struct {
	fsw   *fsnotify.Watcher
	paths map[string]bool
	build BuildFunc
	done  chan struct{}
}

// New creates a Watcher over paths (the source files passed to the
// compiler) that calls build after each debounced change. The watcher
// subscribes at the containing directory rather than the individual
// file, so an atomic save (write a temp file, then rename it over the
// original) still produces an event against the watched directory
// even though the original inode was replaced.
func New(paths []string, build BuildFunc) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dirs := map[string]bool{}
	abs := map[string]bool{}
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		abs[a] = true
		dirs[filepath.Dir(a)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}

	return &Watcher{fsw: fsw, paths: abs, build: build, done: make(chan struct{})}, nil
}

// Run blocks, invoking build once immediately and again after every
// debounced batch of changes to a watched source file, until Stop is
// called.
func (w *Watcher) Run() {
	w.build()

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.paths[ev.Name] {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			pending = timer.C

		case <-pending:
			w.build()
			pending = nil

		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}

		case <-w.done:
			return
		}
	}
}

// Stop ends Run's event loop and releases the underlying OS watch.
func (w *Watcher) Stop() {
	close(w.done)
	w.fsw.Close()
}
